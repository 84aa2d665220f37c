package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var postgresSteps = []migrationStep{
	{
		Name: "create_table_tenants",
		SQL: `CREATE TABLE IF NOT EXISTS tenants (
  tenant_id   BIGSERIAL   PRIMARY KEY,
  tenant_code TEXT        NOT NULL UNIQUE,
  policy      TEXT        NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  modified_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_files",
		SQL: `CREATE TABLE IF NOT EXISTS files (
  id           TEXT        PRIMARY KEY,
  tenant_id    BIGINT      NOT NULL REFERENCES tenants (tenant_id),
  file_name    TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  media_type   TEXT        NOT NULL,
  size_bytes   BIGINT      NOT NULL CHECK (size_bytes >= 0),
  tag          TEXT,
  metadata     TEXT,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  modified_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_files_tenant_modified",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_files_tenant_modified ON files (tenant_id, modified_at);`,
	},
	{
		Name: "create_table_embeddings",
		SQL: `CREATE TABLE IF NOT EXISTS embeddings (
  file_id    TEXT        NOT NULL REFERENCES files (id) ON DELETE CASCADE,
  page_index INTEGER     NOT NULL CHECK (page_index >= 1),
  ocr_text   TEXT        NOT NULL,
  vector     BYTEA       NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (file_id, page_index)
);`,
	},
}

var sqliteSteps = []migrationStep{
	{
		Name: "create_table_tenants",
		SQL: `CREATE TABLE IF NOT EXISTS tenants (
  tenant_id   INTEGER  PRIMARY KEY AUTOINCREMENT,
  tenant_code TEXT     NOT NULL UNIQUE,
  policy      TEXT     NOT NULL,
  created_at  DATETIME NOT NULL,
  modified_at DATETIME NOT NULL
);`,
	},
	{
		Name: "create_table_files",
		SQL: `CREATE TABLE IF NOT EXISTS files (
  id           TEXT     PRIMARY KEY,
  tenant_id    INTEGER  NOT NULL REFERENCES tenants (tenant_id),
  file_name    TEXT     NOT NULL,
  storage_path TEXT     NOT NULL UNIQUE,
  media_type   TEXT     NOT NULL,
  size_bytes   INTEGER  NOT NULL CHECK (size_bytes >= 0),
  tag          TEXT,
  metadata     TEXT,
  created_at   DATETIME NOT NULL,
  modified_at  DATETIME NOT NULL
);`,
	},
	{
		Name: "create_index_files_tenant_modified",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_files_tenant_modified ON files (tenant_id, modified_at);`,
	},
	{
		Name: "create_table_embeddings",
		SQL: `CREATE TABLE IF NOT EXISTS embeddings (
  file_id    TEXT     NOT NULL REFERENCES files (id) ON DELETE CASCADE,
  page_index INTEGER  NOT NULL CHECK (page_index >= 1),
  ocr_text   TEXT     NOT NULL,
  vector     BLOB     NOT NULL,
  created_at DATETIME NOT NULL,
  updated_at DATETIME NOT NULL,
  PRIMARY KEY (file_id, page_index)
);`,
	},
}

// sentinel queries report whether the last table of the schema exists.
var sentinels = map[string]string{
	"postgres": "SELECT to_regclass('public.embeddings') IS NOT NULL",
	"sqlite":   "SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'embeddings')",
}

func stepsFor(dialect string) ([]migrationStep, string, error) {
	switch dialect {
	case "", "postgres":
		return postgresSteps, sentinels["postgres"], nil
	case "sqlite":
		return sqliteSteps, sentinels["sqlite"], nil
	default:
		return nil, "", fmt.Errorf("unsupported migration dialect: %s", dialect)
	}
}

// EnsureMigrated checks if the 'embeddings' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, dialect string, log *zap.Logger) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("dialect", dialect))

	steps, sentinel, err := stepsFor(dialect)
	if err != nil {
		return err
	}

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	if err := db.QueryRowContext(ctx, sentinel).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("reason", "schema already exists, skipping migration"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return nil
}
