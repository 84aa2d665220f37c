// Package main implements filerepoctl, an operator CLI that works directly
// against the database and storage configured for the API server.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"filerepo/internal/config"
	"filerepo/internal/database"
	"filerepo/internal/embedding"
	"filerepo/internal/extract"
	"filerepo/internal/index"
	"filerepo/internal/ingest"
	"filerepo/internal/logger"
	"filerepo/internal/repository/sqlstore"
	"filerepo/internal/service"
	"filerepo/internal/storage"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "filerepoctl",
		Short: "Operator CLI for the file repository",
		Long: `filerepoctl runs maintenance tasks against the file repository database
and storage. Configuration is read from the same environment variables
(and optional .env file) as the API server.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newMigrateCmd(), newTenantCmd(), newEmbedCmd(), newSearchCmd())
	return root
}

// runtime holds what the subcommands need. Fields are built lazily so that
// a command only touches the backends it uses.
type runtime struct {
	cfg *config.AppConfig
	log *zap.Logger
	db  *sql.DB
}

func newRuntime() (*runtime, error) {
	cfg := config.Load()
	log, err := logger.New(cfg.Log, nil)
	if err != nil {
		return nil, err
	}
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &runtime{cfg: cfg, log: log, db: db}, nil
}

func (r *runtime) Close() {
	_ = r.db.Close()
	_ = r.log.Sync()
}

func (r *runtime) tenants() service.TenantService {
	return service.NewTenantService(sqlstore.NewTenantStore(r.db), r.log)
}

func (r *runtime) embeddings(ctx context.Context) (service.EmbeddingService, error) {
	store, err := storage.New(r.cfg.Storage, r.cfg.MinIO, r.log)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	provider, err := embedding.NewProvider(ctx, r.cfg.Embedding, r.log)
	if err != nil {
		return nil, fmt.Errorf("init embedding provider: %w", err)
	}
	tenants := sqlstore.NewTenantStore(r.db)
	ix := index.New(provider, sqlstore.NewEmbeddingStore(r.db), nil, r.log)
	files := service.NewFileService(tenants, sqlstore.NewFileStore(r.db), store, ingest.New(r.cfg.Storage.TempPath, r.log), ix, nil, r.log)
	return service.NewEmbeddingService(files, ix, index.NewSearcher(ix), extract.PDF{}, r.cfg.Index.MaxConcurrent, r.log), nil
}

func parseTenantID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid tenant id %q", s)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
