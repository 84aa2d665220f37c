package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"filerepo/internal/apperr"
	"filerepo/internal/model"
	"filerepo/internal/repository"
)

// TenantStore is the SQL implementation of repository.TenantRepository.
type TenantStore struct {
	db  *sql.DB
	now clock
}

// NewTenantStore creates a new TenantStore.
func NewTenantStore(db *sql.DB) *TenantStore {
	return &TenantStore{db: db, now: utcNow}
}

var _ repository.TenantRepository = (*TenantStore)(nil)

// policyColumn is the JSON stored in tenants.policy.
type policyColumn struct {
	MaxFileSizeBytes    int64    `json:"maxFileSizeBytes"`
	AllowedExtensions   []string `json:"allowedExtensions"`
	ForbiddenExtensions []string `json:"forbiddenExtensions"`
	AllowedMIMETypes    []string `json:"allowedMimeTypes"`
	ForbiddenMIMETypes  []string `json:"forbiddenMimeTypes"`
}

func encodePolicy(p *model.TenantPolicy) (string, error) {
	b, err := json.Marshal(policyColumn{
		MaxFileSizeBytes:    p.MaxFileSizeBytes,
		AllowedExtensions:   p.AllowedExtensions.Values(),
		ForbiddenExtensions: p.ForbiddenExtensions.Values(),
		AllowedMIMETypes:    p.AllowedMIMETypes.Values(),
		ForbiddenMIMETypes:  p.ForbiddenMIMETypes.Values(),
	})
	if err != nil {
		return "", fmt.Errorf("encode policy: %w", err)
	}
	return string(b), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (*model.TenantPolicy, error) {
	var (
		p   model.TenantPolicy
		raw []byte
		pc  policyColumn
	)
	if err := row.Scan(&p.TenantID, &p.TenantCode, &raw, &p.CreatedAt, &p.ModifiedAt); err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &pc); err != nil {
			return nil, fmt.Errorf("decode policy of tenant %d: %w", p.TenantID, err)
		}
	}
	// stored values were normalized on the way in
	p.MaxFileSizeBytes = pc.MaxFileSizeBytes
	p.AllowedExtensions = model.NewSet(pc.AllowedExtensions...)
	p.ForbiddenExtensions = model.NewSet(pc.ForbiddenExtensions...)
	p.AllowedMIMETypes = model.NewSet(pc.AllowedMIMETypes...)
	p.ForbiddenMIMETypes = model.NewSet(pc.ForbiddenMIMETypes...)
	return &p, nil
}

// Create inserts the tenant under a temporary code, then replaces it with
// the code derived from the assigned id, in one transaction.
func (s *TenantStore) Create(ctx context.Context, p *model.TenantPolicy) (*model.TenantPolicy, error) {
	policy, err := encodePolicy(p)
	if err != nil {
		return nil, err
	}
	now := s.now()
	tmpCode := "TMP" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const qInsert = `
		INSERT INTO tenants (tenant_code, policy, created_at, modified_at)
		VALUES ($1, $2, $3, $4)
		RETURNING tenant_id
	`
	var id int64
	if err := tx.QueryRowContext(ctx, qInsert, tmpCode, policy, now, now).Scan(&id); err != nil {
		return nil, fmt.Errorf("insert tenant: %w", err)
	}

	const qCode = `UPDATE tenants SET tenant_code = $1 WHERE tenant_id = $2`
	code := model.TenantCode(id)
	if _, err := tx.ExecContext(ctx, qCode, code, id); err != nil {
		return nil, fmt.Errorf("assign tenant code: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tenant: %w", err)
	}

	out := *p
	out.TenantID = id
	out.TenantCode = code
	out.CreatedAt = now
	out.ModifiedAt = now
	return &out, nil
}

// FindByID fetches a single tenant by its ID.
func (s *TenantStore) FindByID(ctx context.Context, id int64) (*model.TenantPolicy, error) {
	const q = `
		SELECT tenant_id, tenant_code, policy, created_at, modified_at
		FROM tenants
		WHERE tenant_id = $1
	`
	p, err := scanTenant(s.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("tenant", strconv.FormatInt(id, 10))
		}
		return nil, err
	}
	return p, nil
}

// List returns every tenant ordered by id.
func (s *TenantStore) List(ctx context.Context) ([]model.TenantPolicy, error) {
	const q = `
		SELECT tenant_id, tenant_code, policy, created_at, modified_at
		FROM tenants
		ORDER BY tenant_id
	`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.TenantPolicy, 0)
	for rows.Next() {
		p, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update replaces the stored policy of p.TenantID.
func (s *TenantStore) Update(ctx context.Context, p *model.TenantPolicy) (*model.TenantPolicy, error) {
	policy, err := encodePolicy(p)
	if err != nil {
		return nil, err
	}
	const q = `
		UPDATE tenants SET policy = $1, modified_at = $2
		WHERE tenant_id = $3
		RETURNING tenant_id, tenant_code, policy, created_at, modified_at
	`
	out, err := scanTenant(s.db.QueryRowContext(ctx, q, policy, s.now(), p.TenantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("tenant", strconv.FormatInt(p.TenantID, 10))
		}
		return nil, err
	}
	return out, nil
}

// Delete removes a tenant by ID. A missing row is not an error; a tenant
// that still owns files is kept and reported as TENANT_IN_USE.
func (s *TenantStore) Delete(ctx context.Context, id int64) error {
	const q = `
		DELETE FROM tenants
		WHERE tenant_id = $1
		  AND NOT EXISTS (SELECT 1 FROM files WHERE files.tenant_id = $1)
	`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil || n > 0 {
		return err
	}

	const qFiles = `SELECT EXISTS (SELECT 1 FROM files WHERE tenant_id = $1)`
	var inUse bool
	if err := s.db.QueryRowContext(ctx, qFiles, id).Scan(&inUse); err != nil {
		return err
	}
	if inUse {
		return apperr.Validation(apperr.RuleTenantInUse, strconv.FormatInt(id, 10), "tenant %d still owns files", id)
	}
	return nil
}
