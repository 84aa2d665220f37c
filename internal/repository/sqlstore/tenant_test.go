package sqlstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filerepo/internal/apperr"
	"filerepo/internal/model"
)

var tenantColumns = []string{"tenant_id", "tenant_code", "policy", "created_at", "modified_at"}

func fixedClock(t time.Time) clock {
	return func() time.Time { return t }
}

func TestTenantStore_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	repo := NewTenantStore(db)
	repo.now = fixedClock(now)

	policy := &model.TenantPolicy{
		MaxFileSizeBytes:  2048,
		AllowedExtensions: model.NewSet("pdf", "txt"),
	}
	encoded, err := encodePolicy(policy)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO tenants").
		WithArgs(sqlmock.AnyArg(), encoded, now, now).
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id"}).AddRow(7))
	mock.ExpectExec("UPDATE tenants SET tenant_code").
		WithArgs("TEN007", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	out, err := repo.Create(context.Background(), policy)

	require.NoError(t, err)
	assert.Equal(t, int64(7), out.TenantID)
	assert.Equal(t, "TEN007", out.TenantCode)
	assert.Equal(t, now, out.CreatedAt)
	assert.Empty(t, policy.TenantCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantStore_Create_InsertFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTenantStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO tenants").WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	out, err := repo.Create(context.Background(), &model.TenantPolicy{MaxFileSizeBytes: 1024})

	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Nil(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantStore_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTenantStore(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		raw := `{"maxFileSizeBytes":1024,"allowedExtensions":["pdf"],"forbiddenExtensions":["exe"],"allowedMimeTypes":[],"forbiddenMimeTypes":null}`
		rows := sqlmock.NewRows(tenantColumns).AddRow(3, "TEN003", raw, time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM tenants WHERE tenant_id = ?").
			WithArgs(int64(3)).
			WillReturnRows(rows)

		p, err := repo.FindByID(ctx, 3)

		require.NoError(t, err)
		assert.Equal(t, "TEN003", p.TenantCode)
		assert.Equal(t, int64(1024), p.MaxFileSizeBytes)
		assert.True(t, p.AllowedExtensions.Has("pdf"))
		assert.True(t, p.ForbiddenExtensions.Has("exe"))
		assert.Empty(t, p.ForbiddenMIMETypes)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM tenants WHERE tenant_id = ?").
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		p, err := repo.FindByID(ctx, 99)

		assert.True(t, apperr.IsNotFound(err))
		assert.Nil(t, p)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantStore_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTenantStore(db)

	rows := sqlmock.NewRows(tenantColumns).
		AddRow(1, "TEN001", `{"maxFileSizeBytes":1024}`, time.Now(), time.Now()).
		AddRow(2, "TEN002", `{"maxFileSizeBytes":2048}`, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM tenants ORDER BY tenant_id").WillReturnRows(rows)

	items, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "TEN002", items[1].TenantCode)
	assert.Equal(t, int64(2048), items[1].MaxFileSizeBytes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantStore_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	repo := NewTenantStore(db)
	repo.now = fixedClock(now)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		p := &model.TenantPolicy{TenantID: 4, MaxFileSizeBytes: 4096}
		encoded, err := encodePolicy(p)
		require.NoError(t, err)

		mock.ExpectQuery("UPDATE tenants SET policy").
			WithArgs(encoded, now, int64(4)).
			WillReturnRows(sqlmock.NewRows(tenantColumns).AddRow(4, "TEN004", encoded, now, now))

		out, err := repo.Update(ctx, p)

		require.NoError(t, err)
		assert.Equal(t, "TEN004", out.TenantCode)
		assert.Equal(t, int64(4096), out.MaxFileSizeBytes)
	})

	t.Run("missing tenant", func(t *testing.T) {
		mock.ExpectQuery("UPDATE tenants SET policy").WillReturnError(sql.ErrNoRows)

		out, err := repo.Update(ctx, &model.TenantPolicy{TenantID: 5, MaxFileSizeBytes: 1})

		assert.True(t, apperr.IsNotFound(err))
		assert.Nil(t, out)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantStore_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTenantStore(db)

	t.Run("deleted", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM tenants WHERE tenant_id = \$1 AND NOT EXISTS`).
			WithArgs(int64(8)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), 8))
	})

	t.Run("still owns files", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM tenants`).
			WithArgs(int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM files WHERE tenant_id = \$1\)`).
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := repo.Delete(context.Background(), 9)
		assert.True(t, apperr.HasRule(err, apperr.RuleTenantInUse), "got %v", err)
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM tenants`).
			WithArgs(int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		assert.NoError(t, repo.Delete(context.Background(), 10))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
