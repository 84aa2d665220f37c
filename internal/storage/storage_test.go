package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"filerepo/internal/apperr"
	"filerepo/internal/config"
	"filerepo/internal/validator"
)

var fixedNow = time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)

func newTestLocal(t *testing.T) (*localStorage, string) {
	t.Helper()
	root := t.TempDir()
	s, err := NewLocal(root, zap.NewNop())
	require.NoError(t, err)
	ls := s.(*localStorage)
	ls.now = func() time.Time { return fixedNow }
	return ls, ls.root
}

func TestObjectPath(t *testing.T) {
	tests := []struct {
		name         string
		tenantCode   string
		fileID       string
		originalName string
		want         string
		wantErr      bool
	}{
		{name: "keeps extension case", tenantCode: "TEN001", fileID: "CF_FR_1", originalName: "Report.PDF", want: "TEN001/2024_02/CF_FR_1.PDF"},
		{name: "no extension", tenantCode: "TEN001", fileID: "CF_FR_1", originalName: "README", want: "TEN001/2024_02/CF_FR_1"},
		{name: "traversal in name only yields extension", tenantCode: "TEN001", fileID: "CF_FR_1", originalName: "../../etc/passwd.txt", want: "TEN001/2024_02/CF_FR_1.txt"},
		{name: "dotfile keeps its name as extension", tenantCode: "TEN001", fileID: "CF_FR_1", originalName: ".env", want: "TEN001/2024_02/CF_FR_1.env"},
		{name: "trailing dot has no extension", tenantCode: "TEN001", fileID: "CF_FR_1", originalName: "notes.", want: "TEN001/2024_02/CF_FR_1"},
		{name: "tenant code with slash", tenantCode: "../TEN001", fileID: "CF_FR_1", originalName: "a.pdf", wantErr: true},
		{name: "dot-dot file id", tenantCode: "TEN001", fileID: "..", originalName: "a.pdf", wantErr: true},
		{name: "empty file id", tenantCode: "TEN001", fileID: "", originalName: "a.pdf", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ObjectPath(tt.tenantCode, tt.fileID, tt.originalName, fixedNow)
			if tt.wantErr {
				assert.True(t, apperr.HasRule(err, apperr.RuleInvalidPath))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanPath(t *testing.T) {
	ok := map[string]string{
		"TEN001/2024_02/a.pdf":      "TEN001/2024_02/a.pdf",
		"TEN001/./2024_02//a.pdf":   "TEN001/2024_02/a.pdf",
		`TEN001\2024_02\a.pdf`:      "TEN001/2024_02/a.pdf",
		"TEN001/x/../2024_02/a.pdf": "TEN001/2024_02/a.pdf",
	}
	for in, want := range ok {
		got, err := CleanPath(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, bad := range []string{"", "  ", "/etc/passwd", "..", "../secret", "TEN001/../../secret", `C:\windows`, `..\..\x`} {
		_, err := CleanPath(bad)
		assert.True(t, apperr.HasRule(err, apperr.RuleInvalidPath), bad)
	}
}

func TestLocalStorage_SaveLoadDelete(t *testing.T) {
	s, root := newTestLocal(t)
	ctx := context.Background()

	rel, err := s.Save(ctx, strings.NewReader("hello pdf"), 9, "TEN001", "CF_FR_1_20240215_100000_abcdef", "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "TEN001/2024_02/CF_FR_1_20240215_100000_abcdef.pdf", rel)

	full, err := s.Resolve(rel)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(full, root))
	b, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "hello pdf", string(b))

	rc, err := s.Load(ctx, rel)
	require.NoError(t, err)
	got, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "hello pdf", string(got))

	require.NoError(t, s.Delete(ctx, rel))
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))

	// second delete is a no-op
	assert.NoError(t, s.Delete(ctx, rel))

	_, err = s.Load(ctx, rel)
	assert.True(t, apperr.IsNotFound(err))
}

type failingReader struct{ n int }

func (r *failingReader) Read(p []byte) (int, error) {
	if r.n > 0 {
		k := copy(p, strings.Repeat("x", r.n))
		r.n -= k
		return k, nil
	}
	return 0, errors.New("connection reset")
}

func TestLocalStorage_SaveFailureLeavesNothing(t *testing.T) {
	s, root := newTestLocal(t)

	_, err := s.Save(context.Background(), &failingReader{n: 16}, -1, "TEN001", "CF_FR_1", "a.pdf")
	var se *apperr.StorageError
	require.ErrorAs(t, err, &se)

	entries, err := os.ReadDir(filepath.Join(root, "TEN001", "2024_02"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStorage_SaveShortWrite(t *testing.T) {
	s, root := newTestLocal(t)

	_, err := s.Save(context.Background(), strings.NewReader("abc"), 10, "TEN001", "CF_FR_1", "a.txt")
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(root, "TEN001", "2024_02", "CF_FR_1.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLocalStorage_SaveCanceledContext(t *testing.T) {
	s, root := newTestLocal(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Save(ctx, strings.NewReader("abc"), 3, "TEN001", "CF_FR_1", "a.txt")
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(root, "TEN001", "2024_02", "CF_FR_1.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLocalStorage_ResolveRejectsEscape(t *testing.T) {
	s, _ := newTestLocal(t)
	for _, p := range []string{"../outside.txt", "/abs/path", "a/../../b"} {
		_, err := s.Resolve(p)
		assert.True(t, apperr.HasRule(err, apperr.RuleInvalidPath), p)
		assert.True(t, apperr.HasRule(s.Delete(context.Background(), p), apperr.RuleInvalidPath), p)
	}
}

func TestLocalStorage_ConcurrentFirstWriters(t *testing.T) {
	s, root := newTestLocal(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := fmt.Sprintf("file-%d", i)
			_, err := s.Save(ctx, strings.NewReader(body), int64(len(body)), "TEN009", fmt.Sprintf("CF_FR_9_%d", i), "f.txt")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	entries, err := os.ReadDir(filepath.Join(root, "TEN009", "2024_02"))
	require.NoError(t, err)
	assert.Len(t, entries, 16)
}

func TestNew(t *testing.T) {
	s, err := New(config.StorageConfig{Driver: "local", BasePath: t.TempDir()}, config.MinIOConfig{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &localStorage{}, s)

	_, err = New(config.StorageConfig{Driver: "ftp"}, config.MinIOConfig{}, nil)
	assert.EqualError(t, err, "unsupported storage driver: ftp")

	_, err = New(config.StorageConfig{Driver: "minio"}, config.MinIOConfig{}, nil)
	assert.EqualError(t, err, "minio endpoint is required")
}

func TestNewMinIO_Validation(t *testing.T) {
	_, err := NewMinIO(config.MinIOConfig{Endpoint: "localhost:9000"}, nil)
	assert.EqualError(t, err, "minio credentials are required")

	_, err = NewMinIO(config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"}, nil)
	assert.EqualError(t, err, "minio bucket is required")
}

func TestMinioStorage_Resolve(t *testing.T) {
	m := &minioStorage{bucket: "files"}
	got, err := m.Resolve("TEN001/2024_02/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "files/TEN001/2024_02/a.pdf", got)

	_, err = m.Resolve("../a.pdf")
	assert.True(t, apperr.HasRule(err, apperr.RuleInvalidPath))
}

func TestObjectPath_ExtensionMatchesValidator(t *testing.T) {
	for _, name := range []string{"a.pdf", "Report.PDF", ".env", "README", "notes.", "dir/x.tar.gz"} {
		got, err := ObjectPath("TEN001", "CF_FR_1", name, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, validator.Extension(name), strings.ToLower(strings.TrimPrefix(got, "TEN001/2024_02/CF_FR_1")), name)
	}
}
