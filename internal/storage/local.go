package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"filerepo/internal/apperr"
)

// localStorage keeps objects on the local filesystem below root.
// It is safe for concurrent use.
type localStorage struct {
	root string
	log  *zap.Logger
	now  func() time.Time
}

// NewLocal creates the root directory if needed.
func NewLocal(basePath string, log *zap.Logger) (Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("storage base path is required")
	}
	root, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &localStorage{root: root, log: log, now: time.Now}, nil
}

func (s *localStorage) Resolve(relPath string) (string, error) {
	c, err := CleanPath(relPath)
	if err != nil {
		return "", err
	}
	full := filepath.Join(s.root, filepath.FromSlash(c))
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", apperr.Validation(apperr.RuleInvalidPath, relPath, "path escapes storage root")
	}
	return full, nil
}

func (s *localStorage) Save(ctx context.Context, r io.Reader, size int64, tenantCode, fileID, originalName string) (string, error) {
	rel, err := ObjectPath(tenantCode, fileID, originalName, s.now())
	if err != nil {
		return "", err
	}
	full, err := s.Resolve(rel)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperr.Storage("mkdir", rel, err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", apperr.Storage("save", rel, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				s.log.Warn("temp file cleanup failed", zap.String("path", tmpName), zap.Error(rmErr))
			}
		}
	}()

	n, err := io.Copy(tmp, r)
	if err != nil {
		return "", apperr.Storage("save", rel, err)
	}
	if size >= 0 && n != size {
		return "", apperr.Storage("save", rel, fmt.Errorf("wrote %d of %d bytes", n, size))
	}
	if err := tmp.Sync(); err != nil {
		return "", apperr.Storage("save", rel, err)
	}
	if err := tmp.Close(); err != nil {
		return "", apperr.Storage("save", rel, err)
	}
	if err := ctx.Err(); err != nil {
		return "", apperr.Storage("save", rel, err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		return "", apperr.Storage("save", rel, err)
	}
	committed = true

	s.log.Debug("object stored", zap.String("path", rel), zap.Int64("size", n))
	return rel, nil
}

func (s *localStorage) Load(_ context.Context, relPath string) (io.ReadCloser, error) {
	full, err := s.Resolve(relPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NotFound("object", relPath)
		}
		return nil, apperr.Storage("load", relPath, err)
	}
	return f, nil
}

func (s *localStorage) Delete(_ context.Context, relPath string) error {
	full, err := s.Resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("object already absent", zap.String("path", relPath))
			return nil
		}
		return apperr.Storage("delete", relPath, err)
	}
	return nil
}
