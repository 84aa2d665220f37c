package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"filerepo/internal/apperr"
	"filerepo/internal/config"
)

// Storage owns the byte layout of tenant files. Paths handed in and out are
// relative to the storage root and use forward slashes.
type Storage interface {
	// Save writes r under {tenantCode}/{yyyy_MM}/{fileID}{ext} and returns the
	// relative path. Readers never observe a partially written object.
	Save(ctx context.Context, r io.Reader, size int64, tenantCode, fileID, originalName string) (string, error)
	// Load opens a stored object. A missing object is an *apperr.NotFoundError.
	Load(ctx context.Context, relPath string) (io.ReadCloser, error)
	// Delete removes an object. Deleting an absent object is not an error.
	Delete(ctx context.Context, relPath string) error
	// Resolve maps a relative path to its backend location, rejecting any
	// path that would escape the root.
	Resolve(relPath string) (string, error)
}

// New selects the backend named by cfg.Driver.
func New(cfg config.StorageConfig, mcfg config.MinIOConfig, log *zap.Logger) (Storage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.BasePath, log)
	case "minio":
		return NewMinIO(mcfg, log)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

// ObjectPath builds the relative path of a new object. The extension of
// originalName keeps its case and is omitted when there is none.
func ObjectPath(tenantCode, fileID, originalName string, now time.Time) (string, error) {
	if err := checkSegment("tenant code", tenantCode); err != nil {
		return "", err
	}
	if err := checkSegment("file id", fileID); err != nil {
		return "", err
	}
	name := fileID
	if ext := originalExt(originalName); ext != "" {
		name += ext
	}
	return path.Join(tenantCode, now.Format("2006_01"), name), nil
}

// CleanPath normalizes relPath and rejects empty, absolute and escaping paths.
func CleanPath(relPath string) (string, error) {
	p := strings.ReplaceAll(relPath, "\\", "/")
	if strings.TrimSpace(p) == "" {
		return "", apperr.Validation(apperr.RuleInvalidPath, relPath, "path is empty")
	}
	if path.IsAbs(p) || (len(p) >= 2 && p[1] == ':') {
		return "", apperr.Validation(apperr.RuleInvalidPath, relPath, "path must be relative")
	}
	c := path.Clean(p)
	if c == "." || c == ".." || strings.HasPrefix(c, "../") {
		return "", apperr.Validation(apperr.RuleInvalidPath, relPath, "path escapes storage root")
	}
	return c, nil
}

func checkSegment(what, s string) error {
	if s == "" || s == "." || s == ".." || strings.ContainsAny(s, "/\\") {
		return apperr.Validation(apperr.RuleInvalidPath, s, "invalid %s", what)
	}
	return nil
}

func originalExt(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	i := strings.LastIndexByte(base, '.')
	if i < 0 || i == len(base)-1 {
		return ""
	}
	return base[i:]
}
