// Package ingest validates uploaded zip archives before they are stored.
package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"filerepo/internal/apperr"
	"filerepo/internal/model"
	"filerepo/internal/storage"
	"filerepo/internal/validator"
)

// CommitFunc persists the archive once every member has passed validation.
type CommitFunc func(ctx context.Context) (*model.FileRecord, error)

// Ingestor extracts archives into a private directory under tempRoot,
// validates every member and only then commits.
type Ingestor struct {
	tempRoot string
	log      *zap.Logger
}

// New returns an Ingestor extracting below tempRoot.
func New(tempRoot string, log *zap.Logger) *Ingestor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ingestor{tempRoot: tempRoot, log: log}
}

type member struct {
	name string
	path string
}

// Ingest is all-or-nothing: if any member fails validation, commit is never
// called. The extraction directory is removed on every exit path.
func (in *Ingestor) Ingest(ctx context.Context, archive []byte, tenantCode string, policy model.TenantPolicy, commit CommitFunc) (*model.FileRecord, error) {
	if int64(len(archive)) > policy.MaxFileSizeBytes {
		return nil, apperr.Validation(apperr.RuleFileTooLarge, "",
			"archive size %d exceeds limit of %d bytes", len(archive), policy.MaxFileSizeBytes)
	}
	if tenantCode == "" || strings.ContainsAny(tenantCode, `/\`) || tenantCode == ".." {
		return nil, apperr.Validation(apperr.RuleInvalidPath, tenantCode, "invalid tenant code")
	}

	parent := filepath.Join(in.tempRoot, tenantCode)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, apperr.Storage("mkdir", parent, err)
	}
	dir, err := os.MkdirTemp(parent, "zip-*")
	if err != nil {
		return nil, apperr.Storage("mkdir", parent, err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			in.log.Warn("extraction cleanup failed", zap.String("dir", dir), zap.Error(err))
		}
	}()

	members, err := in.extract(ctx, archive, dir, policy.MaxFileSizeBytes)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, apperr.Validation(apperr.RuleEmptyArchive, "", "archive contains no files")
	}

	for _, m := range members {
		content, err := os.ReadFile(m.path)
		if err != nil {
			return nil, apperr.Storage("read", m.name, err)
		}
		if err := validator.Validate(content, path.Base(m.name), policy); err != nil {
			var ve *apperr.ValidationError
			if errors.As(err, &ve) {
				return nil, apperr.Validation(ve.Rule, m.name, "archive member %s: %s", m.name, ve.Message)
			}
			return nil, fmt.Errorf("archive member %s: %w", m.name, err)
		}
	}

	in.log.Debug("archive validated", zap.String("tenant_code", tenantCode), zap.Int("members", len(members)))
	return commit(ctx)
}

// extract writes every regular entry below dir. Each entry is copied with a
// cap of limit+1 bytes so an oversized member is detected without being
// fully inflated.
func (in *Ingestor) extract(ctx context.Context, archive []byte, dir string, limit int64) ([]member, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, apperr.Validation(apperr.RuleInvalidArchive, "", "unreadable archive: %v", err)
	}

	var members []member
	seen := make(map[string]struct{}, len(zr.File))
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.FileInfo().IsDir() {
			continue
		}
		name, err := storage.CleanPath(f.Name)
		if err != nil {
			return nil, apperr.Validation(apperr.RuleInvalidArchive, f.Name, "entry escapes extraction directory")
		}
		if !f.Mode().IsRegular() {
			in.log.Debug("skipping non-regular archive entry", zap.String("entry", f.Name))
			continue
		}

		// Two entries landing on one path would hide the first from validation.
		if _, dup := seen[name]; dup {
			return nil, apperr.Validation(apperr.RuleInvalidArchive, f.Name, "duplicate archive entry %s", name)
		}
		seen[name] = struct{}{}

		target := filepath.Join(dir, filepath.FromSlash(name))
		if err := writeEntry(f, target, limit); err != nil {
			return nil, err
		}
		members = append(members, member{name: name, path: target})
	}
	return members, nil
}

func writeEntry(f *zip.File, target string, limit int64) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return apperr.Storage("extract", f.Name, err)
	}
	rc, err := f.Open()
	if err != nil {
		return apperr.Validation(apperr.RuleInvalidArchive, f.Name, "unreadable entry: %v", err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			// e.g. names differing only in case on a case-insensitive disk
			return apperr.Validation(apperr.RuleInvalidArchive, f.Name, "duplicate archive entry %s", f.Name)
		}
		return apperr.Storage("extract", f.Name, err)
	}
	_, err = io.Copy(out, io.LimitReader(rc, limit+1))
	closeErr := out.Close()
	if err != nil {
		if errors.Is(err, zip.ErrChecksum) || errors.Is(err, zip.ErrFormat) || errors.Is(err, io.ErrUnexpectedEOF) {
			return apperr.Validation(apperr.RuleInvalidArchive, f.Name, "corrupt entry: %v", err)
		}
		var pe *fs.PathError
		if errors.As(err, &pe) {
			return apperr.Storage("extract", f.Name, err)
		}
		return apperr.Validation(apperr.RuleInvalidArchive, f.Name, "corrupt entry: %v", err)
	}
	if closeErr != nil {
		return apperr.Storage("extract", f.Name, closeErr)
	}
	return nil
}
