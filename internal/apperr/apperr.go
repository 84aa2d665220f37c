// Package apperr defines the typed errors shared by the core components.
// Validation and not-found errors are caused by the client and safe to
// surface verbatim; storage and provider errors are logged and surfaced
// with a generic message.
package apperr

import (
	"errors"
	"fmt"
)

// Validation rule codes.
const (
	RuleFileTooLarge         = "FILE_TOO_LARGE"
	RuleMIMENotAllowed       = "MIME_NOT_ALLOWED"
	RuleMIMEForbidden        = "MIME_FORBIDDEN"
	RuleExtensionNotAllowed  = "EXTENSION_NOT_ALLOWED"
	RuleExtensionForbidden   = "EXTENSION_FORBIDDEN"
	RuleEmptyArchive         = "EMPTY_ARCHIVE"
	RuleInvalidArchive       = "INVALID_ARCHIVE"
	RuleInvalidPath          = "INVALID_PATH"
	RuleTenantMismatch       = "TENANT_MISMATCH"
	RuleUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	RuleUnreadableDocument   = "UNREADABLE_DOCUMENT"
	RuleInvalidPolicy        = "INVALID_POLICY"
	RuleQueryRequired        = "QUERY_REQUIRED"
	RuleInvalidInput         = "INVALID_INPUT"
	RuleTenantInUse          = "TENANT_IN_USE"
)

// ValidationError reports a policy or input violation.
type ValidationError struct {
	Rule    string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Rule, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Rule, e.Message, e.Value)
}

// Validation builds a ValidationError.
func Validation(rule, value, format string, args ...any) *ValidationError {
	return &ValidationError{Rule: rule, Value: value, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing tenant, file or object.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NotFound builds a NotFoundError.
func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// StorageError wraps a disk, object store or database failure.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Storage builds a StorageError.
func Storage(op, path string, err error) *StorageError {
	return &StorageError{Op: op, Path: path, Err: err}
}

// ProviderError wraps a failed, timed out or malformed embedding call.
// StatusCode is zero when no HTTP response was received.
type ProviderError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Provider builds a ProviderError.
func Provider(op string, status int, err error) *ProviderError {
	return &ProviderError{Op: op, StatusCode: status, Err: err}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err carries a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// HasRule reports whether err carries a ValidationError for rule.
func HasRule(err error, rule string) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Rule == rule
}
