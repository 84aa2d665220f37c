// Package validator enforces a tenant policy against file content.
package validator

import (
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"filerepo/internal/apperr"
	"filerepo/internal/model"
)

const fallbackMIME = "application/octet-stream"

// Validate checks content against policy in a fixed order: size, detected
// MIME type, then the extension of declaredName. The first failing rule is
// returned as a *apperr.ValidationError. The same inputs always yield the
// same verdict.
func Validate(content []byte, declaredName string, policy model.TenantPolicy) error {
	if int64(len(content)) > policy.MaxFileSizeBytes {
		return apperr.Validation(apperr.RuleFileTooLarge, declaredName,
			"file size %d exceeds limit of %d bytes", len(content), policy.MaxFileSizeBytes)
	}

	mt := DetectMIME(content)
	if len(policy.AllowedMIMETypes) > 0 && !policy.AllowedMIMETypes.Has(mt) {
		return apperr.Validation(apperr.RuleMIMENotAllowed, mt, "mime type %s is not allowed", mt)
	}
	if policy.ForbiddenMIMETypes.Has(mt) {
		return apperr.Validation(apperr.RuleMIMEForbidden, mt, "mime type %s is forbidden", mt)
	}

	ext := Extension(declaredName)
	if len(policy.AllowedExtensions) > 0 && !policy.AllowedExtensions.Has(ext) {
		return apperr.Validation(apperr.RuleExtensionNotAllowed, ext, "extension %q is not allowed", ext)
	}
	if policy.ForbiddenExtensions.Has(ext) {
		return apperr.Validation(apperr.RuleExtensionForbidden, ext, "extension %q is forbidden", ext)
	}
	return nil
}

// Extension returns the lower-cased, dot-prefixed extension of the base
// name, or "" when there is none.
func Extension(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	i := strings.LastIndexByte(base, '.')
	if i < 0 || i == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[i:])
}

// DetectMIME sniffs the media type of content, without parameters.
func DetectMIME(content []byte) string {
	m := mimetype.Detect(content)
	if m == nil {
		return fallbackMIME
	}
	return model.NormalizeMIME(m.String())
}

// DetectMIMEFile sniffs the media type of the file at p.
func DetectMIMEFile(p string) string {
	m, err := mimetype.DetectFile(p)
	if err != nil || m == nil {
		return fallbackMIME
	}
	return model.NormalizeMIME(m.String())
}
