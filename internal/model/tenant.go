package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"filerepo/internal/apperr"
)

// Set is a string set. It marshals to a sorted JSON array.
type Set map[string]struct{}

// NewSet builds a set from items, dropping empty strings.
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, it := range items {
		if it != "" {
			s[it] = struct{}{}
		}
	}
	return s
}

// Has reports membership.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Values returns the members in sorted order.
func (s Set) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

func (s *Set) UnmarshalJSON(b []byte) error {
	var items []string
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	*s = NewSet(items...)
	return nil
}

// PolicyInput is the wire form of a tenant policy. Size is given in KB.
type PolicyInput struct {
	MaxFileSizeKB       int64    `json:"maxFileSizeKBytes"`
	AllowedExtensions   []string `json:"allowedExtensions"`
	ForbiddenExtensions []string `json:"forbiddenExtensions"`
	AllowedMIMETypes    []string `json:"allowedMimeTypes"`
	ForbiddenMIMETypes  []string `json:"forbiddenMimeTypes"`
}

// TenantPolicy is the normalized upload policy of one tenant.
// Empty allow-sets impose no restriction; forbid-sets always apply.
type TenantPolicy struct {
	TenantID            int64     `json:"tenant_id"`
	TenantCode          string    `json:"tenant_code"`
	MaxFileSizeBytes    int64     `json:"max_file_size_bytes"`
	AllowedExtensions   Set       `json:"allowed_extensions"`
	ForbiddenExtensions Set       `json:"forbidden_extensions"`
	AllowedMIMETypes    Set       `json:"allowed_mime_types"`
	ForbiddenMIMETypes  Set       `json:"forbidden_mime_types"`
	CreatedAt           time.Time `json:"created_at"`
	ModifiedAt          time.Time `json:"modified_at"`
}

// NewTenantPolicy normalizes in once so validation never re-parses it.
func NewTenantPolicy(in PolicyInput) (TenantPolicy, error) {
	if in.MaxFileSizeKB <= 0 {
		return TenantPolicy{}, apperr.Validation(apperr.RuleInvalidPolicy, fmt.Sprint(in.MaxFileSizeKB), "maxFileSizeKBytes must be positive")
	}
	return TenantPolicy{
		MaxFileSizeBytes:    in.MaxFileSizeKB * 1024,
		AllowedExtensions:   extensionSet(in.AllowedExtensions),
		ForbiddenExtensions: extensionSet(in.ForbiddenExtensions),
		AllowedMIMETypes:    mimeSet(in.AllowedMIMETypes),
		ForbiddenMIMETypes:  mimeSet(in.ForbiddenMIMETypes),
	}, nil
}

// Input converts the policy back to its wire form.
func (p TenantPolicy) Input() PolicyInput {
	return PolicyInput{
		MaxFileSizeKB:       p.MaxFileSizeBytes / 1024,
		AllowedExtensions:   p.AllowedExtensions.Values(),
		ForbiddenExtensions: p.ForbiddenExtensions.Values(),
		AllowedMIMETypes:    p.AllowedMIMETypes.Values(),
		ForbiddenMIMETypes:  p.ForbiddenMIMETypes.Values(),
	}
}

// TenantCode formats the short label derived from a tenant id.
func TenantCode(id int64) string {
	return fmt.Sprintf("TEN%03d", id)
}

// NormalizeExtension lower-cases ext and ensures a leading dot.
// "PDF", ".Pdf" and " pdf " all become ".pdf".
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// NormalizeMIME lower-cases a media type and drops parameters.
func NormalizeMIME(mt string) string {
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

func extensionSet(items []string) Set {
	s := make(Set, len(items))
	for _, it := range items {
		if e := NormalizeExtension(it); e != "" {
			s[e] = struct{}{}
		}
	}
	return s
}

func mimeSet(items []string) Set {
	s := make(Set, len(items))
	for _, it := range items {
		if m := NormalizeMIME(it); m != "" {
			s[m] = struct{}{}
		}
	}
	return s
}
