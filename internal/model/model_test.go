package model

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filerepo/internal/apperr"
)

func TestNewTenantPolicy(t *testing.T) {
	p, err := NewTenantPolicy(PolicyInput{
		MaxFileSizeKB:       100,
		AllowedExtensions:   []string{"PDF", ".Docx", " txt ", ""},
		ForbiddenExtensions: []string{"exe"},
		AllowedMIMETypes:    []string{"Application/PDF", "text/plain; charset=utf-8"},
		ForbiddenMIMETypes:  []string{"application/x-msdownload"},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(100*1024), p.MaxFileSizeBytes)
	assert.Equal(t, []string{".docx", ".pdf", ".txt"}, p.AllowedExtensions.Values())
	assert.True(t, p.ForbiddenExtensions.Has(".exe"))
	assert.Equal(t, []string{"application/pdf", "text/plain"}, p.AllowedMIMETypes.Values())
	assert.True(t, p.ForbiddenMIMETypes.Has("application/x-msdownload"))
}

func TestNewTenantPolicy_InvalidSize(t *testing.T) {
	for _, kb := range []int64{0, -5} {
		_, err := NewTenantPolicy(PolicyInput{MaxFileSizeKB: kb})
		assert.True(t, apperr.HasRule(err, apperr.RuleInvalidPolicy))
	}
}

func TestTenantPolicy_InputRoundTrip(t *testing.T) {
	in := PolicyInput{
		MaxFileSizeKB:       10,
		AllowedExtensions:   []string{".pdf"},
		ForbiddenExtensions: []string{},
		AllowedMIMETypes:    []string{},
		ForbiddenMIMETypes:  []string{"text/html"},
	}
	p, err := NewTenantPolicy(in)
	require.NoError(t, err)
	assert.Equal(t, in, p.Input())
}

func TestSet_JSON(t *testing.T) {
	b, err := json.Marshal(NewSet(".pdf", ".csv"))
	require.NoError(t, err)
	assert.JSONEq(t, `[".csv",".pdf"]`, string(b))

	var s Set
	require.NoError(t, json.Unmarshal([]byte(`["a","b","a"]`), &s))
	assert.Len(t, s, 2)
	assert.True(t, s.Has("a"))
}

func TestNormalizeExtension(t *testing.T) {
	cases := map[string]string{
		"PDF":   ".pdf",
		".Pdf":  ".pdf",
		" pdf ": ".pdf",
		"":      "",
		".":     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeExtension(in), in)
	}
}

func TestNormalizeMIME(t *testing.T) {
	assert.Equal(t, "text/plain", NormalizeMIME("Text/Plain; charset=UTF-8"))
	assert.Equal(t, "application/pdf", NormalizeMIME(" application/pdf "))
}

func TestTenantCode(t *testing.T) {
	assert.Equal(t, "TEN001", TenantCode(1))
	assert.Equal(t, "TEN042", TenantCode(42))
	assert.Equal(t, "TEN1234", TenantCode(1234))
}

func TestNewFileID(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	id := NewFileID(7, now)

	assert.Regexp(t, regexp.MustCompile(`^CF_FR_7_20240309_140507_[0-9a-f]{6}$`), id)
	assert.NotEqual(t, id, NewFileID(7, now))
}

func TestNewFileRecord(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	rec := NewFileRecord(3, "a.pdf", "application/pdf", 10, now)

	assert.Equal(t, int64(3), rec.TenantID)
	assert.Equal(t, now, rec.ModifiedAt)
	assert.Empty(t, rec.StoragePath)
	assert.Contains(t, rec.ID, "CF_FR_3_20240309_140507_")
}
