// Package extract pulls per-page plain text out of documents.
package extract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"filerepo/internal/apperr"
	"filerepo/internal/model"
)

// PageExtractor returns the text of every page, 1-indexed.
type PageExtractor interface {
	Pages(ctx context.Context, content []byte) ([]model.PageText, error)
}

// PDF extracts text from PDF documents. Pages without a text layer yield
// an empty string rather than an error.
type PDF struct{}

func (PDF) Pages(ctx context.Context, content []byte) (pages []model.PageText, err error) {
	// the parser panics on some malformed object graphs
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = apperr.Validation(apperr.RuleUnreadableDocument, "", "malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, apperr.Validation(apperr.RuleUnreadableDocument, "", "cannot open pdf: %v", err)
	}

	n := r.NumPage()
	pages = make([]model.PageText, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, model.PageText{PageIndex: i})
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, apperr.Validation(apperr.RuleUnreadableDocument, fmt.Sprint(i), "cannot read page %d: %v", i, err)
		}
		pages = append(pages, model.PageText{PageIndex: i, Text: text})
	}
	return pages, nil
}
