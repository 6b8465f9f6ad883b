// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"fmt"

	"github.com/tsawler/tabula"
	"github.com/tsawler/tabula/reader"
)

// TabulaBackend assembles page text from positioned fragments with
// github.com/tsawler/tabula. It copes better than the plain text layer with
// character-level and multi-column PDFs.
type TabulaBackend struct{}

func (TabulaBackend) Name() string { return "tabula" }

func (TabulaBackend) Open(path string) (Document, error) {
	r, err := reader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	n, err := r.PageCount()
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("counting pages of %s: %w", path, err)
	}
	return &tabulaDoc{reader: r, pages: n}, nil
}

type tabulaDoc struct {
	reader *reader.Reader
	pages  int
}

func (d *tabulaDoc) NumPages() int { return d.pages }

func (d *tabulaDoc) PageText(n int) (string, error) {
	if err := checkPage(n, d.pages); err != nil {
		return "", err
	}
	// FromReader leaves the reader open; the document owns it.
	text, _, err := tabula.FromReader(d.reader).Pages(n).Text()
	if err != nil {
		return "", fmt.Errorf("reading page %d: %w", n, err)
	}
	return text, nil
}

func (d *tabulaDoc) Close() error { return d.reader.Close() }
