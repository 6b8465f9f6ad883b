// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// LedongthucBackend reads the embedded text layer with github.com/ledongthuc/pdf.
// Scanned pages without a text layer come back empty.
type LedongthucBackend struct{}

func (LedongthucBackend) Name() string { return "ledongthuc" }

func (LedongthucBackend) Open(path string) (Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	return &ledongthucDoc{file: f, reader: r}, nil
}

type ledongthucDoc struct {
	file   *os.File
	reader *pdf.Reader
}

func (d *ledongthucDoc) NumPages() int { return d.reader.NumPage() }

func (d *ledongthucDoc) PageText(n int) (string, error) {
	if err := checkPage(n, d.NumPages()); err != nil {
		return "", err
	}
	p := d.reader.Page(n)
	if p.V.IsNull() || p.V.Key("Contents").IsNull() {
		return "", nil
	}
	// Font resource names are page-local, so the cache is not shared.
	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("reading page %d: %w", n, err)
	}
	return text, nil
}

func (d *ledongthucDoc) Close() error { return d.file.Close() }
