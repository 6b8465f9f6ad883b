// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PdfcpuBackend validates the file with github.com/pdfcpu/pdfcpu and
// recovers text from each page's content stream operators. Glyphs are decoded
// as single-byte WinAnsi codes; fonts with 2-byte CIDs come out garbled.
type PdfcpuBackend struct{}

func (PdfcpuBackend) Name() string { return "pdfcpu" }

func (PdfcpuBackend) Open(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("pdfcpu read %s: %w", path, err)
	}
	return &pdfcpuDoc{file: f, ctx: ctx}, nil
}

type pdfcpuDoc struct {
	file *os.File
	ctx  *model.Context
}

func (d *pdfcpuDoc) NumPages() int { return d.ctx.PageCount }

func (d *pdfcpuDoc) PageText(n int) (string, error) {
	if err := checkPage(n, d.ctx.PageCount); err != nil {
		return "", err
	}
	r, err := pdfcpu.ExtractPageContent(d.ctx, n)
	if err != nil {
		return "", fmt.Errorf("reading page %d content: %w", n, err)
	}
	if r == nil {
		return "", nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading page %d content: %w", n, err)
	}
	return contentText(data), nil
}

func (d *pdfcpuDoc) Close() error { return d.file.Close() }
