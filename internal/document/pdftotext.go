// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

const binPdftotext = "pdftotext"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Output(name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Output(name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil && stderr.Len() > 0 {
		return out, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, err
}

// PdftotextBackend runs poppler's pdftotext binary over the whole file and
// splits its output on the form feeds it writes between pages.
type PdftotextBackend struct {
	exec executor
}

// NewPdftotextBackend returns a backend that runs pdftotext from PATH.
func NewPdftotextBackend() *PdftotextBackend {
	return &PdftotextBackend{exec: osExecutor{}}
}

func (b *PdftotextBackend) Name() string { return binPdftotext }

func (b *PdftotextBackend) Open(path string) (Document, error) {
	if _, err := b.exec.LookPath(binPdftotext); err != nil {
		return nil, fmt.Errorf("%s not found on PATH (install poppler-utils): %w", binPdftotext, err)
	}
	out, err := b.exec.Output(binPdftotext, "-enc", "UTF-8", path, "-")
	if err != nil {
		return nil, fmt.Errorf("running %s on %s: %w", binPdftotext, path, err)
	}
	return &textDoc{pages: splitPages(string(out))}, nil
}

// splitPages splits pdftotext output into pages. pdftotext terminates every
// page, including the last, with a form feed.
func splitPages(out string) []string {
	if out == "" {
		return nil
	}
	pages := strings.Split(out, "\f")
	if pages[len(pages)-1] == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}

// textDoc is a document whose page texts are already in memory.
type textDoc struct {
	pages []string
}

func (d *textDoc) NumPages() int { return len(d.pages) }

func (d *textDoc) PageText(n int) (string, error) {
	if err := checkPage(n, len(d.pages)); err != nil {
		return "", err
	}
	return d.pages[n-1], nil
}

func (d *textDoc) Close() error { return nil }
