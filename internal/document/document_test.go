// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/qextract/internal/pdftest"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"ledongthuc", "pdfcpu", "pdftotext", "tabula"}, Names())
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantErr  bool
	}{
		{"default when empty", "", DefaultBackend, false},
		{"ledongthuc", "ledongthuc", "ledongthuc", false},
		{"tabula", "tabula", "tabula", false},
		{"pdfcpu", "pdfcpu", "pdfcpu", false},
		{"pdftotext", "pdftotext", "pdftotext", false},
		{"unknown", "pdfplumber", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Lookup(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "ledongthuc")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, b.Name())
		})
	}
}

func TestLedongthuc_PagesAndText(t *testing.T) {
	dir := t.TempDir()
	path := pdftest.Write(t, dir, "paper.pdf",
		[]string{"Year 5 Numeracy", "1. What is 2+2?", "2. Café menu"},
		nil,
		[]string{"3. Round 47 to the nearest ten"},
	)

	doc, err := LedongthucBackend{}.Open(path)
	require.NoError(t, err)
	defer doc.Close()

	require.Equal(t, 3, doc.NumPages())

	first, err := doc.PageText(1)
	require.NoError(t, err)
	assert.Contains(t, first, "1. What is 2+2?")
	assert.Contains(t, first, "2. Café menu")

	blank, err := doc.PageText(2)
	require.NoError(t, err)
	assert.Empty(t, blank)

	third, err := doc.PageText(3)
	require.NoError(t, err)
	assert.Contains(t, third, "3. Round 47 to the nearest ten")

	_, err = doc.PageText(4)
	assert.Error(t, err)
}

func TestLedongthuc_OpenErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LedongthucBackend{}.Open(filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)

	notPDF := filepath.Join(dir, "notes.pdf")
	require.NoError(t, os.WriteFile(notPDF, []byte("just some text"), 0o644))
	_, err = LedongthucBackend{}.Open(notPDF)
	assert.Error(t, err)
}

func TestPdfcpu_MissingFile(t *testing.T) {
	_, err := PdfcpuBackend{}.Open(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTabula_MissingFile(t *testing.T) {
	_, err := TabulaBackend{}.Open(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}
