// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document opens PDF files and exposes per-page plain text through
// pluggable extraction backends.
package document

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultBackend is used when no backend is configured.
const DefaultBackend = "ledongthuc"

// Document is an open PDF. Callers must Close it when done, on success or
// failure.
type Document interface {
	// NumPages returns the number of pages.
	NumPages() int

	// PageText returns the plain text of page n (1-based). An empty string
	// means the page has no text layer.
	PageText(n int) (string, error)

	// Close releases the underlying file handles.
	Close() error
}

// Backend opens documents with a particular text extraction library or tool.
type Backend interface {
	// Name returns the backend name used on the command line.
	Name() string

	// Open opens the PDF at path.
	Open(path string) (Document, error)
}

var backends = map[string]func() Backend{
	"ledongthuc": func() Backend { return LedongthucBackend{} },
	"tabula":     func() Backend { return TabulaBackend{} },
	"pdfcpu":     func() Backend { return PdfcpuBackend{} },
	"pdftotext":  func() Backend { return NewPdftotextBackend() },
}

// Names returns the registered backend names in sorted order.
func Names() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the backend registered under name. An empty name selects
// DefaultBackend.
func Lookup(name string) (Backend, error) {
	if name == "" {
		name = DefaultBackend
	}
	ctor, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q: use one of %s", name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// checkPage validates a 1-based page number against the page count.
func checkPage(n, count int) error {
	if n < 1 || n > count {
		return fmt.Errorf("page %d out of range (1-%d)", n, count)
	}
	return nil
}
