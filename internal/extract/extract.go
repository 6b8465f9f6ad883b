// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract runs the question extraction pipeline: open a document,
// scan every page for question-start lines in page then line order, and
// write the accumulated records.
package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pdiddy/qextract/internal/document"
	"github.com/pdiddy/qextract/internal/fetch"
	"github.com/pdiddy/qextract/internal/output"
	"github.com/pdiddy/qextract/internal/scan"
	"github.com/pdiddy/qextract/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "qextract/0.1"
)

// Questions scans every page of doc in order and returns the matching
// records along with the number of pages skipped for having no text. A page
// extraction error aborts the scan.
func Questions(ctx context.Context, doc document.Document, s *scan.Scanner, w io.Writer) ([]types.Question, int, error) {
	var (
		records []types.Question
		empty   int
	)
	for n := 1; n <= doc.NumPages(); n++ {
		select {
		case <-ctx.Done():
			return records, empty, ctx.Err()
		default:
		}

		text, err := doc.PageText(n)
		if err != nil {
			return records, empty, err
		}
		if text == "" {
			empty++
			if w != nil {
				fmt.Fprintf(w, "page %d: no text, skipped\n", n)
			}
			continue
		}

		found := s.ScanPage(n, text)
		records = append(records, found...)
		if w != nil {
			fmt.Fprintf(w, "page %d: %d questions\n", n, len(found))
		}
	}
	return records, empty, nil
}

// Extract reads cfg.SourcePath with backend b and writes the records to
// cfg.Output, replacing any existing file. Per-page progress is written to
// w when cfg.Verbose is set.
func Extract(ctx context.Context, b document.Backend, cfg types.ExtractConfig, w io.Writer) (types.ExtractResult, error) {
	if err := cfg.Validate(); err != nil {
		return types.ExtractResult{}, err
	}
	return extractOne(ctx, b, cfg, cfg.SourcePath, cfg.Output, w)
}

func extractOne(ctx context.Context, b document.Backend, cfg types.ExtractConfig, source, outPath string, w io.Writer) (types.ExtractResult, error) {
	s, err := scan.New(cfg.ScanConfig)
	if err != nil {
		return types.ExtractResult{}, err
	}

	path, cleanup, err := localPath(ctx, cfg, source)
	if err != nil {
		return types.ExtractResult{}, err
	}
	defer cleanup()

	doc, err := b.Open(path)
	if err != nil {
		return types.ExtractResult{}, err
	}
	defer doc.Close()

	var progress io.Writer
	if cfg.Verbose {
		progress = w
	}
	records, empty, err := Questions(ctx, doc, s, progress)
	if err != nil {
		return types.ExtractResult{}, fmt.Errorf("extracting %s: %w", source, err)
	}

	if err := output.Write(outPath, cfg.Format, records); err != nil {
		return types.ExtractResult{}, err
	}

	return types.ExtractResult{
		Source:     source,
		Output:     outPath,
		Count:      len(records),
		Pages:      doc.NumPages(),
		EmptyPages: empty,
	}, nil
}

// localPath returns a local file for source, downloading remote sources to a
// temporary file that cleanup removes.
func localPath(ctx context.Context, cfg types.ExtractConfig, source string) (string, func(), error) {
	if !types.IsRemote(source) {
		return source, func() {}, nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	client := &http.Client{Timeout: timeout}
	path, err := fetch.Download(ctx, client, source, userAgent, "")
	if err != nil {
		return "", nil, fmt.Errorf("downloading %s: %w", source, err)
	}
	return path, func() { os.Remove(path) }, nil
}
