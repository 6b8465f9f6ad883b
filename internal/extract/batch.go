// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pdiddy/qextract/internal/document"
	"github.com/pdiddy/qextract/pkg/types"
)

// BatchResult holds the outcome of a batch extraction run.
type BatchResult struct {
	Extracted int
	Failed    int
	Questions int
}

// Total returns the number of sources processed.
func (r BatchResult) Total() int {
	return r.Extracted + r.Failed
}

// HasFailures reports whether any source failed extraction.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// batchItem pairs a source with the record file it is written to. A
// non-empty clash names the earlier source that owns the same output.
type batchItem struct {
	source string
	output string
	clash  string
}

// ExtractBatch extracts every source into cfg.OutputDir. Directories are
// walked for .pdf files and their layout is mirrored under the output
// directory, so ./2016/e5-numeracy.pdf becomes <out>/2016/e5-numeracy-questions.json.
// A failing source is reported to w and counted; the batch continues.
func ExtractBatch(ctx context.Context, b document.Backend, sources []string, cfg types.ExtractConfig, w io.Writer) (BatchResult, error) {
	var result BatchResult
	if err := cfg.ValidateBatch(); err != nil {
		return result, err
	}

	items, err := planBatch(sources, cfg)
	if err != nil {
		return result, err
	}

	for _, it := range items {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if it.clash != "" {
			fmt.Fprintf(w, "failed:    %s (output %s already written for %s)\n", it.source, it.output, it.clash)
			result.Failed++
			continue
		}

		res, err := extractOne(ctx, b, cfg, it.source, it.output, w)
		if err != nil {
			fmt.Fprintf(w, "failed:    %s (%v)\n", it.source, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "extracted: %s -> %s (%d questions)\n", it.source, res.Output, res.Count)
		result.Extracted++
		result.Questions += res.Count
	}

	fmt.Fprintf(w, "\nBatch summary: %d extracted, %d failed (total: %d, questions: %d)\n",
		result.Extracted, result.Failed, result.Total(), result.Questions)
	return result, nil
}

// planBatch expands sources into batch items in a stable order. Sources
// that map to an output already claimed by an earlier source are marked as
// clashing instead of overwriting it.
func planBatch(sources []string, cfg types.ExtractConfig) ([]batchItem, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources: pass PDF files, directories or URLs")
	}

	var items []batchItem
	for _, src := range sources {
		if types.IsRemote(src) {
			items = append(items, batchItem{source: src, output: outputName(cfg, "", src)})
			continue
		}

		err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == src {
					// Reported as a failed item when it cannot be opened.
					items = append(items, batchItem{source: src, output: outputName(cfg, "", src)})
					return nil
				}
				return err
			}
			if d.IsDir() {
				return nil
			}
			// An explicitly named file is taken whatever its extension.
			if path != src && !strings.EqualFold(filepath.Ext(path), ".pdf") {
				return nil
			}
			rel := filepath.Base(path)
			if path != src {
				if r, err := filepath.Rel(src, path); err == nil {
					rel = r
				}
			}
			items = append(items, batchItem{source: path, output: outputName(cfg, filepath.Dir(rel), path)})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("reading source %s: %w", src, err)
		}
	}

	owners := make(map[string]string, len(items))
	for i, it := range items {
		key := filepath.Clean(it.output)
		if owner, ok := owners[key]; ok {
			items[i].clash = owner
			continue
		}
		owners[key] = it.source
	}
	return items, nil
}

// outputName returns <OutputDir>/<subdir>/<base>-questions.<ext>.
func outputName(cfg types.ExtractConfig, subdir, source string) string {
	base := source
	if i := strings.IndexAny(base, "?#"); i >= 0 && types.IsRemote(source) {
		base = base[:i]
	}
	base = filepath.Base(base)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(cfg.OutputDir, subdir, base+"-questions."+cfg.Format.Ext())
}
