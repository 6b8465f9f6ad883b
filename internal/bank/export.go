// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/qextract/pkg/types"
)

const exportLimit = 1000000

// Export writes the questions matching opts to export.json or export.yaml
// in the bank directory and returns the path written. An empty result is
// written as an empty list.
func (b *Bank) Export(ctx context.Context, opts SearchOptions, format types.OutputFormat) (string, error) {
	opts.MaxResults = exportLimit
	results, err := b.Search(ctx, opts)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}
	if results == nil {
		results = []Result{}
	}

	var data []byte
	switch format {
	case types.FormatJSON, "":
		format = types.FormatJSON
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return "", fmt.Errorf("marshaling JSON: %w", err)
		}
		data = buf.Bytes()
	case types.FormatYAML:
		data, err = yaml.Marshal(results)
		if err != nil {
			return "", fmt.Errorf("marshaling YAML: %w", err)
		}
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}

	path := filepath.Join(b.dir, "export."+format.Ext())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
