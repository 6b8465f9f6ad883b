// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/qextract/internal/output"
	"github.com/pdiddy/qextract/pkg/types"
)

func TestExtractBatch(t *testing.T) {
	root := t.TempDir()
	papers := filepath.Join(root, "naplan")
	y2016 := touch(t, filepath.Join(papers, "2016", "e5-numeracy.pdf"))
	y2017 := touch(t, filepath.Join(papers, "2017", "e5-numeracy.PDF"))
	touch(t, filepath.Join(papers, "2017", "notes.txt"))
	broken := touch(t, filepath.Join(papers, "2018", "broken.pdf"))
	outDir := filepath.Join(root, "out")

	b := &fakeBackend{docs: map[string]*fakeDoc{
		y2016: {pages: []string{"1. a\n2. b"}},
		y2017: {pages: []string{"", "1. c"}},
	}}

	var log bytes.Buffer
	cfg := types.ExtractConfig{OutputDir: outDir}
	result, err := ExtractBatch(context.Background(), b, []string{papers}, cfg, &log)
	require.NoError(t, err)

	assert.Equal(t, BatchResult{Extracted: 2, Failed: 1, Questions: 3}, result)
	assert.True(t, result.HasFailures())
	assert.Equal(t, []string{y2016, y2017, broken}, b.opened)

	got, err := output.Read(filepath.Join(outDir, "2016", "e5-numeracy-questions.json"))
	require.NoError(t, err)
	assert.Equal(t, []types.Question{{ID: 1, Page: 1, Raw: "a"}, {ID: 2, Page: 1, Raw: "b"}}, got)

	got, err = output.Read(filepath.Join(outDir, "2017", "e5-numeracy-questions.json"))
	require.NoError(t, err)
	assert.Equal(t, []types.Question{{ID: 1, Page: 2, Raw: "c"}}, got)

	assert.Contains(t, log.String(), "failed:    "+broken)
	assert.Contains(t, log.String(), "Batch summary: 2 extracted, 1 failed (total: 3, questions: 3)")
}

func TestExtractBatch_MissingSourceCountsAsFailure(t *testing.T) {
	root := t.TempDir()
	src := touch(t, filepath.Join(root, "a.pdf"))
	missing := filepath.Join(root, "missing.pdf")
	b := &fakeBackend{docs: map[string]*fakeDoc{src: {pages: []string{"1. x"}}}}

	var log bytes.Buffer
	cfg := types.ExtractConfig{OutputDir: root, Format: types.FormatYAML}
	result, err := ExtractBatch(context.Background(), b, []string{src, missing}, cfg, &log)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Extracted)
	assert.Equal(t, 1, result.Failed)
	assert.FileExists(t, filepath.Join(root, "a-questions.yaml"))
}

func TestExtractBatch_SameOutputNameFailsLaterSource(t *testing.T) {
	root := t.TempDir()
	y2016 := touch(t, filepath.Join(root, "2016", "numeracy.pdf"))
	y2017 := touch(t, filepath.Join(root, "2017", "numeracy.pdf"))
	outDir := filepath.Join(root, "out")
	b := &fakeBackend{docs: map[string]*fakeDoc{
		y2016: {pages: []string{"1. from 2016\n2. also 2016"}},
		y2017: {pages: []string{"1. from 2017"}},
	}}

	var log bytes.Buffer
	cfg := types.ExtractConfig{OutputDir: outDir}
	result, err := ExtractBatch(context.Background(), b,
		[]string{filepath.Join(root, "2016"), filepath.Join(root, "2017")}, cfg, &log)
	require.NoError(t, err)

	assert.Equal(t, BatchResult{Extracted: 1, Failed: 1, Questions: 2}, result)
	assert.Equal(t, []string{y2016}, b.opened)

	got, err := output.Read(filepath.Join(outDir, "numeracy-questions.json"))
	require.NoError(t, err)
	assert.Equal(t, []types.Question{
		{ID: 1, Page: 1, Raw: "from 2016"},
		{ID: 2, Page: 1, Raw: "also 2016"},
	}, got)
	assert.Contains(t, log.String(), "failed:    "+y2017+" (output "+filepath.Join(outDir, "numeracy-questions.json")+" already written for "+y2016+")")
}

func TestExtractBatch_NoSources(t *testing.T) {
	_, err := ExtractBatch(context.Background(), &fakeBackend{}, nil, types.ExtractConfig{}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestExtractBatch_Cancelled(t *testing.T) {
	root := t.TempDir()
	src := touch(t, filepath.Join(root, "a.pdf"))
	b := &fakeBackend{docs: map[string]*fakeDoc{src: {pages: []string{"1. x"}}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ExtractBatch(ctx, b, []string{src}, types.ExtractConfig{OutputDir: root}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, b.opened)
}

func TestOutputName(t *testing.T) {
	cfg := types.ExtractConfig{OutputDir: "out", Format: types.FormatJSON}
	assert.Equal(t, filepath.Join("out", "paper-questions.json"), outputName(cfg, "", "/tmp/x/paper.pdf"))
	assert.Equal(t, filepath.Join("out", "2016", "p-questions.json"), outputName(cfg, "2016", "p.pdf"))
	assert.Equal(t, filepath.Join("out", "numeracy-questions.json"),
		outputName(cfg, "", "https://example.com/tests/numeracy.pdf?download=1"))
}
