// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/qextract/internal/output"
	"github.com/pdiddy/qextract/internal/pdftest"
	"github.com/pdiddy/qextract/pkg/types"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestBackendsCommand(t *testing.T) {
	stdout, _, err := execute(t, "backends")
	require.NoError(t, err)
	assert.Equal(t, "ledongthuc (default)\npdfcpu\npdftotext\ntabula\n", stdout)
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	src := pdftest.Write(t, dir, "paper.pdf",
		[]string{"NUMERACY", "1. What is 2+2?", "103. Not a question"},
		[]string{"2. Café prices"},
	)
	out := filepath.Join(dir, "questions_raw.json")

	stdout, _, err := execute(t, "extract", src, "--output", out)
	require.NoError(t, err)
	assert.Equal(t, "Extracted 2 questions.\n", stdout)

	records, err := output.Read(out)
	require.NoError(t, err)
	assert.Equal(t, []types.Question{
		{ID: 1, Page: 1, Raw: "What is 2+2?"},
		{ID: 2, Page: 2, Raw: "Café prices"},
	}, records)
}

func TestExtractCommandErrors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := execute(t, "extract", filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)

	_, _, err = execute(t, "extract", "a.pdf", "b.pdf")
	assert.ErrorContains(t, err, "use --batch")
}

func TestExtractCommandYAMLDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	src := pdftest.Write(t, dir, "paper.pdf", []string{"1. What is 2+2?"})

	stdout, _, err := execute(t, "extract", src, "--output", "", "--format", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "Extracted 1 questions.\n", stdout)

	records, err := output.Read(filepath.Join(dir, "questions_raw.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []types.Question{{ID: 1, Page: 1, Raw: "What is 2+2?"}}, records)
	assert.NoFileExists(t, filepath.Join(dir, "questions_raw.json"))

	_, _, err = execute(t, "extract", src, "--format", "json")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "questions_raw.json"))
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "qextract dev\n", stdout)
}
