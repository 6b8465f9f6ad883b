// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	available bool
	output    string
	err       error
	gotArgs   []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.available {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Output(name string, args ...string) ([]byte, error) {
	m.gotArgs = append([]string{name}, args...)
	return []byte(m.output), m.err
}

func TestPdftotext_Open(t *testing.T) {
	exec := &mockExecutor{
		available: true,
		output:    "1. First\nsome text\n\f\f2. Second\n\f",
	}
	b := &PdftotextBackend{exec: exec}

	doc, err := b.Open("paper.pdf")
	require.NoError(t, err)
	defer doc.Close()

	assert.Equal(t, "pdftotext -enc UTF-8 paper.pdf -", strings.Join(exec.gotArgs, " "))
	require.Equal(t, 3, doc.NumPages())

	text, err := doc.PageText(1)
	require.NoError(t, err)
	assert.Equal(t, "1. First\nsome text\n", text)

	text, err = doc.PageText(2)
	require.NoError(t, err)
	assert.Empty(t, text)

	text, err = doc.PageText(3)
	require.NoError(t, err)
	assert.Equal(t, "2. Second\n", text)

	_, err = doc.PageText(0)
	assert.Error(t, err)
}

func TestPdftotext_NotInstalled(t *testing.T) {
	b := &PdftotextBackend{exec: &mockExecutor{}}
	_, err := b.Open("paper.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found on PATH")
}

func TestPdftotext_CommandFails(t *testing.T) {
	b := &PdftotextBackend{exec: &mockExecutor{available: true, err: errors.New("exit status 1")}}
	_, err := b.Open("missing.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.pdf")
}

func TestSplitPages(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty output", "", nil},
		{"single page", "a\n\f", []string{"a\n"}},
		{"no trailing form feed", "a\fb", []string{"a", "b"}},
		{"blank middle page", "a\f\fc\f", []string{"a", "", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitPages(tt.in))
		})
	}
}
