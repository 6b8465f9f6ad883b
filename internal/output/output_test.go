// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/qextract/pkg/types"
)

func sampleRecords() []types.Question {
	return []types.Question{
		{ID: 3, Page: 1, Raw: "What is 2+2?"},
		{ID: 4, Page: 1, Raw: "A café sells 3 < 5 & 7 > 6 cakes"},
		{ID: 4, Page: 2, Raw: ""},
	}
}

func TestMarshal_JSONLayout(t *testing.T) {
	data, err := Marshal(sampleRecords()[:1], types.FormatJSON)
	require.NoError(t, err)

	want := "[\n  {\n    \"id\": 3,\n    \"page\": 1,\n    \"raw\": \"What is 2+2?\"\n  }\n]\n"
	assert.Equal(t, want, string(data))
}

func TestMarshal_NonASCIIVerbatim(t *testing.T) {
	data, err := Marshal(sampleRecords(), types.FormatJSON)
	require.NoError(t, err)

	assert.Contains(t, string(data), "café")
	assert.Contains(t, string(data), "3 < 5 & 7 > 6")
	assert.NotContains(t, string(data), `\u00e9`)
}

func TestMarshal_LineSeparatorsVerbatim(t *testing.T) {
	records := []types.Question{
		{ID: 1, Page: 1, Raw: "a\u2028b\u2029c"},
		{ID: 2, Page: 1, Raw: `escaped \u2028 stays \\u2029`},
	}
	data, err := Marshal(records, types.FormatJSON)
	require.NoError(t, err)

	assert.Contains(t, string(data), "\"raw\": \"a\u2028b\u2029c\"")
	assert.Contains(t, string(data), `"raw": "escaped \\u2028 stays \\\\u2029"`)

	var back []types.Question
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, records, back)
}

func TestUnescapeLineSeparators(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no escapes", `"abc"`, `"abc"`},
		{"line separator", `"a\u2028b"`, "\"a\u2028b\""},
		{"paragraph separator", `"\u2029"`, "\"\u2029\""},
		{"escaped backslash", `"\\u2028"`, `"\\u2028"`},
		{"escaped backslash then separator", `"\\\u2028"`, "\"\\\\\u2028\""},
		{"other escape", `"\u2027"`, `"\u2027"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(unescapeLineSeparators([]byte(tt.in))))
		})
	}
}

func TestMarshal_Empty(t *testing.T) {
	data, err := Marshal(nil, types.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestMarshal_UnknownFormat(t *testing.T) {
	_, err := Marshal(sampleRecords(), "csv")
	assert.Error(t, err)
}

func TestWriteRead_RoundTrip(t *testing.T) {
	for _, format := range []types.OutputFormat{types.FormatJSON, types.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", "questions_raw."+format.Ext())
			records := sampleRecords()

			require.NoError(t, Write(path, format, records))
			got, err := Read(path)
			require.NoError(t, err)
			assert.Equal(t, records, got)
		})
	}
}

func TestWrite_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions_raw.json")
	require.NoError(t, os.WriteFile(path, []byte("previous content that is much longer than the new one"), 0o644))

	require.NoError(t, Write(path, types.FormatJSON, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestWrite_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := Write(filepath.Join(blocker, "questions_raw.json"), types.FormatJSON, sampleRecords())
	assert.Error(t, err)
}

func TestRead_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Read(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = Read(bad)
	assert.Error(t, err)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, types.FormatYAML, FormatFor("a.yaml"))
	assert.Equal(t, types.FormatYAML, FormatFor("a.YML"))
	assert.Equal(t, types.FormatJSON, FormatFor("a.json"))
	assert.Equal(t, types.FormatJSON, FormatFor("questions"))
}
