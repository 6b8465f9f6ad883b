// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Question is one line of a source document judged to start a numbered
// question. Records are kept in (page, line) order of first appearance and
// are never deduplicated or sorted.
type Question struct {
	// ID is the leading question number. It is not guaranteed unique or
	// monotonic: headers, footers and answer keys that look like "7. ..." also
	// produce records.
	ID int `json:"id" yaml:"id"`

	// Page is the 1-based page on which the line was found.
	Page int `json:"page" yaml:"page"`

	// Raw is the remainder of the line after the numeric marker.
	Raw string `json:"raw" yaml:"raw"`
}

// ExtractResult is the outcome of extracting questions from one document.
type ExtractResult struct {
	// Source is the path or URL the document was read from.
	Source string `json:"source" yaml:"source"`

	// Output is the file the records were written to.
	Output string `json:"output" yaml:"output"`

	// Count is the number of records written.
	Count int `json:"count" yaml:"count"`

	// Pages is the number of pages in the document.
	Pages int `json:"pages" yaml:"pages"`

	// EmptyPages counts pages skipped because they had no text layer.
	EmptyPages int `json:"empty_pages" yaml:"empty_pages"`
}
