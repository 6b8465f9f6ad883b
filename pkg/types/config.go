// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// OutputFormat selects the serialisation of extracted records.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// Ext returns the file extension used for the format, without the dot.
func (f OutputFormat) Ext() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// Normalization selects the Unicode normal form applied to Question.Raw.
type Normalization string

const (
	NormalizeNone Normalization = "none"
	NormalizeNFC  Normalization = "nfc"
	NormalizeNFKC Normalization = "nfkc"
)

const (
	// DefaultOutputBase names the file written by a single extraction when
	// no output is set; the format supplies the extension.
	DefaultOutputBase = "questions_raw"

	// DefaultMaxDigits caps the width of a question number. Two digits
	// means "100. ..." and above never start a record.
	DefaultMaxDigits = 2

	// MaxDigitsLimit keeps parsed numbers inside an int on every platform.
	MaxDigitsLimit = 9
)

// ScanConfig holds settings for the line scanner.
type ScanConfig struct {
	// MaxDigits is the widest question number recognised (default 2).
	MaxDigits int `json:"max_digits" yaml:"max_digits"`

	// Normalize selects the Unicode normal form for raw text (default none).
	Normalize Normalization `json:"normalize" yaml:"normalize"`
}

// ExtractConfig holds settings for the extract stage.
type ExtractConfig struct {
	ScanConfig `yaml:",inline"`

	// SourcePath is the PDF to read: a local path or an http(s) URL.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// Output is the file the records are written to (default
	// questions_raw.json, or questions_raw.yaml for yaml output).
	Output string `json:"output" yaml:"output"`

	// OutputDir receives one record file per source in batch mode.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Format selects json or yaml output.
	Format OutputFormat `json:"format" yaml:"format"`

	// Backend names the PDF text extraction backend.
	Backend string `json:"backend" yaml:"backend"`

	// Timeout bounds the download of a remote source.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is sent when downloading a remote source.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// Verbose adds a status line per page.
	Verbose bool `json:"verbose" yaml:"verbose"`
}

// DefaultOutput returns the file a single extraction writes in format when
// no output is set: questions_raw.json or questions_raw.yaml.
func DefaultOutput(format OutputFormat) string {
	return DefaultOutputBase + "." + format.Ext()
}

// IsRemote reports whether SourcePath is an http(s) URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Validate checks the scanner settings, filling defaults for zero values.
func (c *ScanConfig) Validate() error {
	if c.MaxDigits == 0 {
		c.MaxDigits = DefaultMaxDigits
	}
	if c.MaxDigits < 1 || c.MaxDigits > MaxDigitsLimit {
		return fmt.Errorf("max_digits must be between 1 and %d, got %d", MaxDigitsLimit, c.MaxDigits)
	}
	switch c.Normalize {
	case "":
		c.Normalize = NormalizeNone
	case NormalizeNone, NormalizeNFC, NormalizeNFKC:
	default:
		return fmt.Errorf("normalize must be none, nfc or nfkc, got %q", c.Normalize)
	}
	return nil
}

// Validate checks that the configuration names an existing readable source
// and fills defaults for the optional settings. Remote sources are checked
// when they are downloaded.
func (c *ExtractConfig) Validate() error {
	if strings.TrimSpace(c.SourcePath) == "" {
		return fmt.Errorf("source_path is required: pass a PDF path or URL")
	}
	if !IsRemote(c.SourcePath) {
		info, err := os.Stat(c.SourcePath)
		if err != nil {
			return fmt.Errorf("source_path %s: %w", c.SourcePath, err)
		}
		if info.IsDir() {
			return fmt.Errorf("source_path %s is a directory: use --batch", c.SourcePath)
		}
	}
	return c.validateCommon()
}

// ValidateBatch checks the settings shared by all sources of a batch run.
func (c *ExtractConfig) ValidateBatch() error {
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	return c.validateCommon()
}

func (c *ExtractConfig) validateCommon() error {
	switch c.Format {
	case "":
		c.Format = FormatJSON
	case FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("format must be json or yaml, got %q", c.Format)
	}
	if c.Output == "" {
		c.Output = DefaultOutput(c.Format)
	}
	return c.ScanConfig.Validate()
}

// BankConfig holds settings for the question bank.
type BankConfig struct {
	// BankDir holds questions.db and export files.
	BankDir string `json:"bank_dir" yaml:"bank_dir"`

	// MaxResults is the default search limit (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
