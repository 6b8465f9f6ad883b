// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/qextract/internal/document"
	"github.com/pdiddy/qextract/internal/extract"
	"github.com/pdiddy/qextract/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [source...]",
	Short: "Extract numbered questions from a PDF",
	Long: `Extract opens a PDF (a local path or an http(s) URL), reads the text of
each page and records every line that starts with a one or two digit number
followed by a period. The records are written to --output (default
questions_raw.json, or questions_raw.yaml with --format yaml) in page then
line order.

With --batch, every source (files, or directories searched for *.pdf) is
extracted to its own <name>-questions.json under --output-dir. Failed
sources are reported and the batch continues.

The source may also come from the source_path config key or the
QEXTRACT_SOURCE_PATH environment variable.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := extractConfig()

	b, err := document.Lookup(cfg.Backend)
	if err != nil {
		return err
	}

	batch, _ := cmd.Flags().GetBool("batch")
	if batch {
		sources := args
		if len(sources) == 0 && cfg.SourcePath != "" {
			sources = []string{cfg.SourcePath}
		}
		result, err := extract.ExtractBatch(context.Background(), b, sources, cfg, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d questions.\n", result.Questions)
		if result.HasFailures() {
			return fmt.Errorf("%d source(s) failed extraction", result.Failed)
		}
		return nil
	}

	if len(args) > 1 {
		return fmt.Errorf("extract takes one source, got %d: use --batch for many", len(args))
	}
	if len(args) == 1 {
		cfg.SourcePath = args[0]
	}

	result, err := extract.Extract(context.Background(), b, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d questions.\n", result.Count)
	return nil
}

// extractConfig reads the extract settings from flags, the config file and
// the environment, in that order of precedence.
func extractConfig() types.ExtractConfig {
	return types.ExtractConfig{
		ScanConfig: types.ScanConfig{
			MaxDigits: viper.GetInt("max_digits"),
			Normalize: types.Normalization(viper.GetString("normalize")),
		},
		SourcePath: viper.GetString("source_path"),
		Output:     viper.GetString("output"),
		OutputDir:  viper.GetString("output_dir"),
		Format:     types.OutputFormat(viper.GetString("format")),
		Backend:    viper.GetString("backend"),
		Timeout:    viper.GetDuration("timeout"),
		UserAgent:  viper.GetString("user_agent"),
		Verbose:    viper.GetBool("verbose"),
	}
}

func init() {
	extractCmd.Flags().String("output", "", "file the records are written to (default questions_raw.<format>)")
	extractCmd.Flags().String("format", string(types.FormatJSON), "output format: json or yaml")
	extractCmd.Flags().String("backend", document.DefaultBackend, "text extraction backend (see qextract backends)")
	extractCmd.Flags().Int("max-digits", types.DefaultMaxDigits, "widest question number recognised")
	extractCmd.Flags().String("normalize", string(types.NormalizeNone), "Unicode normalisation of raw text: none, nfc or nfkc")
	extractCmd.Flags().Bool("batch", false, "extract every source to its own file under --output-dir")
	extractCmd.Flags().String("output-dir", ".", "directory for batch output files")
	extractCmd.Flags().Duration("timeout", 0, "download timeout for URL sources (0 = 60s)")
	extractCmd.Flags().String("user-agent", "", "User-Agent header for URL sources")
	extractCmd.Flags().BoolP("verbose", "v", false, "print a status line per page")

	for key, flag := range map[string]string{
		"output":     "output",
		"format":     "format",
		"backend":    "backend",
		"max_digits": "max-digits",
		"normalize":  "normalize",
		"output_dir": "output-dir",
		"timeout":    "timeout",
		"user_agent": "user-agent",
		"verbose":    "verbose",
	} {
		viper.BindPFlag(key, extractCmd.Flags().Lookup(flag))
	}

	rootCmd.AddCommand(extractCmd)
}
