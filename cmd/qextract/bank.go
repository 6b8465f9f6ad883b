// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/qextract/internal/bank"
	"github.com/pdiddy/qextract/pkg/types"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Manage the question bank (ingest, search, export)",
	Long: `Bank keeps the questions extracted from many papers in a local SQLite
database so they can be searched by text, paper, page or question number.`,
}

// --- ingest subcommand ---

var bankIngestCmd = &cobra.Command{
	Use:   "ingest <records...>",
	Short: "Load record files written by extract into the question bank",
	Long: `Ingest reads JSON or YAML record files written by extract. Directories
are searched for record files, and each file becomes one source named by its
path relative to the directory. Unchanged files are skipped on later runs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBankIngest,
}

func runBankIngest(cmd *cobra.Command, args []string) error {
	b, err := bank.Open(bankConfig())
	if err != nil {
		return err
	}
	defer b.Close()

	summary, err := b.Ingest(context.Background(), args, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d record file(s) failed ingest", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var bankSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the question bank by text and filters",
	RunE:  runBankSearch,
}

func runBankSearch(cmd *cobra.Command, args []string) error {
	opts := searchOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --source, --page, or --id")
	}

	b, err := bank.Open(bankConfig())
	if err != nil {
		return err
	}
	defer b.Close()

	results, err := b.Search(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(cmd.OutOrStdout(), results, jsonOutput)
}

func formatSearchOutput(w io.Writer, results []bank.Result, jsonOutput bool) error {
	if jsonOutput {
		if results == nil {
			results = []bank.Result{}
		}
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-24s  %-4s  %-4s  %s\n", "Source", "Page", "ID", "Question")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, r := range results {
		source := r.SourceID
		if len(source) > 24 {
			source = source[:21] + "..."
		}
		raw := []rune(r.Raw)
		if len(raw) > 54 {
			raw = append(raw[:51], []rune("...")...)
		}
		fmt.Fprintf(w, "%-24s  %-4d  %-4d  %s\n", source, r.Page, r.ID, string(raw))
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var bankExportCmd = &cobra.Command{
	Use:   "export [query]",
	Short: "Export the question bank to JSON or YAML",
	Long: `Export writes every question in the bank (or those matching the
search flags) to export.json or export.yaml in the bank directory.`,
	RunE: runBankExport,
}

func runBankExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch types.OutputFormat(format) {
	case types.FormatJSON, types.FormatYAML:
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}

	b, err := bank.Open(bankConfig())
	if err != nil {
		return err
	}
	defer b.Close()

	path, err := b.Export(context.Background(), searchOptsFromFlags(cmd, args), types.OutputFormat(format))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func bankConfig() types.BankConfig {
	return types.BankConfig{
		BankDir:    viper.GetString("bank_dir"),
		MaxResults: viper.GetInt("max_results"),
	}
}

func searchOptsFromFlags(cmd *cobra.Command, args []string) bank.SearchOptions {
	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}
	source, _ := cmd.Flags().GetString("source")
	page, _ := cmd.Flags().GetInt("page")
	id, _ := cmd.Flags().GetInt("id")
	limit, _ := cmd.Flags().GetInt("limit")

	return bank.SearchOptions{
		Query:      query,
		SourceID:   source,
		Page:       page,
		QuestionID: id,
		MaxResults: limit,
	}
}

func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().String("query", "", "text to search for")
	cmd.Flags().String("source", "", "filter by source ID (e.g. 2016/e5-numeracy)")
	cmd.Flags().Int("page", 0, "filter by page number")
	cmd.Flags().Int("id", 0, "filter by question number")
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	bankCmd.PersistentFlags().String("bank-dir", "bank", "directory holding questions.db and exports")
	bankCmd.PersistentFlags().Int("max-results", 20, "default number of search results")
	viper.BindPFlag("bank_dir", bankCmd.PersistentFlags().Lookup("bank-dir"))
	viper.BindPFlag("max_results", bankCmd.PersistentFlags().Lookup("max-results"))

	addSearchFlags(bankSearchCmd)
	bankSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use --max-results)")
	bankSearchCmd.Flags().Bool("json", false, "output results as JSON")

	addSearchFlags(bankExportCmd)
	bankExportCmd.Flags().String("format", string(types.FormatJSON), "export format: json or yaml")

	bankCmd.AddCommand(bankIngestCmd)
	bankCmd.AddCommand(bankSearchCmd)
	bankCmd.AddCommand(bankExportCmd)

	rootCmd.AddCommand(bankCmd)
}
