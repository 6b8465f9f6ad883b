// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the qextract CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the qextract CLI.
var rootCmd = &cobra.Command{
	Use:   "qextract",
	Short: "Extract numbered questions from exam PDFs",
	Long: `qextract reads exam papers such as NAPLAN numeracy tests and writes every
line that starts with a question number ("3. What is 2+2?") as a list of
{id, page, raw} records.

Use extract for one paper or a folder of papers, and bank to collect the
results of many papers into a searchable SQLite question bank.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./qextract.yaml or ~/.config/qextract/qextract.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("qextract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "qextract"))
		}
	}

	viper.SetEnvPrefix("QEXTRACT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
