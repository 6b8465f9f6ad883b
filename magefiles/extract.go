//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Extract runs a batch extraction of every PDF under papers/ into out/,
// keeping the year folders.
func Extract() error {
	mg.Deps(Build, Init)
	fmt.Println("[extract] papers/ -> out/")
	return sh.RunV(filepath.Join(binDir, binName), "extract", "--batch", "--output-dir", "out", "papers")
}

// Bank ingests everything under out/ into bank/questions.db.
func Bank() error {
	mg.Deps(Extract)
	fmt.Println("[bank] out/ -> bank/questions.db")
	return sh.RunV(filepath.Join(binDir, binName), "bank", "ingest", "--bank-dir", "bank", "out")
}
