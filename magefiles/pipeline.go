//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Demo builds the CLI and runs the full pipeline in simulation mode
// against a sample query.
func Demo() error {
	mg.Deps(Build)
	bin := filepath.Join(binDir, binName)
	return sh.RunV(bin, "run", "--simulate", "--seed", "7",
		"--query", "How can cities reduce congestion without building new roads?")
}

// Pipeline builds the CLI and runs the full pipeline for query, using
// real model APIs when keys are configured.
func Pipeline(query string) error {
	mg.Deps(Build)
	bin := filepath.Join(binDir, binName)
	return sh.RunV(bin, "run", "--query", query)
}
