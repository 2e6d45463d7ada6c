// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/idea-engine/internal/archive"
	"github.com/pdiddy/idea-engine/internal/explore"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage the run archive (save, list, top, export)",
	Long: `Archive manages a local SQLite archive of completed runs. Use subcommands
to save the current run state under a label, list archived runs, rank
ideas across runs, or export the archive.`,
}

// --- save subcommand ---

var archiveSaveCmd = &cobra.Command{
	Use:   "save [label]",
	Short: "Save the current run state into the archive",
	Long: `Save stores the run-state file's combinations, results, evaluations, and
ideas in the archive under a label. Saving the same label again replaces
that run's archived rows.`,
	RunE: runArchiveSave,
}

func runArchiveSave(cmd *cobra.Command, args []string) error {
	cfg := loadPipelineConfig()
	statePath := stateFlag(cmd, cfg)

	label, _ := cmd.Flags().GetString("label")
	if label == "" && len(args) > 0 {
		label = args[0]
	}
	if label == "" {
		base := filepath.Base(statePath)
		label = strings.TrimSuffix(base, filepath.Ext(base))
	}

	state, err := explore.Load(statePath)
	if err != nil {
		return err
	}

	store, err := archive.NewStore(cfg.Archive.Dir)
	if err != nil {
		return err
	}
	defer store.Close()

	runID, err := store.SaveRun(cmd.Context(), label, state)
	if err != nil {
		return err
	}
	fmt.Printf("Archived run %s as %q\n", runID, label)
	return nil
}

// --- list subcommand ---

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	RunE:  runArchiveList,
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	cfg := loadPipelineConfig()

	store, err := archive.NewStore(cfg.Archive.Dir)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(cmd.Context())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No archived runs.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-24s  %-12s  %-20s  %s\n",
		"Label", "Query", "Combinations", "Created", "ID")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-20s  %-24s  %-12d  %-20s  %s\n",
			truncate(r.Label, 20), truncate(r.Query, 24), r.Combinations,
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.ID)
	}

	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}

// --- top subcommand ---

var archiveTopCmd = &cobra.Command{
	Use:   "top",
	Short: "Rank archived ideas across all runs by average score",
	RunE:  runArchiveTop,
}

func runArchiveTop(cmd *cobra.Command, args []string) error {
	cfg := loadPipelineConfig()

	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = cfg.Archive.MaxIdeas
	}

	store, err := archive.NewStore(cfg.Archive.Dir)
	if err != nil {
		return err
	}
	defer store.Close()

	ideas, err := store.TopIdeas(cmd.Context(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ideas)
	}

	if len(ideas) == 0 {
		fmt.Println("No archived ideas.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-8s  %-40s  %-18s  %s\n",
		"Rank", "Score", "Title", "Method", "Run")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, idea := range ideas {
		fmt.Fprintf(os.Stdout, "%-4d  %-8.4f  %-40s  %-18s  %s\n",
			i+1, idea.AverageScore, truncate(idea.Title, 40),
			idea.Method, idea.RunLabel)
	}

	fmt.Fprintf(os.Stdout, "\n%d ideas\n", len(ideas))
	return nil
}

// --- export subcommand ---

var archiveExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export archived runs and their ideas to YAML or JSON",
	RunE:  runArchiveExport,
}

func runArchiveExport(cmd *cobra.Command, args []string) error {
	cfg := loadPipelineConfig()
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	store, err := archive.NewStore(cfg.Archive.Dir)
	if err != nil {
		return err
	}
	defer store.Close()

	switch format {
	case "yaml", "":
		if output == "" {
			output = filepath.Join(cfg.Archive.Dir, "export.yaml")
		}
		if err := store.ExportYAML(cmd.Context(), output); err != nil {
			return err
		}
	case "json":
		if output == "" {
			output = filepath.Join(cfg.Archive.Dir, "export.json")
		}
		if err := store.ExportJSON(cmd.Context(), output); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	fmt.Printf("Exported to %s\n", output)
	return nil
}

func init() {
	// Save flags.
	archiveSaveCmd.Flags().String("label", "", "label for the archived run (default from args or state file name)")
	archiveSaveCmd.Flags().String("state", "", "run-state file (default from config or state/run.yaml)")

	// List flags.
	archiveListCmd.Flags().Bool("json", false, "output runs as JSON")

	// Top flags.
	archiveTopCmd.Flags().Int("limit", 0, "maximum ideas to show (0 = config default)")
	archiveTopCmd.Flags().Bool("json", false, "output ideas as JSON")

	// Export flags.
	archiveExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	archiveExportCmd.Flags().String("output", "", "output file (default export.yaml or export.json in the archive dir)")

	// Wire subcommands.
	archiveCmd.AddCommand(archiveSaveCmd)
	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveTopCmd)
	archiveCmd.AddCommand(archiveExportCmd)

	rootCmd.AddCommand(archiveCmd)
}
