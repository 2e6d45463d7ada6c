// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the idea-engine CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/idea-engine/internal/secrets"
	"github.com/pdiddy/idea-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the idea-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "idea-engine",
	Short: "Combinatorial idea generation across backends, instructions, and domains",
	Long: `idea-engine explores the cartesian product of generation backends,
instruction templates, query variants, and domains, executes the
combinations against model APIs (or a simulation fallback), scores the
responses, and synthesizes the top-ranked results into ideas.

Each pipeline stage is a subcommand: explore, evaluate, synthesize, and
report. run composes all four; show browses a run state; archive keeps
finished runs in a local SQLite database.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env first, then .secrets/; the existing environment always wins.
		godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		if applied := secrets.Apply(s); len(applied) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", applied)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./idea-engine.yaml or ~/.config/idea-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("idea-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "idea-engine"))
		}
	}

	viper.SetEnvPrefix("IDEA_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadPipelineConfig parses the discovered config file into the pipeline
// configuration and fills in defaults. No config file yields the defaults.
func loadPipelineConfig() types.PipelineConfig {
	var cfg types.PipelineConfig
	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				fmt.Fprintf(os.Stderr, "warning: ignoring malformed config %s: %v\n", path, err)
				cfg = types.PipelineConfig{}
			}
		}
	}

	if cfg.StatePath == "" {
		cfg.StatePath = "state/run.yaml"
	}
	if cfg.Explore.BackendCount <= 0 {
		cfg.Explore.BackendCount = 2
	}
	if cfg.Explore.InstructionCount <= 0 {
		cfg.Explore.InstructionCount = 3
	}
	if cfg.Explore.QueryVariations <= 0 {
		cfg.Explore.QueryVariations = 2
	}
	if cfg.Scoring.TopN <= 0 {
		cfg.Scoring.TopN = 10
	}
	if cfg.Synthesis.Method == "" {
		cfg.Synthesis.Method = "cluster_based"
	}
	if cfg.Synthesis.Criterion == "" {
		cfg.Synthesis.Criterion = "overall"
	}
	if cfg.Archive.Dir == "" {
		cfg.Archive.Dir = "archive"
	}
	if cfg.Archive.MaxIdeas <= 0 {
		cfg.Archive.MaxIdeas = 10
	}
	return cfg
}

// reportAPIStatus prints which provider keys are available and returns
// whether execution must fall back to simulation.
func reportAPIStatus(simulate bool) bool {
	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
	openaiKey := os.Getenv("OPENAI_API_KEY")

	if anthropicKey != "" || openaiKey != "" {
		var status []string
		if anthropicKey != "" {
			status = append(status, "Anthropic API key found")
		}
		if openaiKey != "" {
			status = append(status, "OpenAI API key found")
		}
		fmt.Printf("API Status: %s\n", strings.Join(status, ", "))
		fmt.Println("Real model API calls can be used. Use --simulate to use simulation instead.")
	} else {
		fmt.Println("API Status: No API keys found. Will use simulation mode by default.")
		fmt.Println("To use real models, create a .env file with ANTHROPIC_API_KEY and/or OPENAI_API_KEY")
	}
	fmt.Println()

	if !simulate && anthropicKey == "" && openaiKey == "" {
		fmt.Println("No API keys available. Forcing simulation mode.")
		simulate = true
	}
	return simulate
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
