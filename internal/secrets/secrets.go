// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: anthropic-api-key, openai-api-key, openai-organization.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// EnvName converts a secret filename to its environment variable name:
// "anthropic-api-key" becomes "ANTHROPIC_API_KEY".
func EnvName(file string) string {
	return strings.ToUpper(strings.ReplaceAll(file, "-", "_"))
}

// Apply exports secrets into the process environment and returns the sorted
// names of the variables it set. Variables already present in the environment
// win; secrets are fallbacks only.
func Apply(secrets map[string]string) []string {
	var applied []string
	for file, value := range secrets {
		name := EnvName(file)
		if os.Getenv(name) != "" {
			continue
		}
		if err := os.Setenv(name, value); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not set %s: %v\n", name, err)
			continue
		}
		applied = append(applied, name)
	}
	sort.Strings(applied)
	return applied
}
