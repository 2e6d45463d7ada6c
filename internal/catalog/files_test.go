package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/idea-engine/pkg/types"
)

func TestTemplatesFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")

	if err := WriteTemplatesFile(path, DefaultTemplates()); err != nil {
		t.Fatalf("WriteTemplatesFile() error = %v", err)
	}
	loaded, err := ReadTemplatesFile(path)
	if err != nil {
		t.Fatalf("ReadTemplatesFile() error = %v", err)
	}

	want := DefaultTemplates().List()
	got := loaded.List()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Text != want[i].Text {
			t.Errorf("template %d = %+v, want %+v", i, got[i], want[i])
		}
		if got[i].Metadata["cognitive_style"] != want[i].Metadata["cognitive_style"] {
			t.Errorf("template %d metadata mismatch", i)
		}
	}
}

func TestDomainsFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domains.yaml")

	if err := WriteDomainsFile(path, DefaultDomains()); err != nil {
		t.Fatalf("WriteDomainsFile() error = %v", err)
	}
	loaded, err := ReadDomainsFile(path)
	if err != nil {
		t.Fatalf("ReadDomainsFile() error = %v", err)
	}

	want := DefaultDomains().List()
	got := loaded.List()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || len(got[i].Keywords) != len(want[i].Keywords) {
			t.Errorf("domain %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReadQueriesFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.yaml")
	if err := os.WriteFile(path, []byte("queries: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadQueriesFile(path); err == nil {
		t.Error("ReadQueriesFile() expected error for empty file")
	}
}

func TestLoadAppliesCatalogFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "domains.yaml")
	custom := NewDomains()
	custom.Add(types.Domain{ID: "d_custom", Name: "Custom", Description: "A custom domain.", Keywords: []string{"custom"}})
	if err := WriteDomainsFile(path, custom); err != nil {
		t.Fatalf("WriteDomainsFile() error = %v", err)
	}

	c, err := Load(types.CatalogConfig{DomainsFile: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := len(c.Domains.List()); got != 1 {
		t.Errorf("custom domains = %d, want 1", got)
	}
	if got := len(c.Templates.List()); got != 10 {
		t.Errorf("templates should keep defaults, got %d", got)
	}
}
