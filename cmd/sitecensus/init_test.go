package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sitecensus/internal/config"
)

func runInit(t *testing.T, args ...string) error {
	t.Helper()

	cmd := NewInitCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("creates taxonomy file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "taxonomy.yaml")
		if err := runInit(t, "-o", path); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		taxonomy, err := config.LoadTaxonomy(path)
		if err != nil {
			t.Fatalf("generated file does not parse: %v", err)
		}
		if len(taxonomy.Sections) == 0 {
			t.Error("generated taxonomy has no sections")
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), config.OrgPlaceholder) {
			t.Error("generated taxonomy missing the organization placeholder")
		}
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "taxonomy.yaml")
		if err := os.WriteFile(path, []byte("sections: []\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		err := runInit(t, "-o", path)
		if err == nil {
			t.Fatal("Execute() error = nil, want refusal")
		}
		if !strings.Contains(err.Error(), "already exists") {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("force overwrites", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "taxonomy.yaml")
		if err := os.WriteFile(path, []byte("sections: []\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		if err := runInit(t, "-o", path, "-f"); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if _, err := config.LoadTaxonomy(path); err != nil {
			t.Errorf("overwritten file does not parse: %v", err)
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "dir", "taxonomy.yaml")
		if err := runInit(t, "-o", path); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("taxonomy not created in nested directory: %v", err)
		}
	})
}
