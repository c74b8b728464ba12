package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := map[string]string{
		"~/Obsidian/Jobs": filepath.Join(home, "Obsidian/Jobs"),
		"~":               home,
		"raw/batch.json":  "raw/batch.json",
		"/abs/~/file":     "/abs/~/file",
		"":                "",
	}

	for input, expect := range tests {
		if got := expandHome(input); got != expect {
			t.Fatalf("expandHome(%q) = %q, want %q", input, got, expect)
		}
	}
}

func TestFilterConfig(t *testing.T) {
	cfg := &Config{
		Search:  &SearchConfig{Remote: true, MaxAge: 72 * time.Hour},
		Dedup:   &DedupConfig{KeepUntitled: true},
		Exclude: &ExcludeConfig{Companies: []string{"Acme Staffing"}},
		Scoring: &ScoringConfig{MinScore: 30},
	}

	got := cfg.filterConfig()
	if !got.RemoteOnly || got.MaxAge != 72*time.Hour || !got.KeepUntitled || got.MinScore != 30 {
		t.Fatalf("unexpected filter config %+v", got)
	}
	if len(got.Companies) != 1 || got.Companies[0] != "Acme Staffing" {
		t.Fatalf("unexpected companies %v", got.Companies)
	}

	empty := (&Config{}).filterConfig()
	if empty.RemoteOnly || empty.MaxAge != 0 || empty.MinScore != 0 {
		t.Fatalf("expected zero filter config, got %+v", empty)
	}
}
