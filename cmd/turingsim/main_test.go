package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/turingsim/internal/config"
	"github.com/san-kum/turingsim/internal/dynamo"
	"github.com/san-kum/turingsim/internal/grid"
	"github.com/san-kum/turingsim/internal/metrics"
	"github.com/san-kum/turingsim/internal/storage"
	"github.com/spf13/cobra"
)

func newSimCmd(t *testing.T) *cobra.Command {
	t.Helper()
	preset, configFile = "", ""
	cmd := &cobra.Command{Use: "test"}
	addSimFlags(cmd)
	return cmd
}

func TestResolveConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("size: 40\nk: 0.02\nseed: 9\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newSimCmd(t)
	mustSet(t, cmd, "preset", "quick")
	mustSet(t, cmd, "config", path)
	mustSet(t, cmd, "k", "0.03")

	cfg, err := resolveConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Size != 40 {
		t.Errorf("config file should override preset size, got %d", cfg.Size)
	}
	if cfg.K != 0.03 {
		t.Errorf("explicit flag should override config file k, got %v", cfg.K)
	}
	if cfg.Seed != 9 {
		t.Errorf("config seed should survive an unset flag, got %d", cfg.Seed)
	}
	if cfg.Name != "quick" {
		t.Errorf("name = %q, want quick", cfg.Name)
	}
}

func TestResolveConfig_ZeroSeedFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("seed: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newSimCmd(t)
	mustSet(t, cmd, "preset", "quick")
	mustSet(t, cmd, "config", path)

	cfg, err := resolveConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 0 {
		t.Errorf("pinned seed 0 replaced with %d", cfg.Seed)
	}

	mustSet(t, cmd, "seed", "5")
	cfg, err = resolveConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 5 {
		t.Errorf("explicit seed flag should win, got %d", cfg.Seed)
	}
}

func TestResolveConfig_PresetOnly(t *testing.T) {
	cmd := newSimCmd(t)
	mustSet(t, cmd, "preset", "spots")
	mustSet(t, cmd, "no-validate", "true")

	cfg, err := resolveConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.K != 0.05 || cfg.Validate {
		t.Errorf("got k=%v validate=%v", cfg.K, cfg.Validate)
	}
	if cfg.Seed == 0 {
		t.Error("seed should come from the flag default")
	}
}

func TestResolveConfig_UnknownPreset(t *testing.T) {
	cmd := newSimCmd(t)
	mustSet(t, cmd, "preset", "nope")
	if _, err := resolveConfig(cmd); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestPickField(t *testing.T) {
	defer func(old string) { fieldName = old }(fieldName)
	fieldName = "w"
	if _, err := pickField(nil, nil); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestExportSVG_History(t *testing.T) {
	dir := t.TempDir()
	defer func(d, o string, h bool) { dataDir, outPath, asHistory = d, o, h }(dataDir, outPath, asHistory)
	dataDir = filepath.Join(dir, "data")
	outPath = filepath.Join(dir, "history.svg")
	asHistory = true

	cfg := config.DefaultConfig()
	cfg.Size = 6
	p, err := cfg.Params()
	if err != nil {
		t.Fatal(err)
	}
	result := &dynamo.Result{U: grid.New(6), V: grid.New(6)}
	history := []metrics.Sample{
		{Step: 50, MeanU: 0.1},
		{Step: 100, MeanU: 0.3},
		{Step: 150, MeanU: 0.2},
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	runID, err := st.Save("hist", p, result, history)
	if err != nil {
		t.Fatal(err)
	}

	if err := exportSVG(nil, []string{runID}); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	svg := string(data)
	if !strings.Contains(svg, "<path") || strings.Count(svg, ",") < len(history) {
		t.Errorf("expected a polyline with %d points, got:\n%s", len(history), svg)
	}
}

func TestExportSVG_HistoryMissing(t *testing.T) {
	dir := t.TempDir()
	defer func(d, o string, h bool) { dataDir, outPath, asHistory = d, o, h }(dataDir, outPath, asHistory)
	dataDir = dir
	outPath = filepath.Join(dir, "none.svg")
	asHistory = true

	cfg := config.DefaultConfig()
	cfg.Size = 6
	p, err := cfg.Params()
	if err != nil {
		t.Fatal(err)
	}
	runID, err := storage.New(dir).Save("bare", p, &dynamo.Result{U: grid.New(6), V: grid.New(6)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := exportSVG(nil, []string{runID}); err == nil {
		t.Error("expected error for a run without history")
	}
}

func TestProgressLogger(t *testing.T) {
	tests := []struct{ total, every int }{{5, 1}, {450, 45}, {0, 1}}
	for _, tt := range tests {
		if got := newProgressLogger(tt.total).every; got != tt.every {
			t.Errorf("every(%d) = %d, want %d", tt.total, got, tt.every)
		}
	}
	pl := newProgressLogger(3)
	state := &dynamo.State{U: grid.Filled(4, 1), V: grid.New(4)}
	for step := 1; step <= 3; step++ {
		pl.OnStep(step, float64(step)*0.01, state)
	}
}

func mustSet(t *testing.T, cmd *cobra.Command, name, value string) {
	t.Helper()
	if err := cmd.Flags().Set(name, value); err != nil {
		t.Fatalf("set %s: %v", name, err)
	}
}
