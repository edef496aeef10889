package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Simplici0/automation-roi/internal/roi"
)

var reportDate = time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, &out, reportDate)
	return out.String(), err
}

func TestRun_DefaultTextReport(t *testing.T) {
	out, err := runCLI(t)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"Automation ROI Summary Report", "Date: 14 October 2026", "Review Parameters", "Increase Scrap Rate Threshold"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestRun_JSONFromFlags(t *testing.T) {
	out, err := runCLI(t, "-volume", "50000", "-scrap", "20", "-labor", "10", "-complexity", "simple", "-format", "json")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var got result
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if !got.Metrics.IsViable || !got.Metrics.Payback.Reachable() {
		t.Fatalf("expected a viable scenario, got %+v", got.Metrics)
	}
	if got.Advice.QuickFixes != nil {
		t.Fatalf("expected no quick fixes, got %+v", got.Advice.QuickFixes)
	}
}

func TestRun_YAMLScenarioWithFlagOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	scenario := "monthly_volume: 100000\ncurrent_scrap_rate: 8\nlabor_cost_per_part: 6\ncomplexity: Complex\n"
	if err := os.WriteFile(path, []byte(scenario), 0o600); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	out, err := runCLI(t, "-input", path, "-scrap", "10", "-format", "yaml")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var got struct {
		Inputs  roi.Inputs     `yaml:"inputs"`
		Metrics map[string]any `yaml:"metrics"`
	}
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	want := roi.Inputs{MonthlyVolume: 100000, CurrentScrapRate: 10, LaborCostPerPart: 6, Complexity: roi.Complex}
	if got.Inputs != want {
		t.Fatalf("inputs = %+v, want %+v", got.Inputs, want)
	}
	if _, ok := got.Metrics["payback_months"]; !ok {
		t.Fatalf("expected payback_months key in yaml output")
	}
}

func TestRun_RejectsInvalidInputs(t *testing.T) {
	_, err := runCLI(t, "-volume", "10", "-labor", "80", "-complexity", "extreme")
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"monthly_volume", "labor_cost_per_part", "complexity"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
	if strings.Contains(err.Error(), "current_scrap_rate") {
		t.Errorf("scrap rate is valid but was reported: %v", err)
	}
}

func TestRun_UnknownFormat(t *testing.T) {
	if _, err := runCLI(t, "-format", "xml"); err == nil || !strings.Contains(err.Error(), "xml") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}

func TestRun_ReadsAssumptionsFromDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "roi.db")

	out, err := runCLI(t, "-db", dbPath, "-format", "json")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var got result
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if got.Metrics.ServicePricePerPart != 3.5 {
		t.Fatalf("expected seeded medium price 3.5, got %v", got.Metrics.ServicePricePerPart)
	}
}

func TestRun_SetRateUpdatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "roi.db")

	if _, err := runCLI(t, "-db", dbPath, "-set-rate", "complex=4.25", "-format", "json"); err != nil {
		t.Fatalf("run with -set-rate: %v", err)
	}

	// The stored rate is used by later runs against the same database.
	out, err := runCLI(t, "-db", dbPath, "-complexity", "complex", "-format", "json")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var got result
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if got.Metrics.ServicePricePerPart != 4.25 {
		t.Fatalf("expected stored complex price 4.25, got %v", got.Metrics.ServicePricePerPart)
	}
}

func TestRun_SetRateRejectsBadInput(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "roi.db")
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"without db", []string{"-set-rate", "complex=4.25"}, "requires -db"},
		{"missing price", []string{"-db", dbPath, "-set-rate", "complex"}, "tier=price"},
		{"unknown tier", []string{"-db", dbPath, "-set-rate", "extreme=4"}, "complexity"},
		{"negative price", []string{"-db", dbPath, "-set-rate", "simple=-1"}, "positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
