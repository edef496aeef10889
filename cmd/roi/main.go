package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Simplici0/automation-roi/internal/assumptions"
	"github.com/Simplici0/automation-roi/internal/db"
	"github.com/Simplici0/automation-roi/internal/migrations"
	"github.com/Simplici0/automation-roi/internal/report"
	"github.com/Simplici0/automation-roi/internal/roi"
	"github.com/Simplici0/automation-roi/internal/seed"
)

// result is the json and yaml document written for a scenario.
type result struct {
	Inputs  roi.Inputs  `json:"inputs" yaml:"inputs"`
	Metrics roi.Metrics `json:"metrics" yaml:"metrics"`
	Advice  roi.Advice  `json:"advice" yaml:"advice"`
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, now time.Time) error {
	defaults := roi.DefaultInputs()

	fs := flag.NewFlagSet("roi", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		input      = fs.String("input", "", "Path to a YAML scenario file")
		volume     = fs.Float64("volume", defaults.MonthlyVolume, "Monthly production volume (parts)")
		scrap      = fs.Float64("scrap", defaults.CurrentScrapRate, "Current scrap rate (percent)")
		labor      = fs.Float64("labor", defaults.LaborCostPerPart, "Labor cost per part (rupees)")
		complexity = fs.String("complexity", string(defaults.Complexity), "Part complexity: simple, medium, complex")
		format     = fs.String("format", "text", "Output format: text, json, yaml")
		dbPath     = fs.String("db", "", "Read assumptions from this SQLite database (optional)")
		setRate    = fs.String("set-rate", "", "Store a service rate before computing, e.g. complex=4.25 (requires -db)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	in := defaults
	if *input != "" {
		var err error
		if in, err = loadScenario(*input); err != nil {
			return err
		}
	}

	// Flags given explicitly override the scenario file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "volume":
			in.MonthlyVolume = *volume
		case "scrap":
			in.CurrentScrapRate = *scrap
		case "labor":
			in.LaborCostPerPart = *labor
		case "complexity":
			in.Complexity = roi.Complexity(*complexity)
		}
	})
	if c, err := roi.ParseComplexity(string(in.Complexity)); err == nil {
		in.Complexity = c
	}
	if err := in.Validate(); err != nil {
		return fmt.Errorf("invalid scenario:\n%w", err)
	}

	var update *rateUpdate
	if *setRate != "" {
		if *dbPath == "" {
			return errors.New("-set-rate requires -db")
		}
		u, err := parseRateUpdate(*setRate)
		if err != nil {
			return err
		}
		update = &u
	}

	a := roi.DefaultAssumptions()
	if *dbPath != "" {
		var err error
		if a, err = loadAssumptions(ctx, *dbPath, update); err != nil {
			return err
		}
	}

	m := a.ComputeMetrics(in)
	advice := a.ComputeAdvice(in, m)

	switch *format {
	case "text":
		_, err := io.WriteString(stdout, report.Build(a, in, m, advice, now).Text())
		return err
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result{Inputs: in, Metrics: m, Advice: advice})
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(result{Inputs: in, Metrics: m, Advice: advice}); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, json, yaml)", *format)
	}
}

func loadScenario(path string) (roi.Inputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return roi.Inputs{}, fmt.Errorf("read scenario: %w", err)
	}

	in := roi.DefaultInputs()
	if err := yaml.Unmarshal(data, &in); err != nil {
		return roi.Inputs{}, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return in, nil
}

// rateUpdate is a service rate change given as tier=price.
type rateUpdate struct {
	complexity roi.Complexity
	price      float64
}

func parseRateUpdate(raw string) (rateUpdate, error) {
	tier, rawPrice, ok := strings.Cut(raw, "=")
	if !ok {
		return rateUpdate{}, fmt.Errorf("-set-rate must look like tier=price (got %q)", raw)
	}
	c, err := roi.ParseComplexity(tier)
	if err != nil {
		return rateUpdate{}, err
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(rawPrice), 64)
	if err != nil || !(price > 0) || math.IsInf(price, 0) {
		return rateUpdate{}, fmt.Errorf("-set-rate price must be a positive number (got %q)", rawPrice)
	}
	return rateUpdate{complexity: c, price: price}, nil
}

func loadAssumptions(ctx context.Context, path string, update *rateUpdate) (roi.Assumptions, error) {
	database, err := db.Open(ctx, path)
	if err != nil {
		return roi.Assumptions{}, fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if err := migrations.Up(ctx, database); err != nil {
		return roi.Assumptions{}, fmt.Errorf("run database migrations: %w", err)
	}
	if _, err := seed.Run(ctx, database, roi.DefaultAssumptions()); err != nil {
		return roi.Assumptions{}, fmt.Errorf("seed assumptions: %w", err)
	}
	if update != nil {
		if err := assumptions.UpdateServiceRate(ctx, database, update.complexity, update.price); err != nil {
			return roi.Assumptions{}, err
		}
	}
	return assumptions.Load(ctx, database)
}
