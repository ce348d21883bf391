// Package config loads a JSON run file and turns it into engine options.
//
// Every field is optional. Unset fields leave the variant preset alone, so a
// file containing only {"variant": "comparison"} is a complete config.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/TomVdv187/CircusDailyVideoStats/engine"
	"github.com/TomVdv187/CircusDailyVideoStats/language"
	"github.com/TomVdv187/CircusDailyVideoStats/schema"
)

// DefaultTargetSheet is the sheet holding the row table in target exports.
const DefaultTargetSheet = "Raw data"

// Sheets names the sheet to read in each workbook. An empty name means the
// first sheet.
type Sheets struct {
	Target    string `json:"target"`
	Reference string `json:"reference"`
}

// Config is the JSON run file.
type Config struct {
	Variant           string                   `json:"variant,omitempty"`
	TargetCatalogue   string                   `json:"targetCatalogue,omitempty"`
	ReferenceKeywords []string                 `json:"referenceKeywords,omitempty"`
	ReferenceRequired *bool                    `json:"referenceRequired,omitempty"`
	Truncation        string                   `json:"truncation,omitempty"`
	TopN              int                      `json:"topN,omitempty"`
	Leaderboards      []engine.LeaderboardSpec `json:"leaderboards,omitempty"`
	Classifier        *bool                    `json:"classifier,omitempty"`
	Benchmarks        *engine.Benchmarks       `json:"benchmarks,omitempty"`
	Fields            *schema.Fields           `json:"fields,omitempty"`
	Sheets            Sheets                   `json:"sheets"`
	Store             string                   `json:"store,omitempty"`
}

// Default returns the config used when no file is given.
func Default() Config {
	return Config{
		Sheets: Sheets{Target: DefaultTargetSheet},
	}
}

// Load reads and parses a config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes JSON over Default(). Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config JSON: %w", err)
	}
	if _, err := cfg.Options(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Options converts the config to engine options, preset first.
func (c Config) Options() ([]engine.Option, error) {
	variant, err := engine.ParseVariant(c.Variant)
	if err != nil {
		return nil, err
	}
	opts := []engine.Option{engine.WithVariant(variant)}

	if c.TargetCatalogue != "" {
		opts = append(opts, engine.WithTargetCatalogue(c.TargetCatalogue))
	}
	if len(c.ReferenceKeywords) > 0 {
		opts = append(opts, engine.WithReferenceKeywords(c.ReferenceKeywords...))
	}
	if c.ReferenceRequired != nil {
		opts = append(opts, engine.WithReferenceRequired(*c.ReferenceRequired))
	}
	if c.Truncation != "" || c.TopN != 0 {
		if c.Truncation == "" {
			return nil, fmt.Errorf("topN set without truncation mode")
		}
		mode, err := engine.ParseTruncateMode(c.Truncation)
		if err != nil {
			return nil, err
		}
		if c.TopN < 0 {
			return nil, fmt.Errorf("topN must not be negative, got %d", c.TopN)
		}
		opts = append(opts, engine.WithTruncation(mode, c.TopN))
	}
	if c.Leaderboards != nil {
		for _, lb := range c.Leaderboards {
			if err := validateLeaderboard(lb); err != nil {
				return nil, err
			}
		}
		opts = append(opts, engine.WithLeaderboards(c.Leaderboards...))
	}
	if c.Classifier != nil {
		if *c.Classifier {
			opts = append(opts, engine.WithClassifier(language.New()))
		} else {
			opts = append(opts, engine.WithClassifier(nil))
		}
	}
	if c.Benchmarks != nil {
		opts = append(opts, engine.WithBenchmarks(*c.Benchmarks))
	}
	if c.Fields != nil {
		opts = append(opts, engine.WithFields(*c.Fields))
	}
	return opts, nil
}

func validateLeaderboard(lb engine.LeaderboardSpec) error {
	if lb.Name == "" {
		return fmt.Errorf("leaderboard without a name")
	}
	switch lb.Source {
	case engine.SourceTarget, engine.SourceReference:
	default:
		return fmt.Errorf("leaderboard %q: unknown source %q", lb.Name, lb.Source)
	}
	if lb.Measure != "" && !schema.IsMeasure(lb.Measure) {
		return fmt.Errorf("leaderboard %q: unknown measure %q", lb.Name, lb.Measure)
	}
	if lb.Size <= 0 {
		return fmt.Errorf("leaderboard %q: size must be positive", lb.Name)
	}
	return nil
}
