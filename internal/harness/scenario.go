package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/docmerge/internal/reconcile"
	"github.com/roach88/docmerge/internal/record"
)

// Scenario defines one reconciliation scenario: the initial contents of
// both collections, how many times to reconcile, and what to expect.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Source and Target are the initial collection contents.
	Source []record.Record `yaml:"source"`
	Target []record.Record `yaml:"target"`

	// RawSource and RawTarget are stored verbatim after Source and Target.
	// They let a scenario plant documents that fail to decode.
	RawSource []string `yaml:"raw_source,omitempty"`
	RawTarget []string `yaml:"raw_target,omitempty"`

	// Runs is how many times to reconcile; 0 means 1.
	Runs int `yaml:"runs,omitempty"`

	Progress Progress `yaml:"progress,omitempty"`

	Expect Expect `yaml:"expect"`
}

// Progress overrides the progress event intervals. Zero means the default.
type Progress struct {
	LoadEvery  int `yaml:"load_every,omitempty"`
	CheckEvery int `yaml:"check_every,omitempty"`
	FoundEvery int `yaml:"found_every,omitempty"`
}

// Expect specifies the expected outcome. Unset fields are not checked.
type Expect struct {
	// Delta is the set of records the first run appends, in any order.
	Delta []record.Record `yaml:"delta,omitempty"`

	// Inserted is the expected insert count of each run, in order.
	Inserted []int `yaml:"inserted,omitempty"`

	// Error is the reconcile error code the first run fails with.
	Error string `yaml:"error,omitempty"`

	// TargetCount is the number of target documents after the last run.
	TargetCount *int `yaml:"target_count,omitempty"`
}

// runs returns the number of runs to execute.
func (s *Scenario) runs() int {
	if s.Runs < 1 {
		return 1
	}
	return s.Runs
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "targets:" vs "target:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Runs < 0 {
		return fmt.Errorf("runs must be non-negative")
	}

	if s.Progress.LoadEvery < 0 || s.Progress.CheckEvery < 0 || s.Progress.FoundEvery < 0 {
		return fmt.Errorf("progress intervals must be non-negative")
	}

	for i, r := range s.Source {
		if r.Signature == "" {
			return fmt.Errorf("source[%d]: signature is required", i)
		}
	}
	for i, r := range s.Target {
		if r.Signature == "" {
			return fmt.Errorf("target[%d]: signature is required", i)
		}
	}

	switch reconcile.ErrorCode(s.Expect.Error) {
	case "", reconcile.ErrCodeConnectivity, reconcile.ErrCodeDecode, reconcile.ErrCodeWrite:
	default:
		return fmt.Errorf("expect.error: unknown error code %q", s.Expect.Error)
	}

	if len(s.Expect.Inserted) > s.runs() {
		return fmt.Errorf("expect.inserted lists %d runs but the scenario has %d", len(s.Expect.Inserted), s.runs())
	}

	if s.Expect.Error != "" && len(s.Expect.Inserted) > 0 {
		return fmt.Errorf("expect.inserted cannot be combined with expect.error")
	}

	if s.Expect.TargetCount != nil && *s.Expect.TargetCount < 0 {
		return fmt.Errorf("expect.target_count must be non-negative")
	}

	return nil
}
