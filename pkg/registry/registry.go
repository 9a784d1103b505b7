// Package registry loads and saves RIASEC instrument definitions: the
// questionnaire items plus the career catalog they are matched against.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"career-matching-workers/internal/matching/riasec"
)

type Instrument struct {
	Version     string          `json:"version"`
	LastUpdated string          `json:"lastUpdated"`
	Items       []riasec.Item   `json:"items"`
	Careers     []riasec.Career `json:"careers"`
}

// Default returns the built-in 96-item instrument and career catalog.
func Default() *Instrument {
	return &Instrument{
		Version: riasec.DefaultInstrumentVersion,
		Items:   riasec.DefaultItems(),
		Careers: riasec.DefaultCareers(),
	}
}

func Load(path string) (*Instrument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Instrument, error) {
	var inst Instrument
	if err := json.Unmarshal(data, &inst); err != nil {
		return nil, fmt.Errorf("decode instrument: %w", err)
	}
	return &inst, nil
}

// Questionnaire builds the immutable questionnaire the profiler scores against.
func (i *Instrument) Questionnaire() (*riasec.Questionnaire, error) {
	return riasec.NewQuestionnaire(i.Version, i.Items)
}

// Validate checks the items and every career's Holland code.
func (i *Instrument) Validate() error {
	if i.Version == "" {
		return fmt.Errorf("instrument missing version")
	}
	if _, err := i.Questionnaire(); err != nil {
		return err
	}
	if len(i.Careers) == 0 {
		return fmt.Errorf("instrument %s has no careers", i.Version)
	}

	names := make(map[string]bool, len(i.Careers))
	for _, c := range i.Careers {
		if c.Name == "" {
			return fmt.Errorf("career missing required field: name")
		}
		key := strings.ToLower(c.Name)
		if names[key] {
			return fmt.Errorf("duplicate career: %s", c.Name)
		}
		names[key] = true

		if err := validateCode(c.Code); err != nil {
			return fmt.Errorf("career %s: %w", c.Name, err)
		}
	}
	return nil
}

// AddCareer appends c, replacing an existing career with the same name.
func (i *Instrument) AddCareer(c riasec.Career) error {
	c.Code = strings.ToUpper(c.Code)
	if err := validateCode(c.Code); err != nil {
		return err
	}
	for idx, existing := range i.Careers {
		if strings.EqualFold(existing.Name, c.Name) {
			i.Careers[idx] = c
			return nil
		}
	}
	i.Careers = append(i.Careers, c)
	return nil
}

func validateCode(code string) error {
	if len(code) == 0 || len(code) > 3 {
		return fmt.Errorf("holland code %q must have 1 to 3 letters", code)
	}
	seen := map[riasec.Dimension]bool{}
	for _, r := range code {
		d, ok := riasec.ParseDimension(string(r))
		if !ok {
			return fmt.Errorf("holland code %q has unknown letter %q", code, r)
		}
		if seen[d] {
			return fmt.Errorf("holland code %q repeats %s", code, d)
		}
		seen[d] = true
	}
	return nil
}

// Save writes the instrument as indented JSON, creating parent directories.
func (i *Instrument) Save(path string) error {
	data, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal instrument: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write instrument file: %w", err)
	}
	return nil
}
