package scoring

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is an optional YAML document that overrides dimension weights.
//
// Example:
//
//	weights:
//	  clarity: 1.0
//	  conciseness: 0.4
//
// Unknown dimension IDs are rejected so typos do not silently no-op.
type Profile struct {
	Weights map[string]float64 `yaml:"weights"`
}

// LoadProfile reads and validates a scoring profile file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scoring profile: %w", err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse scoring profile: %w", err)
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return &profile, nil
}

// Validate checks that every weight refers to a known dimension and is
// positive.
func (p *Profile) Validate() error {
	known := make(map[string]struct{}, len(defaultDimensions))
	for _, d := range defaultDimensions {
		known[d.ID] = struct{}{}
	}

	for id, weight := range p.Weights {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("scoring profile: unknown dimension %q", id)
		}
		if weight <= 0 {
			return fmt.Errorf("scoring profile: weight for %q must be positive, got %v", id, weight)
		}
	}

	return nil
}

// Apply installs the profile's weights on a scorer.
func (p *Profile) Apply(s *Scorer) {
	s.SetWeights(p.Weights)
}
