// Package suitefile loads declarative suite definitions used by the CLI.
package suitefile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Suite is a declarative test suite: a named sequence of cases executed
// in file order.
type Suite struct {
	Suite   string `yaml:"suite"`
	BaseURL string `yaml:"base_url"`
	Cases   []Case `yaml:"cases"`
}

// Case is one test case within a suite.
type Case struct {
	Name        string   `yaml:"name"`
	ID          string   `yaml:"id"`
	Tags        string   `yaml:"tags"`
	Description string   `yaml:"description"`
	Actions     []Action `yaml:"actions"`
}

// Action is one instrumented step. Type selects which of the remaining
// fields are meaningful.
type Action struct {
	Type      string `yaml:"type"`
	URL       string `yaml:"url"`      // navigate
	Selector  string `yaml:"selector"` // click, fill, assert_visible, assert_text, assert_count
	Value     string `yaml:"value"`    // fill
	Sensitive bool   `yaml:"sensitive"`
	Expected  string `yaml:"expected"` // assert_text
	Count     int    `yaml:"count"`    // assert_count
	Pattern   string `yaml:"pattern"`  // assert_url
}

// Load reads and validates a suite definition from disk.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("suitefile: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a suite definition.
func Parse(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("suitefile: parse: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks structural requirements before execution starts, so a
// malformed file fails fast instead of mid-run.
func (s *Suite) Validate() error {
	if s.Suite == "" {
		return fmt.Errorf("suitefile: 'suite' name is required")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("suitefile: at least one case is required")
	}
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("suitefile: case %d: 'name' is required", i)
		}
		if len(c.Actions) == 0 {
			return fmt.Errorf("suitefile: case %q: at least one action is required", c.Name)
		}
		for j, a := range c.Actions {
			if err := a.validate(); err != nil {
				return fmt.Errorf("suitefile: case %q action %d: %w", c.Name, j, err)
			}
		}
	}
	return nil
}

func (a Action) validate() error {
	switch a.Type {
	case "navigate":
		if a.URL == "" {
			return fmt.Errorf("navigate requires 'url'")
		}
	case "click", "assert_visible":
		if a.Selector == "" {
			return fmt.Errorf("%s requires 'selector'", a.Type)
		}
	case "fill":
		if a.Selector == "" {
			return fmt.Errorf("fill requires 'selector'")
		}
	case "assert_text":
		if a.Selector == "" || a.Expected == "" {
			return fmt.Errorf("assert_text requires 'selector' and 'expected'")
		}
	case "assert_count":
		if a.Selector == "" {
			return fmt.Errorf("assert_count requires 'selector'")
		}
		if a.Count < 0 {
			return fmt.Errorf("assert_count 'count' must be >= 0")
		}
	case "assert_url":
		if a.Pattern == "" {
			return fmt.Errorf("assert_url requires 'pattern'")
		}
	case "":
		return fmt.Errorf("'type' is required")
	default:
		return fmt.Errorf("unknown action type %q", a.Type)
	}
	return nil
}
