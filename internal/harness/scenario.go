package harness

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of API calls against a fresh store.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	Steps []Step `yaml:"steps"`
}

// Step is one request and the status it must produce.
type Step struct {
	// Request is "METHOD /path?query".
	Request string `yaml:"request"`

	// Body is encoded as JSON. Use Raw to send bytes that are not valid JSON.
	Body any     `yaml:"body,omitempty"`
	Raw  *string `yaml:"raw,omitempty"`

	Header map[string]string `yaml:"header,omitempty"`

	Status int `yaml:"status"`
}

// LoadScenario reads a scenario file. Unknown fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Description == "" {
		return errors.New("description is required")
	}
	if len(s.Steps) == 0 {
		return errors.New("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if _, _, err := step.target(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if step.Body != nil && step.Raw != nil {
			return fmt.Errorf("step %d: body and raw are mutually exclusive", i+1)
		}
		if step.Status < 100 || step.Status > 599 {
			return fmt.Errorf("step %d: status %d is not an HTTP status", i+1, step.Status)
		}
	}
	return nil
}

func (s Step) target() (method, path string, err error) {
	fields := strings.Fields(s.Request)
	if len(fields) != 2 {
		return "", "", fmt.Errorf("request %q must be \"METHOD /path\"", s.Request)
	}
	method, path = strings.ToUpper(fields[0]), fields[1]
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return "", "", fmt.Errorf("unsupported method %q", fields[0])
	}
	if !strings.HasPrefix(path, "/") {
		return "", "", fmt.Errorf("path %q must start with /", path)
	}
	return method, path, nil
}
