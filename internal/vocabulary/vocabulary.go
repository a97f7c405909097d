package vocabulary

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Entry pairs a stored code with the label guests see.
type Entry struct {
	Code  string `yaml:"code" json:"code"`
	Label string `yaml:"label" json:"label"`
}

// Table is a closed, ordered code/label enumeration.
type Table []Entry

// Vocabulary holds the dessert and topping tables.
type Vocabulary struct {
	Desserts Table `yaml:"desserts" json:"desserts"`
	Toppings Table `yaml:"toppings" json:"toppings"`
}

// Default returns the built-in vocabulary.
func Default() *Vocabulary {
	v, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("vocabulary: embedded default is invalid: %v", err))
	}
	return v
}

// Load reads a vocabulary override file.
func Load(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}
	v, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("vocabulary %s: %w", path, err)
	}
	return v, nil
}

// Parse decodes and validates a YAML vocabulary document.
func Parse(data []byte) (*Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary: %w", err)
	}
	if err := v.Desserts.validate("desserts"); err != nil {
		return nil, err
	}
	if err := v.Toppings.validate("toppings"); err != nil {
		return nil, err
	}
	return &v, nil
}

// Label resolves a code to its display label. Unknown codes are returned verbatim.
func (t Table) Label(code string) string {
	for _, e := range t {
		if e.Code == code {
			return e.Label
		}
	}
	return code
}

// Code resolves a display label back to its code.
func (t Table) Code(label string) (string, bool) {
	for _, e := range t {
		if e.Label == label {
			return e.Code, true
		}
	}
	return "", false
}

// Resolve maps a submitted code or display label to its stored code.
// Unknown values are returned unchanged with ok false.
func (t Table) Resolve(value string) (string, bool) {
	if t.Valid(value) {
		return value, true
	}
	if code, ok := t.Code(value); ok {
		return code, true
	}
	return value, false
}

// Valid reports whether code belongs to the table.
func (t Table) Valid(code string) bool {
	for _, e := range t {
		if e.Code == code {
			return true
		}
	}
	return false
}

func (t Table) validate(name string) error {
	if len(t) == 0 {
		return fmt.Errorf("%s: table is empty", name)
	}
	codes := make(map[string]struct{}, len(t))
	labels := make(map[string]struct{}, len(t))
	for i, e := range t {
		if strings.TrimSpace(e.Code) == "" || strings.TrimSpace(e.Label) == "" {
			return fmt.Errorf("%s[%d]: code and label are required", name, i)
		}
		if _, dup := codes[e.Code]; dup {
			return fmt.Errorf("%s: duplicate code %q", name, e.Code)
		}
		if _, dup := labels[e.Label]; dup {
			return fmt.Errorf("%s: duplicate label %q", name, e.Label)
		}
		codes[e.Code] = struct{}{}
		labels[e.Label] = struct{}{}
	}
	return nil
}
