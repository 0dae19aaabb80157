// Package category holds the fixed set of interest categories traces are
// scored against.
package category

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var defaultRegistry []byte

// Kind selects the scoring pipeline for a category.
type Kind string

const (
	// KindGeneric scores a batch of traces with a single rubric prompt.
	KindGeneric Kind = "generic"
	// KindConnectionVerification classifies each trace and corroborates
	// strong connections with a search-grounded call.
	KindConnectionVerification Kind = "connection_verification"
)

// Verification configures a KindConnectionVerification category.
type Verification struct {
	Organization     string `yaml:"organization"`
	OrganizationName string `yaml:"organization_name"`
	Threshold        int    `yaml:"threshold"`
	Bonus            int    `yaml:"bonus"`
	Cap              int    `yaml:"cap"`
	DefaultRegion    string `yaml:"default_region"`
	DefaultPrograms  string `yaml:"default_programs"`
	SearchAvoid      string `yaml:"search_avoid"`
	Catalogue        string `yaml:"catalogue"`
}

type Category struct {
	Key          string        `yaml:"key" json:"key"`
	Name         string        `yaml:"name" json:"name"`
	Description  string        `yaml:"description" json:"description"`
	PromptHint   string        `yaml:"prompt_hint" json:"prompt_hint"`
	Kind         Kind          `yaml:"kind" json:"kind"`
	Verification *Verification `yaml:"verification,omitempty" json:"-"`
}

// Registry is an ordered, read-only set of categories.
type Registry struct {
	ordered []Category
	byKey   map[string]int
}

// Default returns the built-in registry.
func Default() *Registry {
	r, err := Parse(defaultRegistry)
	if err != nil {
		panic(fmt.Sprintf("category: embedded registry: %v", err))
	}
	return r
}

// Load reads a registry from a YAML file. An empty path yields Default().
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML category list.
func Parse(data []byte) (*Registry, error) {
	var cats []Category
	if err := yaml.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("parse categories: %w", err)
	}
	if len(cats) == 0 {
		return nil, errors.New("no categories defined")
	}

	r := &Registry{byKey: make(map[string]int, len(cats))}
	for _, c := range cats {
		if c.Key == "" || c.Name == "" {
			return nil, fmt.Errorf("category %q: key and name are required", c.Key)
		}
		if _, dup := r.byKey[c.Key]; dup {
			return nil, fmt.Errorf("category %q: duplicate key", c.Key)
		}
		switch c.Kind {
		case "":
			c.Kind = KindGeneric
		case KindGeneric:
		case KindConnectionVerification:
			if c.Verification == nil {
				return nil, fmt.Errorf("category %q: verification config required", c.Key)
			}
			c.Verification.applyDefaults()
		default:
			return nil, fmt.Errorf("category %q: unknown kind %q", c.Key, c.Kind)
		}
		r.byKey[c.Key] = len(r.ordered)
		r.ordered = append(r.ordered, c)
	}
	return r, nil
}

func (v *Verification) applyDefaults() {
	if v.Threshold == 0 {
		v.Threshold = 50
	}
	if v.Cap == 0 {
		v.Cap = 100
	}
	if v.DefaultRegion == "" {
		v.DefaultRegion = "global"
	}
	if v.OrganizationName == "" {
		v.OrganizationName = v.Organization
	}
}

// Get looks up a category by key.
func (r *Registry) Get(key string) (Category, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return Category{}, false
	}
	return r.ordered[i], true
}

// All returns the categories in registry order.
func (r *Registry) All() []Category {
	out := make([]Category, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Keys returns the category keys in registry order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.ordered))
	for i, c := range r.ordered {
		keys[i] = c.Key
	}
	return keys
}
