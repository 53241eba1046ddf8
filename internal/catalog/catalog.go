// Package catalog loads the subject catalog: per-subject categories,
// supported exercise types, generation instructions and default grading
// rules.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/practiz/internal/exercise"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Entry is the catalog record for one subject.
type Entry struct {
	Subject      exercise.Subject         `yaml:"subject"`
	Name         string                   `yaml:"name"`
	Categories   []string                 `yaml:"categories"`
	Types        []exercise.Type          `yaml:"types"`
	Instructions string                   `yaml:"instructions"`
	Validation   exercise.ValidationRules `yaml:"validation"`
}

// Supports reports whether the subject offers exercises of type t.
func (e *Entry) Supports(t exercise.Type) bool {
	for _, st := range e.Types {
		if st == t {
			return true
		}
	}
	return false
}

// file is the YAML document layout.
type file struct {
	Subjects []Entry `yaml:"subjects"`
}

// Catalog is an immutable, ordered set of subject entries.
type Catalog struct {
	order   []exercise.Subject
	entries map[exercise.Subject]*Entry
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Subjects) == 0 {
		return nil, fmt.Errorf("catalog has no subjects")
	}

	c := &Catalog{entries: make(map[exercise.Subject]*Entry, len(f.Subjects))}
	for i := range f.Subjects {
		e := f.Subjects[i]
		e.Subject = exercise.Subject(strings.ToLower(strings.TrimSpace(string(e.Subject))))
		if e.Subject == "" {
			return nil, fmt.Errorf("catalog entry %d: missing subject", i)
		}
		if _, dup := c.entries[e.Subject]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate subject %q", i, e.Subject)
		}
		if len(e.Types) == 0 {
			return nil, fmt.Errorf("subject %q: no exercise types", e.Subject)
		}
		for j, t := range e.Types {
			pt, ok := exercise.ParseType(string(t))
			if !ok {
				return nil, fmt.Errorf("subject %q: unknown exercise type %q", e.Subject, t)
			}
			e.Types[j] = pt
		}
		for j, cat := range e.Categories {
			e.Categories[j] = strings.ToLower(strings.TrimSpace(cat))
		}
		if e.Validation.PassingScore < 0 || e.Validation.PassingScore > 100 {
			return nil, fmt.Errorf("subject %q: passing_score must be within 0-100", e.Subject)
		}
		if e.Validation.HintPenalty < 0 || e.Validation.TimePenalty < 0 {
			return nil, fmt.Errorf("subject %q: penalties must not be negative", e.Subject)
		}
		c.entries[e.Subject] = &e
		c.order = append(c.order, e.Subject)
	}
	return c, nil
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultCatalog)
		if err != nil {
			panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// FromEnv loads the catalog named by PRACTIZ_CATALOG, or the embedded
// default when the variable is unset.
func FromEnv() (*Catalog, error) {
	if p := os.Getenv("PRACTIZ_CATALOG"); p != "" {
		return Load(p)
	}
	return Default(), nil
}

// Lookup returns the entry for a subject.
func (c *Catalog) Lookup(s exercise.Subject) (*Entry, bool) {
	e, ok := c.entries[s]
	return e, ok
}

// Subjects returns the catalog's subjects in file order.
func (c *Catalog) Subjects() []exercise.Subject {
	return append([]exercise.Subject(nil), c.order...)
}
