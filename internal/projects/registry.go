// Package projects holds the static table of Plane projects this server
// can reach, and everything derivable from it without touching the network:
// ticket identifiers (SBS-123) and workflow-state names.
//
// The table is loaded once at startup (from the embedded projects.yaml or
// an override file) and is never mutated afterwards, so a *Registry is safe
// to share between concurrent tool calls.
package projects

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed projects.yaml
var defaultTable []byte

// ErrUnknownProject is returned when a project code is not in the registry.
var ErrUnknownProject = errors.New("unknown project")

// codePattern restricts project codes to what the ticket codec can parse.
var codePattern = regexp.MustCompile(`^[A-Z]+$`)

// State is one workflow state of a project.
type State struct {
	Name string `yaml:"name" json:"name"`
	ID   string `yaml:"id" json:"id"`
}

// Project describes a Plane project and its workflow states.
// States are kept in the project's conventional workflow order.
type Project struct {
	Code   string  `yaml:"code" json:"code"`
	ID     string  `yaml:"id" json:"id"`
	Name   string  `yaml:"name" json:"name"`
	States []State `yaml:"states" json:"states"`
}

// StateNames returns the state names in workflow order.
func (p Project) StateNames() []string {
	names := make([]string, len(p.States))
	for i, s := range p.States {
		names[i] = s.Name
	}
	return names
}

type table struct {
	Projects []Project `yaml:"projects"`
}

// entry is a project plus its precomputed lookup maps.
type entry struct {
	project  Project
	idByName map[string]string
	nameByID map[string]string
}

// Registry is an immutable lookup structure over a set of projects.
type Registry struct {
	codes   []string
	entries map[string]*entry
}

// New builds a Registry, checking that project codes are unique and that
// state names and state IDs are unique within each project.
func New(projects []Project) (*Registry, error) {
	r := &Registry{entries: make(map[string]*entry, len(projects))}

	for _, p := range projects {
		if !codePattern.MatchString(p.Code) {
			return nil, fmt.Errorf("project code %q: must be uppercase letters only", p.Code)
		}
		if p.ID == "" {
			return nil, fmt.Errorf("project %s: missing id", p.Code)
		}
		if _, dup := r.entries[p.Code]; dup {
			return nil, fmt.Errorf("project %s: duplicate code", p.Code)
		}

		e := &entry{
			project:  Project{Code: p.Code, ID: p.ID, Name: p.Name, States: slices.Clone(p.States)},
			idByName: make(map[string]string, len(p.States)),
			nameByID: make(map[string]string, len(p.States)),
		}
		for _, s := range p.States {
			if s.Name == "" || s.ID == "" {
				return nil, fmt.Errorf("project %s: state needs both name and id", p.Code)
			}
			if _, dup := e.idByName[s.Name]; dup {
				return nil, fmt.Errorf("project %s: duplicate state name %q", p.Code, s.Name)
			}
			if _, dup := e.nameByID[s.ID]; dup {
				return nil, fmt.Errorf("project %s: duplicate state id %q", p.Code, s.ID)
			}
			e.idByName[s.Name] = s.ID
			e.nameByID[s.ID] = s.Name
		}

		r.entries[p.Code] = e
		r.codes = append(r.codes, p.Code)
	}

	return r, nil
}

// Load parses a YAML project table.
func Load(data []byte) (*Registry, error) {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing project table: %w", err)
	}
	if len(t.Projects) == 0 {
		return nil, errors.New("project table is empty")
	}
	return New(t.Projects)
}

// LoadFile reads and parses a YAML project table from disk.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project table: %w", err)
	}
	return Load(data)
}

// Default returns the registry built from the embedded project table.
func Default() (*Registry, error) {
	return Load(defaultTable)
}

// Describe returns the project registered under code.
func (r *Registry) Describe(code string) (Project, error) {
	e, ok := r.entries[code]
	if !ok {
		return Project{}, fmt.Errorf("%w: %s", ErrUnknownProject, code)
	}
	p := e.project
	p.States = slices.Clone(p.States)
	return p, nil
}

// Has reports whether code is a registered project code.
func (r *Registry) Has(code string) bool {
	_, ok := r.entries[code]
	return ok
}

// Codes returns the registered project codes in table order.
func (r *Registry) Codes() []string {
	return slices.Clone(r.codes)
}

// Projects returns every registered project in table order.
func (r *Registry) Projects() []Project {
	out := make([]Project, 0, len(r.codes))
	for _, code := range r.codes {
		p, _ := r.Describe(code)
		out = append(out, p)
	}
	return out
}
