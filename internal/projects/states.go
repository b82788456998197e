package projects

import (
	"fmt"
	"strings"
)

// InvalidStateError reports a state name that the project does not define.
type InvalidStateError struct {
	Project string
	Name    string
	Valid   []string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state %q for project %s. Valid states: %s",
		e.Name, e.Project, strings.Join(e.Valid, ", "))
}

// StateID returns the backend ID of a state name. A missing name is not
// an error here; callers decide whether it is fatal.
func (r *Registry) StateID(code, name string) (string, bool) {
	e, ok := r.entries[code]
	if !ok {
		return "", false
	}
	id, ok := e.idByName[name]
	return id, ok
}

// StateName returns the display name of a backend state ID. Unknown IDs
// (and unknown projects) come back unchanged: the backend may grow states
// this table does not know about yet.
func (r *Registry) StateName(code, id string) string {
	e, ok := r.entries[code]
	if !ok {
		return id
	}
	if name, ok := e.nameByID[id]; ok {
		return name
	}
	return id
}

// ValidStateNames returns the project's state names in workflow order.
func (r *Registry) ValidStateNames(code string) []string {
	e, ok := r.entries[code]
	if !ok {
		return nil
	}
	return e.project.StateNames()
}

// ResolveStateForWrite maps a state name to its ID before a create or
// update call, failing with *InvalidStateError when the name is unknown.
func (r *Registry) ResolveStateForWrite(code, name string) (string, error) {
	if id, ok := r.StateID(code, name); ok {
		return id, nil
	}
	return "", &InvalidStateError{Project: code, Name: name, Valid: r.ValidStateNames(code)}
}

// DisplayState renders a state for output. It never fails.
func (r *Registry) DisplayState(code, idOrName string) string {
	return r.StateName(code, idOrName)
}
