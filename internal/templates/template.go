// Package templates holds application form templates: their parsing from
// JSON or YAML documents, the in-memory catalog serving them and the file
// loader and watcher that keep the catalog current.
package templates

import (
	"encoding/json"

	"appforms/internal/templates/component"
)

// Template is one application form: an ordered list of component trees plus
// the metadata identifying its revision.
type Template struct {
	DatabaseID  *int64
	ID          string
	Name        string
	Description string
	Version     string
	Components  []component.Component
}

// Summary is the listing view of a template.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

func (t *Template) MarshalJSON() ([]byte, error) {
	components := t.Components
	if components == nil {
		components = []component.Component{}
	}
	return json.Marshal(struct {
		DatabaseID  *int64                `json:"databaseId"`
		ID          string                `json:"id"`
		Name        string                `json:"name"`
		Description string                `json:"description"`
		Version     string                `json:"version"`
		Components  []component.Component `json:"components"`
	}{t.DatabaseID, t.ID, t.Name, t.Description, t.Version, components})
}

// Summary returns the listing view of t.
func (t *Template) Summary() Summary {
	return Summary{ID: t.ID, Name: t.Name, Description: t.Description, Version: t.Version}
}

// HasComponent reports whether any tree of t holds a component with the id.
func (t *Template) HasComponent(componentID string) bool {
	_, ok := t.FindComponent(componentID)
	return ok
}

// FindComponent returns the first component with the id, searching the trees
// in order.
func (t *Template) FindComponent(componentID string) (component.Component, bool) {
	for _, c := range t.Components {
		if found, ok := component.Find(c, componentID); ok {
			return found, true
		}
	}
	return nil, false
}

// Sort orders the top-level components and every composite's children with
// less. A nil less leaves the template untouched.
func (t *Template) Sort(less func(a, b component.Component) bool) {
	component.Sort(t.Components, less)
}

// Count is the number of nodes across all trees.
func (t *Template) Count() int {
	n := 0
	for _, c := range t.Components {
		n += component.Count(c)
	}
	return n
}

// Copy returns a deep copy of t that can be reshaped without touching the
// catalog.
func (t *Template) Copy() *Template {
	out := *t
	if t.DatabaseID != nil {
		id := *t.DatabaseID
		out.DatabaseID = &id
	}
	out.Components = make([]component.Component, len(t.Components))
	for i, c := range t.Components {
		out.Components[i] = component.Copy(c)
	}
	return &out
}
