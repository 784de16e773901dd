// Package converter turns untyped template documents into component trees.
//
// Every node type has one Converter, registered explicitly in a Registry.
// Conversion is recursive: composite converters hand each child back to the
// Scope, which dispatches on the child's own type field. Failures are always
// *component.ParseError values and no partial tree is returned.
package converter

import (
	"appforms/internal/templates/component"
)

// Object is one decoded document node.
type Object = map[string]any

// Converter validates and builds one node type.
type Converter interface {
	// Validate checks required keys and field shapes without building.
	Validate(obj Object) error
	// Convert validates obj then builds the node. Nested nodes are converted
	// through s.
	Convert(s *Scope, obj Object) (component.Component, error)
}

// Limits bound the size of a single tree. Documents come from clients, so
// both bounds apply to every conversion.
type Limits struct {
	MaxDepth int
	MaxNodes int
}

// DefaultLimits apply when a registry is not configured otherwise.
var DefaultLimits = Limits{MaxDepth: 32, MaxNodes: 10000}

// Scope carries the state of one conversion: the dispatch table, the limits
// and how deep and large the tree has grown so far.
type Scope struct {
	registry *Registry
	limits   Limits
	depth    int
	nodes    *int
}

func newScope(r *Registry) *Scope {
	return &Scope{registry: r, limits: r.limits, nodes: new(int)}
}

// Depth is the nesting level of the node being converted, 1 for the root.
func (s *Scope) Depth() int {
	return s.depth
}

// Nodes is the number of nodes converted so far in this tree.
func (s *Scope) Nodes() int {
	return *s.nodes
}

// Convert dispatches obj on its own type field one level below s. The
// converter is resolved before any descent so a bad discriminator fails at the
// node that carries it.
func (s *Scope) Convert(obj Object) (component.Component, error) {
	label, err := discriminator(obj)
	if err != nil {
		return nil, err
	}
	conv, err := s.registry.Lookup(label)
	if err != nil {
		return nil, err
	}
	t, _ := component.ParseType(normalize(label))

	if s.limits.MaxDepth > 0 && s.depth+1 > s.limits.MaxDepth {
		return nil, component.Errorf(t, "the template nests deeper than the maximum of %d levels", s.limits.MaxDepth)
	}
	*s.nodes++
	if s.limits.MaxNodes > 0 && *s.nodes > s.limits.MaxNodes {
		return nil, component.Errorf(t, "the template has more than the maximum of %d components", s.limits.MaxNodes)
	}

	child := &Scope{registry: s.registry, limits: s.limits, depth: s.depth + 1, nodes: s.nodes}
	return conv.Convert(child, obj)
}

// ConvertValue converts v, which must be an object, as a child of the owner
// component's field.
func (s *Scope) ConvertValue(owner component.Type, field string, v any) (component.Component, error) {
	obj, ok := v.(Object)
	if !ok {
		return nil, component.FieldError(owner, field, "must contain component objects, got %s", describe(v))
	}
	return s.Convert(obj)
}

// ConvertQuestion converts v and requires the result to be a question.
func (s *Scope) ConvertQuestion(owner component.Type, field string, v any) (component.QuestionComponent, error) {
	c, err := s.ConvertValue(owner, field, v)
	if err != nil {
		return nil, err
	}
	q, ok := c.(component.QuestionComponent)
	if !ok {
		return nil, component.FieldError(owner, field, "must contain question components, got %s", c.Type())
	}
	return q, nil
}

func discriminator(obj Object) (string, error) {
	raw, ok := obj["type"]
	if !ok || raw == nil {
		_, err := component.ParseType("")
		return "", err
	}
	label, ok := raw.(string)
	if !ok {
		return "", component.Errorf("", "a component type discriminator must be a string, got %s", describe(raw))
	}
	if label == "" {
		_, err := component.ParseType("")
		return "", err
	}
	return label, nil
}
