package converter

import (
	"fmt"
	"strings"
	"sync"

	"appforms/internal/templates/component"
)

// Registry maps node types to their converters.
//
// Invariant: populated by explicit Register calls, then frozen. A frozen
// registry is read-only and safe for concurrent conversions.
type Registry struct {
	converters map[component.Type]Converter
	limits     Limits
	frozen     bool
}

// NewRegistry returns an empty registry using DefaultLimits.
func NewRegistry() *Registry {
	return &Registry{
		converters: make(map[component.Type]Converter),
		limits:     DefaultLimits,
	}
}

// Register adds the converter for t. Registering an unknown type, a type
// twice, or into a frozen registry is a programming error and panics.
func (r *Registry) Register(t component.Type, c Converter) {
	if r.frozen {
		panic(fmt.Sprintf("converter: register %q on a frozen registry", t))
	}
	if !t.IsValid() {
		panic(fmt.Sprintf("converter: register unknown type %q", t))
	}
	if _, exists := r.converters[t]; exists {
		panic(fmt.Sprintf("converter: duplicate registration for %q", t))
	}
	r.converters[t] = c
}

// Freeze ends registration.
func (r *Registry) Freeze() *Registry {
	r.frozen = true
	return r
}

// WithLimits returns a view of r sharing its converters with different limits.
func (r *Registry) WithLimits(l Limits) *Registry {
	return &Registry{converters: r.converters, limits: l, frozen: true}
}

// Limits returns the bounds applied to each conversion.
func (r *Registry) Limits() Limits {
	return r.limits
}

// Get returns the converter registered for t.
func (r *Registry) Get(t component.Type) (Converter, bool) {
	c, ok := r.converters[t]
	return c, ok
}

// Lookup normalizes a raw type label and resolves its converter.
func (r *Registry) Lookup(label string) (Converter, error) {
	normalized := normalize(label)
	if normalized == "" {
		_, err := component.ParseType("")
		return nil, err
	}
	t, err := component.ParseType(normalized)
	if err != nil {
		return nil, component.Errorf("", "the application does not know how to convert a component of type %q", label)
	}
	c, ok := r.converters[t]
	if !ok {
		return nil, component.Errorf(t, "the application does not know how to convert a component of type %q", label)
	}
	return c, nil
}

// Types lists the registered types in declaration order.
func (r *Registry) Types() []component.Type {
	var out []component.Type
	for _, t := range component.Types() {
		if _, ok := r.converters[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Convert builds a tree from a root document node.
func (r *Registry) Convert(obj Object) (component.Component, error) {
	return newScope(r).Convert(obj)
}

// ConvertAll builds the top-level component list of a template. The trees
// share one node budget.
func (r *Registry) ConvertAll(values []any) ([]component.Component, error) {
	s := newScope(r)
	out := make([]component.Component, 0, len(values))
	for i, v := range values {
		obj, ok := v.(Object)
		if !ok {
			return nil, component.Errorf("", "component %d of the template must be a map, got %s", i+1, describe(v))
		}
		c, err := s.Convert(obj)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// RegisterDefaults registers one converter per node type.
func RegisterDefaults(r *Registry) {
	r.Register(component.TypeText, textConverter{})
	r.Register(component.TypeContainer, containerConverter{})
	r.Register(component.TypeSection, sectionConverter{})
	r.Register(component.TypeTextQuestion, textQuestionConverter{})
	r.Register(component.TypeSelectQuestion, selectQuestionConverter{})
	r.Register(component.TypeRadioQuestion, radioQuestionConverter{})
	r.Register(component.TypeCheckboxQuestion, checkboxQuestionConverter{})
	r.Register(component.TypeSignature, signatureConverter{})
	r.Register(component.TypeCheckboxGroup, checkboxGroupConverter{})
	r.Register(component.TypeMultipartQuestion, multipartConverter{})
	r.Register(component.TypeQuestionTable, tableConverter{})
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, built and frozen on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		r := NewRegistry()
		RegisterDefaults(r)
		defaultRegistry = r.Freeze()
	})
	return defaultRegistry
}

func normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
