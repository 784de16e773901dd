package templates

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"appforms/internal/templates/component"
	"appforms/internal/templates/converter"
	dErrors "appforms/pkg/domain-errors"
)

// Format is the encoding of a template document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the document format from a file extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return "", false
	}
}

var templateKeys = []string{"components", "description", "id", "name", "version"}

// Parser builds templates from documents using a converter registry.
type Parser struct {
	registry *converter.Registry
	logger   *zap.Logger
}

// NewParser returns a parser dispatching components through registry.
func NewParser(registry *converter.Registry, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{registry: registry, logger: logger}
}

// Registry returns the registry the parser converts with.
func (p *Parser) Registry() *converter.Registry {
	return p.registry
}

// Parse decodes one template document from r.
func (p *Parser) Parse(r io.Reader, format Format) (*Template, error) {
	doc, err := Decode(r, format)
	if err != nil {
		return nil, err
	}
	return p.ParseDocument(doc)
}

// ParseDocument builds a template from an already decoded document.
func (p *Parser) ParseDocument(doc map[string]any) (*Template, error) {
	var missing []string
	for _, key := range templateKeys {
		if _, ok := doc[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, component.Errorf("", "the template is missing keys %s, required keys are: [%s]",
			strings.Join(missing, ", "), strings.Join(templateKeys, ", "))
	}

	t := &Template{DatabaseID: converter.DatabaseID(doc["databaseId"])}
	for _, field := range []struct {
		key string
		dst *string
	}{{"id", &t.ID}, {"name", &t.Name}, {"version", &t.Version}} {
		s, ok := doc[field.key].(string)
		if !ok {
			return nil, component.Errorf("", "the %s of the template must be a string", field.key)
		}
		*field.dst = s
	}
	if t.ID == "" {
		return nil, component.Errorf("", "the id of the template must not be empty")
	}
	description, err := converter.LongString("", "description", doc["description"])
	if err != nil {
		return nil, component.Errorf("", "the description of the template must be a string or a list of strings")
	}
	t.Description = description

	list, ok := doc["components"].([]any)
	if !ok {
		return nil, component.Errorf("", "the components of the template must be a list")
	}
	t.Components, err = p.registry.ConvertAll(list)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("parsed application template",
		zap.String("template_id", t.ID),
		zap.String("name", t.Name),
		zap.Int("components", t.Count()),
	)
	return t, nil
}

// Decode reads one document. JSON numbers are kept exact and YAML mappings
// are normalized to string keys so both formats reach the converters in the
// same shape.
func Decode(r io.Reader, format Format) (map[string]any, error) {
	var doc any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "template document is not valid JSON")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "template document is not valid YAML")
		}
		doc = normalizeYAML(doc)
	default:
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unsupported template format %q", format))
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, dErrors.New(dErrors.CodeBadRequest, "template document must be a map")
	}
	return obj, nil
}

// normalizeYAML turns mappings with non-string keys, such as multipart part
// names written as bare numbers, into string-keyed maps.
func normalizeYAML(v any) any {
	switch n := v.(type) {
	case map[string]any:
		for k, val := range n {
			n[k] = normalizeYAML(val)
		}
		return n
	case map[any]any:
		out := make(map[string]any, len(n))
		for k, val := range n {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case []any:
		for i, val := range n {
			n[i] = normalizeYAML(val)
		}
		return n
	default:
		return v
	}
}

// SortByTitle orders components by title. Templates keep document order
// unless a caller asks for this.
func SortByTitle(a, b component.Component) bool {
	return a.Common().Title < b.Common().Title
}
