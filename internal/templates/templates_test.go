package templates

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appforms/internal/templates/component"
	"appforms/internal/templates/converter"
	dErrors "appforms/pkg/domain-errors"
	"appforms/pkg/platform/sentinel"
)

const ethicsJSON = `{
	"id": "ethics",
	"name": "Ethics Application",
	"description": ["An application ", "for ethics approval"],
	"version": "1.0.0",
	"databaseId": 12,
	"components": [
		{"type": "container", "id": "page-1", "title": "Page", "componentId": "page-1", "components": [
			{"type": "section", "title": "Researcher", "componentId": "researcher", "components": [
				{"type": "signature", "title": "Sign", "name": "sig", "label": "Signature", "componentId": "sig"},
				{"type": "text-question", "title": "Name", "name": "name", "componentId": "name"}
			]}
		]},
		{"type": "text", "title": "Closing", "content": "Thank you", "componentId": "closing"}
	]
}`

const surveyYAML = `
id: survey
name: Survey
description: A short survey
version: "2"
components:
  - type: multipart-question
    title: Funding
    componentId: funding
    conditional: true
    parts:
      1:
        question:
          type: radio-question
          title: Funded?
          name: funded
          options: [yes, no]
        branches:
          - part: "2"
            value: "yes"
      2:
        question:
          type: text-question
          title: Funder
          name: funder
        branches: []
`

func newParser() *Parser {
	return NewParser(converter.Default(), nil)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParser(t *testing.T) {
	t.Run("json template", func(t *testing.T) {
		tmpl, err := newParser().Parse(strings.NewReader(ethicsJSON), FormatJSON)
		require.NoError(t, err)

		assert.Equal(t, "ethics", tmpl.ID)
		assert.Equal(t, "An application for ethics approval", tmpl.Description)
		require.NotNil(t, tmpl.DatabaseID)
		assert.EqualValues(t, 12, *tmpl.DatabaseID)
		require.Len(t, tmpl.Components, 2)
		assert.Equal(t, 5, tmpl.Count())
		assert.Equal(t, Summary{ID: "ethics", Name: "Ethics Application", Description: tmpl.Description, Version: "1.0.0"}, tmpl.Summary())
	})

	t.Run("yaml template with numeric part names", func(t *testing.T) {
		tmpl, err := newParser().Parse(strings.NewReader(surveyYAML), FormatYAML)
		require.NoError(t, err)

		multi := tmpl.Components[0].(*component.MultipartQuestion)
		assert.Equal(t, []string{"1", "2"}, multi.PartNames())
		assert.Equal(t, "funding_2", multi.Parts["2"].Question.Common().ComponentID)
		assert.Equal(t, "yes", multi.Parts["1"].Branches[0].Value)
	})

	tests := []struct {
		name string
		doc  string
		code dErrors.Code
		want string
	}{
		{"malformed json", `{"id":`, dErrors.CodeBadRequest, "not valid JSON"},
		{"not a map", `[]`, dErrors.CodeBadRequest, "must be a map"},
		{"missing keys", `{"id":"a","name":"b"}`, dErrors.CodeInvalidInput, "missing keys components, description, version"},
		{"id not a string", `{"id":1,"name":"b","description":"","version":"1","components":[]}`, dErrors.CodeInvalidInput, "id of the template must be a string"},
		{"empty id", `{"id":"","name":"b","description":"","version":"1","components":[]}`, dErrors.CodeInvalidInput, "must not be empty"},
		{"components not a list", `{"id":"a","name":"b","description":"","version":"1","components":{}}`, dErrors.CodeInvalidInput, "must be a list"},
		{"component not a map", `{"id":"a","name":"b","description":"","version":"1","components":["x"]}`, dErrors.CodeInvalidInput, "component 1 of the template must be a map"},
		{"component without type", `{"id":"a","name":"b","description":"","version":"1","components":[{"title":"x"}]}`, dErrors.CodeInvalidInput, "missing its type discriminator"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newParser().Parse(strings.NewReader(tt.doc), FormatJSON)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, tt.code), "code %s for %v", dErrors.CodeOf(err), err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("unsupported format", func(t *testing.T) {
		_, err := newParser().Parse(strings.NewReader("{}"), Format("xml"))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestTemplate(t *testing.T) {
	tmpl, err := newParser().Parse(strings.NewReader(ethicsJSON), FormatJSON)
	require.NoError(t, err)

	t.Run("finds nested components", func(t *testing.T) {
		assert.True(t, tmpl.HasComponent("sig"))
		assert.True(t, tmpl.HasComponent("closing"))
		assert.False(t, tmpl.HasComponent("missing"))

		found, ok := tmpl.FindComponent("researcher")
		require.True(t, ok)
		assert.Equal(t, component.TypeSection, found.Type())
	})

	t.Run("sorting a copy leaves the original alone", func(t *testing.T) {
		sorted := tmpl.Copy()
		sorted.Sort(SortByTitle)

		assert.Equal(t, "Closing", sorted.Components[0].Common().Title)
		assert.Equal(t, component.TypeContainer, tmpl.Components[0].Type())
		assert.Equal(t, *tmpl.DatabaseID, *sorted.DatabaseID)

		section := sorted.Components[1].(*component.Container).Components[0].(*component.Section)
		assert.Equal(t, "Name", section.Components[0].Common().Title)
		assert.Equal(t, "Sign", section.Components[1].Common().Title)

		original := tmpl.Components[0].(*component.Container).Components[0].(*component.Section)
		assert.Equal(t, "Sign", original.Components[0].Common().Title)
	})

	t.Run("serializes with its components", func(t *testing.T) {
		b, err := tmpl.MarshalJSON()
		require.NoError(t, err)
		assert.Contains(t, string(b), `"id":"ethics"`)
		assert.Contains(t, string(b), `"databaseId":12`)
		assert.Contains(t, string(b), `"type":"signature"`)
	})
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog()

	require.NoError(t, c.Replace([]*Template{{ID: "b"}, {ID: "a"}}))
	assert.Equal(t, 2, c.Len())

	list := c.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)

	got, err := c.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID)

	_, err = c.Get(ctx, "zzz")
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))

	t.Run("duplicate ids leave the catalog unchanged", func(t *testing.T) {
		err := c.Replace([]*Template{{ID: "x"}, {ID: "x"}})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
		assert.Equal(t, 2, c.Len())
	})
}

func TestLoader(t *testing.T) {
	ctx := context.Background()

	t.Run("reads a directory of mixed formats", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "ethics.json", ethicsJSON)
		writeFile(t, dir, "survey.yml", surveyYAML)
		writeFile(t, dir, "README.md", "not a template")
		require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o700))

		loaded, err := NewLoader(newParser(), nil).Load(ctx, dir)
		require.NoError(t, err)
		require.Len(t, loaded, 2)
		assert.Equal(t, "ethics", loaded[0].ID)
		assert.Equal(t, "survey", loaded[1].ID)
	})

	t.Run("a file named twice is read once", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "ethics.json", ethicsJSON)

		loaded, err := NewLoader(newParser(), nil).Load(ctx, path, dir)
		require.NoError(t, err)
		assert.Len(t, loaded, 1)
	})

	t.Run("a bad file fails the load and names the file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "ethics.json", ethicsJSON)
		writeFile(t, dir, "broken.json", `{"id":"broken","name":"b","description":"","version":"1","components":[{"type":"nope"}]}`)

		_, err := NewLoader(newParser(), nil).Load(ctx, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken.json")
		var perr *component.ParseError
		assert.True(t, errors.As(err, &perr))
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := NewLoader(newParser(), nil).Load(ctx, filepath.Join(t.TempDir(), "absent"))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("unsupported file named directly", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "template.txt", ethicsJSON)
		_, err := NewLoader(newParser(), nil).Load(ctx, path)
		assert.ErrorContains(t, err, "unsupported template file extension")
	})
}
