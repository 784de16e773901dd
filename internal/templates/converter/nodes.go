package converter

import (
	"appforms/internal/templates/component"
)

func applyBase(t component.Type, b *component.Base, obj Object) error {
	title, err := stringField(t, obj, "title")
	if err != nil {
		return err
	}
	b.Title = title

	id, err := stringField(t, obj, "componentId")
	if err != nil {
		return err
	}
	if id != "" {
		b.ComponentID = id
	}
	b.DatabaseID = DatabaseID(obj["databaseId"])
	return nil
}

type textConverter struct{}

func (textConverter) Validate(obj Object) error {
	if err := RequireKeys(component.TypeText, obj, "title", "content"); err != nil {
		return err
	}
	_, err := LongString(component.TypeText, "content", obj["content"])
	return err
}

func (c textConverter) Convert(_ *Scope, obj Object) (component.Component, error) {
	if err := c.Validate(obj); err != nil {
		return nil, err
	}
	t := component.TypeText
	text := &component.Text{Base: component.NewBase()}
	if err := applyBase(t, &text.Base, obj); err != nil {
		return nil, err
	}
	content, err := LongString(t, "content", obj["content"])
	if err != nil {
		return nil, err
	}
	text.Content = content
	if text.Nested, err = boolField(t, obj, "nested", false); err != nil {
		return nil, err
	}
	return text, nil
}

type containerConverter struct{}

func (containerConverter) Validate(obj Object) error {
	t := component.TypeContainer
	if err := RequireKeys(t, obj, "id", "components"); err != nil {
		return err
	}
	if _, err := stringField(t, obj, "id"); err != nil {
		return err
	}
	_, err := listField(t, obj, "components")
	return err
}

func (c containerConverter) Convert(s *Scope, obj Object) (component.Component, error) {
	if err := c.Validate(obj); err != nil {
		return nil, err
	}
	t := component.TypeContainer
	container := &component.Container{Base: component.NewBase()}
	if err := applyBase(t, &container.Base, obj); err != nil {
		return nil, err
	}
	container.ID, _ = stringField(t, obj, "id")

	children, err := convertChildren(s, t, obj)
	if err != nil {
		return nil, err
	}
	container.Components = children
	return container, nil
}

type sectionConverter struct{}

func (sectionConverter) Validate(obj Object) error {
	t := component.TypeSection
	if err := RequireKeys(t, obj, "title", "components"); err != nil {
		return err
	}
	if _, err := listField(t, obj, "components"); err != nil {
		return err
	}
	_, err := LongString(t, "description", obj["description"])
	return err
}

func (c sectionConverter) Convert(s *Scope, obj Object) (component.Component, error) {
	if err := c.Validate(obj); err != nil {
		return nil, err
	}
	t := component.TypeSection
	section := &component.Section{Base: component.NewBase()}
	if err := applyBase(t, &section.Base, obj); err != nil {
		return nil, err
	}
	var err error
	if section.Description, err = LongString(t, "description", obj["description"]); err != nil {
		return nil, err
	}
	if section.AutoSave, err = boolField(t, obj, "autoSave", true); err != nil {
		return nil, err
	}

	children, err := convertChildren(s, t, obj)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if text, ok := child.(*component.Text); ok {
			text.Nested = true
		}
	}
	section.Components = children
	return section, nil
}

func convertChildren(s *Scope, t component.Type, obj Object) ([]component.Component, error) {
	raw, err := listField(t, obj, "components")
	if err != nil {
		return nil, err
	}
	children := make([]component.Component, 0, len(raw))
	for _, v := range raw {
		child, err := s.ConvertValue(t, "components", v)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}
