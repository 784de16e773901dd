package converter

import (
	"appforms/internal/templates/component"
)

type checkboxGroupConverter struct{}

func (checkboxGroupConverter) Validate(obj Object) error {
	t := component.TypeCheckboxGroup
	if err := RequireKeys(t, obj, "title", "defaultBranch", "checkboxes"); err != nil {
		return err
	}
	if v := obj["defaultBranch"]; v != nil {
		if _, ok := v.(Object); !ok {
			return component.FieldError(t, "defaultBranch", "must be a map or null, got %s", describe(v))
		}
	}
	raw, err := listField(t, obj, "checkboxes")
	if err != nil {
		return err
	}
	for _, v := range raw {
		box, ok := v.(Object)
		if !ok {
			return component.FieldError(t, "checkboxes", "must contain maps, got %s", describe(v))
		}
		if _, ok := box["title"]; !ok {
			return component.FieldError(t, "checkboxes", "entries must have a title")
		}
	}
	return nil
}

// Convert builds the group. A checkbox's own branch, when present, overrides
// the default branch for that checkbox only.
func (c checkboxGroupConverter) Convert(_ *Scope, obj Object) (component.Component, error) {
	if err := c.Validate(obj); err != nil {
		return nil, err
	}
	t := component.TypeCheckboxGroup
	group := &component.CheckboxGroup{Question: component.NewQuestion()}
	if err := applyQuestion(t, group, obj); err != nil {
		return nil, err
	}
	if err := applyRequired(t, group, obj, false); err != nil {
		return nil, err
	}

	var err error
	if group.Multiple, err = boolField(t, obj, "multiple", false); err != nil {
		return nil, err
	}
	if group.DefaultBranch, err = ParseBranch(t, "defaultBranch", obj["defaultBranch"]); err != nil {
		return nil, err
	}

	raw, _ := listField(t, obj, "checkboxes")
	group.Checkboxes = make([]*component.Checkbox, 0, len(raw))
	for _, v := range raw {
		box, err := parseCheckbox(v.(Object))
		if err != nil {
			return nil, err
		}
		group.Checkboxes = append(group.Checkboxes, box)
	}
	return group, nil
}

func parseCheckbox(obj Object) (*component.Checkbox, error) {
	t := component.TypeCheckboxGroup
	title, err := stringField(t, obj, "title")
	if err != nil {
		return nil, err
	}
	branch, err := ParseBranch(t, "branch", obj["branch"])
	if err != nil {
		return nil, err
	}
	identifier, err := identifierOrNew(t, obj)
	if err != nil {
		return nil, err
	}
	return &component.Checkbox{
		ID:         DatabaseID(obj["id"]),
		Title:      title,
		Branch:     branch,
		Identifier: identifier,
	}, nil
}
