package converter

import (
	"appforms/internal/templates/component"
)

type multipartConverter struct{}

func (multipartConverter) Validate(obj Object) error {
	t := component.TypeMultipartQuestion
	if err := RequireKeys(t, obj, "conditional", "parts"); err != nil {
		return err
	}
	if _, err := boolField(t, obj, "conditional", false); err != nil {
		return err
	}
	parts, err := objectField(t, obj, "parts")
	if err != nil {
		return err
	}
	for name, v := range parts {
		part, ok := v.(Object)
		if !ok {
			return component.FieldError(t, "parts", "part %q must be a map, got %s", name, describe(v))
		}
		if _, ok := part["question"]; !ok {
			return component.FieldError(t, "parts", "part %q needs to contain a question", name)
		}
		if _, ok := part["branches"]; !ok {
			return component.FieldError(t, "parts", "part %q needs to contain a branches list", name)
		}
		if _, err := listField(t, part, "branches"); err != nil {
			return err
		}
	}
	return nil
}

// Convert builds every part, then numbers the part questions
// <componentId>_<n> in sorted part-name order so repeated conversions of one
// document agree. Nested multiparts are renumbered from their new ids.
func (c multipartConverter) Convert(s *Scope, obj Object) (component.Component, error) {
	if err := c.Validate(obj); err != nil {
		return nil, err
	}
	t := component.TypeMultipartQuestion
	m := &component.MultipartQuestion{Question: component.NewQuestion()}
	if err := applyQuestion(t, m, obj); err != nil {
		return nil, err
	}
	if err := applyRequired(t, m, obj, component.DefaultRequired); err != nil {
		return nil, err
	}
	m.Conditional, _ = boolField(t, obj, "conditional", false)

	parts, _ := objectField(t, obj, "parts")
	m.Parts = make(map[string]*component.QuestionPart, len(parts))
	for _, name := range sortedNames(parts) {
		part, err := parsePart(s, name, parts[name].(Object))
		if err != nil {
			return nil, err
		}
		m.Parts[name] = part
	}
	component.Resequence(m)
	return m, nil
}

func parsePart(s *Scope, name string, obj Object) (*component.QuestionPart, error) {
	t := component.TypeMultipartQuestion
	question, err := s.ConvertQuestion(t, "parts."+name+".question", obj["question"])
	if err != nil {
		return nil, err
	}

	raw, _ := listField(t, obj, "branches")
	branches := make([]*component.QuestionBranch, 0, len(raw))
	for _, v := range raw {
		branchObj, ok := v.(Object)
		if !ok {
			return nil, component.FieldError(t, "parts."+name+".branches", "must contain maps, got %s", describe(v))
		}
		b, err := parseQuestionBranch(branchObj)
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}

	return &component.QuestionPart{
		ID:       DatabaseID(obj["id"]),
		PartName: name,
		Question: question,
		Branches: branches,
	}, nil
}
