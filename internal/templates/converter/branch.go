package converter

import (
	"sort"

	"appforms/internal/templates/component"
)

// ParseBranch reads an action or replacement branch. Nil input is legal and
// yields no branch. Question branches are parsed only inside multipart parts,
// so any other discriminator is an illegal branch type.
func ParseBranch(owner component.Type, field string, v any) (component.Branch, error) {
	if v == nil {
		return nil, nil
	}
	obj, ok := v.(Object)
	if !ok {
		return nil, component.FieldError(owner, field, "must be a map or null, got %s", describe(v))
	}
	label, err := discriminator(obj)
	if err != nil {
		return nil, err
	}

	var branch component.Branch
	switch component.Type(normalize(label)) {
	case component.TypeActionBranch:
		branch, err = parseActionBranch(obj)
	case component.TypeReplacementBranch:
		branch, err = parseReplacementBranch(obj)
	default:
		return nil, component.Errorf(owner, "illegal branch type %q in the %s field", label, field)
	}
	if err != nil {
		return nil, err
	}
	return branch, nil
}

func parseActionBranch(obj Object) (*component.ActionBranch, error) {
	t := component.TypeActionBranch
	if err := RequireKeys(t, obj, "action"); err != nil {
		return nil, err
	}
	action, err := stringField(t, obj, "action")
	if err != nil {
		return nil, err
	}
	comment, err := optionalString(t, obj, "comment")
	if err != nil {
		return nil, err
	}
	return &component.ActionBranch{
		BranchID: DatabaseID(obj["branchId"]),
		Action:   action,
		Comment:  comment,
	}, nil
}

// parseReplacementBranch reads a replacements list. An entry is either the
// compact single-key form {"<replace>": "<target>"} or the named form
// {"replace": ..., "target": ..., "id": ...} that the branch serializes to.
func parseReplacementBranch(obj Object) (*component.ReplacementBranch, error) {
	t := component.TypeReplacementBranch
	if err := RequireKeys(t, obj, "replacements"); err != nil {
		return nil, err
	}
	raw, err := listField(t, obj, "replacements")
	if err != nil {
		return nil, err
	}

	branch := &component.ReplacementBranch{
		BranchID:     DatabaseID(obj["branchId"]),
		Replacements: make([]*component.Replacement, 0, len(raw)),
	}
	for _, v := range raw {
		entry, ok := v.(Object)
		if !ok {
			return nil, component.FieldError(t, "replacements", "must contain maps, got %s", describe(v))
		}
		r, err := parseReplacement(entry)
		if err != nil {
			return nil, err
		}
		branch.Replacements = append(branch.Replacements, r)
	}
	return branch, nil
}

func parseReplacement(entry Object) (*component.Replacement, error) {
	t := component.TypeReplacementBranch
	if _, named := entry["replace"]; named {
		if err := RequireKeys(t, entry, "replace", "target"); err != nil {
			return nil, err
		}
		replace, err := stringField(t, entry, "replace")
		if err != nil {
			return nil, err
		}
		target, err := stringField(t, entry, "target")
		if err != nil {
			return nil, err
		}
		return &component.Replacement{ID: DatabaseID(entry["id"]), Replace: replace, Target: target}, nil
	}

	if len(entry) != 1 {
		keys := make([]string, 0, len(entry))
		for k := range entry {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, component.FieldError(t, "replacements", "entries must map exactly one container id to its target, got keys %v", keys)
	}
	for replace, v := range entry {
		target, ok := v.(string)
		if !ok {
			return nil, component.FieldError(t, "replacements", "target of %q must be a string, got %s", replace, describe(v))
		}
		return &component.Replacement{Replace: replace, Target: target}, nil
	}
	return nil, nil
}

func parseQuestionBranch(obj Object) (*component.QuestionBranch, error) {
	t := component.TypeQuestionBranch
	if err := RequireKeys(t, obj, "part", "value"); err != nil {
		return nil, err
	}
	part, err := stringField(t, obj, "part")
	if err != nil {
		return nil, err
	}
	value, err := stringField(t, obj, "value")
	if err != nil {
		return nil, err
	}
	return &component.QuestionBranch{
		BranchID: DatabaseID(obj["branchId"]),
		Part:     part,
		Value:    value,
	}, nil
}
