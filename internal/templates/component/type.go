package component

// Type is the discriminator carried by every node and branch in a template.
// Invariant: the value is one of the registered labels below.
//
// Usage: construct via ParseType at trust boundaries; direct casting bypasses
// validation.
type Type string

// Registered discriminators.
const (
	TypeText              Type = "text"
	TypeSelectQuestion    Type = "select-question"
	TypeTextQuestion      Type = "text-question"
	TypeContainer         Type = "container"
	TypeSection           Type = "section"
	TypeSignature         Type = "signature"
	TypeReplacementBranch Type = "replacement"
	TypeActionBranch      Type = "action"
	TypeQuestionBranch    Type = "question"
	TypeCheckboxQuestion  Type = "checkbox-question"
	TypeRadioQuestion     Type = "radio-question"
	TypeMultipartQuestion Type = "multipart-question"
	TypeCheckboxGroup     Type = "checkbox-group"
	TypeQuestionTable     Type = "question-table"
)

// typeNames is the single source of truth for valid types and their titles.
var typeNames = map[Type]string{
	TypeText:              "Text",
	TypeSelectQuestion:    "Select Question",
	TypeTextQuestion:      "Text Question",
	TypeContainer:         "Container",
	TypeSection:           "Section",
	TypeSignature:         "Signature",
	TypeReplacementBranch: "Replacement Branch",
	TypeActionBranch:      "Action Branch",
	TypeQuestionBranch:    "Question Branch",
	TypeCheckboxQuestion:  "Checkbox Question",
	TypeRadioQuestion:     "Radio Question",
	TypeMultipartQuestion: "Multipart Question",
	TypeCheckboxGroup:     "Checkbox Group",
	TypeQuestionTable:     "Question Table",
}

// allTypes keeps declaration order for listings.
var allTypes = []Type{
	TypeText, TypeSelectQuestion, TypeTextQuestion, TypeContainer, TypeSection,
	TypeSignature, TypeReplacementBranch, TypeActionBranch, TypeQuestionBranch,
	TypeCheckboxQuestion, TypeRadioQuestion, TypeMultipartQuestion,
	TypeCheckboxGroup, TypeQuestionTable,
}

// ParseType resolves a label to its Type.
//
// Errors: a *ParseError reporting a missing discriminator when the label is
// empty, and an unknown type for anything outside the registered set.
func ParseType(label string) (Type, error) {
	if label == "" {
		return "", Errorf("", "a component is missing its type discriminator, has a type key been defined?")
	}
	t := Type(label)
	if !t.IsValid() {
		return "", Errorf("", "unknown component type %q", label)
	}
	return t, nil
}

// Types lists every registered type in declaration order.
func Types() []Type {
	out := make([]Type, len(allTypes))
	copy(out, allTypes)
	return out
}

// IsValid reports whether t is a registered type.
func (t Type) IsValid() bool {
	_, ok := typeNames[t]
	return ok
}

// IsBranch reports whether t discriminates a branch rather than a node.
func (t Type) IsBranch() bool {
	return t == TypeActionBranch || t == TypeReplacementBranch || t == TypeQuestionBranch
}

// Name returns the human readable title of the type.
func (t Type) Name() string {
	return typeNames[t]
}

func (t Type) String() string {
	return string(t)
}
