package component

import "encoding/json"

// Branch is a declarative rule fired by an answer. Branches are evaluated by
// the form renderer; this package only models them.
type Branch interface {
	json.Marshaler
	Type() Type
	isBranch()
}

// ActionBranch names an action to run, with an optional note.
type ActionBranch struct {
	BranchID *int64
	Action   string
	Comment  *string
}

func (*ActionBranch) Type() Type { return TypeActionBranch }
func (*ActionBranch) isBranch()  {}

// Replacement substitutes container Replace with container Target. Target may
// be a composite key such as applicationId-containerId.
type Replacement struct {
	ID      *int64 `json:"id"`
	Replace string `json:"replace"`
	Target  string `json:"target"`
}

// ReplacementBranch swaps containers.
type ReplacementBranch struct {
	BranchID     *int64
	Replacements []*Replacement
}

func (*ReplacementBranch) Type() Type { return TypeReplacementBranch }
func (*ReplacementBranch) isBranch()  {}

// QuestionBranch navigates to Part when the current part's answer equals
// Value. It only appears inside a MultipartQuestion part.
type QuestionBranch struct {
	BranchID *int64
	Part     string
	Value    string
}

func (*QuestionBranch) Type() Type { return TypeQuestionBranch }
func (*QuestionBranch) isBranch()  {}
