// Package component models an application form as a closed tree of typed
// nodes. Nodes are built by the converter package from untyped documents and
// serialize back to the same document shape with generated fields filled in.
package component

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Component is a node of a form tree. The set of implementations is closed;
// every variant lives in this package.
//
// Invariant: a tree is strictly owned, each child has exactly one parent and
// no node refers back to an ancestor.
type Component interface {
	json.Marshaler
	// Type is fixed by the variant and never changes after construction.
	Type() Type
	// Common exposes the fields every node shares.
	Common() *Base
	// Composite reports whether the node owns an ordered child list.
	Composite() bool
	isComponent()
}

// QuestionComponent is a node that collects an answer.
type QuestionComponent interface {
	Component
	Details() *Question
	IsRequired() bool
	SetRequired(required bool)
}

// CompositeComponent is a node owning an ordered list of children. Order is
// document order.
type CompositeComponent interface {
	Component
	Children() []Component
	// SortComponents reorders the direct children in place using less.
	SortComponents(less func(a, b Component) bool)
}

// Base holds the fields shared by every node.
type Base struct {
	Title string
	// ComponentID is the stable, externally addressable identity of the node.
	ComponentID string
	// DatabaseID is assigned by persistence and is nil on parsed or cloned trees.
	DatabaseID *int64
}

// NewBase returns a Base with a freshly generated component id.
func NewBase() Base {
	return Base{ComponentID: uuid.NewString()}
}

func (b *Base) Common() *Base { return b }

func (b *Base) Composite() bool { return false }

func (b *Base) isComponent() {}

// Question holds the fields shared by every question node.
type Question struct {
	Base
	Description string
	// Name is the answer key.
	Name     string
	Editable bool
	// Autofill is a default value hint, nil when none is given.
	Autofill *string
	// RequestInput marks the question as answerable by a third party.
	RequestInput bool
	required     bool
}

// DefaultRequired is the required-ness of a question that does not state it.
const DefaultRequired = true

// NewQuestion returns a Question carrying the defaults for unset fields.
func NewQuestion() Question {
	return Question{Base: NewBase(), Editable: true, required: DefaultRequired}
}

func (q *Question) Details() *Question { return q }

func (q *Question) IsRequired() bool { return q.required }

func (q *Question) SetRequired(required bool) { q.required = required }

// Text is a static block of content.
type Text struct {
	Base
	Content string
	// Nested is set when the block sits directly inside a Section.
	Nested bool
}

func (*Text) Type() Type { return TypeText }

// Container groups components under an external id.
type Container struct {
	Base
	ID         string
	Components []Component
}

func (*Container) Type() Type { return TypeContainer }

func (*Container) Composite() bool { return true }

func (c *Container) Children() []Component { return c.Components }

func (c *Container) SortComponents(less func(a, b Component) bool) {
	sortChildren(c.Components, less)
}

// Section is a titled group of components.
type Section struct {
	Base
	Description string
	Components  []Component
	AutoSave    bool
}

func (*Section) Type() Type { return TypeSection }

func (*Section) Composite() bool { return true }

func (s *Section) Children() []Component { return s.Components }

func (s *Section) SortComponents(less func(a, b Component) bool) {
	sortChildren(s.Components, less)
}

// TextQuestion is a free text answer.
type TextQuestion struct {
	Question
	SingleLine bool
	// QuestionType is the input kind, for example text, email or password.
	QuestionType string
}

func (*TextQuestion) Type() Type { return TypeTextQuestion }

// Option is a selectable value of a select style question.
type Option struct {
	ID    *int64 `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
	// Identifier survives reconstruction and is used for cross references.
	Identifier string `json:"identifier"`
}

// NewOption returns an option with a generated identifier.
func NewOption(label, value string) *Option {
	return &Option{Label: label, Value: value, Identifier: uuid.NewString()}
}

// SelectQuestion picks one or more of a list of options.
type SelectQuestion struct {
	Question
	Multiple bool
	Options  []*Option
	AddOther bool
}

func (*SelectQuestion) Type() Type { return TypeSelectQuestion }

// RadioQuestion is a single choice select rendered as radio buttons.
type RadioQuestion struct {
	SelectQuestion
	Inline bool
}

func (*RadioQuestion) Type() Type { return TypeRadioQuestion }

// CheckboxQuestion is a multiple choice select rendered as checkboxes.
type CheckboxQuestion struct {
	SelectQuestion
	Inline bool
}

func (*CheckboxQuestion) Type() Type { return TypeCheckboxQuestion }

// SignatureQuestion collects a signature. It is always required.
type SignatureQuestion struct {
	Question
	Label string
}

func (*SignatureQuestion) Type() Type { return TypeSignature }

func (*SignatureQuestion) IsRequired() bool { return true }

// SetRequired is a no-op; a signature cannot be made optional.
func (*SignatureQuestion) SetRequired(bool) {}

// Checkbox is one entry of a CheckboxGroup.
type Checkbox struct {
	ID    *int64 `json:"id"`
	Title string `json:"title"`
	// Branch overrides the group's default branch when set.
	Branch     Branch `json:"branch"`
	Identifier string `json:"identifier"`
}

// CheckboxGroup is a list of checkboxes each of which may trigger a branch.
type CheckboxGroup struct {
	Question
	DefaultBranch Branch
	Checkboxes    []*Checkbox
	Multiple      bool
}

func (*CheckboxGroup) Type() Type { return TypeCheckboxGroup }

// EffectiveBranch is the branch fired when box is checked: its own branch if
// present, otherwise the group default. The result may be nil.
func (g *CheckboxGroup) EffectiveBranch(box *Checkbox) Branch {
	if box != nil && box.Branch != nil {
		return box.Branch
	}
	return g.DefaultBranch
}

// QuestionPart is one part of a MultipartQuestion.
type QuestionPart struct {
	ID       *int64            `json:"id"`
	PartName string            `json:"partName"`
	Question QuestionComponent `json:"question"`
	Branches []*QuestionBranch `json:"branches"`
}

// MultipartQuestion splits a question into named parts. When Conditional is
// set only the part reached through a matching QuestionBranch is active.
type MultipartQuestion struct {
	Question
	Conditional bool
	Parts       map[string]*QuestionPart
}

func (*MultipartQuestion) Type() Type { return TypeMultipartQuestion }

// PartNames returns the part names in sorted order.
func (m *MultipartQuestion) PartNames() []string {
	return sortedKeys(m.Parts)
}

// SequencePartIDs sets the component id of each part's question to
// <componentId>_<n>, numbering parts from 1 in PartNames order.
func (m *MultipartQuestion) SequencePartIDs() {
	for i, name := range m.PartNames() {
		part := m.Parts[name]
		if part == nil || part.Question == nil {
			continue
		}
		part.Question.Common().ComponentID = fmt.Sprintf("%s_%d", m.ComponentID, i+1)
	}
}

// Cells is one column of a QuestionTable, one question per row.
type Cells struct {
	DatabaseID *int64              `json:"databaseId"`
	ColumnName string              `json:"columnName"`
	Components []QuestionComponent `json:"components"`
}

// CellsMapping maps column names to their cells.
type CellsMapping struct {
	DatabaseID *int64
	Columns    map[string]*Cells
}

// QuestionTable is a grid of questions.
//
// Invariant: every column holds exactly NumRows cells and cell i of every
// column belongs to row i.
type QuestionTable struct {
	Base
	Cells   CellsMapping
	NumRows int
}

func (*QuestionTable) Type() Type { return TypeQuestionTable }

// ColumnNames returns the column names in sorted order.
func (t *QuestionTable) ColumnNames() []string {
	return sortedKeys(t.Cells.Columns)
}

var (
	_ CompositeComponent = (*Container)(nil)
	_ CompositeComponent = (*Section)(nil)
	_ Component          = (*Text)(nil)
	_ Component          = (*QuestionTable)(nil)
	_ QuestionComponent  = (*TextQuestion)(nil)
	_ QuestionComponent  = (*SelectQuestion)(nil)
	_ QuestionComponent  = (*RadioQuestion)(nil)
	_ QuestionComponent  = (*CheckboxQuestion)(nil)
	_ QuestionComponent  = (*SignatureQuestion)(nil)
	_ QuestionComponent  = (*CheckboxGroup)(nil)
	_ QuestionComponent  = (*MultipartQuestion)(nil)
)
