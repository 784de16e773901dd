package component

import "encoding/json"

// Wire shapes. Every node serializes to the document shape it was parsed from
// plus the generated fields.

type baseJSON struct {
	Type        Type   `json:"type"`
	Title       string `json:"title"`
	ComponentID string `json:"componentId"`
	DatabaseID  *int64 `json:"databaseId"`
	Composite   bool   `json:"composite"`
}

type questionJSON struct {
	baseJSON
	Description  string  `json:"description,omitempty"`
	Name         string  `json:"name"`
	Required     bool    `json:"required"`
	Editable     bool    `json:"editable"`
	Autofill     *string `json:"autofill,omitempty"`
	RequestInput bool    `json:"requestInput"`
}

type selectJSON struct {
	questionJSON
	Multiple bool      `json:"multiple"`
	Options  []*Option `json:"options"`
	AddOther bool      `json:"addOther"`
}

func baseOf(c Component) baseJSON {
	b := c.Common()
	return baseJSON{
		Type:        c.Type(),
		Title:       b.Title,
		ComponentID: b.ComponentID,
		DatabaseID:  b.DatabaseID,
		Composite:   c.Composite(),
	}
}

func questionOf(q QuestionComponent) questionJSON {
	d := q.Details()
	return questionJSON{
		baseJSON:     baseOf(q),
		Description:  d.Description,
		Name:         d.Name,
		Required:     q.IsRequired(),
		Editable:     d.Editable,
		Autofill:     d.Autofill,
		RequestInput: d.RequestInput,
	}
}

func selectOf(q QuestionComponent, s *SelectQuestion) selectJSON {
	options := s.Options
	if options == nil {
		options = []*Option{}
	}
	return selectJSON{questionJSON: questionOf(q), Multiple: s.Multiple, Options: options, AddOther: s.AddOther}
}

func children(cs []Component) []Component {
	if cs == nil {
		return []Component{}
	}
	return cs
}

func (t *Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		baseJSON
		Content string `json:"content"`
		Nested  bool   `json:"nested"`
	}{baseOf(t), t.Content, t.Nested})
}

func (c *Container) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		baseJSON
		ID         string      `json:"id"`
		Components []Component `json:"components"`
	}{baseOf(c), c.ID, children(c.Components)})
}

func (s *Section) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		baseJSON
		Description string      `json:"description,omitempty"`
		Components  []Component `json:"components"`
		AutoSave    bool        `json:"autoSave"`
	}{baseOf(s), s.Description, children(s.Components), s.AutoSave})
}

func (q *TextQuestion) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		questionJSON
		SingleLine   bool   `json:"singleLine"`
		QuestionType string `json:"questionType"`
	}{questionOf(q), q.SingleLine, q.QuestionType})
}

func (q *SelectQuestion) MarshalJSON() ([]byte, error) {
	return json.Marshal(selectOf(q, q))
}

func (q *RadioQuestion) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		selectJSON
		Inline bool `json:"inline"`
	}{selectOf(q, &q.SelectQuestion), q.Inline})
}

func (q *CheckboxQuestion) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		selectJSON
		Inline bool `json:"inline"`
	}{selectOf(q, &q.SelectQuestion), q.Inline})
}

func (q *SignatureQuestion) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		questionJSON
		Label string `json:"label"`
	}{questionOf(q), q.Label})
}

func (g *CheckboxGroup) MarshalJSON() ([]byte, error) {
	boxes := g.Checkboxes
	if boxes == nil {
		boxes = []*Checkbox{}
	}
	return json.Marshal(struct {
		questionJSON
		DefaultBranch Branch      `json:"defaultBranch"`
		Checkboxes    []*Checkbox `json:"checkboxes"`
		Multiple      bool        `json:"multiple"`
	}{questionOf(g), g.DefaultBranch, boxes, g.Multiple})
}

func (m *MultipartQuestion) MarshalJSON() ([]byte, error) {
	parts := m.Parts
	if parts == nil {
		parts = map[string]*QuestionPart{}
	}
	return json.Marshal(struct {
		questionJSON
		Conditional bool                     `json:"conditional"`
		Parts       map[string]*QuestionPart `json:"parts"`
	}{questionOf(m), m.Conditional, parts})
}

func (t *QuestionTable) MarshalJSON() ([]byte, error) {
	columns := t.Cells.Columns
	if columns == nil {
		columns = map[string]*Cells{}
	}
	return json.Marshal(struct {
		baseJSON
		NumRows         int               `json:"numRows"`
		Columns         map[string]*Cells `json:"columns"`
		CellsDatabaseID *int64            `json:"cellsDatabaseId,omitempty"`
	}{baseOf(t), t.NumRows, columns, t.Cells.DatabaseID})
}

func (b *ActionBranch) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     Type    `json:"type"`
		BranchID *int64  `json:"branchId"`
		Action   string  `json:"action"`
		Comment  *string `json:"comment"`
	}{b.Type(), b.BranchID, b.Action, b.Comment})
}

func (b *ReplacementBranch) MarshalJSON() ([]byte, error) {
	replacements := b.Replacements
	if replacements == nil {
		replacements = []*Replacement{}
	}
	return json.Marshal(struct {
		Type         Type           `json:"type"`
		BranchID     *int64         `json:"branchId"`
		Replacements []*Replacement `json:"replacements"`
	}{b.Type(), b.BranchID, replacements})
}

func (b *QuestionBranch) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     Type   `json:"type"`
		BranchID *int64 `json:"branchId"`
		Part     string `json:"part"`
		Value    string `json:"value"`
	}{b.Type(), b.BranchID, b.Part, b.Value})
}
