package component

import (
	"fmt"

	"github.com/google/uuid"
)

// ClearDatabaseIDs nils every storage identity in c's subtree: node database
// ids and the ids of options, checkboxes, parts, branches, replacements and
// table cells. Component ids are left untouched. Clearing is idempotent.
//
// Call it before handing a detached subtree to persistence so it is stored as
// new rather than colliding with the original.
func ClearDatabaseIDs(c Component) {
	if c == nil {
		return
	}
	c.Common().DatabaseID = nil

	switch n := c.(type) {
	case *Text, *TextQuestion, *SignatureQuestion:
	case *Container:
		for _, child := range n.Components {
			ClearDatabaseIDs(child)
		}
	case *Section:
		for _, child := range n.Components {
			ClearDatabaseIDs(child)
		}
	case *SelectQuestion:
		clearOptions(n.Options)
	case *RadioQuestion:
		clearOptions(n.Options)
	case *CheckboxQuestion:
		clearOptions(n.Options)
	case *CheckboxGroup:
		clearBranch(n.DefaultBranch)
		for _, box := range n.Checkboxes {
			box.ID = nil
			clearBranch(box.Branch)
		}
	case *MultipartQuestion:
		for _, part := range n.Parts {
			part.ID = nil
			ClearDatabaseIDs(part.Question)
			for _, b := range part.Branches {
				clearBranch(b)
			}
		}
	case *QuestionTable:
		n.Cells.DatabaseID = nil
		for _, cells := range n.Cells.Columns {
			cells.DatabaseID = nil
			for _, q := range cells.Components {
				ClearDatabaseIDs(q)
			}
		}
	default:
		panic(fmt.Sprintf("component: unhandled node %T", c))
	}
}

func clearOptions(options []*Option) {
	for _, o := range options {
		o.ID = nil
	}
}

func clearBranch(b Branch) {
	switch br := b.(type) {
	case nil:
	case *ActionBranch:
		br.BranchID = nil
	case *ReplacementBranch:
		br.BranchID = nil
		for _, r := range br.Replacements {
			r.ID = nil
		}
	case *QuestionBranch:
		br.BranchID = nil
	}
}

// Clone returns a deep copy of c with database ids cleared. When regenerate is
// set every node in the copy gets a fresh component id, with multipart
// sub-questions resequenced from their parent; otherwise ids are kept.
func Clone(c Component, regenerate bool) Component {
	if c == nil {
		return nil
	}
	out := cloneNode(c)
	ClearDatabaseIDs(out)
	if regenerate {
		Walk(out, func(n Component) bool {
			n.Common().ComponentID = uuid.NewString()
			return true
		})
		Resequence(out)
	}
	return out
}

// Resequence renumbers multipart sub-question ids in c's subtree from the top
// down, so a part nested under a renamed multipart follows its new parent id.
// Call it after assigning a component id to a node that may own parts.
func Resequence(c Component) {
	if c == nil {
		return
	}
	Walk(c, func(n Component) bool {
		if m, ok := n.(*MultipartQuestion); ok {
			m.SequencePartIDs()
		}
		return true
	})
}

// Copy returns a deep copy of c with every id kept.
func Copy(c Component) Component {
	if c == nil {
		return nil
	}
	return cloneNode(c)
}

func cloneNode(c Component) Component {
	switch n := c.(type) {
	case *Text:
		cp := *n
		return &cp
	case *Container:
		cp := *n
		cp.Components = cloneList(n.Components)
		return &cp
	case *Section:
		cp := *n
		cp.Components = cloneList(n.Components)
		return &cp
	case *TextQuestion:
		cp := *n
		cp.Question = cloneQuestion(n.Question)
		return &cp
	case *SelectQuestion:
		cp := *n
		cp.Question = cloneQuestion(n.Question)
		cp.Options = cloneOptions(n.Options)
		return &cp
	case *RadioQuestion:
		cp := *n
		cp.Question = cloneQuestion(n.Question)
		cp.Options = cloneOptions(n.Options)
		return &cp
	case *CheckboxQuestion:
		cp := *n
		cp.Question = cloneQuestion(n.Question)
		cp.Options = cloneOptions(n.Options)
		return &cp
	case *SignatureQuestion:
		cp := *n
		cp.Question = cloneQuestion(n.Question)
		return &cp
	case *CheckboxGroup:
		cp := *n
		cp.Question = cloneQuestion(n.Question)
		cp.DefaultBranch = cloneBranch(n.DefaultBranch)
		if n.Checkboxes != nil {
			cp.Checkboxes = make([]*Checkbox, len(n.Checkboxes))
			for i, box := range n.Checkboxes {
				b := *box
				b.ID = cloneInt(box.ID)
				b.Branch = cloneBranch(box.Branch)
				cp.Checkboxes[i] = &b
			}
		}
		return &cp
	case *MultipartQuestion:
		cp := *n
		cp.Question = cloneQuestion(n.Question)
		if n.Parts != nil {
			cp.Parts = make(map[string]*QuestionPart, len(n.Parts))
			for name, part := range n.Parts {
				p := *part
				p.ID = cloneInt(part.ID)
				if part.Question != nil {
					p.Question = cloneNode(part.Question).(QuestionComponent)
				}
				p.Branches = make([]*QuestionBranch, 0, len(part.Branches))
				for _, b := range part.Branches {
					if b == nil {
						continue
					}
					p.Branches = append(p.Branches, cloneBranch(b).(*QuestionBranch))
				}
				cp.Parts[name] = &p
			}
		}
		return &cp
	case *QuestionTable:
		cp := *n
		cp.Cells.DatabaseID = cloneInt(n.Cells.DatabaseID)
		if n.Cells.Columns != nil {
			cp.Cells.Columns = make(map[string]*Cells, len(n.Cells.Columns))
			for name, cells := range n.Cells.Columns {
				cc := *cells
				cc.DatabaseID = cloneInt(cells.DatabaseID)
				cc.Components = make([]QuestionComponent, len(cells.Components))
				for i, q := range cells.Components {
					cc.Components[i] = cloneNode(q).(QuestionComponent)
				}
				cp.Cells.Columns[name] = &cc
			}
		}
		return &cp
	default:
		panic(fmt.Sprintf("component: unhandled node %T", c))
	}
}

func cloneList(cs []Component) []Component {
	if cs == nil {
		return nil
	}
	out := make([]Component, len(cs))
	for i, c := range cs {
		out[i] = cloneNode(c)
	}
	return out
}

func cloneQuestion(q Question) Question {
	q.DatabaseID = cloneInt(q.DatabaseID)
	q.Autofill = cloneString(q.Autofill)
	return q
}

func cloneOptions(options []*Option) []*Option {
	if options == nil {
		return nil
	}
	out := make([]*Option, len(options))
	for i, o := range options {
		cp := *o
		cp.ID = cloneInt(o.ID)
		out[i] = &cp
	}
	return out
}

func cloneBranch(b Branch) Branch {
	switch br := b.(type) {
	case *ActionBranch:
		cp := *br
		cp.BranchID = cloneInt(br.BranchID)
		cp.Comment = cloneString(br.Comment)
		return &cp
	case *ReplacementBranch:
		cp := *br
		cp.BranchID = cloneInt(br.BranchID)
		cp.Replacements = make([]*Replacement, len(br.Replacements))
		for i, r := range br.Replacements {
			rc := *r
			rc.ID = cloneInt(r.ID)
			cp.Replacements[i] = &rc
		}
		return &cp
	case *QuestionBranch:
		cp := *br
		cp.BranchID = cloneInt(br.BranchID)
		return &cp
	}
	return nil
}

func cloneInt(v *int64) *int64 {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
