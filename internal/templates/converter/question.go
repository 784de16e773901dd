package converter

import (
	"github.com/google/uuid"

	"appforms/internal/templates/component"
)

// applyQuestion maps the fields every question shares except required-ness.
func applyQuestion(t component.Type, q component.QuestionComponent, obj Object) error {
	d := q.Details()
	if err := applyBase(t, &d.Base, obj); err != nil {
		return err
	}
	var err error
	if d.Description, err = LongString(t, "description", obj["description"]); err != nil {
		return err
	}
	if d.Name, err = stringField(t, obj, "name"); err != nil {
		return err
	}
	if d.Editable, err = boolField(t, obj, "editable", true); err != nil {
		return err
	}
	if d.Autofill, err = optionalString(t, obj, "autofill"); err != nil {
		return err
	}
	if d.RequestInput, err = boolField(t, obj, "requestInput", false); err != nil {
		return err
	}
	return nil
}

func applyRequired(t component.Type, q component.QuestionComponent, obj Object, def bool) error {
	required, err := boolField(t, obj, "required", def)
	if err != nil {
		return err
	}
	q.SetRequired(required)
	return nil
}

type textQuestionConverter struct{}

func (textQuestionConverter) Validate(obj Object) error {
	return RequireKeys(component.TypeTextQuestion, obj, "title", "name")
}

func (c textQuestionConverter) Convert(_ *Scope, obj Object) (component.Component, error) {
	if err := c.Validate(obj); err != nil {
		return nil, err
	}
	t := component.TypeTextQuestion
	q := &component.TextQuestion{Question: component.NewQuestion()}
	if err := applyQuestion(t, q, obj); err != nil {
		return nil, err
	}
	if err := applyRequired(t, q, obj, component.DefaultRequired); err != nil {
		return nil, err
	}
	var err error
	if q.SingleLine, err = boolField(t, obj, "singleLine", true); err != nil {
		return nil, err
	}
	if q.QuestionType, err = stringField(t, obj, "questionType"); err != nil {
		return nil, err
	}
	if q.QuestionType == "" {
		q.QuestionType = "text"
	}
	return q, nil
}

// parseOptions reads an option list. An element is either a bare string used
// as both label and value, or a map with label, value and optional identifier
// and id. A supplied identifier is kept verbatim.
func parseOptions(t component.Type, obj Object) ([]*component.Option, error) {
	raw, err := listField(t, obj, "options")
	if err != nil {
		return nil, err
	}
	options := make([]*component.Option, 0, len(raw))
	for _, v := range raw {
		switch o := v.(type) {
		case string:
			options = append(options, component.NewOption(o, o))
		case Object:
			label, err := stringField(t, o, "label")
			if err != nil {
				return nil, err
			}
			value, err := stringField(t, o, "value")
			if err != nil {
				return nil, err
			}
			identifier, err := identifierOrNew(t, o)
			if err != nil {
				return nil, err
			}
			options = append(options, &component.Option{
				ID:         DatabaseID(o["id"]),
				Label:      label,
				Value:      value,
				Identifier: identifier,
			})
		default:
			return nil, component.FieldError(t, "options", "contains an unknown option type: %s", describe(v))
		}
	}
	return options, nil
}

func validateOptions(t component.Type, obj Object) error {
	_, err := parseOptions(t, obj)
	return err
}

type selectQuestionConverter struct{}

func (selectQuestionConverter) Validate(obj Object) error {
	t := component.TypeSelectQuestion
	if err := RequireKeys(t, obj, "title", "name", "multiple", "options"); err != nil {
		return err
	}
	if _, err := boolField(t, obj, "multiple", false); err != nil {
		return err
	}
	return validateOptions(t, obj)
}

func (c selectQuestionConverter) Convert(_ *Scope, obj Object) (component.Component, error) {
	if err := c.Validate(obj); err != nil {
		return nil, err
	}
	q := &component.SelectQuestion{Question: component.NewQuestion()}
	if err := buildSelect(component.TypeSelectQuestion, q, q, obj); err != nil {
		return nil, err
	}
	var err error
	if q.Multiple, err = boolField(component.TypeSelectQuestion, obj, "multiple", false); err != nil {
		return nil, err
	}
	return q, nil
}

// buildSelect fills the select fields of node, whose embedded select is s.
func buildSelect(t component.Type, node component.QuestionComponent, s *component.SelectQuestion, obj Object) error {
	if err := applyQuestion(t, node, obj); err != nil {
		return err
	}
	if err := applyRequired(t, node, obj, component.DefaultRequired); err != nil {
		return err
	}
	var err error
	if s.Options, err = parseOptions(t, obj); err != nil {
		return err
	}
	if s.AddOther, err = boolField(t, obj, "addOther", false); err != nil {
		return err
	}
	return nil
}

type radioQuestionConverter struct{}

func (radioQuestionConverter) Validate(obj Object) error {
	t := component.TypeRadioQuestion
	if err := RequireKeys(t, obj, "title", "options"); err != nil {
		return err
	}
	return validateOptions(t, obj)
}

func (c radioQuestionConverter) Convert(_ *Scope, obj Object) (component.Component, error) {
	if err := c.Validate(obj); err != nil {
		return nil, err
	}
	t := component.TypeRadioQuestion
	q := &component.RadioQuestion{SelectQuestion: component.SelectQuestion{Question: component.NewQuestion()}}
	if err := buildSelect(t, q, &q.SelectQuestion, obj); err != nil {
		return nil, err
	}
	var err error
	if q.Inline, err = boolField(t, obj, "inline", false); err != nil {
		return nil, err
	}
	return q, nil
}

type checkboxQuestionConverter struct{}

func (checkboxQuestionConverter) Validate(obj Object) error {
	t := component.TypeCheckboxQuestion
	if err := RequireKeys(t, obj, "title", "name", "options"); err != nil {
		return err
	}
	return validateOptions(t, obj)
}

func (c checkboxQuestionConverter) Convert(_ *Scope, obj Object) (component.Component, error) {
	if err := c.Validate(obj); err != nil {
		return nil, err
	}
	t := component.TypeCheckboxQuestion
	q := &component.CheckboxQuestion{SelectQuestion: component.SelectQuestion{Question: component.NewQuestion(), Multiple: true}}
	if err := buildSelect(t, q, &q.SelectQuestion, obj); err != nil {
		return nil, err
	}
	var err error
	if q.Inline, err = boolField(t, obj, "inline", false); err != nil {
		return nil, err
	}
	return q, nil
}

type signatureConverter struct{}

func (signatureConverter) Validate(obj Object) error {
	return RequireKeys(component.TypeSignature, obj, "title", "name", "label")
}

// Convert ignores any required field; a signature is always required.
func (c signatureConverter) Convert(_ *Scope, obj Object) (component.Component, error) {
	if err := c.Validate(obj); err != nil {
		return nil, err
	}
	t := component.TypeSignature
	q := &component.SignatureQuestion{Question: component.NewQuestion()}
	if err := applyQuestion(t, q, obj); err != nil {
		return nil, err
	}
	var err error
	if q.Label, err = stringField(t, obj, "label"); err != nil {
		return nil, err
	}
	return q, nil
}

func identifierOrNew(t component.Type, obj Object) (string, error) {
	id, err := stringField(t, obj, "identifier")
	if err != nil {
		return "", err
	}
	if id == "" {
		return uuid.NewString(), nil
	}
	return id, nil
}
