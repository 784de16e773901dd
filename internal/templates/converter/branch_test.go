package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appforms/internal/templates/component"
)

func TestParseBranch(t *testing.T) {
	owner := component.TypeCheckboxGroup

	t.Run("nil is no branch", func(t *testing.T) {
		b, err := ParseBranch(owner, "branch", nil)
		require.NoError(t, err)
		assert.Nil(t, b)
	})

	t.Run("action with comment and id", func(t *testing.T) {
		b, err := ParseBranch(owner, "branch", decode(t, `{"type":"action","action":"notify","comment":"tell the chair","branchId":3}`))
		require.NoError(t, err)
		action := b.(*component.ActionBranch)
		require.NotNil(t, action.Comment)
		assert.Equal(t, "tell the chair", *action.Comment)
		require.NotNil(t, action.BranchID)
		assert.EqualValues(t, 3, *action.BranchID)
	})

	t.Run("action requires action", func(t *testing.T) {
		_, err := ParseBranch(owner, "branch", decode(t, `{"type":"action"}`))
		requireParseError(t, err, "required keys are: [action]")
	})

	t.Run("replacement in the compact form", func(t *testing.T) {
		b, err := ParseBranch(owner, "branch", decode(t, `{"type":"replacement","replacements":[{"c1":"app-c2"},{"c3":"c4"}]}`))
		require.NoError(t, err)
		r := b.(*component.ReplacementBranch)
		require.Len(t, r.Replacements, 2)
		assert.Equal(t, "c1", r.Replacements[0].Replace)
		assert.Equal(t, "app-c2", r.Replacements[0].Target)
		assert.Equal(t, "c3", r.Replacements[1].Replace)
		assert.Nil(t, r.Replacements[0].ID)
	})

	t.Run("replacement in the named form", func(t *testing.T) {
		b, err := ParseBranch(owner, "branch", decode(t, `{"type":"replacement","replacements":[{"replace":"c1","target":"c2","id":4}]}`))
		require.NoError(t, err)
		r := b.(*component.ReplacementBranch)
		require.Len(t, r.Replacements, 1)
		assert.Equal(t, "c1", r.Replacements[0].Replace)
		assert.Equal(t, "c2", r.Replacements[0].Target)
		assert.EqualValues(t, 4, *r.Replacements[0].ID)
	})

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"replacements missing", `{"type":"replacement"}`, "required keys are: [replacements]"},
		{"replacements not a list", `{"type":"replacement","replacements":{"a":"b"}}`, "must be a list"},
		{"compact entry with two keys", `{"type":"replacement","replacements":[{"a":"b","c":"d"}]}`, "exactly one container id"},
		{"compact target not a string", `{"type":"replacement","replacements":[{"a":1}]}`, "must be a string"},
		{"named entry without target", `{"type":"replacement","replacements":[{"replace":"a"}]}`, "required keys are: [replace, target]"},
		{"question branch outside a part", `{"type":"question","part":"2","value":"yes"}`, `illegal branch type "question"`},
		{"unknown branch", `{"type":"jump"}`, `illegal branch type "jump"`},
		{"missing discriminator", `{"action":"notify"}`, "missing its type discriminator"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBranch(owner, "branch", decode(t, tt.doc))
			requireParseError(t, err, tt.want)
		})
	}

	t.Run("non-map branch", func(t *testing.T) {
		_, err := ParseBranch(owner, "branch", "notify")
		requireParseError(t, err, "must be a map or null")
	})
}

func TestCheckboxGroup(t *testing.T) {
	c := mustConvert(t, `{"type":"checkbox-group","title":"Risks","name":"risks","multiple":true,
		"defaultBranch":{"type":"action","action":"flag"},
		"checkboxes":[
			{"title":"Minors","branch":{"type":"replacement","replacements":[{"c1":"c1-minors"}]},"id":5},
			{"title":"None","identifier":"none"}
		]}`)
	group := c.(*component.CheckboxGroup)

	assert.False(t, group.IsRequired(), "checkbox groups are optional unless stated")
	assert.True(t, group.Multiple)
	require.Len(t, group.Checkboxes, 2)

	minors, none := group.Checkboxes[0], group.Checkboxes[1]
	assert.Equal(t, "Minors", minors.Title)
	assert.EqualValues(t, 5, *minors.ID)
	assert.NotEmpty(t, minors.Identifier)
	assert.Equal(t, "none", none.Identifier)

	assert.IsType(t, &component.ReplacementBranch{}, group.EffectiveBranch(minors))
	assert.Same(t, group.DefaultBranch, group.EffectiveBranch(none))

	t.Run("null default branch", func(t *testing.T) {
		c := mustConvert(t, `{"type":"checkbox-group","title":"T","defaultBranch":null,"checkboxes":[{"title":"a"}]}`)
		group := c.(*component.CheckboxGroup)
		assert.Nil(t, group.DefaultBranch)
		assert.Nil(t, group.EffectiveBranch(group.Checkboxes[0]))
	})

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"default branch missing", `{"type":"checkbox-group","title":"T","checkboxes":[]}`, "required keys are: [checkboxes, defaultBranch, title]"},
		{"default branch a string", `{"type":"checkbox-group","title":"T","defaultBranch":"x","checkboxes":[]}`, "must be a map or null"},
		{"checkbox without title", `{"type":"checkbox-group","title":"T","defaultBranch":null,"checkboxes":[{}]}`, "must have a title"},
		{"checkbox not a map", `{"type":"checkbox-group","title":"T","defaultBranch":null,"checkboxes":["a"]}`, "must contain maps"},
		{"illegal checkbox branch", `{"type":"checkbox-group","title":"T","defaultBranch":null,"checkboxes":[{"title":"a","branch":{"type":"question"}}]}`, "illegal branch type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := convert(t, tt.doc)
			requireParseError(t, err, tt.want)
		})
	}
}

const multipartDoc = `{"type":"multipart-question","title":"Funding","componentId":"funding","conditional":true,"parts":{
	"2":{"question":{"type":"text-question","title":"Who","name":"funder"},"branches":[]},
	"1":{"question":{"type":"radio-question","title":"Funded?","name":"funded","options":["yes","no"]},
	     "branches":[{"part":"2","value":"yes","branchId":8}],"id":4},
	"3":{"question":{"type":"signature","title":"Sign","name":"s","label":"L"},"branches":[]}
}}`

func TestMultipartQuestion(t *testing.T) {
	m := mustConvert(t, multipartDoc).(*component.MultipartQuestion)

	assert.True(t, m.Conditional)
	assert.True(t, m.IsRequired())
	assert.Equal(t, []string{"1", "2", "3"}, m.PartNames())

	first := m.Parts["1"]
	assert.Equal(t, "1", first.PartName)
	assert.EqualValues(t, 4, *first.ID)
	require.Len(t, first.Branches, 1)
	assert.Equal(t, "2", first.Branches[0].Part)
	assert.Equal(t, "yes", first.Branches[0].Value)
	assert.EqualValues(t, 8, *first.Branches[0].BranchID)
	assert.Equal(t, component.TypeRadioQuestion, first.Question.Type())

	t.Run("part ids are sequenced deterministically", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			again := mustConvert(t, multipartDoc).(*component.MultipartQuestion)
			assert.Equal(t, "funding_1", again.Parts["1"].Question.Common().ComponentID)
			assert.Equal(t, "funding_2", again.Parts["2"].Question.Common().ComponentID)
			assert.Equal(t, "funding_3", again.Parts["3"].Question.Common().ComponentID)
		}
	})

	t.Run("nested multipart parts follow the renamed parent", func(t *testing.T) {
		doc := `{"type":"multipart-question","title":"Outer","componentId":"outer","conditional":false,"parts":{
			"1":{"question":{"type":"multipart-question","title":"Inner","conditional":false,"parts":{
				"a":{"question":{"type":"text-question","title":"A","name":"a"},"branches":[]},
				"b":{"question":{"type":"text-question","title":"B","name":"b"},"branches":[]}}},"branches":[]}}}`
		for i := 0; i < 3; i++ {
			outer := mustConvert(t, doc).(*component.MultipartQuestion)
			inner := outer.Parts["1"].Question.(*component.MultipartQuestion)
			assert.Equal(t, "outer_1", inner.ComponentID)
			assert.Equal(t, "outer_1_1", inner.Parts["a"].Question.Common().ComponentID)
			assert.Equal(t, "outer_1_2", inner.Parts["b"].Question.Common().ComponentID)
		}
	})

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"parts not a map", `{"type":"multipart-question","conditional":false,"parts":[]}`, "must be a map"},
		{"part without question", `{"type":"multipart-question","conditional":false,"parts":{"1":{"branches":[]}}}`, "needs to contain a question"},
		{"part without branches", `{"type":"multipart-question","conditional":false,"parts":{"1":{"question":{"type":"text-question","title":"t","name":"n"}}}}`, "needs to contain a branches list"},
		{"part question not a question", `{"type":"multipart-question","conditional":false,"parts":{"1":{"question":{"type":"text","title":"t","content":"c"},"branches":[]}}}`, "must contain question components"},
		{"branch without value", `{"type":"multipart-question","conditional":false,"parts":{"1":{"question":{"type":"text-question","title":"t","name":"n"},"branches":[{"part":"2"}]}}}`, "required keys are: [part, value]"},
		{"conditional not a boolean", `{"type":"multipart-question","conditional":"yes","parts":{}}`, "must be a boolean"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := convert(t, tt.doc)
			requireParseError(t, err, tt.want)
		})
	}
}
