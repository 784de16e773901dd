package converter

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appforms/internal/templates/component"
)

func tableDoc(numRows int, columns ...string) string {
	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		defs = append(defs, fmt.Sprintf(`%q:{"type":"text-question","title":"%s title","name":"%s"}`, col, col, col))
	}
	return fmt.Sprintf(`{"type":"question-table","title":"Team","numRows":%d,"columns":{%s}}`, numRows, strings.Join(defs, ","))
}

func TestQuestionTableInvariant(t *testing.T) {
	for _, numRows := range []int{0, 1, 3} {
		for _, columns := range [][]string{{"name"}, {"name", "role", "email"}} {
			t.Run(fmt.Sprintf("%d rows %d columns", numRows, len(columns)), func(t *testing.T) {
				table := mustConvert(t, tableDoc(numRows, columns...)).(*component.QuestionTable)

				assert.Equal(t, numRows, table.NumRows)
				require.Len(t, table.Cells.Columns, len(columns))
				for _, col := range columns {
					cells := table.Cells.Columns[col]
					require.NotNil(t, cells)
					assert.Equal(t, col, cells.ColumnName)
					require.Len(t, cells.Components, numRows)
					for i, q := range cells.Components {
						suffix := fmt.Sprintf("_%d", i+1)
						assert.Equal(t, col+suffix, q.Details().Name)
						assert.Equal(t, col+suffix, q.Common().ComponentID)
						assert.Empty(t, q.Common().Title)
					}
				}
			})
		}
	}
}

func TestQuestionTable(t *testing.T) {
	t.Run("definition component id is suffixed", func(t *testing.T) {
		table := mustConvert(t, `{"type":"question-table","numRows":2,"columns":{
			"a":{"type":"select-question","title":"A","name":"a","componentId":"colA","multiple":false,"options":["x"]}}}`).(*component.QuestionTable)
		cells := table.Cells.Columns["a"].Components
		assert.Equal(t, "colA_1", cells[0].Common().ComponentID)
		assert.Equal(t, "colA_2", cells[1].Common().ComponentID)
		assert.NotEqual(t, cells[0].(*component.SelectQuestion).Options[0].Identifier,
			cells[1].(*component.SelectQuestion).Options[0].Identifier, "each replicate is converted on its own")
	})

	t.Run("persisted cells layout", func(t *testing.T) {
		table := mustConvert(t, `{"type":"question-table","numRows":1,"cells":{"databaseId":3,"columns":{
			"a":{"type":"text-question","title":"A","name":"a"}}}}`).(*component.QuestionTable)
		require.NotNil(t, table.Cells.DatabaseID)
		assert.EqualValues(t, 3, *table.Cells.DatabaseID)
		assert.Len(t, table.Cells.Columns["a"].Components, 1)
	})

	t.Run("expanded columns are taken as is", func(t *testing.T) {
		table := mustConvert(t, `{"type":"question-table","numRows":2,"columns":{"a":{"databaseId":6,"components":[
			{"type":"text-question","title":"ignored","name":"a_1","componentId":"a_1"},
			{"type":"text-question","title":"","name":"a_2","componentId":"a_2"}]}}}`).(*component.QuestionTable)
		cells := table.Cells.Columns["a"]
		assert.EqualValues(t, 6, *cells.DatabaseID)
		assert.Equal(t, "a_1", cells.Components[0].Details().Name)
		assert.Empty(t, cells.Components[0].Common().Title)
	})

	t.Run("expanded cells are put back in row order", func(t *testing.T) {
		table := mustConvert(t, `{"type":"question-table","numRows":3,"columns":{"a":{"components":[
			{"type":"text-question","title":"","name":"a_10","componentId":"a_10"},
			{"type":"text-question","title":"","name":"a_2","componentId":"a_2"},
			{"type":"text-question","title":"","name":"a_1","componentId":"a_1"}]}}}`).(*component.QuestionTable)
		var ids []string
		for _, q := range table.Cells.Columns["a"].Components {
			ids = append(ids, q.Common().ComponentID)
		}
		assert.Equal(t, []string{"a_1", "a_2", "a_10"}, ids, "row suffixes compare as numbers")
	})

	t.Run("multipart columns get unique part ids per row", func(t *testing.T) {
		table := mustConvert(t, `{"type":"question-table","numRows":2,"columns":{"mp":{
			"type":"multipart-question","title":"MP","name":"mp","componentId":"mp","conditional":false,"parts":{
				"1":{"question":{"type":"text-question","title":"X","name":"x"},"branches":[]},
				"2":{"question":{"type":"text-question","title":"Y","name":"y"},"branches":[]}}}}}`).(*component.QuestionTable)

		seen := map[string]int{}
		component.Walk(table, func(n component.Component) bool {
			seen[n.Common().ComponentID]++
			return true
		})
		for id, n := range seen {
			assert.Equal(t, 1, n, "component id %q is not unique", id)
		}
		second := table.Cells.Columns["mp"].Components[1].(*component.MultipartQuestion)
		assert.Equal(t, "mp_2", second.ComponentID)
		assert.Equal(t, "mp_2_1", second.Parts["1"].Question.Common().ComponentID)
		assert.Equal(t, "mp_2_2", second.Parts["2"].Question.Common().ComponentID)
	})

	t.Run("non-numeric suffixes compare as strings", func(t *testing.T) {
		cells := []component.QuestionComponent{
			&component.TextQuestion{Question: component.Question{Base: component.Base{ComponentID: "a_b"}}},
			&component.TextQuestion{Question: component.Question{Base: component.Base{ComponentID: "a_1"}}},
			&component.TextQuestion{Question: component.Question{Base: component.Base{ComponentID: "a_a"}}},
		}
		sortByRow(cells)
		assert.Equal(t, "a_1", cells[0].Common().ComponentID)
		assert.Equal(t, "a_a", cells[1].Common().ComponentID)
		assert.Equal(t, "a_b", cells[2].Common().ComponentID)
	})

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"no columns or rows", `{"type":"question-table"}`, "required keys are: [columns, numRows]"},
		{"no rows", `{"type":"question-table","columns":{}}`, "required keys are: [columns, numRows]"},
		{"negative rows", `{"type":"question-table","numRows":-1,"columns":{}}`, "must not be negative"},
		{"fractional rows", `{"type":"question-table","numRows":1.5,"columns":{}}`, "must be an integer"},
		{"string rows", `{"type":"question-table","numRows":"2","columns":{}}`, "must be an integer"},
		{"columns not a map", `{"type":"question-table","numRows":1,"columns":[]}`, "must be a map"},
		{"column not a map", `{"type":"question-table","numRows":1,"columns":{"a":"x"}}`, "must map to a question component"},
		{"cells without columns", `{"type":"question-table","numRows":1,"cells":{}}`, "missing the key columns"},
		{"column not a question", `{"type":"question-table","numRows":1,"columns":{"a":{"type":"text","title":"t","content":"c"}}}`, "must contain question components"},
		{"expanded column with wrong row count", `{"type":"question-table","numRows":2,"columns":{"a":{"components":[{"type":"text-question","title":"t","name":"n"}]}}}`, "holds 1 cells but the table has 2 rows"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := convert(t, tt.doc)
			requireParseError(t, err, tt.want)
		})
	}

	t.Run("expansion past the node limit fails fast", func(t *testing.T) {
		r := Default().WithLimits(Limits{MaxDepth: 8, MaxNodes: 50})
		_, err := r.Convert(decode(t, tableDoc(1000, "a", "b")))
		requireParseError(t, err, "expands to more than the maximum of 50")
	})
}

// fullDoc exercises every node type.
const fullDoc = `{"type":"container","id":"root","components":[
	{"type":"text","title":"Intro","content":["a","b"]},
	{"type":"section","title":"Details","components":[
		{"type":"text-question","title":"Name","name":"name"},
		{"type":"select-question","title":"Dept","name":"dept","multiple":true,"options":["CS",{"label":"EE","value":"ee"}]},
		{"type":"radio-question","title":"Level","name":"level","options":["UG","PG"]},
		{"type":"checkbox-question","title":"Tags","name":"tags","options":["x"]},
		{"type":"signature","title":"Sign","name":"sig","label":"Signature"},
		{"type":"checkbox-group","title":"Risks","defaultBranch":{"type":"action","action":"flag"},"checkboxes":[
			{"title":"Minors","branch":{"type":"replacement","replacements":[{"c1":"c2"}]}}]},
		{"type":"question-table","title":"Team","numRows":2,"columns":{"who":{"type":"text-question","title":"Who","name":"who"}}}
	]},
	` + multipartDoc + `
]}`

// shape strips generated identity from a serialized tree so two conversions of
// one document can be compared.
func shape(t *testing.T, c component.Component) any {
	t.Helper()
	b, err := json.Marshal(c)
	require.NoError(t, err)
	var v any
	require.NoError(t, json.Unmarshal(b, &v))
	return stripIDs(v)
}

func stripIDs(v any) any {
	switch n := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, val := range n {
			if k == "componentId" || k == "identifier" {
				continue
			}
			out[k] = stripIDs(val)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, val := range n {
			out[i] = stripIDs(val)
		}
		return out
	default:
		return v
	}
}

func TestRoundTrip(t *testing.T) {
	first := mustConvert(t, fullDoc)
	b, err := json.Marshal(first)
	require.NoError(t, err)

	second, err := Default().Convert(decode(t, string(b)))
	require.NoError(t, err)

	assert.Equal(t, shape(t, first), shape(t, second))

	t.Run("generated ids are present and unique", func(t *testing.T) {
		seen := map[string]bool{}
		component.Walk(second, func(n component.Component) bool {
			id := n.Common().ComponentID
			assert.NotEmpty(t, id)
			assert.False(t, seen[id], "duplicate component id %s", id)
			seen[id] = true
			return true
		})
		assert.Equal(t, component.Count(first), len(seen))
	})

	t.Run("ids survive a second pass", func(t *testing.T) {
		var firstIDs, secondIDs []string
		component.Walk(first, func(n component.Component) bool {
			firstIDs = append(firstIDs, n.Common().ComponentID)
			return true
		})
		component.Walk(second, func(n component.Component) bool {
			secondIDs = append(secondIDs, n.Common().ComponentID)
			return true
		})
		assert.Equal(t, firstIDs, secondIDs)
	})
}
