package converter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"appforms/internal/templates/component"
)

type tableConverter struct{}

// columnsOf returns the column map and the mapping's storage id. Columns sit
// at the top level, or under cells for documents in the persisted layout.
func columnsOf(obj Object) (Object, *int64, error) {
	t := component.TypeQuestionTable
	if _, ok := obj["columns"]; ok {
		columns, err := objectField(t, obj, "columns")
		return columns, DatabaseID(obj["cellsDatabaseId"]), err
	}
	if _, ok := obj["cells"]; ok {
		cells, err := objectField(t, obj, "cells")
		if err != nil {
			return nil, nil, err
		}
		if _, ok := cells["columns"]; !ok {
			return nil, nil, component.FieldError(t, "cells", "is missing the key columns")
		}
		columns, err := objectField(t, cells, "columns")
		return columns, DatabaseID(cells["databaseId"]), err
	}
	return nil, nil, RequireKeys(t, obj, "columns", "numRows")
}

func (tableConverter) Validate(obj Object) error {
	t := component.TypeQuestionTable
	columns, _, err := columnsOf(obj)
	if err != nil {
		return err
	}
	if _, ok := obj["numRows"]; !ok {
		return component.MissingKeys(t, []string{"numRows"}, []string{"columns", "numRows"})
	}
	numRows, err := intField(t, obj, "numRows")
	if err != nil {
		return err
	}
	if numRows < 0 {
		return component.FieldError(t, "numRows", "must not be negative, got %d", numRows)
	}
	for name, v := range columns {
		if _, ok := v.(Object); !ok {
			return component.FieldError(t, "columns", "column %q must map to a question component, got %s", name, describe(v))
		}
	}
	return nil
}

// Convert expands each column definition into numRows questions. Replicates
// get an empty title and a _<row> suffix on name and component id. A column
// already holding a components list is taken as expanded, must have exactly
// numRows entries and is put back in row order.
func (c tableConverter) Convert(s *Scope, obj Object) (component.Component, error) {
	if err := c.Validate(obj); err != nil {
		return nil, err
	}
	t := component.TypeQuestionTable
	table := &component.QuestionTable{Base: component.NewBase()}
	if err := applyBase(t, &table.Base, obj); err != nil {
		return nil, err
	}
	table.NumRows, _ = intField(t, obj, "numRows")

	columns, mappingID, _ := columnsOf(obj)
	if limit := s.limits.MaxNodes; limit > 0 && table.NumRows*len(columns) > limit {
		return nil, component.Errorf(t, "the table expands to more than the maximum of %d components", limit)
	}

	table.Cells = component.CellsMapping{
		DatabaseID: mappingID,
		Columns:    make(map[string]*component.Cells, len(columns)),
	}
	for _, name := range sortedNames(columns) {
		def := columns[name].(Object)
		var (
			cells *component.Cells
			err   error
		)
		if _, expanded := def["components"]; expanded {
			cells, err = convertExpandedColumn(s, name, table.NumRows, def)
		} else {
			cells, err = expandColumn(s, name, table.NumRows, def)
		}
		if err != nil {
			return nil, err
		}
		table.Cells.Columns[name] = cells
	}
	return table, nil
}

func expandColumn(s *Scope, name string, numRows int, def Object) (*component.Cells, error) {
	t := component.TypeQuestionTable
	cells := &component.Cells{ColumnName: name, Components: make([]component.QuestionComponent, 0, numRows)}
	baseID, _ := def["componentId"].(string)

	for i := 0; i < numRows; i++ {
		replicate := make(Object, len(def))
		for k, v := range def {
			replicate[k] = v
		}
		q, err := s.ConvertQuestion(t, "columns."+name, replicate)
		if err != nil {
			return nil, err
		}
		d := q.Details()
		d.Title = ""
		d.Name = fmt.Sprintf("%s_%d", d.Name, i+1)
		if baseID != "" {
			d.ComponentID = fmt.Sprintf("%s_%d", baseID, i+1)
		} else {
			d.ComponentID = d.Name
		}
		component.Resequence(q)
		cells.Components = append(cells.Components, q)
	}
	return cells, nil
}

func convertExpandedColumn(s *Scope, name string, numRows int, def Object) (*component.Cells, error) {
	t := component.TypeQuestionTable
	raw, err := listField(t, def, "components")
	if err != nil {
		return nil, err
	}
	if len(raw) != numRows {
		return nil, component.FieldError(t, "columns", "column %q holds %d cells but the table has %d rows", name, len(raw), numRows)
	}
	cells := &component.Cells{
		DatabaseID: DatabaseID(def["databaseId"]),
		ColumnName: name,
		Components: make([]component.QuestionComponent, 0, numRows),
	}
	for _, v := range raw {
		q, err := s.ConvertQuestion(t, "columns."+name, v)
		if err != nil {
			return nil, err
		}
		q.Common().Title = ""
		cells.Components = append(cells.Components, q)
	}
	sortByRow(cells.Components)
	return cells, nil
}

// sortByRow restores row order from the _<row> suffix of each component id.
// Suffixes that are not both numbers compare as strings.
func sortByRow(cells []component.QuestionComponent) {
	sort.SliceStable(cells, func(i, j int) bool {
		a, b := rowSuffix(cells[i].Common().ComponentID), rowSuffix(cells[j].Common().ComponentID)
		an, aErr := strconv.Atoi(a)
		bn, bErr := strconv.Atoi(b)
		if aErr == nil && bErr == nil {
			return an < bn
		}
		return a < b
	})
}

func rowSuffix(id string) string {
	if i := strings.LastIndex(id, "_"); i >= 0 {
		return id[i+1:]
	}
	return id
}

func sortedNames(m Object) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
