package component

import (
	"sort"
)

// Walk visits c and every node it owns in document order: composite children,
// multipart sub-questions in part-name order and table cells column by column.
// Returning false from fn skips the node's descendants.
func Walk(c Component, fn func(Component) bool) {
	if c == nil || !fn(c) {
		return
	}
	switch n := c.(type) {
	case *Container:
		for _, child := range n.Components {
			Walk(child, fn)
		}
	case *Section:
		for _, child := range n.Components {
			Walk(child, fn)
		}
	case *MultipartQuestion:
		for _, name := range n.PartNames() {
			if part := n.Parts[name]; part != nil && part.Question != nil {
				Walk(part.Question, fn)
			}
		}
	case *QuestionTable:
		for _, name := range n.ColumnNames() {
			cells := n.Cells.Columns[name]
			if cells == nil {
				continue
			}
			for _, q := range cells.Components {
				Walk(q, fn)
			}
		}
	}
}

// Find returns the node with the given component id in c's subtree.
func Find(c Component, componentID string) (Component, bool) {
	var found Component
	Walk(c, func(n Component) bool {
		if found != nil {
			return false
		}
		if n.Common().ComponentID == componentID {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// MatchesComponentID reports whether c or any node it owns has componentID.
func MatchesComponentID(c Component, componentID string) bool {
	_, ok := Find(c, componentID)
	return ok
}

// Count returns the number of nodes in c's subtree, c included.
func Count(c Component) int {
	n := 0
	Walk(c, func(Component) bool {
		n++
		return true
	})
	return n
}

// Sort reorders components and, recursively, the children of every composite
// among them using less. There is no default ordering; callers own it.
func Sort(components []Component, less func(a, b Component) bool) {
	for _, c := range components {
		if composite, ok := c.(CompositeComponent); ok {
			Sort(composite.Children(), less)
		}
	}
	sortChildren(components, less)
}

func sortChildren(components []Component, less func(a, b Component) bool) {
	if less == nil {
		return
	}
	sort.SliceStable(components, func(i, j int) bool {
		return less(components[i], components[j])
	})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
