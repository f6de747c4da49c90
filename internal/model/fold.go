package model

import (
	"strings"

	"golang.org/x/text/cases"
)

// FoldKey returns the Unicode case-folded form of s used for
// case-insensitive comparisons in storage.
func FoldKey(s string) string {
	return cases.Fold().String(s)
}

// RefreshKeys recomputes the stored lookup key of a category.
func (c *Category) RefreshKeys() {
	c.NameKey = FoldKey(c.Name)
}

// RefreshKeys recomputes the stored search text of a task.
func (t *Task) RefreshKeys() {
	t.SearchText = FoldKey(strings.Join([]string{t.Name, t.Description}, "\n"))
}
