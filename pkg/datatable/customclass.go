package datatable

import (
	"strings"

	"k8s.io/apimachinery/pkg/api/equality"
)

// CustomClass assigns a CSS-like class to cell values. A class applies when
// Match returns true, or when Match is nil and the value equals Value.
type CustomClass struct {
	Class string
	Value any
	Match func(value any) bool
}

func (c CustomClass) applies(value any) bool {
	if c.Match != nil {
		return c.Match(value)
	}
	if c.Value == nil || value == nil {
		return c.Value == nil && value == nil
	}
	return equality.Semantic.DeepEqual(c.Value, value)
}

// UseCustomClass returns the space-joined classes that apply to value, or ""
// when none does. It fails when the table has no custom classes configured.
func (t *Table) UseCustomClass(value any) (string, error) {
	if len(t.customClasses) == 0 {
		return "", ErrCustomClassesNotSet
	}
	var classes []string
	for _, c := range t.customClasses {
		if c.applies(value) {
			classes = append(classes, c.Class)
		}
	}
	return strings.Join(classes, " "), nil
}
