package datatable

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cast"
)

// SortDirection is asc or desc.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortProp is one sort key.
type SortProp struct {
	Prop string        `json:"prop" yaml:"prop"`
	Dir  SortDirection `json:"dir" yaml:"dir"`
}

// ParseSort parses "prop" or "prop:asc|desc".
func ParseSort(s string) (SortProp, error) {
	prop, dir, _ := strings.Cut(strings.TrimSpace(s), ":")
	if prop == "" {
		return SortProp{}, errors.New("sort key requires a column prop")
	}
	switch SortDirection(strings.ToLower(dir)) {
	case "", SortAsc:
		return SortProp{Prop: prop, Dir: SortAsc}, nil
	case SortDesc:
		return SortProp{Prop: prop, Dir: SortDesc}, nil
	}
	return SortProp{}, fmt.Errorf("%w: %q", ErrInvalidSortDirection, dir)
}

func defaultSorts(prop string) []SortProp {
	return []SortProp{{Prop: prop, Dir: SortAsc}}
}

// Sorts returns the active sort keys.
func (t *Table) Sorts() []SortProp {
	return append([]SortProp(nil), t.userConfig.Sorts...)
}

// ChangeSorting replaces the sort keys and persists the config.
func (t *Table) ChangeSorting(sorts []SortProp) error {
	if len(sorts) == 0 {
		sorts = defaultSorts(t.firstVisibleProp())
	}
	normalized := make([]SortProp, 0, len(sorts))
	for _, s := range sorts {
		if t.column(s.Prop) == nil {
			return fmt.Errorf("%w: %s", ErrColumnNotFound, s.Prop)
		}
		switch s.Dir {
		case "":
			s.Dir = SortAsc
		case SortAsc, SortDesc:
		default:
			return fmt.Errorf("%w: %q", ErrInvalidSortDirection, s.Dir)
		}
		normalized = append(normalized, s)
	}
	t.userConfig.Sorts = normalized
	return t.saveUserConfig()
}

// ToggleSort sorts by prop, flipping the direction when prop is already the
// primary sort key.
func (t *Table) ToggleSort(prop string) error {
	c := t.column(prop)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, prop)
	}
	if !c.IsSortable() {
		return nil
	}
	dir := SortAsc
	if len(t.userConfig.Sorts) > 0 && t.userConfig.Sorts[0].Prop == prop && t.userConfig.Sorts[0].Dir == SortAsc {
		dir = SortDesc
	}
	return t.ChangeSorting([]SortProp{{Prop: prop, Dir: dir}})
}

// sortRows returns a sorted copy of rows. The sort is stable.
func (t *Table) sortRows(rows []Row) []Row {
	out := append([]Row(nil), rows...)
	if len(t.userConfig.Sorts) == 0 {
		return out
	}
	slices.SortStableFunc(out, func(a, b Row) int {
		for _, s := range t.userConfig.Sorts {
			c := t.column(s.Prop)
			if c == nil {
				continue
			}
			va, _ := Lookup(a, c.Prop)
			vb, _ := Lookup(b, c.Prop)
			r := compareValues(va, vb)
			if s.Dir == SortDesc {
				r = -r
			}
			if r != 0 {
				return r
			}
		}
		return 0
	})
	return out
}

// compareValues orders absent values first, numbers numerically and
// everything else by case-insensitive text.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if isNumber(a) && isNumber(b) {
		return cmp.Compare(cast.ToFloat64(a), cast.ToFloat64(b))
	}
	return strings.Compare(strings.ToLower(Stringify(a)), strings.ToLower(Stringify(b)))
}
