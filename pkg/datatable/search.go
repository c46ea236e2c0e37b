package datatable

import (
	"regexp"
	"strings"
)

var quotedSpan = regexp.MustCompile(`['"][^'"]+['"]`)

// PrepareSearch splits a free-text query into lower-cased terms.
//
// Commas are dropped, quoted spans become a single term with their spaces
// replaced by '+', and the rest is split on whitespace. Unbalanced quotes are
// kept as ordinary characters.
func PrepareSearch(search string) []string {
	s := strings.ToLower(search)
	s = strings.ReplaceAll(s, ",", "")
	s = quotedSpan.ReplaceAllStringFunc(s, func(span string) string {
		return strings.ReplaceAll(span[1:len(span)-1], " ", "+")
	})
	return strings.Fields(s)
}

// Term is one parsed search term.
type Term struct {
	// Hint restricts the term to columns whose name contains it. Empty for
	// bare terms.
	Hint string
	// Value is the substring looked up in cell text.
	Value string
	// Scoped is true when the term used the hint:value form.
	Scoped bool
}

// ParseTerm splits a prepared term at its first colon. '+' in the value is
// turned back into a space.
func ParseTerm(token string) Term {
	hint, value, found := strings.Cut(token, ":")
	if !found {
		return Term{Value: strings.ReplaceAll(token, "+", " ")}
	}
	return Term{
		Hint:   hint,
		Value:  strings.ReplaceAll(value, "+", " "),
		Scoped: true,
	}
}

// columnKey is a column name in the form hints are matched against.
func columnKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "+")
}

// searchColumns returns the columns a term applies to.
func (t Term) searchColumns(columns []*Column) []*Column {
	if !t.Scoped {
		return columns
	}
	var matched []*Column
	for _, c := range columns {
		if strings.Contains(columnKey(c.Name), t.Hint) {
			matched = append(matched, c)
		}
	}
	return matched
}

// Search returns the rows matching every term. Each term matches when any of
// its columns contains the term value. Row order is preserved.
func Search(rows []Row, terms []string, columns []*Column, searchableObjects bool) []Row {
	if len(terms) == 0 || len(rows) == 0 {
		return rows
	}

	out := rows
	for _, token := range terms {
		term := ParseTerm(token)
		cols := term.searchColumns(columns)
		if len(cols) == 0 {
			return []Row{}
		}
		if term.Value == "" {
			continue
		}
		out = filterRows(out, func(row Row) bool {
			return rowContains(row, cols, term.Value, searchableObjects)
		})
		if len(out) == 0 {
			break
		}
	}
	return out
}

func rowContains(row Row, columns []*Column, value string, searchableObjects bool) bool {
	for _, c := range columns {
		v, ok := c.Value(row)
		if !ok {
			continue
		}
		text, ok := searchText(v, searchableObjects)
		if !ok {
			continue
		}
		if strings.Contains(text, value) {
			return true
		}
	}
	return false
}

func filterRows(rows []Row, keep func(Row) bool) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

// searchableColumns excludes sparkline columns, which hold chart data.
func searchableColumns(columns []*Column) []*Column {
	out := make([]*Column, 0, len(columns))
	for _, c := range columns {
		if c.CellTransformation == CellSparkline {
			continue
		}
		out = append(out, c)
	}
	return out
}
