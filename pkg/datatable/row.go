// Package datatable implements an in-memory table engine: free-text search,
// cascading column filters, selection and expansion tracking across data
// refreshes, sorting, paging and persisted column layout.
//
// A Table is driven from a single goroutine (typically a UI event loop) and
// is not safe for concurrent use.
package datatable

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Row is a single record. Values are addressed by column prop.
type Row = map[string]any

// Lookup resolves a column prop against a row. A prop is either a top-level
// key or a dot-separated path into nested maps. The bool is false when any
// segment is absent or the resolved value is nil.
func Lookup(row Row, prop string) (any, bool) {
	if row == nil {
		return nil, false
	}
	if v, ok := row[prop]; ok {
		return v, v != nil
	}
	if !strings.Contains(prop, ".") {
		return nil, false
	}

	var current any = row
	for _, part := range strings.Split(prop, ".") {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, current != nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, true
	}
	return nil, false
}

// isNumber reports whether v holds a Go numeric kind.
func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return true
	}
	return false
}

func isFiniteNumber(v any) bool {
	if !isNumber(v) {
		return false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return false
	}
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// isList reports whether v is a slice or array other than a byte slice.
func isList(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]byte); ok {
		return false
	}
	kind := reflect.TypeOf(v).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

// isObject reports whether v is a map or struct value.
func isObject(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(time.Time); ok {
		return false
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Map || t.Kind() == reflect.Struct
}

// Stringify renders a scalar cell value as text. Lists are joined with a
// single space. Objects are rendered as JSON. It returns "" for nil.
func Stringify(v any) string {
	if v == nil {
		return ""
	}
	if isList(v) {
		rv := reflect.ValueOf(v)
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts = append(parts, Stringify(rv.Index(i).Interface()))
		}
		return strings.Join(parts, " ")
	}
	if isObject(v) {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(time.RFC3339)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// searchText renders a cell for substring search. Objects, including those
// nested in lists, only take part when searchableObjects is set.
func searchText(v any, searchableObjects bool) (string, bool) {
	if v == nil {
		return "", false
	}
	if isList(v) && !searchableObjects {
		rv := reflect.ValueOf(v)
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if text, ok := searchText(rv.Index(i).Interface(), false); ok {
				parts = append(parts, text)
			}
		}
		if len(parts) == 0 && rv.Len() > 0 {
			return "", false
		}
		return strings.Join(parts, " "), true
	}
	if isObject(v) && !searchableObjects {
		return "", false
	}
	return strings.ToLower(Stringify(v)), true
}
