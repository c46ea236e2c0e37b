package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andri/cdtable/pkg/datatable"
	"github.com/andri/cdtable/pkg/format"
	"gopkg.in/yaml.v3"
)

// ColumnSpec is a column declared in a row document.
type ColumnSpec struct {
	Prop           string   `yaml:"prop"`
	Name           string   `yaml:"name,omitempty"`
	Hidden         bool     `yaml:"hidden,omitempty"`
	Filterable     bool     `yaml:"filterable,omitempty"`
	FilterOptions  []string `yaml:"filter-options,omitempty"`
	FilterInit     string   `yaml:"filter-init,omitempty"`
	Transformation string   `yaml:"transformation,omitempty"`
	Pipe           string   `yaml:"pipe,omitempty"`
	Sortable       *bool    `yaml:"sortable,omitempty"`
}

// Document is the on-disk shape read by File. A bare sequence of rows is
// accepted as well.
type Document struct {
	Identifier string           `yaml:"identifier,omitempty"`
	Columns    []ColumnSpec     `yaml:"columns,omitempty"`
	Rows       []map[string]any `yaml:"rows"`
}

// File reads rows from a YAML or JSON document. The document is re-read on
// every Fetch so edits show up on reload.
type File struct {
	path string
	doc  Document
}

// NewFile returns a source reading path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Name is the file name without its extension.
func (f *File) Name() string {
	base := filepath.Base(f.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (f *File) Identifier() string {
	if f.doc.Identifier != "" {
		return f.doc.Identifier
	}
	return datatable.DefaultIdentifier
}

// Columns returns the declared columns, or columns derived from the first
// row when the document declares none. Valid after the first Fetch.
func (f *File) Columns() []datatable.Column {
	if len(f.doc.Columns) == 0 {
		if len(f.doc.Rows) == 0 {
			return nil
		}
		return deriveColumns(f.doc.Rows[0], f.Identifier())
	}
	columns := make([]datatable.Column, 0, len(f.doc.Columns))
	for _, spec := range f.doc.Columns {
		c := datatable.Column{
			Prop:               spec.Prop,
			Name:               spec.Name,
			IsHidden:           spec.Hidden,
			Filterable:         spec.Filterable,
			FilterOptions:      spec.FilterOptions,
			FilterInitValue:    spec.FilterInit,
			CellTransformation: datatable.CellTransformation(spec.Transformation),
			Sortable:           spec.Sortable,
		}
		if c.Name == "" {
			c.Name = columnTitle(c.Prop)
		}
		switch {
		case spec.Pipe != "":
			c.Pipe, _ = format.Pipe(spec.Pipe)
		case c.CellTransformation == datatable.CellTimeAgo:
			c.Pipe = format.Age
		}
		columns = append(columns, c)
	}
	return columns
}

func (f *File) Fetch(ctx context.Context) ([]datatable.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}
	f.doc = doc

	rows := make([]datatable.Row, 0, len(doc.Rows))
	for _, r := range doc.Rows {
		rows = append(rows, datatable.Row(r))
	}
	return rows, nil
}

// ParseDocument decodes a row document. JSON parses as YAML.
func ParseDocument(data []byte) (Document, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return Document{}, err
	}
	if len(node.Content) == 0 {
		return Document{}, errors.New("empty document")
	}

	var doc Document
	switch root := node.Content[0]; root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&doc.Rows); err != nil {
			return Document{}, err
		}
	case yaml.MappingNode:
		if err := root.Decode(&doc); err != nil {
			return Document{}, err
		}
	default:
		return Document{}, errors.New("document must be a mapping or a sequence of rows")
	}

	for i, spec := range doc.Columns {
		if strings.TrimSpace(spec.Prop) == "" {
			return Document{}, fmt.Errorf("column %d: prop is required", i)
		}
		if spec.Pipe != "" {
			if _, err := format.Pipe(spec.Pipe); err != nil {
				return Document{}, fmt.Errorf("column %s: %w", spec.Prop, err)
			}
		}
	}
	return doc, nil
}
