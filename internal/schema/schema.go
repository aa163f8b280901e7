// Package schema parses the human-authored description of atop record types
// into an ordered registry.
//
// The text format is block structured. Blocks are separated by a blank line;
// the first line of a block is "TAG - description" and every following line
// is "fieldname - field description":
//
//	MEM - memory occupation
//	page_size - page size for this machine (in bytes)
//	size_phys - size of physical memory (pages)
//
// Field order is significant: it defines column order for validation and
// naming in the export sinks.
package schema

import (
	"fmt"
	"strings"

	"atopetl/internal/record"
)

// separator splits a name from its description on header and field lines.
const separator = " - "

// Field is one type-specific field of a record type.
type Field struct {
	Name        string
	Description string
}

// Type describes one record type tag.
type Type struct {
	Tag         string
	Description string
	Fields      []Field
}

// FieldNames returns the field names in declaration order.
func (t Type) FieldNames() []string {
	out := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		out[i] = f.Name
	}
	return out
}

// Registry is an immutable, order-preserving map from type tag to Type.
type Registry struct {
	order []string
	types map[string]Type
}

// Parse builds a Registry from the block-structured text.
//
// It fails with *MalformedSchemaError when a block header lacks the " - "
// separator. Field lines are not validated: a field line without a separator
// becomes a field with an empty description. A later block with an already
// seen tag replaces the earlier one but keeps its position.
func Parse(text string) (*Registry, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSpace(text)

	r := &Registry{types: map[string]Type{}}
	if text == "" {
		return r, nil
	}

	for i, block := range strings.Split(text, "\n\n") {
		lines := strings.Split(block, "\n")

		tag, desc, ok := strings.Cut(lines[0], separator)
		if !ok {
			return nil, &MalformedSchemaError{Block: i + 1, Line: lines[0]}
		}

		t := Type{Tag: tag, Description: desc, Fields: make([]Field, 0, len(lines)-1)}
		for _, line := range lines[1:] {
			name, fdesc, _ := strings.Cut(line, separator)
			t.Fields = append(t.Fields, Field{Name: name, Description: fdesc})
		}

		if _, dup := r.types[tag]; !dup {
			r.order = append(r.order, tag)
		}
		r.types[tag] = t
	}
	return r, nil
}

// Lookup returns the Type registered for tag.
func (r *Registry) Lookup(tag string) (Type, bool) {
	t, ok := r.types[tag]
	return t, ok
}

// Tags returns the registered tags in declaration order.
func (r *Registry) Tags() []string {
	return append([]string(nil), r.order...)
}

// Len reports the number of registered types.
func (r *Registry) Len() int { return len(r.order) }

// Validate checks that a record of the given tag with width values (generic
// fields included) matches the registered field count.
func (r *Registry) Validate(tag string, width int) error {
	t, ok := r.types[tag]
	if !ok {
		return &MismatchError{Tag: tag, Got: width, Want: -1}
	}
	if want := record.NumGeneric + len(t.Fields); want != width {
		return &MismatchError{Tag: tag, Got: width, Want: want}
	}
	return nil
}

// Columns returns the column names for a record of tag with width values:
// the generic field names followed by the schema field names. A nil Registry
// yields positional names val1..valN instead, and never fails.
func (r *Registry) Columns(tag string, width int) ([]string, error) {
	cols := make([]string, 0, width)
	cols = append(cols, record.GenericFields[:]...)

	if r == nil {
		for n := 1; n <= width-record.NumGeneric; n++ {
			cols = append(cols, fmt.Sprintf("val%d", n))
		}
		return cols, nil
	}

	if err := r.Validate(tag, width); err != nil {
		return nil, err
	}
	t := r.types[tag]
	return append(cols, t.FieldNames()...), nil
}
