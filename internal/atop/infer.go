package atop

import (
	"fmt"
	"regexp"
	"strconv"
)

// Kind is the scalar kind of a type-specific field.
type Kind uint8

const (
	KindText Kind = iota
	KindNumber
)

func (k Kind) String() string {
	if k == KindNumber {
		return "number"
	}
	return "text"
}

// numericRx accepts optionally signed integer or decimal literals.
var numericRx = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// inferKinds classifies each value of a first sample.
func inferKinds(fields []string) []Kind {
	kinds := make([]Kind, len(fields))
	for i, v := range fields {
		if numericRx.MatchString(v) {
			kinds[i] = KindNumber
		}
	}
	return kinds
}

// coerce converts fields positionally according to kinds. Numbers become
// float64 and text stays string.
func coerce(kinds []Kind, fields []string) ([]any, error) {
	if len(kinds) != len(fields) {
		return nil, fmt.Errorf("%d fields, first sample of this type had %d", len(fields), len(kinds))
	}
	out := make([]any, len(fields))
	for i, v := range fields {
		if kinds[i] != KindNumber {
			out[i] = v
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("field %d: %q is not numeric", i+1, v)
		}
		out[i] = f
	}
	return out, nil
}
