// Package frame builds one in-memory table ("frame") per record type from a
// record stream.
//
// Records are consumed in fixed-size chunks. Each chunk is split into partial
// frames per tag; once the stream is drained the partial frames of every tag
// are concatenated in arrival order.
package frame

import (
	"encoding/binary"
	"math"

	"github.com/zeebo/xxh3"
)

// Frame is a column-named table of records sharing one type tag. Row order is
// the order the records arrived in.
type Frame struct {
	Tag     string
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Rows) }

// Column returns the values of the named column, or false when the frame has
// no such column.
func (f *Frame) Column(name string) ([]any, bool) {
	idx := -1
	for i, c := range f.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	out := make([]any, len(f.Rows))
	for i, row := range f.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out, true
}

// Fingerprint hashes the tag, the column names and every value (with its
// kind) into a stable 64-bit digest.
func (f *Frame) Fingerprint() uint64 {
	h := xxh3.New()
	var buf [9]byte

	writeString := func(s string) {
		binary.LittleEndian.PutUint64(buf[:8], uint64(len(s)))
		h.Write(buf[:8])
		h.WriteString(s)
	}

	writeString(f.Tag)
	for _, c := range f.Columns {
		writeString(c)
	}
	for _, row := range f.Rows {
		buf[0] = 'r'
		h.Write(buf[:1])
		for _, v := range row {
			switch x := v.(type) {
			case nil:
				buf[0] = 'n'
				h.Write(buf[:1])
			case int64:
				buf[0] = 'i'
				binary.LittleEndian.PutUint64(buf[1:], uint64(x))
				h.Write(buf[:])
			case float64:
				buf[0] = 'f'
				binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(x))
				h.Write(buf[:])
			case string:
				buf[0] = 's'
				h.Write(buf[:1])
				writeString(x)
			default:
				buf[0] = '?'
				h.Write(buf[:1])
			}
		}
	}
	return h.Sum64()
}
