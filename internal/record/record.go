// Package record defines the flat record shape shared by the replay parser
// and the export sinks.
//
// A Record is an ordered slice of scalar values: six generic fields common to
// every record type, followed by the type-specific fields whose count and
// meaning depend on the type tag.
package record

import (
	"fmt"
	"io"
)

// Positions of the generic fields inside a Record.
const (
	IdxType = iota
	IdxEpoch
	IdxInterval
	IdxSampleN
	IdxBootN
	IdxLogFile

	// NumGeneric is the number of generic fields leading every record.
	NumGeneric
)

// GenericFields names the generic columns in record order.
var GenericFields = [NumGeneric]string{
	"type",
	"epoch",
	"sample_interval",
	"sample_n",
	"boot_n",
	"log_file",
}

// Record is one parsed data line. Generic fields keep fixed Go kinds
// (string, int64, int64, int64, int64, string) once types are inferred;
// type-specific fields are float64 or string.
type Record []any

// Tag returns the (possibly renamed) type tag.
func (r Record) Tag() string {
	s, _ := r[IdxType].(string)
	return s
}

// LogFile returns the source log path the record was replayed from.
func (r Record) LogFile() string {
	s, _ := r[IdxLogFile].(string)
	return s
}

// SampleN returns the run-wide sample sequence number.
func (r Record) SampleN() int64 {
	n, _ := r[IdxSampleN].(int64)
	return n
}

// BootN returns the run-wide boot sequence number.
func (r Record) BootN() int64 {
	n, _ := r[IdxBootN].(int64)
	return n
}

// Fields returns the type-specific values.
func (r Record) Fields() []any {
	if len(r) <= NumGeneric {
		return nil
	}
	return r[NumGeneric:]
}

// String renders the record as a tuple, mostly for dump output.
func (r Record) String() string {
	return fmt.Sprint([]any(r))
}

// Source is a pull-based, finite sequence of records. Next returns io.EOF
// once the sequence is exhausted; any other error is fatal for the consumer.
type Source interface {
	Next() (Record, error)
}

// sliceSource serves records from memory.
type sliceSource struct {
	recs []Record
	i    int
}

// FromSlice returns a Source yielding recs in order.
func FromSlice(recs []Record) Source { return &sliceSource{recs: recs} }

func (s *sliceSource) Next() (Record, error) {
	if s.i >= len(s.recs) {
		return nil, io.EOF
	}
	r := s.recs[s.i]
	s.i++
	return r, nil
}

// Limit stops src after n records. A non-positive n means no limit.
func Limit(src Source, n int) Source {
	if n <= 0 {
		return src
	}
	return &limitSource{src: src, left: n}
}

type limitSource struct {
	src  Source
	left int
}

func (l *limitSource) Next() (Record, error) {
	if l.left <= 0 {
		return nil, io.EOF
	}
	l.left--
	return l.src.Next()
}
