// Package atop turns the parseable replay output of atop into a stream of
// typed records.
//
// For every log file of a run, the replay tool is started as a child process
// and its output is read line by line. Boundary lines (RESET, SEP) advance
// the run-wide boot and sample counters; every other line is a data line that
// becomes one record:
//
//	(tag, epoch, interval, sample_n, boot_n, log_file, fields...)
//
// Files are processed strictly in order and one at a time. The stream is
// pull-based: the underlying pipe only advances when the consumer calls Next.
// Any malformed line aborts the whole run.
package atop

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"

	"atopetl/internal/record"
)

// maxLineBytes bounds a single replay line; PRG lines carry full command
// lines and can be long.
const maxLineBytes = 1 << 20

// Options configures a Stream.
type Options struct {
	// Binary is the replay tool; DefaultBinary when empty. Ignored when
	// Replayer is set.
	Binary string
	// Types are the requested record type tags; ["ALL"] when empty.
	Types []string
	// InferTypes converts epoch and interval to int64 and type-specific
	// fields to float64 or string, inferred from the first sample of every
	// tag. Without it those values stay raw text.
	InferTypes bool
	// Replayer overrides process spawning; mostly a test seam.
	Replayer Replayer
}

// Stats summarizes what a Stream has produced so far.
type Stats struct {
	Files   int
	Records int64
	ByTag   map[string]int64
}

// Stream is a lazy, finite, non-restartable sequence of records over an
// ordered list of log files. It is not safe for concurrent use.
type Stream struct {
	ctx      context.Context
	files    []string
	types    []string
	infer    bool
	replayer Replayer
	state    *State
	stats    Stats

	next   int           // index of the next file to open
	path   string        // file being replayed
	out    io.ReadCloser // current replay output
	sc     *bufio.Scanner
	lineNo int
	err    error // sticky; io.EOF once exhausted

	firstInFile bool
	lastEpoch   int64
}

// Open prepares a stream over files. Nothing is spawned until the first
// call to Next.
func Open(ctx context.Context, files []string, opts Options) *Stream {
	types := opts.Types
	if len(types) == 0 {
		types = []string{"ALL"}
	}
	rp := opts.Replayer
	if rp == nil {
		rp = ExecReplayer{Binary: opts.Binary}
	}
	return &Stream{
		ctx:      ctx,
		files:    append([]string(nil), files...),
		types:    types,
		infer:    opts.InferTypes,
		replayer: rp,
		state:    NewState(),
		stats:    Stats{ByTag: map[string]int64{}},
	}
}

// State exposes the run state (counters and inferred kinds).
func (s *Stream) State() *State { return s.state }

// Stats returns a snapshot of the stream statistics.
func (s *Stream) Stats() Stats {
	by := make(map[string]int64, len(s.stats.ByTag))
	for k, v := range s.stats.ByTag {
		by[k] = v
	}
	return Stats{Files: s.stats.Files, Records: s.stats.Records, ByTag: by}
}

// Next returns the next record, io.EOF after the last file is drained, or
// the fatal error that ended the run. Once an error is returned every later
// call returns it again.
func (s *Stream) Next() (record.Record, error) {
	for s.err == nil {
		if s.sc == nil {
			if s.next >= len(s.files) {
				s.err = io.EOF
				break
			}
			if err := s.openNext(); err != nil {
				s.fail(err)
			}
			continue
		}

		if !s.sc.Scan() {
			err := s.sc.Err()
			if err != nil {
				err = fmt.Errorf("atop: read %s: %w", s.path, err)
				s.fail(err)
				continue
			}
			if err := s.closeCurrent(); err != nil {
				s.fail(err)
			}
			continue
		}
		s.lineNo++
		line := s.sc.Text()

		switch classify(line) {
		case lineReset:
			s.state.reset()
			continue
		case lineSep:
			s.state.sep()
			continue
		}

		rec, err := s.build(line)
		if err != nil {
			s.fail(&RecordParseError{Path: s.path, LineNo: s.lineNo, Line: line, Err: err})
			continue
		}
		s.stats.Records++
		s.stats.ByTag[rec.Tag()]++
		return rec, nil
	}
	return nil, s.err
}

// Close releases the current replay process, if any. Calling Close before
// the stream is exhausted stops the run; later Next calls return io.EOF.
func (s *Stream) Close() error {
	err := s.closeCurrent()
	if s.err == nil {
		s.err = io.EOF
	}
	return err
}

func (s *Stream) openNext() error {
	path := s.files[s.next]
	s.next++

	out, err := s.replayer.Replay(s.ctx, path, s.types)
	if err != nil {
		var rErr *ReplayError
		if errors.As(err, &rErr) {
			return err
		}
		return &ReplayError{Path: path, Err: err}
	}

	s.path = path
	s.out = out
	s.sc = bufio.NewScanner(out)
	s.sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	s.lineNo = 0
	s.firstInFile = true
	s.stats.Files++
	s.state.beginFile()

	// The leading boundary marks log initialization, not a reboot.
	if s.sc.Scan() {
		s.lineNo++
	}
	return nil
}

func (s *Stream) closeCurrent() error {
	if s.out == nil {
		return nil
	}
	err := s.out.Close()
	s.out = nil
	s.sc = nil
	return err
}

// fail records err as the terminal error and releases the current process.
// A close error is dropped in favor of the original failure.
func (s *Stream) fail(err error) {
	_ = s.closeCurrent()
	s.err = err
}

func (s *Stream) build(line string) (record.Record, error) {
	dl, err := parseDataLine(line)
	if err != nil {
		return nil, err
	}

	rec := make(record.Record, 0, record.NumGeneric+len(dl.fields))

	if !s.infer {
		rec = append(rec, dl.tag, dl.epoch, dl.interval, s.state.SampleN, s.state.BootN, s.path)
		for _, f := range dl.fields {
			rec = append(rec, f)
		}
		if epoch, err := strconv.ParseInt(dl.epoch, 10, 64); err == nil {
			s.checkOrder(epoch)
		}
		return rec, nil
	}

	epoch, err := strconv.ParseInt(dl.epoch, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("epoch %q: %w", dl.epoch, err)
	}
	interval, err := strconv.ParseInt(dl.interval, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("interval %q: %w", dl.interval, err)
	}
	vals, err := coerce(s.state.kindsFor(dl.tag, dl.fields), dl.fields)
	if err != nil {
		return nil, fmt.Errorf("type %s: %w", dl.tag, err)
	}
	s.checkOrder(epoch)

	rec = append(rec, dl.tag, epoch, interval, s.state.SampleN, s.state.BootN, s.path)
	return append(rec, vals...), nil
}

// checkOrder warns when a file starts before the previous file ended. Files
// are expected in chronological order; out-of-order input still flows, but
// the sample and boot counters no longer follow wall-clock time.
func (s *Stream) checkOrder(epoch int64) {
	if s.firstInFile {
		s.firstInFile = false
		if s.stats.Files > 1 && epoch < s.lastEpoch {
			log.Printf("replay: warning: %s starts at epoch %d, before previous file ended (%d); check file order",
				s.path, epoch, s.lastEpoch)
		}
	}
	if epoch > s.lastEpoch {
		s.lastEpoch = epoch
	}
}
