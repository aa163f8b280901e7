package atop

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Boundary tokens emitted by the replay tool on a line of their own.
const (
	tokenReset = "RESET" // new boot
	tokenSep   = "SEP"   // new sample
)

type lineKind uint8

const (
	lineData lineKind = iota
	lineReset
	lineSep
)

func classify(line string) lineKind {
	switch line {
	case tokenReset:
		return lineReset
	case tokenSep:
		return lineSep
	default:
		return lineData
	}
}

// headTokens is the number of positional tokens before the record text:
// tag, host, epoch, date, time, interval.
const headTokens = 6

var (
	// PRG: ID (NAME) MIDDLE (FREEFORM) TAIL
	prgRx = regexp.MustCompile(`^(\S+) \((.+)\) ([^()]+) \((.*)\) ([^()]+)$`)
	// PRC, PRN, PRD, PRM: ID (NAME) TAIL
	procRx = regexp.MustCompile(`^(\S+) \((.*)\) ([^()]+)$`)

	errTooFewTokens = errors.New("fewer than 7 whitespace separated tokens")
)

// dataLine is a tokenized and extracted data line before type coercion.
type dataLine struct {
	tag      string
	epoch    string
	interval string
	fields   []string
}

// parseDataLine tokenizes a data line, extracts the type-specific fields and
// applies the renaming rules.
func parseDataLine(line string) (dataLine, error) {
	head, text, ok := cutTokens(line, headTokens)
	if !ok {
		return dataLine{}, errTooFewTokens
	}

	fields, err := extractFields(head[0], text)
	if err != nil {
		return dataLine{}, err
	}

	return dataLine{
		tag:      renameTag(head[0], fields),
		epoch:    head[2],
		interval: head[5],
		fields:   fields,
	}, nil
}

// cutTokens splits the first n whitespace-delimited tokens off s and returns
// the rest of the line unsplit, with surrounding whitespace removed. ok is
// false unless n tokens and a non-empty rest were found.
func cutTokens(s string, n int) (head []string, rest string, ok bool) {
	head = make([]string, 0, n)
	for len(head) < n {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		if s == "" {
			return head, "", false
		}
		i := strings.IndexFunc(s, unicode.IsSpace)
		if i < 0 {
			return append(head, s), "", false
		}
		head = append(head, s[:i])
		s = s[i:]
	}
	rest = strings.TrimSpace(s)
	return head, rest, rest != ""
}

// extractFields splits record text according to the grammar of tag.
func extractFields(tag, text string) ([]string, error) {
	switch tag {
	case "PRG":
		m := prgRx.FindStringSubmatch(text)
		if m == nil {
			return nil, fmt.Errorf("%s record does not match `ID (NAME) ... (CMD) ...`", tag)
		}
		out := []string{m[1], m[2]}
		out = append(out, strings.Fields(m[3])...)
		out = append(out, m[4])
		return append(out, strings.Fields(m[5])...), nil

	case "PRC", "PRN", "PRD", "PRM":
		m := procRx.FindStringSubmatch(text)
		if m == nil {
			return nil, fmt.Errorf("%s record does not match `ID (NAME) ...`", tag)
		}
		out := []string{m[1], m[2]}
		return append(out, strings.Fields(m[3])...), nil

	default:
		return strings.Fields(text), nil
	}
}

// renameTag splits types the replay tool reports under one tag. NET carries
// both the aggregate counters (first field "upper") and per-interface
// counters; lowercase cpu is the per-processor variant of CPU.
func renameTag(tag string, fields []string) string {
	switch tag {
	case "NET":
		if len(fields) > 0 && fields[0] == "upper" {
			return "NET"
		}
		return "NET_IF"
	case "cpu":
		return "CPU_N"
	default:
		return tag
	}
}
