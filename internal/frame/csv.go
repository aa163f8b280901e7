package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes f as CSV: a header with the column names, then one line per
// row. nil values become empty fields.
func WriteCSV(w io.Writer, f *Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Columns); err != nil {
		return fmt.Errorf("frame %s: write header: %w", f.Tag, err)
	}
	line := make([]string, len(f.Columns))
	for i, row := range f.Rows {
		for j := range line {
			line[j] = ""
			if j < len(row) {
				line[j] = formatValue(row[j])
			}
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("frame %s: write row %d: %w", f.Tag, i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
