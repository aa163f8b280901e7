package file

import (
	"bufio"
	"os"
	"strings"
)

// ReadList reads a list of atop log paths, one per line.
//
// Lines that are empty or start with '#' (after trimming) are skipped. The
// order of lines is preserved and is the replay order.
func ReadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
