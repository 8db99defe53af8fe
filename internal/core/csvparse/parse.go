// Package csvparse turns a raw statistics export into flat header keyed rows
// Malformed rows degrade to empty cells; only a missing header is an error
package csvparse

import (
	"strings"

	perr "mgnrega/internal/platform/errors"
)

// Row maps a header column name to its trimmed cell value
type Row map[string]string

// ErrNoHeader is returned when the input carries no header line at all
var ErrNoHeader = perr.New(perr.ErrorCodeInvalidArgument, "csv input has no header line")

const bom = "\ufeff"

// Parse splits text into rows keyed by the header line
// Lines may end in \n or \r\n; blank lines are skipped
func Parse(text string) ([]Row, error) {
	lines := strings.Split(strings.TrimPrefix(text, bom), "\n")

	var header []string
	i := 0
	for ; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		header = SplitLine(strings.TrimSpace(lines[i]))
		i++
		break
	}
	if header == nil {
		return nil, ErrNoHeader
	}

	rows := make([]Row, 0, len(lines)-i)
	for ; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := SplitLine(line)
		row := make(Row, len(header))
		for j, col := range header {
			if j < len(fields) {
				row[col] = fields[j]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// SplitLine splits one line on commas outside double quotes
// Inside a quoted field "" emits a single quote; every field is trimmed
func SplitLine(line string) []string {
	var (
		out    []string
		cur    strings.Builder
		quoted bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && quoted && i+1 < len(line) && line[i+1] == '"':
			cur.WriteByte('"')
			i++
		case c == '"':
			quoted = !quoted
		case c == ',' && !quoted:
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(out, strings.TrimSpace(cur.String()))
}
