// core/listfile/line.go
package listfile

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Record is one residue measurement parsed from a step file.
type Record struct {
	Position int
	Label    string // anything glued to the position, e.g. "N-H" in "12N-H"
	ShiftN   float64
	ShiftH   float64
}

// ErrUnparsableLine marks a digit-leading line that does not follow the
// `position[label] nitrogen hydrogen` grammar.
var ErrUnparsableLine = errors.New("found unparsable line")

var linePattern = regexp.MustCompile(`^(\d+)(\S*)?\s+(\d+\.\d+)\s+(\d+\.\d+)$`)

// ParseLine parses a single line of a step file.
// ok is false for ignorable lines (blank, header, comment: anything not
// starting with a digit).
func ParseLine(line string) (rec Record, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] < '0' || line[0] > '9' {
		return Record{}, false, nil
	}
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Record{}, false, ErrUnparsableLine
	}
	pos, err := strconv.Atoi(m[1])
	if err != nil {
		return Record{}, false, ErrUnparsableLine
	}
	n, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return Record{}, false, ErrUnparsableLine
	}
	h, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return Record{}, false, ErrUnparsableLine
	}
	return Record{Position: pos, Label: m[2], ShiftN: n, ShiftH: h}, true, nil
}
