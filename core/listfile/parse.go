// core/listfile/parse.go
package listfile

import (
	"bufio"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
)

var pathPattern = regexp.MustCompile(`^(.*[^\d])(\d+)\.list$`)

// Parse reads every line of r. On the first unparsable line it returns a
// *ParseError and no records, so callers never see half a step.
func Parse(r io.Reader, source string) ([]Record, error) {
	var out []Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	ln := 0
	for sc.Scan() {
		ln++
		rec, ok, err := ParseLine(sc.Text())
		if err != nil {
			return nil, &ParseError{Source: source, Line: ln, Err: err}
		}
		if ok {
			out = append(out, rec)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// StepFromPath extracts the step number embedded in a `(name)(step).list`
// file name.
func StepFromPath(path string) (int, error) {
	m := pathPattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return -1, &InvalidPathError{Path: path, Expected: -1, Found: -1}
	}
	step, err := strconv.Atoi(m[2])
	if err != nil {
		return -1, &InvalidPathError{Path: path, Expected: -1, Found: -1}
	}
	return step, nil
}

// ValidateStep is StepFromPath plus a check against the expected step.
func ValidateStep(path string, expected int) (int, error) {
	step, err := StepFromPath(path)
	if err != nil {
		return step, err
	}
	if step != expected {
		return step, &InvalidPathError{Path: path, Expected: expected, Found: step}
	}
	return step, nil
}
