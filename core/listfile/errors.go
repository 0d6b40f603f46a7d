// core/listfile/errors.go
package listfile

import "fmt"

// ParseError reports the first bad line of a step file.
type ParseError struct {
	Source string
	Line   int // 1-based
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%v at line %d", e.Err, e.Line)
	}
	return fmt.Sprintf("%v at line %d in file %s", e.Err, e.Line, e.Source)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InvalidPathError is returned for step file names that are not
// `(name)(step).list`, or whose step does not match the expected one.
type InvalidPathError struct {
	Path     string
	Expected int // -1 when no particular step was expected
	Found    int
}

func (e *InvalidPathError) Error() string {
	if e.Expected >= 0 && e.Found >= 0 {
		return fmt.Sprintf("file %s expected to contain data for titration step #%d (found #%d); it must be named like (name)%d.list",
			e.Path, e.Expected, e.Found, e.Expected)
	}
	return fmt.Sprintf("refusing to parse file %s: please check it is named like (name)(step).list", e.Path)
}
