// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"
)

// WriteFunc renders one report payload.
type WriteFunc func(w io.Writer, payload any, header bool) error

// registry maps report → format → writer. Report files register themselves
// in init() blocks.
var registry = map[string]map[string]WriteFunc{}

// Register installs fn for (report, format); last registration wins.
func Register(report, format string, fn WriteFunc) {
	m, ok := registry[report]
	if !ok {
		m = map[string]WriteFunc{}
		registry[report] = m
	}
	m[format] = fn
}

// Formats lists the formats registered for report.
func Formats(report string) []string {
	var out []string
	for f := range registry[report] {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Write dispatches to the registered writer.
func Write(report, format string, w io.Writer, payload any, header bool) error {
	fn, ok := registry[report][format]
	if !ok {
		return fmt.Errorf("unknown %s format %q (no writer registered; have %v)", report, format, Formats(report))
	}
	return fn(w, payload, header)
}

func badPayload(report string, payload any) error {
	return fmt.Errorf("%s writer: unexpected payload %T", report, payload)
}
