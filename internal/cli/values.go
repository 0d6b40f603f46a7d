// internal/cli/values.go
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseVolumes parses "5,10, 10" into µL values.
func ParseVolumes(spec string) ([]float64, error) {
	var out []float64
	for _, f := range strings.FieldsFunc(spec, func(r rune) bool { return r == ',' || r == ' ' }) {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("bad volume %q in --volumes", f)
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseRange parses "lo:hi" (inclusive).
func ParseRange(spec string) (lo, hi int, err error) {
	a, b, ok := strings.Cut(spec, ":")
	if !ok {
		return 0, 0, fmt.Errorf("bad range %q (want lo:hi)", spec)
	}
	if lo, err = strconv.Atoi(strings.TrimSpace(a)); err != nil {
		return 0, 0, fmt.Errorf("bad range %q (want lo:hi)", spec)
	}
	if hi, err = strconv.Atoi(strings.TrimSpace(b)); err != nil {
		return 0, 0, fmt.Errorf("bad range %q (want lo:hi)", spec)
	}
	if hi < lo {
		return 0, 0, fmt.Errorf("bad range %q: %d > %d", spec, lo, hi)
	}
	return lo, hi, nil
}

// ParseMolecule parses "NAME:CONC" where CONC may carry a nM, uM/µM or mM
// unit; the result is in µM. A bare number is µM. NAME may be empty.
func ParseMolecule(spec string) (name string, conc float64, err error) {
	name, c, ok := strings.Cut(spec, ":")
	if !ok {
		name, c = "", spec
	}
	conc, err = ParseMicromolar(c)
	return strings.TrimSpace(name), conc, err
}

// ParseMicromolar converts a concentration to µM.
func ParseMicromolar(spec string) (float64, error) {
	s := strings.TrimSpace(strings.ToLower(spec))
	unit := ""
	num := s
	for _, u := range []string{"nm", "um", "µm", "mm"} {
		if strings.HasSuffix(s, u) {
			unit = u
			num = strings.TrimSpace(strings.TrimSuffix(s, u))
			break
		}
	}
	if num == "" {
		return 0, fmt.Errorf("empty concentration %q", spec)
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("bad concentration %q", spec)
	}
	switch unit {
	case "nm":
		return f / 1e3, nil
	case "mm":
		return f * 1e3, nil
	default:
		return f, nil
	}
}

// ParsePair parses "A:T" into two non-negative numbers.
func ParsePair(spec string) (a, b float64, err error) {
	x, y, ok := strings.Cut(spec, ":")
	if !ok {
		return 0, 0, fmt.Errorf("bad value %q (want A:T)", spec)
	}
	if a, err = strconv.ParseFloat(strings.TrimSpace(x), 64); err != nil || a < 0 {
		return 0, 0, fmt.Errorf("bad value %q (want A:T)", spec)
	}
	if b, err = strconv.ParseFloat(strings.TrimSpace(y), 64); err != nil || b < 0 {
		return 0, 0, fmt.Errorf("bad value %q (want A:T)", spec)
	}
	return a, b, nil
}

// ParseStepVolume parses "STEP:VOL", e.g. "3:10" for 10 µL added at step 3.
func ParseStepVolume(spec string) (step int, vol float64, err error) {
	x, y, ok := strings.Cut(spec, ":")
	if !ok {
		return 0, 0, fmt.Errorf("bad step volume %q (want STEP:VOL)", spec)
	}
	if step, err = strconv.Atoi(strings.TrimSpace(x)); err != nil || step < 0 {
		return 0, 0, fmt.Errorf("bad step in %q (want STEP:VOL)", spec)
	}
	if vol, err = strconv.ParseFloat(strings.TrimSpace(y), 64); err != nil || vol < 0 || math.IsNaN(vol) {
		return 0, 0, fmt.Errorf("bad volume in %q (want STEP:VOL)", spec)
	}
	return step, vol, nil
}
