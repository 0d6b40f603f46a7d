// core/titration/selection.go
package titration

import (
	"fmt"
	"strconv"
	"strings"
)

// Named residue sets accepted by ParseSelection.
const (
	SetAll        = "all"
	SetComplete   = "complete"
	SetIncomplete = "incomplete"
	SetFiltered   = "filtered"
	SetSelected   = "selected"
)

// Set returns the positions of a named residue set.
func (d *Dataset) Set(name string) ([]int, error) {
	switch name {
	case SetAll:
		return d.Positions(), nil
	case SetComplete:
		return d.Complete(), nil
	case SetIncomplete:
		return d.Incomplete(), nil
	case SetFiltered:
		return d.Filtered(), nil
	case SetSelected:
		return d.Selected(), nil
	}
	return nil, fmt.Errorf("unknown residue set %q (want all, complete, incomplete, filtered or selected)", name)
}

// ParseSelection expands selection arguments into positions. Each argument
// is a named set (see Set), a position, or a
// half-open slice: "100:110" is 100..109, ":110" starts at the first known
// position. "100:" is deliberately not half-open: it runs to the last known
// position and includes it. Slices only yield known positions, so their
// bounds may lie outside the dataset.
func (d *Dataset) ParseSelection(args []string) ([]int, error) {
	var out []int
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		if set, err := d.Set(arg); err == nil {
			out = append(out, set...)
			continue
		}
		lo, hi, isSlice, err := d.parseSlice(arg)
		if err != nil {
			return nil, err
		}
		if !isSlice {
			out = append(out, lo)
			continue
		}
		for _, p := range d.Positions() {
			if p >= lo && p < hi {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (d *Dataset) parseSlice(arg string) (lo, hi int, isSlice bool, err error) {
	a, b, found := strings.Cut(arg, ":")
	if !found {
		p, err := strconv.Atoi(a)
		if err != nil {
			return 0, 0, false, fmt.Errorf("invalid residue position %q", arg)
		}
		return p, p, false, nil
	}
	pos := d.Positions()
	if len(pos) == 0 {
		return 0, 0, true, nil
	}
	lo, hi = pos[0], pos[len(pos)-1]+1
	if a != "" {
		if lo, err = strconv.Atoi(a); err != nil {
			return 0, 0, true, fmt.Errorf("invalid residue slice %q", arg)
		}
	}
	if b != "" {
		if hi, err = strconv.Atoi(b); err != nil {
			return 0, 0, true, fmt.Errorf("invalid residue slice %q", arg)
		}
	}
	return lo, hi, true, nil
}
