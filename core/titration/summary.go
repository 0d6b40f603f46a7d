// core/titration/summary.go
package titration

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Summary is a snapshot of the dataset state.
type Summary struct {
	Name       string
	Steps      int
	Cutoff     *float64
	Residues   int
	Complete   int
	Incomplete int
	Filtered   int
	Selected   int

	// Last-step intensity statistics over complete residues (zero when
	// fewer than two steps are loaded).
	MeanIntensity   float64
	StdDevIntensity float64
	MaxIntensity    float64
	MaxPosition     int
}

func (d *Dataset) Summary() Summary {
	s := Summary{
		Name:       d.name,
		Steps:      d.steps,
		Residues:   len(d.residues),
		Complete:   len(d.complete),
		Incomplete: len(d.incomplete),
		Filtered:   len(d.Filtered()),
		Selected:   len(d.selected),
	}
	if c, ok := d.Cutoff(); ok {
		s.Cutoff = &c
	}
	if pos, last, err := d.StepIntensities(-1); err == nil && len(last) > 0 {
		s.MeanIntensity, s.StdDevIntensity = stat.MeanStdDev(last, nil)
		if len(last) == 1 {
			s.StdDevIntensity = 0
		}
		for i, v := range last {
			if i == 0 || v > s.MaxIntensity {
				s.MaxIntensity, s.MaxPosition = v, pos[i]
			}
		}
	}
	return s
}

func (s Summary) String() string {
	cutoff := "None"
	if s.Cutoff != nil {
		cutoff = fmt.Sprint(*s.Cutoff)
	}
	last := s.Steps - 1
	if last < 0 {
		last = 0
	}
	rule := "--------------------------------------------"
	return strings.Join([]string{
		rule,
		"> " + s.Name,
		rule,
		fmt.Sprintf("Steps :\t\t%d (reference step 0 to %d)", s.Steps, last),
		fmt.Sprintf("Cut-off :\t%s", cutoff),
		fmt.Sprintf("Total residues :\t\t%d", s.Residues),
		fmt.Sprintf(" - Complete residues :\t\t%d", s.Complete),
		fmt.Sprintf(" - Incomplete residues :\t%d", s.Incomplete),
		fmt.Sprintf(" - Filtered residues :\t\t%d", s.Filtered),
		fmt.Sprintf(" - Selected residues :\t\t%d", s.Selected),
		rule,
		"",
	}, "\n")
}
