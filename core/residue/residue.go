// core/residue/residue.go
package residue

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// IntensityScaleN divides delta-N before combining it with delta-H, so the
// wider nitrogen range weighs about as much as hydrogen.
const IntensityScaleN = 5.0

// ErrNoReference is returned when a derived value needs the reference
// (step 0) shift and none was recorded.
var ErrNoReference = errors.New("missing reference chemical shift")

// Residue holds the chemical shifts measured for one sequence position,
// index-aligned with titration steps (index 0 is the reference step).
type Residue struct {
	Position int
	Label    string

	shiftsH []float64
	shiftsN []float64
}

// Params builds a Residue with initial shifts; zero shifts are skipped.
type Params struct {
	Position int
	Label    string
	ShiftH   float64
	ShiftN   float64
}

// Arrow is the start point and full-range displacement of a residue on
// the (H, N) shift map.
type Arrow struct {
	StartH, StartN float64
	DeltaH, DeltaN float64
}

func New(position int) *Residue {
	return &Residue{Position: position}
}

func NewWithShifts(p Params) *Residue {
	r := &Residue{Position: p.Position, Label: p.Label}
	r.Append(p.ShiftH, p.ShiftN)
	return r
}

// Append records one step. Each channel is independent: a zero value means
// "no measurement" for that channel and is not stored.
func (r *Residue) Append(h, n float64) {
	if h != 0 {
		r.shiftsH = append(r.shiftsH, h)
	}
	if n != 0 {
		r.shiftsN = append(r.shiftsN, n)
	}
}

// IsComplete reports whether both channels hold exactly steps values.
func (r *Residue) IsComplete(steps int) bool {
	return len(r.shiftsH) == steps && len(r.shiftsN) == steps
}

func (r *Residue) Len() (h, n int) { return len(r.shiftsH), len(r.shiftsN) }

func (r *Residue) ShiftsH() []float64 { return append([]float64(nil), r.shiftsH...) }
func (r *Residue) ShiftsN() []float64 { return append([]float64(nil), r.shiftsN...) }

// Shifts pairs (H, N) per step, truncated to the shorter channel.
func (r *Residue) Shifts() [][2]float64 {
	n := min(len(r.shiftsH), len(r.shiftsN))
	out := make([][2]float64, n)
	for i := 0; i < n; i++ {
		out[i] = [2]float64{r.shiftsH[i], r.shiftsN[i]}
	}
	return out
}

func (r *Residue) DeltaH() ([]float64, error) { return r.delta(r.shiftsH, "H") }
func (r *Residue) DeltaN() ([]float64, error) { return r.delta(r.shiftsN, "N") }

func (r *Residue) delta(series []float64, channel string) ([]float64, error) {
	if len(series) == 0 {
		return nil, r.missing(channel)
	}
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = v - series[0]
	}
	return out, nil
}

// Deltas pairs (deltaH, deltaN) per step, truncated to the shorter channel.
func (r *Residue) Deltas() ([][2]float64, error) {
	dh, err := r.DeltaH()
	if err != nil {
		return nil, err
	}
	dn, err := r.DeltaN()
	if err != nil {
		return nil, err
	}
	n := min(len(dh), len(dn))
	out := make([][2]float64, n)
	for i := 0; i < n; i++ {
		out[i] = [2]float64{dh[i], dn[i]}
	}
	return out, nil
}

// Intensities returns sqrt(dH² + (dN/5)²) for each step.
func (r *Residue) Intensities() ([]float64, error) {
	d, err := r.Deltas()
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(d))
	for i, p := range d {
		out[i] = math.Hypot(p[0], p[1]/IntensityScaleN)
	}
	return out, nil
}

// LastIntensity is the intensity at the last paired step.
func (r *Residue) LastIntensity() (float64, error) {
	in, err := r.Intensities()
	if err != nil {
		return 0, err
	}
	return in[len(in)-1], nil
}

// Arrow uses the first and last shifts of each channel.
func (r *Residue) Arrow() (Arrow, error) {
	if len(r.shiftsH) == 0 {
		return Arrow{}, r.missing("H")
	}
	if len(r.shiftsN) == 0 {
		return Arrow{}, r.missing("N")
	}
	h, n := r.shiftsH, r.shiftsN
	return Arrow{
		StartH: h[0],
		StartN: n[0],
		DeltaH: h[len(h)-1] - h[0],
		DeltaN: n[len(n)-1] - n[0],
	}, nil
}

// RangeH is max(shiftsH) - min(shiftsH).
func (r *Residue) RangeH() (float64, error) {
	if len(r.shiftsH) == 0 {
		return 0, r.missing("H")
	}
	return floats.Max(r.shiftsH) - floats.Min(r.shiftsH), nil
}

// RangeN is max(shiftsN) - min(shiftsN).
func (r *Residue) RangeN() (float64, error) {
	if len(r.shiftsN) == 0 {
		return 0, r.missing("N")
	}
	return floats.Max(r.shiftsN) - floats.Min(r.shiftsN), nil
}

func (r *Residue) String() string {
	return fmt.Sprintf("(%d, %v, %v)", r.Position, r.shiftsH, r.shiftsN)
}

func (r *Residue) missing(channel string) error {
	return fmt.Errorf("residue %d: %w (%s)", r.Position, ErrNoReference, channel)
}
