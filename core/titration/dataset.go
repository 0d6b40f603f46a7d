// core/titration/dataset.go
package titration

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"shift2me-core/listfile"
	"shift2me-core/protocol"
	"shift2me-core/residue"
)

// Range is an inclusive span of sequence positions.
type Range struct {
	Lo, Hi int
}

// Config for New. The zero value is usable.
type Config struct {
	Name string
	// Cutoff, when set, enables Filtered.
	Cutoff *float64
	// Positions is the expected sequence range. Positions inside it that
	// no step reports are kept as empty (incomplete) residues. When nil the
	// range is inferred once from the first step that reports residues,
	// as [min, max) of the reported positions.
	Positions *Range
	Protocol  *protocol.Protocol
	Logger    *slog.Logger
}

// Dataset owns the residues of one titration experiment and derives their
// completeness and chemical shift intensities as steps are ingested.
// A Dataset must not be shared between goroutines without external locking.
type Dataset struct {
	name     string
	log      *slog.Logger
	protocol *protocol.Protocol

	residues   map[int]*residue.Residue
	complete   map[int]struct{}
	incomplete map[int]struct{}
	selected   map[int]struct{}

	cutoff    float64
	hasCutoff bool

	steps int
	files []string

	positions *Range
	inferred  bool

	intensities *mat.Dense
	columns     []int
}

func New(cfg Config) *Dataset {
	d := &Dataset{
		name:       cfg.Name,
		log:        cfg.Logger,
		protocol:   cfg.Protocol,
		residues:   map[int]*residue.Residue{},
		complete:   map[int]struct{}{},
		incomplete: map[int]struct{}{},
		selected:   map[int]struct{}{},
	}
	if d.name == "" {
		d.name = "Unnamed Titration"
	}
	if d.log == nil {
		d.log = slog.Default()
	}
	if d.protocol == nil {
		d.protocol = protocol.New()
	}
	if cfg.Positions != nil {
		r := *cfg.Positions
		d.positions = &r
	}
	if cfg.Cutoff != nil {
		d.cutoff, d.hasCutoff = *cfg.Cutoff, true
	}
	return d
}

func (d *Dataset) Name() string                 { return d.name }
func (d *Dataset) SetName(name string)          { d.name = name }
func (d *Dataset) Protocol() *protocol.Protocol { return d.protocol }
func (d *Dataset) StepsLoaded() int             { return d.steps }

// Files lists the ingested step sources in ingestion order.
func (d *Dataset) Files() []string { return append([]string(nil), d.files...) }

// HasFile reports whether source was already ingested.
func (d *Dataset) HasFile(source string) bool {
	for _, f := range d.files {
		if f == source {
			return true
		}
	}
	return false
}

// PositionRange returns the expected position range, if known.
func (d *Dataset) PositionRange() (Range, bool) {
	if d.positions == nil {
		return Range{}, false
	}
	return *d.positions, true
}

// IngestStep loads the step file read from r. source must be named after
// the next expected step, i.e. StepsLoaded(). The step is committed
// entirely or not at all.
func (d *Dataset) IngestStep(source string, r io.Reader) error {
	return d.ingest(source, r, nil)
}

// IngestStepVolume is IngestStep that also records the titrant volume
// added at this step in the protocol.
func (d *Dataset) IngestStepVolume(source string, r io.Reader, volume float64) error {
	return d.ingest(source, r, &volume)
}

func (d *Dataset) ingest(source string, r io.Reader, volume *float64) error {
	step := d.steps
	d.log.Info("loading NMR data", "step", step, "file", source)

	if _, err := listfile.ValidateStep(source, step); err != nil {
		return err
	}
	if volume != nil {
		if err := d.checkVolume(step, *volume); err != nil {
			return err
		}
	}
	recs, err := listfile.Parse(r, source)
	if err != nil {
		return err
	}

	// commit
	for _, rec := range recs {
		res, ok := d.residues[rec.Position]
		if !ok {
			res = residue.New(rec.Position)
			res.Label = rec.Label
			d.residues[rec.Position] = res
		}
		res.Append(rec.ShiftH, rec.ShiftN)
	}
	d.steps++
	d.files = append(d.files, source)

	if volume != nil {
		if step < d.protocol.Steps() {
			err = d.protocol.UpdateVolume(step, *volume)
		} else {
			err = d.protocol.AddVolume(*volume)
		}
		if err != nil {
			// checkVolume already ruled this out
			panic(fmt.Sprintf("titration: protocol volume for step %d: %v", step, err))
		}
	}

	d.fillGaps()
	d.classify()
	d.computeIntensities()

	d.log.Info("step loaded", "step", step, "incomplete", len(d.incomplete), "total", len(d.residues))
	return nil
}

func (d *Dataset) checkVolume(step int, v float64) error {
	ve := &protocol.ValidationError{}
	switch {
	case v < 0 || math.IsNaN(v):
		ve.Problems = append(ve.Problems, fmt.Sprintf("invalid added volume (%g) for step %d", v, step))
	case step == 0 && v != 0:
		ve.Problems = append(ve.Problems, fmt.Sprintf("reference step 0 cannot receive titrant (got %g µL)", v))
	case step > d.protocol.Steps():
		ve.Problems = append(ve.Problems, fmt.Sprintf("protocol has %d steps, cannot record a volume for step %d", d.protocol.Steps(), step))
	default:
		return nil
	}
	return ve
}

func (d *Dataset) fillGaps() {
	if d.positions == nil {
		if d.inferred || len(d.residues) == 0 {
			return
		}
		// TODO: confirm with the NMR users whether the last position should be
		// part of the inferred range; [min, max) is kept for compatibility.
		pos := d.Positions()
		d.positions = &Range{Lo: pos[0], Hi: pos[len(pos)-1] - 1}
		d.inferred = true
	}
	for p := d.positions.Lo; p <= d.positions.Hi; p++ {
		if _, ok := d.residues[p]; !ok {
			d.residues[p] = residue.New(p)
		}
	}
}

// classify rebuilds the complete/incomplete partition from scratch.
func (d *Dataset) classify() {
	d.complete = make(map[int]struct{}, len(d.residues))
	d.incomplete = map[int]struct{}{}
	for pos, res := range d.residues {
		if res.IsComplete(d.steps) {
			d.complete[pos] = struct{}{}
		} else {
			d.incomplete[pos] = struct{}{}
		}
	}
}

// computeIntensities builds the step x residue intensity matrix,
// reference step excluded.
func (d *Dataset) computeIntensities() {
	d.columns = sortedKeys(d.complete)
	d.intensities = nil
	if d.steps < 2 || len(d.columns) == 0 {
		return
	}
	m := mat.NewDense(d.steps-1, len(d.columns), nil)
	for j, pos := range d.columns {
		in, err := d.residues[pos].Intensities()
		if err != nil {
			// complete residues always carry a reference
			panic(fmt.Sprintf("titration: residue %d: %v", pos, err))
		}
		for i := 1; i < d.steps; i++ {
			m.Set(i-1, j, in[i])
		}
	}
	d.intensities = m
}

// Intensities returns a copy of the intensity matrix: one row per step
// after the reference, one column per IntensityColumns position.
// It is nil until two steps are loaded and a residue is complete.
func (d *Dataset) Intensities() *mat.Dense {
	if d.intensities == nil {
		return nil
	}
	return mat.DenseCopyOf(d.intensities)
}

// IntensityColumns lists the residue positions of the intensity matrix columns.
func (d *Dataset) IntensityColumns() []int { return append([]int(nil), d.columns...) }

// StepIntensities returns (position, intensity) for all complete residues
// at step (1 ≤ step < StepsLoaded). Negative steps count from the end.
func (d *Dataset) StepIntensities(step int) (positions []int, values []float64, err error) {
	if step < 0 {
		step += d.steps
	}
	if step < 1 || step >= d.steps || d.intensities == nil {
		return nil, nil, fmt.Errorf("no intensities for step %d (%d steps loaded)", step, d.steps)
	}
	return d.IntensityColumns(), mat.Row(nil, step-1, d.intensities), nil
}

// SortedSteps lists titration steps after the reference: 1..StepsLoaded-1.
func (d *Dataset) SortedSteps() []int {
	var out []int
	for s := 1; s < d.steps; s++ {
		out = append(out, s)
	}
	return out
}

// Residue returns the residue at pos.
func (d *Dataset) Residue(pos int) (*residue.Residue, bool) {
	r, ok := d.residues[pos]
	return r, ok
}

// Positions lists every known residue position in order.
func (d *Dataset) Positions() []int {
	out := make([]int, 0, len(d.residues))
	for p := range d.residues {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

func (d *Dataset) Complete() []int   { return sortedKeys(d.complete) }
func (d *Dataset) Incomplete() []int { return sortedKeys(d.incomplete) }
func (d *Dataset) Selected() []int   { return sortedKeys(d.selected) }

var (
	// ErrInvalidCutoff is returned by SetCutoff for NaN or infinite values.
	ErrInvalidCutoff = errors.New("invalid cut-off value")
	// ErrNoCutoff means a filtered view was requested with no cut-off set.
	ErrNoCutoff = errors.New("no cut-off set")
)

// SetCutoff sets the intensity threshold used by Filtered.
func (d *Dataset) SetCutoff(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidCutoff, v)
	}
	d.cutoff, d.hasCutoff = v, true
	return nil
}

func (d *Dataset) ClearCutoff() { d.cutoff, d.hasCutoff = 0, false }

// ProtocolTable is the protocol table restricted to the loaded steps,
// one row per step 0..StepsLoaded-1. Before any step is loaded it is the
// full planned table. It fails with protocol.ErrIncomplete until the
// protocol is initialized.
func (d *Dataset) ProtocolTable() ([]protocol.Row, error) {
	rows, err := d.protocol.Table()
	if err != nil {
		return nil, err
	}
	if d.steps > 0 && len(rows) > d.steps {
		rows = rows[:d.steps]
	}
	return rows, nil
}

// Cutoff returns the threshold and whether one is set.
func (d *Dataset) Cutoff() (float64, bool) { return d.cutoff, d.hasCutoff }

// Filtered lists complete residues whose last-step intensity is at least
// the cut-off. It is empty while no cut-off is set.
func (d *Dataset) Filtered() []int {
	if !d.hasCutoff {
		return nil
	}
	var out []int
	for _, pos := range sortedKeys(d.complete) {
		last, err := d.residues[pos].LastIntensity()
		if err != nil {
			// complete residues always carry a reference
			panic(fmt.Sprintf("titration: residue %d: %v", pos, err))
		}
		if last >= d.cutoff {
			out = append(out, pos)
		}
	}
	return out
}

// Select adds positions to the selection. Unknown positions are skipped
// with a warning. It returns the current selection.
func (d *Dataset) Select(positions ...int) []int {
	for _, p := range positions {
		if _, ok := d.residues[p]; !ok {
			d.log.Warn("residue does not exist, skipping selection", "position", p)
			continue
		}
		d.selected[p] = struct{}{}
	}
	return d.Selected()
}

// Deselect removes positions from the selection; with no argument the
// whole selection is cleared. Positions not selected are ignored.
func (d *Dataset) Deselect(positions ...int) []int {
	if len(positions) == 0 {
		d.selected = map[int]struct{}{}
		return nil
	}
	for _, p := range positions {
		if _, ok := d.residues[p]; !ok {
			d.log.Warn("residue does not exist, skipping deselection", "position", p)
			continue
		}
		delete(d.selected, p)
	}
	return d.Selected()
}

func sortedKeys(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
