// core/protocol/protocol.go
package protocol

import (
	"gonum.org/v1/gonum/floats"
)

const (
	DefaultName    = "Unnamed Titration"
	DefaultTitrant = "titrant"
	DefaultAnalyte = "analyte"
)

// Molecule is a named species with its stock concentration (µM).
type Molecule struct {
	Name          string
	Concentration float64
}

// Row is one step of the derived protocol table.
// Volumes are in µL, concentrations in µM.
type Row struct {
	Step        int
	Added       float64
	TitrantVol  float64
	TotalVol    float64
	TitrantConc float64
	AnalyteConc float64
	Ratio       float64
}

// Protocol tracks a 1:1 titrant/analyte experiment and derives, for each
// step, volumes and concentrations from the added titrant volumes.
// Step 0 is the reference: no titrant added.
type Protocol struct {
	name    string
	titrant Molecule
	analyte Molecule

	startTotal   float64 // initial total volume
	startAnalyte float64 // analyte volume inside startTotal

	volumes []float64
	rows    []Row
}

func New() *Protocol {
	p := &Protocol{
		name:    DefaultName,
		titrant: Molecule{Name: DefaultTitrant},
		analyte: Molecule{Name: DefaultAnalyte},
		volumes: []float64{0},
	}
	p.update()
	return p
}

func (p *Protocol) Name() string      { return p.name }
func (p *Protocol) Titrant() Molecule { return p.titrant }
func (p *Protocol) Analyte() Molecule { return p.analyte }

// StartVolumes returns the initial analyte and total volumes.
func (p *Protocol) StartVolumes() (analyte, total float64) { return p.startAnalyte, p.startTotal }

func (p *Protocol) Volumes() []float64 { return append([]float64(nil), p.volumes...) }

// Steps is the number of steps described by the added volumes.
func (p *Protocol) Steps() int { return len(p.volumes) }

// SetName sets the experiment name; empty keeps the current one.
func (p *Protocol) SetName(name string) string {
	if name != "" {
		p.name = name
	}
	return p.name
}

// SetTitrant sets the titrant name and stock concentration.
// An empty name keeps the current one.
func (p *Protocol) SetTitrant(name string, concentration float64) error {
	m, err := molecule(p.titrant, name, concentration, "titrant")
	if err != nil {
		return err
	}
	p.titrant = m
	p.update()
	return nil
}

// SetAnalyte sets the analyte name and stock concentration.
func (p *Protocol) SetAnalyte(name string, concentration float64) error {
	m, err := molecule(p.analyte, name, concentration, "analyte")
	if err != nil {
		return err
	}
	p.analyte = m
	p.update()
	return nil
}

func molecule(cur Molecule, name string, conc float64, role string) (Molecule, error) {
	if conc < 0 {
		ve := &ValidationError{}
		ve.add("invalid concentration (%g) for %s", conc, role)
		return cur, ve
	}
	if name != "" {
		cur.Name = name
	}
	cur.Concentration = conc
	return cur, nil
}

// SetStartVolumes sets the initial analyte and total volumes.
func (p *Protocol) SetStartVolumes(analyte, total float64) error {
	ve := &ValidationError{}
	if analyte < 0 {
		ve.add("invalid volume (%g) for analyte", analyte)
	}
	if total < 0 {
		ve.add("invalid volume (%g) for total", total)
	}
	if err := ve.orNil(); err != nil {
		return err
	}
	p.startAnalyte, p.startTotal = analyte, total
	p.update()
	return nil
}

// SetVolumes replaces all added volumes. A leading 0 for the reference
// step is inserted when the first volume is not 0.
func (p *Protocol) SetVolumes(volumes []float64) error {
	if err := checkVolumes(volumes); err != nil {
		return err
	}
	p.volumes = normalizeVolumes(volumes)
	p.update()
	return nil
}

// AddVolume appends the titrant volume added for the next step.
func (p *Protocol) AddVolume(v float64) error {
	return p.AddVolumes([]float64{v})
}

// AddVolumes appends volumes for the next steps.
func (p *Protocol) AddVolumes(volumes []float64) error {
	if err := checkVolumes(volumes); err != nil {
		return err
	}
	p.volumes = append(p.volumes, volumes...)
	p.update()
	return nil
}

// UpdateVolume replaces the volume added at an existing step.
func (p *Protocol) UpdateVolume(step int, v float64) error {
	if step < 0 || step >= len(p.volumes) {
		return &IndexOutOfRangeError{Step: step, Steps: len(p.volumes)}
	}
	if err := checkVolumes([]float64{v}); err != nil {
		return err
	}
	if step == 0 && v != 0 {
		ve := &ValidationError{}
		ve.add("reference step 0 cannot receive titrant (got %g µL)", v)
		return ve
	}
	p.volumes[step] = v
	p.update()
	return nil
}

func checkVolumes(volumes []float64) error {
	ve := &ValidationError{}
	for i, v := range volumes {
		if v < 0 {
			ve.add("invalid added volume (%g) at index %d", v, i)
		}
	}
	return ve.orNil()
}

func normalizeVolumes(volumes []float64) []float64 {
	if len(volumes) == 0 {
		return []float64{0}
	}
	out := make([]float64, 0, len(volumes)+1)
	if volumes[0] != 0 {
		out = append(out, 0)
	}
	return append(out, volumes...)
}

// IsInitialized reports whether concentrations and start volumes are all
// set and consistent, i.e. whether Table can be trusted.
func (p *Protocol) IsInitialized() bool {
	return p.titrant.Concentration > 0 &&
		p.analyte.Concentration > 0 &&
		p.startTotal > 0 &&
		p.startAnalyte > 0 &&
		p.startAnalyte < p.startTotal &&
		len(p.volumes) > 0 && p.volumes[0] == 0
}

// Table returns the derived per-step table.
func (p *Protocol) Table() ([]Row, error) {
	if !p.IsInitialized() {
		return nil, ErrIncomplete
	}
	return append([]Row(nil), p.rows...), nil
}

// Ratios returns the [titrant]/[analyte] column.
func (p *Protocol) Ratios() ([]float64, error) {
	if !p.IsInitialized() {
		return nil, ErrIncomplete
	}
	out := make([]float64, len(p.rows))
	for i, r := range p.rows {
		out[i] = r.Ratio
	}
	return out, nil
}

// update rebuilds the whole table from the current volumes.
func (p *Protocol) update() {
	cum := make([]float64, len(p.volumes))
	floats.CumSum(cum, p.volumes)

	rows := make([]Row, len(p.volumes))
	for i, added := range p.volumes {
		total := p.startTotal + cum[i]
		r := Row{Step: i, Added: added, TitrantVol: cum[i], TotalVol: total}
		if total > 0 {
			r.TitrantConc = cum[i] * p.titrant.Concentration / total
			r.AnalyteConc = p.startAnalyte * p.analyte.Concentration / total
		}
		if r.AnalyteConc > 0 {
			r.Ratio = r.TitrantConc / r.AnalyteConc
		}
		rows[i] = r
	}
	p.rows = rows
}

// Headers returns display column names for the derived table.
func (p *Protocol) Headers() []string {
	t, a := p.titrant.Name, p.analyte.Name
	return []string{
		"Step",
		"Added " + t + " (µL)",
		"Total " + t + " (µL)",
		"Total volume (µL)",
		"[" + t + "] (µM)",
		"[" + a + "] (µM)",
		"[" + t + "]/[" + a + "]",
	}
}
