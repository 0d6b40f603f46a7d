// internal/output/api_conv.go
package output

import (
	"fmt"

	"shift2me-core/protocol"
	"shift2me-core/titration"

	"shift2me/pkg/api"
)

// ProtocolTable converts protocol table rows, as returned by
// protocol.Protocol.Table or titration.Dataset.ProtocolTable.
func ProtocolTable(p *protocol.Protocol, rows []protocol.Row) api.ProtocolTableV1 {
	out := api.ProtocolTableV1{
		Name:    p.Name(),
		Titrant: p.Titrant().Name,
		Analyte: p.Analyte().Name,
		Rows:    make([]api.ProtocolRowV1, len(rows)),
	}
	for i, r := range rows {
		out.Rows[i] = api.ProtocolRowV1{
			Step:         r.Step,
			AddedTitrant: r.Added,
			TotalTitrant: r.TitrantVol,
			TotalVolume:  r.TotalVol,
			TitrantConc:  r.TitrantConc,
			AnalyteConc:  r.AnalyteConc,
			Ratio:        r.Ratio,
		}
	}
	return out
}

// ResidueSet describes the residues of a named set (see titration.Dataset.Set).
func ResidueSet(ds *titration.Dataset, set string) (api.ResidueSetV1, error) {
	positions, err := ds.Set(set)
	if err != nil {
		return api.ResidueSetV1{}, err
	}
	selected := map[int]bool{}
	for _, p := range ds.Selected() {
		selected[p] = true
	}
	out := api.ResidueSetV1{Set: set, Residues: make([]api.ResidueV1, 0, len(positions))}
	if c, ok := ds.Cutoff(); ok {
		out.Cutoff = &c
	}
	steps := ds.StepsLoaded()
	for _, pos := range positions {
		res, ok := ds.Residue(pos)
		if !ok {
			continue
		}
		h, n := res.Len()
		r := api.ResidueV1{
			Position: pos,
			Label:    res.Label,
			StepsH:   h,
			StepsN:   n,
			Complete: res.IsComplete(steps),
			Selected: selected[pos],
		}
		if r.Complete {
			if last, err := res.LastIntensity(); err == nil {
				r.LastIntensity = &last
			}
		}
		out.Residues = append(out.Residues, r)
	}
	return out, nil
}

// Intensities converts the intensity matrix. step 0 means every step after
// the reference; otherwise a single step (negative counts from the end).
func Intensities(ds *titration.Dataset, step int) (api.IntensitiesV1, error) {
	if step != 0 {
		pos, vals, err := ds.StepIntensities(step)
		if err != nil {
			return api.IntensitiesV1{}, err
		}
		if step < 0 {
			step += ds.StepsLoaded()
		}
		return api.IntensitiesV1{Steps: []int{step}, Positions: pos, Values: [][]float64{vals}}, nil
	}
	m := ds.Intensities()
	if m == nil {
		return api.IntensitiesV1{}, fmt.Errorf("no intensities yet: %d steps loaded, %d complete residues", ds.StepsLoaded(), len(ds.Complete()))
	}
	out := api.IntensitiesV1{Steps: ds.SortedSteps(), Positions: ds.IntensityColumns()}
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		out.Values = append(out.Values, append([]float64(nil), m.RawRowView(i)...))
	}
	return out, nil
}

// Summary converts the dataset summary.
func Summary(ds *titration.Dataset) api.SummaryV1 {
	s := ds.Summary()
	return api.SummaryV1{
		Name:          s.Name,
		Steps:         s.Steps,
		Files:         ds.Files(),
		Cutoff:        s.Cutoff,
		Residues:      s.Residues,
		Complete:      s.Complete,
		Incomplete:    s.Incomplete,
		Filtered:      s.Filtered,
		Selected:      s.Selected,
		MeanIntensity: s.MeanIntensity,
		StdIntensity:  s.StdDevIntensity,
		MaxIntensity:  s.MaxIntensity,
		MaxPosition:   s.MaxPosition,
	}
}
