// pkg/api/residues_v1.go
package api

// ResidueV1 describes one residue of a residue set.
type ResidueV1 struct {
	Position      int      `json:"position"`
	Label         string   `json:"label,omitempty"`
	StepsH        int      `json:"steps_h"`
	StepsN        int      `json:"steps_n"`
	Complete      bool     `json:"complete"`
	Selected      bool     `json:"selected,omitempty"`
	LastIntensity *float64 `json:"last_intensity,omitempty"`
}

// ResidueSetV1 is the stable JSON schema of --report residues/filtered.
type ResidueSetV1 struct {
	Set      string      `json:"set"`
	Cutoff   *float64    `json:"cutoff,omitempty"`
	Residues []ResidueV1 `json:"residues"`
}

// IntensitiesV1 is the stable JSON schema of --report intensities:
// Values[i][j] is the intensity of Positions[j] at Steps[i].
type IntensitiesV1 struct {
	Steps     []int       `json:"steps"`
	Positions []int       `json:"positions"`
	Values    [][]float64 `json:"values"`
}

// SummaryV1 is the stable JSON schema of --report summary.
type SummaryV1 struct {
	Name          string   `json:"name"`
	Steps         int      `json:"steps"`
	Files         []string `json:"files"`
	Cutoff        *float64 `json:"cutoff,omitempty"`
	Residues      int      `json:"residues"`
	Complete      int      `json:"complete"`
	Incomplete    int      `json:"incomplete"`
	Filtered      int      `json:"filtered"`
	Selected      int      `json:"selected"`
	MeanIntensity float64  `json:"mean_last_intensity"`
	StdIntensity  float64  `json:"std_last_intensity"`
	MaxIntensity  float64  `json:"max_last_intensity"`
	MaxPosition   int      `json:"max_position,omitempty"`
}
