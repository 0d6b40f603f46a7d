// pkg/api/protocol_v1.go
package api

// ProtocolRowV1 is one step of the derived protocol table.
// Volumes are µL, concentrations µM.
type ProtocolRowV1 struct {
	Step         int     `json:"step"`
	AddedTitrant float64 `json:"added_titrant_ul"`
	TotalTitrant float64 `json:"total_titrant_ul"`
	TotalVolume  float64 `json:"total_volume_ul"`
	TitrantConc  float64 `json:"titrant_um"`
	AnalyteConc  float64 `json:"analyte_um"`
	Ratio        float64 `json:"ratio"`
}

// ProtocolTableV1 is the stable JSON schema of --report protocol.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ProtocolTableV1 struct {
	Name    string          `json:"name"`
	Titrant string          `json:"titrant"`
	Analyte string          `json:"analyte"`
	Rows    []ProtocolRowV1 `json:"rows"`
}
