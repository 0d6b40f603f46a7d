// internal/output/common.go
package output

// Reports
const (
	ReportSummary     = "summary"
	ReportStatus      = "status"
	ReportProtocol    = "protocol"
	ReportResidues    = "residues"
	ReportFiltered    = "filtered"
	ReportIntensities = "intensities"
	ReportDescriptor  = "descriptor"
)

// Output formats
const (
	FormatText = "text"
	FormatTSV  = "tsv"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ResidueHeader is the canonical header row for tsv/csv residue sets.
var ResidueHeader = []string{"position", "label", "steps_h", "steps_n", "complete", "selected", "last_intensity"}
