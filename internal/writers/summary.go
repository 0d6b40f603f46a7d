// internal/writers/summary.go
package writers

import (
	"fmt"
	"io"
	"strconv"

	"shift2me/internal/output"
	"shift2me/pkg/api"
)

// SummaryPayload carries the text rendering next to the stable schema.
type SummaryPayload struct {
	Text string
	API  api.SummaryV1
}

func init() {
	Register(output.ReportSummary, output.FormatText, func(w io.Writer, payload any, _ bool) error {
		s, ok := payload.(SummaryPayload)
		if !ok {
			return badPayload(output.ReportSummary, payload)
		}
		_, err := io.WriteString(w, s.Text)
		return err
	})
	for _, f := range []string{output.FormatTSV, output.FormatCSV} {
		format := f
		Register(output.ReportSummary, format, func(w io.Writer, payload any, header bool) error {
			s, ok := payload.(SummaryPayload)
			if !ok {
				return badPayload(output.ReportSummary, payload)
			}
			return output.WriteTable(w, format, []string{"key", "value"}, summaryRows(s.API), header)
		})
	}
	Register(output.ReportSummary, output.FormatJSON, func(w io.Writer, payload any, _ bool) error {
		s, ok := payload.(SummaryPayload)
		if !ok {
			return badPayload(output.ReportSummary, payload)
		}
		return writeJSON(w, s.API)
	})
}

func summaryRows(s api.SummaryV1) [][]string {
	cutoff := ""
	if s.Cutoff != nil {
		cutoff = output.FormatFloat(*s.Cutoff)
	}
	return [][]string{
		{"name", s.Name},
		{"steps", strconv.Itoa(s.Steps)},
		{"cutoff", cutoff},
		{"residues", strconv.Itoa(s.Residues)},
		{"complete", strconv.Itoa(s.Complete)},
		{"incomplete", strconv.Itoa(s.Incomplete)},
		{"filtered", strconv.Itoa(s.Filtered)},
		{"selected", strconv.Itoa(s.Selected)},
		{"mean_last_intensity", output.FormatFloat(s.MeanIntensity)},
		{"std_last_intensity", output.FormatFloat(s.StdIntensity)},
		{"max_last_intensity", output.FormatFloat(s.MaxIntensity)},
		{"max_position", fmt.Sprint(s.MaxPosition)},
	}
}
