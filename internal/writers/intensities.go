// internal/writers/intensities.go
package writers

import (
	"io"
	"strconv"

	"shift2me/internal/output"
	"shift2me/pkg/api"
)

func init() {
	for _, f := range []string{output.FormatText, output.FormatTSV, output.FormatCSV} {
		format := f
		Register(output.ReportIntensities, format, func(w io.Writer, payload any, header bool) error {
			in, ok := payload.(api.IntensitiesV1)
			if !ok {
				return badPayload(output.ReportIntensities, payload)
			}
			num := output.FormatFloat
			if format == output.FormatText {
				num = output.FormatFloat3
			}
			head := make([]string, 0, len(in.Positions)+1)
			head = append(head, "step")
			for _, p := range in.Positions {
				head = append(head, strconv.Itoa(p))
			}
			rows := make([][]string, len(in.Values))
			for i, vals := range in.Values {
				row := make([]string, 0, len(vals)+1)
				row = append(row, strconv.Itoa(in.Steps[i]))
				for _, v := range vals {
					row = append(row, num(v))
				}
				rows[i] = row
			}
			return output.WriteTable(w, format, head, rows, header)
		})
	}
	Register(output.ReportIntensities, output.FormatJSON, func(w io.Writer, payload any, _ bool) error {
		in, ok := payload.(api.IntensitiesV1)
		if !ok {
			return badPayload(output.ReportIntensities, payload)
		}
		return writeJSON(w, in)
	})
}
