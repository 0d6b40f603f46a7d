// internal/writers/residues.go
package writers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"shift2me/internal/output"
	"shift2me/pkg/api"
)

func init() {
	for _, report := range []string{output.ReportResidues, output.ReportFiltered} {
		rep := report
		Register(rep, output.FormatText, func(w io.Writer, payload any, _ bool) error {
			set, ok := payload.(api.ResidueSetV1)
			if !ok {
				return badPayload(rep, payload)
			}
			pos := make([]string, len(set.Residues))
			for i, r := range set.Residues {
				pos[i] = strconv.Itoa(r.Position)
			}
			_, err := fmt.Fprintln(w, strings.Join(pos, " "))
			return err
		})
		for _, f := range []string{output.FormatTSV, output.FormatCSV} {
			format := f
			Register(rep, format, func(w io.Writer, payload any, header bool) error {
				set, ok := payload.(api.ResidueSetV1)
				if !ok {
					return badPayload(rep, payload)
				}
				return output.WriteTable(w, format, output.ResidueHeader, residueRows(set), header)
			})
		}
		Register(rep, output.FormatJSON, func(w io.Writer, payload any, _ bool) error {
			set, ok := payload.(api.ResidueSetV1)
			if !ok {
				return badPayload(rep, payload)
			}
			return writeJSON(w, set)
		})
	}
}

func residueRows(set api.ResidueSetV1) [][]string {
	rows := make([][]string, len(set.Residues))
	for i, r := range set.Residues {
		last := ""
		if r.LastIntensity != nil {
			last = output.FormatFloat(*r.LastIntensity)
		}
		rows[i] = []string{
			strconv.Itoa(r.Position),
			r.Label,
			strconv.Itoa(r.StepsH),
			strconv.Itoa(r.StepsN),
			strconv.FormatBool(r.Complete),
			strconv.FormatBool(r.Selected),
			last,
		}
	}
	return rows
}
