// internal/output/table.go
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// FormatFloat renders v at full precision for machine-readable formats.
func FormatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// FormatFloat3 renders v with 3 decimals for text tables.
func FormatFloat3(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }

// WriteTable writes rows as an aligned text table, TSV or CSV.
func WriteTable(w io.Writer, format string, header []string, rows [][]string, withHeader bool) error {
	switch format {
	case FormatCSV:
		cw := csv.NewWriter(w)
		if withHeader {
			if err := cw.Write(header); err != nil {
				return err
			}
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
		return cw.Error()

	case FormatTSV:
		if withHeader {
			if _, err := fmt.Fprintln(w, strings.Join(header, "\t")); err != nil {
				return err
			}
		}
		for _, r := range rows {
			if _, err := fmt.Fprintln(w, strings.Join(r, "\t")); err != nil {
				return err
			}
		}
		return nil

	case FormatText:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		if withHeader {
			if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")+"\t"); err != nil {
				return err
			}
		}
		for _, r := range rows {
			if _, err := fmt.Fprintln(tw, strings.Join(r, "\t")+"\t"); err != nil {
				return err
			}
		}
		return tw.Flush()
	}
	return fmt.Errorf("unsupported table format %q", format)
}
