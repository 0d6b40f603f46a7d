// internal/cli/examples.go
package cli

import (
	"errors"
	"fmt"
	"io"
)

// ErrExamples is returned by ParseArgs when --examples was given.
// The caller prints PrintExamples and exits 0.
var ErrExamples = errors.New("examples requested")

// PrintExamples prints a short quickstart followed by a pointer to --help.
func PrintExamples(out io.Writer, name string) {
	_, _ = fmt.Fprintf(out, "%s — quickstart\n\n", name)
	for _, ex := range []struct{ what, cmd string }{
		{"Summary of a titration directory (protocol.yml found inside)", "data/"},
		{"Residues whose last-step intensity exceeds 0.1 ppm", "--cutoff 0.1 --report filtered data/"},
		{"Intensity matrix as CSV", "--report intensities -o csv data/"},
		{"Protocol table from flags only", "--titrant ligand:1mM --analyte protein:50uM --start-volume 450:500 --volumes 5,10,10 --report protocol"},
		{"Select residues 20 to 39 and list them", "--select 20:40 --report residues --set selected data/"},
		{"Save the protocol for the next run", "--protocol run.yml --dump-protocol data/protocol.yml data/"},
	} {
		_, _ = fmt.Fprintf(out, "  # %s\n  %s %s\n\n", ex.what, name, ex.cmd)
	}
	_, _ = fmt.Fprintln(out, "Tip: run with --help for all flags.")
}
