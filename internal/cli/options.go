// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"shift2me/internal/cliutil"
	"shift2me/internal/version"
)

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

// Options holds all CLI flags and arguments.
type Options struct {
	// Input
	Sources      []string // directories, .list files or globs
	ProtocolFile string
	Name         string
	Positions    string // "lo:hi", inclusive

	// Protocol overrides
	Titrant     string // NAME:CONC
	Analyte     string // NAME:CONC
	StartVolume string // ANALYTE:TOTAL (µL)
	Volumes     []float64
	StepVolumes map[int]float64 // step → µL added at that step

	// Analysis
	Cutoff    float64
	HasCutoff bool
	Select    []string

	// Output
	Report             string
	Set                string
	Step               int
	Output             string
	Header             bool
	DumpProtocol       string
	NoFilteredExitCode int

	// Misc
	Quiet    bool
	LogJSON  bool
	Version  bool
	Examples bool
}

type sliceValue struct{ dst *[]string }

func (s *sliceValue) String() string {
	if s.dst == nil {
		return ""
	}
	return strings.Join(*s.dst, ",")
}
func (s *sliceValue) Set(v string) error { *s.dst = append(*s.dst, strings.Fields(v)...); return nil }

// stepVolumeValue collects repeatable STEP:VOL pairs.
type stepVolumeValue struct{ dst *map[int]float64 }

func (s *stepVolumeValue) String() string {
	if s.dst == nil || len(*s.dst) == 0 {
		return ""
	}
	return fmt.Sprint(*s.dst)
}
func (s *stepVolumeValue) Set(v string) error {
	step, vol, err := ParseStepVolume(v)
	if err != nil {
		return err
	}
	if *s.dst == nil {
		*s.dst = map[int]float64{}
	}
	(*s.dst)[step] = vol
	return nil
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() { usage(fs.Output(), fs, name) }
	return fs
}

func usage(out io.Writer, fs *flag.FlagSet, name string) {
	def := func(flagName string) string {
		if f := fs.Lookup(flagName); f != nil {
			return f.DefValue
		}
		return ""
	}
	fmt.Fprintf(out, "%s – 2D NMR titration analysis\n\n", name)
	fmt.Fprintf(out, "Version: %s\n\n", version.Version)
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintf(out, "  %s [options] data_dir/\n", name)
	fmt.Fprintf(out, "  %s [options] titration0.list titration1.list ...\n", name)
	fmt.Fprintf(out, "  %s [options] 'run/*.list'\n", name)

	fmt.Fprintln(out, "\nInput:")
	fmt.Fprintln(out, "      --protocol file         Protocol descriptor (.yml or .json); default: found in data_dir")
	fmt.Fprintln(out, "      --name string           Titration name")
	fmt.Fprintln(out, "      --positions lo:hi       Expected residue positions (inclusive); default: inferred")

	fmt.Fprintln(out, "\nProtocol:")
	fmt.Fprintln(out, "      --titrant NAME:CONC     Titrant name and stock concentration (e.g. ligand:1mM)")
	fmt.Fprintln(out, "      --analyte NAME:CONC     Analyte name and stock concentration (e.g. protein:50uM)")
	fmt.Fprintln(out, "      --start-volume A:T      Initial analyte and total volumes (µL)")
	fmt.Fprintln(out, "      --volumes list          Added titrant volumes per step (µL, comma separated)")
	fmt.Fprintln(out, "      --step-volume S:V       Titrant volume added at step S while loading it (µL, repeatable)")

	fmt.Fprintln(out, "\nAnalysis:")
	fmt.Fprintln(out, "      --cutoff float          Intensity cut-off for filtered residues")
	fmt.Fprintln(out, "      --select args           Select residues: all|complete|incomplete|filtered, N, A:B (repeatable)")

	fmt.Fprintln(out, "\nOutput:")
	fmt.Fprintf(out, "  -r, --report string         summary | status | protocol | residues | filtered | intensities | descriptor [%s]\n", def("report"))
	fmt.Fprintf(out, "      --set string            Residue set for --report residues [%s]\n", def("set"))
	fmt.Fprintf(out, "      --step int              Single step for --report intensities (0=all, -1=last) [%s]\n", def("step"))
	fmt.Fprintf(out, "  -o, --output string         text | tsv | csv | json [%s]\n", def("output"))
	fmt.Fprintln(out, "      --no-header             Suppress header line")
	fmt.Fprintln(out, "      --dump-protocol file    Write the protocol descriptor (.yml or .json)")
	fmt.Fprintf(out, "      --no-filtered-exit-code int  Exit code when a cut-off is set and no residue passes [%s]\n", def("no-filtered-exit-code"))

	fmt.Fprintln(out, "\nMiscellaneous:")
	fmt.Fprintln(out, "  -q, --quiet                 Warnings and errors only on stderr")
	fmt.Fprintln(out, "      --log-json              JSON diagnostics on stderr")
	fmt.Fprintln(out, "      --examples              Print usage examples and exit")
	fmt.Fprintln(out, "  -v, --version               Print version and exit")
	fmt.Fprintln(out, "  -h, --help                  Show this help and exit")
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help, noHeader bool
	var cutoff, volumes string

	fs.StringVar(&o.ProtocolFile, "protocol", "", "protocol descriptor (.yml/.json)")
	fs.StringVar(&o.Name, "name", "", "titration name")
	fs.StringVar(&o.Positions, "positions", "", "expected residue positions lo:hi")

	fs.StringVar(&o.Titrant, "titrant", "", "titrant NAME:CONC")
	fs.StringVar(&o.Analyte, "analyte", "", "analyte NAME:CONC")
	fs.StringVar(&o.StartVolume, "start-volume", "", "initial analyte:total volumes (µL)")
	fs.StringVar(&volumes, "volumes", "", "added volumes per step (µL)")
	fs.Var(&stepVolumeValue{dst: &o.StepVolumes}, "step-volume", "volume added at a step STEP:VOL (repeatable)")

	fs.StringVar(&cutoff, "cutoff", "", "intensity cut-off")
	fs.Var(&sliceValue{dst: &o.Select}, "select", "residue selection (repeatable)")

	fs.StringVar(&o.Report, "report", ReportSummary, "report kind")
	fs.StringVar(&o.Report, "r", ReportSummary, "alias of --report")
	fs.StringVar(&o.Set, "set", "all", "residue set for --report residues")
	fs.IntVar(&o.Step, "step", 0, "single step for --report intensities")
	fs.StringVar(&o.Output, "output", FormatText, "output format")
	fs.StringVar(&o.Output, "o", FormatText, "alias of --output")
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line")
	fs.StringVar(&o.DumpProtocol, "dump-protocol", "", "write protocol descriptor")
	fs.IntVar(&o.NoFilteredExitCode, "no-filtered-exit-code", 0, "exit code when nothing passes the cut-off")

	fs.BoolVar(&o.Quiet, "quiet", false, "warnings and errors only")
	fs.BoolVar(&o.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&o.LogJSON, "log-json", false, "JSON diagnostics")
	fs.BoolVar(&o.Version, "v", false, "print version and exit")
	fs.BoolVar(&o.Version, "version", false, "print version and exit")
	fs.BoolVar(&o.Examples, "examples", false, "print usage examples and exit")
	fs.BoolVar(&help, "h", false, "show this help message")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return o, err
	}
	if help {
		return o, flag.ErrHelp
	}
	if o.Examples {
		return o, ErrExamples
	}
	if o.Version {
		return o, nil
	}
	o.Header = !noHeader
	o.Sources = append(posArgs, fs.Args()...)

	// Validation
	if cutoff != "" {
		c, err := strconv.ParseFloat(cutoff, 64)
		if err != nil || math.IsNaN(c) || math.IsInf(c, 0) {
			return o, fmt.Errorf("invalid --cutoff %q", cutoff)
		}
		o.Cutoff, o.HasCutoff = c, true
	}
	if volumes != "" {
		vs, err := ParseVolumes(volumes)
		if err != nil {
			return o, err
		}
		o.Volumes = vs
	}
	if o.Positions != "" {
		if _, _, err := ParseRange(o.Positions); err != nil {
			return o, err
		}
	}
	switch o.Report {
	case ReportSummary, ReportStatus, ReportProtocol, ReportResidues, ReportFiltered, ReportIntensities, ReportDescriptor:
	default:
		return o, fmt.Errorf("invalid --report %q", o.Report)
	}
	switch o.Output {
	case FormatText, FormatTSV, FormatCSV, FormatJSON:
	default:
		return o, fmt.Errorf("invalid --output %q", o.Output)
	}
	needsData := o.Report != ReportProtocol && o.Report != ReportDescriptor && o.Report != ReportStatus
	if needsData && len(o.Sources) == 0 {
		return o, errors.New("at least one data directory or .list file is required")
	}
	return o, nil
}
