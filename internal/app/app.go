// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"shift2me-core/protocol"
	"shift2me-core/titration"

	"shift2me/internal/cli"
	"shift2me/internal/cmdutil"
	"shift2me/internal/output"
	"shift2me/internal/source"
	"shift2me/internal/version"
	"shift2me/internal/writers"
)

// flush finishes the buffered stdout; a reader that went away early is not
// an error, anything else is a write failure (exit 3).
func flush(outw *bufio.Writer, stderr io.Writer, code int) int {
	if err := outw.Flush(); writers.IsBrokenPipe(err) {
		return code
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	return code
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("shift2me")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		_, _ = cli.ParseArgs(fs, []string{"-h"})
		fs.SetOutput(outw)
		fs.Usage()
		return flush(outw, stderr, 0)
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		fs.SetOutput(outw)
		if errors.Is(err, flag.ErrHelp) {
			fs.Usage()
			return flush(outw, stderr, 0)
		}
		if errors.Is(err, cli.ErrExamples) {
			cli.PrintExamples(outw, "shift2me")
			return flush(outw, stderr, 0)
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.Usage()
		return flush(outw, stderr, 2)
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "shift2me version %s\n", version.Version)
		return flush(outw, stderr, 0)
	}

	log := cmdutil.NewLogger(stderr, opts.Quiet, opts.LogJSON)

	ds, err := load(parent, opts, log)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		if errors.Is(err, context.Canceled) {
			return 130
		}
		return 2
	}

	if opts.DumpProtocol != "" {
		if err := ds.Protocol().WriteFile(opts.DumpProtocol); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
		log.Info("protocol written", "file", opts.DumpProtocol)
	}

	payload, err := reportPayload(ds, opts)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	if err := writers.Write(opts.Report, opts.Output, outw, payload, opts.Header); err != nil {
		if writers.IsBrokenPipe(err) {
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}

	code := 0
	if _, ok := ds.Cutoff(); ok && opts.NoFilteredExitCode != 0 && len(ds.Filtered()) == 0 {
		code = opts.NoFilteredExitCode
	}
	return flush(outw, stderr, code)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// load builds the protocol and the dataset and ingests every step file.
func load(ctx context.Context, opts cli.Options, log *slog.Logger) (*titration.Dataset, error) {
	var in source.Input
	if len(opts.Sources) > 0 {
		var err error
		if in, err = source.Collect(opts.Sources); err != nil {
			return nil, err
		}
	}

	proto, err := loadProtocol(opts, in.Dirs, log)
	if err != nil {
		return nil, err
	}

	cfg := titration.Config{Name: opts.Name, Protocol: proto, Logger: log}
	if cfg.Name == "" {
		cfg.Name = proto.Name()
	}
	if opts.HasCutoff {
		c := opts.Cutoff
		cfg.Cutoff = &c
	}
	if opts.Positions != "" {
		lo, hi, err := cli.ParseRange(opts.Positions)
		if err != nil {
			return nil, err
		}
		cfg.Positions = &titration.Range{Lo: lo, Hi: hi}
	}
	ds := titration.New(cfg)

	if len(in.Files) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		loaded, err := source.UpdateVolumes(ds, in.Files, opts.StepVolumes)
		if err != nil {
			return nil, err
		}
		log.Info("titration loaded", "name", ds.Name(), "steps", ds.StepsLoaded(), "files", len(loaded))
	}

	if len(opts.Select) > 0 {
		positions, err := ds.ParseSelection(opts.Select)
		if err != nil {
			return nil, err
		}
		ds.Select(positions...)
	}
	return ds, nil
}

// loadProtocol reads the descriptor (--protocol, else the one found in the
// data directories) and applies the command-line overrides on top.
func loadProtocol(opts cli.Options, dirs []string, log *slog.Logger) (*protocol.Protocol, error) {
	proto := protocol.New()
	path := opts.ProtocolFile
	if path == "" {
		for _, dir := range dirs {
			p, found, err := protocol.FindDescriptor(dir)
			if err != nil {
				return nil, err
			}
			if found == 0 {
				continue
			}
			if found > 1 {
				cmdutil.Warnf(log, "%d protocol descriptors in %s, using the most recent: %s", found, dir, p)
			}
			path = p
			break
		}
	}
	if path != "" {
		if err := proto.LoadFile(path); err != nil {
			return nil, err
		}
		log.Info("protocol loaded", "file", path)
	}

	if opts.Name != "" {
		proto.SetName(opts.Name)
	}
	if opts.Titrant != "" {
		name, conc, err := cli.ParseMolecule(opts.Titrant)
		if err != nil {
			return nil, fmt.Errorf("--titrant: %w", err)
		}
		if err := proto.SetTitrant(name, conc); err != nil {
			return nil, err
		}
	}
	if opts.Analyte != "" {
		name, conc, err := cli.ParseMolecule(opts.Analyte)
		if err != nil {
			return nil, fmt.Errorf("--analyte: %w", err)
		}
		if err := proto.SetAnalyte(name, conc); err != nil {
			return nil, err
		}
	}
	if opts.StartVolume != "" {
		a, t, err := cli.ParsePair(opts.StartVolume)
		if err != nil {
			return nil, fmt.Errorf("--start-volume: %w", err)
		}
		if err := proto.SetStartVolumes(a, t); err != nil {
			return nil, err
		}
	}
	if len(opts.Volumes) > 0 {
		if err := proto.SetVolumes(opts.Volumes); err != nil {
			return nil, err
		}
	}
	return proto, nil
}

func reportPayload(ds *titration.Dataset, opts cli.Options) (any, error) {
	switch opts.Report {
	case output.ReportProtocol, output.ReportStatus:
		rows, err := ds.ProtocolTable()
		if err != nil {
			return nil, fmt.Errorf("%w: load a descriptor (--protocol) or set --titrant, --analyte and --start-volume", err)
		}
		return writers.ProtocolReport{Protocol: ds.Protocol(), Rows: rows}, nil
	case output.ReportDescriptor:
		return ds.Protocol(), nil
	case output.ReportResidues:
		return output.ResidueSet(ds, opts.Set)
	case output.ReportFiltered:
		if _, ok := ds.Cutoff(); !ok {
			return nil, titration.ErrNoCutoff
		}
		return output.ResidueSet(ds, titration.SetFiltered)
	case output.ReportIntensities:
		return output.Intensities(ds, opts.Step)
	case output.ReportSummary:
		return writers.SummaryPayload{Text: ds.Summary().String(), API: output.Summary(ds)}, nil
	}
	return nil, fmt.Errorf("unknown report %q", opts.Report)
}
