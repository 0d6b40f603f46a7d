// internal/writers/protocol.go
package writers

import (
	"fmt"
	"io"
	"strconv"

	"shift2me-core/protocol"

	"shift2me/internal/output"
	"shift2me/pkg/api"
)

// ProtocolReport is a protocol together with the table rows to print,
// usually restricted to the loaded steps (titration.Dataset.ProtocolTable).
// A bare *protocol.Protocol payload prints its full table.
type ProtocolReport struct {
	Protocol *protocol.Protocol
	Rows     []protocol.Row
}

func protocolReport(report string, payload any) (ProtocolReport, error) {
	switch v := payload.(type) {
	case ProtocolReport:
		return v, nil
	case *protocol.Protocol:
		r := ProtocolReport{Protocol: v}
		if v.IsInitialized() {
			r.Rows, _ = v.Table()
		}
		return r, nil
	}
	return ProtocolReport{}, badPayload(report, payload)
}

func (r ProtocolReport) table() (api.ProtocolTableV1, error) {
	if !r.Protocol.IsInitialized() {
		return api.ProtocolTableV1{}, fmt.Errorf("%w: please load a protocol file (--protocol) or set --titrant, --analyte and --start-volume", protocol.ErrIncomplete)
	}
	return output.ProtocolTable(r.Protocol, r.Rows), nil
}

func init() {
	for _, f := range []string{output.FormatText, output.FormatTSV, output.FormatCSV} {
		format := f
		Register(output.ReportProtocol, format, func(w io.Writer, payload any, header bool) error {
			r, err := protocolReport(output.ReportProtocol, payload)
			if err != nil {
				return err
			}
			return writeProtocolTable(w, format, r, header)
		})
	}
	Register(output.ReportProtocol, output.FormatJSON, func(w io.Writer, payload any, _ bool) error {
		r, err := protocolReport(output.ReportProtocol, payload)
		if err != nil {
			return err
		}
		t, err := r.table()
		if err != nil {
			return err
		}
		return writeJSON(w, t)
	})

	Register(output.ReportStatus, output.FormatText, writeStatusText)
	Register(output.ReportStatus, output.FormatJSON, func(w io.Writer, payload any, _ bool) error {
		r, err := protocolReport(output.ReportStatus, payload)
		if err != nil {
			return err
		}
		st := struct {
			Initialized bool                 `json:"initialized"`
			Protocol    protocol.Descriptor  `json:"protocol"`
			Table       *api.ProtocolTableV1 `json:"table,omitempty"`
		}{Initialized: r.Protocol.IsInitialized(), Protocol: r.Protocol.Descriptor()}
		if t, err := r.table(); err == nil {
			st.Table = &t
		}
		return writeJSON(w, st)
	})

	Register(output.ReportDescriptor, output.FormatText, descriptorWriter(protocol.FormatYAML))
	Register(output.ReportDescriptor, output.FormatJSON, descriptorWriter(protocol.FormatJSON))
}

func writeProtocolTable(w io.Writer, format string, r ProtocolReport, header bool) error {
	t, err := r.table()
	if err != nil {
		return err
	}
	num := output.FormatFloat
	if format == output.FormatText {
		num = output.FormatFloat3
	}
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = []string{
			strconv.Itoa(row.Step),
			num(row.AddedTitrant),
			num(row.TotalTitrant),
			num(row.TotalVolume),
			num(row.TitrantConc),
			num(row.AnalyteConc),
			num(row.Ratio),
		}
	}
	return output.WriteTable(w, format, r.Protocol.Headers(), rows, header)
}

func writeStatusText(w io.Writer, payload any, header bool) error {
	r, err := protocolReport(output.ReportStatus, payload)
	if err != nil {
		return err
	}
	if _, err := r.table(); err != nil {
		return err
	}
	p := r.Protocol
	ti, an := p.Titrant(), p.Analyte()
	av, tv := p.StartVolumes()
	lines := []string{
		"------- Titration --------------------------",
		" >\t" + p.Name(),
		"------- Initial parameters -----------------",
		fmt.Sprintf("[%s] :\t%s µM", ti.Name, output.FormatFloat(ti.Concentration)),
		fmt.Sprintf("[%s] :\t%s µM", an.Name, output.FormatFloat(an.Concentration)),
		fmt.Sprintf("%s volume  :\t%s µL", an.Name, output.FormatFloat(av)),
		fmt.Sprintf("Initial volume :\t%s µL", output.FormatFloat(tv)),
		"",
		"------- Current status ---------------------",
		"",
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return writeProtocolTable(w, output.FormatText, r, header)
}

func descriptorWriter(format protocol.Format) WriteFunc {
	return func(w io.Writer, payload any, _ bool) error {
		p, ok := payload.(*protocol.Protocol)
		if !ok {
			return badPayload(output.ReportDescriptor, payload)
		}
		return protocol.EncodeDescriptor(w, p.Descriptor(), format)
	}
}
