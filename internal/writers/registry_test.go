package writers

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"shift2me-core/protocol"

	"shift2me/internal/output"
	"shift2me/pkg/api"
)

func initialized(t *testing.T) *protocol.Protocol {
	t.Helper()
	p := protocol.New()
	if err := p.SetTitrant("ligand", 1000); err != nil {
		t.Fatal(err)
	}
	if err := p.SetAnalyte("protein", 50); err != nil {
		t.Fatal(err)
	}
	if err := p.SetStartVolumes(450, 500); err != nil {
		t.Fatal(err)
	}
	if err := p.SetVolumes([]float64{10}); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestEveryReportHasEveryFormat(t *testing.T) {
	reports := []string{
		output.ReportSummary, output.ReportProtocol, output.ReportResidues,
		output.ReportFiltered, output.ReportIntensities,
	}
	all := []string{output.FormatCSV, output.FormatJSON, output.FormatTSV, output.FormatText}
	for _, r := range reports {
		if got := Formats(r); !reflect.DeepEqual(got, all) {
			t.Fatalf("%s formats=%v", r, got)
		}
	}
	for _, r := range []string{output.ReportStatus, output.ReportDescriptor} {
		if got := Formats(r); !reflect.DeepEqual(got, []string{output.FormatJSON, output.FormatText}) {
			t.Fatalf("%s formats=%v", r, got)
		}
	}
}

func TestUnknownFormatError(t *testing.T) {
	var b bytes.Buffer
	err := Write(output.ReportStatus, output.FormatCSV, &b, protocol.New(), true)
	if err == nil || !strings.Contains(err.Error(), `unknown status format "csv"`) {
		t.Fatalf("want unknown format error, got %v", err)
	}
}

func TestBadPayload(t *testing.T) {
	var b bytes.Buffer
	err := Write(output.ReportProtocol, output.FormatText, &b, "nope", true)
	if err == nil || !strings.Contains(err.Error(), "unexpected payload string") {
		t.Fatalf("got %v", err)
	}
}

func TestProtocolTSV(t *testing.T) {
	var b bytes.Buffer
	if err := Write(output.ReportProtocol, output.FormatTSV, &b, initialized(t), true); err != nil {
		t.Fatal(err)
	}
	want := "Step\tAdded ligand (µL)\tTotal ligand (µL)\tTotal volume (µL)\t[ligand] (µM)\t[protein] (µM)\t[ligand]/[protein]\n" +
		"0\t0\t0\t500\t0\t45\t0\n"
	if !strings.HasPrefix(b.String(), want) {
		t.Fatalf("got:\n%s", b.String())
	}
	if n := strings.Count(b.String(), "\n"); n != 3 {
		t.Fatalf("lines=%d", n)
	}
}

func TestProtocolNotInitialized(t *testing.T) {
	var b bytes.Buffer
	err := Write(output.ReportStatus, output.FormatText, &b, protocol.New(), true)
	if err == nil || !strings.Contains(err.Error(), protocol.ErrIncomplete.Error()) {
		t.Fatalf("got %v", err)
	}
}

func TestStatusText(t *testing.T) {
	var b bytes.Buffer
	if err := Write(output.ReportStatus, output.FormatText, &b, initialized(t), true); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"[ligand] :\t1000 µM", "protein volume  :\t450 µL", "Initial volume :\t500 µL"} {
		if !strings.Contains(b.String(), want) {
			t.Fatalf("status lacks %q:\n%s", want, b.String())
		}
	}
}

func TestDescriptorText(t *testing.T) {
	var b bytes.Buffer
	if err := Write(output.ReportDescriptor, output.FormatText, &b, initialized(t), true); err != nil {
		t.Fatal(err)
	}
	d, err := protocol.DecodeDescriptor(&b, protocol.FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if d.Titrant.Name != "ligand" || !reflect.DeepEqual(d.AddVolumes, []float64{0, 10}) {
		t.Fatalf("descriptor=%+v", d)
	}
}

func TestResidueWriters(t *testing.T) {
	last := 0.25
	set := api.ResidueSetV1{Set: "complete", Residues: []api.ResidueV1{
		{Position: 3, Label: "N-H", StepsH: 2, StepsN: 2, Complete: true, LastIntensity: &last},
		{Position: 7, StepsH: 1, StepsN: 2},
	}}

	var b bytes.Buffer
	if err := Write(output.ReportResidues, output.FormatText, &b, set, true); err != nil {
		t.Fatal(err)
	}
	if b.String() != "3 7\n" {
		t.Fatalf("text=%q", b.String())
	}

	b.Reset()
	if err := Write(output.ReportResidues, output.FormatCSV, &b, set, false); err != nil {
		t.Fatal(err)
	}
	if b.String() != "3,N-H,2,2,true,false,0.25\n7,,1,2,false,false,\n" {
		t.Fatalf("csv=%q", b.String())
	}

	b.Reset()
	if err := Write(output.ReportFiltered, output.FormatJSON, &b, set, true); err != nil {
		t.Fatal(err)
	}
	var back api.ResidueSetV1
	if err := json.Unmarshal(b.Bytes(), &back); err != nil || len(back.Residues) != 2 || *back.Residues[0].LastIntensity != last {
		t.Fatalf("json=%s err=%v", b.String(), err)
	}
}

func TestIntensitiesTSV(t *testing.T) {
	in := api.IntensitiesV1{Steps: []int{1, 2}, Positions: []int{4, 9}, Values: [][]float64{{0.5, 1}, {0.75, 2}}}
	var b bytes.Buffer
	if err := Write(output.ReportIntensities, output.FormatTSV, &b, in, true); err != nil {
		t.Fatal(err)
	}
	if b.String() != "step\t4\t9\n1\t0.5\t1\n2\t0.75\t2\n" {
		t.Fatalf("tsv=%q", b.String())
	}
}

func TestSummaryCSV(t *testing.T) {
	c := 0.1
	s := SummaryPayload{Text: "unused", API: api.SummaryV1{Name: "x", Steps: 3, Cutoff: &c, Residues: 4, MaxPosition: 2}}
	var b bytes.Buffer
	if err := Write(output.ReportSummary, output.FormatCSV, &b, s, true); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"key,value\n", "name,x\n", "cutoff,0.1\n", "max_position,2\n"} {
		if !strings.Contains(b.String(), want) {
			t.Fatalf("summary csv lacks %q:\n%s", want, b.String())
		}
	}
	b.Reset()
	if err := Write(output.ReportSummary, output.FormatText, &b, s, true); err != nil || b.String() != "unused" {
		t.Fatalf("text=%q err=%v", b.String(), err)
	}
}

func TestProtocolReportPrintsGivenRows(t *testing.T) {
	p := initialized(t)
	rows, _ := p.Table()
	var b bytes.Buffer
	if err := Write(output.ReportProtocol, output.FormatCSV, &b, ProtocolReport{Protocol: p, Rows: rows[:1]}, false); err != nil {
		t.Fatal(err)
	}
	if b.String() != "0,0,0,500,0,45,0\n" {
		t.Fatalf("csv=%q", b.String())
	}
}
