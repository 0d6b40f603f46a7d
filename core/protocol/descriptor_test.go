package protocol

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

const sampleYAML = `name: hPin1 WW
titrant:
    name: peptide
    concentration: 100
analyte:
    name: WW
    concentration: 50
start_volume:
    analyte: 450
    total: 500
add_volumes: [5, 10, 10]
`

func TestDecodeYAMLAndLoad(t *testing.T) {
	d, err := DecodeDescriptor(strings.NewReader(sampleYAML), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	p := New()
	if err := p.LoadDescriptor(d); err != nil {
		t.Fatal(err)
	}
	if !p.IsInitialized() || p.Name() != "hPin1 WW" || p.Titrant().Name != "peptide" {
		t.Fatalf("bad load: %+v", p.Descriptor())
	}
	if got := p.Volumes(); !reflect.DeepEqual(got, []float64{0, 5, 10, 10}) {
		t.Fatalf("volumes=%v", got)
	}
}

func TestDescriptorRoundTrip(t *testing.T) {
	d, _ := DecodeDescriptor(strings.NewReader(sampleYAML), FormatYAML)
	p := New()
	if err := p.LoadDescriptor(d); err != nil {
		t.Fatal(err)
	}
	for _, f := range []Format{FormatYAML, FormatJSON} {
		var buf bytes.Buffer
		if err := EncodeDescriptor(&buf, p.Descriptor(), f); err != nil {
			t.Fatal(err)
		}
		d2, err := DecodeDescriptor(&buf, f)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		q := New()
		if err := q.LoadDescriptor(d2); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if !reflect.DeepEqual(p, q) {
			t.Fatalf("%s round trip mismatch:\n%+v\n%+v", f, p.Descriptor(), q.Descriptor())
		}
	}
}

func TestDescriptorKeyOrder(t *testing.T) {
	p := New()
	var buf bytes.Buffer
	if err := EncodeDescriptor(&buf, p.Descriptor(), FormatYAML); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	last := -1
	for _, k := range []string{"name:", "titrant:", "analyte:", "start_volume:", "add_volumes:"} {
		i := strings.Index(out, "\n"+k)
		if k == "name:" {
			i = strings.Index(out, k)
		}
		if i <= last {
			t.Fatalf("key %s out of order in:\n%s", k, out)
		}
		last = i
	}
}

func TestLoadDescriptorIsAtomic(t *testing.T) {
	p := New()
	_ = p.SetVolumes([]float64{0, 3})
	before := p.Descriptor()

	bad := `name: broken
titrant: {name: t, concentration: 100}
analyte: {name: a, concentration: -5}
start_volume: {analyte: 600, total: 500}
add_volumes: [1, 2]
`
	d, err := DecodeDescriptor(strings.NewReader(bad), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	err = p.LoadDescriptor(d)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if len(ve.Problems) != 2 {
		t.Fatalf("want 2 problems, got %v", ve.Problems)
	}
	if !reflect.DeepEqual(before, p.Descriptor()) {
		t.Fatalf("state changed after failed load")
	}
}

func TestMissingFields(t *testing.T) {
	d, err := DecodeDescriptor(strings.NewReader(`{"name": "x", "titrant": {"concentration": 10}}`), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	err = New().LoadDescriptor(d)
	for _, want := range []string{"missing analyte.concentration", "missing start_volume.analyte", "missing start_volume.total"} {
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("want %q in %v", want, err)
		}
	}
}

func TestNonNumericValue(t *testing.T) {
	_, err := DecodeDescriptor(strings.NewReader(`{"titrant": {"concentration": "lots"}}`), FormatJSON)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	for p, want := range map[string]Format{"a.yml": FormatYAML, "a.YAML": FormatYAML, "b.json": FormatJSON} {
		if got, err := FormatFromPath(p); err != nil || got != want {
			t.Fatalf("%s: %v %v", p, got, err)
		}
	}
	if _, err := FormatFromPath("c.txt"); err == nil {
		t.Fatalf("expected error for .txt")
	}
}

func TestFileRoundTripAndFind(t *testing.T) {
	dir := t.TempDir()
	d, _ := DecodeDescriptor(strings.NewReader(sampleYAML), FormatYAML)
	p := New()
	_ = p.LoadDescriptor(d)

	older := filepath.Join(dir, "old.yml")
	newer := filepath.Join(dir, "new.yml")
	if err := p.WriteFile(older); err != nil {
		t.Fatal(err)
	}
	if err := p.WriteFile(newer); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	_ = os.Chtimes(older, past, past)

	got, n, err := FindDescriptor(dir)
	if err != nil || got != newer || n != 2 {
		t.Fatalf("FindDescriptor=%q n=%d err=%v", got, n, err)
	}

	q := New()
	if err := q.LoadFile(got); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(p.Descriptor(), q.Descriptor()) {
		t.Fatalf("file round trip mismatch")
	}

	empty := t.TempDir()
	if got, n, err := FindDescriptor(empty); got != "" || n != 0 || err != nil {
		t.Fatalf("empty dir: %q %d %v", got, n, err)
	}
}
