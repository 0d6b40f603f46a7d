package source

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"shift2me-core/listfile"
	"shift2me-core/protocol"
	"shift2me-core/titration"
)

func write(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func newDataset() *titration.Dataset {
	return titration.New(titration.Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
}

func TestCollectDirectoryAndGlob(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "t0.list", "1 120.0 8.0\n")
	b := write(t, dir, "t1.list", "1 120.1 8.1\n")
	write(t, dir, "notes.txt", "")

	in, err := Collect([]string{dir, filepath.Join(dir, "*.list"), a})
	if err != nil {
		t.Fatal(err)
	}
	if len(in.Files) != 2 || len(in.Dirs) != 1 {
		t.Fatalf("collect=%+v", in)
	}
	got := append([]string(nil), in.Files...)
	if !reflect.DeepEqual(got, []string{a, b}) {
		t.Fatalf("files=%v", got)
	}
}

func TestCollectErrors(t *testing.T) {
	empty := t.TempDir()
	if _, err := Collect([]string{empty}); err == nil || !strings.Contains(err.Error(), "does not contain") {
		t.Fatalf("empty dir: %v", err)
	}
	if _, err := Collect([]string{filepath.Join(empty, "*.list")}); err == nil {
		t.Fatalf("unmatched glob should fail")
	}
	if _, err := Collect([]string{filepath.Join(empty, "missing0.list")}); err == nil {
		t.Fatalf("missing file should fail")
	}
	if _, err := Collect([]string{"-"}); err == nil {
		t.Fatalf("stdin should be refused")
	}
}

func TestUpdateSortsAndSkipsKnown(t *testing.T) {
	dir := t.TempDir()
	f2 := write(t, dir, "t2.list", "1 120.2 8.2\n")
	f0 := write(t, dir, "t0.list", "1 120.0 8.0\n")
	f1 := write(t, dir, "t1.list", "1 120.1 8.1\n")

	ds := newDataset()
	loaded, err := Update(ds, []string{f0})
	if err != nil || len(loaded) != 1 {
		t.Fatalf("first update: %v %v", loaded, err)
	}
	loaded, err = Update(ds, []string{f2, f0, f1})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded, []string{f1, f2}) {
		t.Fatalf("loaded=%v", loaded)
	}
	if ds.StepsLoaded() != 3 || !reflect.DeepEqual(ds.Complete(), []int{1}) {
		t.Fatalf("steps=%d complete=%v", ds.StepsLoaded(), ds.Complete())
	}
}

func TestUpdateStopsOnBadStep(t *testing.T) {
	dir := t.TempDir()
	f0 := write(t, dir, "t0.list", "1 120.0 8.0\n")
	f1 := write(t, dir, "t1.list", "1 120.1\n")
	f2 := write(t, dir, "t2.list", "1 120.2 8.2\n")

	ds := newDataset()
	loaded, err := Update(ds, []string{f0, f1, f2})
	var pe *listfile.ParseError
	if !errors.As(err, &pe) || pe.Line != 1 || pe.Source != f1 {
		t.Fatalf("want ParseError on %s, got %v", f1, err)
	}
	if !reflect.DeepEqual(loaded, []string{f0}) || ds.StepsLoaded() != 1 {
		t.Fatalf("loaded=%v steps=%d", loaded, ds.StepsLoaded())
	}
}

func TestUpdateRejectsBadNamesUpFront(t *testing.T) {
	dir := t.TempDir()
	f0 := write(t, dir, "t0.list", "1 120.0 8.0\n")
	bad := write(t, dir, "readme.list", "")
	ds := newDataset()
	_, err := Update(ds, []string{f0, bad})
	var ipe *listfile.InvalidPathError
	if !errors.As(err, &ipe) {
		t.Fatalf("want InvalidPathError, got %v", err)
	}
	if ds.StepsLoaded() != 0 {
		t.Fatalf("nothing should be loaded when a name is invalid")
	}
}

func TestUpdateGapInSteps(t *testing.T) {
	dir := t.TempDir()
	f0 := write(t, dir, "t0.list", "1 120.0 8.0\n")
	f2 := write(t, dir, "t2.list", "1 120.2 8.2\n")
	ds := newDataset()
	_, err := Update(ds, []string{f0, f2})
	var ipe *listfile.InvalidPathError
	if !errors.As(err, &ipe) || ipe.Expected != 1 || ipe.Found != 2 {
		t.Fatalf("want step mismatch, got %v", err)
	}
}

func TestUpdateVolumesRecordsProtocolVolumes(t *testing.T) {
	dir := t.TempDir()
	f0 := write(t, dir, "t0.list", "1 120.0 8.0\n")
	f1 := write(t, dir, "t1.list", "1 120.1 8.1\n")
	f2 := write(t, dir, "t2.list", "1 120.2 8.2\n")
	ds := newDataset()
	if _, err := UpdateVolumes(ds, []string{f0, f1, f2}, map[int]float64{1: 5, 2: 10}); err != nil {
		t.Fatal(err)
	}
	if got := ds.Protocol().Volumes(); !reflect.DeepEqual(got, []float64{0, 5, 10}) {
		t.Fatalf("volumes=%v", got)
	}

	ds = newDataset()
	loaded, err := UpdateVolumes(ds, []string{f0, f1}, map[int]float64{0: 5})
	var ve *protocol.ValidationError
	if !errors.As(err, &ve) || len(loaded) != 0 || ds.StepsLoaded() != 0 {
		t.Fatalf("reference step volume: loaded=%v err=%v", loaded, err)
	}
}
