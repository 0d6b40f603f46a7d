// internal/source/source.go
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"shift2me-core/listfile"
	"shift2me-core/titration"
)

// Input is the expanded list of step files and the data directories they
// came from (searched for a protocol descriptor).
type Input struct {
	Files []string
	Dirs  []string
}

func hasGlobMeta(s string) bool { return strings.ContainsAny(s, "*?[") }

// Collect expands directories (to their *.list files) and globs, and checks
// that plain paths are files. Paths are made absolute and de-duplicated.
func Collect(args []string) (Input, error) {
	var in Input
	seen := map[string]bool{}
	add := func(p string) error {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if !seen[abs] {
			seen[abs] = true
			in.Files = append(in.Files, abs)
		}
		return nil
	}
	for _, a := range args {
		if a == "-" {
			return in, errors.New("step files cannot be read from stdin: their name carries the step number")
		}
		var matches []string
		if hasGlobMeta(a) {
			m, err := filepath.Glob(a)
			if err != nil {
				return in, fmt.Errorf("bad glob %q: %v", a, err)
			}
			if len(m) == 0 {
				return in, fmt.Errorf("no input matched %q", a)
			}
			matches = m
		} else {
			matches = []string{a}
		}
		for _, p := range matches {
			st, err := os.Stat(p)
			if err != nil {
				return in, err
			}
			if !st.IsDir() {
				if err := add(p); err != nil {
					return in, err
				}
				continue
			}
			lists, err := filepath.Glob(filepath.Join(p, "*.list"))
			if err != nil {
				return in, err
			}
			if len(lists) == 0 {
				return in, fmt.Errorf("directory %s does not contain any .list titration file", p)
			}
			if abs, err := filepath.Abs(p); err == nil {
				in.Dirs = append(in.Dirs, abs)
			}
			for _, l := range lists {
				if err := add(l); err != nil {
					return in, err
				}
			}
		}
	}
	return in, nil
}

// Update ingests files into ds in step order, skipping files ds already
// holds. Every name is validated before anything is loaded; after that the
// first failing step stops the batch (earlier steps stay loaded).
// It returns the files loaded by this call.
func Update(ds *titration.Dataset, files []string) ([]string, error) {
	return UpdateVolumes(ds, files, nil)
}

// UpdateVolumes is Update that also records, for each step present in
// volumes, the titrant volume (µL) added at that step in the protocol.
func UpdateVolumes(ds *titration.Dataset, files []string, volumes map[int]float64) ([]string, error) {
	type stepFile struct {
		path string
		step int
	}
	var todo []stepFile
	for _, f := range files {
		if ds.HasFile(f) {
			continue
		}
		step, err := listfile.StepFromPath(f)
		if err != nil {
			return nil, err
		}
		todo = append(todo, stepFile{f, step})
	}
	sort.SliceStable(todo, func(i, j int) bool { return todo[i].step < todo[j].step })

	var loaded []string
	for _, sf := range todo {
		if err := ingestFile(ds, sf.path, volumes, sf.step); err != nil {
			return loaded, err
		}
		loaded = append(loaded, sf.path)
	}
	return loaded, nil
}

func ingestFile(ds *titration.Dataset, path string, volumes map[int]float64, step int) error {
	rc, err := listfile.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	if v, ok := volumes[step]; ok {
		return ds.IngestStepVolume(path, rc, v)
	}
	return ds.IngestStep(path, rc)
}
