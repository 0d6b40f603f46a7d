// core/protocol/descriptor.go
package protocol

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Descriptor is the structured (YAML/JSON) form of a protocol. Field order
// is the on-disk key order. Required numbers are pointers so a missing key
// can be told apart from an explicit zero.
type Descriptor struct {
	Name        string       `yaml:"name" json:"name"`
	Titrant     MoleculeSpec `yaml:"titrant" json:"titrant"`
	Analyte     MoleculeSpec `yaml:"analyte" json:"analyte"`
	StartVolume VolumeSpec   `yaml:"start_volume" json:"start_volume"`
	AddVolumes  []float64    `yaml:"add_volumes" json:"add_volumes"`
}

type MoleculeSpec struct {
	Name          string   `yaml:"name" json:"name"`
	Concentration *float64 `yaml:"concentration" json:"concentration"`
}

type VolumeSpec struct {
	Analyte *float64 `yaml:"analyte" json:"analyte"`
	Total   *float64 `yaml:"total" json:"total"`
}

// Format of a descriptor file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath maps .yml/.yaml/.json extensions to a Format.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("invalid protocol file extension for %s: accepted are .yml or .json", path)
}

// Validate checks required fields, positivity and analyte < total.
func (d Descriptor) Validate() error {
	ve := &ValidationError{}
	for _, m := range []struct {
		role string
		spec MoleculeSpec
	}{{"titrant", d.Titrant}, {"analyte", d.Analyte}} {
		switch {
		case m.spec.Concentration == nil:
			ve.add("missing %s.concentration", m.role)
		case *m.spec.Concentration <= 0:
			ve.add("invalid concentration (%g) for %s", *m.spec.Concentration, m.role)
		}
	}
	for _, v := range []struct {
		key string
		val *float64
	}{{"analyte", d.StartVolume.Analyte}, {"total", d.StartVolume.Total}} {
		switch {
		case v.val == nil:
			ve.add("missing start_volume.%s", v.key)
		case *v.val <= 0:
			ve.add("invalid volume (%g) for start_volume.%s", *v.val, v.key)
		}
	}
	if a, t := d.StartVolume.Analyte, d.StartVolume.Total; a != nil && t != nil && *a >= *t {
		ve.add("initial analyte volume (%g) must be lower than total volume (%g)", *a, *t)
	}
	for i, v := range d.AddVolumes {
		if v < 0 {
			ve.add("invalid added volume (%g) at index %d", v, i)
		}
	}
	return ve.orNil()
}

// LoadDescriptor validates d and, only if valid, replaces the protocol
// state with it. A missing add_volumes keeps the current volumes.
func (p *Protocol) LoadDescriptor(d Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	next := *p
	next.name = DefaultName
	next.SetName(d.Name)
	next.titrant = Molecule{Name: orDefault(d.Titrant.Name, DefaultTitrant), Concentration: *d.Titrant.Concentration}
	next.analyte = Molecule{Name: orDefault(d.Analyte.Name, DefaultAnalyte), Concentration: *d.Analyte.Concentration}
	next.startAnalyte = *d.StartVolume.Analyte
	next.startTotal = *d.StartVolume.Total
	if d.AddVolumes != nil {
		next.volumes = normalizeVolumes(d.AddVolumes)
	} else {
		next.volumes = append([]float64(nil), p.volumes...)
	}
	next.update()
	*p = next
	return nil
}

// Descriptor returns the current state in descriptor form.
func (p *Protocol) Descriptor() Descriptor {
	f := func(v float64) *float64 { return &v }
	return Descriptor{
		Name:        p.name,
		Titrant:     MoleculeSpec{Name: p.titrant.Name, Concentration: f(p.titrant.Concentration)},
		Analyte:     MoleculeSpec{Name: p.analyte.Name, Concentration: f(p.analyte.Concentration)},
		StartVolume: VolumeSpec{Analyte: f(p.startAnalyte), Total: f(p.startTotal)},
		AddVolumes:  p.Volumes(),
	}
}

// DecodeDescriptor reads a descriptor. Unknown keys are ignored; malformed
// values are reported as a *ValidationError.
func DecodeDescriptor(r io.Reader, format Format) (Descriptor, error) {
	var d Descriptor
	var err error
	switch format {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&d)
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&d)
	default:
		return d, fmt.Errorf("unknown descriptor format %q", format)
	}
	if err == io.EOF {
		return d, &ValidationError{Problems: []string{"empty protocol descriptor"}}
	}
	if err != nil {
		return d, &ValidationError{Problems: []string{fmt.Sprintf("could not decode %s descriptor: %v", format, err)}}
	}
	return d, nil
}

// EncodeDescriptor writes d in the given format.
func EncodeDescriptor(w io.Writer, d Descriptor, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(4)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}
	return fmt.Errorf("unknown descriptor format %q", format)
}

// LoadFile decodes the descriptor at path (format by extension) and loads it.
func (p *Protocol) LoadFile(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	fh, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = fh.Close() }()
	d, err := DecodeDescriptor(fh, format)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := p.LoadDescriptor(d); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// WriteFile dumps the protocol descriptor to path (format by extension).
func (p *Protocol) WriteFile(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeDescriptor(fh, p.Descriptor(), format); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}

// FindDescriptor returns the descriptor file of a data directory: a .yml or
// .yaml file, else a .json file. With several candidates the most recently
// modified wins; found reports how many candidates there were.
func FindDescriptor(dir string) (path string, found int, err error) {
	var list []string
	for _, pat := range []string{"*.yml", "*.yaml"} {
		m, err := filepath.Glob(filepath.Join(dir, pat))
		if err != nil {
			return "", 0, err
		}
		list = append(list, m...)
	}
	if len(list) == 0 {
		m, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			return "", 0, err
		}
		list = m
	}
	if len(list) == 0 {
		return "", 0, nil
	}
	type cand struct {
		path string
		mod  int64
	}
	cs := make([]cand, 0, len(list))
	for _, p := range list {
		st, err := os.Stat(p)
		if err != nil {
			return "", 0, err
		}
		cs = append(cs, cand{p, st.ModTime().UnixNano()})
	}
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].mod != cs[j].mod {
			return cs[i].mod > cs[j].mod
		}
		return cs[i].path < cs[j].path
	})
	return cs[0].path, len(cs), nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
