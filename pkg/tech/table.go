// Package tech loads technology tables: the per-layer track pitch, wire
// widths, and minimum separations consumed by the coordinate resolver.
//
// Tables are TOML files of the form:
//
//	[layer.4]
//	pitch = 48
//	default_width = 32
//	default_space = 48
//
//	[layer.4.width]
//	clk = 64
//
//	[layer.4.space]
//	"sig:clk" = 64
//
// Widths are keyed by wire type; separations by an unordered type pair
// written "a:b" (looked up symmetrically). Missing entries fall back to
// the layer defaults, so a table only needs to spell out the
// exceptions. All values are in the technology's base unit.
package tech

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/chipgrid/trackplan/pkg/errors"
)

// Table is a width/spacing provider backed by static per-layer rules.
// It implements place.Provider. Lookups are deterministic pure
// functions of their key, as the placement engine requires.
type Table struct {
	layers map[int]layerRules
}

type layerRules struct {
	Pitch        int64            `toml:"pitch"`
	DefaultWidth int64            `toml:"default_width"`
	DefaultSpace int64            `toml:"default_space"`
	Width        map[string]int64 `toml:"width"`
	Space        map[string]int64 `toml:"space"`
}

type tableFile struct {
	Layer map[string]layerRules `toml:"layer"`
}

// Load reads and validates a technology table from a TOML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open tech table %s", path)
	}
	return Decode(data)
}

// Decode parses and validates a technology table from TOML bytes.
func Decode(data []byte) (*Table, error) {
	var f tableFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTech, err, "decode tech table")
	}
	if len(f.Layer) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidTech, "tech table defines no layers")
	}

	t := &Table{layers: make(map[int]layerRules, len(f.Layer))}
	for key, rules := range f.Layer {
		layer, err := strconv.Atoi(key)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidTech, "layer key %q is not an integer", key)
		}
		if err := validateRules(layer, rules); err != nil {
			return nil, err
		}
		t.layers[layer] = rules
	}
	return t, nil
}

func validateRules(layer int, r layerRules) error {
	if r.Pitch <= 0 {
		return errors.New(errors.ErrCodeInvalidTech, "layer %d: pitch must be positive, got %d", layer, r.Pitch)
	}
	if r.DefaultWidth < 0 || r.DefaultSpace < 0 {
		return errors.New(errors.ErrCodeInvalidTech, "layer %d: defaults must be non-negative", layer)
	}
	for wtype, w := range r.Width {
		if w < 0 {
			return errors.New(errors.ErrCodeInvalidTech, "layer %d: width of %q must be non-negative", layer, wtype)
		}
	}
	for pair, s := range r.Space {
		if !strings.Contains(pair, ":") {
			return errors.New(errors.ErrCodeInvalidTech,
				"layer %d: separation key %q must be a \"a:b\" type pair", layer, pair)
		}
		if s < 0 {
			return errors.New(errors.ErrCodeInvalidTech, "layer %d: separation %q must be non-negative", layer, pair)
		}
	}
	return nil
}

// Uniform returns a table where every layer shares one pitch, one wire
// width, and one separation. Handy for tests and for CLI runs without a
// technology file.
func Uniform(pitch, width, space int64) *Table {
	return &Table{layers: map[int]layerRules{
		-1: {Pitch: pitch, DefaultWidth: width, DefaultSpace: space},
	}}
}

func (t *Table) rules(layer int) (layerRules, bool) {
	if r, ok := t.layers[layer]; ok {
		return r, true
	}
	r, ok := t.layers[-1] // uniform fallback
	return r, ok
}

// Pitch returns the track pitch of the layer, or 0 for unknown layers.
func (t *Table) Pitch(layer int) int64 {
	r, ok := t.rules(layer)
	if !ok {
		return 0
	}
	return r.Pitch
}

// Width returns the drawn width of a wire type on the layer, falling
// back to the layer default for unlisted types.
func (t *Table) Width(layer int, wireType string) int64 {
	r, ok := t.rules(layer)
	if !ok {
		return 0
	}
	if w, ok := r.Width[wireType]; ok {
		return w
	}
	return r.DefaultWidth
}

// Separation returns the minimum separation between two wire types on
// the layer. The pair key is looked up symmetrically ("a:b" matches
// both orders); unlisted pairs fall back to the layer default.
func (t *Table) Separation(layer int, typeA, typeB string) int64 {
	r, ok := t.rules(layer)
	if !ok {
		return 0
	}
	if s, ok := r.Space[typeA+":"+typeB]; ok {
		return s
	}
	if s, ok := r.Space[typeB+":"+typeA]; ok {
		return s
	}
	return r.DefaultSpace
}

// Layers returns the layer IDs defined by the table, unordered. The
// uniform fallback layer is not included.
func (t *Table) Layers() []int {
	out := make([]int, 0, len(t.layers))
	for layer := range t.layers {
		if layer >= 0 {
			out = append(out, layer)
		}
	}
	return out
}
