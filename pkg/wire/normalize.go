package wire

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chipgrid/trackplan/pkg/errors"
)

// The wire specification grammar, reproduced from the layout generator
// input format:
//
//	WireSpec      = WireGraphSpec | {data: WireGraphSpec, align, shared: [name]}
//	WireGraphSpec = WireGroupSpec | [WireGroupSpec]
//	WireGroupSpec = WireList | {wires: WireList, align}
//	WireList      = [WireToken]
//	WireToken     = name | [name, placement_type] | [name, placement_type, wire_type]
//
// Normalize resolves this union into a flat list of groups with every
// alignment made concrete. Alignment resolution order is: explicit group
// value, then the top-level wrapper value, then defaultAlign.
//
// The shape sniffing lives here and only here; the rest of the engine
// works on the canonical Data form.
func Normalize(data any, defaultAlign Alignment, defaultPlaceType string) (Data, error) {
	if !defaultAlign.Valid() {
		return Data{}, errors.New(errors.ErrCodeInvalidSpec,
			"default alignment %q is not a concrete policy", string(defaultAlign))
	}
	if data == nil {
		return Data{}, nil
	}

	var shared []string
	// A top-level mapping is either the {data, align, shared} wrapper
	// or a single {wires, align} group.
	if m, ok := asMap(data); ok {
		if _, isGroup := m["wires"]; !isGroup {
			inner, exists := m["data"]
			if !exists {
				return Data{}, errors.New(errors.ErrCodeInvalidSpec,
					"top-level mapping must have a \"data\" or \"wires\" key")
			}
			if err := checkKeys(m, "data", "align", "shared"); err != nil {
				return Data{}, err
			}
			align, err := alignField(m, defaultAlign)
			if err != nil {
				return Data{}, err
			}
			defaultAlign = align
			if shared, err = stringListField(m, "shared"); err != nil {
				return Data{}, err
			}
			data = inner
		}
	}

	groups, err := normalizeGraph(data, defaultAlign, defaultPlaceType)
	if err != nil {
		return Data{}, err
	}
	return Data{Groups: groups, Shared: shared}, nil
}

// normalizeGraph handles the WireGraphSpec level: a single group, or a
// list of groups.
func normalizeGraph(data any, defaultAlign Alignment, defaultPlaceType string) ([]Group, error) {
	if m, ok := asMap(data); ok {
		g, err := normalizeGroup(m, defaultAlign, defaultPlaceType)
		if err != nil {
			return nil, err
		}
		return []Group{g}, nil
	}

	list, ok := data.([]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidSpec,
			"wire graph must be a group or a list of groups, got %T", data)
	}
	if len(list) == 0 {
		return nil, nil
	}

	// A list whose first element is itself a wire token is a single
	// WireList, not a list of groups.
	if isToken(list[0]) {
		tokens, err := normalizeList(list, defaultPlaceType)
		if err != nil {
			return nil, err
		}
		return []Group{{Tokens: tokens, Align: defaultAlign}}, nil
	}

	groups := make([]Group, 0, len(list))
	for i, elem := range list {
		var (
			g   Group
			err error
		)
		if m, ok := asMap(elem); ok {
			g, err = normalizeGroup(m, defaultAlign, defaultPlaceType)
		} else if sub, ok := elem.([]any); ok {
			var tokens []Token
			tokens, err = normalizeList(sub, defaultPlaceType)
			g = Group{Tokens: tokens, Align: defaultAlign}
		} else {
			err = errors.New(errors.ErrCodeInvalidSpec,
				"group %d: must be a wire list or a mapping with \"wires\", got %T", i, elem)
		}
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// normalizeGroup handles the {wires: WireList, align} mapping form.
func normalizeGroup(m map[string]any, defaultAlign Alignment, defaultPlaceType string) (Group, error) {
	wires, ok := m["wires"]
	if !ok {
		return Group{}, errors.New(errors.ErrCodeInvalidSpec,
			"group mapping must have a \"wires\" key")
	}
	if err := checkKeys(m, "wires", "align"); err != nil {
		return Group{}, err
	}
	list, ok := wires.([]any)
	if !ok {
		return Group{}, errors.New(errors.ErrCodeInvalidSpec,
			"\"wires\" must be a list, got %T", wires)
	}
	align, err := alignField(m, defaultAlign)
	if err != nil {
		return Group{}, err
	}
	tokens, err := normalizeList(list, defaultPlaceType)
	if err != nil {
		return Group{}, err
	}
	return Group{Tokens: tokens, Align: align}, nil
}

// normalizeList converts a WireList into tokens, applying the default
// placement type to tokens that carry none.
func normalizeList(list []any, defaultPlaceType string) ([]Token, error) {
	tokens := make([]Token, 0, len(list))
	for i, elem := range list {
		tok, err := normalizeToken(elem, defaultPlaceType)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "wire %d", i)
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

func normalizeToken(elem any, defaultPlaceType string) (Token, error) {
	switch v := elem.(type) {
	case string:
		return Token{Name: v, PlaceType: defaultPlaceType}, nil
	case []any:
		if len(v) < 2 || len(v) > 3 {
			return Token{}, fmt.Errorf("wire token list must have 2 or 3 elements, got %d", len(v))
		}
		parts := make([]string, len(v))
		for i, p := range v {
			s, ok := p.(string)
			if !ok {
				return Token{}, fmt.Errorf("wire token element %d must be a string, got %T", i, p)
			}
			parts[i] = s
		}
		tok := Token{Name: parts[0], PlaceType: parts[1]}
		if tok.PlaceType == "" {
			tok.PlaceType = defaultPlaceType
		}
		if len(parts) == 3 {
			tok.WireType = parts[2]
		}
		return tok, nil
	default:
		return Token{}, fmt.Errorf("wire token must be a name or a 2/3-element list, got %T", elem)
	}
}

// isToken reports whether v could be a WireToken rather than a nested
// group. Mirrors the arity test of the original grammar: a string, or a
// list of 2-3 strings.
func isToken(v any) bool {
	if _, ok := v.(string); ok {
		return true
	}
	list, ok := v.([]any)
	if !ok || len(list) < 2 || len(list) > 3 {
		return false
	}
	for _, elem := range list {
		if _, ok := elem.(string); !ok {
			return false
		}
	}
	return true
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func checkKeys(m map[string]any, allowed ...string) error {
	for key := range m {
		found := false
		for _, a := range allowed {
			if key == a {
				found = true
				break
			}
		}
		if !found {
			return errors.New(errors.ErrCodeInvalidSpec, "unknown key %q in wire specification", key)
		}
	}
	return nil
}

func alignField(m map[string]any, def Alignment) (Alignment, error) {
	v, ok := m["align"]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return AlignInherit, errors.New(errors.ErrCodeInvalidSpec,
			"\"align\" must be a string, got %T", v)
	}
	a, err := ParseAlignment(s)
	if err != nil {
		return AlignInherit, errors.Wrap(errors.ErrCodeInvalidSpec, err, "invalid alignment")
	}
	if a == AlignInherit {
		return def, nil
	}
	return a, nil
}

func stringListField(m map[string]any, key string) ([]string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidSpec, "%q must be a list of names, got %T", key, v)
	}
	out := make([]string, 0, len(list))
	for i, elem := range list {
		s, ok := elem.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidSpec,
				"%q element %d must be a name, got %T", key, i, elem)
		}
		out = append(out, s)
	}
	return out, nil
}

// LoadSpec reads a YAML wire specification from path and returns the
// raw polymorphic value, ready for Normalize.
func LoadSpec(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open wire spec %s", path)
	}
	defer f.Close()
	return DecodeSpec(f)
}

// DecodeSpec decodes a YAML wire specification from r.
func DecodeSpec(r io.Reader) (any, error) {
	var data any
	if err := yaml.NewDecoder(r).Decode(&data); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "decode wire spec")
	}
	return data, nil
}
