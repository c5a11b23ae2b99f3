package wire

import (
	"strconv"
	"strings"

	"github.com/chipgrid/trackplan/pkg/errors"
)

// ParseName parses a wire name with optional bus notation and returns
// the base name and the inclusive index range it covers.
//
// Recognized forms:
//
//	name        -> [0, 0]
//	name<idx>   -> [idx, idx]
//	name<lo:hi> -> [lo, hi], lo <= hi
//
// No other index syntax is accepted. Malformed notation, an empty name,
// or a descending range fails with an INVALID_NAME error.
func ParseName(name string) (base string, lo, hi int, err error) {
	if name == "" {
		return "", 0, 0, errors.New(errors.ErrCodeInvalidName, "wire name must not be empty")
	}

	if !strings.HasSuffix(name, ">") {
		if strings.ContainsAny(name, "<:>") {
			return "", 0, 0, errors.New(errors.ErrCodeInvalidName, "illegal wire name %q", name)
		}
		return name, 0, 0, nil
	}

	open := strings.IndexByte(name, '<')
	if open <= 0 {
		return "", 0, 0, errors.New(errors.ErrCodeInvalidName, "illegal wire name %q", name)
	}
	base = name[:open]
	if strings.ContainsAny(base, "<:>") {
		return "", 0, 0, errors.New(errors.ErrCodeInvalidName, "illegal wire name %q", name)
	}

	spec := name[open+1 : len(name)-1]
	lopart, hipart, ranged := strings.Cut(spec, ":")

	lo, err = strconv.Atoi(lopart)
	if err != nil {
		return "", 0, 0, errors.New(errors.ErrCodeInvalidName, "illegal wire name %q", name)
	}
	if !ranged {
		return base, lo, lo, nil
	}

	hi, err = strconv.Atoi(hipart)
	if err != nil {
		return "", 0, 0, errors.New(errors.ErrCodeInvalidName, "illegal wire name %q", name)
	}
	if lo > hi {
		return "", 0, 0, errors.New(errors.ErrCodeInvalidName,
			"descending bus range in %q: %d > %d", name, lo, hi)
	}
	return base, lo, hi, nil
}
