// Package params provides typed access to invoker parameters.
//
// Parameters arrive either as a TOML table or as a connection string of the
// form "key=value;key=value".
package params

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
)

// Ensure Params implements the interface.
var _ driven.Parameters = (*Params)(nil)

// Params is a read-only key to string lookup.
type Params struct {
	values map[string]string
}

// New creates Params from a map. The map is copied.
func New(values map[string]string) *Params {
	return &Params{values: maps.Clone(values)}
}

// Parse creates Params from a connection string.
func Parse(connection string) *Params {
	return &Params{values: Split(connection)}
}

// Split parses "key=value;key=value" into a map.
// Keys and values are trimmed, empty segments are skipped, a value may contain
// '=' and a segment without '=' maps its key to an empty value.
func Split(s string) map[string]string {
	out := make(map[string]string)
	for _, seg := range strings.Split(s, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		key, value, _ := strings.Cut(seg, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out[key] = strings.TrimSpace(value)
	}
	return out
}

// String returns the value for key.
func (p *Params) String(key string) (string, error) {
	v, ok := p.values[key]
	if !ok {
		return "", fmt.Errorf("%s: %w", key, domain.ErrMissingParameter)
	}
	return v, nil
}

// Integer returns the value for key parsed as a base 10 integer.
func (p *Params) Integer(key string) (int, error) {
	v, err := p.String(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer: %w", key, v, domain.ErrInvalidParameter)
	}
	return n, nil
}

// Boolean returns the value for key parsed as a boolean.
func (p *Params) Boolean(key string) (bool, error) {
	v, err := p.String(key)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("%s: %q is not a boolean: %w", key, v, domain.ErrInvalidParameter)
	}
	return b, nil
}

// OptionalBoolean returns the value for key and whether it was present.
func (p *Params) OptionalBoolean(key string) (value, ok bool, err error) {
	if !p.Exists(key) {
		return false, false, nil
	}
	value, err = p.Boolean(key)
	if err != nil {
		return false, true, err
	}
	return value, true, nil
}

// Exists reports whether key is present.
func (p *Params) Exists(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Keys returns all keys in sorted order.
func (p *Params) Keys() []string {
	return slices.Sorted(maps.Keys(p.values))
}

// Require checks that every key is present and non-empty.
func Require(p driven.Parameters, keys ...string) error {
	for _, k := range keys {
		v, err := p.String(k)
		if err != nil {
			return err
		}
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s: empty value: %w", k, domain.ErrMissingParameter)
		}
	}
	return nil
}
