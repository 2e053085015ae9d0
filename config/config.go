// Package config builds directive strings from configuration documents.
//
// A colour directives document is a list. Each entry is either a directive
// string, used as is, or a palette swap object mapping source colours to
// replacement colours:
//
//	["?hueshift=30", {"ff0000": "00ff00", "aa0000": "00aa00"}]
//
// A palette swap becomes a single replace operation. In YAML documents the
// colour keys must be quoted, otherwise digits-only colours read as numbers.
package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/voidshard/imgops"
)

// PaletteSwap maps source colours to replacement colours, both in hex.
type PaletteSwap map[string]string

// Directives returns the swap as a directive string with a leading '?'.
func (p PaletteSwap) Directives() (string, error) {
	m := make(map[imgops.WideKey]imgops.Color, len(p))
	for from, to := range p {
		k, err := imgops.ParseWideKey(from)
		if err != nil {
			return "", fmt.Errorf("palette swap key %q: %w", from, err)
		}
		c, err := imgops.ParseColor(to)
		if err != nil {
			return "", fmt.Errorf("palette swap value %q: %w", to, err)
		}
		m[k] = c
	}
	return imgops.Print([]imgops.Operation{imgops.NewColorReplace(m)}), nil
}

// ColorDirectives maps decoded list entries to directive strings. Entries
// must be strings or palette swap objects.
func ColorDirectives(entries []interface{}) ([]string, error) {
	out := make([]string, 0, len(entries))
	for i, entry := range entries {
		switch v := entry.(type) {
		case string:
			out = append(out, v)
		case map[string]interface{}, map[interface{}]interface{}:
			swap, err := toSwap(v)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			d, err := swap.Directives()
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			out = append(out, d)
		default:
			return nil, fmt.Errorf("entry %d: malformed color directives list (got %T)", i, entry)
		}
	}
	return out, nil
}

// toSwap converts a decoded JSON or YAML object to a PaletteSwap.
func toSwap(v interface{}) (PaletteSwap, error) {
	swap := PaletteSwap{}
	switch m := v.(type) {
	case map[string]interface{}:
		for k, val := range m {
			s, ok := val.(string)
			if !ok {
				return nil, fmt.Errorf("palette swap %q: value is %T, want string", k, val)
			}
			swap[k] = s
		}
	case map[interface{}]interface{}:
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("palette swap key %v is %T, want a quoted string", k, k)
			}
			s, ok := val.(string)
			if !ok {
				return nil, fmt.Errorf("palette swap %q: value is %T, want string", ks, val)
			}
			swap[ks] = s
		}
	}
	return swap, nil
}

// DecodeJSON reads a colour directives list from JSON.
func DecodeJSON(data []byte) ([]string, error) {
	var entries []interface{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return ColorDirectives(entries)
}

// DecodeYAML reads a colour directives list from YAML.
func DecodeYAML(data []byte) ([]string, error) {
	var entries []interface{}
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return ColorDirectives(entries)
}
