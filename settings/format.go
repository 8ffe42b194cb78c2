package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iw2rmb/textexpand/match"
)

// Format is a settings file encoding.
type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatForPath picks YAML for .yaml and .yml files and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatJSON, fmt.Errorf("unknown format %q", s)
	}
}

// Decode reads an import document: shortcuts must be present and an object
// of strings, delay is optional and must be a non-negative number.
func Decode(r io.Reader, f Format) (Settings, error) {
	return decode(r, f, true)
}

// decode parses a settings document. When strict is false a missing
// shortcuts key falls back to the defaults instead of failing.
func decode(r io.Reader, f Format, strict bool) (Settings, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	var raw map[string]any
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	default:
		if len(bytes.TrimSpace(data)) == 0 {
			break
		}
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("parse %s settings: %w", f, err)
	}
	return fromRaw(raw, strict)
}

func fromRaw(raw map[string]any, strict bool) (Settings, error) {
	s := Defaults()

	sc, ok := raw["shortcuts"]
	switch {
	case !ok || sc == nil:
		if strict {
			return Settings{}, ErrInvalidShortcuts
		}
	default:
		m, err := shortcutsFromRaw(sc)
		if err != nil {
			return Settings{}, err
		}
		s.Shortcuts = m
	}

	if d, ok := raw["delay"]; ok && d != nil {
		ms, err := delayFromRaw(d)
		if err != nil {
			return Settings{}, err
		}
		s.DelayMS = ms
	}
	return s, nil
}

func shortcutsFromRaw(v any) (match.TriggerMap, error) {
	out := match.TriggerMap{}
	add := func(k, v any) error {
		ks, ok := k.(string)
		if !ok {
			return ErrInvalidShortcuts
		}
		vs, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: %q is not a string", ErrInvalidShortcuts, ks)
		}
		if ks == "" {
			return ErrEmptyTrigger
		}
		out[ks] = vs
		return nil
	}

	switch m := v.(type) {
	case map[string]any:
		for k, v := range m {
			if err := add(k, v); err != nil {
				return nil, err
			}
		}
	case map[any]any:
		for k, v := range m {
			if err := add(k, v); err != nil {
				return nil, err
			}
		}
	default:
		return nil, ErrInvalidShortcuts
	}
	return out, nil
}

func delayFromRaw(v any) (int64, error) {
	var ms float64
	switch n := v.(type) {
	case float64:
		ms = n
	case int:
		ms = float64(n)
	case int64:
		ms = float64(n)
	case uint64:
		if n > uint64(MaxDelayMS) {
			return 0, ErrInvalidDelay
		}
		ms = float64(n)
	default:
		return 0, ErrInvalidDelay
	}
	// NaN fails every comparison, so check for it explicitly.
	if math.IsNaN(ms) || ms < 0 || ms > float64(MaxDelayMS) {
		return 0, ErrInvalidDelay
	}
	out := int64(ms)
	if out > MaxDelayMS {
		return 0, ErrInvalidDelay
	}
	return out, nil
}

// Encode writes s as indented JSON or YAML.
func Encode(w io.Writer, s Settings, f Format) error {
	if s.Shortcuts == nil {
		s.Shortcuts = match.TriggerMap{}
	}
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode yaml settings: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode json settings: %w", err)
		}
		return nil
	}
}
