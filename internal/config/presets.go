package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/cristianadrielbraun/qrtoolkit/internal/render"
)

// ErrPreset wraps preset files that cannot be read or validated.
var ErrPreset = errors.New("invalid preset")

// DefaultPreset is always present and equals render.DefaultState.
const DefaultPreset = "default"

// Presets are named render states.
type Presets struct {
	states map[string]render.State
}

// LoadPresets reads every .yaml, .yml, .toml and .json file in dir. The
// preset name is the file name without extension. An empty dir yields only
// the default preset.
func LoadPresets(dir string) (*Presets, error) {
	p := &Presets{states: map[string]render.State{DefaultPreset: render.DefaultState()}}
	if dir == "" {
		return p, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		switch ext {
		case ".yaml", ".yml", ".toml", ".json":
		default:
			continue
		}
		s, err := LoadPreset(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		p.states[strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))] = s
	}
	return p, nil
}

// LoadPreset decodes one preset file over render.DefaultState. Fields use
// the same names as the JSON form of render.State in every format.
func LoadPreset(path string) (render.State, error) {
	s := render.DefaultState()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("%w: %v", ErrPreset, err)
	}

	fields := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fields)
	case ".toml":
		err = toml.Unmarshal(data, &fields)
	case ".json":
		err = json.Unmarshal(data, &fields)
	default:
		err = fmt.Errorf("unsupported extension")
	}
	if err != nil {
		return s, fmt.Errorf("%w: %s: %v", ErrPreset, filepath.Base(path), err)
	}

	// Round-trip through JSON so margins and opacity ranges decode with
	// their custom unmarshalers.
	raw, err := json.Marshal(fields)
	if err != nil {
		return s, fmt.Errorf("%w: %s: %v", ErrPreset, filepath.Base(path), err)
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("%w: %s: %v", ErrPreset, filepath.Base(path), err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("%w: %s: %v", ErrPreset, filepath.Base(path), err)
	}
	return s, nil
}

// Names returns the preset names in order.
func (p *Presets) Names() []string {
	names := make([]string, 0, len(p.states))
	for n := range p.states {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Get returns a copy of the named preset.
func (p *Presets) Get(name string) (render.State, bool) {
	s, ok := p.states[name]
	if ok {
		s.Markers = append([]render.MarkerState(nil), s.Markers...)
	}
	return s, ok
}
