package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dshills/keyguard/internal/config/loader"
)

// Layer identifies a configuration source.
type Layer int

// Layers in increasing precedence.
const (
	LayerDefaults Layer = iota
	LayerFile
	LayerEnv
	LayerOverride
	layerCount
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerDefaults:
		return "defaults"
	case LayerFile:
		return "file"
	case LayerEnv:
		return "env"
	case LayerOverride:
		return "override"
	default:
		return "unknown"
	}
}

// Options is a layered configuration store. It is safe for concurrent use.
type Options struct {
	mu     sync.RWMutex
	layers [layerCount]map[string]any
	merged map[string]any
}

// New creates a store holding the built-in defaults.
func New() *Options {
	o := &Options{}
	o.layers[LayerDefaults] = Defaults()
	return o
}

// FileSystem reads configuration files.
type FileSystem = loader.FileSystem

// NewFileLoader returns the loader for the configuration file at path.
// Files ending in .yaml or .yml are YAML; anything else is TOML. A nil
// fsys uses the OS.
func NewFileLoader(path string, fsys FileSystem) loader.Loader {
	return loader.NewFileLoader(fsys, path)
}

// Load reads the configuration file at path (missing files are skipped)
// and the KEYGUARD_ environment into a new store.
func Load(path string, fsys FileSystem) (*Options, error) {
	o := New()
	if err := o.LoadFrom(LayerFile, NewFileLoader(path, fsys)); err != nil {
		return nil, err
	}
	if err := o.LoadFrom(LayerEnv, loader.NewEnvLoader(EnvPrefix)); err != nil {
		return nil, err
	}
	return o, nil
}

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "KEYGUARD_"

// LoadFrom replaces a layer with the values read by l.
func (o *Options) LoadFrom(layer Layer, l loader.Loader) error {
	values, err := l.Load()
	if err != nil {
		return fmt.Errorf("load %s layer: %w", layer, err)
	}
	o.SetLayer(layer, values)
	return nil
}

// SetLayer replaces a layer.
func (o *Options) SetLayer(layer Layer, values map[string]any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.layers[layer] = loader.Clone(values)
	o.merged = nil
}

// SetDefaults merges values into the defaults under section. Keys already
// present in the defaults are overwritten; higher layers still win.
func (o *Options) SetDefaults(section string, values map[string]any) error {
	parts := splitPath(section)
	if len(parts) == 0 {
		return ErrInvalidPath
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.layers[LayerDefaults] == nil {
		o.layers[LayerDefaults] = make(map[string]any)
	}
	existing, _ := getPath(o.layers[LayerDefaults], section)
	current, _ := existing.(map[string]any)
	if err := setPath(o.layers[LayerDefaults], section, loader.DeepMerge(loader.Clone(current), values)); err != nil {
		return err
	}
	o.merged = nil
	return nil
}

// Set stores value at path in the override layer.
func (o *Options) Set(path string, value any) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.layers[LayerOverride] == nil {
		o.layers[LayerOverride] = make(map[string]any)
	}
	if err := setPath(o.layers[LayerOverride], path, value); err != nil {
		return err
	}
	o.merged = nil
	return nil
}

// Merged returns a copy of the merged configuration.
func (o *Options) Merged() map[string]any {
	o.mu.Lock()
	defer o.mu.Unlock()
	return loader.Clone(o.mergedLocked())
}

func (o *Options) mergedLocked() map[string]any {
	if o.merged == nil {
		merged := make(map[string]any)
		for _, layer := range o.layers {
			merged = loader.DeepMerge(merged, layer)
		}
		o.merged = merged
	}
	return o.merged
}

// Get returns the merged value at path.
func (o *Options) Get(path string) (any, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	v, ok := getPath(o.mergedLocked(), path)
	if m, isMap := v.(map[string]any); isMap {
		return loader.Clone(m), ok
	}
	return v, ok
}

// Section returns a copy of the map at path, or nil.
func (o *Options) Section(path string) map[string]any {
	v, _ := o.Get(path)
	m, _ := v.(map[string]any)
	return m
}

// GetString returns a string value at the given path.
func (o *Options) GetString(path string) (string, error) {
	v, ok := o.Get(path)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (o *Options) GetInt(path string) (int, error) {
	v, ok := o.Get(path)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path.
func (o *Options) GetBool(path string) (bool, error) {
	v, ok := o.Get(path)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetDuration returns a duration at the given path. Strings use
// time.ParseDuration syntax; bare numbers are milliseconds.
func (o *Options) GetDuration(path string) (time.Duration, error) {
	v, ok := o.Get(path)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case int:
		return time.Duration(val) * time.Millisecond, nil
	case int64:
		return time.Duration(val) * time.Millisecond, nil
	case float64:
		return time.Duration(val * float64(time.Millisecond)), nil
	case string:
		d, err := time.ParseDuration(strings.TrimSpace(val))
		if err != nil {
			return 0, &TypeError{Path: path, Expected: "duration", Actual: fmt.Sprintf("%q", val)}
		}
		return d, nil
	default:
		return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
	}
}

// String returns the string at path, or fallback when missing or mistyped.
func (o *Options) String(path, fallback string) string {
	if s, err := o.GetString(path); err == nil {
		return s
	}
	return fallback
}

// Int returns the int at path, or fallback when missing or mistyped.
func (o *Options) Int(path string, fallback int) int {
	if i, err := o.GetInt(path); err == nil {
		return i
	}
	return fallback
}

// Bool returns the bool at path, or fallback when missing or mistyped.
func (o *Options) Bool(path string, fallback bool) bool {
	if b, err := o.GetBool(path); err == nil {
		return b
	}
	return fallback
}

// Duration returns the duration at path, or fallback when missing, mistyped
// or not positive.
func (o *Options) Duration(path string, fallback time.Duration) time.Duration {
	if d, err := o.GetDuration(path); err == nil && d > 0 {
		return d
	}
	return fallback
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, false
	}

	current := any(m)
	for _, part := range parts {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = cm[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// setPath sets a value in a nested map using a dot-separated path.
func setPath(m map[string]any, path string, value any) error {
	parts := splitPath(path)
	if len(parts) == 0 {
		return ErrInvalidPath
	}

	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part]
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		nextMap, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s is not a section", ErrInvalidPath, part)
		}
		current = nextMap
	}

	current[parts[len(parts)-1]] = value
	return nil
}

// splitPath splits a dot-separated path, dropping empty segments.
func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, ".") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case time.Duration:
		return "duration"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
