package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/keyguard.toml", `
[confirm]
interruptWindow = "750ms"
cancelWindow = 1500

[theme]
warning = "#ff8800"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/keyguard.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	confirm, ok := config["confirm"].(map[string]any)
	if !ok {
		t.Fatal("expected confirm to be a map")
	}
	if confirm["interruptWindow"] != "750ms" {
		t.Errorf("interruptWindow = %v", confirm["interruptWindow"])
	}
	if confirm["cancelWindow"] != int64(1500) {
		t.Errorf("cancelWindow = %v (%T), want 1500", confirm["cancelWindow"], confirm["cancelWindow"])
	}
}

func TestTOMLLoader_Missing(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/missing.toml").Load()
	if err != nil || config != nil {
		t.Errorf("Load() = %v, %v; want nil, nil", config, err)
	}

	config, err = NewTOMLLoaderWithFS(NewMemFS(), "").Load()
	if err != nil || config != nil {
		t.Errorf("empty path Load() = %v, %v; want nil, nil", config, err)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[confirm]\ncancelWindow = = 3\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want ParseError", err)
	}
	if perr.Path != "/bad.toml" || perr.Line != 2 {
		t.Errorf("ParseError = %+v, want line 2 of /bad.toml", perr)
	}
	if !strings.Contains(perr.Error(), "line 2") {
		t.Errorf("Error() = %q", perr.Error())
	}
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	config, err := NewTOMLLoader("").LoadFromReader(strings.NewReader("[ui]\nspinner = \"|/-\\\\\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	ui, _ := config["ui"].(map[string]any)
	if ui["spinner"] != `|/-\` {
		t.Errorf("spinner = %q", ui["spinner"])
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"confirm": map[string]any{"interruptWindow": "500ms", "cancelWindow": "1200ms"},
		"shell":   map[string]any{"path": "/bin/sh"},
	}
	src := map[string]any{
		"confirm": map[string]any{"cancelWindow": "2s"},
		"shell":   "replaced",
	}

	got := DeepMerge(dst, src)
	confirm := got["confirm"].(map[string]any)
	if confirm["interruptWindow"] != "500ms" || confirm["cancelWindow"] != "2s" {
		t.Errorf("confirm = %v", confirm)
	}
	if got["shell"] != "replaced" {
		t.Errorf("shell = %v", got["shell"])
	}
}

func TestDeepMergeDoesNotAliasSource(t *testing.T) {
	src := map[string]any{"theme": map[string]any{"dim": "#808080"}}
	got := DeepMerge(nil, src)

	got["theme"].(map[string]any)["dim"] = "#000000"
	if src["theme"].(map[string]any)["dim"] != "#808080" {
		t.Error("DeepMerge aliased a source map")
	}
}

func TestClone(t *testing.T) {
	src := map[string]any{
		"a": map[string]any{"b": []any{map[string]any{"c": 1}}},
	}
	dst := Clone(src)
	dst["a"].(map[string]any)["b"].([]any)[0].(map[string]any)["c"] = 2

	if src["a"].(map[string]any)["b"].([]any)[0].(map[string]any)["c"] != 1 {
		t.Error("Clone shared nested values")
	}
	if Clone(nil) != nil {
		t.Error("Clone(nil) should be nil")
	}
}

func TestEnvLoader(t *testing.T) {
	l := NewEnvLoader("KEYGUARD_")
	l.environ = func() []string {
		return []string{
			"HOME=/root",
			"KEYGUARD_LOG_LEVEL=debug",
			"KEYGUARD_CONFIRM_CANCEL_WINDOW=2s",
			"KEYGUARD_CONFIRM_STATUS_KEY=guard",
			"KEYGUARD_UI_SPINNER=",
			"KEYGUARD_NOPATH=1",
		}
	}

	config, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}

	logging := config["logging"].(map[string]any)
	if logging["level"] != "debug" {
		t.Errorf("logging.level = %v", logging["level"])
	}
	confirm := config["confirm"].(map[string]any)
	if confirm["cancelWindow"] != 2*time.Second {
		t.Errorf("confirm.cancelWindow = %v (%T)", confirm["cancelWindow"], confirm["cancelWindow"])
	}
	if confirm["statusKey"] != "guard" {
		t.Errorf("confirm.statusKey = %v", confirm["statusKey"])
	}
	if ui := config["ui"].(map[string]any); ui["spinner"] != "" {
		t.Errorf("ui.spinner = %v", ui["spinner"])
	}
	if _, ok := config["nopath"]; ok {
		t.Error("single-segment variable should be ignored")
	}
}

func TestEnvLoader_Empty(t *testing.T) {
	l := NewEnvLoader("KEYGUARD_")
	l.environ = func() []string { return []string{"PATH=/bin"} }
	config, err := l.Load()
	if err != nil || config != nil {
		t.Errorf("Load() = %v, %v; want nil, nil", config, err)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"off", false},
		{"42", int64(42)},
		{"1.5", 1.5},
		{"1200ms", 1200 * time.Millisecond},
		{"Working...", "Working..."},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/keyguard.yaml", `
confirm:
  cancelWindow: 1500
  cancelHint: "Esc again to stop"
theme:
  warning: "#ff8800"
`)

	l := NewFileLoader(memfs, "/keyguard.yaml")
	if _, ok := l.(*YAMLLoader); !ok {
		t.Fatalf("NewFileLoader(.yaml) = %T, want *YAMLLoader", l)
	}
	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	confirm, ok := got["confirm"].(map[string]any)
	if !ok {
		t.Fatalf("confirm section = %T", got["confirm"])
	}
	if confirm["cancelWindow"] != 1500 {
		t.Errorf("cancelWindow = %#v", confirm["cancelWindow"])
	}
	if confirm["cancelHint"] != "Esc again to stop" {
		t.Errorf("cancelHint = %#v", confirm["cancelHint"])
	}
}

func TestYAMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.yml", "confirm:\n  a: 1\n b: [\n")

	_, err := NewFileLoader(memfs, "/bad.yml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load() error = %v, want *ParseError", err)
	}
	if perr.Path != "/bad.yml" {
		t.Errorf("Path = %q", perr.Path)
	}
}

func TestYAMLLoader_Missing(t *testing.T) {
	got, err := NewFileLoader(NewMemFS(), "/none.yaml").Load()
	if err != nil || got != nil {
		t.Errorf("Load() = %v, %v, want nil, nil", got, err)
	}
}

func TestNewFileLoaderDefaultsToTOML(t *testing.T) {
	for _, path := range []string{"/a.toml", "/a.conf", ""} {
		if _, ok := NewFileLoader(nil, path).(*TOMLLoader); !ok {
			t.Errorf("NewFileLoader(%q) is not TOML", path)
		}
	}
}
