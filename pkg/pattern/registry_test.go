package pattern

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

const agencyYAML = `
name: "agency"
version: "1.0.0"
description: "Agency label variants"
fields:
  - id: channel
    pattern: '(?:^|\|)[ \t]*(?:channel|network|platform)[ \t]*:[ \t]*([^\n|]+)'
  - id: budget
    pattern: '^budget:[ \t]*(.+)$'
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()
	if registry == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if registry.Count() != 0 {
		t.Errorf("Count() = %d, want 0", registry.Count())
	}
}

func TestRegistryRegister(t *testing.T) {
	registry := NewRegistry()

	set := &Set{
		Name:    "custom",
		Version: "1.0.0",
		Fields:  []Field{{ID: "channel", Pattern: `^network:\s*(.+)$`}},
	}

	// Register should succeed
	if err := registry.Register(set); err != nil {
		t.Errorf("Register() error = %v", err)
	}
	if !set.IsCompiled() {
		t.Error("Register() should compile the set")
	}
	if registry.Count() != 1 {
		t.Errorf("Count() = %d, want 1", registry.Count())
	}

	// Registering nil should fail
	if err := registry.Register(nil); err == nil {
		t.Error("Register(nil) should return error")
	}

	// Registering same version should fail
	if err := registry.Register(set); err == nil {
		t.Error("Register() duplicate should return error")
	}

	// Registering different version should succeed
	set2 := &Set{
		Name:    "custom",
		Version: "2.0.0",
		Fields:  []Field{{ID: "channel", Pattern: `^net:\s*(.+)$`}},
	}
	if err := registry.Register(set2); err != nil {
		t.Errorf("Register() new version error = %v", err)
	}
	if got, _ := registry.Get("custom"); got.Version != "2.0.0" {
		t.Errorf("Get() version = %q, want 2.0.0", got.Version)
	}
}

func TestRegistryRegisterInvalidSet(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(&Set{Name: "invalid"}); err == nil {
		t.Error("Register() invalid set should return error")
	}

	badRegex := &Set{
		Name:    "bad-regex",
		Version: "1.0.0",
		Fields:  []Field{{ID: "channel", Pattern: `(unclosed`}},
	}
	if err := registry.Register(badRegex); err == nil {
		t.Error("Register() with invalid regex should return error")
	}
}

func TestRegistryUnregister(t *testing.T) {
	registry := NewRegistry()
	set := &Set{Name: "custom", Version: "1.0.0", Markers: []Marker{{ID: "heading", Pattern: `^=+`}}}
	if err := registry.Register(set); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := registry.Unregister("custom"); err != nil {
		t.Errorf("Unregister() error = %v", err)
	}
	if registry.Count() != 0 {
		t.Errorf("Count() = %d, want 0", registry.Count())
	}
	if err := registry.Unregister("custom"); err == nil {
		t.Error("Unregister() of a missing set should return error")
	}
}

func TestRegistryList(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		set := &Set{Name: name, Version: "1.0.0", Markers: []Marker{{ID: "heading", Pattern: `^=+`}}}
		if err := registry.Register(set); err != nil {
			t.Fatalf("Register(%s) error = %v", name, err)
		}
	}

	var names []string
	for _, set := range registry.List() {
		names = append(names, set.Name)
	}
	if got := strings.Join(names, ","); got != "alpha,mid,zeta" {
		t.Errorf("List() names = %s, want alpha,mid,zeta", got)
	}
}

func TestRegistryActive(t *testing.T) {
	registry := NewRegistry()

	active, err := registry.Active()
	if err != nil {
		t.Fatalf("Active() error = %v", err)
	}
	if active != Default() {
		t.Error("Active() without overrides should return the shared default set")
	}

	var override Set
	if err := yaml.Unmarshal([]byte(agencyYAML), &override); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if err := registry.Register(&override); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	active, err = registry.Active()
	if err != nil {
		t.Fatalf("Active() error = %v", err)
	}
	if active.Name != "default+agency" {
		t.Errorf("Active().Name = %q, want %q", active.Name, "default+agency")
	}
	if !active.IsCompiled() {
		t.Error("Active() should be compiled")
	}
	channel := active.Field(FieldChannel).Regexp()
	if m := channel.FindStringSubmatch("Network: TikTok"); m == nil || m[1] != "TikTok" {
		t.Errorf("merged channel field did not match override label, got %v", m)
	}
	if active.Field("budget") == nil {
		t.Error("Active() lost the added field")
	}
	if active.Field(FieldTitle) == nil {
		t.Error("Active() lost a default field")
	}

	again, _ := registry.Active()
	if again != active {
		t.Error("Active() should be cached until the registry changes")
	}

	registry.Clear()
	if cleared, _ := registry.Active(); cleared != Default() {
		t.Error("Active() after Clear() should return the default set")
	}
}

func TestRegistryLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeFile(t, tmpDir, "agency.yaml", agencyYAML)

	registry := NewRegistry()
	if err := registry.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	set, ok := registry.Get("agency")
	if !ok {
		t.Fatal("Get() should find loaded set")
	}
	if set.Description != "Agency label variants" {
		t.Errorf("Description = %q", set.Description)
	}
	if len(set.Fields) != 2 || !set.IsCompiled() {
		t.Errorf("loaded set has %d fields, compiled %v", len(set.Fields), set.IsCompiled())
	}

	// Reloading the same file with the same version replaces it.
	if err := registry.LoadFile(path); err != nil {
		t.Errorf("LoadFile() reload error = %v", err)
	}
}

func TestRegistryLoadFileNameFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeFile(t, tmpDir, "house-style.yml", "version: \"1.0.0\"\nmarkers:\n  - id: heading\n    pattern: '^=+'\n")

	registry := NewRegistry()
	if err := registry.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if _, ok := registry.Get("house-style"); !ok {
		t.Error("a set without a name should take the file name")
	}
}

func TestRegistryLoadFileErrors(t *testing.T) {
	tmpDir := t.TempDir()
	registry := NewRegistry()

	if err := registry.LoadFile(filepath.Join(tmpDir, "missing.yaml")); err == nil {
		t.Error("LoadFile() of a missing file should return error")
	}

	bad := writeFile(t, tmpDir, "bad.yaml", "name: [unclosed")
	if err := registry.LoadFile(bad); err == nil {
		t.Error("LoadFile() of invalid YAML should return error")
	}
}

func TestRegistryLoadDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "agency.yaml", agencyYAML)
	writeFile(t, tmpDir, "extra.yml", "name: extra\nversion: \"1.0.0\"\nmarkers:\n  - id: heading\n    pattern: '^=+'\n")
	writeFile(t, tmpDir, "README.md", "not a pattern")

	registry := NewRegistry()
	if err := registry.LoadDirectory(tmpDir); err != nil {
		t.Fatalf("LoadDirectory() error = %v", err)
	}
	if registry.Count() != 2 {
		t.Errorf("Count() = %d, want 2", registry.Count())
	}
}

func TestRegistryLoadDirectoryReportsBadFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "agency.yaml", agencyYAML)
	writeFile(t, tmpDir, "broken.yaml", "name: broken\nversion: \"1.0.0\"\nfields:\n  - id: channel\n    pattern: 'no group'\n")

	registry := NewRegistry()
	err := registry.LoadDirectory(tmpDir)
	if err == nil || !strings.Contains(err.Error(), "broken.yaml") {
		t.Errorf("LoadDirectory() error = %v, want mention of broken.yaml", err)
	}
	if registry.Count() != 1 {
		t.Errorf("Count() = %d, want the valid set loaded", registry.Count())
	}
}

func TestRegistryLoadDirectoryNonExistent(t *testing.T) {
	registry := NewRegistry()
	if err := registry.LoadDirectory("/nonexistent/path/to/patterns"); err != nil {
		t.Errorf("LoadDirectory() non-existent should not error, got %v", err)
	}
}

func TestRegistryReload(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeFile(t, tmpDir, "agency.yaml", agencyYAML)

	registry, err := NewRegistryWithDirectory(tmpDir)
	if err != nil {
		t.Fatalf("NewRegistryWithDirectory() error = %v", err)
	}
	if registry.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", registry.Count())
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := registry.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if registry.Count() != 0 {
		t.Errorf("Count() after Reload() = %d, want 0", registry.Count())
	}
}

func TestRegistryReloadNoDirectory(t *testing.T) {
	if err := NewRegistry().Reload(); err == nil {
		t.Error("Reload() without directory should return error")
	}
}

func TestRegistryWatch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping watch test in short mode")
	}

	tmpDir := t.TempDir()
	path := writeFile(t, tmpDir, "agency.yaml", agencyYAML)

	registry, err := NewRegistryWithDirectory(tmpDir)
	if err != nil {
		t.Fatalf("NewRegistryWithDirectory() error = %v", err)
	}

	changed := make(chan string, 4)
	registry.SetOnChange(func(event string, set *Set) {
		select {
		case changed <- event:
		default:
		}
	})

	if err := registry.Watch(); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer registry.StopWatch()

	// Give the watcher time to initialize
	time.Sleep(100 * time.Millisecond)

	updated := strings.Replace(agencyYAML, "Agency label variants", "Updated via watch", 1)
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case <-changed:
		time.Sleep(100 * time.Millisecond)
	case <-time.After(3 * time.Second):
		// File watching can be flaky in CI environments, so we just log
		t.Log("Watch() did not detect file change within timeout (may be CI environment)")
		return
	}

	set, ok := registry.Get("agency")
	if !ok {
		t.Fatal("Get() lost the set after the change")
	}
	if set.Description != "Updated via watch" {
		t.Errorf("Description = %q, want %q", set.Description, "Updated via watch")
	}
}

func TestRegistryWatchNoDirectory(t *testing.T) {
	if err := NewRegistry().Watch(); err == nil {
		t.Error("Watch() without directory should return error")
	}
}

func TestRegistryStopWatchDuringChanges(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping watch test in short mode")
	}

	tmpDir := t.TempDir()
	registry, err := NewRegistryWithDirectory(tmpDir)
	if err != nil {
		t.Fatalf("NewRegistryWithDirectory() error = %v", err)
	}
	registry.SetOnChange(func(event string, set *Set) {})

	if err := registry.Watch(); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 5; i++ {
			name := fmt.Sprintf("agency-%d.yaml", i)
			content := strings.Replace(agencyYAML, `name: "agency"`, fmt.Sprintf(`name: "agency-%d"`, i), 1)
			if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0644); err != nil {
				t.Errorf("WriteFile() error = %v", err)
				return
			}
		}
	}()

	registry.StopWatch()
	registry.SetOnChange(nil)
	<-done
	registry.StopWatch()

	if err := registry.Watch(); err != nil {
		t.Fatalf("Watch() after StopWatch() error = %v", err)
	}
	registry.StopWatch()
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	if err := Dump(&buf, DefaultSet()); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	var loaded Set
	if err := yaml.Unmarshal(buf.Bytes(), &loaded); err != nil {
		t.Fatalf("dumped YAML does not parse: %v", err)
	}
	if err := loaded.Validate(); err != nil {
		t.Errorf("dumped set does not validate: %v", err)
	}
	if len(loaded.Fields) != len(DefaultSet().Fields) {
		t.Errorf("dumped %d fields, want %d", len(loaded.Fields), len(DefaultSet().Fields))
	}
	if loaded.Field(FieldChannel).Pattern != DefaultSet().Field(FieldChannel).Pattern {
		t.Error("dumped channel pattern differs from the built-in one")
	}
}
