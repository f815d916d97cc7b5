package pattern

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/fsnotify.v1"
	"gopkg.in/yaml.v3"
)

// Registry manages override pattern sets layered over the built-in table.
type Registry interface {
	// Register adds an override set to the registry
	Register(set *Set) error

	// Unregister removes an override set from the registry
	Unregister(name string) error

	// Get returns an override set by name
	Get(name string) (*Set, bool)

	// List returns all registered override sets, sorted by name
	List() []*Set

	// Active returns the compiled built-in set merged with every override
	Active() (*Set, error)

	// Reload reloads all sets from the configured directory
	Reload() error

	// Watch starts watching the pattern directory for changes
	Watch() error

	// StopWatch stops watching the pattern directory
	StopWatch()

	// LoadDirectory loads all sets from a directory
	LoadDirectory(dir string) error

	// LoadFile loads a single set file
	LoadFile(path string) error
}

// DefaultRegistry is the default implementation of the pattern Registry.
type DefaultRegistry struct {
	mu       sync.RWMutex
	sets     map[string]*Set
	files    map[string]string // path -> set name
	active   *Set
	dir      string
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	onChange func(event string, set *Set)
	logger   *zap.Logger
}

// NewRegistry creates a new pattern registry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		sets:   make(map[string]*Set),
		files:  make(map[string]string),
		logger: zap.NewNop(),
	}
}

// NewRegistryWithDirectory creates a new registry and loads sets from the directory.
func NewRegistryWithDirectory(dir string) (*DefaultRegistry, error) {
	r := NewRegistry()
	r.dir = dir

	if err := r.LoadDirectory(dir); err != nil {
		return nil, err
	}

	return r, nil
}

// SetLogger sets the logger used to report watch and reload failures.
func (r *DefaultRegistry) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r.mu.Lock()
	r.logger = logger
	r.mu.Unlock()
}

// Register adds an override set to the registry.
func (r *DefaultRegistry) Register(set *Set) error {
	return r.register(set, false)
}

func (r *DefaultRegistry) register(set *Set, replace bool) error {
	if set == nil {
		return fmt.Errorf("pattern set cannot be nil")
	}

	if err := set.Validate(); err != nil {
		return fmt.Errorf("invalid pattern set: %w", err)
	}

	if !set.IsCompiled() {
		if err := set.Compile(); err != nil {
			return fmt.Errorf("compiling pattern set %q: %w", set.Name, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sets[set.Name]; ok && !replace {
		// Allow update if version is different
		if existing.Version == set.Version {
			return fmt.Errorf("pattern set %q version %s already registered", set.Name, set.Version)
		}
	}

	r.sets[set.Name] = set
	r.active = nil
	return nil
}

// Unregister removes an override set from the registry.
func (r *DefaultRegistry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sets[name]; !ok {
		return fmt.Errorf("pattern set %q not found", name)
	}

	delete(r.sets, name)
	for path, setName := range r.files {
		if setName == name {
			delete(r.files, path)
		}
	}
	r.active = nil
	return nil
}

// Get returns an override set by name.
func (r *DefaultRegistry) Get(name string) (*Set, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.sets[name]
	return set, ok
}

// List returns all registered override sets, sorted by name.
func (r *DefaultRegistry) List() []*Set {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedSets()
}

func (r *DefaultRegistry) sortedSets() []*Set {
	sets := make([]*Set, 0, len(r.sets))
	for _, set := range r.sets {
		sets = append(sets, set)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].Name < sets[j].Name })
	return sets
}

// Count returns the number of registered override sets.
func (r *DefaultRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sets)
}

// Active returns the built-in set merged with every registered override in
// name order, compiled. The result is cached until the registry changes and
// must not be modified.
func (r *DefaultRegistry) Active() (*Set, error) {
	r.mu.RLock()
	if r.active != nil {
		active := r.active
		r.mu.RUnlock()
		return active, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		return r.active, nil
	}

	if len(r.sets) == 0 {
		r.active = Default()
		return r.active, nil
	}

	merged := DefaultSet()
	for _, set := range r.sortedSets() {
		merged = merged.Merge(set)
	}
	if err := merged.Compile(); err != nil {
		return nil, fmt.Errorf("compiling merged pattern set: %w", err)
	}

	r.active = merged
	return merged, nil
}

// LoadDirectory loads all YAML pattern files from a directory.
func (r *DefaultRegistry) LoadDirectory(dir string) error {
	r.dir = dir

	// Check if directory exists
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			// Directory doesn't exist, nothing to load
			return nil
		}
		return fmt.Errorf("checking directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var loadErrors []string
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := r.LoadFile(path); err != nil {
			loadErrors = append(loadErrors, fmt.Sprintf("%s: %v", entry.Name(), err))
		}
	}

	if len(loadErrors) > 0 {
		return fmt.Errorf("errors loading patterns: %s", strings.Join(loadErrors, "; "))
	}

	return nil
}

// LoadFile loads a single pattern set file. A file without a name takes the
// name of the file.
func (r *DefaultRegistry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	if set.Name == "" {
		set.Name = setNameFromFile(path)
	}

	// Reloading the same file replaces its set regardless of version.
	r.mu.RLock()
	previous, ok := r.files[path]
	r.mu.RUnlock()

	if err := r.register(&set, ok && previous == set.Name); err != nil {
		return fmt.Errorf("registering pattern set: %w", err)
	}

	r.mu.Lock()
	r.files[path] = set.Name
	r.mu.Unlock()

	return nil
}

// Reload reloads all sets from the configured directory.
func (r *DefaultRegistry) Reload() error {
	if r.dir == "" {
		return fmt.Errorf("no directory configured for reload")
	}

	r.Clear()
	return r.LoadDirectory(r.dir)
}

// SetOnChange sets a callback function that is called when sets change.
func (r *DefaultRegistry) SetOnChange(fn func(event string, set *Set)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Watch starts watching the pattern directory for changes.
func (r *DefaultRegistry) Watch() error {
	if r.dir == "" {
		return fmt.Errorf("no directory configured for watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(r.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching directory %s: %w", r.dir, err)
	}

	stop := make(chan struct{})

	r.mu.Lock()
	previous, previousStop := r.watcher, r.stopChan
	r.watcher = watcher
	r.stopChan = stop
	r.mu.Unlock()
	stopWatcher(previous, previousStop)

	go r.watchLoop(watcher, stop)
	return nil
}

// watchLoop handles file system events until stop is closed or the
// watcher shuts down.
func (r *DefaultRegistry) watchLoop(watcher *fsnotify.Watcher, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if !isYAMLFile(event.Name) {
				continue
			}

			switch {
			case event.Op&fsnotify.Create == fsnotify.Create:
				r.handleFileChange(event.Name, "create")

			case event.Op&fsnotify.Write == fsnotify.Write:
				r.handleFileChange(event.Name, "modify")

			case event.Op&fsnotify.Remove == fsnotify.Remove:
				r.handleFileRemove(event.Name)

			case event.Op&fsnotify.Rename == fsnotify.Rename:
				r.handleFileRemove(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			r.log().Warn("pattern watcher error", zap.Error(err))
		}
	}
}

// handleFileChange handles file creation or modification.
func (r *DefaultRegistry) handleFileChange(path string, eventType string) {
	if err := r.LoadFile(path); err != nil {
		r.log().Warn("pattern file rejected", zap.String("path", path), zap.Error(err))
		return
	}

	r.mu.RLock()
	set := r.sets[r.files[path]]
	onChange := r.onChange
	r.mu.RUnlock()

	if onChange != nil {
		onChange(eventType, set)
	}
}

// handleFileRemove handles file removal.
func (r *DefaultRegistry) handleFileRemove(path string) {
	r.mu.Lock()
	name, ok := r.files[path]
	if ok {
		delete(r.files, path)
		delete(r.sets, name)
		r.active = nil
	}
	onChange := r.onChange
	r.mu.Unlock()

	if ok && onChange != nil {
		onChange("remove", nil)
	}
}

// StopWatch stops watching the pattern directory. It is safe to call more
// than once and while events are being handled.
func (r *DefaultRegistry) StopWatch() {
	r.mu.Lock()
	watcher, stop := r.watcher, r.stopChan
	r.watcher = nil
	r.stopChan = nil
	r.mu.Unlock()

	stopWatcher(watcher, stop)
}

func stopWatcher(watcher *fsnotify.Watcher, stop chan struct{}) {
	if stop != nil {
		close(stop)
	}
	if watcher != nil {
		watcher.Close()
	}
}

// Clear removes all override sets from the registry.
func (r *DefaultRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets = make(map[string]*Set)
	r.files = make(map[string]string)
	r.active = nil
}

func (r *DefaultRegistry) log() *zap.Logger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.logger
}

// Dump writes set as YAML.
func Dump(w io.Writer, set *Set) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(set); err != nil {
		return fmt.Errorf("encoding pattern set: %w", err)
	}
	return encoder.Close()
}

func isYAMLFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

func setNameFromFile(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(strings.TrimSuffix(base, ".yaml"), ".yml")
}
