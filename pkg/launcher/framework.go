package launcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/matzehuels/modlaunch/pkg/catalog"
)

// State is the lifecycle state of an installed module.
type State int

const (
	StateInstalled State = iota + 1
	StateActive
)

func (s State) String() string {
	switch s {
	case StateInstalled:
		return "installed"
	case StateActive:
		return "active"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Module is an archive known to a [Framework].
type Module interface {
	Path() string
	State() State
	// IsFragment reports whether the module attaches to a host and is never
	// started on its own.
	IsFragment() bool
}

// Framework is the module system the driver activates archives in.
type Framework interface {
	// Lookup returns the module previously installed from path.
	Lookup(path string) (Module, bool)
	// Install installs the archive at path. It does not start it.
	Install(ctx context.Context, path string) (Module, error)
	// Start activates an installed module.
	Start(ctx context.Context, m Module) error
}

// Recorder is an in-memory [Framework]. It records installs and starts
// without loading anything, which makes it the dry-run framework of the CLI
// and the framework of tests.
//
// Fragment status is taken from the catalog record with the same path.
// Recorder is safe for concurrent use.
type Recorder struct {
	cat *catalog.Catalog

	mu        sync.Mutex
	modules   map[string]*recordedModule
	installed []string
	started   []string

	// InstallErr and StartErr, when set, are consulted before every install
	// or start; a non-nil result fails the call.
	InstallErr func(path string) error
	StartErr   func(path string) error
}

type recordedModule struct {
	path     string
	state    State
	fragment bool
}

func (m *recordedModule) Path() string     { return m.path }
func (m *recordedModule) State() State     { return m.state }
func (m *recordedModule) IsFragment() bool { return m.fragment }

// NewRecorder creates a recorder. cat may be nil, in which case no module is
// a fragment.
func NewRecorder(cat *catalog.Catalog) *Recorder {
	return &Recorder{cat: cat, modules: make(map[string]*recordedModule)}
}

// Preload marks path as already present in the framework with the given state.
func (r *Recorder) Preload(path string, state State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[path] = &recordedModule{path: path, state: state, fragment: r.isFragment(path)}
}

func (r *Recorder) isFragment(path string) bool {
	if r.cat == nil {
		return false
	}
	for _, rec := range r.cat.Records() {
		if rec.Path == path {
			return rec.Fragment
		}
	}
	return false
}

// Lookup implements [Framework].
func (r *Recorder) Lookup(path string) (Module, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.modules[path]
	if !ok {
		return nil, false
	}
	return m, true
}

// Install implements [Framework].
func (r *Recorder) Install(ctx context.Context, path string) (Module, error) {
	if r.InstallErr != nil {
		if err := r.InstallErr(path); err != nil {
			return nil, err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.modules[path]; ok {
		return m, nil
	}
	m := &recordedModule{path: path, state: StateInstalled, fragment: r.isFragment(path)}
	r.modules[path] = m
	r.installed = append(r.installed, path)
	return m, nil
}

// Start implements [Framework].
func (r *Recorder) Start(ctx context.Context, m Module) error {
	if r.StartErr != nil {
		if err := r.StartErr(m.Path()); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rm, ok := r.modules[m.Path()]
	if !ok {
		return fmt.Errorf("module %s is not installed", m.Path())
	}
	if rm.fragment {
		return fmt.Errorf("fragment %s cannot be started", m.Path())
	}
	rm.state = StateActive
	r.started = append(r.started, m.Path())
	return nil
}

// Installed returns the paths installed through this recorder, in order.
func (r *Recorder) Installed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.installed...)
}

// Started returns the paths started through this recorder, in order.
func (r *Recorder) Started() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.started...)
}

var _ Framework = (*Recorder)(nil)
