package output

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hupe1980/kubesplit/internal/kubeconfig"
)

// Encoder renders a Config in one output format.
type Encoder func(cfg *kubeconfig.Config) ([]byte, error)

// Format is a named Encoder with the file extension used for its files.
type Format struct {
	Name      string
	Extension string
	Encode    Encoder
}

// Registry maps format names to Formats.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]Format
}

// NewRegistry creates an empty format registry.
func NewRegistry() *Registry {
	return &Registry{
		formats: make(map[string]Format),
	}
}

// Register adds f under f.Name. Existing entries for the same name are
// overwritten.
func (r *Registry) Register(f Format) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.formats[f.Name] = f
}

// Format returns the format registered under name.
func (r *Registry) Format(name string) (Format, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formats[name]
	if !ok {
		return Format{}, fmt.Errorf("unknown output format %q (available: %s)", name, r.availableLocked())
	}

	return f, nil
}

// Formats returns the sorted list of registered format names.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.namesLocked()
}

// AvailableFormats returns a comma-separated string of registered format names.
func (r *Registry) AvailableFormats() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.availableLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (r *Registry) availableLocked() string {
	names := r.namesLocked()
	if len(names) == 0 {
		return "none"
	}

	return strings.Join(names, ", ")
}

// DefaultRegistry returns a registry with the yaml and json formats. The
// options are passed to every Dump call the encoders make.
func DefaultRegistry(opts ...kubeconfig.DumpOption) *Registry {
	r := NewRegistry()

	r.Register(Format{Name: "yaml", Extension: ".yaml", Encode: func(cfg *kubeconfig.Config) ([]byte, error) {
		return kubeconfig.Dump(cfg, opts...)
	}})
	r.Register(Format{Name: "json", Extension: ".json", Encode: func(cfg *kubeconfig.Config) ([]byte, error) {
		return kubeconfig.DumpJSON(cfg, opts...)
	}})

	return r
}
