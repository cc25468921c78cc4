// Package registry persists named connection profiles in a YAML file, so the
// CLI can address databases by name instead of repeating credentials. Listing
// masks passwords; the file itself is written with owner-only permissions.
package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/gardenlabs/grasshopper/dialect/bolt"
)

// DefaultFile is the registry file name, looked up under the user config
// directory when no explicit path is given.
const DefaultFile = "connections.yaml"

const passwordMask = "********"

// Connection is one saved profile.
type Connection struct {
	Name     string `yaml:"name"`
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password,omitempty"`
	Database string `yaml:"database,omitempty"`
	// Artifact is the path of the module last generated from this profile.
	Artifact string `yaml:"artifact,omitempty"`
}

// Masked returns a copy safe for display and logs.
func (c Connection) Masked() Connection {
	if c.Password != "" {
		c.Password = passwordMask
	}
	return c
}

// Open dials the profile's database.
func (c Connection) Open(ctx context.Context) (*bolt.Driver, error) {
	return bolt.Open(ctx, bolt.Config{
		URI:      c.URI,
		Username: c.Username,
		Password: c.Password,
		Database: c.Database,
	})
}

type registryFile struct {
	Default     string       `yaml:"default,omitempty"`
	Connections []Connection `yaml:"connections"`
}

// Registry is a set of profiles backed by one file. Mutations persist
// immediately.
type Registry struct {
	path string

	mu   sync.Mutex
	file registryFile
}

// Open loads the registry at path. A missing file is an empty registry, not
// an error.
func Open(path string) (*Registry, error) {
	r := &Registry{path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("registry: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &r.file); err != nil {
		return nil, fmt.Errorf("registry: parse %s: %w", path, err)
	}
	return r, nil
}

// Add saves a profile and returns it. A profile without a name gets a short
// random one; a profile reusing an existing name replaces it. The first
// profile added becomes the default.
func (r *Registry) Add(c Connection) (Connection, error) {
	if c.URI == "" {
		return Connection{}, fmt.Errorf("registry: profile needs a uri")
	}
	if c.Name == "" {
		c.Name = shortName()
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	replaced := false
	for i := range r.file.Connections {
		if r.file.Connections[i].Name == c.Name {
			r.file.Connections[i] = c
			replaced = true
			break
		}
	}
	if !replaced {
		r.file.Connections = append(r.file.Connections, c)
	}
	if r.file.Default == "" {
		r.file.Default = c.Name
	}
	if err := r.save(); err != nil {
		return Connection{}, err
	}
	return c, nil
}

// Remove deletes a profile by name. Removing the default clears it.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := slices.DeleteFunc(slices.Clone(r.file.Connections), func(c Connection) bool {
		return c.Name == name
	})
	if len(kept) == len(r.file.Connections) {
		return fmt.Errorf("registry: no profile named %q", name)
	}
	r.file.Connections = kept
	if r.file.Default == name {
		r.file.Default = ""
	}
	return r.save()
}

// Get returns the profile with the given name, credentials intact.
func (r *Registry) Get(name string) (Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.file.Connections {
		if c.Name == name {
			return c, true
		}
	}
	return Connection{}, false
}

// Default returns the default profile, if one is set.
func (r *Registry) Default() (Connection, bool) {
	r.mu.Lock()
	name := r.file.Default
	r.mu.Unlock()
	if name == "" {
		return Connection{}, false
	}
	return r.Get(name)
}

// SetDefault marks an existing profile as the default.
func (r *Registry) SetDefault(name string) error {
	if _, ok := r.Get(name); !ok {
		return fmt.Errorf("registry: no profile named %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.file.Default = name
	return r.save()
}

// SetArtifact records the module path last generated from a profile.
func (r *Registry) SetArtifact(name, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.file.Connections {
		if r.file.Connections[i].Name == name {
			r.file.Connections[i].Artifact = path
			return r.save()
		}
	}
	return fmt.Errorf("registry: no profile named %q", name)
}

// List returns every profile sorted by name, passwords masked.
func (r *Registry) List() []Connection {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Connection, 0, len(r.file.Connections))
	for _, c := range r.file.Connections {
		out = append(out, c.Masked())
	}
	slices.SortFunc(out, func(a, b Connection) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// save writes the registry file atomically with owner-only permissions.
// Callers hold the mutex.
func (r *Registry) save() error {
	data, err := yaml.Marshal(&r.file)
	if err != nil {
		return fmt.Errorf("registry: marshal: %w", err)
	}
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("registry: create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".connections-*.yaml")
	if err != nil {
		return fmt.Errorf("registry: write %s: %w", r.path, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("registry: write %s: %w", r.path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("registry: write %s: %w", r.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("registry: write %s: %w", r.path, err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("registry: promote %s: %w", r.path, err)
	}
	return nil
}

// shortName derives a compact random profile name.
func shortName() string {
	return "conn-" + uuid.NewString()[:8]
}
