// Package gen assembles a self-contained, typed data-access module from a
// schema snapshot. Regeneration is destructive-idempotent: the artifact is
// rendered in full, formatted, and promoted atomically over any prior
// artifact at the same path; hand edits never survive a run.
package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/tools/imports"

	"github.com/gardenlabs/grasshopper/graph"
)

// Version is stamped into the provenance header of every artifact.
const Version = "0.1.0"

// runtimePackage is the shared runtime generated modules link against,
// instead of re-embedding copies of query construction and coercion code.
const runtimePackage = "github.com/gardenlabs/grasshopper"

// Config controls one generation run.
type Config struct {
	// Dir is the output directory. Created if absent.
	Dir string
	// Package is the package name of the artifact; it also names the file
	// (<package>.go). Defaults to <name>graph.
	Package string
	// URI, Username, and Database are embedded as connection constants.
	// Passwords are never written into artifacts.
	URI      string
	Username string
	Database string
	// Timestamp is the provenance timestamp comment, the only content
	// permitted to differ between runs over an unchanged schema. Defaults
	// to the local time in RFC 3339.
	Timestamp string
}

// Option configures a generation run.
type Option func(*Config)

// WithDir sets the output directory.
func WithDir(dir string) Option {
	return func(c *Config) { c.Dir = dir }
}

// WithPackage overrides the artifact package name.
func WithPackage(pkg string) Option {
	return func(c *Config) { c.Package = pkg }
}

// WithConnection embeds the connection constants captured at generation
// time.
func WithConnection(uri, username, database string) Option {
	return func(c *Config) {
		c.URI = uri
		c.Username = username
		c.Database = database
	}
}

// WithTimestamp sets the provenance timestamp, typically the database
// server's clock.
func WithTimestamp(ts string) Option {
	return func(c *Config) { c.Timestamp = ts }
}

// Generate assembles the access module for the given schema snapshot and
// writes it to <dir>/<package>.go, replacing any prior artifact wholesale.
// It returns the path of the written file.
func Generate(name string, s *graph.Schema, opts ...Option) (string, error) {
	cfg := Config{Dir: "."}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Package == "" {
		cfg.Package = packageName(name)
	}
	if cfg.Timestamp == "" {
		cfg.Timestamp = time.Now().Format(time.RFC3339)
	}

	src, err := Assemble(s, cfg)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("gen: create output directory: %w", err)
	}
	path := filepath.Join(cfg.Dir, cfg.Package+".go")
	if err := promote(path, src); err != nil {
		return "", err
	}
	return path, nil
}

// Assemble renders and formats the artifact source without touching the
// filesystem, so emission is testable with fixture metadata alone.
func Assemble(s *graph.Schema, cfg Config) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("gen: %w", err)
	}
	nodes, err := buildAccessors(s.NodeLabels)
	if err != nil {
		return nil, err
	}
	edges, err := buildAccessors(s.EdgeTypes)
	if err != nil {
		return nil, err
	}
	if err := checkMethodNames(nodes, edges); err != nil {
		return nil, err
	}

	data := templateData{
		Config:  cfg,
		Version: Version,
		Runtime: runtimePackage,
		Schema:  s,
		Nodes:   annotate(nodes, s.NodeProperties),
		Edges:   annotate(edges, s.EdgeProperties),
	}
	var buf bytes.Buffer
	if err := moduleTemplate.ExecuteTemplate(&buf, "module.tmpl", data); err != nil {
		return nil, fmt.Errorf("gen: execute template: %w", err)
	}
	formatted, err := imports.Process(cfg.Package+".go", buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("gen: format artifact: %w", err)
	}
	return formatted, nil
}

// promote writes the artifact to a temporary file in the target directory
// and renames it over the destination, so a crash mid-assembly can never
// leave a half-written file masquerading as a complete module.
func promote(path string, src []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".gen-*.go")
	if err != nil {
		return fmt.Errorf("gen: write artifact: %w", err)
	}
	if _, err := tmp.Write(src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("gen: write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("gen: write artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("gen: promote artifact: %w", err)
	}
	return nil
}

// packageName derives the artifact package name from the logical graph name,
// following the original <name>graph convention.
func packageName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return -1
	}, name)
	if clean == "" {
		clean = "new"
	}
	return clean + "graph"
}
