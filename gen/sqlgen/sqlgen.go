// Package sqlgen assembles typed data-access modules for relational schemas,
// the SQL counterpart of the graph generator. Artifacts follow the same
// contract: self-contained, destructive-idempotent, linked against the shared
// runtime.
package sqlgen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dave/jennifer/jen"

	"github.com/gardenlabs/grasshopper"
	"github.com/gardenlabs/grasshopper/dialect"
	"github.com/gardenlabs/grasshopper/gen"
	"github.com/gardenlabs/grasshopper/graph"
	"github.com/gardenlabs/grasshopper/introspect/sqlschema"
)

const (
	graphPkg = "github.com/gardenlabs/grasshopper/graph"
	sqlrtPkg = "github.com/gardenlabs/grasshopper/dialect/sql"
	stdPkg   = "database/sql"
)

// Config controls one generation run.
type Config struct {
	Dir     string
	Package string
	// Dialect selects the placeholder style of the generated queries.
	Dialect   string
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

// WithDialect sets the target dialect. Defaults to postgres.
func WithDialect(d string) Option {
	return func(c *Config) { c.Dialect = d }
}

// WithTimestamp sets the provenance timestamp.
func WithTimestamp(ts string) Option {
	return func(c *Config) { c.Timestamp = ts }
}

// Generate assembles the access module for the given relational snapshot and
// writes it to <dir>/<package>.go.
func Generate(name string, s *sqlschema.Schema, opts ...Option) (string, error) {
	cfg := Config{Dir: ".", Dialect: dialect.Postgres}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Package == "" {
		cfg.Package = strings.ToLower(name) + "sql"
	}
	if cfg.Timestamp == "" {
		cfg.Timestamp = time.Now().Format(time.RFC3339)
	}

	src, err := assemble(s, cfg)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("sqlgen: create output directory: %w", err)
	}
	path := filepath.Join(cfg.Dir, cfg.Package+".go")
	if err := promote(path, src); err != nil {
		return "", err
	}
	return path, nil
}

func assemble(s *sqlschema.Schema, cfg Config) ([]byte, error) {
	if err := checkIdents(s); err != nil {
		return nil, err
	}
	tables := slices.Clone(s.Tables)
	slices.SortFunc(tables, func(a, b sqlschema.Table) int {
		return strings.Compare(a.Name, b.Name)
	})

	f := jen.NewFile(cfg.Package)
	f.HeaderComment(fmt.Sprintf("Code generated by grasshopper v%s. DO NOT EDIT.", gen.Version))
	f.HeaderComment("Generated: " + cfg.Timestamp)
	// The runtime package is also named sql; alias it away from database/sql.
	f.ImportAlias(sqlrtPkg, "sqld")

	f.Comment("Dialect selects the placeholder style of every query this module builds.")
	f.Const().Id("Dialect").Op("=").Lit(cfg.Dialect)
	f.Line()

	f.Comment("Columns holds the discovered column kinds per table. Filter values are")
	f.Comment("validated against them before any query runs.")
	f.Var().Id("Columns").Op("=").Map(jen.String()).Qual(graphPkg, "Properties").Values(columnsDict(tables))
	f.Line()

	f.Comment("Module exposes one typed accessor per discovered table.")
	f.Type().Id("Module").Struct(
		jen.Id("db").Op("*").Qual(stdPkg, "DB"),
	)
	f.Line()

	f.Comment("New returns a Module executing against the given database handle.")
	f.Func().Id("New").Params(jen.Id("db").Op("*").Qual(stdPkg, "DB")).Op("*").Id("Module").Block(
		jen.Return(jen.Op("&").Id("Module").Values(jen.Dict{jen.Id("db"): jen.Id("db")})),
	)
	f.Line()

	names := make([]jen.Code, 0, len(tables))
	for _, t := range tables {
		names = append(names, jen.Lit(t.Name))
	}
	f.Comment("TableNames lists the tables this module serves, sorted.")
	f.Func().Params(jen.Id("m").Op("*").Id("Module")).Id("TableNames").Params().Index().String().Block(
		jen.Return(jen.Index().String().Values(names...)),
	)

	for _, t := range tables {
		f.Line()
		goName := gen.GoName(t.Name)
		f.Comment(fmt.Sprintf("%s returns %s rows matching the given column filters.", goName, t.Name))
		f.Func().Params(jen.Id("m").Op("*").Id("Module")).Id(goName).Params(
			jen.Id("ctx").Qual("context", "Context"),
			jen.Id("filters").Map(jen.String()).Id("any"),
		).Params(
			jen.Index().Map(jen.String()).Id("any"),
			jen.Id("error"),
		).Block(
			jen.Return(jen.Qual(sqlrtPkg, "Select").Call(
				jen.Id("ctx"),
				jen.Id("m").Dot("db"),
				jen.Id("Dialect"),
				jen.Lit(t.Name),
				jen.Id("Columns").Index(jen.Lit(t.Name)),
				jen.Id("filters"),
			)),
		)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("sqlgen: render artifact: %w", err)
	}
	return buf.Bytes(), nil
}

// columnsDict renders the per-table column kinds as a map literal.
func columnsDict(tables []sqlschema.Table) jen.Dict {
	d := jen.Dict{}
	for _, t := range tables {
		inner := jen.Dict{}
		for _, c := range t.Columns {
			inner[jen.Lit(c.Name)] = kindQual(c.Kind)
		}
		d[jen.Lit(t.Name)] = jen.Values(inner)
	}
	return d
}

func kindQual(k graph.Kind) *jen.Statement {
	name := "KindAny"
	switch k {
	case graph.KindString:
		name = "KindString"
	case graph.KindInteger:
		name = "KindInteger"
	case graph.KindFloat:
		name = "KindFloat"
	case graph.KindBoolean:
		name = "KindBoolean"
	case graph.KindDate:
		name = "KindDate"
	case graph.KindDateTime:
		name = "KindDateTime"
	case graph.KindList:
		name = "KindList"
	case graph.KindMap:
		name = "KindMap"
	}
	return jen.Qual(graphPkg, name)
}

// checkIdents fails the run when two table names collapse to the same
// accessor identifier or exported method name, or when a table claims a
// method the artifact already declares on Module.
func checkIdents(s *sqlschema.Schema) error {
	byIdent := map[string][]string{}
	byName := map[string][]string{}
	for _, t := range s.Tables {
		ident := graph.AccessorIdent(t.Name)
		byIdent[ident] = append(byIdent[ident], t.Name)
		byName[gen.GoName(t.Name)] = append(byName[gen.GoName(t.Name)], t.Name)
	}
	for ident, claimants := range byIdent {
		if len(claimants) > 1 {
			slices.Sort(claimants)
			return grasshopper.NewIdentifierConflictError(ident, claimants)
		}
	}
	for name, claimants := range byName {
		if name == "TableNames" || len(claimants) > 1 {
			slices.Sort(claimants)
			return grasshopper.NewIdentifierConflictError(name, claimants)
		}
	}
	return nil
}

func promote(path string, src []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sqlgen-*.go")
	if err != nil {
		return fmt.Errorf("sqlgen: write artifact: %w", err)
	}
	if _, err := tmp.Write(src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("sqlgen: write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("sqlgen: write artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("sqlgen: promote artifact: %w", err)
	}
	return nil
}
