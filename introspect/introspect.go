// Package introspect discovers the structure of a live property graph by
// sampling instance data: node labels, relationship types, per-entity
// property kinds, and observed relationship endpoints.
//
// Discovery is explicitly best-effort. Per-entity scans examine a bounded
// sample window, so rare properties or endpoint combinations outside the
// window are silently absent from the snapshot; there is no completeness
// guarantee and no confidence threshold. Any query failure, however, is fatal
// to the run — a partial or guessed schema is never an acceptable basis for a
// generated artifact.
package introspect

import (
	"context"
	"fmt"
	"slices"

	"github.com/gardenlabs/grasshopper"
	"github.com/gardenlabs/grasshopper/dialect"
	"github.com/gardenlabs/grasshopper/graph"
)

// DefaultSampleLimit bounds per-entity scans when no explicit limit is set.
// Label and type listing is always unbounded.
const DefaultSampleLimit = 1000

// Introspector runs catalog and sampling queries against a live database.
type Introspector struct {
	querier     dialect.Querier
	sampleLimit int
}

// Option configures an Introspector.
type Option func(*Introspector)

// WithSampleLimit bounds the number of instances examined per label or
// relationship type. A non-positive limit scans without bound.
func WithSampleLimit(n int) Option {
	return func(i *Introspector) { i.sampleLimit = n }
}

// New returns an Introspector over the given querier.
func New(q dialect.Querier, opts ...Option) *Introspector {
	i := &Introspector{querier: q, sampleLimit: DefaultSampleLimit}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Labels enumerates all node labels present in the database.
func (i *Introspector) Labels(ctx context.Context) ([]string, error) {
	text, params := labelsQuery()
	rows, err := i.querier.Query(ctx, text, params)
	if err != nil {
		return nil, grasshopper.NewSchemaQueryError(text, err)
	}
	return collectedStrings(rows, "labels"), nil
}

// RelationshipTypes enumerates all relationship types present in the
// database.
func (i *Introspector) RelationshipTypes(ctx context.Context) ([]string, error) {
	text, params := relationshipTypesQuery()
	rows, err := i.querier.Query(ctx, text, params)
	if err != nil {
		return nil, grasshopper.NewSchemaQueryError(text, err)
	}
	return collectedStrings(rows, "relationshipTypes"), nil
}

// NodeProperties scans up to sampleLimit nodes of the given label and returns
// the union of observed property keys with their inferred kinds.
func (i *Introspector) NodeProperties(ctx context.Context, label string) (graph.Properties, error) {
	text, params := nodePropertiesQuery(label, i.sampleLimit)
	rows, err := i.querier.Query(ctx, text, params)
	if err != nil {
		return nil, grasshopper.NewSchemaQueryError(text, err)
	}
	return propertiesOf(rows), nil
}

// EdgeProperties applies the same sampling strategy to relationships of the
// given type.
func (i *Introspector) EdgeProperties(ctx context.Context, typ string) (graph.Properties, error) {
	text, params := edgePropertiesQuery(typ, i.sampleLimit)
	rows, err := i.querier.Query(ctx, text, params)
	if err != nil {
		return nil, grasshopper.NewSchemaQueryError(text, err)
	}
	return propertiesOf(rows), nil
}

// EdgeEndpoints scans up to sampleLimit relationships of the given type and
// returns the union of label sets observed at the start and end nodes. A type
// with zero sampled instances yields two empty sets, not an error.
func (i *Introspector) EdgeEndpoints(ctx context.Context, typ string) (graph.Endpoints, error) {
	text, params := edgeEndpointsQuery(typ, i.sampleLimit)
	rows, err := i.querier.Query(ctx, text, params)
	if err != nil {
		return graph.Endpoints{}, grasshopper.NewSchemaQueryError(text, err)
	}
	ep := graph.Endpoints{Start: []string{}, End: []string{}}
	for _, row := range rows {
		ep.Start = unionStrings(ep.Start, stringsAt(row, "startLabels"))
		ep.End = unionStrings(ep.End, stringsAt(row, "endLabels"))
	}
	slices.Sort(ep.Start)
	slices.Sort(ep.End)
	return ep, nil
}

// ServerTimestamp returns the database server's current timestamp, used for
// the provenance comment in generated artifacts.
func (i *Introspector) ServerTimestamp(ctx context.Context) (string, error) {
	text, params := timestampQuery()
	rows, err := i.querier.Query(ctx, text, params)
	if err != nil {
		return "", grasshopper.NewSchemaQueryError(text, err)
	}
	if len(rows) == 0 {
		return "", grasshopper.NewSchemaQueryError(text, fmt.Errorf("empty result"))
	}
	return fmt.Sprint(rows[0]["timestamp"]), nil
}

// Snapshot performs one complete introspection pass and returns an immutable
// metadata snapshot. Entity names are sorted so an unchanged database yields
// an identical snapshot on every run. Any step failure aborts the pass.
func (i *Introspector) Snapshot(ctx context.Context) (*graph.Schema, error) {
	labels, err := i.Labels(ctx)
	if err != nil {
		return nil, err
	}
	slices.Sort(labels)

	types, err := i.RelationshipTypes(ctx)
	if err != nil {
		return nil, err
	}
	slices.Sort(types)

	s := &graph.Schema{
		NodeLabels:     labels,
		NodeProperties: make(map[string]graph.Properties, len(labels)),
		EdgeTypes:      types,
		EdgeProperties: make(map[string]graph.Properties, len(types)),
		EdgeEndpoints:  make(map[string]graph.Endpoints, len(types)),
	}
	for _, label := range labels {
		props, err := i.NodeProperties(ctx, label)
		if err != nil {
			return nil, err
		}
		s.NodeProperties[label] = props
	}
	for _, typ := range types {
		props, err := i.EdgeProperties(ctx, typ)
		if err != nil {
			return nil, err
		}
		s.EdgeProperties[typ] = props

		ep, err := i.EdgeEndpoints(ctx, typ)
		if err != nil {
			return nil, err
		}
		s.EdgeEndpoints[typ] = ep
	}
	return s, nil
}

// propertiesOf unions {key, type} rows into a property map. A key observed
// with conflicting types weakens to KindAny rather than trusting whichever
// row happened to come last.
func propertiesOf(rows []map[string]any) graph.Properties {
	props := make(graph.Properties, len(rows))
	for _, row := range rows {
		key, ok := row["key"].(string)
		if !ok || key == "" {
			continue
		}
		kind := graph.ParseKind(fmt.Sprint(row["type"]))
		if prev, seen := props[key]; seen && prev != kind {
			props[key] = graph.KindAny
			continue
		}
		props[key] = kind
	}
	return props
}

// collectedStrings reads a collect(...) result column from a single-row
// result set.
func collectedStrings(rows []map[string]any, column string) []string {
	if len(rows) == 0 {
		return []string{}
	}
	return stringsAt(rows[0], column)
}

func stringsAt(row map[string]any, column string) []string {
	switch v := row[column].(type) {
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}

func unionStrings(dst []string, add []string) []string {
	for _, s := range add {
		if !slices.Contains(dst, s) {
			dst = append(dst, s)
		}
	}
	return dst
}
