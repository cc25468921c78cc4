// Package adapter normalizes arbitrary access modules behind one read-only
// surface. The wrapped module's capability is classified exactly once, at
// wrap time, by interface assertion; requests the module cannot serve come
// back as empty results, never as errors or panics. The adapter is the
// boundary layer for callers that must not crash on a misbehaving module,
// such as retrieval middleware feeding a chat pipeline.
package adapter

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/gardenlabs/grasshopper/graph"
)

// Capability classifies what a wrapped module can serve.
type Capability int

const (
	// Unsupported modules expose no usable surface; every operation returns
	// empty results.
	Unsupported Capability = iota
	// RawQuery modules expose only raw query execution; the adapter serves
	// requests by building query text itself.
	RawQuery
	// Structured modules expose schema metadata and typed accessors.
	Structured
)

// String returns the capability name.
func (c Capability) String() string {
	switch c {
	case RawQuery:
		return "raw-query"
	case Structured:
		return "structured"
	}
	return "unsupported"
}

// Fallback query text for edge traversal when the module exposes no edge
// accessors. Column and parameter names mirror graph.EdgeQuery.
const (
	outgoingQuery = "MATCH (a)-[r]->(b) WHERE a.uuid = $_start_uuid RETURN a, r, b;"
	incomingQuery = "MATCH (a)-[r]->(b) WHERE b.uuid = $_end_uuid RETURN a, r, b;"
	labelsQuery   = "CALL db.labels() YIELD label RETURN collect(label) AS labels;"
	typesQuery    = "CALL db.relationshipTypes() YIELD relationshipType RETURN collect(relationshipType) AS relationshipTypes;"
)

// Adapter wraps a module behind the normalized surface.
type Adapter struct {
	capability Capability
	log        *zap.Logger
	meta       *graph.Schema
	nodes      NodeSource
	edges      EdgeSource
	raw        RawQuerier
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger. Absorbed failures are reported here and
// nowhere else.
func WithLogger(log *zap.Logger) Option {
	return func(a *Adapter) { a.log = log }
}

// Wrap classifies the module and returns an adapter over it. Classification
// never changes for the lifetime of the adapter, and the module's metadata is
// captured once here rather than re-read per request.
func Wrap(module any, opts ...Option) *Adapter {
	a := &Adapter{log: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	if mp, ok := module.(MetadataProvider); ok {
		a.meta = a.safeMetadata(mp)
	}
	a.nodes, _ = module.(NodeSource)
	a.edges, _ = module.(EdgeSource)
	a.raw, _ = module.(RawQuerier)
	switch {
	case a.meta != nil && a.nodes != nil:
		a.capability = Structured
	case a.raw != nil:
		a.capability = RawQuery
	default:
		a.capability = Unsupported
	}
	a.log = a.log.With(zap.Stringer("capability", a.capability))
	return a
}

// Capability reports the classification computed at wrap time.
func (a *Adapter) Capability() Capability {
	return a.capability
}

// Metadata returns a copy of the module's schema snapshot, or nil when the
// module exposes none.
func (a *Adapter) Metadata() *graph.Schema {
	return a.meta.Clone()
}

// NodeLabels lists the node labels the module knows about. Modules without
// metadata are asked through the raw surface.
func (a *Adapter) NodeLabels(ctx context.Context) (labels []string) {
	labels = []string{}
	defer a.absorb("NodeLabels", func() { labels = []string{} })
	if a.meta != nil {
		return slices.Clone(a.meta.NodeLabels)
	}
	return a.rawStrings(ctx, labelsQuery, "labels")
}

// RelationshipTypes lists the relationship types the module knows about.
func (a *Adapter) RelationshipTypes(ctx context.Context) (types []string) {
	types = []string{}
	defer a.absorb("RelationshipTypes", func() { types = []string{} })
	if a.meta != nil {
		return slices.Clone(a.meta.EdgeTypes)
	}
	return a.rawStrings(ctx, typesQuery, "relationshipTypes")
}

// Nodes returns the nodes of the given label matching the property filters.
// Unknown labels, accessor failures, and raw failures all come back empty.
func (a *Adapter) Nodes(ctx context.Context, label string, filters map[string]any) (nodes []graph.Node) {
	nodes = []graph.Node{}
	defer a.absorb("Nodes", func() { nodes = []graph.Node{} })
	got, err := a.queryNodes(ctx, label, filters)
	if err != nil {
		a.log.Warn("node query absorbed", zap.String("label", label), zap.Error(err))
		return nodes
	}
	return got
}

// Node returns the node of the given label with the given id, if the module
// can find it.
func (a *Adapter) Node(ctx context.Context, label, id string) (node graph.Node, ok bool) {
	defer a.absorb("Node", func() { node, ok = graph.Node{}, false })
	got, err := a.queryNodes(ctx, label, map[string]any{graph.IDProperty: id})
	if err != nil || len(got) == 0 {
		if err != nil {
			a.log.Warn("node lookup absorbed", zap.String("label", label), zap.Error(err))
		}
		return graph.Node{}, false
	}
	return got[0], true
}

// Outgoing returns every relationship starting at the given node, across all
// types the module serves.
func (a *Adapter) Outgoing(ctx context.Context, nodeID string) (triples []graph.Triple) {
	triples = []graph.Triple{}
	defer a.absorb("Outgoing", func() { triples = []graph.Triple{} })
	return a.traverse(ctx, nodeID, graph.WithStartID, outgoingQuery, "_start_uuid")
}

// Incoming returns every relationship ending at the given node.
func (a *Adapter) Incoming(ctx context.Context, nodeID string) (triples []graph.Triple) {
	triples = []graph.Triple{}
	defer a.absorb("Incoming", func() { triples = []graph.Triple{} })
	return a.traverse(ctx, nodeID, graph.WithEndID, incomingQuery, "_end_uuid")
}

// Query runs a raw read query when the module exposes a raw surface.
func (a *Adapter) Query(ctx context.Context, text string, params map[string]any) (rows []map[string]any) {
	rows = []map[string]any{}
	defer a.absorb("Query", func() { rows = []map[string]any{} })
	if a.raw == nil {
		return rows
	}
	got, err := a.raw.ExecuteQuery(ctx, text, params)
	if err != nil {
		a.log.Warn("raw query absorbed", zap.Error(err))
		return rows
	}
	if got == nil {
		return rows
	}
	return got
}

// queryNodes serves a node request through the typed accessor when one
// exists, else through the raw surface.
func (a *Adapter) queryNodes(ctx context.Context, label string, filters map[string]any) ([]graph.Node, error) {
	if a.nodes != nil {
		if fn, ok := a.nodes.NodeAccessor(label); ok {
			return fn(ctx, graph.WithProperties(filters))
		}
	}
	if a.raw == nil {
		a.log.Debug("no surface serves label", zap.String("label", label))
		return []graph.Node{}, nil
	}
	text, params := graph.NodeQuery(label, filters)
	rows, err := a.raw.ExecuteQuery(ctx, text, params)
	if err != nil {
		return nil, err
	}
	nodes := make([]graph.Node, 0, len(rows))
	for _, row := range rows {
		nodes = append(nodes, graph.AsNode(row["n"]))
	}
	return nodes, nil
}

// traverse serves a one-sided edge request. With typed edge accessors it
// fans out over every known relationship type; otherwise it falls back to a
// single raw traversal query.
func (a *Adapter) traverse(ctx context.Context, nodeID string, side func(string) graph.FilterOption, fallback, param string) []graph.Triple {
	triples := []graph.Triple{}
	if a.edges != nil && a.meta != nil {
		for _, typ := range a.meta.EdgeTypes {
			fn, ok := a.edges.EdgeAccessor(typ)
			if !ok {
				continue
			}
			got, err := fn(ctx, side(nodeID))
			if err != nil {
				a.log.Warn("edge accessor absorbed", zap.String("type", typ), zap.Error(err))
				continue
			}
			triples = append(triples, got...)
		}
		return triples
	}
	if a.raw == nil {
		a.log.Debug("no surface serves traversal", zap.String("node", nodeID))
		return triples
	}
	rows, err := a.raw.ExecuteQuery(ctx, fallback, map[string]any{param: nodeID})
	if err != nil {
		a.log.Warn("raw traversal absorbed", zap.Error(err))
		return triples
	}
	for _, row := range rows {
		triples = append(triples, graph.AsTriple(row, "a", "r", "b"))
	}
	return triples
}

// rawStrings runs a collect(...) catalog query through the raw surface.
func (a *Adapter) rawStrings(ctx context.Context, text, column string) []string {
	if a.raw == nil {
		return []string{}
	}
	rows, err := a.raw.ExecuteQuery(ctx, text, map[string]any{})
	if err != nil || len(rows) == 0 {
		if err != nil {
			a.log.Warn("catalog query absorbed", zap.Error(err))
		}
		return []string{}
	}
	out := []string{}
	switch v := rows[0][column].(type) {
	case []string:
		out = append(out, v...)
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
	}
	slices.Sort(out)
	return out
}

// safeMetadata reads the module's schema snapshot once, at wrap time. A module
// that panics here is classified without metadata instead of crashing the
// caller.
func (a *Adapter) safeMetadata(mp MetadataProvider) (s *graph.Schema) {
	defer a.absorb("Metadata", func() { s = nil })
	return mp.Metadata()
}

// absorb converts a module panic into an empty result. Deferred by every
// public operation.
func (a *Adapter) absorb(op string, reset func()) {
	if r := recover(); r != nil {
		a.log.Error("module panic absorbed", zap.String("op", op), zap.Any("panic", r))
		reset()
	}
}
