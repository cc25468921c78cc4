package adapter_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardenlabs/grasshopper/adapter"
	"github.com/gardenlabs/grasshopper/graph"
)

func testSchema() *graph.Schema {
	return &graph.Schema{
		NodeLabels: []string{"Movie", "Person"},
		NodeProperties: map[string]graph.Properties{
			"Movie":  {"title": graph.KindString},
			"Person": {"name": graph.KindString},
		},
		EdgeTypes: []string{"ACTED_IN", "DIRECTED"},
	}
}

// fullModule mimics a generated module: metadata, typed accessors, and a raw
// surface.
type fullModule struct {
	nodeCalls []graph.Filters
	edgeCalls []string
	rawCalls  []string

	nodeErr error
	rawRows []map[string]any
	rawErr  error
}

func (m *fullModule) Metadata() *graph.Schema { return testSchema() }

func (m *fullModule) NodeAccessor(label string) (graph.NodeFunc, bool) {
	if graph.AccessorIdent(label) != "movie" {
		return nil, false
	}
	return func(_ context.Context, opts ...graph.FilterOption) ([]graph.Node, error) {
		m.nodeCalls = append(m.nodeCalls, graph.NewFilters(opts...))
		if m.nodeErr != nil {
			return nil, m.nodeErr
		}
		return []graph.Node{{ID: "m1", Labels: []string{"Movie"}, Properties: map[string]any{"title": "Heat"}}}, nil
	}, true
}

func (m *fullModule) EdgeAccessor(typ string) (graph.EdgeFunc, bool) {
	ident := graph.AccessorIdent(typ)
	if ident != "acted_in" && ident != "directed" {
		return nil, false
	}
	return func(_ context.Context, opts ...graph.FilterOption) ([]graph.Triple, error) {
		f := graph.NewFilters(opts...)
		m.edgeCalls = append(m.edgeCalls, ident+":"+f.StartID+":"+f.EndID)
		return []graph.Triple{{Rel: graph.Relationship{ID: "r-" + ident, Type: typ}}}, nil
	}, true
}

func (m *fullModule) ExecuteQuery(_ context.Context, text string, _ map[string]any) ([]map[string]any, error) {
	m.rawCalls = append(m.rawCalls, text)
	return m.rawRows, m.rawErr
}

// rawModule exposes only the raw surface.
type rawModule struct {
	queries []string
	rows    []map[string]any
	err     error
}

func (m *rawModule) ExecuteQuery(_ context.Context, text string, _ map[string]any) ([]map[string]any, error) {
	m.queries = append(m.queries, text)
	return m.rows, m.err
}

// nodesOnlyModule has metadata and node accessors but no way to serve edges.
type nodesOnlyModule struct{}

func (nodesOnlyModule) Metadata() *graph.Schema { return testSchema() }
func (nodesOnlyModule) NodeAccessor(string) (graph.NodeFunc, bool) {
	return nil, false
}

// brokenMetaModule panics when asked for metadata but still serves raw
// queries.
type brokenMetaModule struct {
	rawModule
}

func (*brokenMetaModule) Metadata() *graph.Schema {
	panic("snapshot not loaded")
}

// panicModule panics on every accessor call.
type panicModule struct{}

func (panicModule) Metadata() *graph.Schema { return testSchema() }
func (panicModule) NodeAccessor(string) (graph.NodeFunc, bool) {
	return func(context.Context, ...graph.FilterOption) ([]graph.Node, error) {
		panic("module bug")
	}, true
}

func TestWrapClassifiesOnce(t *testing.T) {
	assert.Equal(t, adapter.Structured, adapter.Wrap(&fullModule{}).Capability())
	assert.Equal(t, adapter.Structured, adapter.Wrap(nodesOnlyModule{}).Capability())
	assert.Equal(t, adapter.RawQuery, adapter.Wrap(&rawModule{}).Capability())
	assert.Equal(t, adapter.Unsupported, adapter.Wrap(struct{}{}).Capability())
	assert.Equal(t, adapter.Unsupported, adapter.Wrap(nil).Capability())
}

func TestWrapSurvivesPanickingMetadata(t *testing.T) {
	mod := &brokenMetaModule{rawModule{rows: []map[string]any{{"x": int64(1)}}}}

	var a *adapter.Adapter
	assert.NotPanics(t, func() { a = adapter.Wrap(mod) })

	// Without a snapshot the module still classifies by its raw surface.
	assert.Equal(t, adapter.RawQuery, a.Capability())
	assert.Nil(t, a.Metadata())
	assert.Len(t, a.Query(context.Background(), "RETURN 1;", nil), 1)
}

func TestNodesStructured(t *testing.T) {
	mod := &fullModule{}
	a := adapter.Wrap(mod)

	nodes := a.Nodes(context.Background(), "Movie", map[string]any{"title": "Heat"})
	require.Len(t, nodes, 1)
	assert.Equal(t, "m1", nodes[0].ID)

	require.Len(t, mod.nodeCalls, 1)
	assert.Equal(t, map[string]any{"title": "Heat"}, mod.nodeCalls[0].Props)
}

func TestNodesFallsBackToRawForUnknownLabel(t *testing.T) {
	// The module has no Person accessor, but it does have a raw surface.
	mod := &fullModule{rawRows: []map[string]any{
		{"n": map[string]any{"uuid": "p1", "labels": []any{"Person"}, "props": map[string]any{"name": "Al"}}},
	}}
	a := adapter.Wrap(mod)

	nodes := a.Nodes(context.Background(), "Person", map[string]any{"name": "Al"})
	require.Len(t, nodes, 1)
	assert.Equal(t, "p1", nodes[0].ID)
	assert.Equal(t, "Al", nodes[0].Properties["name"])

	require.Len(t, mod.rawCalls, 1)
	assert.Contains(t, mod.rawCalls[0], "MATCH (n:`Person`")
}

func TestNodeByID(t *testing.T) {
	mod := &fullModule{}
	a := adapter.Wrap(mod)

	node, ok := a.Node(context.Background(), "Movie", "m1")
	require.True(t, ok)
	assert.Equal(t, "m1", node.ID)
	require.Len(t, mod.nodeCalls, 1)
	assert.Equal(t, "m1", mod.nodeCalls[0].Props[graph.IDProperty])

	mod.nodeErr = errors.New("boom")
	_, ok = a.Node(context.Background(), "Movie", "m1")
	assert.False(t, ok)
}

func TestTraversalFansOutOverEdgeTypes(t *testing.T) {
	mod := &fullModule{}
	a := adapter.Wrap(mod)

	triples := a.Outgoing(context.Background(), "p1")
	require.Len(t, triples, 2)
	assert.Equal(t, []string{"acted_in:p1:", "directed:p1:"}, mod.edgeCalls)

	mod.edgeCalls = nil
	a.Incoming(context.Background(), "m1")
	assert.Equal(t, []string{"acted_in::m1", "directed::m1"}, mod.edgeCalls)
}

func TestTraversalRawFallback(t *testing.T) {
	mod := &rawModule{rows: []map[string]any{
		{
			"a": map[string]any{"uuid": "p1", "labels": []any{"Person"}},
			"r": map[string]any{"uuid": "r1", "type": "ACTED_IN"},
			"b": map[string]any{"uuid": "m1", "labels": []any{"Movie"}},
		},
	}}
	a := adapter.Wrap(mod)

	triples := a.Incoming(context.Background(), "m1")
	require.Len(t, triples, 1)
	assert.Equal(t, "ACTED_IN", triples[0].Rel.Type)
	assert.Equal(t, "p1", triples[0].Start.ID)

	require.Len(t, mod.queries, 1)
	assert.Contains(t, mod.queries[0], "b.uuid = $_end_uuid")
}

func TestEdgesWithoutAnySurfaceComeBackEmpty(t *testing.T) {
	// Metadata and node accessors alone cannot serve traversals; the answer
	// is empty, not an error.
	a := adapter.Wrap(nodesOnlyModule{})

	out := a.Outgoing(context.Background(), "p1")
	assert.NotNil(t, out)
	assert.Empty(t, out)
	in := a.Incoming(context.Background(), "p1")
	assert.NotNil(t, in)
	assert.Empty(t, in)
}

func TestFailuresAreAbsorbed(t *testing.T) {
	t.Run("AccessorError", func(t *testing.T) {
		mod := &fullModule{nodeErr: errors.New("connection reset")}
		nodes := adapter.Wrap(mod).Nodes(context.Background(), "Movie", nil)
		assert.NotNil(t, nodes)
		assert.Empty(t, nodes)
	})

	t.Run("RawError", func(t *testing.T) {
		mod := &rawModule{err: errors.New("no routing table")}
		a := adapter.Wrap(mod)
		assert.Empty(t, a.Nodes(context.Background(), "Movie", nil))
		assert.Empty(t, a.Query(context.Background(), "RETURN 1;", nil))
		assert.Empty(t, a.NodeLabels(context.Background()))
	})

	t.Run("Panic", func(t *testing.T) {
		nodes := adapter.Wrap(panicModule{}).Nodes(context.Background(), "Movie", nil)
		assert.NotNil(t, nodes)
		assert.Empty(t, nodes)
	})
}

func TestUnsupportedModuleServesNothing(t *testing.T) {
	a := adapter.Wrap(struct{}{})
	ctx := context.Background()

	assert.Empty(t, a.NodeLabels(ctx))
	assert.Empty(t, a.RelationshipTypes(ctx))
	assert.Empty(t, a.Nodes(ctx, "Movie", nil))
	assert.Empty(t, a.Outgoing(ctx, "p1"))
	assert.Empty(t, a.Query(ctx, "RETURN 1;", nil))
	_, ok := a.Node(ctx, "Movie", "m1")
	assert.False(t, ok)
	assert.Nil(t, a.Metadata())
}

func TestCatalogFromMetadataOrRaw(t *testing.T) {
	a := adapter.Wrap(&fullModule{})
	assert.Equal(t, []string{"Movie", "Person"}, a.NodeLabels(context.Background()))
	assert.Equal(t, []string{"ACTED_IN", "DIRECTED"}, a.RelationshipTypes(context.Background()))

	raw := &rawModule{rows: []map[string]any{{"labels": []any{"Person", "Movie"}}}}
	got := adapter.Wrap(raw).NodeLabels(context.Background())
	assert.Equal(t, []string{"Movie", "Person"}, got)
	require.Len(t, raw.queries, 1)
	assert.True(t, strings.Contains(raw.queries[0], "db.labels"))
}
