package graph_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardenlabs/grasshopper"
	"github.com/gardenlabs/grasshopper/graph"
)

// fakeQuerier records the last executed query and plays back canned rows.
type fakeQuerier struct {
	text   string
	params map[string]any
	rows   []map[string]any
	err    error
}

func (f *fakeQuerier) Query(_ context.Context, text string, params map[string]any) ([]map[string]any, error) {
	f.text = text
	f.params = params
	return f.rows, f.err
}

var movieSchema = &graph.Schema{
	NodeLabels: []string{"Movie", "Person"},
	NodeProperties: map[string]graph.Properties{
		"Movie":  {"title": graph.KindString, "released": graph.KindInteger},
		"Person": {"name": graph.KindString, "born": graph.KindInteger},
	},
	EdgeTypes: []string{"ACTED_IN"},
	EdgeProperties: map[string]graph.Properties{
		"ACTED_IN": {"roles": graph.KindList},
	},
	EdgeEndpoints: map[string]graph.Endpoints{
		"ACTED_IN": {Start: []string{"Person"}, End: []string{"Movie"}},
	},
}

func TestQueryNodes(t *testing.T) {
	t.Run("CoercesKnownFilters", func(t *testing.T) {
		// movie(released="2010") must be observably equivalent to
		// movie(released=2010): the coerced value is what the effective
		// query filter uses.
		q := &fakeQuerier{}
		_, err := graph.QueryNodes(context.Background(), q, movieSchema, "Movie",
			graph.WithProperty("released", "2010"))
		require.NoError(t, err)
		coerced := q.params["released"]

		_, err = graph.QueryNodes(context.Background(), q, movieSchema, "Movie",
			graph.WithProperty("released", int64(2010)))
		require.NoError(t, err)
		assert.Equal(t, q.params["released"], coerced)
		assert.Equal(t, int64(2010), coerced)
	})

	t.Run("IDIsAnEqualityFilter", func(t *testing.T) {
		q := &fakeQuerier{}
		_, err := graph.QueryNodes(context.Background(), q, movieSchema, "Movie",
			graph.WithID("m1"))
		require.NoError(t, err)
		assert.Equal(t, "MATCH (n:`Movie` {`uuid`: $uuid}) RETURN n;", q.text)
		assert.Equal(t, "m1", q.params["uuid"])
	})

	t.Run("EmptyResultIsEmptyList", func(t *testing.T) {
		q := &fakeQuerier{rows: nil}
		nodes, err := graph.QueryNodes(context.Background(), q, movieSchema, "Movie")
		require.NoError(t, err)
		assert.NotNil(t, nodes)
		assert.Empty(t, nodes)
	})

	t.Run("PropagatesQueryFailure", func(t *testing.T) {
		q := &fakeQuerier{err: errors.New("boom")}
		_, err := graph.QueryNodes(context.Background(), q, movieSchema, "Movie")
		assert.Error(t, err)
	})

	t.Run("TypeMismatchBeforeQuery", func(t *testing.T) {
		q := &fakeQuerier{}
		_, err := graph.QueryNodes(context.Background(), q, movieSchema, "Movie",
			graph.WithProperty("released", true))
		assert.True(t, grasshopper.IsTypeMismatch(err))
		assert.Empty(t, q.text, "no query should be issued after a mismatch")
	})

	t.Run("NormalizesRows", func(t *testing.T) {
		q := &fakeQuerier{rows: []map[string]any{
			{"n": map[string]any{
				"uuid":   "m1",
				"labels": []any{"Movie"},
				"props":  map[string]any{"title": "Inception"},
			}},
		}}
		nodes, err := graph.QueryNodes(context.Background(), q, movieSchema, "Movie",
			graph.WithProperty("title", "Inception"))
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.Equal(t, "Inception", nodes[0].Properties["title"])
	})
}

func TestQueryEdges(t *testing.T) {
	t.Run("EndpointConstraints", func(t *testing.T) {
		q := &fakeQuerier{}
		_, err := graph.QueryEdges(context.Background(), q, movieSchema, "ACTED_IN",
			graph.WithStartID("p1"), graph.WithEndID("m1"))
		require.NoError(t, err)
		assert.Contains(t, q.text, "a.uuid = $_start_uuid AND b.uuid = $_end_uuid")
	})

	t.Run("TriplesInRowOrder", func(t *testing.T) {
		q := &fakeQuerier{rows: []map[string]any{
			{
				"a": map[string]any{"uuid": "p1", "labels": []any{"Person"}, "props": map[string]any{"name": "Leo"}},
				"r": map[string]any{"uuid": "e1", "type": "ACTED_IN", "props": map[string]any{}},
				"b": map[string]any{"uuid": "m1", "labels": []any{"Movie"}, "props": map[string]any{"title": "Inception"}},
			},
		}}
		triples, err := graph.QueryEdges(context.Background(), q, movieSchema, "ACTED_IN")
		require.NoError(t, err)
		require.Len(t, triples, 1)
		assert.Equal(t, "p1", triples[0].Start.ID)
		assert.Equal(t, "ACTED_IN", triples[0].Rel.Type)
		assert.Equal(t, "m1", triples[0].End.ID)
	})

	t.Run("EmptyResultIsEmptyList", func(t *testing.T) {
		q := &fakeQuerier{}
		triples, err := graph.QueryEdges(context.Background(), q, movieSchema, "ACTED_IN")
		require.NoError(t, err)
		assert.NotNil(t, triples)
		assert.Empty(t, triples)
	})
}
