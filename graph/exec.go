package graph

import (
	"context"

	"github.com/gardenlabs/grasshopper/dialect"
)

// NodeFunc is the call contract of a generated node accessor.
type NodeFunc func(ctx context.Context, opts ...FilterOption) ([]Node, error)

// EdgeFunc is the call contract of a generated relationship accessor.
type EdgeFunc func(ctx context.Context, opts ...FilterOption) ([]Triple, error)

// QueryNodes executes the node accessor contract for one label: the optional
// ID folds into the filters, known properties are validated and coerced
// against the schema, unknown properties pass through untyped, and the result
// is an ordered, possibly empty, never-nil list. Query execution failures
// propagate to the caller; absorbing them is the adapter's job, not this
// layer's.
func QueryNodes(ctx context.Context, q dialect.Querier, sch *Schema, label string, opts ...FilterOption) ([]Node, error) {
	f := NewFilters(opts...)
	props, err := CoerceFilters(f.PropertyFilters(), sch.NodeKinds(label))
	if err != nil {
		return nil, err
	}
	text, params := NodeQuery(label, props)
	rows, err := q.Query(ctx, text, params)
	if err != nil {
		return nil, err
	}
	out := make([]Node, 0, len(rows))
	for _, row := range rows {
		out = append(out, AsNode(row["n"]))
	}
	return out, nil
}

// QueryEdges executes the relationship accessor contract for one type.
// Start/end constraints follow the filters: both set matches the exact pair,
// one set matches one-sided, neither matches on property filters alone.
func QueryEdges(ctx context.Context, q dialect.Querier, sch *Schema, typ string, opts ...FilterOption) ([]Triple, error) {
	f := NewFilters(opts...)
	props, err := CoerceFilters(f.PropertyFilters(), sch.EdgeKinds(typ))
	if err != nil {
		return nil, err
	}
	text, params := EdgeQuery(typ, f.StartID, f.EndID, props)
	rows, err := q.Query(ctx, text, params)
	if err != nil {
		return nil, err
	}
	out := make([]Triple, 0, len(rows))
	for _, row := range rows {
		out = append(out, AsTriple(row, "a", "r", "b"))
	}
	return out, nil
}
