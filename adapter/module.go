package adapter

import (
	"context"

	"github.com/gardenlabs/grasshopper/graph"
)

// The wrapped module is duck-typed: any value satisfying some subset of these
// interfaces can be adapted. Generated modules satisfy all four, hand-written
// ones often fewer.

// MetadataProvider exposes the schema snapshot a module was generated from.
type MetadataProvider interface {
	Metadata() *graph.Schema
}

// NodeSource resolves node labels to typed accessors. The boolean reports
// whether the label is known to the module.
type NodeSource interface {
	NodeAccessor(label string) (graph.NodeFunc, bool)
}

// EdgeSource resolves relationship types to typed accessors.
type EdgeSource interface {
	EdgeAccessor(typ string) (graph.EdgeFunc, bool)
}

// RawQuerier runs raw read queries against the module's connection. It is the
// fallback surface when no typed accessor covers a request.
type RawQuerier interface {
	ExecuteQuery(ctx context.Context, text string, params map[string]any) ([]map[string]any, error)
}
