package graph

import (
	"fmt"
	"slices"
	"strings"
)

// Filters collects the constraints passed to a generated accessor. All
// constraints are AND-combined; there is no OR composition.
type Filters struct {
	// ID is an optional identity constraint, folded into the property
	// filters as an equality match on IDProperty.
	ID string
	// StartID and EndID constrain the endpoint nodes of a relationship
	// accessor. Both set matches the exact pair, one set matches one-sided.
	StartID string
	EndID   string
	// Props holds property equality filters.
	Props map[string]any
}

// FilterOption configures a Filters value.
type FilterOption func(*Filters)

// WithID constrains results to the entity with the given id.
func WithID(id string) FilterOption {
	return func(f *Filters) { f.ID = id }
}

// WithStartID constrains relationship results to those starting at the node
// with the given id.
func WithStartID(id string) FilterOption {
	return func(f *Filters) { f.StartID = id }
}

// WithEndID constrains relationship results to those ending at the node with
// the given id.
func WithEndID(id string) FilterOption {
	return func(f *Filters) { f.EndID = id }
}

// WithProperty adds one property equality filter.
func WithProperty(name string, value any) FilterOption {
	return func(f *Filters) {
		if f.Props == nil {
			f.Props = make(map[string]any)
		}
		f.Props[name] = value
	}
}

// WithProperties adds every entry of the given map as a property equality
// filter.
func WithProperties(props map[string]any) FilterOption {
	return func(f *Filters) {
		if len(props) == 0 {
			return
		}
		if f.Props == nil {
			f.Props = make(map[string]any, len(props))
		}
		for k, v := range props {
			f.Props[k] = v
		}
	}
}

// NewFilters applies the given options and returns the resulting filters.
func NewFilters(opts ...FilterOption) Filters {
	var f Filters
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// PropertyFilters returns the property filter map with the optional ID folded
// in as an equality constraint on IDProperty.
func (f Filters) PropertyFilters() map[string]any {
	props := make(map[string]any, len(f.Props)+1)
	for k, v := range f.Props {
		props[k] = v
	}
	if f.ID != "" {
		props[IDProperty] = f.ID
	}
	return props
}

// Endpoint parameter names reserved by EdgeQuery. Underscore-prefixed so a
// property filter named after an endpoint never shares a binding with it:
// property params always bind under the bare property name.
const (
	startParam = "_start_uuid"
	endParam   = "_end_uuid"
)

// NodeQuery builds a parameterized match query for nodes with the given label
// and property filters. Property order in the query text is deterministic.
func NodeQuery(label string, props map[string]any) (string, map[string]any) {
	var b strings.Builder
	b.WriteString("MATCH (n:")
	b.WriteString(quoteName(label))
	writeInlineProps(&b, props)
	b.WriteString(") RETURN n;")
	return b.String(), cloneParams(props)
}

// EdgeQuery builds a parameterized match query for relationships of the given
// type, optionally constrained to start and/or end node ids. The returned
// rows carry the start node, the relationship, and the end node under the
// columns a, r, and b.
func EdgeQuery(typ, startID, endID string, props map[string]any) (string, map[string]any) {
	params := cloneParams(props)
	var b strings.Builder
	b.WriteString("MATCH (a)-[r:")
	b.WriteString(quoteName(typ))
	writeInlineProps(&b, props)
	b.WriteString("]->(b)")
	var where []string
	if startID != "" {
		where = append(where, fmt.Sprintf("a.%s = $%s", IDProperty, startParam))
		params[startParam] = startID
	}
	if endID != "" {
		where = append(where, fmt.Sprintf("b.%s = $%s", IDProperty, endParam))
		params[endParam] = endID
	}
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" RETURN a, r, b;")
	return b.String(), params
}

// writeInlineProps appends the inline property map pattern, with keys sorted
// so the query text is stable across runs.
func writeInlineProps(b *strings.Builder, props map[string]any) {
	if len(props) == 0 {
		return
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	b.WriteString(" {")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteName(k))
		b.WriteString(": $")
		b.WriteString(k)
	}
	b.WriteString("}")
}

// quoteName backtick-quotes a label, type, or property name so names with
// namespace separators or dashes stay valid in query text.
func quoteName(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func cloneParams(props map[string]any) map[string]any {
	params := make(map[string]any, len(props)+2)
	for k, v := range props {
		params[k] = v
	}
	return params
}
