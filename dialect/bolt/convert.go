package bolt

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// convertValue flattens driver entity types into plain maps matching the
// field names the graph package sniffs during record normalization. Scalars
// pass through untouched.
func convertValue(v any) any {
	switch e := v.(type) {
	case dbtype.Node:
		return map[string]any{
			"elementId":  e.ElementId,
			"labels":     e.Labels,
			"properties": e.Props,
		}
	case dbtype.Relationship:
		return map[string]any{
			"elementId":      e.ElementId,
			"type":           e.Type,
			"properties":     e.Props,
			"startElementId": e.StartElementId,
			"endElementId":   e.EndElementId,
		}
	case []any:
		out := make([]any, len(e))
		for i, item := range e {
			out[i] = convertValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(e))
		for k, item := range e {
			out[k] = convertValue(item)
		}
		return out
	}
	return v
}
