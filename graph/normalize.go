package graph

// Record normalization converts whatever raw value a strategy returned — a
// driver entity already flattened to a map, or a plain mapping from a raw
// query — into the canonical record shapes. Field names are sniffed across
// the known alternates; when nothing matches, an empty-shell record is
// returned rather than failing.

var (
	idKeys     = []string{"uuid", "id", "elementId", "element_id"}
	labelKeys  = []string{"labels", "_labels"}
	typeKeys   = []string{"type", "relType", "rel_type", "_type"}
	propsKeys  = []string{"props", "properties"}
	structural = map[string]bool{
		"uuid": true, "id": true, "elementId": true, "element_id": true,
		"labels": true, "_labels": true,
		"type": true, "relType": true, "rel_type": true, "_type": true,
		"props": true, "properties": true,
	}
)

// AsNode normalizes a raw value into a Node. Non-map values produce an empty
// shell.
func AsNode(v any) Node {
	m, ok := v.(map[string]any)
	if !ok {
		return Node{Labels: []string{}, Properties: map[string]any{}}
	}
	props := sniffProps(m)
	return Node{
		ID:         sniffID(m, props),
		Labels:     sniffStrings(m, labelKeys),
		Properties: props,
	}
}

// AsRelationship normalizes a raw value into a Relationship. Non-map values
// produce an empty shell.
func AsRelationship(v any) Relationship {
	m, ok := v.(map[string]any)
	if !ok {
		return Relationship{Properties: map[string]any{}}
	}
	props := sniffProps(m)
	return Relationship{
		ID:         sniffID(m, props),
		Type:       sniffString(m, typeKeys),
		Properties: props,
	}
}

// AsTriple normalizes one raw result row holding start node, relationship,
// and end node under the given column names.
func AsTriple(row map[string]any, start, rel, end string) Triple {
	return Triple{
		Start: AsNode(row[start]),
		Rel:   AsRelationship(row[rel]),
		End:   AsNode(row[end]),
	}
}

// sniffProps locates the property map. A map with no recognized props field
// is treated as being the properties itself, minus structural fields.
func sniffProps(m map[string]any) map[string]any {
	for _, key := range propsKeys {
		if p, ok := m[key].(map[string]any); ok {
			return p
		}
	}
	props := make(map[string]any, len(m))
	for k, v := range m {
		if structural[k] {
			continue
		}
		props[k] = v
	}
	return props
}

// sniffID finds the identity under the known alternates, falling back to the
// uuid property when the envelope carries none.
func sniffID(m map[string]any, props map[string]any) string {
	if id := sniffString(m, idKeys); id != "" {
		return id
	}
	if id, ok := props[IDProperty].(string); ok {
		return id
	}
	return ""
}

func sniffString(m map[string]any, keys []string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func sniffStrings(m map[string]any, keys []string) []string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case []string:
			return v
		case []any:
			out := make([]string, 0, len(v))
			for _, e := range v {
				if s, ok := e.(string); ok {
					out = append(out, s)
				}
			}
			return out
		}
	}
	return []string{}
}
