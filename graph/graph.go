package graph

import (
	"fmt"
	"slices"
)

// IDProperty is the property that carries entity identity in generated
// queries. An accessor's optional ID argument is folded into the property
// filters under this name.
const IDProperty = "uuid"

// Node is the canonical node record. A node has one or more labels, never
// zero.
type Node struct {
	ID         string         `yaml:"uuid"`
	Labels     []string       `yaml:"labels"`
	Properties map[string]any `yaml:"props"`
}

// Relationship is the canonical relationship record. Unlike nodes, a
// relationship has exactly one type.
type Relationship struct {
	ID         string         `yaml:"uuid"`
	Type       string         `yaml:"type"`
	Properties map[string]any `yaml:"props"`
}

// Triple is one relationship instance together with its endpoint nodes.
type Triple struct {
	Start Node
	Rel   Relationship
	End   Node
}

// Properties maps property names to their inferred kinds.
type Properties map[string]Kind

// Endpoints holds the label sets observed at the start and end of a sampled
// relationship type. Both sets may be empty if no instance was observed.
type Endpoints struct {
	Start []string `yaml:"start"`
	End   []string `yaml:"end"`
}

// Schema is an immutable metadata snapshot produced by one complete
// introspection pass. It reflects sampled instance data only: properties that
// never appeared in the sample window are silently absent.
type Schema struct {
	NodeLabels     []string              `yaml:"node_labels"`
	NodeProperties map[string]Properties `yaml:"node_properties"`
	EdgeTypes      []string              `yaml:"edge_types"`
	EdgeProperties map[string]Properties `yaml:"edge_properties"`
	EdgeEndpoints  map[string]Endpoints  `yaml:"edge_endpoints"`
}

// Clone returns a deep copy of the schema.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := &Schema{
		NodeLabels: slices.Clone(s.NodeLabels),
		EdgeTypes:  slices.Clone(s.EdgeTypes),
	}
	if s.NodeProperties != nil {
		c.NodeProperties = make(map[string]Properties, len(s.NodeProperties))
		for label, props := range s.NodeProperties {
			c.NodeProperties[label] = cloneProperties(props)
		}
	}
	if s.EdgeProperties != nil {
		c.EdgeProperties = make(map[string]Properties, len(s.EdgeProperties))
		for typ, props := range s.EdgeProperties {
			c.EdgeProperties[typ] = cloneProperties(props)
		}
	}
	if s.EdgeEndpoints != nil {
		c.EdgeEndpoints = make(map[string]Endpoints, len(s.EdgeEndpoints))
		for typ, ep := range s.EdgeEndpoints {
			c.EdgeEndpoints[typ] = Endpoints{
				Start: slices.Clone(ep.Start),
				End:   slices.Clone(ep.End),
			}
		}
	}
	return c
}

func cloneProperties(p Properties) Properties {
	if p == nil {
		return nil
	}
	c := make(Properties, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Validate checks the snapshot invariants: every key in NodeProperties and
// EdgeProperties is drawn from NodeLabels and EdgeTypes respectively, and
// every endpoint entry refers to a known edge type.
func (s *Schema) Validate() error {
	for label := range s.NodeProperties {
		if !slices.Contains(s.NodeLabels, label) {
			return fmt.Errorf("graph: node properties recorded for unknown label %q", label)
		}
	}
	for typ := range s.EdgeProperties {
		if !slices.Contains(s.EdgeTypes, typ) {
			return fmt.Errorf("graph: edge properties recorded for unknown type %q", typ)
		}
	}
	for typ := range s.EdgeEndpoints {
		if !slices.Contains(s.EdgeTypes, typ) {
			return fmt.Errorf("graph: endpoints recorded for unknown type %q", typ)
		}
	}
	return nil
}

// NodeKinds returns the discovered property kinds for the given label, or nil
// if the label was never sampled.
func (s *Schema) NodeKinds(label string) Properties {
	if s == nil {
		return nil
	}
	return s.NodeProperties[label]
}

// EdgeKinds returns the discovered property kinds for the given relationship
// type, or nil if the type was never sampled.
func (s *Schema) EdgeKinds(typ string) Properties {
	if s == nil {
		return nil
	}
	return s.EdgeProperties[typ]
}
