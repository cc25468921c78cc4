// Package graph is the shared runtime linked by generated access modules.
//
// It defines the canonical record shapes, the schema metadata snapshot, the
// property type mapping and coercion contract, parameterized query
// construction, and best-effort normalization of raw driver values. Generated
// modules link against this package instead of re-embedding copies of these
// utilities, so regenerated artifacts stay small and cannot drift from the
// runtime they depend on.
//
// # Records
//
// A node carries one or more labels; a relationship carries exactly one type:
//
//	type Node struct {
//	    ID         string
//	    Labels     []string
//	    Properties map[string]any
//	}
//
//	type Relationship struct {
//	    ID         string
//	    Type       string
//	    Properties map[string]any
//	}
//
// Relationship accessors return (start, relationship, end) triples.
//
// # Schema Metadata
//
// Schema is an immutable snapshot produced by one complete introspection pass
// and embedded verbatim into generated modules. It reflects sampled instance
// data, not a declared schema: rare properties may be absent from the maps.
//
// # Type Mapping and Coercion
//
// Each discovered property maps to a Kind. At accessor call time a filter
// value of the wrong type gets exactly one coercion attempt; failure raises a
// TypeMismatchError naming the property, the expected type, and the actual
// runtime type. Unknown kinds validate nothing and never reject.
//
// # Query Construction
//
// NodeQuery and EdgeQuery build parameterized Cypher from a label or type and
// a property filter map. All filters are AND-combined; an optional ID is
// folded into the filters as an equality constraint on the uuid property.
package graph
