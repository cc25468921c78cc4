// Package grasshopper is the root of a schema-driven access module
// generator for property graphs.
//
// The pipeline has three stages. introspect samples a live database and
// records labels, relationship types, property kinds, and observed
// relationship endpoints in an immutable snapshot. gen turns a snapshot into
// a self-contained Go module with one typed accessor per discovered entity,
// linked against the shared graph runtime. adapter wraps any such module,
// generated or not, behind a read-only surface that classifies the module's
// capability once and absorbs its failures.
//
// This package holds the error types shared by every stage.
package grasshopper
