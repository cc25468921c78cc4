package graph

import "strings"

// AccessorIdent normalizes an entity name into the identifier its generated
// accessor is registered under: lower-cased, with namespace separators and
// dashes rewritten to underscores. Distinct names may normalize to the same
// identifier; detecting that collision is the generator's responsibility.
func AccessorIdent(name string) string {
	ident := strings.ToLower(name)
	ident = strings.ReplaceAll(ident, ":", "_")
	ident = strings.ReplaceAll(ident, "-", "_")
	return ident
}
