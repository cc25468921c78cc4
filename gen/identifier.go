package gen

import (
	"slices"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"

	"github.com/gardenlabs/grasshopper"
	"github.com/gardenlabs/grasshopper/graph"
)

// accessor is one entity accessor emitted into the artifact.
type accessor struct {
	// Entity is the label or relationship type exactly as discovered.
	Entity string
	// Ident is the normalized identifier the accessor is registered under.
	Ident string
	// GoName is the exported method name.
	GoName string
	// HasProps reports whether the snapshot carries a property map for the
	// entity. Props are sorted by name.
	HasProps bool
	Props    []property
}

type property struct {
	Name string
	// Const is the runtime Kind constant the property round-trips to.
	Const string
}

// GoName derives an exported method name from an entity name by camelizing
// its normalized identifier. "ACTED_IN" becomes ActedIn, "code:Repo" becomes
// CodeRepo.
func GoName(name string) string {
	goname := inflect.Camelize(graph.AccessorIdent(name))
	if goname == "" || unicode.IsDigit(rune(goname[0])) {
		goname = "X" + goname
	}
	return goname
}

// buildAccessors normalizes entity names into accessor identifiers, sorted by
// entity name. Two distinct names collapsing to the same identifier fail the
// run; picking one of them silently would drop the other from the artifact.
func buildAccessors(names []string) ([]accessor, error) {
	byIdent := make(map[string][]string, len(names))
	accs := make([]accessor, 0, len(names))
	for _, name := range names {
		ident := graph.AccessorIdent(name)
		byIdent[ident] = append(byIdent[ident], name)
		accs = append(accs, accessor{Entity: name, Ident: ident, GoName: GoName(name)})
	}
	for ident, claimants := range byIdent {
		if len(claimants) > 1 {
			slices.Sort(claimants)
			return nil, grasshopper.NewIdentifierConflictError(ident, claimants)
		}
	}
	slices.SortFunc(accs, func(a, b accessor) int {
		return strings.Compare(a.Entity, b.Entity)
	})
	return accs, nil
}

// reservedMethods are the fixed methods every artifact declares on Module. An
// entity whose exported name lands on one of them cannot get an accessor.
var reservedMethods = map[string]bool{
	"Metadata":     true,
	"NodeAccessor": true,
	"EdgeAccessor": true,
	"ExecuteQuery": true,
}

// checkMethodNames guards the artifact's method set as a whole. Node and edge
// accessors share one receiver with the fixed methods, so an exported name may
// appear only once across all of them; a duplicate would commit an artifact
// that cannot compile.
func checkMethodNames(nodes, edges []accessor) error {
	byName := make(map[string][]string, len(nodes)+len(edges))
	for _, a := range nodes {
		byName[a.GoName] = append(byName[a.GoName], a.Entity)
	}
	for _, a := range edges {
		byName[a.GoName] = append(byName[a.GoName], a.Entity)
	}
	for name, claimants := range byName {
		if reservedMethods[name] || len(claimants) > 1 {
			slices.Sort(claimants)
			return grasshopper.NewIdentifierConflictError(name, claimants)
		}
	}
	return nil
}

// annotate attaches each entity's discovered properties, sorted by name, to
// its accessor.
func annotate(accs []accessor, props map[string]graph.Properties) []accessor {
	for i := range accs {
		kinds, ok := props[accs[i].Entity]
		if !ok {
			continue
		}
		accs[i].HasProps = true
		names := make([]string, 0, len(kinds))
		for name := range kinds {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			accs[i].Props = append(accs[i].Props, property{
				Name:  name,
				Const: kindConst(kinds[name]),
			})
		}
	}
	return accs
}

func kindConst(k graph.Kind) string {
	switch k {
	case graph.KindString:
		return "graph.KindString"
	case graph.KindInteger:
		return "graph.KindInteger"
	case graph.KindFloat:
		return "graph.KindFloat"
	case graph.KindBoolean:
		return "graph.KindBoolean"
	case graph.KindDate:
		return "graph.KindDate"
	case graph.KindDateTime:
		return "graph.KindDateTime"
	case graph.KindList:
		return "graph.KindList"
	case graph.KindMap:
		return "graph.KindMap"
	}
	return "graph.KindAny"
}
