package introspect

import (
	"fmt"
	"strings"
)

// Catalog and sampling query builders. Labels and relationship types cannot
// be parameterized in Cypher, so entity names are backtick-quoted into the
// query text; every value filter stays parameterized.

func timestampQuery() (string, map[string]any) {
	return "RETURN datetime() AS timestamp;", nil
}

func labelsQuery() (string, map[string]any) {
	return "CALL db.labels() YIELD label RETURN collect(label) AS labels;", nil
}

func relationshipTypesQuery() (string, map[string]any) {
	return "CALL db.relationshipTypes() YIELD relationshipType RETURN collect(relationshipType) AS relationshipTypes;", nil
}

func nodePropertiesQuery(label string, limit int) (string, map[string]any) {
	return fmt.Sprintf(
		"MATCH (n:%s) WITH n%s UNWIND keys(n) AS key RETURN DISTINCT key, apoc.meta.type(n[key]) AS type;",
		quoteName(label), limitClause(limit)), nil
}

func edgePropertiesQuery(typ string, limit int) (string, map[string]any) {
	return fmt.Sprintf(
		"MATCH ()-[e:%s]->() WITH e%s UNWIND keys(e) AS key RETURN DISTINCT key, apoc.meta.type(e[key]) AS type;",
		quoteName(typ), limitClause(limit)), nil
}

func edgeEndpointsQuery(typ string, limit int) (string, map[string]any) {
	return fmt.Sprintf(
		"MATCH (a)-[e:%s]->(b) WITH a, e, b%s RETURN DISTINCT labels(a) AS startLabels, labels(b) AS endLabels;",
		quoteName(typ), limitClause(limit)), nil
}

func limitClause(limit int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", limit)
}

func quoteName(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
