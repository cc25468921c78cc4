package graph

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gardenlabs/grasshopper"
)

// Kind is the inferred native type of a discovered property. The values match
// the type names reported by the database's meta functions so snapshots stay
// readable next to the source data.
type Kind string

// Property kinds recognized by the type mapper. Any native type outside this
// table weakens to KindAny: unknown types are never rejected, only left
// unvalidated.
const (
	KindString   Kind = "STRING"
	KindInteger  Kind = "INTEGER"
	KindFloat    Kind = "FLOAT"
	KindBoolean  Kind = "BOOLEAN"
	KindDate     Kind = "DATE"
	KindDateTime Kind = "DATETIME"
	KindList     Kind = "LIST"
	KindMap      Kind = "MAP"
	KindAny      Kind = "ANY"
)

// ParseKind maps a native type name reported by the database to a Kind.
// Composite list types ("LIST OF STRING") collapse to KindList, and zoned or
// local datetime variants collapse to KindDateTime.
func ParseKind(native string) Kind {
	name := strings.ToUpper(strings.TrimSpace(native))
	switch {
	case name == "":
		return KindAny
	case strings.HasPrefix(name, "LIST"):
		return KindList
	case strings.Contains(name, "DATETIME") || strings.Contains(name, "DATE_TIME"):
		return KindDateTime
	}
	switch Kind(name) {
	case KindString, KindInteger, KindFloat, KindBoolean, KindDate, KindMap:
		return Kind(name)
	case "LONG": // older meta functions report INTEGER as LONG
		return KindInteger
	case "DOUBLE":
		return KindFloat
	}
	return KindAny
}

// GoType returns the Go type an accessor expects for the kind.
func (k Kind) GoType() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "int64"
	case KindFloat:
		return "float64"
	case KindBoolean:
		return "bool"
	case KindDate, KindDateTime:
		return "time.Time"
	case KindList:
		return "[]any"
	case KindMap:
		return "map[string]any"
	}
	return "any"
}

// dateLayouts tried, in order, when coercing a string to a date or datetime.
var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// CoerceProperty applies the validation contract for one property value:
// nil skips validation, a value already of the expected type passes
// unchanged, anything else gets exactly one coercion attempt. A failed
// attempt returns a TypeMismatchError naming the property, the expected
// type, and the actual runtime type.
func CoerceProperty(property string, value any, k Kind) (any, error) {
	if value == nil || k == KindAny || k == "" {
		return value, nil
	}
	mismatch := func() error {
		return grasshopper.NewTypeMismatchError(property, string(k), fmt.Sprintf("%T", value))
	}
	switch k {
	case KindString:
		switch v := value.(type) {
		case string:
			return v, nil
		case int:
			return strconv.Itoa(v), nil
		case int64:
			return strconv.FormatInt(v, 10), nil
		case float64:
			return strconv.FormatFloat(v, 'g', -1, 64), nil
		case bool:
			return strconv.FormatBool(v), nil
		}
	case KindInteger:
		switch v := value.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case float64:
			return int64(v), nil
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return n, nil
			}
		}
	case KindFloat:
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, nil
			}
		}
	case KindBoolean:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b, nil
			}
		}
	case KindDate, KindDateTime:
		switch v := value.(type) {
		case time.Time:
			return v, nil
		case string:
			for _, layout := range dateLayouts {
				if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
					return t, nil
				}
			}
		}
	case KindList:
		if v, ok := value.([]any); ok {
			return v, nil
		}
	case KindMap:
		if v, ok := value.(map[string]any); ok {
			return v, nil
		}
	}
	return nil, mismatch()
}

// CoerceFilters validates a property filter map against the discovered kinds
// for one entity. Properties absent from the kinds map pass through untyped:
// the graph is schema-flexible and unseen properties must not be rejected.
// The input map is not modified.
func CoerceFilters(filters map[string]any, kinds Properties) (map[string]any, error) {
	if len(filters) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(filters))
	for name, value := range filters {
		kind, known := kinds[name]
		if !known {
			out[name] = value
			continue
		}
		coerced, err := CoerceProperty(name, value, kind)
		if err != nil {
			return nil, err
		}
		out[name] = coerced
	}
	return out, nil
}
