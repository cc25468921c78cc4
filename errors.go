package grasshopper

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for the generation pipeline.
var (
	// ErrConnection is returned when a database connection cannot be established.
	ErrConnection = errors.New("grasshopper: connection failed")

	// ErrSchemaQuery is returned when an introspection query fails.
	// A partial schema is never committed, so this error aborts the run.
	ErrSchemaQuery = errors.New("grasshopper: schema query failed")

	// ErrTypeMismatch is returned when a property value cannot be coerced
	// to the type recorded in the schema metadata.
	ErrTypeMismatch = errors.New("grasshopper: type mismatch")

	// ErrIdentifierConflict is returned when two distinct entity names
	// normalize to the same generated identifier.
	ErrIdentifierConflict = errors.New("grasshopper: identifier conflict")
)

// ConnectionError reports a failure to connect to a database.
type ConnectionError struct {
	URI string
	err error
}

// Error returns the error string.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("grasshopper: connect %s: %v", e.URI, e.err)
}

// Is reports whether the target error matches ConnectionError.
func (e *ConnectionError) Is(err error) bool {
	return err == ErrConnection
}

// Unwrap returns the underlying driver error.
func (e *ConnectionError) Unwrap() error {
	return e.err
}

// NewConnectionError returns a new ConnectionError for the given URI.
func NewConnectionError(uri string, err error) *ConnectionError {
	return &ConnectionError{URI: uri, err: err}
}

// IsConnection returns true if the error is a ConnectionError.
func IsConnection(err error) bool {
	if err == nil {
		return false
	}
	var e *ConnectionError
	return errors.As(err, &e) || errors.Is(err, ErrConnection)
}

// SchemaQueryError reports a failed introspection query. Introspection
// failures are fatal to a generation run: the pipeline aborts rather than
// committing a guessed schema.
type SchemaQueryError struct {
	Query string
	err   error
}

// Error returns the error string.
func (e *SchemaQueryError) Error() string {
	q := strings.Join(strings.Fields(e.Query), " ")
	if len(q) > 80 {
		q = q[:77] + "..."
	}
	return fmt.Sprintf("grasshopper: schema query %q: %v", q, e.err)
}

// Is reports whether the target error matches SchemaQueryError.
func (e *SchemaQueryError) Is(err error) bool {
	return err == ErrSchemaQuery
}

// Unwrap returns the underlying driver error.
func (e *SchemaQueryError) Unwrap() error {
	return e.err
}

// NewSchemaQueryError returns a new SchemaQueryError for the given query text.
func NewSchemaQueryError(query string, err error) *SchemaQueryError {
	return &SchemaQueryError{Query: query, err: err}
}

// IsSchemaQuery returns true if the error is a SchemaQueryError.
func IsSchemaQuery(err error) bool {
	if err == nil {
		return false
	}
	var e *SchemaQueryError
	return errors.As(err, &e) || errors.Is(err, ErrSchemaQuery)
}

// TypeMismatchError is raised by a generated accessor when a filter value is
// neither of the expected type nor coercible to it. Coercion is attempted
// exactly once; there are no chained conversions.
type TypeMismatchError struct {
	// Property is the name of the offending property.
	Property string
	// Expected is the type recorded in the schema metadata.
	Expected string
	// Actual is the runtime type of the rejected value.
	Actual string
}

// Error returns the error string.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("grasshopper: property %q must be of type %s, got %s",
		e.Property, e.Expected, e.Actual)
}

// Is reports whether the target error matches TypeMismatchError.
func (e *TypeMismatchError) Is(err error) bool {
	return err == ErrTypeMismatch
}

// NewTypeMismatchError returns a new TypeMismatchError.
func NewTypeMismatchError(property, expected, actual string) *TypeMismatchError {
	return &TypeMismatchError{Property: property, Expected: expected, Actual: actual}
}

// IsTypeMismatch returns true if the error is a TypeMismatchError.
func IsTypeMismatch(err error) bool {
	if err == nil {
		return false
	}
	var e *TypeMismatchError
	return errors.As(err, &e) || errors.Is(err, ErrTypeMismatch)
}

// IdentifierConflictError reports that two or more distinct entity names
// normalize to the same accessor identifier or method name, or that an entity
// claims a name the artifact reserves. Generation fails instead of silently
// picking one of the entities.
type IdentifierConflictError struct {
	// Ident is the colliding normalized identifier.
	Ident string
	// Names are the entity names that produced it.
	Names []string
}

// Error returns the error string.
func (e *IdentifierConflictError) Error() string {
	return fmt.Sprintf("grasshopper: entities %s normalize to the same identifier %q",
		strings.Join(e.Names, ", "), e.Ident)
}

// Is reports whether the target error matches IdentifierConflictError.
func (e *IdentifierConflictError) Is(err error) bool {
	return err == ErrIdentifierConflict
}

// NewIdentifierConflictError returns a new IdentifierConflictError.
func NewIdentifierConflictError(ident string, names []string) *IdentifierConflictError {
	return &IdentifierConflictError{Ident: ident, Names: names}
}

// IsIdentifierConflict returns true if the error is an IdentifierConflictError.
func IsIdentifierConflict(err error) bool {
	if err == nil {
		return false
	}
	var e *IdentifierConflictError
	return errors.As(err, &e) || errors.Is(err, ErrIdentifierConflict)
}
