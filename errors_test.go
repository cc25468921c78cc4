package grasshopper_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gardenlabs/grasshopper"
)

func TestConnectionError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := grasshopper.NewConnectionError("bolt://localhost:7687", errors.New("refused"))
		assert.Equal(t, "grasshopper: connect bolt://localhost:7687: refused", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := grasshopper.NewConnectionError("bolt://db:7687", errors.New("refused"))
		assert.True(t, errors.Is(err, grasshopper.ErrConnection))
	})

	t.Run("IsConnection", func(t *testing.T) {
		err := grasshopper.NewConnectionError("bolt://db:7687", errors.New("refused"))
		assert.True(t, grasshopper.IsConnection(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, grasshopper.IsConnection(wrapped))

		// Sentinel error
		assert.True(t, grasshopper.IsConnection(grasshopper.ErrConnection))

		// Non-matching error
		assert.False(t, grasshopper.IsConnection(errors.New("other error")))
		assert.False(t, grasshopper.IsConnection(nil))
	})

	t.Run("Unwrap", func(t *testing.T) {
		cause := errors.New("refused")
		err := grasshopper.NewConnectionError("bolt://db:7687", cause)
		assert.Equal(t, cause, errors.Unwrap(err))
	})
}

func TestSchemaQueryError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := grasshopper.NewSchemaQueryError("CALL db.labels();", errors.New("timeout"))
		assert.Equal(t, `grasshopper: schema query "CALL db.labels();": timeout`, err.Error())
	})

	t.Run("ErrorCollapsesWhitespace", func(t *testing.T) {
		err := grasshopper.NewSchemaQueryError("CALL\n\tdb.labels();", errors.New("timeout"))
		assert.Equal(t, `grasshopper: schema query "CALL db.labels();": timeout`, err.Error())
	})

	t.Run("IsSchemaQuery", func(t *testing.T) {
		err := grasshopper.NewSchemaQueryError("CALL db.labels();", errors.New("timeout"))
		assert.True(t, grasshopper.IsSchemaQuery(err))
		assert.True(t, grasshopper.IsSchemaQuery(fmt.Errorf("run aborted: %w", err)))
		assert.False(t, grasshopper.IsSchemaQuery(errors.New("other")))
		assert.False(t, grasshopper.IsSchemaQuery(nil))
	})
}

func TestTypeMismatchError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := grasshopper.NewTypeMismatchError("released", "INTEGER", "bool")
		assert.Equal(t, `grasshopper: property "released" must be of type INTEGER, got bool`, err.Error())
	})

	t.Run("NamesTheProperty", func(t *testing.T) {
		err := grasshopper.NewTypeMismatchError("released", "INTEGER", "bool")
		assert.Equal(t, "released", err.Property)
		assert.Equal(t, "INTEGER", err.Expected)
		assert.Equal(t, "bool", err.Actual)
	})

	t.Run("IsTypeMismatch", func(t *testing.T) {
		err := grasshopper.NewTypeMismatchError("released", "INTEGER", "bool")
		assert.True(t, grasshopper.IsTypeMismatch(err))
		assert.True(t, errors.Is(err, grasshopper.ErrTypeMismatch))
		assert.False(t, grasshopper.IsTypeMismatch(nil))
	})
}

func TestIdentifierConflictError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := grasshopper.NewIdentifierConflictError("works_at", []string{"WORKS_AT", "works-at"})
		assert.Equal(t, `grasshopper: entities WORKS_AT, works-at normalize to the same identifier "works_at"`, err.Error())
	})

	t.Run("IsIdentifierConflict", func(t *testing.T) {
		err := grasshopper.NewIdentifierConflictError("works_at", []string{"WORKS_AT", "works-at"})
		assert.True(t, grasshopper.IsIdentifierConflict(err))
		assert.True(t, errors.Is(err, grasshopper.ErrIdentifierConflict))
		assert.False(t, grasshopper.IsIdentifierConflict(nil))
	})
}
