package sqlschema_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/gardenlabs/grasshopper/dialect"
	"github.com/gardenlabs/grasshopper/graph"
	"github.com/gardenlabs/grasshopper/introspect/sqlschema"
)

func TestIntrospectPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT table_name FROM information_schema.tables").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).
			AddRow("movies").AddRow("reviews"))

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("movies").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable"}).
			AddRow("id", "integer", "NO").
			AddRow("title", "character varying", "YES").
			AddRow("released_at", "timestamp with time zone", "YES"))
	mock.ExpectQuery("PRIMARY KEY").
		WithArgs("movies").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id"))
	mock.ExpectQuery("FOREIGN KEY").
		WithArgs("movies").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "table_name", "column_name"}))

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("reviews").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable"}).
			AddRow("id", "integer", "NO").
			AddRow("movie_id", "integer", "NO").
			AddRow("body", "text", "YES"))
	mock.ExpectQuery("PRIMARY KEY").
		WithArgs("reviews").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id"))
	mock.ExpectQuery("FOREIGN KEY").
		WithArgs("reviews").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "table_name", "column_name"}).
			AddRow("movie_id", "movies", "id"))

	s, err := sqlschema.Introspect(context.Background(), db, dialect.Postgres)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, s.Tables, 2)
	movies, ok := s.Table("movies")
	require.True(t, ok)
	assert.Equal(t, []string{"id"}, movies.PrimaryKey)
	require.Len(t, movies.Columns, 3)
	assert.Equal(t, graph.KindInteger, movies.Columns[0].Kind)
	assert.False(t, movies.Columns[0].Nullable)
	assert.Equal(t, graph.KindString, movies.Columns[1].Kind)
	assert.True(t, movies.Columns[1].Nullable)
	assert.Equal(t, graph.KindDateTime, movies.Columns[2].Kind)

	reviews, ok := s.Table("reviews")
	require.True(t, ok)
	require.Len(t, reviews.ForeignKeys, 1)
	assert.Equal(t, sqlschema.ForeignKey{
		Column: "movie_id", RefTable: "movies", RefColumn: "id",
	}, reviews.ForeignKeys[0])
}

func TestIntrospectPostgresAbortsOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT table_name FROM information_schema.tables").
		WillReturnError(sql.ErrConnDone)

	s, err := sqlschema.Introspect(context.Background(), db, dialect.Postgres)
	assert.Nil(t, s)
	assert.Error(t, err)
}

func TestIntrospectSQLite(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE movies (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		score REAL
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE reviews (
		id INTEGER PRIMARY KEY,
		movie_id INTEGER NOT NULL REFERENCES movies(id),
		body TEXT
	)`)
	require.NoError(t, err)

	s, err := sqlschema.Introspect(context.Background(), db, dialect.SQLite)
	require.NoError(t, err)

	require.Len(t, s.Tables, 2)
	assert.Equal(t, "movies", s.Tables[0].Name)
	assert.Equal(t, "reviews", s.Tables[1].Name)

	movies := s.Tables[0]
	assert.Equal(t, []string{"id"}, movies.PrimaryKey)
	require.Len(t, movies.Columns, 3)
	assert.Equal(t, graph.KindInteger, movies.Columns[0].Kind)
	assert.Equal(t, graph.KindString, movies.Columns[1].Kind)
	assert.False(t, movies.Columns[1].Nullable)
	assert.Equal(t, graph.KindFloat, movies.Columns[2].Kind)
	assert.True(t, movies.Columns[2].Nullable)

	reviews := s.Tables[1]
	require.Len(t, reviews.ForeignKeys, 1)
	assert.Equal(t, sqlschema.ForeignKey{
		Column: "movie_id", RefTable: "movies", RefColumn: "id",
	}, reviews.ForeignKeys[0])
}

func TestIntrospectRejectsUnknownDialect(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = sqlschema.Introspect(context.Background(), db, "oracle")
	assert.Error(t, err)
}

func TestParseSQLKind(t *testing.T) {
	for native, want := range map[string]graph.Kind{
		"integer":                  graph.KindInteger,
		"bigint":                   graph.KindInteger,
		"character varying":        graph.KindString,
		"varchar(255)":             graph.KindString,
		"uuid":                     graph.KindString,
		"boolean":                  graph.KindBoolean,
		"double precision":         graph.KindFloat,
		"numeric(10,2)":            graph.KindFloat,
		"date":                     graph.KindDate,
		"timestamp with time zone": graph.KindDateTime,
		"DATETIME":                 graph.KindDateTime,
		"jsonb":                    graph.KindMap,
		"bytea":                    graph.KindAny,
	} {
		assert.Equal(t, want, sqlschema.ParseSQLKind(native), "type %q", native)
	}
}
