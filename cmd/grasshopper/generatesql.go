package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	// Drivers for the supported relational dialects.
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/gardenlabs/grasshopper/dialect"
	"github.com/gardenlabs/grasshopper/gen/sqlgen"
	"github.com/gardenlabs/grasshopper/introspect/sqlschema"
)

var (
	sqlName    string
	sqlOut     string
	sqlPackage string
	sqlDialect string
	sqlDSN     string
)

func init() {
	generateSQLCmd.Flags().StringVarP(&sqlName, "name", "n", "", "Logical database name (required)")
	generateSQLCmd.Flags().StringVarP(&sqlOut, "out", "o", ".", "Output directory")
	generateSQLCmd.Flags().StringVar(&sqlPackage, "package", "", "Artifact package name (default: <name>sql)")
	generateSQLCmd.Flags().StringVar(&sqlDialect, "dialect", dialect.Postgres, "Relational dialect: postgres or sqlite")
	generateSQLCmd.Flags().StringVar(&sqlDSN, "dsn", "", "Driver connection string (required)")
	cobra.CheckErr(generateSQLCmd.MarkFlagRequired("name"))
	cobra.CheckErr(generateSQLCmd.MarkFlagRequired("dsn"))
}

var generateSQLCmd = &cobra.Command{
	Use:   "generate-sql",
	Short: "Generate a typed relational access module",
	Long: `Read the table catalog of a postgres or sqlite database and generate a
typed access module over it, with the same artifact contract as generate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		driver := sqlDialect
		if driver != dialect.Postgres && driver != dialect.SQLite {
			return fmt.Errorf("unsupported dialect %q", sqlDialect)
		}
		db, err := sql.Open(driver, sqlDSN)
		if err != nil {
			return fmt.Errorf("open %s: %w", sqlDialect, err)
		}
		defer db.Close()

		ctx := cmd.Context()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping %s: %w", sqlDialect, err)
		}
		s, err := sqlschema.Introspect(ctx, db, sqlDialect)
		if err != nil {
			return err
		}
		path, err := sqlgen.Generate(sqlName, s,
			sqlgen.WithDir(sqlOut),
			sqlgen.WithPackage(sqlPackage),
			sqlgen.WithDialect(sqlDialect),
		)
		if err != nil {
			return err
		}
		log.Info("generated module", zap.String("path", path),
			zap.Int("tables", len(s.Tables)))
		fmt.Println(path)
		return nil
	},
}
