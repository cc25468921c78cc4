package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gardenlabs/grasshopper/dialect/bolt"
	"github.com/gardenlabs/grasshopper/introspect"
)

var (
	introspectOut         string
	introspectSampleLimit int
)

func init() {
	introspectCmd.Flags().StringVarP(&introspectOut, "out", "o", "schema.yaml", "Snapshot file to write")
	introspectCmd.Flags().IntVar(&introspectSampleLimit, "sample-limit", introspect.DefaultSampleLimit,
		"Instances examined per label or relationship type (0 = unbounded)")
}

var introspectCmd = &cobra.Command{
	Use:   "introspect",
	Short: "Sample a live graph and write a schema snapshot",
	Long: `Connect to the graph database, enumerate labels and relationship types,
sample instances for property kinds and relationship endpoints, and write the
result as a YAML snapshot. The snapshot feeds generate, so discovery and
emission can run on different machines.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		conn, err := resolveConnection()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		drv, err := bolt.Open(ctx, bolt.Config{
			URI:      conn.URI,
			Username: conn.Username,
			Password: conn.Password,
			Database: conn.Database,
		})
		if err != nil {
			return err
		}
		defer drv.Close(ctx)

		log.Info("introspecting",
			zap.String("uri", conn.URI),
			zap.Int("sample_limit", introspectSampleLimit))
		s, err := introspect.New(drv, introspect.WithSampleLimit(introspectSampleLimit)).Snapshot(ctx)
		if err != nil {
			return err
		}
		if err := introspect.WriteSnapshot(introspectOut, s); err != nil {
			return err
		}
		fmt.Printf("Wrote %s: %d labels, %d relationship types\n",
			introspectOut, len(s.NodeLabels), len(s.EdgeTypes))
		return nil
	},
}
