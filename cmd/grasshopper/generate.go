package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gardenlabs/grasshopper/dialect/bolt"
	"github.com/gardenlabs/grasshopper/gen"
	"github.com/gardenlabs/grasshopper/graph"
	"github.com/gardenlabs/grasshopper/introspect"
	"github.com/gardenlabs/grasshopper/registry"
)

var (
	generateName        string
	generateOut         string
	generatePackage     string
	generateSnapshot    string
	generateSampleLimit int
	generateWatch       bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateName, "name", "n", "", "Logical graph name (required)")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", ".", "Output directory")
	generateCmd.Flags().StringVar(&generatePackage, "package", "", "Artifact package name (default: <name>graph)")
	generateCmd.Flags().StringVar(&generateSnapshot, "snapshot", "", "Generate from a schema snapshot instead of a live database")
	generateCmd.Flags().IntVar(&generateSampleLimit, "sample-limit", introspect.DefaultSampleLimit,
		"Instances examined per label or relationship type (0 = unbounded)")
	generateCmd.Flags().BoolVarP(&generateWatch, "watch", "w", false, "Regenerate whenever the snapshot file changes (needs --snapshot)")
	cobra.CheckErr(generateCmd.MarkFlagRequired("name"))
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a typed graph access module",
	Long: `Generate a self-contained Go access module, either by introspecting a live
database or from a snapshot written by introspect. Regeneration replaces the
artifact wholesale; hand edits never survive.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		if generateWatch && generateSnapshot == "" {
			return fmt.Errorf("--watch needs --snapshot")
		}
		ctx := cmd.Context()
		if generateSnapshot != "" {
			if err := generateFromSnapshot(log); err != nil {
				return err
			}
			if !generateWatch {
				return nil
			}
			return watchSnapshot(ctx, log)
		}
		return generateFromLive(ctx, log)
	},
}

// generateFromLive samples the database and emits the artifact in one pass.
func generateFromLive(ctx context.Context, log *zap.Logger) error {
	conn, err := resolveConnection()
	if err != nil {
		return err
	}
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

	ins := introspect.New(drv, introspect.WithSampleLimit(generateSampleLimit))
	s, err := ins.Snapshot(ctx)
	if err != nil {
		return err
	}
	ts, err := ins.ServerTimestamp(ctx)
	if err != nil {
		return err
	}
	path, err := gen.Generate(generateName, s,
		gen.WithDir(generateOut),
		gen.WithPackage(generatePackage),
		gen.WithConnection(conn.URI, conn.Username, conn.Database),
		gen.WithTimestamp(ts),
	)
	if err != nil {
		return err
	}
	log.Info("generated module", zap.String("path", path),
		zap.Int("labels", len(s.NodeLabels)), zap.Int("edge_types", len(s.EdgeTypes)))
	recordArtifact(log, conn.Name, path)
	fmt.Println(path)
	return nil
}

// recordArtifact notes the generated path on the profile, when one was used.
func recordArtifact(log *zap.Logger, profile, path string) {
	if profile == "" {
		return
	}
	regPath, err := registryPath()
	if err != nil {
		return
	}
	reg, err := registry.Open(regPath)
	if err != nil {
		return
	}
	if err := reg.SetArtifact(profile, path); err != nil {
		log.Debug("artifact not recorded", zap.Error(err))
	}
}

func generateFromSnapshot(log *zap.Logger) error {
	s, err := introspect.ReadSnapshot(generateSnapshot)
	if err != nil {
		return err
	}
	return emit(log, s)
}

func emit(log *zap.Logger, s *graph.Schema) error {
	path, err := gen.Generate(generateName, s,
		gen.WithDir(generateOut),
		gen.WithPackage(generatePackage),
	)
	if err != nil {
		return err
	}
	log.Info("generated module", zap.String("path", path),
		zap.String("snapshot", generateSnapshot))
	fmt.Println(path)
	return nil
}

// watchSnapshot regenerates the artifact whenever the snapshot file changes.
// The directory is watched rather than the file itself, since editors and
// atomic writers replace the file by rename.
func watchSnapshot(ctx context.Context, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(generateSnapshot)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	log.Info("watching snapshot", zap.String("path", target))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				return fmt.Errorf("watcher: %w", err)
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !sameFile(ev.Name, target) {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				// A failed regeneration keeps the watch alive; snapshots are
				// often saved mid-edit.
				if err := generateFromSnapshot(log); err != nil {
					log.Warn("regeneration failed", zap.Error(err))
				}
			}
		}
	})
	return g.Wait()
}

func sameFile(a, b string) bool {
	abs, err := filepath.Abs(a)
	if err != nil {
		return false
	}
	return abs == b
}
