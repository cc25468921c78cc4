package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gardenlabs/grasshopper/registry"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose      bool
	registryFile string

	connName     string
	connURI      string
	connUser     string
	connPassword string
	connDatabase string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "grasshopper",
		Short: "Schema-driven access module generator for property graphs",
		Long: `Grasshopper samples a live graph database, records its labels, relationship
types, and property kinds in a schema snapshot, and generates a typed,
self-contained Go access module from it. A relational mode does the same for
postgres and sqlite tables.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Show debug output")
	rootCmd.PersistentFlags().StringVar(&registryFile, "registry", "", "Connection registry file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&connName, "connection", "", "Saved connection profile to use")
	rootCmd.PersistentFlags().StringVar(&connURI, "uri", "", "Database URI (e.g. bolt://localhost:7687)")
	rootCmd.PersistentFlags().StringVar(&connUser, "user", "", "Database username")
	rootCmd.PersistentFlags().StringVar(&connPassword, "password", "", "Database password")
	rootCmd.PersistentFlags().StringVar(&connDatabase, "database", "", "Database name")

	// Every flag can also come from the environment: GRASSHOPPER_URI,
	// GRASSHOPPER_PASSWORD, and so on.
	viper.SetEnvPrefix("GRASSHOPPER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, flag := range []string{"registry", "connection", "uri", "user", "password", "database"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(connectionsCmd)
	rootCmd.AddCommand(introspectCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(generateSQLCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the process logger. Verbose mode switches to the
// development encoder with debug enabled.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// registryPath resolves the connection registry location: flag, environment,
// then the user config directory.
func registryPath() (string, error) {
	if path := viper.GetString("registry"); path != "" {
		return path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "grasshopper", registry.DefaultFile), nil
}

// resolveConnection merges the connection settings: a saved profile first,
// then flag and environment overrides on top. With no profile and no URI the
// registry default applies.
func resolveConnection() (registry.Connection, error) {
	path, err := registryPath()
	if err != nil {
		return registry.Connection{}, err
	}
	reg, err := registry.Open(path)
	if err != nil {
		return registry.Connection{}, err
	}

	var conn registry.Connection
	if name := viper.GetString("connection"); name != "" {
		c, ok := reg.Get(name)
		if !ok {
			return registry.Connection{}, fmt.Errorf("no saved connection named %q", name)
		}
		conn = c
	} else if viper.GetString("uri") == "" {
		if c, ok := reg.Default(); ok {
			conn = c
		}
	}

	if v := viper.GetString("uri"); v != "" {
		conn.URI = v
	}
	if v := viper.GetString("user"); v != "" {
		conn.Username = v
	}
	if v := viper.GetString("password"); v != "" {
		conn.Password = v
	}
	if v := viper.GetString("database"); v != "" {
		conn.Database = v
	}
	if conn.URI == "" {
		return registry.Connection{}, fmt.Errorf("no connection configured: pass --uri, --connection, or save a default profile")
	}
	return conn, nil
}
