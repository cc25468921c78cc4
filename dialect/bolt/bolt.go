// Package bolt implements dialect.Driver for Neo4j and bolt-compatible graph
// databases. Every Query call acquires its own session and releases it on
// every exit path; nothing is pooled or cached above what the underlying
// driver does internally.
package bolt

import (
	"context"
	"errors"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/gardenlabs/grasshopper"
	"github.com/gardenlabs/grasshopper/dialect"
)

// Config carries the connection settings for a bolt database.
type Config struct {
	// URI is the bolt connection string, e.g. "bolt://localhost:7687".
	URI string
	// Username and Password authenticate the account. The account needs
	// read access only.
	Username string
	Password string
	// Database selects the database within the instance. Empty selects the
	// server default.
	Database string
}

// Validate checks the configuration for the fields that have no usable
// default.
func (c Config) Validate() error {
	if c.URI == "" {
		return errors.New("bolt: missing connection URI")
	}
	if c.Username == "" {
		return errors.New("bolt: missing username")
	}
	return nil
}

// Driver is a dialect.Driver for bolt graph databases.
type Driver struct {
	cfg    Config
	driver neo4j.DriverWithContext
}

// Open connects to the configured database and verifies connectivity before
// returning. Failures are reported as a ConnectionError, which is fatal to a
// generation run.
func Open(ctx context.Context, cfg Config) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, grasshopper.NewConnectionError(cfg.URI, err)
	}
	auth := neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	drv, err := neo4j.NewDriverWithContext(cfg.URI, auth)
	if err != nil {
		return nil, grasshopper.NewConnectionError(cfg.URI, err)
	}
	if err := drv.VerifyConnectivity(ctx); err != nil {
		_ = drv.Close(ctx)
		return nil, grasshopper.NewConnectionError(cfg.URI, err)
	}
	return &Driver{cfg: cfg, driver: drv}, nil
}

// Dialect returns the dialect name.
func (d *Driver) Dialect() string {
	return dialect.Bolt
}

// Query submits a parameterized Cypher query in a read transaction and
// returns the rows as column-name keyed maps. Driver entities in the result
// are flattened to plain maps so callers above this package never see
// driver-specific types.
func (d *Driver) Query(ctx context.Context, text string, params map[string]any) ([]map[string]any, error) {
	session := d.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: d.cfg.Database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, text, params)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		return convertRecords(records), nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]map[string]any), nil
}

// Close releases the underlying driver resources.
func (d *Driver) Close(ctx context.Context) error {
	if d.driver == nil {
		return nil
	}
	err := d.driver.Close(ctx)
	d.driver = nil
	return err
}

func convertRecords(records []*neo4j.Record) []map[string]any {
	rows := make([]map[string]any, 0, len(records))
	for _, record := range records {
		row := make(map[string]any, len(record.Keys))
		for i, key := range record.Keys {
			row[key] = convertValue(record.Values[i])
		}
		rows = append(rows, row)
	}
	return rows
}
