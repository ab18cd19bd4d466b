// Package hms implements the catalog abstraction against a Hive-metastore
// style backend. The wire protocol is abstracted behind the Client interface
// so deployments plug in their metastore driver; the package supplies the
// catalog semantics, connection pooling and reconnect handling on top.
package hms

import (
	"context"
	stderrors "errors"
)

// Sentinel failures a Client implementation reports. Drivers wrap their
// protocol-level errors with these so the catalog can map them onto the
// shared taxonomy without knowing the protocol.
var (
	// ErrNoSuchObject means the referenced database or table does not exist
	ErrNoSuchObject = stderrors.New("hms: no such object")

	// ErrObjectExists means the database or table already exists
	ErrObjectExists = stderrors.New("hms: object already exists")

	// ErrNonEmpty means a database still holds tables and cannot be dropped
	ErrNonEmpty = stderrors.New("hms: database not empty")

	// ErrConnectionLost means the connection is broken and the operation may
	// succeed on a fresh one
	ErrConnectionLost = stderrors.New("hms: connection lost")
)

// Database is a metastore database record
type Database struct {
	Name        string
	Description string
	LocationURI string
	Parameters  map[string]string
}

// TableInfo is a metastore table record; Parameters carries the
// backend-native table properties including the format marker
type TableInfo struct {
	DatabaseName string
	Name         string
	Location     string
	Parameters   map[string]string
}

// Client is one metastore connection. Implementations need not be safe for
// concurrent use; the catalog serializes access through its pool.
type Client interface {
	GetDatabase(ctx context.Context, name string) (*Database, error)
	CreateDatabase(ctx context.Context, db *Database) error
	DropDatabase(ctx context.Context, name string) error
	ListDatabases(ctx context.Context) ([]string, error)

	GetTable(ctx context.Context, database, name string) (*TableInfo, error)
	CreateTable(ctx context.Context, tbl *TableInfo) error
	DropTable(ctx context.Context, database, name string) error
	ListTables(ctx context.Context, database string) ([]*TableInfo, error)

	Close() error
}

// DialFunc opens a new metastore connection
type DialFunc func(ctx context.Context) (Client, error)

var defaultDialer DialFunc

// RegisterDialer installs the process-wide metastore driver used when a
// catalog is built from configuration. Embedding applications call this once
// at startup; tests inject a dialer directly through NewCatalogWithDialer.
func RegisterDialer(dial DialFunc) {
	defaultDialer = dial
}
