package sqlite

import "github.com/gear6io/lakecat/pkg/errors"

// SQLite catalog error codes
var (
	ErrCatalogDirectoryCreateFailed = errors.MustNewCode("sqlite.catalog_directory_create_failed")
	ErrDatabaseOpenFailed           = errors.MustNewCode("sqlite.database_open_failed")
	ErrDatabaseInitFailed           = errors.MustNewCode("sqlite.database_init_failed")
	ErrDatabaseCloseFailed          = errors.MustNewCode("sqlite.database_close_failed")
)
