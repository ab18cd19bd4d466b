package config

import "github.com/gear6io/lakecat/pkg/errors"

// Config-specific error codes
var (
	ErrConfigFileReadFailed   = errors.MustNewCode("config.file_read_failed")
	ErrConfigFileParseFailed  = errors.MustNewCode("config.file_parse_failed")
	ErrConfigValidationFailed = errors.MustNewCode("config.validation_failed")
	ErrCatalogTypeRequired    = errors.MustNewCode("config.catalog_type_required")
	ErrPropertyInvalid        = errors.MustNewCode("config.property_invalid")

	// Logging-specific error codes
	ErrLogDirectoryCreationFailed = errors.MustNewCode("config.log_directory_creation_failed")
	ErrLogFileOpenFailed          = errors.MustNewCode("config.log_file_open_failed")
)
