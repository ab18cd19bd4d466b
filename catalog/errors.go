package catalog

import "github.com/gear6io/lakecat/pkg/errors"

// Catalog factory error codes
var (
	ErrUnsupportedCatalogType = errors.MustNewCode("catalog.unsupported_type")
)
