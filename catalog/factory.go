package catalog

import (
	"github.com/gear6io/lakecat/catalog/hms"
	"github.com/gear6io/lakecat/catalog/rest"
	"github.com/gear6io/lakecat/catalog/sqlite"
	"github.com/gear6io/lakecat/config"
	"github.com/gear6io/lakecat/pkg/errors"
	"github.com/rs/zerolog"
)

// NewCatalog creates a catalog backend based on the configuration
func NewCatalog(cfg *config.CatalogConfig, logger zerolog.Logger) (Catalog, error) {
	switch cfg.Type {
	case "sqlite":
		return sqlite.NewCatalog(cfg, logger)
	case "hms":
		return hms.NewCatalog(cfg, logger)
	case "rest":
		return rest.NewCatalog(cfg, logger)
	default:
		return nil, errors.New(ErrUnsupportedCatalogType, "unsupported catalog type", nil).AddContext("catalog_type", cfg.Type)
	}
}
