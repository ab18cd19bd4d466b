// Package cli implements the lakecat command line interface.
package cli

import (
	"strings"

	"github.com/gear6io/lakecat/catalog"
	"github.com/gear6io/lakecat/catalog/shared"
	"github.com/gear6io/lakecat/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lakecat",
	Short: "Namespace and table metadata across catalog backends",
	Long: `Lakecat manages namespace and table metadata through a single
abstraction over multiple catalog backends.

Supported backends: an embedded SQLite catalog, a Hive metastore,
and a remote lakecat REST service. The backend is selected in the
configuration file; commands behave identically across backends.`,
	Version: "0.1.0",
}

var configFile string

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to config file")

	rootCmd.AddCommand(namespaceCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the configured file, falling back to defaults when no file
// is given
func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.LoadDefaultConfig(), nil
	}
	return config.LoadConfig(configFile)
}

// openCatalog builds the configured catalog backend plus its logger
func openCatalog() (catalog.Catalog, zerolog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	logger, err := config.SetupLogger(cfg)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	cat, err := catalog.NewCatalog(&cfg.Catalog, logger)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	return cat, logger, nil
}

// parseIdentifier splits a dotted command line identifier into levels
func parseIdentifier(arg string) shared.Identifier {
	if arg == "" {
		return shared.Root()
	}
	return shared.FromList(strings.Split(arg, "."))
}

// parseProperties parses repeated key=value flags into a property map
func parseProperties(pairs []string) (map[string]string, error) {
	props := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, shared.NewInvalidInput("property must be key=value, got %q", pair)
		}
		props[key] = value
	}
	return props, nil
}
