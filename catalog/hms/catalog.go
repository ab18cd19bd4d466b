package hms

import (
	"context"
	stderrors "errors"
	"sort"

	"github.com/gear6io/lakecat/catalog/shared"
	"github.com/gear6io/lakecat/config"
	"github.com/gear6io/lakecat/pkg/errors"
	"github.com/gear6io/lakecat/pkg/pool"
	"github.com/rs/zerolog"
)

// Hive metastore catalog error codes
var (
	ErrDriverNotRegistered = errors.MustNewCode("hms.driver_not_registered")
)

const defaultPoolSize = 3

// Catalog implements the catalog interface against a Hive metastore.
//
// Namespaces are metastore databases, so identifiers are exactly 1 level for
// namespaces and 2 for tables. The metastore has no recursive delete;
// cascade is not supported.
type Catalog struct {
	name   string
	root   string
	pool   *pool.Pool[Client]
	logger zerolog.Logger
}

// NewCatalog creates a metastore catalog using the process-wide registered
// driver
func NewCatalog(cfg *config.CatalogConfig, logger zerolog.Logger) (*Catalog, error) {
	if defaultDialer == nil {
		return nil, errors.New(ErrDriverNotRegistered, "hms catalog requires a registered metastore driver", nil)
	}
	return NewCatalogWithDialer(cfg, defaultDialer, logger)
}

// NewCatalogWithDialer creates a metastore catalog with an explicit driver
func NewCatalogWithDialer(cfg *config.CatalogConfig, dial DialFunc, logger zerolog.Logger) (*Catalog, error) {
	poolSize, err := cfg.Properties.GetInt(config.PropPoolSize, defaultPoolSize)
	if err != nil {
		return nil, err
	}

	logger = logger.With().Str("component", "hms-catalog").Logger()

	ops := pool.Ops[Client]{
		New: func(ctx context.Context) (Client, error) {
			return dial(ctx)
		},
		Close: func(client Client) {
			_ = client.Close()
		},
		Reconnect: func(ctx context.Context, client Client) (Client, error) {
			_ = client.Close()
			return dial(ctx)
		},
		IsConnectionError: func(err error) bool {
			return stderrors.Is(err, ErrConnectionLost)
		},
	}

	return &Catalog{
		name:   cfg.Name,
		root:   shared.StripTrailingSlash(cfg.Root),
		pool:   pool.New(poolSize, true, ops, logger),
		logger: logger,
	}, nil
}

// Name returns the catalog name
func (c *Catalog) Name() string {
	return c.name
}

// Type returns the backend type
func (c *Catalog) Type() string {
	return "hms"
}

// SupportsCascade reports cascade support; the metastore has none
func (c *Catalog) SupportsCascade() bool {
	return false
}

// Close shuts down the connection pool
func (c *Catalog) Close() error {
	c.pool.Close()
	return nil
}

// run executes action on a pooled connection and normalizes the failure onto
// the shared taxonomy
func (c *Catalog) run(ctx context.Context, action func(cl Client) error) error {
	return taxonomize(c.pool.Run(ctx, action))
}

func taxonomize(err error) error {
	if err == nil {
		return nil
	}
	code := errors.GetCode(err)
	switch {
	case code == shared.NotFound || code == shared.AlreadyExists || code == shared.NotEmpty ||
		code == shared.InvalidInput || code == shared.ServiceUnavailable || code == shared.Internal:
		return err
	case code == errors.CommonCanceled:
		return err
	case stderrors.Is(err, ErrNoSuchObject):
		return errors.New(shared.NotFound, "object does not exist", err)
	case stderrors.Is(err, ErrObjectExists):
		return errors.New(shared.AlreadyExists, "object already exists", err)
	case stderrors.Is(err, ErrNonEmpty):
		return errors.New(shared.NotEmpty, "database is not empty", err)
	case stderrors.Is(err, ErrConnectionLost),
		code == pool.PoolClosed,
		code == pool.PoolConnectFailed,
		code == pool.PoolReconnectFailed:
		return errors.New(shared.ServiceUnavailable, "metastore is unavailable", err)
	default:
		return errors.New(shared.Internal, "metastore operation failed", err)
	}
}

func databaseProperties(db *Database) map[string]string {
	props := make(map[string]string, len(db.Parameters)+1)
	for k, v := range db.Parameters {
		props[k] = v
	}
	if db.LocationURI != "" {
		props["location"] = db.LocationURI
	}
	return props
}

func (c *Catalog) buildDatabase(name string, properties map[string]string) *Database {
	params := make(map[string]string, len(properties))
	location := ""
	for k, v := range properties {
		if k == "location" {
			location = v
			continue
		}
		params[k] = v
	}
	if location == "" && c.root != "" {
		location = c.root + "/" + name
	}
	return &Database{
		Name:        name,
		LocationURI: location,
		Parameters:  params,
	}
}

// CreateNamespace creates a metastore database. Overwrite drops the existing
// database first, which fails with a not-empty error when it holds tables.
func (c *Catalog) CreateNamespace(ctx context.Context, req *shared.CreateNamespaceRequest) (*shared.CreateNamespaceResponse, error) {
	if err := shared.CheckIdentifier(req.ID, 1, 1); err != nil {
		return nil, err
	}
	name, err := req.ID.Name()
	if err != nil {
		return nil, err
	}

	var resp *shared.CreateNamespaceResponse
	err = c.run(ctx, func(cl Client) error {
		existing, err := cl.GetDatabase(ctx, name)
		if err != nil && !stderrors.Is(err, ErrNoSuchObject) {
			return err
		}

		if existing != nil {
			switch req.Mode {
			case shared.CreateModeExistOK:
				resp = &shared.CreateNamespaceResponse{Properties: databaseProperties(existing)}
				return nil
			case shared.CreateModeOverwrite:
				if err := cl.DropDatabase(ctx, name); err != nil {
					return err
				}
			default:
				return shared.NewAlreadyExists("namespace %s already exists", req.ID)
			}
		}

		db := c.buildDatabase(name, req.Properties)
		if err := cl.CreateDatabase(ctx, db); err != nil {
			return err
		}
		resp = &shared.CreateNamespaceResponse{Properties: databaseProperties(db)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Str("namespace", name).Msg("Namespace created")
	return resp, nil
}

// ListNamespaces lists metastore databases under the root identifier. A
// 1-level parent has no children by construction and yields an empty page.
func (c *Catalog) ListNamespaces(ctx context.Context, req *shared.ListNamespacesRequest) (*shared.ListNamespacesResponse, error) {
	if err := shared.CheckIdentifier(req.Parent, 0, 1); err != nil {
		return nil, err
	}

	if !req.Parent.IsRoot() {
		exists, err := c.NamespaceExists(ctx, req.Parent)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, shared.NewNotFound("namespace %s does not exist", req.Parent)
		}
		return &shared.ListNamespacesResponse{Namespaces: []string{}}, nil
	}

	var names []string
	err := c.run(ctx, func(cl Client) error {
		listed, err := cl.ListDatabases(ctx)
		if err != nil {
			return err
		}
		names = listed
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(names)
	page := shared.SplitPage(names, req.PageToken, shared.NormalizePageSize(req.PageSize))
	return &shared.ListNamespacesResponse{Namespaces: page.Items, NextPageToken: page.NextToken}, nil
}

// DescribeNamespace returns the database parameters plus its location
func (c *Catalog) DescribeNamespace(ctx context.Context, req *shared.DescribeNamespaceRequest) (*shared.DescribeNamespaceResponse, error) {
	if err := shared.CheckIdentifier(req.ID, 1, 1); err != nil {
		return nil, err
	}
	name, err := req.ID.Name()
	if err != nil {
		return nil, err
	}

	var resp *shared.DescribeNamespaceResponse
	err = c.run(ctx, func(cl Client) error {
		db, err := cl.GetDatabase(ctx, name)
		if err != nil {
			if stderrors.Is(err, ErrNoSuchObject) {
				return shared.NewNotFound("namespace %s does not exist", req.ID)
			}
			return err
		}
		resp = &shared.DescribeNamespaceResponse{Properties: databaseProperties(db)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// DropNamespace drops a metastore database; only restrict behavior exists
func (c *Catalog) DropNamespace(ctx context.Context, req *shared.DropNamespaceRequest) (*shared.DropNamespaceResponse, error) {
	if err := shared.CheckIdentifier(req.ID, 1, 1); err != nil {
		return nil, err
	}
	if req.Behavior == shared.DropBehaviorCascade {
		return nil, shared.NewInvalidInput("cascade drop is not supported by the hms catalog")
	}
	name, err := req.ID.Name()
	if err != nil {
		return nil, err
	}

	dropped := false
	err = c.run(ctx, func(cl Client) error {
		if err := cl.DropDatabase(ctx, name); err != nil {
			if stderrors.Is(err, ErrNoSuchObject) {
				if req.Mode == shared.DropModeSkip {
					return nil
				}
				return shared.NewNotFound("namespace %s does not exist", req.ID)
			}
			return err
		}
		dropped = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if dropped {
		c.logger.Debug().Str("namespace", name).Msg("Namespace dropped")
	}
	return &shared.DropNamespaceResponse{Dropped: dropped}, nil
}

// NamespaceExists reports whether the metastore database exists
func (c *Catalog) NamespaceExists(ctx context.Context, id shared.Identifier) (bool, error) {
	if err := shared.CheckIdentifier(id, 1, 1); err != nil {
		return false, err
	}
	name, err := id.Name()
	if err != nil {
		return false, err
	}

	exists := false
	err = c.run(ctx, func(cl Client) error {
		_, err := cl.GetDatabase(ctx, name)
		if err != nil {
			if stderrors.Is(err, ErrNoSuchObject) {
				return nil
			}
			return err
		}
		exists = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return exists, nil
}

// DeclareTable registers a marked table in an existing database. An empty
// location is derived under the database location, falling back to the
// catalog root.
func (c *Catalog) DeclareTable(ctx context.Context, req *shared.DeclareTableRequest) (*shared.DeclareTableResponse, error) {
	if err := shared.CheckIdentifier(req.ID, 2, 2); err != nil {
		return nil, err
	}
	database, err := req.ID.LevelAt(0)
	if err != nil {
		return nil, err
	}
	name, err := req.ID.LevelAt(1)
	if err != nil {
		return nil, err
	}

	var resp *shared.DeclareTableResponse
	err = c.run(ctx, func(cl Client) error {
		db, err := cl.GetDatabase(ctx, database)
		if err != nil {
			if stderrors.Is(err, ErrNoSuchObject) {
				return shared.NewNotFound("namespace %s does not exist", database)
			}
			return err
		}

		existing, err := cl.GetTable(ctx, database, name)
		if err != nil && !stderrors.Is(err, ErrNoSuchObject) {
			return err
		}

		if existing != nil {
			marked := shared.IsLanceTable(existing.Parameters)
			switch {
			case req.Mode == shared.CreateModeExistOK && marked:
				resp = &shared.DeclareTableResponse{Location: existing.Location, Properties: existing.Parameters}
				return nil
			case req.Mode == shared.CreateModeOverwrite:
				if err := cl.DropTable(ctx, database, name); err != nil {
					return err
				}
			default:
				return shared.NewAlreadyExists("table %s already exists", req.ID)
			}
		}

		location := req.Location
		if location == "" {
			if db.LocationURI != "" {
				location = shared.StripTrailingSlash(db.LocationURI) + "/" + name + ".lance"
			} else {
				location = shared.DefaultTableLocation(c.root, shared.Of(database), name)
			}
		}

		stored := shared.LanceTableProperties(req.Properties)
		tbl := &TableInfo{
			DatabaseName: database,
			Name:         name,
			Location:     location,
			Parameters:   stored,
		}
		if err := cl.CreateTable(ctx, tbl); err != nil {
			return err
		}
		resp = &shared.DeclareTableResponse{Location: location, Properties: stored}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Str("table", req.ID.String()).Str("location", resp.Location).Msg("Table registered")
	return resp, nil
}

// ListTables lists tables carrying the format marker inside a database
func (c *Catalog) ListTables(ctx context.Context, req *shared.ListTablesRequest) (*shared.ListTablesResponse, error) {
	if err := shared.CheckIdentifier(req.Namespace, 1, 1); err != nil {
		return nil, err
	}
	database, err := req.Namespace.Name()
	if err != nil {
		return nil, err
	}

	var names []string
	err = c.run(ctx, func(cl Client) error {
		if _, err := cl.GetDatabase(ctx, database); err != nil {
			if stderrors.Is(err, ErrNoSuchObject) {
				return shared.NewNotFound("namespace %s does not exist", req.Namespace)
			}
			return err
		}
		tables, err := cl.ListTables(ctx, database)
		if err != nil {
			return err
		}
		for _, tbl := range tables {
			if shared.IsLanceTable(tbl.Parameters) {
				names = append(names, tbl.Name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(names)
	page := shared.SplitPage(names, req.PageToken, shared.NormalizePageSize(req.PageSize))
	return &shared.ListTablesResponse{Tables: page.Items, NextPageToken: page.NextToken}, nil
}

// DescribeTable returns the location and parameters of a visible table
func (c *Catalog) DescribeTable(ctx context.Context, req *shared.DescribeTableRequest) (*shared.DescribeTableResponse, error) {
	if err := shared.CheckIdentifier(req.ID, 2, 2); err != nil {
		return nil, err
	}

	var resp *shared.DescribeTableResponse
	err := c.run(ctx, func(cl Client) error {
		tbl, err := c.findVisibleTable(ctx, cl, req.ID)
		if err != nil {
			return err
		}
		if tbl == nil {
			return shared.NewNotFound("table %s does not exist", req.ID)
		}
		resp = &shared.DescribeTableResponse{Location: tbl.Location, Properties: tbl.Parameters}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// DeregisterTable drops the metastore entry of a visible table
func (c *Catalog) DeregisterTable(ctx context.Context, req *shared.DeregisterTableRequest) (*shared.DeregisterTableResponse, error) {
	if err := shared.CheckIdentifier(req.ID, 2, 2); err != nil {
		return nil, err
	}
	database, err := req.ID.LevelAt(0)
	if err != nil {
		return nil, err
	}
	name, err := req.ID.LevelAt(1)
	if err != nil {
		return nil, err
	}

	var resp *shared.DeregisterTableResponse
	err = c.run(ctx, func(cl Client) error {
		tbl, err := c.findVisibleTable(ctx, cl, req.ID)
		if err != nil {
			return err
		}
		if tbl == nil {
			if req.Mode == shared.DropModeSkip {
				resp = &shared.DeregisterTableResponse{Dropped: false}
				return nil
			}
			return shared.NewNotFound("table %s does not exist", req.ID)
		}
		if err := cl.DropTable(ctx, database, name); err != nil {
			return err
		}
		resp = &shared.DeregisterTableResponse{Dropped: true, Location: tbl.Location}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resp.Dropped {
		c.logger.Debug().Str("table", req.ID.String()).Msg("Table deregistered")
	}
	return resp, nil
}

// TableExists reports whether a visible table exists
func (c *Catalog) TableExists(ctx context.Context, id shared.Identifier) (bool, error) {
	if err := shared.CheckIdentifier(id, 2, 2); err != nil {
		return false, err
	}

	exists := false
	err := c.run(ctx, func(cl Client) error {
		tbl, err := c.findVisibleTable(ctx, cl, id)
		if err != nil {
			return err
		}
		exists = tbl != nil
		return nil
	})
	if err != nil {
		return false, err
	}
	return exists, nil
}

// findVisibleTable resolves id to a metastore table only when it carries the
// format marker; unmarked tables are treated as absent
func (c *Catalog) findVisibleTable(ctx context.Context, cl Client, id shared.Identifier) (*TableInfo, error) {
	database, err := id.LevelAt(0)
	if err != nil {
		return nil, err
	}
	name, err := id.LevelAt(1)
	if err != nil {
		return nil, err
	}
	tbl, err := cl.GetTable(ctx, database, name)
	if err != nil {
		if stderrors.Is(err, ErrNoSuchObject) {
			return nil, nil
		}
		return nil, err
	}
	if !shared.IsLanceTable(tbl.Parameters) {
		return nil, nil
	}
	return tbl, nil
}
