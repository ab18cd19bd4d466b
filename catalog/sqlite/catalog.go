// Package sqlite implements the catalog abstraction on an embedded SQLite
// database. Namespaces may nest to arbitrary depth and cascading namespace
// drops are supported.
package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sort"

	"github.com/gear6io/lakecat/catalog/shared"
	"github.com/gear6io/lakecat/config"
	"github.com/gear6io/lakecat/pkg/errors"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Catalog implements the catalog interface using SQLite through bun
type Catalog struct {
	name   string
	root   string
	db     *bun.DB
	logger zerolog.Logger
}

// NewCatalog creates a new SQLite-based catalog. The database path comes from
// the "database" property, defaulting to <root>/lakecat.db.
func NewCatalog(cfg *config.CatalogConfig, logger zerolog.Logger) (*Catalog, error) {
	root := shared.StripTrailingSlash(cfg.Root)
	if root == "" {
		root = "./data"
	}

	dbPath := cfg.Properties.GetString(config.PropDatabase, filepath.Join(root, "lakecat.db"))
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, errors.New(ErrCatalogDirectoryCreateFailed, "failed to create catalog directory", err)
		}
	}

	sqldb, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, errors.New(ErrDatabaseOpenFailed, "failed to open SQLite database", err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	cat := &Catalog{
		name:   cfg.Name,
		root:   root,
		db:     db,
		logger: logger.With().Str("component", "sqlite-catalog").Logger(),
	}

	if err := cat.initializeDatabase(context.Background()); err != nil {
		db.Close()
		return nil, errors.New(ErrDatabaseInitFailed, "failed to initialize database", err)
	}

	cat.logger.Debug().Str("database", dbPath).Msg("SQLite catalog ready")
	return cat, nil
}

func (c *Catalog) initializeDatabase(ctx context.Context) error {
	models := []interface{}{
		(*Namespace)(nil),
		(*Table)(nil),
	}
	for _, model := range models {
		if _, err := c.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Name returns the catalog name
func (c *Catalog) Name() string {
	return c.name
}

// Type returns the backend type
func (c *Catalog) Type() string {
	return "sqlite"
}

// SupportsCascade reports cascade support; SQLite can delete a whole subtree
func (c *Catalog) SupportsCascade() bool {
	return true
}

// Close closes the database connection
func (c *Catalog) Close() error {
	if err := c.db.Close(); err != nil {
		return errors.New(ErrDatabaseCloseFailed, "failed to close SQLite catalog", err)
	}
	return nil
}

func (c *Catalog) getNamespace(ctx context.Context, path string) (*Namespace, error) {
	ns := new(Namespace)
	err := c.db.NewSelect().Model(ns).Where("path = ?", path).Scan(ctx)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, shared.NewInternal("failed to read namespace").WithCause(err)
	}
	return ns, nil
}

func (c *Catalog) getTable(ctx context.Context, nsPath, name string) (*Table, error) {
	tbl := new(Table)
	err := c.db.NewSelect().Model(tbl).
		Where("namespace_path = ?", nsPath).
		Where("name = ?", name).
		Scan(ctx)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, shared.NewInternal("failed to read table entry").WithCause(err)
	}
	return tbl, nil
}

// requireNamespace fails with a not-found taxonomy error when the namespace
// named by id does not exist. The root namespace always exists.
func (c *Catalog) requireNamespace(ctx context.Context, id shared.Identifier) error {
	if id.IsRoot() {
		return nil
	}
	ns, err := c.getNamespace(ctx, encodePath(id))
	if err != nil {
		return err
	}
	if ns == nil {
		return shared.NewNotFound("namespace %s does not exist", id)
	}
	return nil
}

// namespaceIsEmpty reports whether the namespace has no child namespaces and
// no visible tables
func (c *Catalog) namespaceIsEmpty(ctx context.Context, path string) (bool, error) {
	children, err := c.db.NewSelect().Model((*Namespace)(nil)).Where("parent = ?", path).Count(ctx)
	if err != nil {
		return false, shared.NewInternal("failed to count child namespaces").WithCause(err)
	}
	if children > 0 {
		return false, nil
	}
	tables, err := c.db.NewSelect().Model((*Table)(nil)).Where("namespace_path = ?", path).Count(ctx)
	if err != nil {
		return false, shared.NewInternal("failed to count tables").WithCause(err)
	}
	return tables == 0, nil
}

// CreateNamespace creates the namespace named by req.ID. The parent namespace
// must already exist. Overwrite requires the existing namespace to be empty.
func (c *Catalog) CreateNamespace(ctx context.Context, req *shared.CreateNamespaceRequest) (*shared.CreateNamespaceResponse, error) {
	if err := shared.CheckIdentifier(req.ID, 1, -1); err != nil {
		return nil, err
	}

	parent, err := req.ID.Parent()
	if err != nil {
		return nil, err
	}
	if err := c.requireNamespace(ctx, parent); err != nil {
		return nil, err
	}

	path := encodePath(req.ID)
	existing, err := c.getNamespace(ctx, path)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		switch req.Mode {
		case shared.CreateModeExistOK:
			props, err := decodeProperties(existing.Properties)
			if err != nil {
				return nil, shared.NewInternal("stored namespace properties are corrupt").WithCause(err)
			}
			return &shared.CreateNamespaceResponse{Properties: props}, nil
		case shared.CreateModeOverwrite:
			empty, err := c.namespaceIsEmpty(ctx, path)
			if err != nil {
				return nil, err
			}
			if !empty {
				return nil, shared.NewNotEmpty("cannot overwrite non-empty namespace %s", req.ID)
			}
			raw, err := encodeProperties(req.Properties)
			if err != nil {
				return nil, shared.NewInternal("failed to encode namespace properties").WithCause(err)
			}
			if _, err := c.db.NewUpdate().Model((*Namespace)(nil)).
				Set("properties = ?", raw).
				Set("updated_at = current_timestamp").
				Where("path = ?", path).
				Exec(ctx); err != nil {
				return nil, shared.NewInternal("failed to overwrite namespace").WithCause(err)
			}
			return &shared.CreateNamespaceResponse{Properties: copyProps(req.Properties)}, nil
		default:
			return nil, shared.NewAlreadyExists("namespace %s already exists", req.ID)
		}
	}

	raw, err := encodeProperties(req.Properties)
	if err != nil {
		return nil, shared.NewInternal("failed to encode namespace properties").WithCause(err)
	}
	name, err := req.ID.Name()
	if err != nil {
		return nil, err
	}
	ns := &Namespace{
		Path:       path,
		Parent:     encodePath(parent),
		Name:       name,
		Properties: raw,
	}
	if _, err := c.db.NewInsert().Model(ns).Exec(ctx); err != nil {
		return nil, shared.NewInternal("failed to create namespace").WithCause(err)
	}

	c.logger.Debug().Str("namespace", req.ID.String()).Msg("Namespace created")
	return &shared.CreateNamespaceResponse{Properties: copyProps(req.Properties)}, nil
}

// ListNamespaces lists immediate child namespaces of req.Parent in lexical
// order, one page at a time
func (c *Catalog) ListNamespaces(ctx context.Context, req *shared.ListNamespacesRequest) (*shared.ListNamespacesResponse, error) {
	if err := shared.CheckIdentifier(req.Parent, 0, -1); err != nil {
		return nil, err
	}
	if err := c.requireNamespace(ctx, req.Parent); err != nil {
		return nil, err
	}

	var names []string
	err := c.db.NewSelect().Model((*Namespace)(nil)).
		Column("name").
		Where("parent = ?", encodePath(req.Parent)).
		Order("name ASC").
		Scan(ctx, &names)
	if err != nil {
		return nil, shared.NewInternal("failed to list namespaces").WithCause(err)
	}

	page := shared.SplitPage(names, req.PageToken, shared.NormalizePageSize(req.PageSize))
	return &shared.ListNamespacesResponse{Namespaces: page.Items, NextPageToken: page.NextToken}, nil
}

// DescribeNamespace returns the properties of an existing namespace
func (c *Catalog) DescribeNamespace(ctx context.Context, req *shared.DescribeNamespaceRequest) (*shared.DescribeNamespaceResponse, error) {
	if err := shared.CheckIdentifier(req.ID, 1, -1); err != nil {
		return nil, err
	}
	ns, err := c.getNamespace(ctx, encodePath(req.ID))
	if err != nil {
		return nil, err
	}
	if ns == nil {
		return nil, shared.NewNotFound("namespace %s does not exist", req.ID)
	}
	props, err := decodeProperties(ns.Properties)
	if err != nil {
		return nil, shared.NewInternal("stored namespace properties are corrupt").WithCause(err)
	}
	return &shared.DescribeNamespaceResponse{Properties: props}, nil
}

// DropNamespace removes a namespace. Restrict refuses a non-empty namespace;
// cascade removes the whole subtree including its table entries.
func (c *Catalog) DropNamespace(ctx context.Context, req *shared.DropNamespaceRequest) (*shared.DropNamespaceResponse, error) {
	if err := shared.CheckIdentifier(req.ID, 1, -1); err != nil {
		return nil, err
	}

	path := encodePath(req.ID)
	ns, err := c.getNamespace(ctx, path)
	if err != nil {
		return nil, err
	}
	if ns == nil {
		if req.Mode == shared.DropModeSkip {
			return &shared.DropNamespaceResponse{Dropped: false}, nil
		}
		return nil, shared.NewNotFound("namespace %s does not exist", req.ID)
	}

	if req.Behavior == shared.DropBehaviorRestrict {
		empty, err := c.namespaceIsEmpty(ctx, path)
		if err != nil {
			return nil, err
		}
		if !empty {
			return nil, shared.NewNotEmpty("namespace %s is not empty", req.ID)
		}
	}

	// Delete the namespace row plus, under cascade, every descendant
	// namespace and table entry. Under restrict the subtree is already known
	// to be empty, so the prefix clauses match nothing extra.
	prefix := path + pathSep
	err = c.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*Table)(nil)).
			Where("namespace_path = ? OR namespace_path LIKE ?", path, prefix+"%").
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*Namespace)(nil)).
			Where("path = ? OR path LIKE ?", path, prefix+"%").
			Exec(ctx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, shared.NewInternal("failed to drop namespace").WithCause(err)
	}

	c.logger.Debug().Str("namespace", req.ID.String()).Str("behavior", req.Behavior.String()).Msg("Namespace dropped")
	return &shared.DropNamespaceResponse{Dropped: true}, nil
}

// NamespaceExists reports whether the namespace exists
func (c *Catalog) NamespaceExists(ctx context.Context, id shared.Identifier) (bool, error) {
	if err := shared.CheckIdentifier(id, 1, -1); err != nil {
		return false, err
	}
	ns, err := c.getNamespace(ctx, encodePath(id))
	if err != nil {
		return false, err
	}
	return ns != nil, nil
}

// DeclareTable registers a table entry inside an existing namespace. The
// stored properties always carry the format marker; an empty location is
// derived under the catalog root.
func (c *Catalog) DeclareTable(ctx context.Context, req *shared.DeclareTableRequest) (*shared.DeclareTableResponse, error) {
	if err := shared.CheckIdentifier(req.ID, 2, -1); err != nil {
		return nil, err
	}

	namespace, err := req.ID.Parent()
	if err != nil {
		return nil, err
	}
	name, err := req.ID.Name()
	if err != nil {
		return nil, err
	}
	if err := c.requireNamespace(ctx, namespace); err != nil {
		return nil, err
	}

	nsPath := encodePath(namespace)
	existing, err := c.getTable(ctx, nsPath, name)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		marked, props, err := tableVisible(existing)
		if err != nil {
			return nil, err
		}
		switch {
		case req.Mode == shared.CreateModeExistOK && marked:
			return &shared.DeclareTableResponse{Location: existing.Location, Properties: props}, nil
		case req.Mode == shared.CreateModeOverwrite:
			return c.overwriteTable(ctx, req, existing, namespace, name)
		default:
			return nil, shared.NewAlreadyExists("table %s already exists", req.ID)
		}
	}

	location := req.Location
	if location == "" {
		location = shared.DefaultTableLocation(c.root, namespace, name)
	}
	stored := shared.LanceTableProperties(req.Properties)
	raw, err := encodeProperties(stored)
	if err != nil {
		return nil, shared.NewInternal("failed to encode table properties").WithCause(err)
	}

	tbl := &Table{
		NamespacePath: nsPath,
		Name:          name,
		Location:      location,
		Properties:    raw,
	}
	if _, err := c.db.NewInsert().Model(tbl).Exec(ctx); err != nil {
		return nil, shared.NewInternal("failed to register table").WithCause(err)
	}

	c.logger.Debug().Str("table", req.ID.String()).Str("location", location).Msg("Table registered")
	return &shared.DeclareTableResponse{Location: location, Properties: stored}, nil
}

func (c *Catalog) overwriteTable(ctx context.Context, req *shared.DeclareTableRequest, existing *Table, namespace shared.Identifier, name string) (*shared.DeclareTableResponse, error) {
	location := req.Location
	if location == "" {
		location = shared.DefaultTableLocation(c.root, namespace, name)
	}
	stored := shared.LanceTableProperties(req.Properties)
	raw, err := encodeProperties(stored)
	if err != nil {
		return nil, shared.NewInternal("failed to encode table properties").WithCause(err)
	}
	if _, err := c.db.NewUpdate().Model((*Table)(nil)).
		Set("location = ?", location).
		Set("properties = ?", raw).
		Set("updated_at = current_timestamp").
		Where("id = ?", existing.ID).
		Exec(ctx); err != nil {
		return nil, shared.NewInternal("failed to overwrite table").WithCause(err)
	}
	return &shared.DeclareTableResponse{Location: location, Properties: stored}, nil
}

// ListTables lists tables carrying the format marker inside a namespace
func (c *Catalog) ListTables(ctx context.Context, req *shared.ListTablesRequest) (*shared.ListTablesResponse, error) {
	if err := shared.CheckIdentifier(req.Namespace, 1, -1); err != nil {
		return nil, err
	}
	if err := c.requireNamespace(ctx, req.Namespace); err != nil {
		return nil, err
	}

	var rows []Table
	err := c.db.NewSelect().Model(&rows).
		Where("namespace_path = ?", encodePath(req.Namespace)).
		Scan(ctx)
	if err != nil {
		return nil, shared.NewInternal("failed to list tables").WithCause(err)
	}

	names := make([]string, 0, len(rows))
	for i := range rows {
		marked, _, err := tableVisible(&rows[i])
		if err != nil {
			return nil, err
		}
		if marked {
			names = append(names, rows[i].Name)
		}
	}
	sort.Strings(names)

	page := shared.SplitPage(names, req.PageToken, shared.NormalizePageSize(req.PageSize))
	return &shared.ListTablesResponse{Tables: page.Items, NextPageToken: page.NextToken}, nil
}

// DescribeTable returns the location and properties of a visible table
func (c *Catalog) DescribeTable(ctx context.Context, req *shared.DescribeTableRequest) (*shared.DescribeTableResponse, error) {
	if err := shared.CheckIdentifier(req.ID, 2, -1); err != nil {
		return nil, err
	}
	tbl, _, props, err := c.findVisibleTable(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if tbl == nil {
		return nil, shared.NewNotFound("table %s does not exist", req.ID)
	}
	return &shared.DescribeTableResponse{Location: tbl.Location, Properties: props}, nil
}

// DeregisterTable removes a visible table entry, leaving the data at its
// location untouched
func (c *Catalog) DeregisterTable(ctx context.Context, req *shared.DeregisterTableRequest) (*shared.DeregisterTableResponse, error) {
	if err := shared.CheckIdentifier(req.ID, 2, -1); err != nil {
		return nil, err
	}
	tbl, _, _, err := c.findVisibleTable(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if tbl == nil {
		if req.Mode == shared.DropModeSkip {
			return &shared.DeregisterTableResponse{Dropped: false}, nil
		}
		return nil, shared.NewNotFound("table %s does not exist", req.ID)
	}

	if _, err := c.db.NewDelete().Model((*Table)(nil)).Where("id = ?", tbl.ID).Exec(ctx); err != nil {
		return nil, shared.NewInternal("failed to deregister table").WithCause(err)
	}

	c.logger.Debug().Str("table", req.ID.String()).Msg("Table deregistered")
	return &shared.DeregisterTableResponse{Dropped: true, Location: tbl.Location}, nil
}

// TableExists reports whether a visible table exists
func (c *Catalog) TableExists(ctx context.Context, id shared.Identifier) (bool, error) {
	if err := shared.CheckIdentifier(id, 2, -1); err != nil {
		return false, err
	}
	tbl, _, _, err := c.findVisibleTable(ctx, id)
	if err != nil {
		return false, err
	}
	return tbl != nil, nil
}

// findVisibleTable resolves id to a stored row only when the row carries the
// format marker; unmarked rows are treated as absent
func (c *Catalog) findVisibleTable(ctx context.Context, id shared.Identifier) (*Table, bool, map[string]string, error) {
	namespace, err := id.Parent()
	if err != nil {
		return nil, false, nil, err
	}
	name, err := id.Name()
	if err != nil {
		return nil, false, nil, err
	}
	tbl, err := c.getTable(ctx, encodePath(namespace), name)
	if err != nil {
		return nil, false, nil, err
	}
	if tbl == nil {
		return nil, false, nil, nil
	}
	marked, props, err := tableVisible(tbl)
	if err != nil {
		return nil, false, nil, err
	}
	if !marked {
		return nil, false, nil, nil
	}
	return tbl, true, props, nil
}

func tableVisible(tbl *Table) (bool, map[string]string, error) {
	props, err := decodeProperties(tbl.Properties)
	if err != nil {
		return false, nil, shared.NewInternal("stored table properties are corrupt").WithCause(err)
	}
	return shared.IsLanceTable(props), props, nil
}

func copyProps(props map[string]string) map[string]string {
	out := make(map[string]string, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}
