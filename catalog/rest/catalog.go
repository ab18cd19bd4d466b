// Package rest implements the catalog abstraction over a remote catalog
// service speaking the lakecat REST protocol. Transport resilience (retries,
// backoff, connection reuse) lives in pkg/restclient; this package maps the
// wire protocol onto catalog semantics.
package rest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gear6io/lakecat/catalog/shared"
	"github.com/gear6io/lakecat/config"
	"github.com/gear6io/lakecat/pkg/errors"
	"github.com/gear6io/lakecat/pkg/restclient"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// Catalog implements the catalog interface against a remote REST service.
// Identifier depth limits and cascade support are the remote side's business;
// the adapter forwards requests as-is and reports cascade as supported so the
// server can decide.
type Catalog struct {
	name   string
	client *restclient.Client
	logger zerolog.Logger
}

// NewCatalog creates a REST catalog from configuration. Transport behavior is
// tuned through the endpoint, auth_token, connect_timeout_ms, read_timeout_ms,
// max_retries and retry_delay_ms properties.
func NewCatalog(cfg *config.CatalogConfig, logger zerolog.Logger) (*Catalog, error) {
	connectTimeout, err := cfg.Properties.GetMillis(config.PropConnectTimeout, 0)
	if err != nil {
		return nil, err
	}
	readTimeout, err := cfg.Properties.GetMillis(config.PropReadTimeout, 0)
	if err != nil {
		return nil, err
	}
	maxRetries, err := cfg.Properties.GetInt(config.PropMaxRetries, -1)
	if err != nil {
		return nil, err
	}
	retryDelay, err := cfg.Properties.GetMillis(config.PropRetryDelay, 0)
	if err != nil {
		return nil, err
	}

	client, err := restclient.New(restclient.Config{
		BaseURL:        cfg.Properties.GetString(config.PropEndpoint, ""),
		AuthToken:      cfg.Properties.GetString(config.PropAuthToken, ""),
		ConnectTimeout: connectTimeout,
		ReadTimeout:    readTimeout,
		MaxRetries:     maxRetries,
		RetryDelay:     retryDelay,
	}, logger)
	if err != nil {
		return nil, shared.NewInvalidInput("invalid rest catalog configuration").WithCause(err)
	}

	return &Catalog{
		name:   cfg.Name,
		client: client,
		logger: logger.With().Str("component", "rest-catalog").Logger(),
	}, nil
}

// Name returns the catalog name
func (c *Catalog) Name() string {
	return c.name
}

// Type returns the backend type
func (c *Catalog) Type() string {
	return "rest"
}

// SupportsCascade defers to the remote side, which rejects cascade itself
// when its backend cannot honor it
func (c *Catalog) SupportsCascade() bool {
	return true
}

// Close releases transport resources
func (c *Catalog) Close() error {
	c.client.Close()
	return nil
}

func identifierQuery(id shared.Identifier, pageToken string, pageSize int) url.Values {
	q := url.Values{}
	for _, level := range id.List() {
		q.Add(ParamLevel, level)
	}
	if pageToken != "" {
		q.Set(ParamPageToken, pageToken)
	}
	if pageSize > 0 {
		q.Set(ParamPageSize, strconv.Itoa(pageSize))
	}
	return q
}

// convertError maps a transport failure onto the shared taxonomy. Error
// bodies carrying a taxonomy code keep it; otherwise the HTTP status decides.
func convertError(err error) error {
	if err == nil {
		return nil
	}
	status := restclient.StatusCode(err)
	if status == 0 {
		code := errors.GetCode(err)
		switch code {
		case restclient.Unavailable, restclient.RequestFailed:
			return errors.New(shared.ServiceUnavailable, "catalog service is unavailable", err)
		case errors.CommonCanceled:
			return err
		default:
			return errors.New(shared.Internal, "catalog request failed", err)
		}
	}

	message := "catalog request failed"
	var bodyCode string
	if se, ok := statusError(err); ok && len(se.Body) > 0 {
		if parsed := gjson.GetBytes(se.Body, "message"); parsed.Exists() {
			message = parsed.String()
		}
		bodyCode = gjson.GetBytes(se.Body, "code").String()
	}

	if code, ok := taxonomyCode(bodyCode); ok {
		return errors.New(code, message, err)
	}

	switch {
	case status == http.StatusNotFound:
		return errors.New(shared.NotFound, message, err)
	case status == http.StatusConflict:
		return errors.New(shared.AlreadyExists, message, err)
	case status == http.StatusBadRequest:
		return errors.New(shared.InvalidInput, message, err)
	case status == http.StatusServiceUnavailable, status == http.StatusBadGateway, status == http.StatusGatewayTimeout:
		return errors.New(shared.ServiceUnavailable, message, err)
	default:
		return errors.New(shared.Internal, message, err)
	}
}

func statusError(err error) (*restclient.StatusError, bool) {
	for err != nil {
		if se, ok := err.(*restclient.StatusError); ok {
			return se, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}

func taxonomyCode(s string) (errors.Code, bool) {
	for _, code := range []errors.Code{
		shared.NotFound, shared.AlreadyExists, shared.NotEmpty,
		shared.InvalidInput, shared.ServiceUnavailable, shared.Internal,
	} {
		if code.String() == s {
			return code, true
		}
	}
	return errors.Code{}, false
}

// CreateNamespace forwards namespace creation to the remote service
func (c *Catalog) CreateNamespace(ctx context.Context, req *shared.CreateNamespaceRequest) (*shared.CreateNamespaceResponse, error) {
	if err := shared.CheckIdentifier(req.ID, 1, -1); err != nil {
		return nil, err
	}
	var out NamespacePropertiesWire
	err := c.client.Post(ctx, PathNamespaceCreate, &CreateNamespaceWire{
		ID:         req.ID.List(),
		Mode:       req.Mode.String(),
		Properties: req.Properties,
	}, &out)
	if err != nil {
		return nil, convertError(err)
	}
	return &shared.CreateNamespaceResponse{Properties: out.Properties}, nil
}

// ListNamespaces fetches one page of child namespaces
func (c *Catalog) ListNamespaces(ctx context.Context, req *shared.ListNamespacesRequest) (*shared.ListNamespacesResponse, error) {
	var out ListNamespacesWire
	err := c.client.Get(ctx, PathNamespaceList, identifierQuery(req.Parent, req.PageToken, req.PageSize), &out)
	if err != nil {
		return nil, convertError(err)
	}
	if out.Namespaces == nil {
		out.Namespaces = []string{}
	}
	return &shared.ListNamespacesResponse{Namespaces: out.Namespaces, NextPageToken: out.NextPageToken}, nil
}

// DescribeNamespace fetches namespace properties
func (c *Catalog) DescribeNamespace(ctx context.Context, req *shared.DescribeNamespaceRequest) (*shared.DescribeNamespaceResponse, error) {
	if err := shared.CheckIdentifier(req.ID, 1, -1); err != nil {
		return nil, err
	}
	var out NamespacePropertiesWire
	err := c.client.Get(ctx, PathNamespaceDescribe, identifierQuery(req.ID, "", 0), &out)
	if err != nil {
		return nil, convertError(err)
	}
	return &shared.DescribeNamespaceResponse{Properties: out.Properties}, nil
}

// DropNamespace forwards namespace removal to the remote service
func (c *Catalog) DropNamespace(ctx context.Context, req *shared.DropNamespaceRequest) (*shared.DropNamespaceResponse, error) {
	if err := shared.CheckIdentifier(req.ID, 1, -1); err != nil {
		return nil, err
	}
	var out DroppedWire
	err := c.client.Post(ctx, PathNamespaceDrop, &DropNamespaceWire{
		ID:       req.ID.List(),
		Mode:     req.Mode.String(),
		Behavior: req.Behavior.String(),
	}, &out)
	if err != nil {
		return nil, convertError(err)
	}
	return &shared.DropNamespaceResponse{Dropped: out.Dropped}, nil
}

// NamespaceExists checks existence on the remote service
func (c *Catalog) NamespaceExists(ctx context.Context, id shared.Identifier) (bool, error) {
	if err := shared.CheckIdentifier(id, 1, -1); err != nil {
		return false, err
	}
	var out ExistsWire
	err := c.client.Get(ctx, PathNamespaceExists, identifierQuery(id, "", 0), &out)
	if err != nil {
		return false, convertError(err)
	}
	return out.Exists, nil
}

// DeclareTable forwards table registration to the remote service
func (c *Catalog) DeclareTable(ctx context.Context, req *shared.DeclareTableRequest) (*shared.DeclareTableResponse, error) {
	if err := shared.CheckIdentifier(req.ID, 2, -1); err != nil {
		return nil, err
	}
	var out TableWire
	err := c.client.Post(ctx, PathTableCreate, &CreateTableWire{
		ID:         req.ID.List(),
		Location:   req.Location,
		Mode:       req.Mode.String(),
		Properties: req.Properties,
	}, &out)
	if err != nil {
		return nil, convertError(err)
	}
	return &shared.DeclareTableResponse{Location: out.Location, Properties: out.Properties}, nil
}

// ListTables fetches one page of table names
func (c *Catalog) ListTables(ctx context.Context, req *shared.ListTablesRequest) (*shared.ListTablesResponse, error) {
	if err := shared.CheckIdentifier(req.Namespace, 1, -1); err != nil {
		return nil, err
	}
	var out ListTablesWire
	err := c.client.Get(ctx, PathTableList, identifierQuery(req.Namespace, req.PageToken, req.PageSize), &out)
	if err != nil {
		return nil, convertError(err)
	}
	if out.Tables == nil {
		out.Tables = []string{}
	}
	return &shared.ListTablesResponse{Tables: out.Tables, NextPageToken: out.NextPageToken}, nil
}

// DescribeTable fetches table location and properties
func (c *Catalog) DescribeTable(ctx context.Context, req *shared.DescribeTableRequest) (*shared.DescribeTableResponse, error) {
	if err := shared.CheckIdentifier(req.ID, 2, -1); err != nil {
		return nil, err
	}
	var out TableWire
	err := c.client.Get(ctx, PathTableDescribe, identifierQuery(req.ID, "", 0), &out)
	if err != nil {
		return nil, convertError(err)
	}
	return &shared.DescribeTableResponse{Location: out.Location, Properties: out.Properties}, nil
}

// DeregisterTable forwards table removal to the remote service
func (c *Catalog) DeregisterTable(ctx context.Context, req *shared.DeregisterTableRequest) (*shared.DeregisterTableResponse, error) {
	if err := shared.CheckIdentifier(req.ID, 2, -1); err != nil {
		return nil, err
	}
	var out DroppedWire
	err := c.client.Post(ctx, PathTableDrop, &DropTableWire{
		ID:   req.ID.List(),
		Mode: req.Mode.String(),
	}, &out)
	if err != nil {
		return nil, convertError(err)
	}
	return &shared.DeregisterTableResponse{Dropped: out.Dropped, Location: out.Location}, nil
}

// TableExists checks existence on the remote service
func (c *Catalog) TableExists(ctx context.Context, id shared.Identifier) (bool, error) {
	if err := shared.CheckIdentifier(id, 2, -1); err != nil {
		return false, err
	}
	var out ExistsWire
	err := c.client.Get(ctx, PathTableExists, identifierQuery(id, "", 0), &out)
	if err != nil {
		return false, convertError(err)
	}
	return out.Exists, nil
}
