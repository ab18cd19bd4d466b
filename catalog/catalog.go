// Package catalog defines the backend-agnostic catalog abstraction: a small
// set of namespace and table metadata operations that every backend adapter
// implements with identical semantics, plus a factory that builds an adapter
// from configuration.
package catalog

import (
	"context"

	"github.com/gear6io/lakecat/catalog/shared"
)

// Catalog is the common interface implemented by every backend adapter.
//
// All operations take hierarchical identifiers (see shared.Identifier); each
// backend documents its supported identifier depth and rejects others with an
// invalid-input error. Failures across all implementations map onto the
// shared taxonomy codes in catalog/shared so callers can branch on error kind
// without knowing which backend they talk to.
//
// Implementations are safe for concurrent use. Close releases backend
// resources; operations after Close fail.
type Catalog interface {
	// Name returns the configured catalog instance name
	Name() string

	// Type returns the backend type string used to construct this catalog
	Type() string

	// SupportsCascade reports whether DropNamespace accepts
	// DropBehaviorCascade. Backends without recursive delete return false
	// and reject cascade requests with an invalid-input error.
	SupportsCascade() bool

	CreateNamespace(ctx context.Context, req *shared.CreateNamespaceRequest) (*shared.CreateNamespaceResponse, error)
	ListNamespaces(ctx context.Context, req *shared.ListNamespacesRequest) (*shared.ListNamespacesResponse, error)
	DescribeNamespace(ctx context.Context, req *shared.DescribeNamespaceRequest) (*shared.DescribeNamespaceResponse, error)
	DropNamespace(ctx context.Context, req *shared.DropNamespaceRequest) (*shared.DropNamespaceResponse, error)

	// NamespaceExists reports existence without surfacing a not-found error
	NamespaceExists(ctx context.Context, id shared.Identifier) (bool, error)

	DeclareTable(ctx context.Context, req *shared.DeclareTableRequest) (*shared.DeclareTableResponse, error)
	ListTables(ctx context.Context, req *shared.ListTablesRequest) (*shared.ListTablesResponse, error)
	DescribeTable(ctx context.Context, req *shared.DescribeTableRequest) (*shared.DescribeTableResponse, error)
	DeregisterTable(ctx context.Context, req *shared.DeregisterTableRequest) (*shared.DeregisterTableResponse, error)

	// TableExists reports existence without surfacing a not-found error
	TableExists(ctx context.Context, id shared.Identifier) (bool, error)

	Close() error
}
