package shared

import (
	"strings"

	"github.com/gear6io/lakecat/pkg/errors"
)

// CreateMode controls how creation behaves when the target already exists.
type CreateMode int

const (
	// CreateModeCreate fails when the target exists
	CreateModeCreate CreateMode = iota
	// CreateModeExistOK succeeds without touching an existing target
	CreateModeExistOK
	// CreateModeOverwrite replaces an existing target
	CreateModeOverwrite
)

// ParseCreateMode parses a caller-supplied mode string. Absent means
// CreateModeCreate; matching is case-insensitive and "existok" is accepted
// alongside "exist_ok".
func ParseCreateMode(s string) (CreateMode, error) {
	switch strings.ToLower(s) {
	case "", "create":
		return CreateModeCreate, nil
	case "exist_ok", "existok":
		return CreateModeExistOK, nil
	case "overwrite":
		return CreateModeOverwrite, nil
	default:
		return CreateModeCreate, errors.Newf(InvalidInput, "unknown create mode %q", s)
	}
}

func (m CreateMode) String() string {
	switch m {
	case CreateModeExistOK:
		return "exist_ok"
	case CreateModeOverwrite:
		return "overwrite"
	default:
		return "create"
	}
}

// DropMode controls how removal behaves when the target is absent.
type DropMode int

const (
	// DropModeFail fails when the target does not exist
	DropModeFail DropMode = iota
	// DropModeSkip succeeds as a no-op when the target does not exist
	DropModeSkip
)

// ParseDropMode parses a caller-supplied mode string; absent means DropModeFail
func ParseDropMode(s string) (DropMode, error) {
	switch strings.ToLower(s) {
	case "", "fail":
		return DropModeFail, nil
	case "skip":
		return DropModeSkip, nil
	default:
		return DropModeFail, errors.Newf(InvalidInput, "unknown drop mode %q", s)
	}
}

func (m DropMode) String() string {
	if m == DropModeSkip {
		return "skip"
	}
	return "fail"
}

// DropBehavior controls what happens when a dropped namespace is not empty.
type DropBehavior int

const (
	// DropBehaviorRestrict refuses to drop a non-empty namespace
	DropBehaviorRestrict DropBehavior = iota
	// DropBehaviorCascade removes the namespace together with everything under
	// it. Support is per backend; unsupported backends reject it up front.
	DropBehaviorCascade
)

// ParseDropBehavior parses a caller-supplied behavior string; absent means
// DropBehaviorRestrict
func ParseDropBehavior(s string) (DropBehavior, error) {
	switch strings.ToLower(s) {
	case "", "restrict":
		return DropBehaviorRestrict, nil
	case "cascade":
		return DropBehaviorCascade, nil
	default:
		return DropBehaviorRestrict, errors.Newf(InvalidInput, "unknown drop behavior %q", s)
	}
}

func (b DropBehavior) String() string {
	if b == DropBehaviorCascade {
		return "cascade"
	}
	return "restrict"
}

// CreateNamespaceRequest creates the namespace named by ID with the given
// user properties.
type CreateNamespaceRequest struct {
	ID         Identifier
	Mode       CreateMode
	Properties map[string]string
}

// CreateNamespaceResponse reports the properties of the namespace after the
// operation, including any backend-populated ones.
type CreateNamespaceResponse struct {
	Properties map[string]string
}

// ListNamespacesRequest lists immediate child namespaces of Parent. The root
// identifier lists top-level namespaces.
type ListNamespacesRequest struct {
	Parent    Identifier
	PageToken string
	PageSize  int
}

// ListNamespacesResponse is one page of child namespace names in lexical
// order. NextPageToken is empty on the final page.
type ListNamespacesResponse struct {
	Namespaces    []string
	NextPageToken string
}

// DescribeNamespaceRequest fetches the properties of an existing namespace.
type DescribeNamespaceRequest struct {
	ID Identifier
}

type DescribeNamespaceResponse struct {
	Properties map[string]string
}

// DropNamespaceRequest removes the namespace named by ID. Behavior only
// matters when the namespace still contains tables or child namespaces.
type DropNamespaceRequest struct {
	ID       Identifier
	Mode     DropMode
	Behavior DropBehavior
}

// DropNamespaceResponse reports whether anything was actually removed;
// Dropped is false for a skipped no-op.
type DropNamespaceResponse struct {
	Dropped bool
}

// DeclareTableRequest registers the table named by ID at Location. An empty
// Location asks the backend to derive one under its storage root.
type DeclareTableRequest struct {
	ID         Identifier
	Location   string
	Mode       CreateMode
	Properties map[string]string
}

// DeclareTableResponse reports the registered location and the table's
// properties after the operation.
type DeclareTableResponse struct {
	Location   string
	Properties map[string]string
}

// ListTablesRequest lists tables directly inside Namespace.
type ListTablesRequest struct {
	Namespace Identifier
	PageToken string
	PageSize  int
}

// ListTablesResponse is one page of table names in lexical order.
type ListTablesResponse struct {
	Tables        []string
	NextPageToken string
}

// DescribeTableRequest fetches the location and properties of a table.
type DescribeTableRequest struct {
	ID Identifier
}

type DescribeTableResponse struct {
	Location   string
	Properties map[string]string
}

// DeregisterTableRequest removes the table entry named by ID. Only the
// metadata entry is removed; data at the table location is never touched.
type DeregisterTableRequest struct {
	ID   Identifier
	Mode DropMode
}

// DeregisterTableResponse reports whether an entry was removed and, when one
// was, the location it pointed at.
type DeregisterTableResponse struct {
	Dropped  bool
	Location string
}
