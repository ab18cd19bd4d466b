package rest

// Wire protocol shared between the REST adapter and the lakecat catalog
// server. Identifiers travel as JSON level arrays in POST bodies and as
// repeated "level" query parameters on GETs, so level values never need
// delimiter escaping.

// Route paths under the base endpoint
const (
	PathNamespaceCreate   = "/v1/namespace/create"
	PathNamespaceList     = "/v1/namespace/list"
	PathNamespaceDescribe = "/v1/namespace/describe"
	PathNamespaceDrop     = "/v1/namespace/drop"
	PathNamespaceExists   = "/v1/namespace/exists"

	PathTableCreate   = "/v1/table/create"
	PathTableList     = "/v1/table/list"
	PathTableDescribe = "/v1/table/describe"
	PathTableDrop     = "/v1/table/drop"
	PathTableExists   = "/v1/table/exists"
)

// Query parameter names for GET routes
const (
	ParamLevel     = "level"
	ParamPageToken = "page_token"
	ParamPageSize  = "page_size"
)

type CreateNamespaceWire struct {
	ID         []string          `json:"id"`
	Mode       string            `json:"mode,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

type NamespacePropertiesWire struct {
	Properties map[string]string `json:"properties"`
}

type ListNamespacesWire struct {
	Namespaces    []string `json:"namespaces"`
	NextPageToken string   `json:"next_page_token,omitempty"`
}

type DropNamespaceWire struct {
	ID       []string `json:"id"`
	Mode     string   `json:"mode,omitempty"`
	Behavior string   `json:"behavior,omitempty"`
}

type DroppedWire struct {
	Dropped  bool   `json:"dropped"`
	Location string `json:"location,omitempty"`
}

type ExistsWire struct {
	Exists bool `json:"exists"`
}

type CreateTableWire struct {
	ID         []string          `json:"id"`
	Location   string            `json:"location,omitempty"`
	Mode       string            `json:"mode,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

type TableWire struct {
	Location   string            `json:"location"`
	Properties map[string]string `json:"properties"`
}

type ListTablesWire struct {
	Tables        []string `json:"tables"`
	NextPageToken string   `json:"next_page_token,omitempty"`
}

type DropTableWire struct {
	ID   []string `json:"id"`
	Mode string   `json:"mode,omitempty"`
}

// ErrorWire is the error body every non-2xx response carries
type ErrorWire struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
