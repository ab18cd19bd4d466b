package shared

import (
	"strings"
)

// Backend-native table properties marking an object as a Lance table. Objects
// without the marker are invisible to listing and describe operations.
const (
	TableTypeKey   = "table_type"
	TableTypeLance = "lance"
)

// IsLanceTable reports whether backend-native properties carry the Lance
// format marker. The comparison is case-insensitive on the value.
func IsLanceTable(properties map[string]string) bool {
	for k, v := range properties {
		if strings.EqualFold(k, TableTypeKey) {
			return strings.EqualFold(v, TableTypeLance)
		}
	}
	return false
}

// LanceTableProperties returns table properties stamped with the format
// marker, copying the caller's map
func LanceTableProperties(properties map[string]string) map[string]string {
	out := make(map[string]string, len(properties)+1)
	for k, v := range properties {
		out[k] = v
	}
	out[TableTypeKey] = TableTypeLance
	return out
}

// StripTrailingSlash normalizes a storage root for joining
func StripTrailingSlash(path string) string {
	return strings.TrimRight(path, "/")
}

// DefaultTableLocation computes the table location under the configured
// storage root when the caller supplies none: <root>/<namespace path>/<table>.lance
func DefaultTableLocation(root string, namespace Identifier, tableName string) string {
	parts := []string{StripTrailingSlash(root)}
	parts = append(parts, namespace.List()...)
	parts = append(parts, tableName+".lance")
	return strings.Join(parts, "/")
}
