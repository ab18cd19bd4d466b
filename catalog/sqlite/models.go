package sqlite

import (
	"encoding/json"
	"time"

	"github.com/gear6io/lakecat/catalog/shared"
	"github.com/uptrace/bun"
)

// pathSep joins identifier levels into a single stored path column. The unit
// separator cannot appear in practical namespace names, so stored paths split
// back unambiguously even when levels contain dots.
const pathSep = "\x1f"

// TimeAuditable provides common timestamp fields for stored entities
type TimeAuditable struct {
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Namespace is one namespace row. Path is the full encoded identifier;
// Parent and Name are denormalized for child listing.
type Namespace struct {
	bun.BaseModel `bun:"table:namespaces"`
	TimeAuditable

	ID         int64  `bun:"id,pk,autoincrement"`
	Path       string `bun:"path,notnull,unique"`
	Parent     string `bun:"parent,notnull"`
	Name       string `bun:"name,notnull"`
	Properties string `bun:"properties,notnull,default:'{}'"`
}

// Table is one table entry row. NamespacePath references the owning
// namespace's Path; Properties holds the JSON-encoded property map including
// the format marker.
type Table struct {
	bun.BaseModel `bun:"table:tables"`
	TimeAuditable

	ID            int64  `bun:"id,pk,autoincrement"`
	NamespacePath string `bun:"namespace_path,notnull"`
	Name          string `bun:"name,notnull"`
	Location      string `bun:"location,notnull"`
	Properties    string `bun:"properties,notnull,default:'{}'"`
}

func encodePath(id shared.Identifier) string {
	return id.Delimited(pathSep)
}

func encodeProperties(props map[string]string) (string, error) {
	if len(props) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(props)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeProperties(raw string) (map[string]string, error) {
	props := map[string]string{}
	if raw == "" {
		return props, nil
	}
	if err := json.Unmarshal([]byte(raw), &props); err != nil {
		return nil, err
	}
	return props, nil
}
