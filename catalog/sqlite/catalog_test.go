package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gear6io/lakecat/catalog/shared"
	"github.com/gear6io/lakecat/config"
	"github.com/rs/zerolog"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	cfg := &config.CatalogConfig{
		Name: "test-catalog",
		Type: "sqlite",
		Root: "/warehouse",
		Properties: config.Properties{
			config.PropDatabase: filepath.Join(t.TempDir(), "catalog.db"),
		},
	}
	cat, err := NewCatalog(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to create catalog: %v", err)
	}
	t.Cleanup(func() { cat.Close() })
	return cat
}

func mustCreateNamespace(t *testing.T, cat *Catalog, id shared.Identifier, props map[string]string) {
	t.Helper()
	_, err := cat.CreateNamespace(context.Background(), &shared.CreateNamespaceRequest{
		ID:         id,
		Properties: props,
	})
	if err != nil {
		t.Fatalf("Failed to create namespace %s: %v", id, err)
	}
}

func TestCatalogIdentity(t *testing.T) {
	cat := newTestCatalog(t)
	if cat.Name() != "test-catalog" {
		t.Errorf("Expected name test-catalog, got %s", cat.Name())
	}
	if cat.Type() != "sqlite" {
		t.Errorf("Expected type sqlite, got %s", cat.Type())
	}
	if !cat.SupportsCascade() {
		t.Error("SQLite catalog should support cascade")
	}
}

func TestNamespaceLifecycle(t *testing.T) {
	cat := newTestCatalog(t)
	ctx := context.Background()
	id := shared.Of("analytics")

	exists, err := cat.NamespaceExists(ctx, id)
	if err != nil {
		t.Fatalf("NamespaceExists failed: %v", err)
	}
	if exists {
		t.Error("Namespace should not exist yet")
	}

	mustCreateNamespace(t, cat, id, map[string]string{"owner": "data-team"})

	exists, err = cat.NamespaceExists(ctx, id)
	if err != nil || !exists {
		t.Fatalf("Namespace should exist after create: %v, %v", exists, err)
	}

	desc, err := cat.DescribeNamespace(ctx, &shared.DescribeNamespaceRequest{ID: id})
	if err != nil {
		t.Fatalf("DescribeNamespace failed: %v", err)
	}
	if desc.Properties["owner"] != "data-team" {
		t.Errorf("Expected owner property, got %v", desc.Properties)
	}

	list, err := cat.ListNamespaces(ctx, &shared.ListNamespacesRequest{Parent: shared.Root()})
	if err != nil {
		t.Fatalf("ListNamespaces failed: %v", err)
	}
	if len(list.Namespaces) != 1 || list.Namespaces[0] != "analytics" {
		t.Errorf("Expected [analytics], got %v", list.Namespaces)
	}

	drop, err := cat.DropNamespace(ctx, &shared.DropNamespaceRequest{ID: id})
	if err != nil {
		t.Fatalf("DropNamespace failed: %v", err)
	}
	if !drop.Dropped {
		t.Error("Drop should report dropped")
	}

	exists, err = cat.NamespaceExists(ctx, id)
	if err != nil || exists {
		t.Errorf("Namespace should be gone: %v, %v", exists, err)
	}
}

func TestCreateNamespaceModes(t *testing.T) {
	cat := newTestCatalog(t)
	ctx := context.Background()
	id := shared.Of("sales")

	mustCreateNamespace(t, cat, id, map[string]string{"owner": "alpha"})

	_, err := cat.CreateNamespace(ctx, &shared.CreateNamespaceRequest{ID: id})
	if !shared.IsAlreadyExists(err) {
		t.Errorf("Duplicate create should be already exists, got %v", err)
	}

	resp, err := cat.CreateNamespace(ctx, &shared.CreateNamespaceRequest{
		ID:   id,
		Mode: shared.CreateModeExistOK,
	})
	if err != nil {
		t.Fatalf("exist_ok create failed: %v", err)
	}
	if resp.Properties["owner"] != "alpha" {
		t.Errorf("exist_ok should return existing properties, got %v", resp.Properties)
	}

	resp, err = cat.CreateNamespace(ctx, &shared.CreateNamespaceRequest{
		ID:         id,
		Mode:       shared.CreateModeOverwrite,
		Properties: map[string]string{"owner": "beta"},
	})
	if err != nil {
		t.Fatalf("Overwrite of empty namespace failed: %v", err)
	}
	if resp.Properties["owner"] != "beta" {
		t.Errorf("Overwrite should replace properties, got %v", resp.Properties)
	}

	// Overwrite must refuse once the namespace holds a table
	if _, err := cat.DeclareTable(ctx, &shared.DeclareTableRequest{ID: id.Child("orders")}); err != nil {
		t.Fatalf("DeclareTable failed: %v", err)
	}
	_, err = cat.CreateNamespace(ctx, &shared.CreateNamespaceRequest{ID: id, Mode: shared.CreateModeOverwrite})
	if !shared.IsNotEmpty(err) {
		t.Errorf("Overwrite of non-empty namespace should fail not empty, got %v", err)
	}
}

func TestNestedNamespaces(t *testing.T) {
	cat := newTestCatalog(t)
	ctx := context.Background()

	mustCreateNamespace(t, cat, shared.Of("a"), nil)
	mustCreateNamespace(t, cat, shared.Of("a", "b"), nil)
	mustCreateNamespace(t, cat, shared.Of("a", "c"), nil)

	// A child of a missing parent is rejected
	_, err := cat.CreateNamespace(ctx, &shared.CreateNamespaceRequest{ID: shared.Of("x", "y")})
	if !shared.IsNotFound(err) {
		t.Errorf("Orphan namespace should fail not found, got %v", err)
	}

	list, err := cat.ListNamespaces(ctx, &shared.ListNamespacesRequest{Parent: shared.Of("a")})
	if err != nil {
		t.Fatalf("ListNamespaces failed: %v", err)
	}
	if len(list.Namespaces) != 2 || list.Namespaces[0] != "b" || list.Namespaces[1] != "c" {
		t.Errorf("Expected [b c], got %v", list.Namespaces)
	}

	// Restrict refuses a namespace with children
	_, err = cat.DropNamespace(ctx, &shared.DropNamespaceRequest{ID: shared.Of("a")})
	if !shared.IsNotEmpty(err) {
		t.Errorf("Restrict drop of non-empty namespace should fail, got %v", err)
	}

	// Cascade removes the whole subtree
	drop, err := cat.DropNamespace(ctx, &shared.DropNamespaceRequest{
		ID:       shared.Of("a"),
		Behavior: shared.DropBehaviorCascade,
	})
	if err != nil || !drop.Dropped {
		t.Fatalf("Cascade drop failed: %v, %v", drop, err)
	}

	for _, id := range []shared.Identifier{shared.Of("a"), shared.Of("a", "b"), shared.Of("a", "c")} {
		exists, err := cat.NamespaceExists(ctx, id)
		if err != nil || exists {
			t.Errorf("Namespace %s should be gone after cascade: %v, %v", id, exists, err)
		}
	}
}

func TestDropNamespaceModes(t *testing.T) {
	cat := newTestCatalog(t)
	ctx := context.Background()
	id := shared.Of("ghost")

	_, err := cat.DropNamespace(ctx, &shared.DropNamespaceRequest{ID: id})
	if !shared.IsNotFound(err) {
		t.Errorf("Drop of missing namespace should fail not found, got %v", err)
	}

	resp, err := cat.DropNamespace(ctx, &shared.DropNamespaceRequest{ID: id, Mode: shared.DropModeSkip})
	if err != nil {
		t.Fatalf("Skip drop failed: %v", err)
	}
	if resp.Dropped {
		t.Error("Skip drop of missing namespace should report not dropped")
	}
}

func TestTableLifecycle(t *testing.T) {
	cat := newTestCatalog(t)
	ctx := context.Background()
	ns := shared.Of("analytics")
	mustCreateNamespace(t, cat, ns, nil)
	id := ns.Child("events")

	resp, err := cat.DeclareTable(ctx, &shared.DeclareTableRequest{
		ID:         id,
		Properties: map[string]string{"owner": "data-team"},
	})
	if err != nil {
		t.Fatalf("DeclareTable failed: %v", err)
	}
	if resp.Location != "/warehouse/analytics/events.lance" {
		t.Errorf("Unexpected derived location %s", resp.Location)
	}
	if !shared.IsLanceTable(resp.Properties) {
		t.Error("Registered table should carry the format marker")
	}

	desc, err := cat.DescribeTable(ctx, &shared.DescribeTableRequest{ID: id})
	if err != nil {
		t.Fatalf("DescribeTable failed: %v", err)
	}
	if desc.Location != resp.Location {
		t.Errorf("Describe location %s != declared %s", desc.Location, resp.Location)
	}
	if desc.Properties["owner"] != "data-team" {
		t.Errorf("User properties lost: %v", desc.Properties)
	}

	exists, err := cat.TableExists(ctx, id)
	if err != nil || !exists {
		t.Fatalf("Table should exist: %v, %v", exists, err)
	}

	list, err := cat.ListTables(ctx, &shared.ListTablesRequest{Namespace: ns})
	if err != nil {
		t.Fatalf("ListTables failed: %v", err)
	}
	if len(list.Tables) != 1 || list.Tables[0] != "events" {
		t.Errorf("Expected [events], got %v", list.Tables)
	}

	dereg, err := cat.DeregisterTable(ctx, &shared.DeregisterTableRequest{ID: id})
	if err != nil {
		t.Fatalf("DeregisterTable failed: %v", err)
	}
	if !dereg.Dropped || dereg.Location != resp.Location {
		t.Errorf("Deregister should report the removed location, got %+v", dereg)
	}

	exists, err = cat.TableExists(ctx, id)
	if err != nil || exists {
		t.Errorf("Table should be gone: %v, %v", exists, err)
	}
}

func TestTableInNestedNamespace(t *testing.T) {
	cat := newTestCatalog(t)
	ctx := context.Background()
	mustCreateNamespace(t, cat, shared.Of("acct"), nil)
	ns := shared.Of("acct", "ns1")
	mustCreateNamespace(t, cat, ns, nil)
	id := ns.Child("t1")

	resp, err := cat.DeclareTable(ctx, &shared.DeclareTableRequest{ID: id})
	if err != nil {
		t.Fatalf("DeclareTable failed: %v", err)
	}
	if resp.Location != "/warehouse/acct/ns1/t1.lance" {
		t.Errorf("Derived location should include every namespace level, got %s", resp.Location)
	}

	desc, err := cat.DescribeTable(ctx, &shared.DescribeTableRequest{ID: id})
	if err != nil {
		t.Fatalf("DescribeTable failed: %v", err)
	}
	if desc.Location != resp.Location {
		t.Errorf("Describe location %s != declared %s", desc.Location, resp.Location)
	}

	list, err := cat.ListTables(ctx, &shared.ListTablesRequest{Namespace: ns})
	if err != nil {
		t.Fatalf("ListTables failed: %v", err)
	}
	if len(list.Tables) != 1 || list.Tables[0] != "t1" {
		t.Errorf("Expected [t1], got %v", list.Tables)
	}
}

func TestDeclareTableModes(t *testing.T) {
	cat := newTestCatalog(t)
	ctx := context.Background()
	ns := shared.Of("db")
	mustCreateNamespace(t, cat, ns, nil)
	id := ns.Child("t1")

	first, err := cat.DeclareTable(ctx, &shared.DeclareTableRequest{ID: id, Location: "s3://bucket/t1.lance"})
	if err != nil {
		t.Fatalf("DeclareTable failed: %v", err)
	}

	_, err = cat.DeclareTable(ctx, &shared.DeclareTableRequest{ID: id})
	if !shared.IsAlreadyExists(err) {
		t.Errorf("Duplicate declare should fail already exists, got %v", err)
	}

	resp, err := cat.DeclareTable(ctx, &shared.DeclareTableRequest{ID: id, Mode: shared.CreateModeExistOK})
	if err != nil {
		t.Fatalf("exist_ok declare failed: %v", err)
	}
	if resp.Location != first.Location {
		t.Errorf("exist_ok should return the existing location, got %s", resp.Location)
	}

	resp, err = cat.DeclareTable(ctx, &shared.DeclareTableRequest{
		ID:       id,
		Mode:     shared.CreateModeOverwrite,
		Location: "s3://bucket/t1-v2.lance",
	})
	if err != nil {
		t.Fatalf("Overwrite declare failed: %v", err)
	}
	if resp.Location != "s3://bucket/t1-v2.lance" {
		t.Errorf("Overwrite should replace the location, got %s", resp.Location)
	}

	// Declaring into a missing namespace fails
	_, err = cat.DeclareTable(ctx, &shared.DeclareTableRequest{ID: shared.Of("nope", "t")})
	if !shared.IsNotFound(err) {
		t.Errorf("Declare into missing namespace should fail not found, got %v", err)
	}
}

func TestDeregisterTableModes(t *testing.T) {
	cat := newTestCatalog(t)
	ctx := context.Background()
	mustCreateNamespace(t, cat, shared.Of("db"), nil)
	id := shared.Of("db", "ghost")

	_, err := cat.DeregisterTable(ctx, &shared.DeregisterTableRequest{ID: id})
	if !shared.IsNotFound(err) {
		t.Errorf("Deregister of missing table should fail not found, got %v", err)
	}

	resp, err := cat.DeregisterTable(ctx, &shared.DeregisterTableRequest{ID: id, Mode: shared.DropModeSkip})
	if err != nil {
		t.Fatalf("Skip deregister failed: %v", err)
	}
	if resp.Dropped {
		t.Error("Skip deregister of missing table should report not dropped")
	}
}

func TestUnmarkedTablesAreInvisible(t *testing.T) {
	cat := newTestCatalog(t)
	ctx := context.Background()
	ns := shared.Of("db")
	mustCreateNamespace(t, cat, ns, nil)

	if _, err := cat.DeclareTable(ctx, &shared.DeclareTableRequest{ID: ns.Child("visible")}); err != nil {
		t.Fatalf("DeclareTable failed: %v", err)
	}

	// A foreign table without the marker, registered by some other system
	foreign := &Table{
		NamespacePath: encodePath(ns),
		Name:          "foreign",
		Location:      "/elsewhere/foreign",
		Properties:    `{"table_type":"iceberg"}`,
	}
	if _, err := cat.db.NewInsert().Model(foreign).Exec(ctx); err != nil {
		t.Fatalf("Failed to seed foreign table: %v", err)
	}

	list, err := cat.ListTables(ctx, &shared.ListTablesRequest{Namespace: ns})
	if err != nil {
		t.Fatalf("ListTables failed: %v", err)
	}
	if len(list.Tables) != 1 || list.Tables[0] != "visible" {
		t.Errorf("Unmarked table leaked into listing: %v", list.Tables)
	}

	_, err = cat.DescribeTable(ctx, &shared.DescribeTableRequest{ID: ns.Child("foreign")})
	if !shared.IsNotFound(err) {
		t.Errorf("Describe of unmarked table should fail not found, got %v", err)
	}

	exists, err := cat.TableExists(ctx, ns.Child("foreign"))
	if err != nil || exists {
		t.Errorf("Unmarked table should be invisible to exists: %v, %v", exists, err)
	}

	// The name is still taken at the backend level
	_, err = cat.DeclareTable(ctx, &shared.DeclareTableRequest{ID: ns.Child("foreign")})
	if !shared.IsAlreadyExists(err) {
		t.Errorf("Declaring over an unmarked table should fail already exists, got %v", err)
	}
}

func TestListTablesPagination(t *testing.T) {
	cat := newTestCatalog(t)
	ctx := context.Background()
	ns := shared.Of("db")
	mustCreateNamespace(t, cat, ns, nil)

	names := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	for _, name := range names {
		if _, err := cat.DeclareTable(ctx, &shared.DeclareTableRequest{ID: ns.Child(name)}); err != nil {
			t.Fatalf("DeclareTable %s failed: %v", name, err)
		}
	}

	var collected []string
	token := ""
	for {
		resp, err := cat.ListTables(ctx, &shared.ListTablesRequest{
			Namespace: ns,
			PageSize:  2,
			PageToken: token,
		})
		if err != nil {
			t.Fatalf("ListTables failed: %v", err)
		}
		if len(resp.Tables) > 2 {
			t.Fatalf("Page larger than requested: %v", resp.Tables)
		}
		collected = append(collected, resp.Tables...)
		if resp.NextPageToken == "" {
			break
		}
		token = resp.NextPageToken
	}

	if len(collected) != len(names) {
		t.Fatalf("Expected %d tables, got %d", len(names), len(collected))
	}
	for i, name := range names {
		if collected[i] != name {
			t.Errorf("Position %d: expected %s, got %s", i, name, collected[i])
		}
	}
}
