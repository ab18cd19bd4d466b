package shared

import (
	"testing"
)

func TestRootIdentifier(t *testing.T) {
	root := Root()
	if !root.IsRoot() {
		t.Error("Root() should be root")
	}
	if root.Levels() != 0 {
		t.Errorf("Expected 0 levels, got %d", root.Levels())
	}
	if root.String() != "[]" {
		t.Errorf("Expected root to render as [], got %q", root.String())
	}
	if _, err := root.Parent(); err == nil {
		t.Error("Expected error taking parent of root")
	}
	if _, err := root.Name(); err == nil {
		t.Error("Expected error taking name of root")
	}
}

func TestIdentifierLevels(t *testing.T) {
	id := Of("my_catalog", "my_db", "my_table")

	if id.Levels() != 3 {
		t.Fatalf("Expected 3 levels, got %d", id.Levels())
	}
	name, err := id.Name()
	if err != nil {
		t.Fatalf("Name failed: %v", err)
	}
	if name != "my_table" {
		t.Errorf("Expected name my_table, got %s", name)
	}

	parent, err := id.Parent()
	if err != nil {
		t.Fatalf("Parent failed: %v", err)
	}
	if parent.String() != "my_catalog.my_db" {
		t.Errorf("Expected parent my_catalog.my_db, got %s", parent)
	}

	level, err := id.LevelAt(1)
	if err != nil {
		t.Fatalf("LevelAt failed: %v", err)
	}
	if level != "my_db" {
		t.Errorf("Expected level my_db, got %s", level)
	}
	if _, err := id.LevelAt(3); err == nil {
		t.Error("Expected error for out of range level")
	}
	_, err = id.LevelAt(-1)
	if !IsInvalidInput(err) {
		t.Error("Out of range level should be invalid input")
	}
}

func TestIdentifierImmutability(t *testing.T) {
	levels := []string{"a", "b"}
	id := FromList(levels)
	levels[0] = "mutated"
	if id.String() != "a.b" {
		t.Errorf("Identifier shares storage with caller slice: %s", id)
	}

	listed := id.List()
	listed[0] = "mutated"
	if id.String() != "a.b" {
		t.Errorf("List() exposes internal storage: %s", id)
	}

	child := id.Child("c")
	if child.String() != "a.b.c" {
		t.Errorf("Expected a.b.c, got %s", child)
	}
	if id.Levels() != 2 {
		t.Error("Child() mutated the receiver")
	}
}

func TestIdentifierEqual(t *testing.T) {
	if !Of("a", "b").Equal(Of("a", "b")) {
		t.Error("Equal identifiers reported unequal")
	}
	if Of("a", "b").Equal(Of("a")) {
		t.Error("Different depth reported equal")
	}
	if Of("a", "b").Equal(Of("a", "c")) {
		t.Error("Different levels reported equal")
	}
	if !Root().Equal(Of()) {
		t.Error("Root and empty Of should be equal")
	}
}

func TestIdentifierDelimited(t *testing.T) {
	id := Of("a", "b", "c")
	if got := id.Delimited("/"); got != "a/b/c" {
		t.Errorf("Expected a/b/c, got %s", got)
	}
}

func TestCheckIdentifier(t *testing.T) {
	if err := CheckIdentifier(Of("db"), 1, 1); err != nil {
		t.Errorf("Valid 1-level identifier rejected: %v", err)
	}
	if err := CheckIdentifier(Of("db", "tbl"), 1, 1); err == nil {
		t.Error("2-level identifier accepted with max 1")
	}
	if err := CheckIdentifier(Root(), 1, -1); err == nil {
		t.Error("Root accepted with min 1")
	}
	if err := CheckIdentifier(Of("a", "b", "c", "d"), 1, -1); err != nil {
		t.Errorf("Unbounded depth rejected deep identifier: %v", err)
	}
	err := CheckIdentifier(Of("a", "", "c"), 1, -1)
	if err == nil {
		t.Fatal("Empty segment accepted")
	}
	if !IsInvalidInput(err) {
		t.Errorf("Expected invalid input, got %v", err)
	}
}
