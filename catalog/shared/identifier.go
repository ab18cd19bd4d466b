package shared

import (
	"strings"

	"github.com/gear6io/lakecat/pkg/errors"
)

// Identifier is a hierarchical object identifier naming a namespace or table.
//
// An identifier consists of zero or more string levels:
//
//   - the root identifier has 0 levels and stands for "all top-level namespaces"
//   - ["my_catalog"] names a 1-level namespace
//   - ["my_catalog", "my_db"] names a 2-level namespace
//   - ["my_catalog", "my_db", "my_table"] names a table
//
// Identifiers are immutable values; derived identifiers are always fresh
// copies. The type itself imposes no depth limit; depth policy is per
// backend, enforced through CheckIdentifier.
type Identifier struct {
	levels []string
}

// Root returns the root identifier
func Root() Identifier {
	return Identifier{}
}

// Of builds an identifier from the given levels. Empty input yields the root
// identifier; Of never fails.
func Of(levels ...string) Identifier {
	return FromList(levels)
}

// FromList builds an identifier from a slice of levels, copying the input
func FromList(levels []string) Identifier {
	if len(levels) == 0 {
		return Identifier{}
	}
	cp := make([]string, len(levels))
	copy(cp, levels)
	return Identifier{levels: cp}
}

// IsRoot reports whether the identifier has zero levels
func (id Identifier) IsRoot() bool {
	return len(id.levels) == 0
}

// Levels returns the number of levels
func (id Identifier) Levels() int {
	return len(id.levels)
}

// LevelAt returns the level at the given position
func (id Identifier) LevelAt(i int) (string, error) {
	if i < 0 || i >= len(id.levels) {
		return "", errors.Newf(InvalidInput, "level %d out of range for identifier %s with %d levels", i, id, len(id.levels))
	}
	return id.levels[i], nil
}

// List returns a copy of the levels
func (id Identifier) List() []string {
	cp := make([]string, len(id.levels))
	copy(cp, id.levels)
	return cp
}

// Parent returns the identifier with the last level removed
func (id Identifier) Parent() (Identifier, error) {
	if id.IsRoot() {
		return Identifier{}, errors.Newf(InvalidInput, "root identifier has no parent")
	}
	return FromList(id.levels[:len(id.levels)-1]), nil
}

// Name returns the last level
func (id Identifier) Name() (string, error) {
	if id.IsRoot() {
		return "", errors.Newf(InvalidInput, "root identifier has no name")
	}
	return id.levels[len(id.levels)-1], nil
}

// Child returns the identifier with name appended
func (id Identifier) Child(name string) Identifier {
	levels := make([]string, 0, len(id.levels)+1)
	levels = append(levels, id.levels...)
	levels = append(levels, name)
	return Identifier{levels: levels}
}

// Equal reports structural equality by level sequence
func (id Identifier) Equal(other Identifier) bool {
	if len(id.levels) != len(other.levels) {
		return false
	}
	for i := range id.levels {
		if id.levels[i] != other.levels[i] {
			return false
		}
	}
	return true
}

// String renders the identifier in dotted display form; the root renders as []
func (id Identifier) String() string {
	if id.IsRoot() {
		return "[]"
	}
	return strings.Join(id.levels, ".")
}

// Delimited joins the levels with the given delimiter
func (id Identifier) Delimited(delimiter string) string {
	return strings.Join(id.levels, delimiter)
}

// CheckIdentifier validates backend depth policy: the identifier must have
// between minLevels and maxLevels levels (inclusive) and no empty segment.
// maxLevels < 0 means unbounded depth.
func CheckIdentifier(id Identifier, minLevels, maxLevels int) error {
	n := id.Levels()
	if n < minLevels || (maxLevels >= 0 && n > maxLevels) {
		if maxLevels == minLevels {
			return errors.Newf(InvalidInput, "expect a %d-level identifier but got %s", minLevels, id).
				AddContext("identifier", id.String())
		}
		return errors.Newf(InvalidInput, "expect an identifier with %d to %d levels but got %s", minLevels, maxLevels, id).
			AddContext("identifier", id.String())
	}
	for i, level := range id.levels {
		if level == "" {
			return errors.Newf(InvalidInput, "identifier %s has an empty segment at level %d", id, i).
				AddContext("identifier", id.String())
		}
	}
	return nil
}
