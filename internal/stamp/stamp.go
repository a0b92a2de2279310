// Package stamp provides the two deterministic vector-creation entry
// points the rest of the reasoning substrate builds on: reserved
// position vectors and content atom vectors. Both are pure functions of
// a strategy and a name — the vocabulary is what turns them into
// persistent, interned entries (see package vocabulary), mirroring how
// the teacher lineage's StringInterner separates "derive a canonical
// value" from "remember it for reuse."
package stamp

import (
	"fmt"

	"agisystem2/core/internal/types"
	"agisystem2/core/internal/vector"
)

// positionPrefix marks a name as a reserved positional-role atom rather
// than a content atom. The two share one name space: a content atom
// literally named "__POS_0__" gets the same name, and so the same
// vector, as position 0.
const positionPrefix = "__POS_"

// PositionName returns the reserved name for position index k (0-based).
func PositionName(k int) string {
	return fmt.Sprintf("%s%d__", positionPrefix, k)
}

// IsPositionName reports whether name is a reserved position name rather
// than a content atom name.
func IsPositionName(name string) bool {
	if len(name) <= len(positionPrefix) {
		return false
	}
	return name[:len(positionPrefix)] == positionPrefix
}

// Position derives the reserved vector for positional role k under the
// given strategy, geometry, and theory. Position vectors share the
// theory's namespace so that two theories never accidentally bind
// against the same positional role vector, matching the same
// per-theory-seed discipline atom names use.
func Position(s vector.Strategy, geometry int, theoryID string, k int) vector.Vector {
	return s.CreateFromName(PositionName(k), geometry, theoryID)
}

// Atom derives the content vector for a name under the given strategy,
// geometry, and theory, and returns it wrapped in a types.Atom. It is a
// pure function — it does not consult or mutate any vocabulary; callers
// that need interning (the same name always yielding the same Atom
// value within a session) go through vocabulary.Vocabulary.GetOrCreate
// instead, which calls this function on first sight of a name.
func Atom(s vector.Strategy, geometry int, theoryID, name string) types.Atom {
	return types.Atom{
		Name:           name,
		Vector:         s.CreateFromName(name, geometry, theoryID),
		CreationTheory: theoryID,
	}
}
