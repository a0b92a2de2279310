package symbolic

import "agisystem2/core/internal/types"

// Substitution maps a hole's name to the atom name it is bound to.
type Substitution map[string]string

// unifyPatternToGround matches a (possibly hole-bearing) pattern against
// a fully-bound ground statement, returning the resulting variable
// bindings. Pattern holes reuse a prior binding if the same variable
// name recurs (e.g. `sell ?who Book ?who` would require both positions
// to carry the same atom).
func unifyPatternToGround(pattern, ground types.Statement) (Substitution, bool) {
	if pattern.Operator != ground.Operator || len(pattern.Args) != len(ground.Args) {
		return nil, false
	}
	sub := Substitution{}
	for i, p := range pattern.Args {
		if p.IsHole() {
			if existing, ok := sub[p.Hole.Name]; ok {
				if existing != ground.Args[i].AtomName {
					return nil, false
				}
				continue
			}
			sub[p.Hole.Name] = ground.Args[i].AtomName
			continue
		}
		if p.AtomName != ground.Args[i].AtomName {
			return nil, false
		}
	}
	return sub, true
}

// Instantiate replaces every hole in pattern with its binding from sub,
// producing a ground statement. A hole absent from sub is left as-is
// (the caller is responsible for only instantiating fully-bound
// patterns). Exported for the holographic engine, which shares this
// package's Substitution/Binding vocabulary.
func Instantiate(pattern types.Statement, sub Substitution) types.Statement {
	return instantiate(pattern, sub)
}

func instantiate(pattern types.Statement, sub Substitution) types.Statement {
	out := pattern
	out.Args = make([]types.Term, len(pattern.Args))
	for i, a := range pattern.Args {
		if a.IsHole() {
			if v, ok := sub[a.Hole.Name]; ok {
				out.Args[i] = types.BoundTerm(v)
				continue
			}
		}
		out.Args[i] = a
	}
	return out
}

// boundConstraints extracts the (position -> atom name) map for a
// statement's non-hole arguments, the shape kb.FactsMatching expects.
func boundConstraints(stmt types.Statement) map[int]string {
	out := make(map[int]string)
	for i, a := range stmt.Args {
		if !a.IsHole() {
			out[i] = a.AtomName
		}
	}
	return out
}

func negate(stmt types.Statement) types.Statement {
	out := stmt
	if stmt.Mode == types.Negate {
		out.Mode = types.Assert
	} else {
		out.Mode = types.Negate
	}
	return out
}

// ConclusionText renders stmt for a proof Step's human-readable
// Conclusion/Premises text. Exported for the holographic engine.
func ConclusionText(stmt types.Statement) string {
	return conclusionText(stmt)
}

func conclusionText(stmt types.Statement) string {
	s := stmt.Operator
	if stmt.Mode == types.Negate {
		s = "not(" + s
	}
	for _, a := range stmt.Args {
		if a.IsHole() {
			s += " ?" + a.Hole.Name
		} else {
			s += " " + a.AtomName
		}
	}
	if stmt.Mode == types.Negate {
		s += ")"
	}
	return s
}

func bindingKey(sub Substitution) string {
	// Small, fixed variable counts in practice; a simple concatenation is
	// adequate as a dedup key and keeps this package free of a sorting
	// dependency for what is always a tiny map.
	key := ""
	for _, name := range sortedKeys(sub) {
		key += name + "=" + sub[name] + "\x00"
	}
	return key
}

func sortedKeys(sub Substitution) []string {
	keys := make([]string, 0, len(sub))
	for k := range sub {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
