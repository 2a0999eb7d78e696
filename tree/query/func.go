package query

import "github.com/creachadair/jbind/tree"

// Exists returns a selection that reports true if its argument satisfies the
// specified query. The arguments have the same constraints as Path.
func Exists(keys ...any) Selection {
	q := Path(keys...)
	return func(v tree.Node) bool {
		_, err := q.eval(v)
		return err == nil
	}
}

// Is returns a selection that reports true if its argument has type T.
func Is[T tree.Node]() Selection {
	return func(v tree.Node) bool { _, ok := v.(T); return ok }
}

// IsNot returns a selection that reports true if its argument does not have
// type T.
func IsNot[T tree.Node]() Selection {
	return func(v tree.Node) bool { _, ok := v.(T); return !ok }
}

// OfKind returns a selection that reports true if its argument is a primitive
// of one of the given kinds.
func OfKind(kinds ...tree.Kind) Selection {
	return func(v tree.Node) bool {
		p, ok := v.(tree.Primitive)
		if !ok {
			return false
		}
		for _, k := range kinds {
			if p.Kind() == k {
				return true
			}
		}
		return false
	}
}

// Map constructs a mapping from the given function. The resulting mapping will
// return unmodified any value whose type does not match T.
func Map[T, U tree.Node](f func(T) U) Mapping {
	return func(v tree.Node) tree.Node {
		if w, ok := v.(T); ok {
			return f(w)
		}
		return v
	}
}

// Filter constructs a selection from the given function. The resulting
// selection will discard any value whose type does not match T.
func Filter[T tree.Node](f func(T) bool) Selection {
	return func(v tree.Node) bool { w, ok := v.(T); return ok && f(w) }
}
