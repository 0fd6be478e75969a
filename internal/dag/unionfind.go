package dag

// UnionFind groups values into disjoint sets. Sets are merged by size and
// lookups halve the path they walk, so long chains flatten as they are used.
type UnionFind[T comparable] struct {
	up   map[T]T
	size map[T]int
}

// NewUnionFind returns an empty UnionFind.
func NewUnionFind[T comparable]() *UnionFind[T] {
	return &UnionFind[T]{up: make(map[T]T), size: make(map[T]int)}
}

// Add makes x a set of its own unless it is already known.
func (u *UnionFind[T]) Add(x T) {
	if _, ok := u.up[x]; !ok {
		u.up[x] = x
		u.size[x] = 1
	}
}

// Find returns the representative of x's set, adding x first when unknown.
func (u *UnionFind[T]) Find(x T) T {
	u.Add(x)
	for u.up[x] != x {
		u.up[x] = u.up[u.up[x]]
		x = u.up[x]
	}
	return x
}

// Union merges the sets of x and y. The larger set's representative
// survives.
func (u *UnionFind[T]) Union(x, y T) {
	a, b := u.Find(x), u.Find(y)
	if a == b {
		return
	}
	if u.size[a] < u.size[b] {
		a, b = b, a
	}
	u.up[b] = a
	u.size[a] += u.size[b]
	delete(u.size, b)
}

// Connected reports whether x and y are in the same set.
func (u *UnionFind[T]) Connected(x, y T) bool {
	return u.Find(x) == u.Find(y)
}

// Components maps each representative to the members of its set. Neither
// the map nor the member slices are ordered.
func (u *UnionFind[T]) Components() map[T][]T {
	out := make(map[T][]T, len(u.size))
	for x := range u.up {
		r := u.Find(x)
		out[r] = append(out[r], x)
	}
	return out
}
