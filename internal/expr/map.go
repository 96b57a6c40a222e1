package expr

// Map is a hash map keyed by expressions under Equal. Lookups hit the
// pointer fast path first, so the common case of asking again for the very
// same node never walks the tree.
type Map[V any] struct {
	buckets map[uint64][]mapEntry[V]
	size    int
}

type mapEntry[V any] struct {
	key   Expr
	value V
}

func NewMap[V any]() *Map[V] {
	return &Map[V]{buckets: make(map[uint64][]mapEntry[V])}
}

// Get returns the value stored for a key structurally equal to k.
func (m *Map[V]) Get(k Expr) (V, bool) {
	bucket := m.buckets[k.Hash()]
	for _, e := range bucket {
		if e.key == k {
			return e.value, true
		}
	}
	for _, e := range bucket {
		if Equal(e.key, k) {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// Put stores v for k, replacing the value of an equal key.
func (m *Map[V]) Put(k Expr, v V) {
	h := k.Hash()
	bucket := m.buckets[h]
	for i, e := range bucket {
		if e.key == k || Equal(e.key, k) {
			bucket[i].value = v
			return
		}
	}
	m.buckets[h] = append(bucket, mapEntry[V]{key: k, value: v})
	m.size++
}

func (m *Map[V]) Len() int { return m.size }

// Clear drops every entry, keeping the map usable.
func (m *Map[V]) Clear() {
	clear(m.buckets)
	m.size = 0
}
