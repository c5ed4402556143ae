package rod

import (
	"strings"
	"testing"

	"github.com/ValentinKolb/rod/lib/index/engines/ordered"
)

// checkConsistent verifies that every key in the index has a positive count
// and every count belongs to a key in the index.
func checkConsistent[K comparable, V any](t *testing.T, m *RodMap[K, V]) {
	t.Helper()
	s := m.s

	if s.index.Len() != s.refs.Len() {
		t.Fatalf("index has %d keys, refcount table has %d records", s.index.Len(), s.refs.Len())
	}
	s.index.Range(func(key K, _ V) bool {
		if s.refs.Count(key) == 0 {
			t.Errorf("key %v is in the index without a reference count", key)
		}
		return true
	})
	s.refs.Range(func(key K, count uint32) bool {
		if count == 0 {
			t.Errorf("key %v has a zero count record", key)
		}
		if _, ok := s.index.Get(key); !ok {
			t.Errorf("key %v has a count record but no index entry", key)
		}
		return true
	})
}

func TestStateConsistency(t *testing.T) {
	for name, m := range map[string]*RodMap[int, string]{
		"hash":    NewHash[int, string](nil),
		"ordered": NewOrdered[int, string](nil),
	} {
		t.Run(name, func(t *testing.T) {
			var handles []*Handle[int, string]
			for i := 0; i < 20; i++ {
				h, err := m.Insert(i, "v")
				if err != nil {
					t.Fatalf("Insert(%d) failed: %v", i, err)
				}
				handles = append(handles, h)
				if i%3 == 0 {
					c, _ := h.Clone()
					handles = append(handles, c)
				}
				checkConsistent(t, m)
			}

			for _, h := range handles {
				if err := h.Release(); err != nil {
					t.Fatalf("Release failed: %v", err)
				}
				checkConsistent(t, m)
			}

			if !m.IsEmpty() || m.s.refs.Total() != 0 {
				t.Errorf("Expected empty map, got %d keys and %d handles", m.Len(), m.s.refs.Total())
			}
		})
	}
}

func TestNewPanicsOnFilledIndex(t *testing.T) {
	m := NewHash[int, string](nil)
	_, _ = m.Insert(1, "v")

	defer func() {
		if recover() == nil {
			t.Errorf("New should panic on a non-empty index")
		}
	}()
	New[int, string](m.s.index, nil)
}

func TestDefaultName(t *testing.T) {
	m := NewHash[int, string](&Options{})
	if m.Info().Name != "default" {
		t.Errorf("Expected default name, got %q", m.Info().Name)
	}
	if m.Info().DuplicatePolicy != "reject" {
		t.Errorf("Expected reject policy, got %q", m.Info().DuplicatePolicy)
	}
}

func TestHandleString(t *testing.T) {
	m := NewHash[int, string](nil)
	h, _ := m.Insert(4, "v")
	if h.String() != "Handle{Key: 4, Released: false}" {
		t.Errorf("Unexpected handle string %q", h.String())
	}
	_ = h.Release()
	if h.String() != "Handle{Key: 4, Released: true}" {
		t.Errorf("Unexpected handle string %q", h.String())
	}
}

// TestEquivalentKeysConsistency tests that two spellings of the same key under a
// case-insensitive ordering share one count and one entry
func TestEquivalentKeysConsistency(t *testing.T) {
	less := func(a, b string) bool {
		return strings.ToLower(a) < strings.ToLower(b)
	}

	for _, policy := range []DuplicatePolicy{DuplicateReject, DuplicateReplace} {
		t.Run(policy.String(), func(t *testing.T) {
			m := New[string, int](ordered.NewOrderedIndexFunc[string, int](less, nil), &Options{DuplicatePolicy: policy})

			a, err := m.Insert("room", 1)
			if err != nil {
				t.Fatalf("Insert failed: %v", err)
			}

			b, err := m.Insert("ROOM", 2)
			if policy == DuplicateReject {
				if err == nil {
					t.Fatalf("Insert of ROOM should be rejected while room is live")
				}
				b, _ = m.Get("ROOM")
			} else if err != nil {
				t.Fatalf("Insert failed: %v", err)
			}
			checkConsistent(t, m)

			if m.s.refs.Count("room") != 2 || m.s.refs.Count("ROOM") != 0 {
				t.Errorf("Expected the count on the stored key only, got room=%d ROOM=%d",
					m.s.refs.Count("room"), m.s.refs.Count("ROOM"))
			}

			if err = a.Release(); err != nil {
				t.Fatalf("Release failed: %v", err)
			}
			if !b.Valid() || m.Len() != 1 {
				t.Errorf("Entry should survive while the second handle is live")
			}
			checkConsistent(t, m)

			if err = b.Release(); err != nil {
				t.Fatalf("Release failed: %v", err)
			}
			if !m.IsEmpty() || m.s.refs.Len() != 0 {
				t.Errorf("Expected empty map and table, got %d keys and %d records", m.Len(), m.s.refs.Len())
			}
		})
	}
}
