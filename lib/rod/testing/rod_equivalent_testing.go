package testing

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/ValentinKolb/rod/lib/rod"
)

// FoldMapFactory creates a new, empty RodMap whose index treats keys that only
// differ in letter case as the same key (e.g. an ordered index with a
// case-insensitive less function).
type FoldMapFactory func(opts *rod.Options) *rod.RodMap[string, string]

// RunEquivalentKeyTests runs tests for a RodMap on an index whose key equality is
// coarser than ==. Reference counts must follow the index: two spellings of the same
// key share one entry and one count.
func RunEquivalentKeyTests(t *testing.T, name string, factory FoldMapFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("DuplicateReject", func(t *testing.T) {
			testFoldDuplicateReject(t, factory(nil))
		})

		t.Run("DuplicateReplace", func(t *testing.T) {
			testFoldDuplicateReplace(t, factory(&rod.Options{DuplicatePolicy: rod.DuplicateReplace}))
		})

		t.Run("GetOtherSpelling", func(t *testing.T) {
			testFoldGet(t, factory(nil))
		})

		t.Run("RandomLifecycle", func(t *testing.T) {
			testFoldRandomLifecycle(t, factory(nil))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// checkAgreement verifies that the map has exactly liveKeys keys and that every
// key with a count is in the index
func checkAgreement(t testing.TB, m *rod.RodMap[string, string], liveKeys int, liveHandles uint64) {
	t.Helper()
	info := m.Info()
	if info.LiveKeys != liveKeys {
		t.Fatalf("Expected %d live keys, got %d", liveKeys, info.LiveKeys)
	}
	if info.RefCounts.Count != info.LiveKeys {
		t.Fatalf("Index has %d keys but %d keys have reference counts", info.LiveKeys, info.RefCounts.Count)
	}
	if info.LiveHandles != liveHandles {
		t.Fatalf("Expected %d live handles, got %d", liveHandles, info.LiveHandles)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testFoldDuplicateReject(t *testing.T, m *rod.RodMap[string, string]) {
	room, err := m.Insert("room", "a")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	dup, err := m.Insert("ROOM", "b")
	if !errors.Is(err, rod.ErrKeyOccupied) || dup != nil {
		t.Fatalf("Insert of an equivalent live key should fail with ErrKeyOccupied, got %v", err)
	}
	if value, _ := room.Value(); value != "a" {
		t.Errorf("Rejected insert should not change the value, got %s", value)
	}
	checkAgreement(t, m, 1, 1)

	mustReleaseFold(t, room)
	checkAgreement(t, m, 0, 0)

	// free again, any spelling may insert
	h, err := m.Insert("ROOM", "b")
	if err != nil {
		t.Fatalf("Insert after eviction failed: %v", err)
	}
	mustReleaseFold(t, h)
	checkAgreement(t, m, 0, 0)
}

func testFoldDuplicateReplace(t *testing.T, m *rod.RodMap[string, string]) {
	a, _ := m.Insert("room", "a")
	b, err := m.Insert("ROOM", "b")
	if err != nil {
		t.Fatalf("Replace insert failed: %v", err)
	}

	if b.Key() != "room" {
		t.Errorf("Handle should be bound to the stored key room, got %s", b.Key())
	}
	if !a.Equal(b) {
		t.Errorf("Both handles should resolve to the same entry")
	}
	if m.Count("room") != 2 || m.Count("ROOM") != 2 {
		t.Errorf("Both spellings should report count 2, got %d and %d", m.Count("room"), m.Count("ROOM"))
	}
	if value, _ := a.Value(); value != "b" {
		t.Errorf("Existing handle should resolve to the new value, got %s", value)
	}
	checkAgreement(t, m, 1, 2)

	// releasing the first handle must not evict the entry b keeps alive
	mustReleaseFold(t, a)
	if !b.Valid() {
		t.Fatalf("Live handle should stay valid after releasing the other one")
	}
	checkAgreement(t, m, 1, 1)

	mustReleaseFold(t, b)
	checkAgreement(t, m, 0, 0)
}

func testFoldGet(t *testing.T, m *rod.RodMap[string, string]) {
	room, _ := m.Insert("Room", "a")

	h, ok := m.Get("ROOM")
	if !ok {
		t.Fatalf("Get with another spelling should find the entry")
	}
	if h.Key() != "Room" {
		t.Errorf("Handle should be bound to the stored key Room, got %s", h.Key())
	}
	if !m.Contains("room") || m.Count("room") != 2 {
		t.Errorf("Expected the entry to be live with count 2, got %d", m.Count("room"))
	}

	found, _ := m.Do("rOOm", func(value string) error {
		if value != "a" {
			t.Errorf("Do should see value a, got %s", value)
		}
		return nil
	})
	if !found {
		t.Errorf("Do with another spelling should find the entry")
	}
	checkAgreement(t, m, 1, 2)

	mustReleaseFold(t, room)
	mustReleaseFold(t, h)
	checkAgreement(t, m, 0, 0)
}

// testFoldRandomLifecycle runs random operations with random spellings against
// a model keyed by the lower case key.
func testFoldRandomLifecycle(t *testing.T, m *rod.RodMap[string, string]) {
	rnd := rand.New(rand.NewSource(3))
	words := []string{"alpha", "bravo", "charlie", "delta"}

	spell := func(word string) string {
		b := []byte(word)
		for i := range b {
			if rnd.Intn(2) == 0 {
				b[i] = strings.ToUpper(string(b[i]))[0]
			}
		}
		return string(b)
	}

	live := make(map[string][]*rod.Handle[string, string])
	var handles uint64

	for step := 0; step < 3000; step++ {
		word := words[rnd.Intn(len(words))]
		key := spell(word)

		switch rnd.Intn(3) {
		case 0: // insert
			h, err := m.Insert(key, word)
			if len(live[word]) > 0 {
				if !errors.Is(err, rod.ErrKeyOccupied) {
					t.Fatalf("step %d: Insert(%s) of a live key should fail, got %v", step, key, err)
				}
				continue
			}
			if err != nil {
				t.Fatalf("step %d: Insert(%s) failed: %v", step, key, err)
			}
			live[word] = append(live[word], h)
			handles++

		case 1: // get
			h, ok := m.Get(key)
			if ok != (len(live[word]) > 0) {
				t.Fatalf("step %d: Get(%s) = %t, model has %d handles", step, key, ok, len(live[word]))
			}
			if ok {
				live[word] = append(live[word], h)
				handles++
			}

		case 2: // release
			hs := live[word]
			if len(hs) == 0 {
				continue
			}
			i := rnd.Intn(len(hs))
			mustReleaseFold(t, hs[i])
			live[word] = append(hs[:i], hs[i+1:]...)
			if len(live[word]) == 0 {
				delete(live, word)
			}
			handles--
		}

		checkAgreement(t, m, len(live), handles)
		if got, want := m.Count(spell(word)), uint32(len(live[word])); got != want {
			t.Fatalf("step %d: Count(%s) = %d, model has %d", step, word, got, want)
		}
	}

	for _, hs := range live {
		for _, h := range hs {
			mustReleaseFold(t, h)
		}
	}
	checkAgreement(t, m, 0, 0)
}

func mustReleaseFold(t testing.TB, h *rod.Handle[string, string]) {
	t.Helper()
	if err := h.Release(); err != nil {
		t.Fatalf("Release of %s failed: %v", h, err)
	}
}
