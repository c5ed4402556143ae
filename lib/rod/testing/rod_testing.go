package testing

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/ValentinKolb/rod/lib/index"
	"github.com/ValentinKolb/rod/lib/rod"
)

// MapFactory is a function that creates a new, empty RodMap with the given options (nil = defaults)
type MapFactory func(opts *rod.Options) *rod.RodMap[int, string]

// RunRodMapTests runs a comprehensive test suite for a RodMap on top of an index implementation.
func RunRodMapTests(t *testing.T, name string, factory MapFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Empty", func(t *testing.T) {
			testEmpty(t, factory(nil))
		})

		t.Run("SingleHandle", func(t *testing.T) {
			testSingleHandle(t, factory(nil))
		})

		t.Run("ClonedHandle", func(t *testing.T) {
			testClonedHandle(t, factory(nil))
		})

		t.Run("InsertAndGet", func(t *testing.T) {
			testInsertAndGet(t, factory(nil))
		})

		t.Run("Hotel", func(t *testing.T) {
			testHotel(t, factory(nil))
		})

		t.Run("GetAbsent", func(t *testing.T) {
			testGetAbsent(t, factory(nil))
		})

		t.Run("Reinsert", func(t *testing.T) {
			testReinsert(t, factory(nil))
		})

		t.Run("DuplicateReject", func(t *testing.T) {
			testDuplicateReject(t, factory(&rod.Options{DuplicatePolicy: rod.DuplicateReject}))
		})

		t.Run("DuplicateReplace", func(t *testing.T) {
			testDuplicateReplace(t, factory(&rod.Options{DuplicatePolicy: rod.DuplicateReplace}))
		})

		t.Run("ReleasedHandle", func(t *testing.T) {
			testReleasedHandle(t, factory(nil))
		})

		t.Run("Equality", func(t *testing.T) {
			testEquality(t, factory)
		})

		t.Run("Do", func(t *testing.T) {
			testDo(t, factory(nil))
		})

		t.Run("Ordering", func(t *testing.T) {
			testOrdering(t, factory(nil))
		})

		t.Run("AscendRange", func(t *testing.T) {
			testAscendRange(t, factory(nil))
		})

		t.Run("Info", func(t *testing.T) {
			testInfo(t, factory(nil))
		})

		t.Run("RandomLifecycle", func(t *testing.T) {
			testRandomLifecycle(t, factory(nil))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the index of the map supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, m *rod.RodMap[int, string], feature index.Feature) {
	if !m.SupportsFeature(feature) {
		t.Skip()
	}
}

// mustInsert inserts a key and fails the test on error
func mustInsert(t testing.TB, m *rod.RodMap[int, string], key int, value string) *rod.Handle[int, string] {
	t.Helper()
	h, err := m.Insert(key, value)
	if err != nil {
		t.Fatalf("Insert(%d) failed: %v", key, err)
	}
	return h
}

// mustRelease releases a handle and fails the test on error
func mustRelease(t testing.TB, h *rod.Handle[int, string]) {
	t.Helper()
	if err := h.Release(); err != nil {
		t.Fatalf("Release of %s failed: %v", h, err)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testEmpty(t *testing.T, m *rod.RodMap[int, string]) {
	if !m.IsEmpty() {
		t.Errorf("New map should be empty")
	}
	if m.Len() != 0 {
		t.Errorf("New map should have length 0, got %d", m.Len())
	}
	if len(m.Keys()) != 0 {
		t.Errorf("New map should have no keys, got %v", m.Keys())
	}
}

func testSingleHandle(t *testing.T, m *rod.RodMap[int, string]) {
	room := mustInsert(t, m, 0, "Room")

	if m.Len() != 1 {
		t.Errorf("Expected length 1 after Insert, got %d", m.Len())
	}
	if m.Count(0) != 1 {
		t.Errorf("Expected count 1 after Insert, got %d", m.Count(0))
	}

	mustRelease(t, room)

	if !m.IsEmpty() {
		t.Errorf("Map should be empty after releasing the only handle")
	}
	if _, ok := m.Get(0); ok {
		t.Errorf("Get should not find an evicted key")
	}
	if m.Count(0) != 0 {
		t.Errorf("Evicted key should have count 0, got %d", m.Count(0))
	}
}

func testClonedHandle(t *testing.T, m *rod.RodMap[int, string]) {
	room := mustInsert(t, m, 0, "Room")
	spare, err := room.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}

	if m.Count(0) != 2 {
		t.Errorf("Expected count 2 after Clone, got %d", m.Count(0))
	}

	mustRelease(t, room)

	if m.Len() != 1 {
		t.Errorf("Releasing one of two handles should keep the entry, got length %d", m.Len())
	}
	h, ok := m.Get(0)
	if !ok {
		t.Fatalf("Get should still find the key after releasing one of two handles")
	}
	mustRelease(t, h)

	if value, ok := spare.Value(); !ok || value != "Room" {
		t.Errorf("Clone should still resolve to Room, got (%s, %t)", value, ok)
	}

	mustRelease(t, spare)

	if _, ok := m.Get(0); ok {
		t.Errorf("Get should not find the key after releasing both handles")
	}
	if !m.IsEmpty() {
		t.Errorf("Map should be empty after releasing both handles, got length %d", m.Len())
	}
}

func testInsertAndGet(t *testing.T, m *rod.RodMap[int, string]) {
	fromInsert := mustInsert(t, m, 0, "Room")
	fromGet, ok := m.Get(0)
	if !ok {
		t.Fatalf("Get should find an inserted key")
	}

	if !fromGet.Equal(fromInsert) {
		t.Errorf("Handle from Get should equal the handle from Insert")
	}
	if m.Len() != 1 {
		t.Errorf("Expected length 1, got %d", m.Len())
	}

	mustRelease(t, fromInsert)

	if m.Len() != 1 {
		t.Errorf("Entry should survive while the handle from Get is live, got length %d", m.Len())
	}

	mustRelease(t, fromGet)

	if !m.IsEmpty() {
		t.Errorf("Map should be empty after releasing all handles")
	}
}

func testHotel(t *testing.T, hotel *rod.RodMap[int, string]) {
	if !hotel.IsEmpty() {
		t.Fatalf("A new hotel should be empty")
	}

	key := mustInsert(t, hotel, 0, "Room")

	if hotel.IsEmpty() {
		t.Errorf("Hotel should not be empty after booking room 0")
	}
	if hotel.Len() != 1 {
		t.Errorf("Expected 1 room, got %d", hotel.Len())
	}

	spareKey, err := key.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}

	mustRelease(t, key)

	if hotel.Len() != 1 {
		t.Errorf("Room should stay booked while the spare key is out, got %d rooms", hotel.Len())
	}

	mustRelease(t, spareKey)

	if !hotel.IsEmpty() {
		t.Errorf("Hotel should be empty after returning the spare key")
	}
}

func testGetAbsent(t *testing.T, m *rod.RodMap[int, string]) {
	h, ok := m.Get(42)
	if ok || h != nil {
		t.Errorf("Get of an absent key should return (nil, false), got (%v, %t)", h, ok)
	}
	if m.Contains(42) {
		t.Errorf("Contains should be false for an absent key")
	}
	if m.Count(42) != 0 {
		t.Errorf("Get of an absent key should not create a count, got %d", m.Count(42))
	}
	if !m.IsEmpty() {
		t.Errorf("Get of an absent key should not change the map")
	}
}

func testReinsert(t *testing.T, m *rod.RodMap[int, string]) {
	first := mustInsert(t, m, 7, "first")
	clone, _ := first.Clone()
	mustRelease(t, first)
	mustRelease(t, clone)

	if m.Contains(7) {
		t.Fatalf("Key should be evicted")
	}

	second := mustInsert(t, m, 7, "second")
	if m.Count(7) != 1 {
		t.Errorf("Re-inserted key should start with count 1, got %d", m.Count(7))
	}
	if value, _ := second.Value(); value != "second" {
		t.Errorf("Re-inserted key should resolve to the new value, got %s", value)
	}

	// the old handles must stay dead
	if first.Valid() || clone.Valid() {
		t.Errorf("Released handles should not become valid again after re-insert")
	}
	if err := first.Release(); !errors.Is(err, rod.ErrHandleReleased) {
		t.Errorf("Old handle release should fail with ErrHandleReleased, got %v", err)
	}
	if m.Count(7) != 1 {
		t.Errorf("Old handles must not touch the count of the new entry, got %d", m.Count(7))
	}

	mustRelease(t, second)
	if !m.IsEmpty() {
		t.Errorf("Map should be empty after releasing the re-inserted key")
	}
}

func testDuplicateReject(t *testing.T, m *rod.RodMap[int, string]) {
	h := mustInsert(t, m, 1, "original")

	dup, err := m.Insert(1, "duplicate")
	if err == nil {
		t.Fatalf("Insert of a live key should fail")
	}
	if !errors.Is(err, rod.ErrKeyOccupied) {
		t.Errorf("Expected ErrKeyOccupied, got %v", err)
	}
	if dup != nil {
		t.Errorf("Rejected insert should not return a handle")
	}

	if value, _ := h.Value(); value != "original" {
		t.Errorf("Rejected insert should not change the value, got %s", value)
	}
	if m.Count(1) != 1 {
		t.Errorf("Rejected insert should not change the count, got %d", m.Count(1))
	}

	mustRelease(t, h)

	h = mustInsert(t, m, 1, "after-eviction")
	mustRelease(t, h)
}

func testDuplicateReplace(t *testing.T, m *rod.RodMap[int, string]) {
	first := mustInsert(t, m, 1, "original")
	second := mustInsert(t, m, 1, "replacement")

	if m.Count(1) != 2 {
		t.Errorf("Replace should add a reference, not reset the count, got %d", m.Count(1))
	}
	if m.Len() != 1 {
		t.Errorf("Replace should not add a key, got length %d", m.Len())
	}
	if value, _ := first.Value(); value != "replacement" {
		t.Errorf("Existing handle should resolve to the new value, got %s", value)
	}
	if !first.Equal(second) {
		t.Errorf("Both handles should resolve to the same entry")
	}

	mustRelease(t, first)
	if !m.Contains(1) {
		t.Errorf("Entry should survive while the second handle is live")
	}
	mustRelease(t, second)
	if !m.IsEmpty() {
		t.Errorf("Map should be empty after releasing both handles")
	}
}

func testReleasedHandle(t *testing.T, m *rod.RodMap[int, string]) {
	keep := mustInsert(t, m, 3, "value")
	h, _ := keep.Clone()

	mustRelease(t, h)

	if !h.Released() {
		t.Errorf("Released should report true after Release")
	}
	if err := h.Release(); !errors.Is(err, rod.ErrHandleReleased) {
		t.Errorf("Second Release should fail with ErrHandleReleased, got %v", err)
	}
	if m.Count(3) != 1 {
		t.Errorf("Second Release must not decrement again, got count %d", m.Count(3))
	}
	if _, err := h.Clone(); !errors.Is(err, rod.ErrHandleReleased) {
		t.Errorf("Clone of a released handle should fail with ErrHandleReleased, got %v", err)
	}
	if _, ok := h.Value(); ok {
		t.Errorf("Value of a released handle should return ok=false")
	}
	if h.Key() != 3 {
		t.Errorf("Key should still be readable after Release, got %d", h.Key())
	}

	mustRelease(t, keep)
}

func testEquality(t *testing.T, factory MapFactory) {
	m := factory(nil)
	other := factory(nil)

	a := mustInsert(t, m, 0, "Room")
	b, _ := m.Get(0)
	c := mustInsert(t, other, 0, "Room")
	d := mustInsert(t, m, 1, "Room")

	if !a.Equal(b) || !b.Equal(a) {
		t.Errorf("Handles for the same live key should be equal")
	}
	if a.Equal(c) {
		t.Errorf("Handles of different maps should not be equal")
	}
	if a.Equal(d) {
		t.Errorf("Handles for different keys should not be equal")
	}
	if a.Equal(nil) {
		t.Errorf("A handle should not equal nil")
	}

	mustRelease(t, b)
	if a.Equal(b) {
		t.Errorf("A released handle should not equal a live one")
	}

	mustRelease(t, a)
	mustRelease(t, c)
	mustRelease(t, d)
}

func testDo(t *testing.T, m *rod.RodMap[int, string]) {
	h := mustInsert(t, m, 5, "five")

	var seen string
	found, err := m.Do(5, func(value string) error {
		seen = value
		if m.Count(5) != 2 {
			t.Errorf("Do should hold a handle while fn runs, count is %d", m.Count(5))
		}
		return nil
	})
	if !found || err != nil || seen != "five" {
		t.Errorf("Expected Do to find five, got (%t, %v, %s)", found, err, seen)
	}
	if m.Count(5) != 1 {
		t.Errorf("Do should release its handle, count is %d", m.Count(5))
	}

	fnErr := fmt.Errorf("boom")
	if _, err = m.Do(5, func(string) error { return fnErr }); !errors.Is(err, fnErr) {
		t.Errorf("Do should return the error of fn, got %v", err)
	}
	if m.Count(5) != 1 {
		t.Errorf("Do should release its handle when fn fails, count is %d", m.Count(5))
	}

	func() {
		defer func() { _ = recover() }()
		_, _ = m.Do(5, func(string) error { panic("boom") })
	}()
	if m.Count(5) != 1 {
		t.Errorf("Do should release its handle when fn panics, count is %d", m.Count(5))
	}

	called := false
	found, err = m.Do(6, func(string) error {
		called = true
		return nil
	})
	if found || err != nil || called {
		t.Errorf("Do on an absent key should not call fn, got (%t, %v, %t)", found, err, called)
	}

	mustRelease(t, h)
}

func testOrdering(t *testing.T, m *rod.RodMap[int, string]) {
	requireFeature(t, m, index.FeatureOrdered)

	rnd := rand.New(rand.NewSource(7))
	handles := make(map[int]*rod.Handle[int, string])
	for len(handles) < 100 {
		key := rnd.Intn(10000) - 5000
		if _, ok := handles[key]; ok {
			continue
		}
		handles[key] = mustInsert(t, m, key, fmt.Sprint(key))
	}

	keys := m.Keys()
	if len(keys) != len(handles) {
		t.Fatalf("Expected %d keys, got %d", len(handles), len(keys))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Fatalf("Keys not strictly ascending at %d: %d >= %d", i, keys[i-1], keys[i])
		}
	}

	// release every second key, order must hold for the rest
	for i, key := range keys {
		if i%2 == 0 {
			mustRelease(t, handles[key])
			delete(handles, key)
		}
	}

	prev := 0
	first := true
	m.Range(func(key int, value string) bool {
		if !first && prev >= key {
			t.Errorf("Range not strictly ascending: %d >= %d", prev, key)
		}
		if value != fmt.Sprint(key) {
			t.Errorf("Range returned value %s for key %d", value, key)
		}
		prev, first = key, false
		return true
	})

	for _, h := range handles {
		mustRelease(t, h)
	}
}

func testAscendRange(t *testing.T, m *rod.RodMap[int, string]) {
	if !m.SupportsFeature(index.FeatureRangeQuery) {
		err := m.AscendRange(0, 10, func(int, string) bool { return true })
		if !errors.Is(err, rod.ErrUnsupported) {
			t.Errorf("AscendRange should fail with ErrUnsupported, got %v", err)
		}
		return
	}

	var handles []*rod.Handle[int, string]
	for key := 0; key < 10; key++ {
		handles = append(handles, mustInsert(t, m, key, fmt.Sprint(key)))
	}

	// evict 4, it must not show up in the range
	mustRelease(t, handles[4])

	var got []int
	if err := m.AscendRange(2, 7, func(key int, _ string) bool {
		got = append(got, key)
		return true
	}); err != nil {
		t.Fatalf("AscendRange failed: %v", err)
	}

	want := []int{2, 3, 5, 6}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	for i, h := range handles {
		if i != 4 {
			mustRelease(t, h)
		}
	}
}

func testInfo(t *testing.T, m *rod.RodMap[int, string]) {
	a := mustInsert(t, m, 1, "a")
	a2, _ := a.Clone()
	a3, _ := a.Clone()
	b := mustInsert(t, m, 2, "b")

	info := m.Info()
	if info.LiveKeys != 2 {
		t.Errorf("Expected 2 live keys, got %d", info.LiveKeys)
	}
	if info.LiveHandles != 4 {
		t.Errorf("Expected 4 live handles, got %d", info.LiveHandles)
	}
	if info.RefCounts.Max != 3 || info.RefCounts.Min != 1 {
		t.Errorf("Expected ref counts between 1 and 3, got %+v", info.RefCounts)
	}
	if info.Index.Len != 2 {
		t.Errorf("Expected index length 2, got %d", info.Index.Len)
	}

	for _, h := range []*rod.Handle[int, string]{a, a2, a3, b} {
		mustRelease(t, h)
	}

	info = m.Info()
	if info.LiveKeys != 0 || info.LiveHandles != 0 {
		t.Errorf("Expected empty info after releasing everything, got %+v", info)
	}
}

// testRandomLifecycle runs random operations against a simple model and
// checks that map and model agree after every step.
func testRandomLifecycle(t *testing.T, m *rod.RodMap[int, string]) {
	rnd := rand.New(rand.NewSource(1))
	numKeys := 50

	// model: outstanding handles per key
	live := make(map[int][]*rod.Handle[int, string])

	for step := 0; step < 5000; step++ {
		key := rnd.Intn(numKeys)

		switch rnd.Intn(4) {
		case 0: // insert
			h, err := m.Insert(key, fmt.Sprint(key))
			if len(live[key]) > 0 {
				if !errors.Is(err, rod.ErrKeyOccupied) {
					t.Fatalf("step %d: Insert of live key %d should fail, got %v", step, key, err)
				}
				continue
			}
			if err != nil {
				t.Fatalf("step %d: Insert of free key %d failed: %v", step, key, err)
			}
			live[key] = append(live[key], h)

		case 1: // get
			h, ok := m.Get(key)
			if ok != (len(live[key]) > 0) {
				t.Fatalf("step %d: Get(%d) = %t, model has %d handles", step, key, ok, len(live[key]))
			}
			if ok {
				live[key] = append(live[key], h)
			}

		case 2: // clone
			if len(live[key]) == 0 {
				continue
			}
			h, err := live[key][0].Clone()
			if err != nil {
				t.Fatalf("step %d: Clone failed: %v", step, err)
			}
			live[key] = append(live[key], h)

		case 3: // release
			hs := live[key]
			if len(hs) == 0 {
				continue
			}
			i := rnd.Intn(len(hs))
			if err := hs[i].Release(); err != nil {
				t.Fatalf("step %d: Release failed: %v", step, err)
			}
			live[key] = append(hs[:i], hs[i+1:]...)
			if len(live[key]) == 0 {
				delete(live, key)
			}
		}

		if m.Len() != len(live) {
			t.Fatalf("step %d: Len() = %d, model has %d live keys", step, m.Len(), len(live))
		}
		if got, want := m.Count(key), uint32(len(live[key])); got != want {
			t.Fatalf("step %d: Count(%d) = %d, model has %d", step, key, got, want)
		}
	}

	for _, hs := range live {
		for _, h := range hs {
			mustRelease(t, h)
		}
	}
	if !m.IsEmpty() {
		t.Errorf("Map should be empty after releasing all handles, got length %d", m.Len())
	}
}
