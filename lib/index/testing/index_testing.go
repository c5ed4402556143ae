package testing

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/ValentinKolb/rod/lib/index"
)

// IndexFactory is a function that creates a new, empty instance of an Index implementation
type IndexFactory func() index.Index[string, int]

// RunIndexTests runs a comprehensive test suite for an Index implementation.
func RunIndexTests(t *testing.T, name string, factory IndexFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Put&Get", func(t *testing.T) {
			testPutGet(t, factory())
		})

		t.Run("PutOverwrite", func(t *testing.T) {
			testPutOverwrite(t, factory())
		})

		t.Run("Remove", func(t *testing.T) {
			testRemove(t, factory())
		})

		t.Run("Lookup", func(t *testing.T) {
			testLookup(t, factory())
		})

		t.Run("AbsentKey", func(t *testing.T) {
			testAbsentKey(t, factory())
		})

		t.Run("Len", func(t *testing.T) {
			testLen(t, factory())
		})

		t.Run("Range", func(t *testing.T) {
			testRange(t, factory())
		})

		t.Run("Ordering", func(t *testing.T) {
			testOrdering(t, factory())
		})

		t.Run("RangeQuery", func(t *testing.T) {
			testRangeQuery(t, factory())
		})

		t.Run("ManyKeys", func(t *testing.T) {
			testManyKeys(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the index supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, idx index.Index[string, int], feature index.Feature) {
	if !idx.SupportsFeature(feature) {
		t.Skip()
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testPutGet(t *testing.T, idx index.Index[string, int]) {
	requireFeature(t, idx, index.FeaturePut|index.FeatureGet)

	_, replaced := idx.Put("test-key", 1)
	if replaced {
		t.Errorf("Put on a new key should not report replaced=true")
	}

	value, loaded := idx.Get("test-key")
	if !loaded {
		t.Errorf("Expected key test-key to exist after Put")
	}
	if value != 1 {
		t.Errorf("Expected value 1, got %d", value)
	}
}

func testPutOverwrite(t *testing.T, idx index.Index[string, int]) {
	requireFeature(t, idx, index.FeaturePut|index.FeatureGet)

	idx.Put("test-key", 1)
	old, replaced := idx.Put("test-key", 2)
	if !replaced {
		t.Errorf("Put on an existing key should report replaced=true")
	}
	if old != 1 {
		t.Errorf("Expected previous value 1, got %d", old)
	}

	value, _ := idx.Get("test-key")
	if value != 2 {
		t.Errorf("Expected overwritten value 2, got %d", value)
	}

	if idx.Len() != 1 {
		t.Errorf("Overwrite should not change the length, got %d", idx.Len())
	}
}

func testRemove(t *testing.T, idx index.Index[string, int]) {
	requireFeature(t, idx, index.FeaturePut|index.FeatureRemove)

	idx.Put("remove-key", 7)

	value, removed := idx.Remove("remove-key")
	if !removed {
		t.Errorf("Expected Remove to report removed=true")
	}
	if value != 7 {
		t.Errorf("Expected removed value 7, got %d", value)
	}

	if _, loaded := idx.Get("remove-key"); loaded {
		t.Errorf("Expected key remove-key to not exist after Remove")
	}

	if _, removed = idx.Remove("remove-key"); removed {
		t.Errorf("Second Remove should report removed=false")
	}
}

func testLookup(t *testing.T, idx index.Index[string, int]) {
	requireFeature(t, idx, index.FeaturePut|index.FeatureGet)

	idx.Put("lookup-key", 3)

	stored, value, loaded := idx.Lookup("lookup-key")
	if !loaded || stored != "lookup-key" || value != 3 {
		t.Errorf("Expected (lookup-key, 3, true), got (%s, %d, %t)", stored, value, loaded)
	}

	if _, _, loaded = idx.Lookup("missing-key"); loaded {
		t.Errorf("Lookup of a missing key should return loaded=false")
	}
}

func testAbsentKey(t *testing.T, idx index.Index[string, int]) {
	value, loaded := idx.Get("nonexistent-key")
	if loaded {
		t.Errorf("Expected nonexistent key to return loaded=false")
	}
	if value != 0 {
		t.Errorf("Expected zero value for nonexistent key, got %d", value)
	}

	if _, removed := idx.Remove("nonexistent-key"); removed {
		t.Errorf("Remove of a nonexistent key should report removed=false")
	}

	if idx.Len() != 0 {
		t.Errorf("Operations on absent keys should not change the length, got %d", idx.Len())
	}
}

func testLen(t *testing.T, idx index.Index[string, int]) {
	if idx.Len() != 0 {
		t.Fatalf("New index should be empty, but has length %d", idx.Len())
	}

	for i := 0; i < 10; i++ {
		idx.Put(fmt.Sprintf("len-key-%d", i), i)
	}
	if idx.Len() != 10 {
		t.Errorf("Expected length 10, got %d", idx.Len())
	}

	for i := 0; i < 5; i++ {
		idx.Remove(fmt.Sprintf("len-key-%d", i))
	}
	if idx.Len() != 5 {
		t.Errorf("Expected length 5, got %d", idx.Len())
	}
}

func testRange(t *testing.T, idx index.Index[string, int]) {
	requireFeature(t, idx, index.FeatureRange)

	expected := make(map[string]int)
	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("range-key-%d", i)
		idx.Put(key, i)
		expected[key] = i
	}

	seen := make(map[string]int)
	idx.Range(func(key string, value int) bool {
		seen[key] = value
		return true
	})

	if len(seen) != len(expected) {
		t.Errorf("Range visited %d entries, expected %d", len(seen), len(expected))
	}
	for k, v := range expected {
		if seen[k] != v {
			t.Errorf("Range returned %d for %s, expected %d", seen[k], k, v)
		}
	}

	count := 0
	idx.Range(func(string, int) bool {
		count++
		return count < 3
	})
	if count != 3 {
		t.Errorf("Range should stop when fn returns false, visited %d", count)
	}
}

func testOrdering(t *testing.T, idx index.Index[string, int]) {
	requireFeature(t, idx, index.FeatureRange|index.FeatureOrdered)

	keys := make([]string, 200)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%05d", i)
	}
	rnd := rand.New(rand.NewSource(42))
	rnd.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

	for i, k := range keys {
		idx.Put(k, i)
	}

	var visited []string
	idx.Range(func(key string, _ int) bool {
		visited = append(visited, key)
		return true
	})

	if len(visited) != len(keys) {
		t.Fatalf("Range visited %d keys, expected %d", len(visited), len(keys))
	}
	for i := 1; i < len(visited); i++ {
		if visited[i-1] >= visited[i] {
			t.Fatalf("Keys not strictly ascending at %d: %s >= %s", i, visited[i-1], visited[i])
		}
	}
}

func testRangeQuery(t *testing.T, idx index.Index[string, int]) {
	requireFeature(t, idx, index.FeatureRangeQuery)

	ordered, ok := idx.(index.OrderedIndex[string, int])
	if !ok {
		t.Fatalf("Index advertises FeatureRangeQuery but does not implement OrderedIndex")
	}

	for _, k := range []string{"d", "a", "c", "e", "b"} {
		ordered.Put(k, int(k[0]))
	}

	var got []string
	ordered.AscendRange("b", "e", func(key string, _ int) bool {
		got = append(got, key)
		return true
	})
	if !sort.StringsAreSorted(got) || len(got) != 3 || got[0] != "b" || got[2] != "d" {
		t.Errorf("Expected [b c d], got %v", got)
	}

	if k, _, ok := ordered.Min(); !ok || k != "a" {
		t.Errorf("Expected Min a, got %s", k)
	}
	if k, _, ok := ordered.Max(); !ok || k != "e" {
		t.Errorf("Expected Max e, got %s", k)
	}
}

func testManyKeys(t *testing.T, idx index.Index[string, int]) {
	numKeys := 10000

	for i := 0; i < numKeys; i++ {
		idx.Put(fmt.Sprintf("many-key-%d", i), i)
	}
	if idx.Len() != numKeys {
		t.Fatalf("Expected length %d, got %d", numKeys, idx.Len())
	}

	for i := 0; i < numKeys; i += 2 {
		if _, removed := idx.Remove(fmt.Sprintf("many-key-%d", i)); !removed {
			t.Errorf("Expected many-key-%d to be removed", i)
		}
	}

	for i := 0; i < numKeys; i++ {
		value, loaded := idx.Get(fmt.Sprintf("many-key-%d", i))
		if i%2 == 0 && loaded {
			t.Errorf("Key many-key-%d should have been removed", i)
		}
		if i%2 == 1 && (!loaded || value != i) {
			t.Errorf("Key many-key-%d should map to %d, got (%d, %t)", i, i, value, loaded)
		}
	}

	if idx.Len() != numKeys/2 {
		t.Errorf("Expected length %d, got %d", numKeys/2, idx.Len())
	}
}
