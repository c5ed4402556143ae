package ordered

import (
	"strings"
	"testing"

	"github.com/ValentinKolb/rod/lib/index"
	idxtesting "github.com/ValentinKolb/rod/lib/index/testing"
)

func Test(t *testing.T) {
	idxtesting.RunIndexTests(t, "OrderedIndex", func() index.Index[string, int] {
		return NewOrderedIndex[string, int](nil)
	})
}

func TestSmallDegree(t *testing.T) {
	idxtesting.RunIndexTests(t, "OrderedIndex(degree=2)", func() index.Index[string, int] {
		return NewOrderedIndex[string, int](&Options{Degree: 2})
	})
}

// TestAscendRange tests the half open range query
func TestAscendRange(t *testing.T) {
	idx := NewOrderedIndex[int, string](nil)
	for _, k := range []int{5, 1, 9, 3, 7} {
		idx.Put(k, "v")
	}

	var got []int
	idx.AscendRange(3, 8, func(k int, _ string) bool {
		got = append(got, k)
		return true
	})

	want := []int{3, 5, 7}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, got)
			break
		}
	}

	// empty range
	called := false
	idx.AscendRange(8, 3, func(int, string) bool {
		called = true
		return true
	})
	if called {
		t.Error("AscendRange with from > to should not visit any entry")
	}

	// stop early
	count := 0
	idx.AscendRange(0, 100, func(int, string) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Errorf("Expected iteration to stop after 2 entries, got %d", count)
	}
}

// TestMinMax tests Min and Max on empty and filled indexes
func TestMinMax(t *testing.T) {
	idx := NewOrderedIndex[int, string](nil)

	if _, _, ok := idx.Min(); ok {
		t.Error("Min on empty index should return ok=false")
	}
	if _, _, ok := idx.Max(); ok {
		t.Error("Max on empty index should return ok=false")
	}

	idx.Put(42, "b")
	idx.Put(-3, "a")
	idx.Put(100, "c")

	if k, v, ok := idx.Min(); !ok || k != -3 || v != "a" {
		t.Errorf("Expected Min (-3, a), got (%d, %s, %t)", k, v, ok)
	}
	if k, v, ok := idx.Max(); !ok || k != 100 || v != "c" {
		t.Errorf("Expected Max (100, c), got (%d, %s, %t)", k, v, ok)
	}
}

// TestCustomLess tests an index ordered by a caller provided less function
func TestCustomLess(t *testing.T) {
	// case-insensitive ordering, descending
	less := func(a, b string) bool {
		return strings.ToLower(a) > strings.ToLower(b)
	}
	idx := NewOrderedIndexFunc[string, int](less, nil)

	idx.Put("alpha", 1)
	idx.Put("Charlie", 3)
	idx.Put("bravo", 2)

	var keys []string
	idx.Range(func(k string, _ int) bool {
		keys = append(keys, k)
		return true
	})

	want := []string{"Charlie", "bravo", "alpha"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, keys)
		}
	}

	// keys equal under less are the same key
	old, replaced := idx.Put("ALPHA", 10)
	if !replaced || old != 1 {
		t.Errorf("Expected ALPHA to replace alpha (old=1), got old=%d replaced=%t", old, replaced)
	}
	if idx.Len() != 3 {
		t.Errorf("Expected length 3, got %d", idx.Len())
	}
}

// TestLookupStoredKey tests that Lookup reports the key as stored, not as asked for
func TestLookupStoredKey(t *testing.T) {
	less := func(a, b string) bool {
		return strings.ToLower(a) < strings.ToLower(b)
	}
	idx := NewOrderedIndexFunc[string, int](less, nil)

	idx.Put("room", 1)

	stored, value, ok := idx.Lookup("ROOM")
	if !ok || stored != "room" || value != 1 {
		t.Errorf("Expected (room, 1, true), got (%s, %d, %t)", stored, value, ok)
	}

	// writing back under the stored key keeps it
	idx.Put(stored, 2)
	if stored, value, _ = idx.Lookup("Room"); stored != "room" || value != 2 {
		t.Errorf("Expected (room, 2), got (%s, %d)", stored, value)
	}

	if _, _, ok = idx.Lookup("suite"); ok {
		t.Errorf("Lookup of a missing key should return ok=false")
	}
}

// TestFeatures tests the advertised features of the ordered index
func TestFeatures(t *testing.T) {
	idx := NewOrderedIndex[string, int](nil)

	if !idx.SupportsFeature(index.FeatureOrdered | index.FeatureRangeQuery) {
		t.Error("ordered index should support FeatureOrdered and FeatureRangeQuery")
	}
	if info := idx.GetInfo(); info.Impl != index.ImplOrdered {
		t.Errorf("Expected impl %s, got %s", index.ImplOrdered, info.Impl)
	}
}

func Benchmark(b *testing.B) {
	idxtesting.RunIndexBenchmarks(b, "OrderedIndex", func() index.Index[string, int] {
		return NewOrderedIndex[string, int](nil)
	})
}
