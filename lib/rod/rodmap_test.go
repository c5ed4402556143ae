package rod_test

import (
	"cmp"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ValentinKolb/rod/lib/index/engines/ordered"
	"github.com/ValentinKolb/rod/lib/rod"
	rodtesting "github.com/ValentinKolb/rod/lib/rod/testing"
)

func TestHash(t *testing.T) {
	rodtesting.RunRodMapTests(t, "Hash", func(opts *rod.Options) *rod.RodMap[int, string] {
		return rod.NewHash[int, string](opts)
	})
}

func TestOrdered(t *testing.T) {
	rodtesting.RunRodMapTests(t, "Ordered", func(opts *rod.Options) *rod.RodMap[int, string] {
		return rod.NewOrdered[int, string](opts)
	})
}

func TestOrderedSmallDegree(t *testing.T) {
	rodtesting.RunRodMapTests(t, "Ordered(degree=2)", func(opts *rod.Options) *rod.RodMap[int, string] {
		return rod.New[int, string](ordered.NewOrderedIndex[int, string](&ordered.Options{Degree: 2}), opts)
	})
}

func TestOrderedFunc(t *testing.T) {
	rodtesting.RunRodMapTests(t, "OrderedFunc", func(opts *rod.Options) *rod.RodMap[int, string] {
		return rod.New[int, string](ordered.NewOrderedIndexFunc[int, string](cmp.Less[int], nil), opts)
	})
}

// foldLess orders strings case-insensitively, so "room" and "ROOM" are the same key
func foldLess(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}

func TestOrderedFoldedKeys(t *testing.T) {
	rodtesting.RunEquivalentKeyTests(t, "OrderedFold", func(opts *rod.Options) *rod.RodMap[string, string] {
		return rod.New[string, string](ordered.NewOrderedIndexFunc[string, string](foldLess, nil), opts)
	})
}

// TestNaNKey tests that keys that are not equal to themselves are rejected
func TestNaNKey(t *testing.T) {
	for name, m := range map[string]*rod.RodMap[float64, int]{
		"hash":    rod.NewHash[float64, int](nil),
		"ordered": rod.NewOrdered[float64, int](nil),
	} {
		t.Run(name, func(t *testing.T) {
			h, err := m.Insert(math.NaN(), 1)
			if !errors.Is(err, rod.ErrInvalidKey) || h != nil {
				t.Fatalf("Insert(NaN) should fail with ErrInvalidKey, got (%v, %v)", h, err)
			}
			if !m.IsEmpty() {
				t.Errorf("Rejected insert should not change the map, got length %d", m.Len())
			}
			if _, ok := m.Get(math.NaN()); ok {
				t.Errorf("Get(NaN) should not find anything")
			}

			// regular keys keep working, negative zero is the same key as zero
			h, err = m.Insert(math.Copysign(0, -1), 2)
			if err != nil {
				t.Fatalf("Insert(-0) failed: %v", err)
			}
			if m.Count(0) != 1 {
				t.Errorf("Expected count 1 for zero, got %d", m.Count(0))
			}
			if err = h.Release(); err != nil {
				t.Fatalf("Release failed: %v", err)
			}
			if !m.IsEmpty() {
				t.Errorf("Map should be empty after releasing the only handle")
			}
		})
	}
}

func BenchmarkHash(b *testing.B) {
	rodtesting.RunRodMapBenchmarks(b, "Hash", func(opts *rod.Options) *rod.RodMap[int, string] {
		return rod.NewHash[int, string](opts)
	})
}

func BenchmarkOrdered(b *testing.B) {
	rodtesting.RunRodMapBenchmarks(b, "Ordered", func(opts *rod.Options) *rod.RodMap[int, string] {
		return rod.NewOrdered[int, string](opts)
	})
}
