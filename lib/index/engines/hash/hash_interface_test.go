package hash

import (
	"testing"

	"github.com/ValentinKolb/rod/lib/index"
	idxtesting "github.com/ValentinKolb/rod/lib/index/testing"
)

func Test(t *testing.T) {
	idxtesting.RunIndexTests(t, "HashIndex", func() index.Index[string, int] {
		return NewHashIndex[string, int](nil)
	})
}

func TestPresized(t *testing.T) {
	idxtesting.RunIndexTests(t, "HashIndex(presized)", func() index.Index[string, int] {
		return NewHashIndex[string, int](&Options{Presize: 1024})
	})
}

// TestFeatures tests that the hash index does not claim ordering
func TestFeatures(t *testing.T) {
	idx := NewHashIndex[string, int](nil)

	if !idx.SupportsFeature(index.FeaturePut | index.FeatureGet | index.FeatureRemove) {
		t.Error("hash index should support Put, Get and Remove")
	}
	if idx.SupportsFeature(index.FeatureOrdered) {
		t.Error("hash index should not claim FeatureOrdered")
	}
	if _, ok := idx.(index.OrderedIndex[string, int]); ok {
		t.Error("hash index should not implement OrderedIndex")
	}
	if info := idx.GetInfo(); info.Impl != index.ImplHash {
		t.Errorf("Expected impl %s, got %s", index.ImplHash, info.Impl)
	}
}

func Benchmark(b *testing.B) {
	idxtesting.RunIndexBenchmarks(b, "HashIndex", func() index.Index[string, int] {
		return NewHashIndex[string, int](nil)
	})
}
