package testing

import (
	"fmt"
	"testing"

	"github.com/ValentinKolb/rod/lib/index"
)

const benchKeySpread = 10000

// RunIndexBenchmarks runs all benchmarks for an index implementation
func RunIndexBenchmarks(b *testing.B, name string, factory IndexFactory) {

	b.Run("Put", func(b *testing.B) {
		benchmarkPut(b, factory())
	})

	b.Run("PutExisting", func(b *testing.B) {
		benchmarkPutExisting(b, factory())
	})

	b.Run("Get", func(b *testing.B) {
		benchmarkGet(b, factory())
	})

	b.Run("Get(not)", func(b *testing.B) {
		benchmarkGetNot(b, factory())
	})

	b.Run("PutRemove", func(b *testing.B) {
		benchmarkPutRemove(b, factory())
	})

	b.Run("Range", func(b *testing.B) {
		benchmarkRange(b, factory())
	})
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func benchKeys(prefix string) []string {
	keys := make([]string, benchKeySpread)
	for i := range keys {
		keys[i] = fmt.Sprintf("%s-%d", prefix, i)
	}
	return keys
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

// Benchmark for Put operation on new keys
func benchmarkPut(b *testing.B, idx index.Index[string, int]) {
	requireFeature(b, idx, index.FeaturePut)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.Put(fmt.Sprintf("put-%d", i), i)
	}
}

// Benchmark for Put operation on a fixed set of existing keys
func benchmarkPutExisting(b *testing.B, idx index.Index[string, int]) {
	requireFeature(b, idx, index.FeaturePut)

	keys := benchKeys("existing")
	for i, k := range keys {
		idx.Put(k, i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.Put(keys[i%benchKeySpread], i)
	}
}

// Benchmark for Get operation
func benchmarkGet(b *testing.B, idx index.Index[string, int]) {
	requireFeature(b, idx, index.FeaturePut|index.FeatureGet)

	keys := benchKeys("get")
	for i, k := range keys {
		idx.Put(k, i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.Get(keys[i%benchKeySpread])
	}
}

// Benchmark for Get operation on absent keys
func benchmarkGetNot(b *testing.B, idx index.Index[string, int]) {
	requireFeature(b, idx, index.FeatureGet)

	keys := benchKeys("absent")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.Get(keys[i%benchKeySpread])
	}
}

// Benchmark for a Put directly followed by a Remove
func benchmarkPutRemove(b *testing.B, idx index.Index[string, int]) {
	requireFeature(b, idx, index.FeaturePut|index.FeatureRemove)

	keys := benchKeys("put-remove")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := keys[i%benchKeySpread]
		idx.Put(k, i)
		idx.Remove(k)
	}
}

// Benchmark for a full iteration
func benchmarkRange(b *testing.B, idx index.Index[string, int]) {
	requireFeature(b, idx, index.FeatureRange)

	keys := benchKeys("range")
	for i, k := range keys {
		idx.Put(k, i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sum := 0
		idx.Range(func(_ string, v int) bool {
			sum += v
			return true
		})
	}
}
