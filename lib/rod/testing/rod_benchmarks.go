package testing

import (
	"fmt"
	"testing"

	"github.com/ValentinKolb/rod/lib/rod"
)

// DefaultKeySpread is the number of distinct keys the benchmarks work on
const DefaultKeySpread = 10000

// Benchmark is a single named benchmark on a RodMap.
// keys is the number of distinct keys the benchmark works on.
type Benchmark struct {
	Name string
	Fn   func(b *testing.B, m *rod.RodMap[int, string], keys int)
}

// Benchmarks lists all RodMap benchmarks. They are run by RunRodMapBenchmarks
// and by the perf command of the CLI.
var Benchmarks = []Benchmark{
	{Name: "InsertRelease", Fn: benchmarkInsertRelease},
	{Name: "Get", Fn: benchmarkGet},
	{Name: "Get(not)", Fn: benchmarkGetNot},
	{Name: "CloneRelease", Fn: benchmarkCloneRelease},
	{Name: "Do", Fn: benchmarkDo},
	{Name: "Lifecycle", Fn: benchmarkLifecycle},
}

// RunRodMapBenchmarks runs all benchmarks for a RodMap
func RunRodMapBenchmarks(b *testing.B, name string, factory MapFactory) {
	for _, bm := range Benchmarks {
		b.Run(bm.Name, func(b *testing.B) {
			bm.Fn(b, factory(nil), DefaultKeySpread)
		})
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// fill inserts keys 0..keys-1 and returns the handles keeping them alive
func fill(b *testing.B, m *rod.RodMap[int, string], keys int) []*rod.Handle[int, string] {
	handles := make([]*rod.Handle[int, string], keys)
	for i := range handles {
		h, err := m.Insert(i, fmt.Sprint(i))
		if err != nil {
			b.Fatalf("Insert(%d) failed: %v", i, err)
		}
		handles[i] = h
	}
	return handles
}

func releaseAll(handles []*rod.Handle[int, string]) {
	for _, h := range handles {
		_ = h.Release()
	}
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

// Benchmark for inserting a key and evicting it again
func benchmarkInsertRelease(b *testing.B, m *rod.RodMap[int, string], keys int) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h, err := m.Insert(i%keys, "value")
		if err != nil {
			b.Fatalf("Insert failed: %v", err)
		}
		_ = h.Release()
	}
}

// Benchmark for Get on live keys (including the release of the handle)
func benchmarkGet(b *testing.B, m *rod.RodMap[int, string], keys int) {
	handles := fill(b, m, keys)
	b.Cleanup(func() { releaseAll(handles) })

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h, ok := m.Get(i % keys)
		if !ok {
			b.Fatalf("Get(%d) missed a live key", i%keys)
		}
		_ = h.Release()
	}
}

// Benchmark for Get on absent keys
func benchmarkGetNot(b *testing.B, m *rod.RodMap[int, string], keys int) {
	handles := fill(b, m, keys)
	b.Cleanup(func() { releaseAll(handles) })

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := m.Get(keys + i%keys); ok {
			b.Fatalf("Get found an absent key")
		}
	}
}

// Benchmark for cloning a handle and releasing the clone
func benchmarkCloneRelease(b *testing.B, m *rod.RodMap[int, string], keys int) {
	handles := fill(b, m, keys)
	b.Cleanup(func() { releaseAll(handles) })

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h, err := handles[i%keys].Clone()
		if err != nil {
			b.Fatalf("Clone failed: %v", err)
		}
		_ = h.Release()
	}
}

// Benchmark for scoped access with Do
func benchmarkDo(b *testing.B, m *rod.RodMap[int, string], keys int) {
	handles := fill(b, m, keys)
	b.Cleanup(func() { releaseAll(handles) })

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Do(i%keys, func(string) error { return nil })
	}
}

// Benchmark for the full lifecycle of an entry: insert, get, clone and release all three
func benchmarkLifecycle(b *testing.B, m *rod.RodMap[int, string], keys int) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := i % keys
		h, err := m.Insert(key, "value")
		if err != nil {
			b.Fatalf("Insert failed: %v", err)
		}
		g, _ := m.Get(key)
		c, _ := h.Clone()
		_ = h.Release()
		_ = g.Release()
		_ = c.Release()
	}
}
