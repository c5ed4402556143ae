// Package testing provides a standardised test suite and benchmarks for
// rod.RodMap on top of any index implementation.
//
// The suite checks the keep-alive contract of handles: an entry lives as long
// as one of its handles is unreleased, the last Release evicts it, a released
// handle stays dead and a re-inserted key starts over with a single reference.
// Tests for ordered iteration and range queries are skipped for indexes that
// do not advertise the feature.
//
// Example usage:
//
//	factory := func(opts *rod.Options) *rod.RodMap[int, string] {
//		return rod.New[int, string](NewMyIndex[int, string](), opts)
//	}
//
//	rodtesting.RunRodMapTests(t, "MyIndex", factory)
//	rodtesting.RunRodMapBenchmarks(b, "MyIndex", factory)
package testing
