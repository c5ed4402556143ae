// Package testing provides standardised tests and benchmarks for
// index implementations that satisfy the index.Index interface.
//
// The package contains:
//   - testing: A test suite for validating conformance to the Index interface contract
//   - benchmark: Performance tests for the common index operations
//
// Tests that depend on an optional capability (e.g. FeatureOrdered) are skipped
// for implementations that do not advertise it.
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func() index.Index[string, int] {
//		return NewMyIndex[string, int]()
//	}
//
//	// Running the standard test suite
//	idxtesting.RunIndexTests(t, "MyIndex", factory)
//
//	// Running performance benchmarks
//	idxtesting.RunIndexBenchmarks(b, "MyIndex", factory)
package testing
