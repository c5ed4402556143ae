// Package index provides the interface for the associative containers that back
// a rod.RodMap. An index maps a key to a value and nothing more: reference
// counting and eviction live one layer up, so an index can be swapped without
// touching the handle machinery.
//
// Key Components:
//
//   - Index Interface: Put, Get, Remove, Len and Range plus feature discovery.
//     Put on an existing key overwrites the value in place.
//
//   - OrderedIndex Interface: an Index that keeps keys sorted and additionally
//     supports AscendRange, Min and Max.
//
//   - Feature Flags: capabilities an implementation advertises through
//     SupportsFeature (e.g. FeatureOrdered, FeatureRangeQuery).
//
//   - Implementation Identifiers: "hash" and "ordered".
//
// Related Packages:
//
// The engines/hash package provides an unordered index on top of xsync.MapOf
// with average O(1) access.
//
// The engines/ordered package provides a sorted index on top of a generic B-tree
// (github.com/google/btree) with O(log n) access, ordered iteration and range queries.
//
// The testing package provides a conformance suite (RunIndexTests) and
// benchmarks (RunIndexBenchmarks) for any Index implementation.
package index
