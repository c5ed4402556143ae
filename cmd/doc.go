// Package cmd implements the command-line interface for rod. The library
// itself has no server; the CLI exists to explore and measure it.
//
// The package is organized into several subpackages:
//
//   - perf: Benchmarks for RodMap on the hash and the ordered index
//   - demo: A step-by-step walkthrough of the handle lifecycle
//   - lock: A contention run of the lock manager built on RodMap
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See rod -help for a list of all commands.
package cmd
