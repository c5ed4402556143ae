// Package util provides utility components shared by the rod packages.
//
// The package contains:
//   - stats: Summary statistics (mean, median, deviation, min/max) over a sample of values
//
// rod.RodMap uses it to describe the distribution of reference counts in Info.
package util
