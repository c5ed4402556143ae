// Package internal contains the reference count table used by rod.RodMap.
//
// The table is kept separate from the index so that overwriting a value in the
// index never disturbs the count of outstanding handles for that key.
package internal
