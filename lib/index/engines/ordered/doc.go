// Package ordered provides a sorted index.OrderedIndex implementation on top of
// the generic B-tree from github.com/google/btree.
//
// Characteristics:
//   - O(log n) Put, Get and Remove
//   - Range iterates in ascending key order
//   - AscendRange(from, to) visits from <= key < to, Min and Max return the outermost entries
//
// Keys with a natural ordering use NewOrderedIndex, other comparable keys can be
// sorted with a custom less function via NewOrderedIndexFunc. Two keys that
// compare equal under the less function are the same key.
//
// Usage Example:
//
//	idx := ordered.NewOrderedIndex[int, string](nil)
//	idx.Put(3, "c")
//	idx.Put(1, "a")
//	idx.AscendRange(0, 2, func(k int, v string) bool {
//	    fmt.Println(k, v) // 1 a
//	    return true
//	})
package ordered
