// Package lockmgr implements an in-process locking mechanism on top of a
// rod.RodMap. It provides a simple way to coordinate access to shared
// resources between goroutines.
//
// Core Functionality:
//   - Lock acquisition with ownership verification
//   - Automatic lock expiration through configurable timeouts
//   - Safe release operations that verify ownership
//
// Implementation Approach:
//
//	Every held lock is an entry of a RodMap[string, []byte] whose value is a
//	randomly generated owner ID. The lock manager keeps the single handle
//	returned by Insert for as long as the lock is held.
//
//	- Lock Acquisition: Inserts the key. The RodMap rejects inserts of keys
//	  that still have live handles with rod.ErrKeyOccupied, so only one
//	  requester can hold the lock at a time.
//
//	- Timeouts: A lock acquired with a timeout is released automatically
//	  after the given duration, preventing deadlocks if a holder never
//	  releases it.
//
//	- Safe Release: ReleaseLock compares the owner ID with the one stored at
//	  acquisition and only then releases the handle. Releasing the last
//	  handle evicts the key, so a released lock leaves nothing behind.
//
// Thread Safety:
//
//	A RodMap is not safe for concurrent use, so every operation of the lock
//	manager (including timeouts) runs under one mutex.
//
// Usage Example:
//
//	locks := lockmgr.NewLockManager(nil)
//
//	acquired, ownerID, err := locks.AcquireLock("resource:123", 30*time.Second)
//	if err != nil {
//	    // Handle error
//	}
//
//	if acquired {
//	    // Use the resource safely
//	    // ...
//
//	    released, err := locks.ReleaseLock("resource:123", ownerID)
//	}
package lockmgr
