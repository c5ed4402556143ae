package lockmgr

import (
	"time"

	"github.com/ValentinKolb/rod/lib/rod"
)

// ILockManager defines the interface for a lock provider.
type ILockManager interface {
	// AcquireLock acquires a lock for the given key with an optional timeout (0 = no timeout).
	// Return a boolean indicating whether the lock was acquired, an owner ID, and an error if any.
	AcquireLock(key string, timeout time.Duration) (ok bool, ownerID []byte, err error)

	// ReleaseLock releases the lock for the given key.
	// Return a boolean indicating whether the lock was released, and an error if any.
	// The method will also return True if the lock did not exist.
	ReleaseLock(key string, ownerID []byte) (ok bool, err error)

	// IsLocked reports whether the key is currently locked
	IsLocked(key string) bool

	// Holder returns the owner ID of the current holder of the lock
	Holder(key string) (ownerID []byte, ok bool)

	// Info returns statistics about the underlying lock table
	Info() rod.Info
}
