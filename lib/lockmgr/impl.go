package lockmgr

import (
	"bytes"
	"errors"
	"sync"
	"time"

	"github.com/ValentinKolb/rod/lib/rod"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("lockmgr")

// lease is the lock holder's handle on the lock table entry
type lease struct {
	handle  *rod.Handle[string, []byte]
	ownerID []byte
	timer   *time.Timer
}

type lockMgrImpl struct {
	mu     sync.Mutex
	locks  *rod.RodMap[string, []byte]
	leases map[string]*lease
}

// NewLockManager creates a lock manager on top of a RodMap with the given options (optional).
// The duplicate policy of opts is ignored, a held lock always rejects new owners.
func NewLockManager(opts *rod.Options) ILockManager {
	if opts == nil {
		opts = rod.DefaultOptions()
		opts.Name = "locks"
	}
	mapOpts := *opts
	mapOpts.DuplicatePolicy = rod.DuplicateReject

	return &lockMgrImpl{
		locks:  rod.NewHash[string, []byte](&mapOpts),
		leases: make(map[string]*lease),
	}
}

func (lm *lockMgrImpl) AcquireLock(key string, timeout time.Duration) (bool, []byte, error) {
	// Generate owner ID (256 bit random value)
	ownerID, err := generateOwnerID()
	if err != nil {
		return false, nil, err
	}

	lm.mu.Lock()
	defer lm.mu.Unlock()

	// Try to acquire the lock (the insert is rejected while someone holds a handle on the key)
	h, err := lm.locks.Insert(key, ownerID)
	if errors.Is(err, rod.ErrKeyOccupied) {
		return false, nil, nil
	} else if err != nil {
		return false, nil, err
	}

	l := &lease{handle: h, ownerID: ownerID}
	if timeout > 0 {
		l.timer = time.AfterFunc(timeout, func() {
			lm.expire(key, l)
		})
	}
	lm.leases[key] = l

	log.Debugf("lock %q acquired by %s", key, shortID(ownerID))
	return true, ownerID, nil
}

func (lm *lockMgrImpl) ReleaseLock(key string, ownerID []byte) (bool, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	// Check if the lock exists
	l, ok := lm.leases[key]
	if !ok {
		return true, nil
	}

	// Check if the lock is owned by us
	if !bytes.Equal(ownerID, l.ownerID) {
		return false, nil
	}

	if l.timer != nil {
		l.timer.Stop()
	}

	// Release the lock
	err := lm.drop(key, l)
	log.Debugf("lock %q released by %s", key, shortID(ownerID))
	return err == nil, err
}

func (lm *lockMgrImpl) IsLocked(key string) bool {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	return lm.locks.Contains(key)
}

func (lm *lockMgrImpl) Holder(key string) (ownerID []byte, ok bool) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	ok, _ = lm.locks.Do(key, func(value []byte) error {
		ownerID = bytes.Clone(value)
		return nil
	})
	return ownerID, ok
}

func (lm *lockMgrImpl) Info() rod.Info {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	return lm.locks.Info()
}

// expire releases the lease if it is still the current one for key
func (lm *lockMgrImpl) expire(key string, l *lease) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if lm.leases[key] != l {
		return
	}
	if err := lm.drop(key, l); err != nil {
		log.Errorf("failed to expire lock %q: %v", key, err)
		return
	}
	log.Infof("lock %q of %s expired", key, shortID(l.ownerID))
}

// drop releases the handle of the lease, which evicts the lock from the table.
// The caller must hold lm.mu.
func (lm *lockMgrImpl) drop(key string, l *lease) error {
	delete(lm.leases, key)
	return l.handle.Release()
}
