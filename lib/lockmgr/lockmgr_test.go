package lockmgr

import (
	"bytes"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValentinKolb/rod/lib/rod"
)

func TestAcquireRelease(t *testing.T) {
	lm := NewLockManager(nil)

	ok, ownerID, err := lm.AcquireLock("resource", 0)
	if err != nil || !ok {
		t.Fatalf("AcquireLock failed: ok=%t err=%v", ok, err)
	}
	if len(ownerID) != ownerIDLength {
		t.Errorf("Expected owner ID of %d bytes, got %d", ownerIDLength, len(ownerID))
	}
	if !lm.IsLocked("resource") {
		t.Errorf("Resource should be locked")
	}
	if holder, ok := lm.Holder("resource"); !ok || !bytes.Equal(holder, ownerID) {
		t.Errorf("Holder should return the owner ID")
	}

	ok, err = lm.ReleaseLock("resource", ownerID)
	if err != nil || !ok {
		t.Fatalf("ReleaseLock failed: ok=%t err=%v", ok, err)
	}
	if lm.IsLocked("resource") {
		t.Errorf("Resource should not be locked after release")
	}
	if info := lm.Info(); info.LiveKeys != 0 || info.LiveHandles != 0 {
		t.Errorf("Released lock should leave nothing behind, got %+v", info)
	}
}

func TestAcquireHeldLock(t *testing.T) {
	lm := NewLockManager(nil)

	_, ownerID, _ := lm.AcquireLock("resource", 0)

	ok, otherID, err := lm.AcquireLock("resource", 0)
	if err != nil {
		t.Fatalf("AcquireLock on a held lock should not fail: %v", err)
	}
	if ok || otherID != nil {
		t.Errorf("AcquireLock on a held lock should not succeed")
	}

	_, _ = lm.ReleaseLock("resource", ownerID)

	ok, _, _ = lm.AcquireLock("resource", 0)
	if !ok {
		t.Errorf("AcquireLock should succeed after the lock was released")
	}
}

func TestReleaseWrongOwner(t *testing.T) {
	lm := NewLockManager(nil)

	_, ownerID, _ := lm.AcquireLock("resource", 0)

	ok, err := lm.ReleaseLock("resource", []byte("someone else"))
	if err != nil || ok {
		t.Errorf("ReleaseLock with a wrong owner should return false, got ok=%t err=%v", ok, err)
	}
	if !lm.IsLocked("resource") {
		t.Errorf("Lock should still be held")
	}

	if ok, _ = lm.ReleaseLock("resource", ownerID); !ok {
		t.Errorf("ReleaseLock by the owner should succeed")
	}
}

func TestReleaseUnknownLock(t *testing.T) {
	lm := NewLockManager(nil)

	ok, err := lm.ReleaseLock("missing", []byte("owner"))
	if err != nil || !ok {
		t.Errorf("ReleaseLock of a missing lock should return true, got ok=%t err=%v", ok, err)
	}
}

func TestTimeout(t *testing.T) {
	lm := NewLockManager(nil)

	ok, ownerID, _ := lm.AcquireLock("resource", 20*time.Millisecond)
	if !ok {
		t.Fatalf("AcquireLock failed")
	}

	deadline := time.Now().Add(2 * time.Second)
	for lm.IsLocked("resource") {
		if time.Now().After(deadline) {
			t.Fatalf("Lock did not expire")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// releasing an expired lock is a no-op
	if ok, err := lm.ReleaseLock("resource", ownerID); !ok || err != nil {
		t.Errorf("ReleaseLock of an expired lock should return true, got ok=%t err=%v", ok, err)
	}

	// a new holder must not be affected by the old timeout
	ok, newOwner, _ := lm.AcquireLock("resource", 0)
	if !ok {
		t.Fatalf("AcquireLock after expiry failed")
	}
	time.Sleep(40 * time.Millisecond)
	if holder, ok := lm.Holder("resource"); !ok || !bytes.Equal(holder, newOwner) {
		t.Errorf("New holder should keep the lock")
	}
}

func TestReleaseStopsTimeout(t *testing.T) {
	lm := NewLockManager(nil)

	_, ownerID, _ := lm.AcquireLock("resource", 20*time.Millisecond)
	_, _ = lm.ReleaseLock("resource", ownerID)

	ok, newOwner, _ := lm.AcquireLock("resource", 0)
	if !ok {
		t.Fatalf("AcquireLock failed")
	}
	time.Sleep(40 * time.Millisecond)

	if holder, ok := lm.Holder("resource"); !ok || !bytes.Equal(holder, newOwner) {
		t.Errorf("Timeout of a released lock should not affect the new holder")
	}
}

func TestConcurrentAcquire(t *testing.T) {
	lm := NewLockManager(&rod.Options{Name: "concurrent"})

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _, err := lm.AcquireLock("resource", 0); err == nil && ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("Exactly one goroutine should acquire the lock, got %d", wins.Load())
	}
	if info := lm.Info(); info.Name != "concurrent" || info.LiveHandles != 1 {
		t.Errorf("Expected one live handle in map concurrent, got %+v", info)
	}
}

func TestShortID(t *testing.T) {
	if got := shortID([]byte{0xde, 0xad, 0xbe, 0xef, 0x01}); got != "deadbeef" {
		t.Errorf("Expected deadbeef, got %s", got)
	}
	if got := shortID([]byte{0x01}); got != "01" {
		t.Errorf("Expected 01, got %s", got)
	}
}
