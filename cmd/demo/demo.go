package demo

import (
	"errors"
	"fmt"
	"io"

	"github.com/ValentinKolb/rod/lib/rod"
)

// hotel wraps the map of rooms and prints every step
type hotel struct {
	w     io.Writer
	rooms *rod.RodMap[int, string]
	step  int
}

func (h *hotel) printf(format string, args ...any) {
	h.step++
	fmt.Fprintf(h.w, "%2d. %s\n", h.step, fmt.Sprintf(format, args...))
}

func (h *hotel) state() {
	fmt.Fprintf(h.w, "    rooms booked: %d, keys out: %d\n", h.rooms.Len(), h.rooms.Info().LiveHandles)
}

// Run executes the hotel walkthrough on the named index and writes every step to w
func Run(w io.Writer, indexName string, policy rod.DuplicatePolicy) error {
	var rooms *rod.RodMap[int, string]
	switch indexName {
	case "hash":
		rooms = rod.NewHash[int, string](&rod.Options{Name: "hotel", DuplicatePolicy: policy})
	case "ordered":
		rooms = rod.NewOrdered[int, string](&rod.Options{Name: "hotel", DuplicatePolicy: policy})
	default:
		return fmt.Errorf("invalid index %q (valid: hash, ordered)", indexName)
	}

	h := &hotel{w: w, rooms: rooms}

	fmt.Fprintf(w, "Hotel on the %s index (duplicate policy: %s)\n\n", indexName, policy)

	h.printf("the hotel opens, empty: %t", rooms.IsEmpty())

	key, err := rooms.Insert(0, "Room")
	if err != nil {
		return err
	}
	h.printf("guest books room %d and gets %s", key.Key(), key)
	h.state()

	spare, err := key.Clone()
	if err != nil {
		return err
	}
	h.printf("reception cuts a spare key")
	h.state()

	second, err := rooms.Insert(0, "Suite")
	switch {
	case errors.Is(err, rod.ErrKeyOccupied):
		h.printf("another guest tries to book room 0: %v", err)
	case err != nil:
		return err
	default:
		value, _ := key.Value()
		h.printf("another guest re-books room 0, the room is now a %s", value)
		h.state()
		if err := second.Release(); err != nil {
			return err
		}
		h.printf("the other guest returns their key")
	}

	if err := key.Release(); err != nil {
		return err
	}
	h.printf("guest returns the first key, room still booked: %t", rooms.Contains(0))
	h.state()

	if err := key.Release(); err != nil {
		h.printf("guest tries to return the same key again: %v", err)
	}

	found, err := rooms.Do(0, func(value string) error {
		h.printf("housekeeping visits the %s with a temporary key (keys out: %d)", value, rooms.Count(0))
		return nil
	})
	if err != nil || !found {
		return fmt.Errorf("housekeeping could not enter room 0: %v", err)
	}

	if err := spare.Release(); err != nil {
		return err
	}
	h.printf("the spare key is returned, room still booked: %t", rooms.Contains(0))
	h.state()

	h.printf("the hotel is empty again: %t", rooms.IsEmpty())

	key, err = rooms.Insert(0, "Room")
	if err != nil {
		return err
	}
	h.printf("a new guest books room 0 and starts with %d key", rooms.Count(0))
	return key.Release()
}
