package demo

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ValentinKolb/rod/lib/rod"
)

func TestRun(t *testing.T) {
	for _, index := range []string{"hash", "ordered"} {
		var buf bytes.Buffer
		if err := Run(&buf, index, rod.DuplicateReject); err != nil {
			t.Fatalf("Run(%s) failed: %v", index, err)
		}

		out := buf.String()
		for _, want := range []string{
			"the hotel opens, empty: true",
			"another guest tries to book room 0",
			"guest returns the first key, room still booked: true",
			"the spare key is returned, room still booked: false",
			"the hotel is empty again: true",
			"starts with 1 key",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("Run(%s) output misses %q:\n%s", index, want, out)
			}
		}
	}
}

func TestRunReplace(t *testing.T) {
	var buf bytes.Buffer
	if err := Run(&buf, "hash", rod.DuplicateReplace); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(buf.String(), "the room is now a Suite") {
		t.Errorf("Replace policy should overwrite the room:\n%s", buf.String())
	}
}

func TestRunInvalidIndex(t *testing.T) {
	var buf bytes.Buffer
	if err := Run(&buf, "skiplist", rod.DuplicateReject); err == nil {
		t.Errorf("Run should fail for an unknown index")
	}
}
