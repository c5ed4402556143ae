package util

import (
	"strings"
	"testing"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(WrapString(text), "\n") {
		if len(line) > Wrap {
			t.Errorf("Line exceeds %d characters: %q", Wrap, line)
		}
	}

	if WrapString("short text") != "short text" {
		t.Errorf("Short text should not be wrapped")
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" get, ,insert-release,")
	if len(got) != 2 || got[0] != "get" || got[1] != "insert-release" {
		t.Errorf("Unexpected result %v", got)
	}
	if SplitList("") != nil {
		t.Errorf("Empty value should give no items")
	}
}

func TestNewIntMap(t *testing.T) {
	for _, name := range []string{"hash", "ordered"} {
		m, err := NewIntMap(name, nil)
		if err != nil || m == nil || !m.IsEmpty() {
			t.Errorf("NewIntMap(%s) failed: %v", name, err)
		}
	}
	if _, err := NewIntMap("skiplist", nil); err == nil {
		t.Errorf("NewIntMap should reject unknown indexes")
	}
}
