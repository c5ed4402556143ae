package lock

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestContend(t *testing.T) {
	var buf bytes.Buffer
	err := Contend(&buf, ContendConfig{Workers: 4, Keys: 2, Rounds: 20, Hold: 10 * time.Microsecond})
	if err != nil {
		t.Fatalf("Contend failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "locks still held: 0") {
		t.Errorf("All locks should be released after the run:\n%s", out)
	}
	if !strings.Contains(out, "lost: 0") {
		t.Errorf("No lock should be lost without timeouts:\n%s", out)
	}
}

func TestContendInvalidConfig(t *testing.T) {
	var buf bytes.Buffer
	if err := Contend(&buf, ContendConfig{Workers: 0, Keys: 1, Rounds: 1}); err == nil {
		t.Errorf("Contend should reject zero workers")
	}
}
