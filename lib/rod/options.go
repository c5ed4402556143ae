package rod

import (
	"fmt"
	"strings"

	"github.com/VictoriaMetrics/metrics"
)

// DuplicatePolicy decides what Insert does with a key that still has live handles
type DuplicatePolicy int

const (
	// DuplicateReject makes Insert fail with ErrKeyOccupied, nothing is changed.
	DuplicateReject DuplicatePolicy = iota
	// DuplicateReplace overwrites the value and hands out an additional handle.
	// The outstanding handles stay valid and now resolve to the new value.
	DuplicateReplace
)

func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateReject:
		return "reject"
	case DuplicateReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// ParseDuplicatePolicy converts a string ("reject" or "replace") to a DuplicatePolicy
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return DuplicateReject, nil
	case "replace":
		return DuplicateReplace, nil
	default:
		return DuplicateReject, fmt.Errorf("invalid duplicate policy %q (valid: reject, replace)", s)
	}
}

// Options configures a RodMap during initialization
type Options struct {
	DuplicatePolicy DuplicatePolicy // Behaviour of Insert on live keys (default: DuplicateReject)
	Name            string          // Name used in log lines and as metrics label (default: "default")
	Metrics         *metrics.Set    // Optional metrics set the map registers its counters in (nil = no metrics)
}

// DefaultOptions returns the default RodMap options
func DefaultOptions() *Options {
	return &Options{
		DuplicatePolicy: DuplicateReject,
		Name:            "default",
		Metrics:         nil,
	}
}
