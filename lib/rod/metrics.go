package rod

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
)

// registration identifies a map name inside a metrics set
type registration struct {
	set  *metrics.Set
	name string
}

// registered holds all map names ever registered per metrics set
var registered = xsync.NewMapOf[registration, struct{}]()

// registerName reserves name in set and returns it. If another map already uses
// name in the same set, the first free name of the form name-2, name-3, ... is used.
func registerName(set *metrics.Set, name string) string {
	candidate := name
	for i := 2; ; i++ {
		if _, loaded := registered.LoadOrStore(registration{set: set, name: candidate}, struct{}{}); !loaded {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", name, i)
	}
}

// rodMetrics holds the counters of one RodMap.
// A nil *rodMetrics is valid and records nothing.
type rodMetrics struct {
	inserts         *metrics.Counter
	rejectedInserts *metrics.Counter
	gets            *metrics.Counter
	getMisses       *metrics.Counter
	clones          *metrics.Counter
	releases        *metrics.Counter
	evictions       *metrics.Counter
}

// newRodMetrics registers the counters and gauges for the map in set.
// The name of the map must be unique within set, see registerName.
func newRodMetrics[K comparable, V any](set *metrics.Set, s *state[K, V]) *rodMetrics {
	if set == nil {
		return nil
	}

	name := func(metric string) string {
		return fmt.Sprintf(`%s{map=%q}`, metric, s.name)
	}

	set.GetOrCreateGauge(name("rod_live_keys"), func() float64 {
		return float64(s.index.Len())
	})
	set.GetOrCreateGauge(name("rod_live_handles"), func() float64 {
		return float64(s.refs.Total())
	})

	return &rodMetrics{
		inserts:         set.GetOrCreateCounter(name("rod_inserts_total")),
		rejectedInserts: set.GetOrCreateCounter(name("rod_rejected_inserts_total")),
		gets:            set.GetOrCreateCounter(name("rod_gets_total")),
		getMisses:       set.GetOrCreateCounter(name("rod_get_misses_total")),
		clones:          set.GetOrCreateCounter(name("rod_clones_total")),
		releases:        set.GetOrCreateCounter(name("rod_releases_total")),
		evictions:       set.GetOrCreateCounter(name("rod_evictions_total")),
	}
}

func (m *rodMetrics) insert() {
	if m != nil {
		m.inserts.Inc()
	}
}

func (m *rodMetrics) rejectInsert() {
	if m != nil {
		m.rejectedInserts.Inc()
	}
}

func (m *rodMetrics) get(hit bool) {
	if m == nil {
		return
	}
	m.gets.Inc()
	if !hit {
		m.getMisses.Inc()
	}
}

func (m *rodMetrics) clone() {
	if m != nil {
		m.clones.Inc()
	}
}

func (m *rodMetrics) release(evicted bool) {
	if m == nil {
		return
	}
	m.releases.Inc()
	if evicted {
		m.evictions.Inc()
	}
}
