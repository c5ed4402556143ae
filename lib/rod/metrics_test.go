package rod

import (
	"bytes"
	"strings"
	"testing"

	"github.com/VictoriaMetrics/metrics"
)

func TestMetrics(t *testing.T) {
	set := metrics.NewSet()
	m := NewHash[string, int](&Options{Name: "hotel", Metrics: set})

	h, _ := m.Insert("room", 1)
	_, _ = m.Insert("room", 2) // rejected
	g, _ := m.Get("room")
	_, _ = m.Get("lobby") // miss
	c, _ := h.Clone()

	var buf bytes.Buffer
	set.WritePrometheus(&buf)
	out := buf.String()

	for _, line := range []string{
		`rod_inserts_total{map="hotel"} 1`,
		`rod_rejected_inserts_total{map="hotel"} 1`,
		`rod_gets_total{map="hotel"} 2`,
		`rod_get_misses_total{map="hotel"} 1`,
		`rod_clones_total{map="hotel"} 1`,
		`rod_live_keys{map="hotel"} 1`,
		`rod_live_handles{map="hotel"} 3`,
	} {
		if !strings.Contains(out, line) {
			t.Errorf("Expected metrics output to contain %q, got:\n%s", line, out)
		}
	}

	_ = h.Release()
	_ = g.Release()
	_ = c.Release()

	buf.Reset()
	set.WritePrometheus(&buf)
	out = buf.String()

	for _, line := range []string{
		`rod_releases_total{map="hotel"} 3`,
		`rod_evictions_total{map="hotel"} 1`,
		`rod_live_keys{map="hotel"} 0`,
		`rod_live_handles{map="hotel"} 0`,
	} {
		if !strings.Contains(out, line) {
			t.Errorf("Expected metrics output to contain %q, got:\n%s", line, out)
		}
	}
}

func TestNilMetrics(t *testing.T) {
	var m *rodMetrics

	// must not panic
	m.insert()
	m.rejectInsert()
	m.get(true)
	m.get(false)
	m.clone()
	m.release(true)
}

// TestDuplicateMapName tests that two maps with the same name in one set get separate gauges
func TestDuplicateMapName(t *testing.T) {
	set := metrics.NewSet()
	first := NewHash[string, int](&Options{Name: "hotel", Metrics: set})
	second := NewHash[string, int](&Options{Name: "hotel", Metrics: set})
	third := NewHash[string, int](&Options{Name: "hotel", Metrics: set})

	if first.Info().Name != "hotel" || second.Info().Name != "hotel-2" || third.Info().Name != "hotel-3" {
		t.Fatalf("Expected hotel, hotel-2, hotel-3, got %s, %s, %s",
			first.Info().Name, second.Info().Name, third.Info().Name)
	}

	h, _ := second.Insert("room", 1)
	defer h.Release()

	var buf bytes.Buffer
	set.WritePrometheus(&buf)
	out := buf.String()

	for _, line := range []string{
		`rod_live_keys{map="hotel"} 0`,
		`rod_live_keys{map="hotel-2"} 1`,
		`rod_inserts_total{map="hotel-2"} 1`,
	} {
		if !strings.Contains(out, line) {
			t.Errorf("Expected metrics output to contain %q, got:\n%s", line, out)
		}
	}

	// the name is free in another set
	other := NewHash[string, int](&Options{Name: "hotel", Metrics: metrics.NewSet()})
	if other.Info().Name != "hotel" {
		t.Errorf("Name should be free in another set, got %s", other.Info().Name)
	}

	// without metrics names are not reserved
	plain := NewHash[string, int](&Options{Name: "hotel"})
	if plain.Info().Name != "hotel" {
		t.Errorf("Name without metrics should be kept, got %s", plain.Info().Name)
	}
}
