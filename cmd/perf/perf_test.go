package perf

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestShouldSkip(t *testing.T) {
	perfSkip = []string{"get", "latency"}
	defer func() { perfSkip = nil }()

	if !shouldSkip("Get") || !shouldSkip("latency") {
		t.Errorf("Listed tests should be skipped case-insensitively")
	}
	if shouldSkip("Get(not)") {
		t.Errorf("Get(not) should not be skipped")
	}
}

func TestWriteResultsToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	results := []result{
		{index: "hash", test: "Get", bench: testing.Benchmark(func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = i
			}
		})},
		{index: "ordered", test: "Get"},
	}

	if err := writeResultsToCSV(path, results); err != nil {
		t.Fatalf("writeResultsToCSV failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open CSV: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("failed to read CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header and 2 rows, got %d rows", len(rows))
	}
	if rows[1][0] != "hash" || rows[1][6] != "false" {
		t.Errorf("Unexpected first row %v", rows[1])
	}
	if rows[2][0] != "ordered" || rows[2][6] != "true" {
		t.Errorf("Unexpected second row %v", rows[2])
	}
}

func TestRunLatency(t *testing.T) {
	perfLatencyOps = 100
	perfKeySpread = 10

	for _, index := range []string{"hash", "ordered"} {
		if err := runLatency(index, nil); err != nil {
			t.Errorf("runLatency(%s) failed: %v", index, err)
		}
	}
	if err := runLatency("skiplist", nil); err == nil {
		t.Errorf("runLatency should fail for an unknown index")
	}
}
