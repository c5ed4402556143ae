package perf

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/rod/cmd/util"
	"github.com/ValentinKolb/rod/lib/rod"
	rodtesting "github.com/ValentinKolb/rod/lib/rod/testing"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	log = logger.GetLogger("cli")

	// PerfCmd represents the perf command
	PerfCmd = &cobra.Command{
		Use:   "perf",
		Short: "Performance testing tool for RodMap",
		Long: `Runs the RodMap benchmarks (insert-release, get, get(not), clone-release,
do, lifecycle) on the selected index engines and measures the latency
distribution of a full entry lifecycle.`,
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfIndexes      = []string{"hash", "ordered"}
	perfKeySpread    = rodtesting.DefaultKeySpread
	perfLatencyOps   = 100000
	perfSkip         = make([]string, 0)
	perfPrintMetrics = false
)

// result is the outcome of one benchmark on one index
type result struct {
	index string
	test  string
	bench testing.BenchmarkResult
}

func init() {
	// add flags
	key := "index"
	PerfCmd.Flags().String(key, "all", util.WrapString("Index engines to benchmark (hash, ordered, all)"))
	key = "skip"
	PerfCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. get,do,latency)"))
	key = "keys"
	PerfCmd.Flags().Int(key, rodtesting.DefaultKeySpread, util.WrapString("How many different keys to use for the tests"))
	key = "latency-ops"
	PerfCmd.Flags().Int(key, 100000, util.WrapString("How many entry lifecycles to time for the latency distribution"))
	key = "csv"
	PerfCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
	key = "metrics"
	PerfCmd.Flags().Bool(key, false, util.WrapString("Record RodMap metrics during the run and print them in Prometheus text format"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	switch index := viper.GetString("index"); index {
	case "all", "":
		perfIndexes = []string{"hash", "ordered"}
	case "hash", "ordered":
		perfIndexes = []string{index}
	default:
		return fmt.Errorf("invalid index %q (valid: hash, ordered, all)", index)
	}

	perfKeySpread = viper.GetInt("keys")
	if perfKeySpread <= 0 {
		return fmt.Errorf("keys must be positive, got %d", perfKeySpread)
	}
	perfLatencyOps = viper.GetInt("latency-ops")
	perfSkip = util.SplitList(viper.GetString("skip"))
	perfPrintMetrics = viper.GetBool("metrics")

	return nil
}

func run(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for RodMap")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("Indexes: %s\n", strings.Join(perfIndexes, ", "))
	fmt.Printf("Keys: %d\n", perfKeySpread)
	fmt.Printf("Skip: %s\n", strings.Join(perfSkip, ", "))
	fmt.Println()

	var set *metrics.Set
	if perfPrintMetrics {
		set = metrics.NewSet()
	}

	var results []result

	for _, index := range perfIndexes {
		fmt.Printf("starting tests for %s index...\n", index)

		for _, bm := range rodtesting.Benchmarks {
			if shouldSkip(bm.Name) {
				printResult(bm.Name, testing.BenchmarkResult{})
				results = append(results, result{index: index, test: bm.Name})
				continue
			}

			opts := &rod.Options{
				Name:    fmt.Sprintf("%s/%s", index, strings.ToLower(bm.Name)),
				Metrics: set,
			}

			// one map for all rounds, every round leaves it empty again
			m, err := util.NewIntMap(index, opts)
			if err != nil {
				return err
			}
			bench := testing.Benchmark(func(b *testing.B) {
				bm.Fn(b, m, perfKeySpread)
			})
			if !m.IsEmpty() {
				log.Warningf("%s: %d keys left after benchmark %s", index, m.Len(), bm.Name)
			}

			printResult(bm.Name, bench)
			results = append(results, result{index: index, test: bm.Name, bench: bench})
		}

		if !shouldSkip("latency") {
			if err := runLatency(index, set); err != nil {
				return err
			}
		}
		fmt.Println()
	}

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("Exporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %w", err)
		}
		fmt.Println("Export complete")
	}

	if set != nil {
		var buf bytes.Buffer
		set.WritePrometheus(&buf)
		fmt.Println()
		fmt.Println("Metrics:")
		fmt.Print(buf.String())
	}

	return nil
}

// runLatency times single entry lifecycles (insert, get, clone, release all three)
// and prints the latency distribution
func runLatency(index string, set *metrics.Set) error {
	m, err := util.NewIntMap(index, &rod.Options{Name: index + "/latency", Metrics: set})
	if err != nil {
		return err
	}

	timer := gometrics.NewTimer()
	defer timer.Stop()

	for i := 0; i < perfLatencyOps; i++ {
		key := i % perfKeySpread
		var opErr error

		timer.Time(func() {
			h, err := m.Insert(key, "value")
			if err != nil {
				opErr = err
				return
			}
			g, _ := m.Get(key)
			c, _ := h.Clone()
			_ = c.Release()
			_ = g.Release()
			_ = h.Release()
		})

		if opErr != nil {
			return fmt.Errorf("lifecycle of key %d failed: %w", key, opErr)
		}
	}

	if !m.IsEmpty() {
		log.Warningf("%s: %d keys left after latency run", index, m.Len())
	}

	ps := timer.Percentiles([]float64{0.5, 0.99, 0.999})
	fmt.Printf("%-20sp50=%s p99=%s p999=%s max=%s (%d ops)\n", "latency",
		time.Duration(ps[0]), time.Duration(ps[1]), time.Duration(ps[2]),
		time.Duration(timer.Max()), timer.Count())

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if strings.EqualFold(test, skip) {
			return true
		}
	}
	return false
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.N == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\t%d allocs/op\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec, result.AllocsPerOp())
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results []result) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Index", "Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "AllocsPerOp", "Skipped", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write test results
	for _, r := range results {
		var nsPerOp float64
		var opsPerSec float64
		skipped := r.bench.N == 0

		if !skipped {
			nsPerOp = math.Max(float64(r.bench.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			r.index,
			r.test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			strconv.FormatInt(r.bench.AllocsPerOp(), 10),
			strconv.FormatBool(skipped),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %w", r.test, err)
		}
	}

	return nil
}
