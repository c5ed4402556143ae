package lock

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/rod/cmd/util"
	"github.com/ValentinKolb/rod/lib/lockmgr"
	"github.com/ValentinKolb/rod/lib/rod"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// LockCommands represents the lock command group
	LockCommands = &cobra.Command{
		Use:   "lock",
		Short: "Exercise the lock manager",
	}

	// contendCmd represents the contend command
	contendCmd = &cobra.Command{
		Use:   "contend",
		Short: "Let workers contend for a set of locks",
		Long: `Starts a number of workers that repeatedly try to acquire one of the
configured locks, hold it for a while and release it again. Prints how
often locks were acquired and how often a held lock was contended.`,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return util.BindCommandFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := ContendConfig{
				Workers: viper.GetInt("workers"),
				Keys:    viper.GetInt("keys"),
				Rounds:  viper.GetInt("rounds"),
				Hold:    viper.GetDuration("hold"),
				Timeout: viper.GetDuration("timeout"),
			}
			return Contend(cmd.OutOrStdout(), conf)
		},
	}
)

func init() {
	LockCommands.AddCommand(contendCmd)

	key := "workers"
	contendCmd.Flags().Int(key, 8, util.WrapString("Number of concurrent workers"))
	key = "keys"
	contendCmd.Flags().Int(key, 2, util.WrapString("Number of distinct locks"))
	key = "rounds"
	contendCmd.Flags().Int(key, 100, util.WrapString("Acquire attempts per worker"))
	key = "hold"
	contendCmd.Flags().Duration(key, 100*time.Microsecond, util.WrapString("How long a worker holds an acquired lock"))
	key = "timeout"
	contendCmd.Flags().Duration(key, 0, util.WrapString("Lock timeout (0 for no timeout)"))
}

// ContendConfig configures a contention run
type ContendConfig struct {
	Workers int
	Keys    int
	Rounds  int
	Hold    time.Duration
	Timeout time.Duration
}

// Contend runs the contention workload and writes a summary to w
func Contend(w io.Writer, conf ContendConfig) error {
	if conf.Workers <= 0 || conf.Keys <= 0 || conf.Rounds <= 0 {
		return fmt.Errorf("workers, keys and rounds must be positive")
	}

	locks := lockmgr.NewLockManager(&rod.Options{Name: "contend"})

	var acquired, contended, lost atomic.Int64
	var wg sync.WaitGroup

	start := time.Now()
	for worker := 0; worker < conf.Workers; worker++ {
		worker := worker
		wg.Add(1)
		go func() {
			defer wg.Done()
			for round := 0; round < conf.Rounds; round++ {
				key := fmt.Sprintf("lock-%d", (worker+round)%conf.Keys)

				ok, ownerID, err := locks.AcquireLock(key, conf.Timeout)
				if err != nil || !ok {
					contended.Add(1)
					continue
				}
				acquired.Add(1)

				time.Sleep(conf.Hold)

				// false if the lock expired and someone else holds it now
				if released, err := locks.ReleaseLock(key, ownerID); err != nil || !released {
					lost.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	info := locks.Info()
	fmt.Fprintf(w, "workers: %d, locks: %d, rounds: %d, took %s\n", conf.Workers, conf.Keys, conf.Rounds, time.Since(start).Round(time.Microsecond))
	fmt.Fprintf(w, "acquired: %d, contended: %d, lost: %d\n", acquired.Load(), contended.Load(), lost.Load())
	fmt.Fprintf(w, "locks still held: %d\n", info.LiveKeys)

	return nil
}
