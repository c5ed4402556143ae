package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/rod/cmd/demo"
	"github.com/ValentinKolb/rod/cmd/lock"
	"github.com/ValentinKolb/rod/cmd/perf"
	"github.com/ValentinKolb/rod/cmd/util"
	"github.com/ValentinKolb/rod/lib/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "rod",
		Short: "remove-on-drop key-value containers",
		Long: fmt.Sprintf(`rod (v%s)

A key-value container library written in Go whose entries are kept
alive by reference-counted handles and removed when the last handle
is released.`, Version),
		PersistentPreRunE: setupLogging,
		SilenceUsage:      true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of rod",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("rod v%s\n", Version)
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(perf.PerfCmd)
	RootCmd.AddCommand(demo.DemoCmd)
	RootCmd.AddCommand(lock.LockCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("log level (debug, info, warn, error)"))
}

// setupLogging configures all loggers with the level from flags or environment
func setupLogging(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlag("log-level", cmd.Root().PersistentFlags().Lookup("log-level")); err != nil {
		return err
	}
	return common.InitLoggers(viper.GetString("log-level"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
