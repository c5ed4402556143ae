package demo

import (
	"github.com/ValentinKolb/rod/cmd/util"
	"github.com/ValentinKolb/rod/lib/rod"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// DemoCmd represents the demo command
var DemoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk through the lifecycle of a RodMap entry",
	Long: `Books a hotel room and hands out keys for it: the room stays booked
while at least one key is out and is freed the moment the last key
is returned.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return util.BindCommandFlags(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		policy, err := rod.ParseDuplicatePolicy(viper.GetString("duplicates"))
		if err != nil {
			return err
		}
		return Run(cmd.OutOrStdout(), viper.GetString("index"), policy)
	},
}

func init() {
	key := "index"
	DemoCmd.Flags().String(key, "hash", util.WrapString("Index engine of the hotel (hash, ordered)"))
	key = "duplicates"
	DemoCmd.Flags().String(key, "reject", util.WrapString("What booking an occupied room does (reject, replace)"))
}
