// internal/cli/show_config.go
package tlmbench

import (
	"os"

	"github.com/spf13/cobra"

	"tlmbench/internal/appconfig"
)

// showConfigCmd implements 'show config', which prints the merged
// configuration (flags > config file > defaults).
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON config is loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		appconfig.ShowConfig(os.Stdout, GetConfig())
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
