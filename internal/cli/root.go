package cli

import (
	"github.com/spf13/cobra"
)

// RootCmd returns the photowall root command. Invoked without a subcommand
// it behaves like run.
func RootCmd() *cobra.Command {
	flags := &runFlags{}

	root := &cobra.Command{
		Use:   "photowall",
		Short: "Photowall - live photo wall for a remote image list",
		Long: `Photowall polls a remote list of images, reveals each new one at the
center of the wall, lets it settle, and then moves it into the grid.

Run without a subcommand to start the wall.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWall(cmd, flags)
		},
	}
	root.PersistentFlags().String("config", "", "path to config.toml (default ~/.config/photowall/config.toml)")
	flags.register(root)

	root.AddCommand(RunCmd())
	root.AddCommand(KnownCmd())
	root.AddCommand(LogsCmd())
	return root
}

// configPath returns the --config flag value from cmd or any parent.
func configPath(cmd *cobra.Command) string {
	flag := cmd.Flag("config")
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}
