package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/photowall/internal/app"
)

type runFlags struct {
	poll     time.Duration
	delay    time.Duration
	headless bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&f.poll, "poll", 0, "poll interval (default from config, 10s)")
	cmd.Flags().DurationVar(&f.delay, "delay", 0, "delay before the first poll (default from config, 0s)")
	cmd.Flags().BoolVar(&f.headless, "headless", false, "run without the TUI and mirror logs to stderr")
}

// options converts the parsed flags into app options. --delay only overrides
// the config when given explicitly, so --delay 0 polls immediately.
func (f *runFlags) options(cmd *cobra.Command) app.Options {
	opts := app.Options{
		ConfigPath: configPath(cmd),
		PollEvery:  f.poll,
		Headless:   f.headless,
	}
	if cmd.Flags().Changed("delay") {
		delay := f.delay
		opts.Delay = &delay
	}
	return opts
}

// RunCmd returns the run command
func RunCmd() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the photo wall",
		Long: `Start polling the configured list and presenting new images.

The TUI is shown when stdout is a terminal. Use --headless (or redirect
stdout) to run as a service; logs are then mirrored to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWall(cmd, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

var runApp = app.Run

func runWall(cmd *cobra.Command, flags *runFlags) error {
	return runApp(cmd.Context(), flags.options(cmd))
}
