package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/five82/photowall/internal/app"
	"github.com/five82/photowall/internal/logging"
	"github.com/five82/photowall/internal/logtail"
)

// LogsCmd returns the logs command
func LogsCmd() *cobra.Command {
	var (
		lines int
		level string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent photowall log entries",
		Long: `Print the tail of the JSON log file in a readable, colored form.

Use -n 0 to print the whole file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(app.Options{ConfigPath: configPath(cmd)})
			if err != nil {
				return err
			}
			raw, err := logtail.Read(cfg.Logging.File, lines)
			if err != nil {
				return fmt.Errorf("read log: %w", err)
			}
			writeLogs(cmd.OutOrStdout(), raw, logging.ParseLevel(level))
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines to read from the end of the log")
	cmd.Flags().StringVar(&level, "level", "debug", "minimum level to show (debug, info, warn, error)")
	return cmd
}

func writeLogs(w io.Writer, raw []string, minLevel slog.Level) {
	entries := logtail.FilterLevel(logtail.ParseLines(raw), minLevel)
	if len(entries) == 0 {
		fmt.Fprintln(w, "No log entries")
		return
	}
	for _, e := range entries {
		fmt.Fprintln(w, logtail.Colorize(e))
	}
}
