package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/five82/photowall/internal/app"
	"github.com/five82/photowall/internal/knownset"
	"github.com/five82/photowall/internal/kvstore"
)

// KnownCmd returns the known command
func KnownCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "known",
		Short: "Inspect or reset the persisted known set",
		Long: `The known set holds the identifier of every image photowall has ever
seen. Images in it are never presented again, even across restarts.

The wall must be stopped first when the bolt backend is in use.`,
	}
	cmd.AddCommand(knownListCmd())
	cmd.AddCommand(knownCountCmd())
	cmd.AddCommand(knownResetCmd())
	return cmd
}

func knownListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [pattern]",
		Short: "List known identifiers, optionally fuzzy-filtered",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := loadKnown(cmd)
			if err != nil {
				return err
			}
			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}
			writeKnown(cmd.OutOrStdout(), ids, pattern)
			return nil
		},
	}
}

func knownCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of known identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := loadKnown(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), len(ids))
			return nil
		},
	}
}

func knownResetCmd() *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget every known identifier",
		Long: `Delete the persisted known set. On the next start every image in the
remote list is presented again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("refusing to reset without --yes")
			}
			return withStore(cmd, func(store kvstore.Store) error {
				if err := knownset.Reset(store, knownset.DefaultKey); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Known set cleared\n", color.GreenString("✓"))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the reset")
	return cmd
}

func loadKnown(cmd *cobra.Command) ([]string, error) {
	var ids []string
	err := withStore(cmd, func(store kvstore.Store) error {
		set, err := knownset.Load(store, knownset.Options{})
		if err != nil {
			return err
		}
		ids = set.IDs()
		return nil
	})
	return ids, err
}

func withStore(cmd *cobra.Command, fn func(kvstore.Store) error) error {
	cfg, err := app.LoadConfig(app.Options{ConfigPath: configPath(cmd)})
	if err != nil {
		return err
	}
	store, err := app.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// knownIndex implements fuzzy.Source over identifiers.
type knownIndex []string

func (k knownIndex) String(i int) string { return k[i] }
func (k knownIndex) Len() int            { return len(k) }

// writeKnown prints ids in insertion order, or ranked by fuzzy score when a
// pattern is given. Matched characters are highlighted.
func writeKnown(w io.Writer, ids []string, pattern string) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		if len(ids) == 0 {
			fmt.Fprintln(w, "No known images")
			return
		}
		for _, id := range ids {
			fmt.Fprintln(w, id)
		}
		return
	}

	matches := fuzzy.FindFrom(strings.ToLower(pattern), knownIndex(ids))
	if len(matches) == 0 {
		fmt.Fprintf(w, "No known images match %q\n", pattern)
		return
	}
	highlight := color.New(color.FgHiMagenta, color.Bold)
	for _, m := range matches {
		fmt.Fprintln(w, highlightMatch(m.Str, m.MatchedIndexes, highlight))
	}
}

func highlightMatch(s string, indexes []int, c *color.Color) string {
	if len(indexes) == 0 {
		return s
	}
	matched := make(map[int]bool, len(indexes))
	for _, idx := range indexes {
		matched[idx] = true
	}
	var b strings.Builder
	for i, r := range s {
		if matched[i] {
			b.WriteString(c.Sprint(string(r)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
