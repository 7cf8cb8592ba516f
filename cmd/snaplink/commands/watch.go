package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/snaplink/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Generate once, then relink whenever watched sources change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sourceMaps, _ := cmd.Flags().GetBool("source-maps")
			return c.app.Watch(cmd.Context(), app.WatchOptions{
				Dir:        c.dir,
				SourceMaps: sourceMaps,
			})
		},
	}
	cmd.Flags().BoolP("source-maps", "s", false, "Also write the script variant with inline source maps")
	return cmd
}
