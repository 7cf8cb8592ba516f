package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/snaplink/internal/app"
)

func (c *CLI) newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Traverse the module graph and write the snapshot script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sourceMaps, _ := cmd.Flags().GetBool("source-maps")
			return c.app.Generate(cmd.Context(), app.GenerateOptions{
				Dir:        c.dir,
				SourceMaps: sourceMaps,
			})
		},
	}
	cmd.Flags().BoolP("source-maps", "s", false, "Also write the script variant with inline source maps")
	return cmd
}
