package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.trai.ch/snaplink/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newTranslateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "translate <script> <row>",
		Short: "Map a row of a generated script back to its module",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := strconv.Atoi(args[1])
			if err != nil {
				return zerr.With(domain.ErrInvalidRow, "row", args[1])
			}

			loc, err := c.app.Translate(cmd.Context(), args[0], row)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s:%d\n", loc.RelativePath, loc.Row)
			return nil
		},
	}
}
