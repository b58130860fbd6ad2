package commands

import (
	"strings"

	"rex-crm-client/pkg/rex"

	"github.com/spf13/cobra"
)

func pointCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "point <value>",
		Short:   "Convert a POINT(lat lng) value into a location",
		Example: `  rex point "POINT(-38.294285 143.175875)"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := rex.PointToLocation(strings.Join(args, " "))
			return printJSON(cmd.OutOrStdout(), loc)
		},
	}
}
