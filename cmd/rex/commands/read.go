package commands

import (
	"fmt"
	"strconv"

	"rex-crm-client/pkg/rex"

	"github.com/spf13/cobra"
)

func readCmd(st *state) *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "read <Service> <id>",
		Short: "Read one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := st.service(args[0])
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[1], err)
			}

			var opts []rex.Params
			if len(fields) > 0 {
				opts = append(opts, rex.Params{"fields": fields})
			}

			return st.withSession(cmd.Context(), func() error {
				rec, err := svc.Read(cmd.Context(), id, opts...)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), rec)
			})
		},
	}

	cmd.Flags().StringSliceVar(&fields, "fields", nil, "fields to return (comma separated)")
	return cmd
}
