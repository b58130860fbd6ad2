package commands

import (
	"fmt"

	"rex-crm-client/pkg/rex"

	"github.com/spf13/cobra"
)

func searchCmd(st *state) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "search <Service>",
		Short: "Search records of a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := st.service(args[0])
			if err != nil {
				return err
			}
			if limit <= 0 || offset < 0 {
				return fmt.Errorf("limit must be positive and offset non-negative")
			}

			return st.withSession(cmd.Context(), func() error {
				res, err := svc.Search(cmd.Context(), rex.Params{"limit": limit, "offset": offset})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of records to skip")
	return cmd
}
