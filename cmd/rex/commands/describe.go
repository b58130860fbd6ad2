package commands

import (
	"github.com/spf13/cobra"
)

func describeCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <Service>",
		Short: "Print the server-side description of a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := st.service(args[0])
			if err != nil {
				return err
			}
			d, err := svc.Describe(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), d)
		},
	}
}
