package commands

import (
	"rex-crm-client/pkg/logger"

	"github.com/spf13/cobra"
)

func loginCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check the configured credentials by logging in and out again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.withSession(cmd.Context(), func() error {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"logged_in": true,
					"email":     st.cfg.Rex.Email,
					"token":     logger.Mask(st.client.Token()),
				})
			})
		},
	}
}
