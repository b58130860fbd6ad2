package commands

import (
	"github.com/spf13/cobra"
)

func servicesCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List the Rex services this client knows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			type entry struct {
				Name    string   `json:"name"`
				Methods []string `json:"methods"`
			}
			out := make([]entry, 0, len(st.client.Services()))
			for _, name := range st.client.Services() {
				out = append(out, entry{Name: name, Methods: st.client.MustService(name).Methods()})
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}
