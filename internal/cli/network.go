package cli

import (
	"github.com/spf13/cobra"

	"github.com/vctools/vcadm/internal/services"
)

func (a *app) newNetworkClusterInfoCommand() *cobra.Command {
	var patterns, names, ids []string

	cmd := &cobra.Command{
		Use:   "get-network-cluster-info",
		Short: "List networks with the clusters they are available on",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := buildFilter(patterns, names, ids)
			if err != nil {
				return err
			}
			conn, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			infos, err := services.NewNetworkService(conn).ClusterInfo(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.render(infos, filter.Query())
		},
	}
	addSelectionFlags(cmd, &patterns, &names, &ids)
	return cmd
}

func (a *app) newVMByNetworkCommand() *cobra.Command {
	var patterns, names, ids []string

	cmd := &cobra.Command{
		Use:   "get-vm-by-network",
		Short: "List VMs attached to the matching networks",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := buildFilter(patterns, names, ids)
			if err != nil {
				return err
			}
			conn, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			infos, err := services.NewNetworkService(conn).VMsByNetwork(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.render(infos, filter.Query())
		},
	}
	addSelectionFlags(cmd, &patterns, &names, &ids)
	return cmd
}
