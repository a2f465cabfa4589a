package cli

import (
	"github.com/spf13/cobra"

	"github.com/vctools/vcadm/internal/services"
)

func (a *app) newMoveTemplateCommand() *cobra.Command {
	var cluster string

	cmd := &cobra.Command{
		Use:   "move-template-to-host TEMPLATE",
		Short: "Re-register a template on a host of the given cluster",
		Long: `Converts TEMPLATE to a virtual machine, registers it on a host picked at
random from the cluster (or on its current host when no cluster is given)
and converts it back to a template.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			infos, err := services.NewTemplateService(conn).MoveToHost(cmd.Context(), args[0], cluster)
			if err != nil {
				return err
			}
			return a.render(infos, "template "+args[0])
		},
	}

	cmd.Flags().StringVar(&cluster, "cluster", "", "cluster whose hosts are eligible targets")
	return cmd
}
