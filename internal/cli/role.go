package cli

import (
	"github.com/spf13/cobra"

	"github.com/vctools/vcadm/internal/models"
	"github.com/vctools/vcadm/internal/services"
	vcerrors "github.com/vctools/vcadm/pkg/errors"
)

func (a *app) newCopyRoleCommand() *cobra.Command {
	var (
		sourceRole        string
		destinationRole   string
		sourceServer      string
		destinationServer string
	)

	cmd := &cobra.Command{
		Use:   "copy-role",
		Short: "Copy a role and its privileges to another vCenter",
		Long: `Reads the privilege set of --source-role on the source vCenter and creates
--destination-role with the same privileges on the destination vCenter. The
copy refuses to overwrite: an existing destination role is an error. Server
selection defaults to the configured --server list, first entry as source
and second as destination.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			src, dst, err := a.rolePair(sourceServer, destinationServer)
			if err != nil {
				return err
			}
			conns, err := a.registry.Connect(ctx, []string{src, dst}, a.credential(), a.cfg.Insecure)
			if err != nil {
				return err
			}

			info, err := services.NewRoleService(conns[0], conns[1]).Copy(ctx, sourceRole, destinationRole)
			if err != nil {
				return err
			}
			return a.render([]models.RoleInfo{*info}, "role "+sourceRole)
		},
	}

	cmd.Flags().StringVar(&sourceRole, "source-role", "", "role to read on the source vCenter (required)")
	cmd.Flags().StringVar(&destinationRole, "destination-role", "", "role to create on the destination vCenter (required)")
	cmd.Flags().StringVar(&sourceServer, "source-server", "", "source vCenter, defaults to the first --server")
	cmd.Flags().StringVar(&destinationServer, "destination-server", "", "destination vCenter, defaults to the second --server")
	_ = cmd.MarkFlagRequired("source-role")
	_ = cmd.MarkFlagRequired("destination-role")
	return cmd
}

// rolePair resolves the source and destination endpoints of a role copy from
// the dedicated flags, falling back on the shared server list.
func (a *app) rolePair(source, destination string) (string, string, error) {
	servers := a.cfg.Servers
	if source == "" {
		if len(servers) == 0 {
			return "", "", vcerrors.NewPreconditionError("no source server; use --source-server or --server")
		}
		source = servers[0]
	}
	if destination == "" {
		if len(servers) < 2 {
			return "", "", vcerrors.NewPreconditionError("no destination server; use --destination-server or a second --server")
		}
		destination = servers[1]
	}
	return source, destination, nil
}
