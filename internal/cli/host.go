package cli

import (
	"github.com/spf13/cobra"

	"github.com/vctools/vcadm/internal/services"
)

func (a *app) newBrokenUplinksCommand() *cobra.Command {
	var patterns, names, ids []string

	cmd := &cobra.Command{
		Use:   "get-host-broken-uplinks",
		Short: "List switch uplink NICs reporting no link speed",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := buildFilter(patterns, names, ids)
			if err != nil {
				return err
			}
			conn, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			uplinks, err := services.NewHostService(conn).BrokenUplinks(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.render(uplinks, filter.Query())
		},
	}
	addSelectionFlags(cmd, &patterns, &names, &ids)
	return cmd
}

func (a *app) newHBAWWNCommand() *cobra.Command {
	var patterns, names, ids []string
	var cluster string

	cmd := &cobra.Command{
		Use:   "get-host-hba-wwn",
		Short: "List fibre-channel HBA world wide names per host",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := buildFilter(patterns, names, ids)
			if err != nil {
				return err
			}
			conn, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			infos, err := services.NewHostService(conn).HBAWWN(cmd.Context(), filter, cluster)
			if err != nil {
				return err
			}
			return a.render(infos, filter.Query())
		},
	}
	addSelectionFlags(cmd, &patterns, &names, &ids)
	cmd.Flags().StringVar(&cluster, "cluster", "", "restrict to the hosts of this cluster")
	return cmd
}

func (a *app) newFirmwareCommand() *cobra.Command {
	var patterns, names, ids []string

	cmd := &cobra.Command{
		Use:   "get-host-firmware-info",
		Short: "List BIOS, Smart Array and iLO firmware per host",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := buildFilter(patterns, names, ids)
			if err != nil {
				return err
			}
			conn, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			infos, err := services.NewHostService(conn).Firmware(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.render(infos, filter.Query())
		},
	}
	addSelectionFlags(cmd, &patterns, &names, &ids)
	return cmd
}

func (a *app) newNICFirmwareDriverCommand() *cobra.Command {
	var patterns, names, ids []string

	cmd := &cobra.Command{
		Use:   "get-host-nic-firmware-driver-info",
		Short: "List NIC driver and firmware versions per host",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := buildFilter(patterns, names, ids)
			if err != nil {
				return err
			}
			conn, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			infos, err := services.NewHostService(conn).NICFirmwareDriver(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.render(infos, filter.Query())
		},
	}
	addSelectionFlags(cmd, &patterns, &names, &ids)
	return cmd
}

func (a *app) newLogicalVolumesCommand() *cobra.Command {
	var patterns, names, ids []string

	cmd := &cobra.Command{
		Use:   "get-host-logical-volume-info",
		Short: "List logical volumes reported by the host health system",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := buildFilter(patterns, names, ids)
			if err != nil {
				return err
			}
			conn, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			infos, err := services.NewHostService(conn).LogicalVolumes(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.render(infos, filter.Query())
		},
	}
	addSelectionFlags(cmd, &patterns, &names, &ids)
	return cmd
}
