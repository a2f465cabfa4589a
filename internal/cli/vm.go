package cli

import (
	"github.com/spf13/cobra"

	"github.com/vctools/vcadm/internal/services"
)

func (a *app) newVMByAddressCommand() *cobra.Command {
	var query services.AddressQuery

	cmd := &cobra.Command{
		Use:   "get-vm-by-address",
		Short: "Find VMs by MAC, IP, guest hostname or BIOS UUID",
		Long: `Looks up VMs through the guest and hardware identities reported by vCenter.
Exactly one of --mac, --ip, --ip-wildcard, --hostname or --uuid must be
given. MAC and UUID comparisons are case-insensitive; --ip-wildcard accepts
'*' as a wildcard (for example '10.0.1.*').`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			matches, err := services.NewVMService(conn).ByAddress(cmd.Context(), query)
			if err != nil {
				return err
			}
			return a.render(matches, addressQueryLabel(query))
		},
	}

	cmd.Flags().StringSliceVar(&query.MACs, "mac", nil, "MAC address(es) to look up")
	cmd.Flags().StringVar(&query.IP, "ip", "", "exact guest IP address")
	cmd.Flags().StringVar(&query.IPWildcard, "ip-wildcard", "", "guest IP pattern, '*' matches any run of characters")
	cmd.Flags().StringVar(&query.GuestHostname, "hostname", "", "guest host name, case-insensitive substring")
	cmd.Flags().StringVar(&query.UUID, "uuid", "", "BIOS UUID")
	cmd.MarkFlagsMutuallyExclusive("mac", "ip", "ip-wildcard", "hostname", "uuid")
	return cmd
}

func addressQueryLabel(q services.AddressQuery) string {
	switch {
	case len(q.MACs) > 0:
		return "mac " + q.MACs[0]
	case q.IP != "":
		return "ip " + q.IP
	case q.IPWildcard != "":
		return "ip " + q.IPWildcard
	case q.GuestHostname != "":
		return "hostname " + q.GuestHostname
	default:
		return "uuid " + q.UUID
	}
}

func (a *app) newVMByRDMCommand() *cobra.Command {
	var canonicalNames []string
	var cluster string

	cmd := &cobra.Command{
		Use:   "get-vm-by-rdm",
		Short: "List VMs holding raw device mappings in a cluster",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			mappings, err := services.NewVMService(conn).ByRDM(cmd.Context(), canonicalNames, cluster)
			if err != nil {
				return err
			}
			return a.render(mappings, "raw device mappings in cluster "+cluster)
		},
	}

	cmd.Flags().StringSliceVar(&canonicalNames, "canonical", nil, "restrict to LUN(s) with these canonical names")
	cmd.Flags().StringVar(&cluster, "cluster", "", "cluster to scan (required)")
	_ = cmd.MarkFlagRequired("cluster")
	return cmd
}

func (a *app) newVMDisksCommand() *cobra.Command {
	var patterns, names, ids []string
	var showDatastorePath bool

	cmd := &cobra.Command{
		Use:   "get-vm-disks-and-rdm",
		Short: "List virtual disks and raw device mappings per VM",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := buildFilter(patterns, names, ids)
			if err != nil {
				return err
			}
			conn, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			disks, err := services.NewVMService(conn).DisksAndRDM(cmd.Context(), filter, showDatastorePath)
			if err != nil {
				return err
			}
			return a.render(disks, filter.Query())
		},
	}
	addSelectionFlags(cmd, &patterns, &names, &ids)
	cmd.Flags().BoolVar(&showDatastorePath, "show-datastore-path", false, "include the full datastore path of each disk")
	return cmd
}

func (a *app) newEVCInfoCommand() *cobra.Command {
	var clusterNames, vmNames, vmIDs []string

	cmd := &cobra.Command{
		Use:   "get-vm-evc-info",
		Short: "Compare VM EVC requirements with the cluster EVC mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			infos, err := services.NewVMService(conn).EVCInfo(cmd.Context(), clusterNames, vmNames, vmIDs)
			if err != nil {
				return err
			}
			query := "EVC info"
			switch {
			case len(clusterNames) > 0:
				query = "cluster " + clusterNames[0]
			case len(vmNames) > 0:
				query = "vm " + vmNames[0]
			case len(vmIDs) > 0:
				query = "vm id " + vmIDs[0]
			}
			return a.render(infos, query)
		},
	}

	cmd.Flags().StringSliceVar(&clusterNames, "cluster", nil, "cluster(s) whose VMs to report")
	cmd.Flags().StringSliceVar(&vmNames, "vm", nil, "VM name(s) to report")
	cmd.Flags().StringSliceVar(&vmIDs, "vm-id", nil, "VM managed object id(s) to report")
	cmd.MarkFlagsMutuallyExclusive("cluster", "vm", "vm-id")
	return cmd
}

func (a *app) newDuplicateMACCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find-duplicate-mac-addresses",
		Short: "List MAC addresses assigned to more than one VM NIC",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			groups, err := services.NewVMService(conn).DuplicateMACs(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(groups, "duplicate MAC addresses")
		},
	}
	return cmd
}
