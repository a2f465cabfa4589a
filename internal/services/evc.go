package services

import (
	"context"

	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/vctools/vcadm/internal/models"
	vcerrors "github.com/vctools/vcadm/pkg/errors"
	"github.com/vctools/vcadm/pkg/vmware"
)

var evcVMProps = []string{
	"name",
	"runtime.powerState",
	"runtime.minRequiredEVCModeKey",
	"runtime.host",
}

// EVCInfo pairs each VM's minimum required EVC mode with the mode applied on
// its cluster. Scope is exactly one of: a list of clusters, a list of VM
// names, or a list of VM ids.
func (s *VMService) EVCInfo(ctx context.Context, clusterNames, vmNames, vmIDs []string) ([]models.VMEVCInfo, error) {
	scopes := 0
	for _, scope := range [][]string{clusterNames, vmNames, vmIDs} {
		if len(scope) > 0 {
			scopes++
		}
	}
	if scopes != 1 {
		return nil, vcerrors.NewPreconditionError("exactly one of cluster, vm or vm-id must be given")
	}
	if len(clusterNames) > 0 {
		return s.evcByCluster(ctx, clusterNames)
	}
	filter := vmware.NewLiteralFilter(vmNames)
	if len(vmIDs) > 0 {
		filter = vmware.NewIDFilter(vmIDs)
	}
	return s.evcByVM(ctx, filter)
}

func (s *VMService) evcByCluster(ctx context.Context, clusterNames []string) ([]models.VMEVCInfo, error) {
	var infos []models.VMEVCInfo
	for _, name := range clusterNames {
		cluster, err := s.conn.Cluster(ctx, name)
		if err != nil {
			return nil, err
		}
		var cc mo.ClusterComputeResource
		if err := s.conn.PropertiesOne(ctx, cluster.Reference(), []string{"name", "summary", "host"}, &cc); err != nil {
			return nil, err
		}
		clusterMode := clusterEVCMode(&cc)

		var hosts []mo.HostSystem
		if len(cc.Host) == 0 {
			continue
		}
		if err := s.conn.Properties(ctx, cc.Host, []string{"vm"}, &hosts); err != nil {
			return nil, err
		}
		var vmRefs []types.ManagedObjectReference
		for _, host := range hosts {
			vmRefs = append(vmRefs, host.Vm...)
		}
		if len(vmRefs) == 0 {
			continue
		}

		var vms []mo.VirtualMachine
		if err := s.conn.Properties(ctx, vmRefs, evcVMProps, &vms); err != nil {
			return nil, err
		}
		for _, vm := range vms {
			infos = append(infos, models.VMEVCInfo{
				Name:           vm.Name,
				PowerState:     string(vm.Runtime.PowerState),
				VMEVCMode:      vm.Runtime.MinRequiredEVCModeKey,
				ClusterEVCMode: clusterMode,
				ClusterName:    cc.Name,
			})
		}
	}
	return infos, nil
}

func (s *VMService) evcByVM(ctx context.Context, filter *vmware.NameFilter) ([]models.VMEVCInfo, error) {
	var vms []mo.VirtualMachine
	if err := s.conn.Retrieve(ctx, []string{"VirtualMachine"}, evcVMProps, &vms); err != nil {
		return nil, err
	}

	type clusterEVC struct {
		name string
		mode string
	}
	clusters := make(map[types.ManagedObjectReference]clusterEVC)

	var infos []models.VMEVCInfo
	for _, vm := range vms {
		if !filter.Match(vm.Name, vm.Self) {
			continue
		}

		info := models.VMEVCInfo{
			Name:       vm.Name,
			PowerState: string(vm.Runtime.PowerState),
			VMEVCMode:  vm.Runtime.MinRequiredEVCModeKey,
		}

		if vm.Runtime.Host != nil {
			var host mo.HostSystem
			if err := s.conn.PropertiesOne(ctx, *vm.Runtime.Host, []string{"parent"}, &host); err != nil {
				return nil, err
			}
			if host.Parent != nil && host.Parent.Type == "ClusterComputeResource" {
				evc, ok := clusters[*host.Parent]
				if !ok {
					var cc mo.ClusterComputeResource
					if err := s.conn.PropertiesOne(ctx, *host.Parent, []string{"name", "summary"}, &cc); err != nil {
						return nil, err
					}
					evc = clusterEVC{name: cc.Name, mode: clusterEVCMode(&cc)}
					clusters[*host.Parent] = evc
				}
				info.ClusterName = evc.name
				info.ClusterEVCMode = evc.mode
			}
		}

		infos = append(infos, info)
	}
	return infos, nil
}

func clusterEVCMode(cc *mo.ClusterComputeResource) string {
	summary, ok := cc.Summary.(*types.ClusterComputeResourceSummary)
	if !ok {
		return ""
	}
	return summary.CurrentEVCModeKey
}
