package services

import (
	"context"
	"fmt"

	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/vctools/vcadm/internal/models"
	"github.com/vctools/vcadm/internal/util"
	"github.com/vctools/vcadm/pkg/vmware"
)

// lunInfo is what we keep of a SCSI LUN for RDM joining.
type lunInfo struct {
	CanonicalName string
	DisplayName   string
}

func lunsOf(device *types.HostStorageDeviceInfo) map[string]lunInfo {
	luns := make(map[string]lunInfo)
	if device == nil {
		return luns
	}
	for _, baseLun := range device.ScsiLun {
		lun := baseLun.GetScsiLun()
		luns[lun.Uuid] = lunInfo{
			CanonicalName: lun.CanonicalName,
			DisplayName:   lun.DisplayName,
		}
	}
	return luns
}

// ByRDM reports every raw device mapping disk of the cluster's VMs, joined
// to the canonical name of its backing LUN. canonicalNames, when non-empty,
// restricts the result to those exact LUNs.
func (s *VMService) ByRDM(ctx context.Context, canonicalNames []string, clusterName string) ([]models.VMRawDeviceMapping, error) {
	cluster, err := s.conn.Cluster(ctx, clusterName)
	if err != nil {
		return nil, err
	}
	var cc mo.ClusterComputeResource
	if err := s.conn.PropertiesOne(ctx, cluster.Reference(), []string{"host"}, &cc); err != nil {
		return nil, err
	}
	if len(cc.Host) == 0 {
		return nil, nil
	}

	var hosts []mo.HostSystem
	if err := s.conn.Properties(ctx, cc.Host, []string{"vm", "config.storageDevice.scsiLun"}, &hosts); err != nil {
		return nil, err
	}

	luns := make(map[string]lunInfo)
	seen := make(map[types.ManagedObjectReference]struct{})
	var vmRefs []types.ManagedObjectReference
	for _, host := range hosts {
		if host.Config != nil {
			for id, lun := range lunsOf(host.Config.StorageDevice) {
				luns[id] = lun
			}
		}
		for _, ref := range host.Vm {
			if _, ok := seen[ref]; ok {
				continue
			}
			seen[ref] = struct{}{}
			vmRefs = append(vmRefs, ref)
		}
	}
	if len(vmRefs) == 0 {
		return nil, nil
	}

	wanted := make(map[string]struct{}, len(canonicalNames))
	for _, name := range canonicalNames {
		wanted[name] = struct{}{}
	}

	var vms []mo.VirtualMachine
	if err := s.conn.Properties(ctx, vmRefs, []string{"name", "config.hardware.device"}, &vms); err != nil {
		return nil, err
	}

	var mappings []models.VMRawDeviceMapping
	for _, vm := range vms {
		if vm.Config == nil {
			continue
		}
		for _, device := range vm.Config.Hardware.Device {
			disk, ok := device.(*types.VirtualDisk)
			if !ok {
				continue
			}
			backing, ok := disk.Backing.(*types.VirtualDiskRawDiskMappingVer1BackingInfo)
			if !ok {
				continue
			}
			lun := luns[backing.LunUuid]
			if len(wanted) > 0 {
				if _, ok := wanted[lun.CanonicalName]; !ok {
					continue
				}
			}
			mappings = append(mappings, models.VMRawDeviceMapping{
				VMName:            vm.Name,
				DiskName:          deviceLabel(&disk.VirtualDevice),
				CompatibilityMode: backing.CompatibilityMode,
				CanonicalName:     lun.CanonicalName,
				DeviceDisplayName: lun.DisplayName,
				Ref:               vm.Self.Value,
			})
		}
	}
	return mappings, nil
}

// DisksAndRDM reports every virtual disk of the matching VMs, with SCSI
// address, size and, for RDMs, the backing LUN's canonical name.
func (s *VMService) DisksAndRDM(ctx context.Context, filter *vmware.NameFilter, showDatastorePath bool) ([]models.VMDiskInfo, error) {
	var vms []mo.VirtualMachine
	props := []string{"name", "config.hardware.device", "runtime.host"}
	if err := s.conn.Retrieve(ctx, []string{"VirtualMachine"}, props, &vms); err != nil {
		return nil, err
	}

	// LUN tables fetched once per distinct host.
	hostLuns := make(map[types.ManagedObjectReference]map[string]lunInfo)
	lunsForHost := func(ref *types.ManagedObjectReference) (map[string]lunInfo, error) {
		if ref == nil {
			return nil, nil
		}
		if luns, ok := hostLuns[*ref]; ok {
			return luns, nil
		}
		var host mo.HostSystem
		if err := s.conn.PropertiesOne(ctx, *ref, []string{"config.storageDevice.scsiLun"}, &host); err != nil {
			return nil, err
		}
		var luns map[string]lunInfo
		if host.Config != nil {
			luns = lunsOf(host.Config.StorageDevice)
		}
		hostLuns[*ref] = luns
		return luns, nil
	}

	var infos []models.VMDiskInfo
	for _, vm := range vms {
		if !filter.Match(vm.Name, vm.Self) || vm.Config == nil {
			continue
		}

		controllers := scsiControllers(vm.Config.Hardware.Device)

		for _, device := range vm.Config.Hardware.Device {
			disk, ok := device.(*types.VirtualDisk)
			if !ok {
				continue
			}

			info := models.VMDiskInfo{
				VMName:      vm.Name,
				DiskName:    deviceLabel(&disk.VirtualDevice),
				SCSIAddress: scsiAddress(controllers, disk),
				SizeGB:      util.KiBToGB(disk.CapacityInKB),
			}

			if backing, ok := disk.Backing.(*types.VirtualDiskRawDiskMappingVer1BackingInfo); ok {
				luns, err := lunsForHost(vm.Runtime.Host)
				if err != nil {
					return nil, err
				}
				lun := luns[backing.LunUuid]
				info.CanonicalName = lun.CanonicalName
				info.DeviceDisplayName = lun.DisplayName
				if showDatastorePath {
					info.DatastorePath = backing.FileName
				}
			} else if backing, ok := disk.Backing.(types.BaseVirtualDeviceFileBackingInfo); ok && showDatastorePath {
				info.DatastorePath = backing.GetVirtualDeviceFileBackingInfo().FileName
			}

			infos = append(infos, info)
		}
	}
	return infos, nil
}

func deviceLabel(device *types.VirtualDevice) string {
	if device.DeviceInfo == nil {
		return ""
	}
	return device.DeviceInfo.GetDescription().Label
}

// scsiControllers maps controller device keys to bus numbers.
func scsiControllers(devices []types.BaseVirtualDevice) map[int32]int32 {
	buses := make(map[int32]int32)
	for _, device := range devices {
		if ctrl, ok := device.(types.BaseVirtualSCSIController); ok {
			c := ctrl.GetVirtualSCSIController()
			buses[c.Key] = c.BusNumber
		}
	}
	return buses
}

func scsiAddress(buses map[int32]int32, disk *types.VirtualDisk) string {
	bus, ok := buses[disk.ControllerKey]
	if !ok || disk.UnitNumber == nil {
		return ""
	}
	return fmt.Sprintf("%d:%d", bus, *disk.UnitNumber)
}
