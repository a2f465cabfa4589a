package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/vctools/vcadm/internal/models"
	"github.com/vctools/vcadm/internal/util"
	"github.com/vctools/vcadm/pkg/vmware"
)

// HostService answers host-centric queries.
type HostService struct {
	conn *vmware.Connection
}

func NewHostService(conn *vmware.Connection) *HostService {
	return &HostService{conn: conn}
}

// hostsByFilter retrieves the given properties for every host whose name
// passes the filter. An optional cluster name restricts the scope to that
// cluster's members.
func (s *HostService) hostsByFilter(ctx context.Context, filter *vmware.NameFilter, clusterName string, props []string) ([]mo.HostSystem, error) {
	props = append([]string{"name"}, props...)

	var hosts []mo.HostSystem
	if clusterName != "" {
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
		if err := s.conn.Properties(ctx, cc.Host, props, &hosts); err != nil {
			return nil, err
		}
	} else if err := s.conn.Retrieve(ctx, []string{"HostSystem"}, props, &hosts); err != nil {
		return nil, err
	}

	matched := hosts[:0]
	for _, host := range hosts {
		if filter.Match(host.Name, host.Self) {
			matched = append(matched, host)
		}
	}
	return matched, nil
}

// HBAWWN reports the world wide names of every fibre-channel host bus
// adapter on the matching hosts.
func (s *HostService) HBAWWN(ctx context.Context, filter *vmware.NameFilter, clusterName string) ([]models.HostHBAInfo, error) {
	hosts, err := s.hostsByFilter(ctx, filter, clusterName, []string{"config.storageDevice.hostBusAdapter"})
	if err != nil {
		return nil, err
	}

	var infos []models.HostHBAInfo
	for _, host := range hosts {
		if host.Config == nil || host.Config.StorageDevice == nil {
			continue
		}
		for _, adapter := range host.Config.StorageDevice.HostBusAdapter {
			fc, ok := adapter.(*types.HostFibreChannelHba)
			if !ok {
				continue
			}
			infos = append(infos, models.HostHBAInfo{
				Host:       host.Name,
				DeviceName: fc.Device,
				PortWWN:    util.FormatWWN(fc.PortWorldWideName),
				NodeWWN:    util.FormatWWN(fc.NodeWorldWideName),
				Status:     fc.Status,
			})
		}
	}
	return infos, nil
}

var firmwareProps = []string{
	"hardware.biosInfo",
	"summary.hardware",
	"runtime.healthSystemRuntime.systemHealthInfo.numericSensorInfo",
}

// Firmware reports BIOS, Smart Array and iLO firmware of the matching hosts,
// read from the BIOS info and the health-system sensors.
func (s *HostService) Firmware(ctx context.Context, filter *vmware.NameFilter) ([]models.HostFirmwareInfo, error) {
	hosts, err := s.hostsByFilter(ctx, filter, "", firmwareProps)
	if err != nil {
		return nil, err
	}

	var infos []models.HostFirmwareInfo
	for _, host := range hosts {
		info := models.HostFirmwareInfo{Host: host.Name}
		if host.Hardware != nil && host.Hardware.BiosInfo != nil {
			info.SystemBIOS = host.Hardware.BiosInfo.BiosVersion
		}
		if host.Summary.Hardware != nil {
			info.Model = host.Summary.Hardware.Model
		}
		for _, sensor := range sensorsOf(&host) {
			switch {
			case strings.Contains(sensor.Name, "Smart Array"):
				info.SmartArrayFirmware = sensor.Name
			case strings.Contains(sensor.Name, "iLO"), strings.Contains(sensor.Name, "BMC Firmware"):
				info.ILOFirmware = sensor.Name
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// NICFirmwareDriver reports the NIC driver versions (from the physical NIC
// config) and NIC firmware versions (from the health-system sensors) of the
// matching hosts.
func (s *HostService) NICFirmwareDriver(ctx context.Context, filter *vmware.NameFilter) ([]models.HostNICFirmwareInfo, error) {
	props := []string{"config.network.pnic",
		"runtime.healthSystemRuntime.systemHealthInfo.numericSensorInfo"}
	hosts, err := s.hostsByFilter(ctx, filter, "", props)
	if err != nil {
		return nil, err
	}

	var infos []models.HostNICFirmwareInfo
	for _, host := range hosts {
		info := models.HostNICFirmwareInfo{Host: host.Name}
		if host.Config != nil && host.Config.Network != nil {
			for _, pnic := range host.Config.Network.Pnic {
				if pnic.Driver == "" {
					continue
				}
				info.NICDriverVersions = append(info.NICDriverVersions,
					fmt.Sprintf("%s: %s", pnic.Device, pnic.Driver))
			}
		}
		for _, sensor := range sensorsOf(&host) {
			name := strings.ToLower(sensor.Name)
			if strings.Contains(name, "nic") && strings.Contains(name, "firmware") {
				info.NICFirmwareVersions = append(info.NICFirmwareVersions, sensor.Name)
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// LogicalVolumes reports the logical volumes the health system of each
// matching host exposes.
func (s *HostService) LogicalVolumes(ctx context.Context, filter *vmware.NameFilter) ([]models.HostLogicalVolumeInfo, error) {
	hosts, err := s.hostsByFilter(ctx, filter, "",
		[]string{"runtime.healthSystemRuntime.systemHealthInfo.numericSensorInfo"})
	if err != nil {
		return nil, err
	}

	var infos []models.HostLogicalVolumeInfo
	for _, host := range hosts {
		info := models.HostLogicalVolumeInfo{Host: host.Name}
		for _, sensor := range sensorsOf(&host) {
			if strings.Contains(sensor.Name, "Logical Volume") {
				info.LogicalVolumes = append(info.LogicalVolumes, sensor.Name)
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func sensorsOf(host *mo.HostSystem) []types.HostNumericSensorInfo {
	if host.Runtime.HealthSystemRuntime == nil || host.Runtime.HealthSystemRuntime.SystemHealthInfo == nil {
		return nil
	}
	return host.Runtime.HealthSystemRuntime.SystemHealthInfo.NumericSensorInfo
}
