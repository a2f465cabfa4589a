package services

import (
	"context"

	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/vctools/vcadm/internal/models"
	"github.com/vctools/vcadm/pkg/vmware"
)

// BrokenUplinks reports every physical NIC that backs a standard or
// distributed virtual switch but has zero or absent link speed.
func (s *HostService) BrokenUplinks(ctx context.Context, filter *vmware.NameFilter) ([]models.BrokenUplink, error) {
	var hosts []mo.HostSystem
	if err := s.conn.Retrieve(ctx, []string{"HostSystem"}, []string{"name", "config.network"}, &hosts); err != nil {
		return nil, err
	}

	var broken []models.BrokenUplink
	for _, host := range hosts {
		if !filter.Match(host.Name, host.Self) || host.Config == nil {
			continue
		}
		broken = append(broken, brokenUplinks(host.Name, host.Config.Network)...)
	}
	return broken, nil
}

// brokenUplinks filters the uplink pnics of one host's network config down
// to those reporting no link speed.
func brokenUplinks(host string, network *types.HostNetworkInfo) []models.BrokenUplink {
	if network == nil {
		return nil
	}

	nics := make(map[string]types.PhysicalNic, len(network.Pnic))
	for _, pnic := range network.Pnic {
		nics[pnic.Key] = pnic
	}

	type uplink struct {
		vswitch string
		key     string
	}
	var uplinks []uplink
	for _, vsw := range network.Vswitch {
		for _, key := range vsw.Pnic {
			uplinks = append(uplinks, uplink{vswitch: vsw.Name, key: key})
		}
	}
	for _, proxy := range network.ProxySwitch {
		for _, key := range proxy.Pnic {
			uplinks = append(uplinks, uplink{vswitch: proxy.DvsName, key: key})
		}
	}

	var broken []models.BrokenUplink
	for _, u := range uplinks {
		pnic, ok := nics[u.key]
		if !ok {
			continue
		}
		var speed int32
		if pnic.LinkSpeed != nil {
			speed = pnic.LinkSpeed.SpeedMb
		}
		if speed > 0 {
			continue
		}
		broken = append(broken, models.BrokenUplink{
			Host:          host,
			VirtualSwitch: u.vswitch,
			NIC:           pnic.Device,
			LinkSpeedMbps: speed,
		})
	}
	return broken
}
