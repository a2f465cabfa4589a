package services

import (
	"context"

	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/vctools/vcadm/internal/models"
	"github.com/vctools/vcadm/pkg/vmware"
)

// NetworkService answers network-centric queries.
type NetworkService struct {
	conn *vmware.Connection
}

func NewNetworkService(conn *vmware.Connection) *NetworkService {
	return &NetworkService{conn: conn}
}

// ClusterInfo reports, per matching network, the clusters of the hosts the
// network is available on.
func (s *NetworkService) ClusterInfo(ctx context.Context, filter *vmware.NameFilter) ([]models.NetworkClusterInfo, error) {
	var nets []mo.Network
	if err := s.conn.Retrieve(ctx, []string{"Network"}, []string{"name", "host"}, &nets); err != nil {
		return nil, err
	}

	parents := newParentCache(s.conn)

	var infos []models.NetworkClusterInfo
	for _, net := range nets {
		if !filter.Match(net.Name, net.Self) {
			continue
		}

		info := models.NetworkClusterInfo{
			Name:       net.Name,
			ObjectType: net.Self.Type,
			Ref:        net.Self.Value,
		}

		seen := make(map[string]struct{})
		for _, hostRef := range net.Host {
			cluster, err := parents.clusterOfHost(ctx, hostRef)
			if err != nil {
				return nil, err
			}
			if cluster == nil {
				continue
			}
			if _, ok := seen[cluster.Ref]; ok {
				continue
			}
			seen[cluster.Ref] = struct{}{}
			info.ClusterNames = append(info.ClusterNames, cluster.Name)
			info.ClusterIDs = append(info.ClusterIDs, cluster.Ref)
		}

		infos = append(infos, info)
	}
	return infos, nil
}

// VMsByNetwork reports every VM attached to a matching network, with its
// host, cluster and power state.
func (s *NetworkService) VMsByNetwork(ctx context.Context, filter *vmware.NameFilter) ([]models.VMNetworkInfo, error) {
	var nets []mo.Network
	if err := s.conn.Retrieve(ctx, []string{"Network"}, []string{"name", "vm"}, &nets); err != nil {
		return nil, err
	}

	parents := newParentCache(s.conn)

	var infos []models.VMNetworkInfo
	for _, net := range nets {
		if !filter.Match(net.Name, net.Self) || len(net.Vm) == 0 {
			continue
		}

		var vms []mo.VirtualMachine
		if err := s.conn.Properties(ctx, net.Vm, []string{"name", "runtime.host", "runtime.powerState"}, &vms); err != nil {
			return nil, err
		}

		for _, vm := range vms {
			info := models.VMNetworkInfo{
				VMName:     vm.Name,
				Network:    net.Name,
				PowerState: string(vm.Runtime.PowerState),
				Ref:        vm.Self.Value,
			}
			if vm.Runtime.Host != nil {
				host, cluster, err := parents.hostAndCluster(ctx, *vm.Runtime.Host)
				if err != nil {
					return nil, err
				}
				info.Host = host
				if cluster != nil {
					info.Cluster = cluster.Name
				}
			}
			infos = append(infos, info)
		}
	}
	return infos, nil
}

type clusterRef struct {
	Name string
	Ref  string
}

// parentCache memoizes host names and their parent compute resource, so
// per-network iteration does not refetch shared hosts.
type parentCache struct {
	conn     *vmware.Connection
	hosts    map[types.ManagedObjectReference]mo.HostSystem
	clusters map[types.ManagedObjectReference]clusterRef
}

func newParentCache(conn *vmware.Connection) *parentCache {
	return &parentCache{
		conn:     conn,
		hosts:    make(map[types.ManagedObjectReference]mo.HostSystem),
		clusters: make(map[types.ManagedObjectReference]clusterRef),
	}
}

func (c *parentCache) host(ctx context.Context, ref types.ManagedObjectReference) (mo.HostSystem, error) {
	if host, ok := c.hosts[ref]; ok {
		return host, nil
	}
	var host mo.HostSystem
	if err := c.conn.PropertiesOne(ctx, ref, []string{"name", "parent"}, &host); err != nil {
		return mo.HostSystem{}, err
	}
	c.hosts[ref] = host
	return host, nil
}

func (c *parentCache) clusterOfHost(ctx context.Context, ref types.ManagedObjectReference) (*clusterRef, error) {
	host, err := c.host(ctx, ref)
	if err != nil {
		return nil, err
	}
	if host.Parent == nil {
		return nil, nil
	}
	if cluster, ok := c.clusters[*host.Parent]; ok {
		return &cluster, nil
	}
	var parent mo.ManagedEntity
	if err := c.conn.PropertiesOne(ctx, *host.Parent, []string{"name"}, &parent); err != nil {
		return nil, err
	}
	cluster := clusterRef{Name: parent.Name, Ref: parent.Self.Value}
	c.clusters[*host.Parent] = cluster
	return &cluster, nil
}

func (c *parentCache) hostAndCluster(ctx context.Context, ref types.ManagedObjectReference) (string, *clusterRef, error) {
	host, err := c.host(ctx, ref)
	if err != nil {
		return "", nil, err
	}
	cluster, err := c.clusterOfHost(ctx, ref)
	if err != nil {
		return "", nil, err
	}
	return host.Name, cluster, nil
}
