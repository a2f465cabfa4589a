package vmware

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/find"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/property"
	"github.com/vmware/govmomi/vim25/soap"
	"github.com/vmware/govmomi/vim25/types"
	"go.uber.org/zap"

	vcerrors "github.com/vctools/vcadm/pkg/errors"
)

// Credential holds the login for one or more vCenter endpoints.
type Credential struct {
	Username string
	Password string
}

// Connection is an authenticated session against a single vCenter or ESXi
// endpoint.
type Connection struct {
	Server string

	client *govmomi.Client
	pc     *property.Collector
}

// Connect dials a single endpoint and logs in.
func Connect(ctx context.Context, server string, cred Credential, insecure bool) (*Connection, error) {
	u, err := soap.ParseURL(server)
	if err != nil {
		return nil, fmt.Errorf("invalid server %q: %w", server, err)
	}
	u.User = url.UserPassword(cred.Username, cred.Password)

	client, err := govmomi.NewClient(ctx, u, insecure)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", server, err)
	}

	zap.S().Named("session").Infow("connected", "server", u.Host)

	return &Connection{
		Server: u.Host,
		client: client,
		pc:     property.DefaultCollector(client.Client),
	}, nil
}

// Client exposes the underlying govmomi client.
func (c *Connection) Client() *govmomi.Client {
	return c.client
}

// Collector exposes the default property collector of this session.
func (c *Connection) Collector() *property.Collector {
	return c.pc
}

// Logout terminates the remote session.
func (c *Connection) Logout(ctx context.Context) error {
	return c.client.Logout(ctx)
}

// Properties retrieves the given property paths for a set of object
// references into dst.
func (c *Connection) Properties(ctx context.Context, refs []types.ManagedObjectReference, props []string, dst any) error {
	return c.pc.Retrieve(ctx, refs, props, dst)
}

// PropertiesOne retrieves the given property paths for a single object.
func (c *Connection) PropertiesOne(ctx context.Context, ref types.ManagedObjectReference, props []string, dst any) error {
	return c.pc.RetrieveOne(ctx, ref, props, dst)
}

func (c *Connection) finder() *find.Finder {
	return find.NewFinder(c.client.Client, true)
}

// eachDatacenter runs fn once per datacenter with a finder scoped to it.
func (c *Connection) eachDatacenter(ctx context.Context, fn func(f *find.Finder) error) error {
	f := c.finder()
	dcs, err := f.DatacenterList(ctx, "*")
	if err != nil {
		return err
	}
	for _, dc := range dcs {
		f.SetDatacenter(dc)
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func ignoreNotFound(err error) error {
	var nfe *find.NotFoundError
	if errors.As(err, &nfe) {
		return nil
	}
	return err
}

// Datastore resolves a datastore name to exactly one object across all
// datacenters. Zero or multiple matches fail with a ResolutionError.
func (c *Connection) Datastore(ctx context.Context, name string) (*object.Datastore, error) {
	var matches []*object.Datastore
	err := c.eachDatacenter(ctx, func(f *find.Finder) error {
		list, err := f.DatastoreList(ctx, name)
		if err := ignoreNotFound(err); err != nil {
			return err
		}
		matches = append(matches, list...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(matches) != 1 {
		return nil, vcerrors.NewResolutionError("datastore", name, len(matches))
	}
	return matches[0], nil
}

// DatastoreCluster resolves a datastore cluster (StoragePod) name to exactly
// one object across all datacenters.
func (c *Connection) DatastoreCluster(ctx context.Context, name string) (*object.StoragePod, error) {
	var matches []*object.StoragePod
	err := c.eachDatacenter(ctx, func(f *find.Finder) error {
		list, err := f.DatastoreClusterList(ctx, name)
		if err := ignoreNotFound(err); err != nil {
			return err
		}
		matches = append(matches, list...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(matches) != 1 {
		return nil, vcerrors.NewResolutionError("datastore cluster", name, len(matches))
	}
	return matches[0], nil
}

// Cluster resolves a compute cluster name to exactly one object.
func (c *Connection) Cluster(ctx context.Context, name string) (*object.ClusterComputeResource, error) {
	var matches []*object.ClusterComputeResource
	err := c.eachDatacenter(ctx, func(f *find.Finder) error {
		list, err := f.ClusterComputeResourceList(ctx, name)
		if err := ignoreNotFound(err); err != nil {
			return err
		}
		matches = append(matches, list...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(matches) != 1 {
		return nil, vcerrors.NewResolutionError("cluster", name, len(matches))
	}
	return matches[0], nil
}

// VirtualMachine resolves a VM or template name to exactly one object.
func (c *Connection) VirtualMachine(ctx context.Context, name string) (*object.VirtualMachine, error) {
	var matches []*object.VirtualMachine
	err := c.eachDatacenter(ctx, func(f *find.Finder) error {
		list, err := f.VirtualMachineList(ctx, name)
		if err := ignoreNotFound(err); err != nil {
			return err
		}
		matches = append(matches, list...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(matches) != 1 {
		return nil, vcerrors.NewResolutionError("virtual machine", name, len(matches))
	}
	return matches[0], nil
}

// Registry keeps the set of open connections, keyed by server host name.
type Registry struct {
	mu    sync.Mutex
	conns map[string]*Connection
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*Connection)}
}

// Connect dials every listed server with the same credential and registers
// the resulting connections. Already-registered servers are reused.
func (r *Registry) Connect(ctx context.Context, servers []string, cred Credential, insecure bool) ([]*Connection, error) {
	conns := make([]*Connection, 0, len(servers))
	for _, server := range servers {
		u, err := soap.ParseURL(server)
		if err != nil {
			return nil, fmt.Errorf("invalid server %q: %w", server, err)
		}

		r.mu.Lock()
		conn, ok := r.conns[u.Host]
		r.mu.Unlock()
		if ok {
			conns = append(conns, conn)
			continue
		}

		conn, err = Connect(ctx, server, cred, insecure)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.conns[conn.Server] = conn
		r.mu.Unlock()
		conns = append(conns, conn)
	}
	return conns, nil
}

// Get returns the registered connection for a server host name.
func (r *Registry) Get(server string) (*Connection, error) {
	u, err := soap.ParseURL(server)
	if err != nil {
		return nil, fmt.Errorf("invalid server %q: %w", server, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.conns[u.Host]
	if !ok {
		return nil, vcerrors.NewResolutionError("connection", u.Host, 0)
	}
	return conn, nil
}

// Disconnect logs out the listed servers, or every registered connection when
// no server is given. Servers are parsed like Connect does, so URL-form and
// host-form arguments address the same entry.
func (r *Registry) Disconnect(ctx context.Context, servers ...string) error {
	var errs []error

	r.mu.Lock()
	targets := make([]*Connection, 0, len(r.conns))
	if len(servers) == 0 {
		for _, conn := range r.conns {
			targets = append(targets, conn)
		}
		r.conns = make(map[string]*Connection)
	} else {
		for _, server := range servers {
			u, err := soap.ParseURL(server)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid server %q: %w", server, err))
				continue
			}
			if conn, ok := r.conns[u.Host]; ok {
				targets = append(targets, conn)
				delete(r.conns, u.Host)
			}
		}
	}
	r.mu.Unlock()

	for _, conn := range targets {
		if err := conn.Logout(ctx); err != nil {
			errs = append(errs, fmt.Errorf("logout %s: %w", conn.Server, err))
			continue
		}
		zap.S().Named("session").Infow("disconnected", "server", conn.Server)
	}
	return errors.Join(errs...)
}
