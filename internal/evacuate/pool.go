package evacuate

import (
	"context"

	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/vctools/vcadm/internal/models"
	vcerrors "github.com/vctools/vcadm/pkg/errors"
	"github.com/vctools/vcadm/pkg/vmware"
)

// ResolvePool resolves the destination specification to one or more concrete
// datastores. A plain datastore name yields a single-member pool; a
// datastore cluster name yields every member datastore. Zero members is a
// fatal ResolutionError.
func ResolvePool(ctx context.Context, conn *vmware.Connection, destination string) ([]models.Target, error) {
	ds, err := conn.Datastore(ctx, destination)
	if err == nil {
		return []models.Target{{Name: ds.Name(), Ref: ds.Reference()}}, nil
	}
	if !vcerrors.IsResolutionError(err) {
		return nil, err
	}

	pod, podErr := conn.DatastoreCluster(ctx, destination)
	if podErr != nil {
		if vcerrors.IsResolutionError(podErr) {
			// Neither a datastore nor a datastore cluster.
			return nil, vcerrors.NewResolutionError("destination", destination, 0)
		}
		return nil, podErr
	}

	var content mo.StoragePod
	if err := conn.PropertiesOne(ctx, pod.Reference(), []string{"childEntity"}, &content); err != nil {
		return nil, err
	}

	var children []types.ManagedObjectReference
	for _, ref := range content.ChildEntity {
		if ref.Type == "Datastore" {
			children = append(children, ref)
		}
	}
	if len(children) == 0 {
		return nil, vcerrors.NewResolutionError("destination pool", destination, 0)
	}

	var stores []mo.Datastore
	if err := conn.Properties(ctx, children, []string{"name"}, &stores); err != nil {
		return nil, err
	}

	pool := make([]models.Target, 0, len(stores))
	for _, store := range stores {
		pool = append(pool, models.Target{Name: store.Name, Ref: store.Self})
	}
	return pool, nil
}
