package vmware

import (
	"context"

	"github.com/vmware/govmomi/view"
)

// Retrieve collects the given property paths for every object of the listed
// kinds under the root folder, using a transient container view. Only the
// requested properties travel over the wire.
func (c *Connection) Retrieve(ctx context.Context, kinds []string, props []string, dst any) error {
	m := view.NewManager(c.client.Client)

	v, err := m.CreateContainerView(ctx, c.client.ServiceContent.RootFolder, kinds, true)
	if err != nil {
		return err
	}
	defer func() {
		_ = v.Destroy(ctx)
	}()

	return v.Retrieve(ctx, kinds, props, dst)
}
