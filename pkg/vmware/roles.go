package vmware

import (
	"context"

	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/types"
)

// RoleByName looks up an authorization role by name. A nil role means the
// name is unknown on this connection.
func (c *Connection) RoleByName(ctx context.Context, name string) (*types.AuthorizationRole, error) {
	am := object.NewAuthorizationManager(c.client.Client)
	roles, err := am.RoleList(ctx)
	if err != nil {
		return nil, err
	}
	return roles.ByName(name), nil
}

// AddRole creates a new authorization role with the given privilege ids and
// returns its id.
func (c *Connection) AddRole(ctx context.Context, name string, privileges []string) (int32, error) {
	am := object.NewAuthorizationManager(c.client.Client)
	return am.AddRole(ctx, name, privileges)
}
