package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/vctools/vcadm/internal/models"
	vcerrors "github.com/vctools/vcadm/pkg/errors"
	"github.com/vctools/vcadm/pkg/vmware"
)

// RoleService copies authorization roles between two explicit connections.
type RoleService struct {
	source      *vmware.Connection
	destination *vmware.Connection
}

func NewRoleService(source, destination *vmware.Connection) *RoleService {
	return &RoleService{source: source, destination: destination}
}

// Copy reads the named role on the source connection and recreates it with
// all its privileges under the destination name. Both preconditions (source
// role present, destination name unused) are checked before any mutation.
func (s *RoleService) Copy(ctx context.Context, sourceRole, destinationRole string) (*models.RoleInfo, error) {
	role, err := s.source.RoleByName(ctx, sourceRole)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, vcerrors.NewResolutionError("role", sourceRole, 0)
	}

	existing, err := s.destination.RoleByName(ctx, destinationRole)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, vcerrors.NewPreconditionError("role %q already exists on %s",
			destinationRole, s.destination.Server)
	}

	id, err := s.destination.AddRole(ctx, destinationRole, role.Privilege)
	if err != nil {
		return nil, vcerrors.NewRemoteOperationError("create role", destinationRole, err)
	}

	zap.S().Named("roles").Infow("role copied",
		"source", sourceRole,
		"destination", destinationRole,
		"privileges", len(role.Privilege),
		"server", s.destination.Server,
	)

	return &models.RoleInfo{
		Name:       destinationRole,
		ID:         id,
		Privileges: role.Privilege,
		Server:     s.destination.Server,
	}, nil
}
