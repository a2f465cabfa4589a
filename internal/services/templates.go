package services

import (
	"context"
	"errors"
	"math/rand"

	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
	"go.uber.org/zap"

	"github.com/vctools/vcadm/internal/models"
	vcerrors "github.com/vctools/vcadm/pkg/errors"
	"github.com/vctools/vcadm/pkg/vmware"
)

// TemplateService moves templates between hosts.
type TemplateService struct {
	conn     *vmware.Connection
	operator vmware.VMOperator
}

func NewTemplateService(conn *vmware.Connection) *TemplateService {
	return &TemplateService{conn: conn, operator: vmware.NewManager(conn)}
}

// MoveToHost re-registers a template onto a host of the destination cluster
// by converting it to a machine there and back. With no cluster the template
// is re-registered on its current host. Returns the template's state after
// the move.
func (s *TemplateService) MoveToHost(ctx context.Context, templateName, clusterName string) ([]models.TemplateInfo, error) {
	tmpl, err := s.conn.VirtualMachine(ctx, templateName)
	if err != nil {
		return nil, err
	}

	var vm mo.VirtualMachine
	if err := s.conn.PropertiesOne(ctx, tmpl.Reference(), []string{"name", "config.template", "runtime.host"}, &vm); err != nil {
		return nil, err
	}
	if vm.Config == nil || !vm.Config.Template {
		return nil, vcerrors.NewPreconditionError("%q is not a template", templateName)
	}

	hostRef, err := s.destinationHost(ctx, &vm, clusterName)
	if err != nil {
		return nil, err
	}

	if err := s.operator.MarkAsVirtualMachine(ctx, vm.Self, hostRef); err != nil {
		return nil, vcerrors.NewRemoteOperationError("convert template to machine", vm.Name, err)
	}
	if err := s.operator.MarkAsTemplate(ctx, vm.Self); err != nil {
		return nil, vcerrors.NewRemoteOperationError("convert machine back to template", vm.Name, err)
	}

	zap.S().Named("templates").Infow("template moved", "template", vm.Name, "host", hostRef.Value)

	var moved mo.VirtualMachine
	if err := s.conn.PropertiesOne(ctx, vm.Self, []string{"name", "runtime.host"}, &moved); err != nil {
		return nil, err
	}
	info := models.TemplateInfo{Name: moved.Name, Ref: moved.Self.Value}
	if moved.Runtime.Host != nil {
		var host mo.HostSystem
		if err := s.conn.PropertiesOne(ctx, *moved.Runtime.Host, []string{"name"}, &host); err != nil {
			return nil, err
		}
		info.Host = host.Name
	}
	return []models.TemplateInfo{info}, nil
}

func (s *TemplateService) destinationHost(ctx context.Context, vm *mo.VirtualMachine, clusterName string) (types.ManagedObjectReference, error) {
	if clusterName == "" {
		if vm.Runtime.Host == nil {
			return types.ManagedObjectReference{},
				vcerrors.NewRemoteOperationError("move template", vm.Name, errors.New("template has no registered host"))
		}
		return *vm.Runtime.Host, nil
	}

	cluster, err := s.conn.Cluster(ctx, clusterName)
	if err != nil {
		return types.ManagedObjectReference{}, err
	}
	var cc mo.ClusterComputeResource
	if err := s.conn.PropertiesOne(ctx, cluster.Reference(), []string{"host"}, &cc); err != nil {
		return types.ManagedObjectReference{}, err
	}
	if len(cc.Host) == 0 {
		return types.ManagedObjectReference{}, vcerrors.NewResolutionError("host in cluster", clusterName, 0)
	}
	return cc.Host[rand.Intn(len(cc.Host))], nil
}
