package evacuate

import (
	"context"

	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
	"go.uber.org/zap"

	"github.com/vctools/vcadm/internal/models"
	"github.com/vctools/vcadm/pkg/vmware"
)

var candidateProps = []string{
	"name",
	"config.template",
	"config.files.vmPathName",
	"config.hardware.device",
	"runtime.host",
}

// Discover resolves the source datastore and returns a Candidate for every
// VM and template currently referencing it. Candidates keep the platform's
// enumeration order.
func Discover(ctx context.Context, conn *vmware.Connection, sourceLocation string) (models.Target, []models.Candidate, error) {
	ds, err := conn.Datastore(ctx, sourceLocation)
	if err != nil {
		return models.Target{}, nil, err
	}
	source := models.Target{Name: ds.Name(), Ref: ds.Reference()}
	sourceRef := source.Ref
	sourceName := source.Name

	var store mo.Datastore
	if err := conn.PropertiesOne(ctx, sourceRef, []string{"vm"}, &store); err != nil {
		return source, nil, err
	}
	if len(store.Vm) == 0 {
		return source, nil, nil
	}

	var vms []mo.VirtualMachine
	if err := conn.Properties(ctx, store.Vm, candidateProps, &vms); err != nil {
		return source, nil, err
	}

	candidates := make([]models.Candidate, 0, len(vms))
	for _, vm := range vms {
		if vm.Config == nil {
			zap.S().Named("evacuate").Warnw("skipping VM without config", "ref", vm.Self.Value)
			continue
		}

		cand := models.Candidate{
			Ref:             vm.Self,
			Name:            vm.Name,
			Template:        vm.Config.Template,
			ConfigDatastore: datastoreOfPath(vm.Config.Files.VmPathName),
		}
		if vm.Runtime.Host != nil {
			cand.Host = *vm.Runtime.Host
		}

		for _, device := range vm.Config.Hardware.Device {
			disk, ok := device.(*types.VirtualDisk)
			if !ok {
				continue
			}
			location := models.DiskLocation{Key: disk.Key}
			if backing, ok := disk.Backing.(types.BaseVirtualDeviceFileBackingInfo); ok {
				info := backing.GetVirtualDeviceFileBackingInfo()
				if info.Datastore != nil && *info.Datastore == sourceRef {
					location.Datastore = sourceName
				} else {
					location.Datastore = datastoreOfPath(info.FileName)
				}
			}
			cand.Disks = append(cand.Disks, location)
		}

		candidates = append(candidates, cand)
	}

	return source, candidates, nil
}

// datastoreOfPath extracts the datastore name from a "[ds] path/file" style
// datastore path.
func datastoreOfPath(path string) string {
	var p object.DatastorePath
	if !p.FromString(path) {
		return ""
	}
	return p.Datastore
}
