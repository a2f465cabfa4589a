package vmware

import (
	"context"

	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/types"
)

// Task is a handle to a submitted vCenter task.
type Task interface {
	// Wait blocks until the task reaches a terminal state.
	Wait(ctx context.Context) error
	// Reference returns the task's managed object reference.
	Reference() types.ManagedObjectReference
	// Object returns the name of the inventory object the task operates on.
	Object() string
}

// VMOperator is the mutation surface the evacuation executor and the
// template mover are written against.
type VMOperator interface {
	// RelocateVM submits a relocation task for the VM and returns its handle.
	RelocateVM(ctx context.Context, ref types.ManagedObjectReference, name string, spec types.VirtualMachineRelocateSpec) (Task, error)
	// MarkAsVirtualMachine converts a template into a registered machine on
	// the given host.
	MarkAsVirtualMachine(ctx context.Context, ref, host types.ManagedObjectReference) error
	// MarkAsTemplate converts a registered machine back into a template.
	MarkAsTemplate(ctx context.Context, ref types.ManagedObjectReference) error
}

// Manager implements VMOperator on a live connection.
type Manager struct {
	conn *Connection
}

// NewManager creates a VMOperator bound to conn.
func NewManager(conn *Connection) *Manager {
	return &Manager{conn: conn}
}

// vmFromRef constructs a VirtualMachine object without validating that it
// still exists in the inventory.
func (m *Manager) vmFromRef(ref types.ManagedObjectReference) *object.VirtualMachine {
	return object.NewVirtualMachine(m.conn.client.Client, ref)
}

func (m *Manager) RelocateVM(ctx context.Context, ref types.ManagedObjectReference, name string, spec types.VirtualMachineRelocateSpec) (Task, error) {
	task, err := m.vmFromRef(ref).Relocate(ctx, spec, types.VirtualMachineMovePriorityDefaultPriority)
	if err != nil {
		return nil, err
	}
	return NewTaskHandle(m.conn.pc, task, name), nil
}

func (m *Manager) MarkAsVirtualMachine(ctx context.Context, ref, host types.ManagedObjectReference) error {
	hostSystem := object.NewHostSystem(m.conn.client.Client, host)
	pool, err := hostSystem.ResourcePool(ctx)
	if err != nil {
		return err
	}
	return m.vmFromRef(ref).MarkAsVirtualMachine(ctx, *pool, hostSystem)
}

func (m *Manager) MarkAsTemplate(ctx context.Context, ref types.ManagedObjectReference) error {
	return m.vmFromRef(ref).MarkAsTemplate(ctx)
}
