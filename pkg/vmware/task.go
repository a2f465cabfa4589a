package vmware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/property"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

// TaskHandle references a task submitted to vCenter. The asynchronous
// evacuation mode hands these back to the caller instead of waiting.
type TaskHandle struct {
	pc     *property.Collector
	ref    types.ManagedObjectReference
	object string
}

// NewTaskHandle wraps a submitted task. objectName is the inventory object
// the task operates on, kept for failure attribution.
func NewTaskHandle(pc *property.Collector, task *object.Task, objectName string) *TaskHandle {
	return &TaskHandle{pc: pc, ref: task.Reference(), object: objectName}
}

// Reference returns the managed object reference of the task.
func (h *TaskHandle) Reference() types.ManagedObjectReference {
	return h.ref
}

// Object returns the name of the inventory object the task operates on.
func (h *TaskHandle) Object() string {
	return h.object
}

// Wait blocks until the task reaches a terminal state, polling the task info
// through the property collector with exponential backoff. Backoff paces the
// status reads only; a failed task is final and is never resubmitted.
func (h *TaskHandle) Wait(ctx context.Context) error {
	poll := func() (types.TaskInfoState, error) {
		var task mo.Task
		if err := h.pc.RetrieveOne(ctx, h.ref, []string{"info"}, &task); err != nil {
			return "", backoff.Permanent(err)
		}
		switch task.Info.State {
		case types.TaskInfoStateSuccess:
			return task.Info.State, nil
		case types.TaskInfoStateError:
			if task.Info.Error != nil {
				return "", backoff.Permanent(errors.New(task.Info.Error.LocalizedMessage))
			}
			return "", backoff.Permanent(errors.New("task failed"))
		default:
			return "", fmt.Errorf("task %s is %s", h.ref.Value, task.Info.State)
		}
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	_, err := backoff.Retry(ctx, poll, backoff.WithBackOff(bo))
	return err
}
