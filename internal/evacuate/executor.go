package evacuate

import (
	"context"
	"errors"
	"fmt"

	"github.com/vmware/govmomi/vim25/types"
	"go.uber.org/zap"

	"github.com/vctools/vcadm/internal/models"
	vcerrors "github.com/vctools/vcadm/pkg/errors"
	"github.com/vctools/vcadm/pkg/vmware"
)

// Options control how plans are applied.
type Options struct {
	// DryRun reports intended moves without mutating anything.
	DryRun bool
	// RunAsync submits machine relocations without waiting and returns task
	// handles. Template relocations are always synchronous.
	RunAsync bool
}

// Executor applies relocation plans one object at a time. A failure is
// attributed to its object and never aborts the remaining plans.
type Executor struct {
	operator vmware.VMOperator
	source   string
}

// NewExecutor creates an executor for plans computed against the named
// source datastore.
func NewExecutor(operator vmware.VMOperator, source string) *Executor {
	return &Executor{operator: operator, source: source}
}

// Run applies every plan in order. The returned results carry one record per
// plan in the same shape for dry and real runs; handles holds the tasks
// still running when RunAsync is set.
func (e *Executor) Run(ctx context.Context, plans []models.RelocationPlan, opts Options) ([]models.RelocationResult, []vmware.Task) {
	log := zap.S().Named("evacuator")

	var results []models.RelocationResult
	var handles []vmware.Task
	for _, plan := range plans {
		res := describe(plan, e.source)
		res.DryRun = opts.DryRun

		if opts.DryRun {
			log.Infow("dry run, no mutation", "object", plan.Candidate.Name)
			results = append(results, res)
			continue
		}

		if plan.Candidate.Template {
			if err := e.relocateTemplate(ctx, plan); err != nil {
				res.Error = err.Error()
			}
		} else {
			handle, err := e.relocateMachine(ctx, plan, opts.RunAsync)
			if err != nil {
				res.Error = err.Error()
			} else if handle != nil {
				res.Async = true
				handles = append(handles, handle)
			}
		}

		if res.Error != "" {
			log.Errorw("relocation failed", "object", plan.Candidate.Name, "error", res.Error)
		} else {
			log.Infow("relocation dispatched", "object", plan.Candidate.Name, "async", res.Async)
		}
		results = append(results, res)
	}
	return results, handles
}

func relocateSpec(plan models.RelocationPlan) types.VirtualMachineRelocateSpec {
	var spec types.VirtualMachineRelocateSpec
	if plan.ConfigTarget != nil {
		ref := plan.ConfigTarget.Ref
		spec.Datastore = &ref
	}
	for _, move := range plan.DiskMoves {
		if move.Target == nil {
			continue
		}
		spec.Disk = append(spec.Disk, types.VirtualMachineRelocateSpecDiskLocator{
			DiskId:    move.Key,
			Datastore: move.Target.Ref,
		})
	}
	return spec
}

// relocateTemplate drives the template through its two-phase transition:
// convert to a machine on its current host, relocate synchronously, convert
// back. Reconversion is deferred so it runs even when relocation fails.
func (e *Executor) relocateTemplate(ctx context.Context, plan models.RelocationPlan) (err error) {
	cand := plan.Candidate
	if cand.Host.Value == "" {
		return vcerrors.NewRemoteOperationError("relocate template", cand.Name,
			errors.New("template has no registered host"))
	}

	if mErr := e.operator.MarkAsVirtualMachine(ctx, cand.Ref, cand.Host); mErr != nil {
		return vcerrors.NewRemoteOperationError("convert template to machine", cand.Name, mErr)
	}
	defer func() {
		if mErr := e.operator.MarkAsTemplate(ctx, cand.Ref); mErr != nil {
			err = errors.Join(err,
				vcerrors.NewRemoteOperationError("convert machine back to template", cand.Name, mErr))
		}
	}()

	task, rErr := e.operator.RelocateVM(ctx, cand.Ref, cand.Name, relocateSpec(plan))
	if rErr != nil {
		return vcerrors.NewRemoteOperationError("relocate template", cand.Name, rErr)
	}
	if wErr := task.Wait(ctx); wErr != nil {
		return vcerrors.NewRemoteOperationError("relocate template", cand.Name, wErr)
	}
	return nil
}

// relocateMachine submits the relocation. A non-nil task in the return means
// the caller owns completion tracking (async mode).
func (e *Executor) relocateMachine(ctx context.Context, plan models.RelocationPlan, async bool) (vmware.Task, error) {
	cand := plan.Candidate

	task, err := e.operator.RelocateVM(ctx, cand.Ref, cand.Name, relocateSpec(plan))
	if err != nil {
		return nil, vcerrors.NewRemoteOperationError("relocate", cand.Name, err)
	}
	if async {
		return task, nil
	}
	if err := task.Wait(ctx); err != nil {
		return nil, vcerrors.NewRemoteOperationError("relocate", cand.Name, err)
	}
	return nil, nil
}

// describe renders the plan into its report record.
func describe(plan models.RelocationPlan, source string) models.RelocationResult {
	res := models.RelocationResult{
		Object:   plan.Candidate.Name,
		Template: plan.Candidate.Template,
		Source:   source,
	}
	if plan.ConfigTarget != nil {
		res.ConfigTarget = plan.ConfigTarget.Name
	}
	for _, move := range plan.DiskMoves {
		if move.Target != nil {
			res.DiskTargets = append(res.DiskTargets,
				fmt.Sprintf("disk %d: %s -> %s", move.Key, move.From, move.Target.Name))
		} else {
			res.DiskTargets = append(res.DiskTargets,
				fmt.Sprintf("disk %d: %s (unchanged)", move.Key, move.From))
		}
	}
	return res
}
