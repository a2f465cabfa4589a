package evacuate_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/vctools/vcadm/internal/evacuate"
	"github.com/vctools/vcadm/internal/models"
	"github.com/vctools/vcadm/pkg/vmware"
)

type fakeTask struct {
	ref     types.ManagedObjectReference
	object  string
	waitErr error
	waited  bool
}

func (t *fakeTask) Wait(ctx context.Context) error {
	t.waited = true
	return t.waitErr
}

func (t *fakeTask) Reference() types.ManagedObjectReference { return t.ref }
func (t *fakeTask) Object() string                          { return t.object }

// fakeOperator records every call and fails on demand per object name.
type fakeOperator struct {
	relocated   []string
	converted   []string
	reconverted []string
	relocateErr map[string]error
	waitErr     map[string]error
	convertErr  map[string]error
	specs       map[string]types.VirtualMachineRelocateSpec
	tasks       []*fakeTask
}

func newFakeOperator() *fakeOperator {
	return &fakeOperator{
		relocateErr: make(map[string]error),
		waitErr:     make(map[string]error),
		convertErr:  make(map[string]error),
		specs:       make(map[string]types.VirtualMachineRelocateSpec),
	}
}

func (f *fakeOperator) RelocateVM(ctx context.Context, ref types.ManagedObjectReference, name string, spec types.VirtualMachineRelocateSpec) (vmware.Task, error) {
	if err := f.relocateErr[name]; err != nil {
		return nil, err
	}
	f.relocated = append(f.relocated, name)
	f.specs[name] = spec
	task := &fakeTask{
		ref:     types.ManagedObjectReference{Type: "Task", Value: "task-" + name},
		object:  name,
		waitErr: f.waitErr[name],
	}
	f.tasks = append(f.tasks, task)
	return task, nil
}

func (f *fakeOperator) MarkAsVirtualMachine(ctx context.Context, ref, host types.ManagedObjectReference) error {
	if err := f.convertErr[ref.Value]; err != nil {
		return err
	}
	f.converted = append(f.converted, ref.Value)
	return nil
}

func (f *fakeOperator) MarkAsTemplate(ctx context.Context, ref types.ManagedObjectReference) error {
	f.reconverted = append(f.reconverted, ref.Value)
	return nil
}

func machinePlan(name string, pool models.Target) models.RelocationPlan {
	return models.RelocationPlan{
		Candidate: models.Candidate{
			Ref:             vmRef(name),
			Name:            name,
			ConfigDatastore: "ds1",
			Disks:           []models.DiskLocation{{Key: 2000, Datastore: "ds1"}},
		},
		ConfigTarget: &pool,
		DiskMoves:    []models.DiskMove{{Key: 2000, From: "ds1", Target: &pool}},
	}
}

func templatePlan(name string, pool models.Target) models.RelocationPlan {
	plan := machinePlan(name, pool)
	plan.Candidate.Template = true
	plan.Candidate.Host = types.ManagedObjectReference{Type: "HostSystem", Value: "host-1"}
	return plan
}

var _ = Describe("Executor", func() {
	var (
		ctx      context.Context
		operator *fakeOperator
		target   models.Target
		exec     *evacuate.Executor
	)

	BeforeEach(func() {
		ctx = context.Background()
		operator = newFakeOperator()
		target = models.Target{Name: "ds2", Ref: dsRef("ds2")}
		exec = evacuate.NewExecutor(operator, "ds1")
	})

	Describe("dry runs", func() {
		It("should not mutate and still produce full records", func() {
			plans := []models.RelocationPlan{machinePlan("vmA", target)}

			results, handles := exec.Run(ctx, plans, evacuate.Options{DryRun: true})
			Expect(handles).To(BeEmpty())
			Expect(operator.relocated).To(BeEmpty())
			Expect(operator.converted).To(BeEmpty())

			Expect(results).To(HaveLen(1))
			Expect(results[0].DryRun).To(BeTrue())
			Expect(results[0].Object).To(Equal("vmA"))
			Expect(results[0].Source).To(Equal("ds1"))
			Expect(results[0].ConfigTarget).To(Equal("ds2"))
			Expect(results[0].DiskTargets).To(ConsistOf("disk 2000: ds1 -> ds2"))
			Expect(results[0].Error).To(BeEmpty())
		})

		It("should produce the same record shape as a real run", func() {
			plans := []models.RelocationPlan{machinePlan("vmA", target)}

			dry, _ := exec.Run(ctx, plans, evacuate.Options{DryRun: true})
			applied, _ := exec.Run(ctx, plans, evacuate.Options{})

			dry[0].DryRun = false
			Expect(dry[0]).To(Equal(applied[0]))
		})
	})

	Describe("machine relocation", func() {
		It("should wait for completion by default", func() {
			plans := []models.RelocationPlan{machinePlan("vmA", target)}

			results, handles := exec.Run(ctx, plans, evacuate.Options{})
			Expect(handles).To(BeEmpty())
			Expect(operator.relocated).To(ConsistOf("vmA"))
			Expect(operator.tasks[0].waited).To(BeTrue())
			Expect(results[0].Error).To(BeEmpty())
			Expect(results[0].Async).To(BeFalse())
		})

		It("should hand back task handles in async mode", func() {
			plans := []models.RelocationPlan{machinePlan("vmA", target)}

			results, handles := exec.Run(ctx, plans, evacuate.Options{RunAsync: true})
			Expect(handles).To(HaveLen(1))
			Expect(handles[0].Object()).To(Equal("vmA"))
			Expect(operator.tasks[0].waited).To(BeFalse())
			Expect(results[0].Async).To(BeTrue())
		})

		It("should translate the plan into disk locators", func() {
			plans := []models.RelocationPlan{machinePlan("vmA", target)}
			plans[0].DiskMoves = append(plans[0].DiskMoves,
				models.DiskMove{Key: 2001, From: "ds9", Target: nil})

			_, _ = exec.Run(ctx, plans, evacuate.Options{})

			spec := operator.specs["vmA"]
			Expect(spec.Datastore).NotTo(BeNil())
			Expect(spec.Datastore.Value).To(Equal("ds2"))
			Expect(spec.Disk).To(HaveLen(1))
			Expect(spec.Disk[0].DiskId).To(Equal(int32(2000)))
			Expect(spec.Disk[0].Datastore.Value).To(Equal("ds2"))
		})
	})

	Describe("partial failure", func() {
		It("should attribute a failure to its object and keep going", func() {
			operator.relocateErr["vmA"] = errors.New("insufficient space")
			plans := []models.RelocationPlan{
				machinePlan("vmA", target),
				machinePlan("vmB", target),
			}

			results, _ := exec.Run(ctx, plans, evacuate.Options{})
			Expect(results).To(HaveLen(2))
			Expect(results[0].Error).To(ContainSubstring("insufficient space"))
			Expect(results[1].Error).To(BeEmpty())
			Expect(operator.relocated).To(ConsistOf("vmB"))
		})

		It("should report a task failure without aborting", func() {
			operator.waitErr["vmA"] = errors.New("disk copy failed")
			plans := []models.RelocationPlan{
				machinePlan("vmA", target),
				machinePlan("vmB", target),
			}

			results, _ := exec.Run(ctx, plans, evacuate.Options{})
			Expect(results[0].Error).To(ContainSubstring("disk copy failed"))
			Expect(results[1].Error).To(BeEmpty())
		})
	})

	Describe("template relocation", func() {
		It("should convert, relocate synchronously and convert back", func() {
			plans := []models.RelocationPlan{templatePlan("tplA", target)}

			results, handles := exec.Run(ctx, plans, evacuate.Options{RunAsync: true})
			Expect(handles).To(BeEmpty())
			Expect(operator.converted).To(ConsistOf("tplA"))
			Expect(operator.relocated).To(ConsistOf("tplA"))
			Expect(operator.reconverted).To(ConsistOf("tplA"))
			Expect(operator.tasks[0].waited).To(BeTrue())
			Expect(results[0].Error).To(BeEmpty())
			Expect(results[0].Async).To(BeFalse())
		})

		It("should convert back even when relocation fails", func() {
			operator.relocateErr["tplA"] = errors.New("relocation rejected")
			plans := []models.RelocationPlan{templatePlan("tplA", target)}

			results, _ := exec.Run(ctx, plans, evacuate.Options{})
			Expect(results[0].Error).To(ContainSubstring("relocation rejected"))
			Expect(operator.converted).To(ConsistOf("tplA"))
			Expect(operator.reconverted).To(ConsistOf("tplA"))
		})

		It("should fail a template without a registered host", func() {
			plan := templatePlan("tplA", target)
			plan.Candidate.Host = types.ManagedObjectReference{}

			results, _ := exec.Run(ctx, []models.RelocationPlan{plan}, evacuate.Options{})
			Expect(results[0].Error).To(ContainSubstring("no registered host"))
			Expect(operator.converted).To(BeEmpty())
		})

		It("should not reconvert when the initial conversion fails", func() {
			operator.convertErr["tplA"] = errors.New("conversion denied")
			plans := []models.RelocationPlan{templatePlan("tplA", target)}

			results, _ := exec.Run(ctx, plans, evacuate.Options{})
			Expect(results[0].Error).To(ContainSubstring("conversion denied"))
			Expect(operator.reconverted).To(BeEmpty())
		})
	})
})
