package evacuate_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vmware/govmomi/simulator"

	"github.com/vctools/vcadm/internal/evacuate"
	"github.com/vctools/vcadm/internal/models"
	"github.com/vctools/vcadm/pkg/vmware"
)

var _ = Describe("Evacuation against a simulated vCenter", func() {
	var (
		ctx    context.Context
		model  *simulator.Model
		server *simulator.Server
		conn   *vmware.Connection
	)

	BeforeEach(func() {
		ctx = context.Background()

		model = simulator.VPX()
		model.Datastore = 2
		Expect(model.Create()).To(Succeed())
		server = model.Service.NewServer()

		var err error
		conn, err = vmware.Connect(ctx, server.URL.String(),
			vmware.Credential{Username: "user", Password: "pass"}, true)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(conn.Logout(ctx)).To(Succeed())
		server.Close()
		model.Remove()
	})

	Describe("Discover", func() {
		It("should list every VM referencing the source datastore", func() {
			source, candidates, err := evacuate.Discover(ctx, conn, "LocalDS_0")
			Expect(err).NotTo(HaveOccurred())
			Expect(source.Name).To(Equal("LocalDS_0"))
			Expect(candidates).NotTo(BeEmpty())

			for _, cand := range candidates {
				Expect(cand.Name).NotTo(BeEmpty())
				Expect(cand.ConfigDatastore).To(Equal("LocalDS_0"))
				Expect(cand.Disks).NotTo(BeEmpty())
				for _, disk := range cand.Disks {
					Expect(disk.Datastore).To(Equal("LocalDS_0"))
				}
			}
		})

		It("should fail on an unknown source", func() {
			_, _, err := evacuate.Discover(ctx, conn, "no-such-datastore")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ResolvePool", func() {
		It("should resolve a plain datastore to a single member", func() {
			pool, err := evacuate.ResolvePool(ctx, conn, "LocalDS_1")
			Expect(err).NotTo(HaveOccurred())
			Expect(pool).To(HaveLen(1))
			Expect(pool[0].Name).To(Equal("LocalDS_1"))
		})

		It("should fail on an unknown destination", func() {
			_, err := evacuate.ResolvePool(ctx, conn, "no-such-destination")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("end to end", func() {
		It("should relocate every machine off the source", func() {
			source, candidates, err := evacuate.Discover(ctx, conn, "LocalDS_0")
			Expect(err).NotTo(HaveOccurred())

			pool, err := evacuate.ResolvePool(ctx, conn, "LocalDS_1")
			Expect(err).NotTo(HaveOccurred())

			plans, skips, err := evacuate.NewPlanner(source.Name, pool, nil).
				Plan(candidates, nil, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(skips).To(BeEmpty())
			Expect(plans).To(HaveLen(len(candidates)))

			exec := evacuate.NewExecutor(vmware.NewManager(conn), source.Name)
			results, handles := exec.Run(ctx, plans, evacuate.Options{})
			Expect(handles).To(BeEmpty())
			Expect(results).To(HaveLen(len(plans)))
			for _, res := range results {
				Expect(res.Error).To(BeEmpty())
				Expect(res.ConfigTarget).To(Equal("LocalDS_1"))
			}

			// Nothing may still reference the source: planning the same
			// evacuation again must find no work.
			_, after, err := evacuate.Discover(ctx, conn, "LocalDS_0")
			Expect(err).NotTo(HaveOccurred())
			replans, _, err := evacuate.NewPlanner(source.Name, pool, nil).
				Plan(after, nil, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(replans).To(BeEmpty())
		})

		It("should leave the inventory untouched on a dry run", func() {
			source, candidates, err := evacuate.Discover(ctx, conn, "LocalDS_0")
			Expect(err).NotTo(HaveOccurred())

			pool := []models.Target{{Name: "LocalDS_1"}}
			plans, _, err := evacuate.NewPlanner(source.Name, pool, nil).
				Plan(candidates, nil, false)
			Expect(err).NotTo(HaveOccurred())

			exec := evacuate.NewExecutor(vmware.NewManager(conn), source.Name)
			results, _ := exec.Run(ctx, plans, evacuate.Options{DryRun: true})
			for _, res := range results {
				Expect(res.DryRun).To(BeTrue())
				Expect(res.Error).To(BeEmpty())
			}

			_, after, err := evacuate.Discover(ctx, conn, "LocalDS_0")
			Expect(err).NotTo(HaveOccurred())
			Expect(after).To(HaveLen(len(candidates)))
		})
	})
})
