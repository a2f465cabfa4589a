package vmware_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vmware/govmomi/simulator"

	vcerrors "github.com/vctools/vcadm/pkg/errors"
	"github.com/vctools/vcadm/pkg/vmware"
)

var _ = Describe("Connection", func() {
	var (
		ctx    context.Context
		model  *simulator.Model
		server *simulator.Server
		cred   vmware.Credential
	)

	BeforeEach(func() {
		ctx = context.Background()

		model = simulator.VPX()
		Expect(model.Create()).To(Succeed())
		server = model.Service.NewServer()
		cred = vmware.Credential{Username: "user", Password: "pass"}
	})

	AfterEach(func() {
		server.Close()
		model.Remove()
	})

	It("should log in and out", func() {
		conn, err := vmware.Connect(ctx, server.URL.String(), cred, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(conn.Logout(ctx)).To(Succeed())
	})

	Describe("name resolution", func() {
		var conn *vmware.Connection

		BeforeEach(func() {
			var err error
			conn, err = vmware.Connect(ctx, server.URL.String(), cred, true)
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			Expect(conn.Logout(ctx)).To(Succeed())
		})

		It("should resolve a datastore by name", func() {
			ds, err := conn.Datastore(ctx, "LocalDS_0")
			Expect(err).NotTo(HaveOccurred())
			Expect(ds.Name()).To(Equal("LocalDS_0"))
		})

		It("should fail on an unknown datastore", func() {
			_, err := conn.Datastore(ctx, "no-such-datastore")
			Expect(err).To(HaveOccurred())
			Expect(vcerrors.IsResolutionError(err)).To(BeTrue())
		})

		It("should resolve a cluster by name", func() {
			cluster, err := conn.Cluster(ctx, "DC0_C0")
			Expect(err).NotTo(HaveOccurred())
			Expect(cluster.Name()).To(Equal("DC0_C0"))
		})

		It("should resolve a VM by name", func() {
			vm, err := conn.VirtualMachine(ctx, "DC0_H0_VM0")
			Expect(err).NotTo(HaveOccurred())
			Expect(vm.Name()).To(Equal("DC0_H0_VM0"))
		})
	})

	Describe("Registry", func() {
		It("should reuse a connection to the same host", func() {
			registry := vmware.NewRegistry()

			conns, err := registry.Connect(ctx,
				[]string{server.URL.String(), server.URL.String()}, cred, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(conns).To(HaveLen(2))
			Expect(conns[0]).To(BeIdenticalTo(conns[1]))

			Expect(registry.Disconnect(ctx)).To(Succeed())
		})

		It("should disconnect an entry addressed in URL form", func() {
			registry := vmware.NewRegistry()

			_, err := registry.Connect(ctx, []string{server.URL.String()}, cred, true)
			Expect(err).NotTo(HaveOccurred())

			Expect(registry.Disconnect(ctx, server.URL.String())).To(Succeed())

			_, err = registry.Get(server.URL.String())
			Expect(err).To(HaveOccurred())
			Expect(vcerrors.IsResolutionError(err)).To(BeTrue())
		})

		It("should return registered connections by server", func() {
			registry := vmware.NewRegistry()

			conns, err := registry.Connect(ctx, []string{server.URL.String()}, cred, true)
			Expect(err).NotTo(HaveOccurred())

			got, err := registry.Get(server.URL.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeIdenticalTo(conns[0]))

			Expect(registry.Disconnect(ctx)).To(Succeed())
		})
	})
})
