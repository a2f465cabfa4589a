package cli

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vmware/govmomi/simulator"
)

var _ = Describe("session teardown", func() {
	var (
		model  *simulator.Model
		server *simulator.Server
	)

	BeforeEach(func() {
		model = simulator.VPX()
		Expect(model.Create()).To(Succeed())
		server = model.Service.NewServer()
	})

	AfterEach(func() {
		server.Close()
		model.Remove()
	})

	connectionFlags := func() []string {
		return []string{
			"--server", server.URL.String(),
			"--username", "user",
			"--password", "pass",
			"--insecure",
		}
	}

	It("should log out open sessions when a command fails", func() {
		a := newApp()

		args := append([]string{
			"evacuate-datastore", "no-such-datastore",
			"--destination", "LocalDS_0",
		}, connectionFlags()...)
		err := a.execute(context.Background(), args)
		Expect(err).To(HaveOccurred())

		_, err = a.registry.Get(server.URL.String())
		Expect(err).To(HaveOccurred())
	})

	It("should log out open sessions after a successful command", func() {
		a := newApp()

		args := append([]string{"get-network-cluster-info"}, connectionFlags()...)
		err := a.execute(context.Background(), args)
		Expect(err).NotTo(HaveOccurred())

		_, err = a.registry.Get(server.URL.String())
		Expect(err).To(HaveOccurred())
	})
})
