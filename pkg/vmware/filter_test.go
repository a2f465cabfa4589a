package vmware_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/vctools/vcadm/pkg/vmware"
)

func TestVMware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "VMware Suite")
}

func ref(value string) types.ManagedObjectReference {
	return types.ManagedObjectReference{Type: "HostSystem", Value: value}
}

var _ = Describe("NameFilter", func() {
	Describe("literal filters", func() {
		It("should match exact names only", func() {
			f := vmware.NewLiteralFilter([]string{"host1"})

			Expect(f.Match("host1", ref("host-1"))).To(BeTrue())
			Expect(f.Match("host10", ref("host-10"))).To(BeFalse())
			Expect(f.Match("myhost1", ref("host-11"))).To(BeFalse())
		})

		It("should match any of the listed names", func() {
			f := vmware.NewLiteralFilter([]string{"esx01", "esx02"})

			Expect(f.Match("esx01", ref("host-1"))).To(BeTrue())
			Expect(f.Match("esx02", ref("host-2"))).To(BeTrue())
			Expect(f.Match("esx03", ref("host-3"))).To(BeFalse())
		})

		It("should treat regex metacharacters as plain text", func() {
			f := vmware.NewLiteralFilter([]string{"vm.prod"})

			Expect(f.Match("vm.prod", ref("vm-1"))).To(BeTrue())
			Expect(f.Match("vmxprod", ref("vm-2"))).To(BeFalse())
		})
	})

	Describe("pattern filters", func() {
		It("should OR-combine multiple patterns", func() {
			f, err := vmware.NewPatternFilter([]string{"^prod-", "-db$"})
			Expect(err).NotTo(HaveOccurred())

			Expect(f.Match("prod-web01", ref("vm-1"))).To(BeTrue())
			Expect(f.Match("stage-db", ref("vm-2"))).To(BeTrue())
			Expect(f.Match("stage-web01", ref("vm-3"))).To(BeFalse())
		})

		It("should match everything when no pattern is given", func() {
			f, err := vmware.NewPatternFilter(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(f.Match("anything", ref("vm-1"))).To(BeTrue())
			Expect(f.Match("", ref("vm-2"))).To(BeFalse())
		})

		It("should reject an invalid expression", func() {
			_, err := vmware.NewPatternFilter([]string{"unclosed["})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("id filters", func() {
		It("should match on the reference value, not the name", func() {
			f := vmware.NewIDFilter([]string{"vm-42"})

			Expect(f.Match("any-name", ref("vm-42"))).To(BeTrue())
			Expect(f.Match("vm-42", ref("vm-7"))).To(BeFalse())
		})

		It("should match any of the listed ids", func() {
			f := vmware.NewIDFilter([]string{"host-1", "host-3"})

			Expect(f.Match("esx01", ref("host-1"))).To(BeTrue())
			Expect(f.Match("esx02", ref("host-2"))).To(BeFalse())
			Expect(f.Match("esx03", ref("host-3"))).To(BeTrue())
		})
	})

	Describe("Query", func() {
		It("should describe the filter for warnings", func() {
			f := vmware.NewLiteralFilter([]string{"esx01"})
			Expect(f.Query()).To(Equal("name esx01"))

			p, err := vmware.NewPatternFilter([]string{"^prod-"})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Query()).To(Equal("pattern ^prod-"))

			i := vmware.NewIDFilter([]string{"vm-42"})
			Expect(i.Query()).To(Equal("id vm-42"))
		})
	})
})

var _ = Describe("WildcardToRegexp", func() {
	It("should expand '*' and anchor the expression", func() {
		re := vmware.WildcardToRegexp("10.0.1.*")

		Expect(re.MatchString("10.0.1.15")).To(BeTrue())
		Expect(re.MatchString("10.0.10.15")).To(BeFalse())
		Expect(re.MatchString("110.0.1.15")).To(BeFalse())
	})

	It("should require a full match without wildcards", func() {
		re := vmware.WildcardToRegexp("192.168.0.1")

		Expect(re.MatchString("192.168.0.1")).To(BeTrue())
		Expect(re.MatchString("192.168.0.10")).To(BeFalse())
	})
})
