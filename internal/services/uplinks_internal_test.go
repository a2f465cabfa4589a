package services

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vmware/govmomi/vim25/types"
)

func networkInfo() *types.HostNetworkInfo {
	return &types.HostNetworkInfo{
		Pnic: []types.PhysicalNic{
			{Key: "key-vmnic0", Device: "vmnic0", LinkSpeed: &types.PhysicalNicLinkInfo{SpeedMb: 10000}},
			{Key: "key-vmnic1", Device: "vmnic1", LinkSpeed: &types.PhysicalNicLinkInfo{SpeedMb: 0}},
			{Key: "key-vmnic2", Device: "vmnic2"},
			{Key: "key-vmnic3", Device: "vmnic3"},
		},
		Vswitch: []types.HostVirtualSwitch{
			{Name: "vSwitch0", Pnic: []string{"key-vmnic0", "key-vmnic1"}},
		},
		ProxySwitch: []types.HostProxySwitch{
			{DvsName: "dvs-prod", Pnic: []string{"key-vmnic2"}},
		},
	}
}

var _ = Describe("brokenUplinks", func() {
	It("should report uplinks with zero or absent link speed", func() {
		broken := brokenUplinks("esx01", networkInfo())
		Expect(broken).To(HaveLen(2))

		Expect(broken[0].Host).To(Equal("esx01"))
		Expect(broken[0].VirtualSwitch).To(Equal("vSwitch0"))
		Expect(broken[0].NIC).To(Equal("vmnic1"))
		Expect(broken[0].LinkSpeedMbps).To(Equal(int32(0)))

		Expect(broken[1].VirtualSwitch).To(Equal("dvs-prod"))
		Expect(broken[1].NIC).To(Equal("vmnic2"))
	})

	It("should ignore NICs not backing any switch", func() {
		broken := brokenUplinks("esx01", networkInfo())
		for _, b := range broken {
			Expect(b.NIC).NotTo(Equal("vmnic3"))
		}
	})

	It("should handle a host without network config", func() {
		Expect(brokenUplinks("esx01", nil)).To(BeEmpty())
	})
})
