package services_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vctools/vcadm/internal/services"
)

var _ = Describe("GroupDuplicateMACs", func() {
	It("should keep only addresses used by more than one adapter", func() {
		entries := []services.MACEntry{
			{VMName: "vmA", Ref: "vm-1", MAC: "00:50:56:aa:bb:01"},
			{VMName: "vmB", Ref: "vm-2", MAC: "00:50:56:aa:bb:01"},
			{VMName: "vmC", Ref: "vm-3", MAC: "00:50:56:aa:bb:02"},
		}

		groups := services.GroupDuplicateMACs(entries)
		Expect(groups).To(HaveLen(1))
		Expect(groups[0].MAC).To(Equal("00:50:56:aa:bb:01"))
		Expect(groups[0].Count).To(Equal(2))
		Expect(groups[0].VMNames).To(ConsistOf("vmA", "vmB"))
		Expect(groups[0].Refs).To(ConsistOf("vm-1", "vm-2"))
	})

	It("should count duplicates within a single VM", func() {
		entries := []services.MACEntry{
			{VMName: "vmA", Ref: "vm-1", MAC: "00:50:56:aa:bb:01"},
			{VMName: "vmA", Ref: "vm-1", MAC: "00:50:56:aa:bb:01"},
		}

		groups := services.GroupDuplicateMACs(entries)
		Expect(groups).To(HaveLen(1))
		Expect(groups[0].Count).To(Equal(2))
		Expect(groups[0].VMNames).To(Equal([]string{"vmA", "vmA"}))
	})

	It("should sort groups by address", func() {
		entries := []services.MACEntry{
			{VMName: "vmA", MAC: "00:50:56:aa:bb:09"},
			{VMName: "vmB", MAC: "00:50:56:aa:bb:09"},
			{VMName: "vmC", MAC: "00:50:56:aa:bb:01"},
			{VMName: "vmD", MAC: "00:50:56:aa:bb:01"},
		}

		groups := services.GroupDuplicateMACs(entries)
		Expect(groups).To(HaveLen(2))
		Expect(groups[0].MAC).To(Equal("00:50:56:aa:bb:01"))
		Expect(groups[1].MAC).To(Equal("00:50:56:aa:bb:09"))
	})

	It("should return nothing without duplicates", func() {
		entries := []services.MACEntry{
			{VMName: "vmA", MAC: "00:50:56:aa:bb:01"},
			{VMName: "vmB", MAC: "00:50:56:aa:bb:02"},
		}
		Expect(services.GroupDuplicateMACs(entries)).To(BeEmpty())
	})
})
