package services_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vctools/vcadm/internal/services"
	vcerrors "github.com/vctools/vcadm/pkg/errors"
)

var _ = Describe("EVCInfo scope", func() {
	var (
		ctx context.Context
		svc *services.VMService
	)

	BeforeEach(func() {
		ctx = context.Background()
		svc = services.NewVMService(nil)
	})

	It("should reject an empty scope", func() {
		_, err := svc.EVCInfo(ctx, nil, nil, nil)
		Expect(vcerrors.IsPreconditionError(err)).To(BeTrue())
	})

	It("should reject a cluster scope combined with a vm scope", func() {
		_, err := svc.EVCInfo(ctx, []string{"DC0_C0"}, []string{"vmA"}, nil)
		Expect(vcerrors.IsPreconditionError(err)).To(BeTrue())
	})

	It("should reject a vm name scope combined with a vm id scope", func() {
		_, err := svc.EVCInfo(ctx, nil, []string{"vmA"}, []string{"vm-42"})
		Expect(vcerrors.IsPreconditionError(err)).To(BeTrue())
	})
})
