package tc_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pkg/errors"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/tc"
	tcmocks "github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/mocks"
	tctypes "github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/types"
)

var _ = Describe("NetNS tests", func() {
	It("runs in the current namespace when path is empty", func() {
		called := false
		err := tc.RunInNetNS("", func() error {
			called = true
			return nil
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(called).To(BeTrue())
	})

	It("returns the error of the function", func() {
		err := tc.RunInNetNS("", func() error { return errors.New("test error!") })
		Expect(err).To(MatchError("test error!"))
	})

	It("fails to enter a namespace which does not exist", func() {
		called := false
		err := tc.RunInNetNS("/var/run/netns/does-not-exist", func() error {
			called = true
			return nil
		})
		Expect(err).To(HaveOccurred())
		Expect(called).To(BeFalse())
	})

	It("decorates TC calls", func() {
		tcMock := tcmocks.NewTC(GinkgoT())
		q := tctypes.NewNetemQDiscBuilder().WithLoss(1, 0).Build()
		tcMock.On("QDiscList").Return([]tctypes.QDisc{q}, nil)
		tcMock.On("QDiscReplace", q).Return(nil)
		tcMock.On("QDiscDel", q).Return(nil)

		nsTC := tc.NewNetNSTC(tcMock, "")
		qdiscs, err := nsTC.QDiscList()
		Expect(err).ToNot(HaveOccurred())
		Expect(qdiscs).To(HaveLen(1))
		Expect(nsTC.QDiscReplace(q)).To(Succeed())
		Expect(nsTC.QDiscDel(q)).To(Succeed())
	})
})
