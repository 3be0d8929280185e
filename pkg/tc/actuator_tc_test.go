package tc_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	klog "k8s.io/klog/v2"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/tc"
	"github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/generator"
	tcmocks "github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/mocks"
	tctypes "github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/types"
)

func qdiscMatch(qdisc tctypes.QDisc) func(q tctypes.QDisc) bool {
	return func(q tctypes.QDisc) bool {
		return qdisc.Equals(q)
	}
}

var _ = Describe("Actuator TC tests", func() {
	var actuator tc.Actuator
	var tcMock *tcmocks.TC
	var tcObj *generator.Objects

	existingNetem := tctypes.NewNetemQDiscBuilder().
		WithParent(tctypes.HandleRoot).
		WithHandle(0x80010000).
		WithDelay(10000, 0, 0).
		WithLimit(1000).
		Build()
	otherQdisc := tctypes.NewGenericQdisc(
		tctypes.NewQDiscAttrsBuilder().WithParent(tctypes.HandleRoot).Build(), "fq_codel")

	BeforeEach(func() {
		logger := klog.NewKlogr().WithName("actuator-tc-test")
		tcMock = tcmocks.NewTC(GinkgoT())
		actuator = tc.NewActuatorTCImpl(tcMock, logger)
		tcObj = &generator.Objects{}
	})

	It("fails if listing qdisc fails", func() {
		tcObj.QDisc = existingNetem
		tcMock.On("QDiscList").Return(nil, errors.New("test error!"))

		err := actuator.Actuate(tcObj)
		Expect(err).To(HaveOccurred())
	})

	When("Objects does not contain Qdisc", func() {
		It("deletes root netem Qdisc when exists", func() {
			tcMock.On("QDiscList").Return([]tctypes.QDisc{otherQdisc, existingNetem}, nil)
			tcMock.On("QDiscDel", mock.MatchedBy(qdiscMatch(existingNetem))).Return(nil)

			err := actuator.Actuate(tcObj)
			Expect(err).ToNot(HaveOccurred())
		})

		It("fails if delete qdisc fails", func() {
			tcMock.On("QDiscList").Return([]tctypes.QDisc{existingNetem}, nil)
			tcMock.On("QDiscDel", mock.Anything).Return(errors.New("test error!"))

			err := actuator.Actuate(tcObj)
			Expect(err).To(HaveOccurred())
		})

		It("does nothing if root netem Qdisc does not exist", func() {
			tcMock.On("QDiscList").Return([]tctypes.QDisc{otherQdisc}, nil)

			err := actuator.Actuate(tcObj)
			Expect(err).ToNot(HaveOccurred())
		})
	})

	When("Objects contain netem Qdisc", func() {
		It("does nothing if the same netem Qdisc exists", func() {
			tcObj.QDisc = tctypes.NewNetemQDiscBuilder().WithParent(tctypes.HandleRoot).WithDelay(10000, 0, 0).Build()
			tcMock.On("QDiscList").Return([]tctypes.QDisc{existingNetem}, nil)

			err := actuator.Actuate(tcObj)
			Expect(err).ToNot(HaveOccurred())
		})

		It("replaces netem Qdisc if different", func() {
			tcObj.QDisc = tctypes.NewNetemQDiscBuilder().WithParent(tctypes.HandleRoot).WithDelay(20000, 0, 0).Build()
			tcMock.On("QDiscList").Return([]tctypes.QDisc{existingNetem}, nil)
			tcMock.On("QDiscReplace", mock.MatchedBy(qdiscMatch(tcObj.QDisc))).Return(nil)

			err := actuator.Actuate(tcObj)
			Expect(err).ToNot(HaveOccurred())
		})

		It("replaces root Qdisc if no netem Qdisc exists", func() {
			tcObj.QDisc = tctypes.NewNetemQDiscBuilder().WithLoss(5, 0).Build()
			tcMock.On("QDiscList").Return([]tctypes.QDisc{otherQdisc}, nil)
			tcMock.On("QDiscReplace", mock.Anything).Return(nil)

			err := actuator.Actuate(tcObj)
			Expect(err).ToNot(HaveOccurred())
		})

		It("fails if replace fails", func() {
			tcObj.QDisc = tctypes.NewNetemQDiscBuilder().WithLoss(5, 0).Build()
			tcMock.On("QDiscList").Return([]tctypes.QDisc{}, nil)
			tcMock.On("QDiscReplace", mock.Anything).Return(errors.New("test error!"))

			err := actuator.Actuate(tcObj)
			Expect(err).To(HaveOccurred())
		})
	})
})
