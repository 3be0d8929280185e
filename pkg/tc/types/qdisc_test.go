package types_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/types"
)

var _ = Describe("QDisc tests", func() {
	parent := uint32(0x00010001)
	handle := uint32(0x80010000)

	Describe("GenericQDisc", func() {
		It("Creates a new GenericQDisc", func() {
			attr := &types.QDiscAttrs{
				Parent: &parent,
				Handle: &handle,
			}
			q := types.NewGenericQdisc(attr, "fq_codel")

			Expect(*q.Attrs().Parent).To(Equal(parent))
			Expect(*q.Attrs().Handle).To(Equal(handle))
			Expect(q.Type()).To(Equal(types.QDiscType("fq_codel")))
			Expect(q.IsRoot()).To(BeFalse())
			Expect(q.GenCmdLineArgs()).To(Equal([]string{"parent", "1:1", "handle", "8001:0", "fq_codel"}))
		})

		It("is not equal to a netem qdisc", func() {
			g := types.NewGenericQdisc(types.NewQDiscAttrsBuilder().Build(), types.QDiscNetemType)
			Expect(g.Equals(types.NewNetemQDiscBuilder().Build())).To(BeFalse())
			Expect(g.Equals(types.NewGenericQdisc(types.NewQDiscAttrsBuilder().WithParent(types.HandleRoot).Build(),
				types.QDiscNetemType))).To(BeTrue())
		})
	})

	Describe("NetemQDiscBuilder", func() {
		It("Builds Netem Qdisc with correct attributes", func() {
			q := types.NewNetemQDiscBuilder().
				WithParent(types.HandleRoot).
				WithHandle(handle).
				WithDelay(10000, 2000, 25).
				WithDistribution("normal").
				WithReorder(10, 50, 5).
				WithCorrupt(0.5, 1).
				WithDuplicate(1, 2).
				WithLoss(3, 4).
				WithRate(1000000, -4, 53, 5).
				WithLimit(1000).
				Build()

			Expect(q.Type()).To(Equal(types.QDiscNetemType))
			Expect(q.IsRoot()).To(BeTrue())
			Expect(q.Latency).To(Equal(uint32(10000)))
			Expect(q.Jitter).To(Equal(uint32(2000)))
			Expect(q.Distribution).To(Equal("normal"))
			Expect(q.Gap).To(Equal(uint32(5)))
			Expect(q.Rate).To(Equal(uint64(1000000)))
			Expect(q.PacketOverhead).To(Equal(int32(-4)))
			Expect(q.IsEmpty()).To(BeFalse())
		})

		It("Builds an empty Netem Qdisc", func() {
			q := types.NewNetemQDiscBuilder().Build()
			Expect(q.IsEmpty()).To(BeTrue())
			Expect(q.IsRoot()).To(BeTrue())
		})
	})

	Describe("CmdLineGenerator", func() {
		DescribeTable("generates expected command line args", func(q *types.NetemQDisc, expected []string) {
			Expect(q.GenCmdLineArgs()).To(Equal(expected))
		},
			Entry("delay only",
				types.NewNetemQDiscBuilder().WithDelay(100000, 0, 0).Build(),
				[]string{"root", "netem", "delay", "100ms"}),
			Entry("correlation without jitter is dropped",
				types.NewNetemQDiscBuilder().WithDelay(100000, 0, 25).Build(),
				[]string{"root", "netem", "delay", "100ms"}),
			Entry("full delay",
				types.NewNetemQDiscBuilder().WithDelay(100000, 1500, 25).WithDistribution("pareto").Build(),
				[]string{"root", "netem", "delay", "100ms", "1500us", "25%", "distribution", "pareto"}),
			Entry("reorder without delay is dropped",
				types.NewNetemQDiscBuilder().WithReorder(10, 0, 0).WithLoss(1, 0).Build(),
				[]string{"root", "netem", "loss", "1%"}),
			Entry("reorder with delay",
				types.NewNetemQDiscBuilder().WithDelay(10000, 0, 0).WithReorder(10, 50, 5).Build(),
				[]string{"root", "netem", "delay", "10ms", "reorder", "10%", "50%", "gap", "5"}),
			Entry("percent sections",
				types.NewNetemQDiscBuilder().WithCorrupt(0.5, 1).WithDuplicate(1, 0).WithLoss(3, 4).Build(),
				[]string{"root", "netem", "corrupt", "0.5%", "1%", "duplicate", "1%", "loss", "3%", "4%"}),
			Entry("rate with chained overheads",
				types.NewNetemQDiscBuilder().WithRate(1000000, -4, 53, 5).Build(),
				[]string{"root", "netem", "rate", "1mbit", "-4", "53", "5"}),
			Entry("cell size without packet overhead is dropped",
				types.NewNetemQDiscBuilder().WithRate(512000, 0, 53, 5).Build(),
				[]string{"root", "netem", "rate", "512kbit"}),
			Entry("limit and parent",
				types.NewNetemQDiscBuilder().WithParent(0x00010001).WithLimit(500).WithLoss(1, 0).Build(),
				[]string{"parent", "1:1", "netem", "limit", "500", "loss", "1%"}),
		)
	})

	Describe("Equals", func() {
		base := func() *types.NetemQDiscBuilder {
			return types.NewNetemQDiscBuilder().WithDelay(10000, 2000, 0).WithLoss(5, 0)
		}

		It("ignores handle and treats nil parent as root", func() {
			q1 := base().Build()
			q2 := base().WithParent(types.HandleRoot).WithHandle(handle).Build()
			Expect(q1.Equals(q2)).To(BeTrue())
			Expect(q2.Equals(q1)).To(BeTrue())
		})

		It("ignores limit unless set on both", func() {
			Expect(base().Build().Equals(base().WithLimit(1000).Build())).To(BeTrue())
			Expect(base().WithLimit(10).Build().Equals(base().WithLimit(1000).Build())).To(BeFalse())
		})

		It("detects different options", func() {
			Expect(base().Build().Equals(base().WithLoss(6, 0).Build())).To(BeFalse())
			Expect(base().Build().Equals(base().WithParent(parent).Build())).To(BeFalse())
		})
	})

	Describe("FindRootNetem", func() {
		It("returns the root netem qdisc", func() {
			root := types.NewNetemQDiscBuilder().WithParent(types.HandleRoot).WithLoss(1, 0).Build()
			child := types.NewNetemQDiscBuilder().WithParent(parent).WithLoss(2, 0).Build()
			generic := types.NewGenericQdisc(types.NewQDiscAttrsBuilder().WithParent(types.HandleRoot).Build(), "noqueue")

			Expect(types.FindRootNetem([]types.QDisc{generic, child, root})).To(BeIdenticalTo(root))
			Expect(types.FindRootNetem([]types.QDisc{generic, child})).To(BeNil())
			Expect(types.FindRootNetem(nil)).To(BeNil())
		})
	})
})
