package netem_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/netem"
)

func expectKind(err error, target error) {
	ExpectWithOffset(1, err).To(HaveOccurred())
	ExpectWithOffset(1, errors.Is(err, target)).To(BeTrue(), "unexpected error: %v", err)
}

var _ = Describe("Model tests", func() {
	var m *netem.Model

	BeforeEach(func() {
		m = netem.NewModel()
	})

	Describe("Creational", func() {
		It("creates an inbound and outbound model with zero settings", func() {
			Expect(m.Directions()).To(Equal([]netem.Direction{netem.Inbound, netem.Outbound}))
			Expect(m.IsSingle()).To(BeFalse())
			for _, d := range m.Directions() {
				s, err := m.Settings(d)
				Expect(err).ToNot(HaveOccurred())
				Expect(s).To(Equal(netem.Settings{}))
				Expect(m.Device(d)).To(BeEmpty())
			}
		})

		It("creates a single direction model", func() {
			s := netem.NewSingleModel()
			Expect(s.Directions()).To(Equal([]netem.Direction{netem.Single}))
			Expect(s.IsSingle()).To(BeTrue())
		})
	})

	Describe("SetField", func() {
		percentFields := []string{
			"delay.correlation", "reorder.percent", "reorder.correlation",
			"corrupt.percent", "corrupt.correlation", "dupe.percent", "dupe.correlation",
			"loss.percent", "loss.correlation",
		}

		It("clamps every percentage field to [0, 100]", func() {
			for _, f := range percentFields {
				for _, v := range []float64{-0.01, -1, 100.01, 1000} {
					expectKind(m.SetField(netem.Inbound, f, v), netem.ErrOutOfRange)
				}
				for _, v := range []float64{0, 0.5, 42, 100} {
					Expect(m.SetField(netem.Inbound, f, v)).To(Succeed())
					got, err := m.Field(netem.Inbound, f)
					Expect(err).ToNot(HaveOccurred())
					Expect(got).To(Equal(v))
				}
			}
		})

		DescribeTable("bounds of non percentage fields", func(path string, value float64, ok bool) {
			err := m.SetField(netem.Outbound, path, value)
			if ok {
				Expect(err).ToNot(HaveOccurred())
				got, err := m.Field(netem.Outbound, path)
				Expect(err).ToNot(HaveOccurred())
				Expect(got).To(Equal(value))
			} else {
				expectKind(err, netem.ErrOutOfRange)
			}
		},
			Entry("delay time accepts large values", "delay.time", 100000.0, true),
			Entry("delay time rejects negative", "delay.time", -1.0, false),
			Entry("jitter rejects negative", "delay.jitter", -0.5, false),
			Entry("rate speed accepts fractions", "rate.speed", 1.5, true),
			Entry("packet overhead accepts -100", "rate.packetOverhead", -100.0, true),
			Entry("packet overhead rejects -101", "rate.packetOverhead", -101.0, false),
			Entry("packet overhead rejects 101", "rate.packetOverhead", 101.0, false),
			Entry("cell size accepts 1000", "rate.cellSize", 1000.0, true),
			Entry("cell size rejects 1001", "rate.cellSize", 1001.0, false),
			Entry("cell size rejects negative", "rate.cellSize", -1.0, false),
			Entry("cell overhead accepts 100", "rate.cellOverhead", 100.0, true),
			Entry("cell overhead rejects -101", "rate.cellOverhead", -101.0, false),
			Entry("gap accepts integers", "reorder.gap", 5.0, true),
			Entry("gap rejects fractions", "reorder.gap", 1.5, false),
			Entry("gap rejects negative", "reorder.gap", -1.0, false),
			Entry("rejects NaN", "delay.time", math.NaN(), false),
			Entry("rejects +Inf", "rate.speed", math.Inf(1), false),
			Entry("toggle accepts 1", "loss.enabled", 1.0, true),
			Entry("toggle rejects 2", "loss.enabled", 2.0, false),
		)

		It("sets section toggles through enabled paths", func() {
			Expect(m.SetField(netem.Inbound, "rate.enabled", 1)).To(Succeed())
			Expect(m.SectionToggle(netem.Inbound, netem.SectionRate)).To(BeTrue())
			Expect(m.SetField(netem.Inbound, "rate.enabled", 0)).To(Succeed())
			Expect(m.SectionToggle(netem.Inbound, netem.SectionRate)).To(BeFalse())
		})

		It("fails with UnknownField on unknown path", func() {
			err := m.SetField(netem.Inbound, "delay.speed", 1)
			expectKind(err, netem.ErrUnknownField)
			Expect(err.Error()).To(ContainSubstring("inbound.delay.speed"))
		})

		It("fails with UnknownField on unknown direction", func() {
			expectKind(m.SetField(netem.Single, "delay.time", 1), netem.ErrUnknownField)
		})

		It("does not auto enable dependent sections", func() {
			Expect(m.SetField(netem.Inbound, "delay.time", 10)).To(Succeed())
			Expect(m.SectionToggle(netem.Inbound, netem.SectionDelay)).To(BeFalse())
		})

		It("keeps the other direction untouched", func() {
			Expect(m.SetField(netem.Inbound, "loss.percent", 3)).To(Succeed())
			s, _ := m.Settings(netem.Outbound)
			Expect(s.Loss.Percent).To(BeZero())
		})
	})

	Describe("IsEnabled", func() {
		It("always enables primary fields", func() {
			for _, p := range []string{"delay.time", "reorder.percent", "rate.speed", "corrupt.percent", "dupe.percent", "loss.percent"} {
				Expect(m.IsEnabled(netem.Inbound, p)).To(BeTrue(), p)
			}
		})

		It("enables every section but reorder regardless of values", func() {
			for _, dir := range []netem.Direction{netem.Inbound, netem.Outbound} {
				for _, section := range netem.Sections {
					expected := section != netem.SectionReorder
					Expect(m.IsEnabled(dir, string(section))).To(Equal(expected), string(section))
					Expect(m.IsEnabled(dir, string(section)+".enabled")).To(Equal(expected), string(section))
				}
			}

			Expect(m.SetField(netem.Inbound, "delay.time", 10)).To(Succeed())
			Expect(m.SetField(netem.Inbound, "delay.jitter", 5)).To(Succeed())
			for _, section := range netem.Sections {
				Expect(m.IsEnabled(netem.Inbound, string(section))).To(BeTrue(), string(section))
			}
			Expect(m.IsEnabled(netem.Inbound, "latency")).To(BeFalse())
		})

		It("chains delay enablement", func() {
			Expect(m.IsEnabled(netem.Inbound, "delay.jitter")).To(BeFalse())
			Expect(m.SetField(netem.Inbound, "delay.jitter", 5)).To(Succeed())
			Expect(m.IsEnabled(netem.Inbound, "delay.correlation")).To(BeFalse())

			Expect(m.SetField(netem.Inbound, "delay.time", 10)).To(Succeed())
			Expect(m.IsEnabled(netem.Inbound, "delay.jitter")).To(BeTrue())
			Expect(m.IsEnabled(netem.Inbound, "delay.correlation")).To(BeTrue())
			Expect(m.IsEnabled(netem.Inbound, "delay.distribution")).To(BeTrue())
			Expect(m.IsEnabled(netem.Inbound, "reorder")).To(BeTrue())

			Expect(m.SetField(netem.Inbound, "delay.jitter", 0)).To(Succeed())
			Expect(m.IsEnabled(netem.Inbound, "delay.correlation")).To(BeFalse())
			Expect(m.IsEnabled(netem.Inbound, "reorder.enabled")).To(BeFalse())
		})

		It("gates reorder details on reorder percent", func() {
			Expect(m.SetSectionToggle(netem.Inbound, netem.SectionReorder, true)).To(Succeed())
			Expect(m.IsEnabled(netem.Inbound, "reorder.correlation")).To(BeFalse())
			Expect(m.IsEnabled(netem.Inbound, "reorder.gap")).To(BeFalse())
			for _, v := range []float64{0.01, 1, 50, 100} {
				Expect(m.SetField(netem.Inbound, "reorder.percent", v)).To(Succeed())
				Expect(m.IsEnabled(netem.Inbound, "reorder.correlation")).To(BeTrue())
				Expect(m.IsEnabled(netem.Inbound, "reorder.gap")).To(BeTrue())
			}
			Expect(m.SetField(netem.Inbound, "reorder.percent", 0)).To(Succeed())
			Expect(m.IsEnabled(netem.Inbound, "reorder.correlation")).To(BeFalse())
		})

		It("chains rate overhead enablement", func() {
			Expect(m.SetField(netem.Inbound, "rate.packetOverhead", 10)).To(Succeed())
			Expect(m.SetField(netem.Inbound, "rate.cellSize", 20)).To(Succeed())
			Expect(m.IsEnabled(netem.Inbound, "rate.packetOverhead")).To(BeFalse())
			Expect(m.IsEnabled(netem.Inbound, "rate.cellSize")).To(BeFalse())
			Expect(m.IsEnabled(netem.Inbound, "rate.cellOverhead")).To(BeFalse())

			Expect(m.SetField(netem.Inbound, "rate.speed", 1000)).To(Succeed())
			Expect(m.IsEnabled(netem.Inbound, "rate.packetOverhead")).To(BeTrue())
			Expect(m.IsEnabled(netem.Inbound, "rate.cellSize")).To(BeTrue())
			Expect(m.IsEnabled(netem.Inbound, "rate.cellOverhead")).To(BeTrue())

			Expect(m.SetField(netem.Inbound, "rate.packetOverhead", -4)).To(Succeed())
			Expect(m.IsEnabled(netem.Inbound, "rate.cellSize")).To(BeTrue())
			Expect(m.SetField(netem.Inbound, "rate.packetOverhead", 0)).To(Succeed())
			Expect(m.IsEnabled(netem.Inbound, "rate.cellSize")).To(BeFalse())
			Expect(m.IsEnabled(netem.Inbound, "rate.cellOverhead")).To(BeFalse())
		})

		It("gates correlation of percent sections", func() {
			for _, sec := range []string{"corrupt", "dupe", "loss"} {
				Expect(m.IsEnabled(netem.Outbound, sec+".correlation")).To(BeFalse())
				Expect(m.SetField(netem.Outbound, sec+".percent", 1)).To(Succeed())
				Expect(m.IsEnabled(netem.Outbound, sec+".correlation")).To(BeTrue())
			}
		})

		It("returns false for unknown paths and directions", func() {
			Expect(m.IsEnabled(netem.Inbound, "delay.bogus")).To(BeFalse())
			Expect(m.IsEnabled(netem.Single, "delay.time")).To(BeFalse())
		})
	})

	Describe("SetSectionToggle and SetDistribution", func() {
		It("rejects unknown sections", func() {
			expectKind(m.SetSectionToggle(netem.Inbound, netem.Section("jitter"), true), netem.ErrUnknownField)
		})

		It("rejects unknown distributions", func() {
			expectKind(m.SetDistribution(netem.Inbound, netem.Distribution("gaussian")), netem.ErrOutOfRange)
			Expect(m.SetDistribution(netem.Inbound, netem.DistributionPareto)).To(Succeed())
			s, _ := m.Settings(netem.Inbound)
			Expect(s.Delay.Distribution).To(Equal(netem.DistributionPareto))
		})
	})

	Describe("SelectDevice", func() {
		It("records and clears the device", func() {
			Expect(m.SelectDevice(netem.Inbound, "eth0")).To(Succeed())
			Expect(m.Device(netem.Inbound)).To(Equal("eth0"))
			Expect(m.SelectDevice(netem.Inbound, "")).To(Succeed())
			Expect(m.Device(netem.Inbound)).To(BeEmpty())
		})

		It("fails on unknown direction", func() {
			expectKind(m.SelectDevice(netem.Direction("sideways"), "eth0"), netem.ErrUnknownField)
		})
	})
})
