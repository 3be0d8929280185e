package types

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("sameParent", func() {
	attrs := func(parent *uint32) *QDiscAttrs {
		return &QDiscAttrs{Parent: parent}
	}
	root := HandleRoot
	p1 := uint32(0x00010001)
	p1Copy := uint32(0x00010001)
	p2 := uint32(0x00010002)

	DescribeTable("check for expected output", func(first, second *QDiscAttrs, expected bool) {
		Expect(sameParent(first, second)).To(Equal(expected))
		Expect(sameParent(second, first)).To(Equal(expected))
	},
		Entry("both unset", attrs(nil), attrs(nil), true),
		Entry("unset and explicit root", attrs(nil), attrs(&root), true),
		Entry("same value different pointers", attrs(&p1), attrs(&p1Copy), true),
		Entry("different values", attrs(&p1), attrs(&p2), false),
		Entry("unset and non root", attrs(nil), attrs(&p1), false),
	)
})

var _ = Describe("cmdline formatting", func() {
	DescribeTable("fmtTime", func(usec uint32, expected string) {
		Expect(fmtTime(usec)).To(Equal(expected))
	},
		Entry("zero", uint32(0), "0us"),
		Entry("microseconds", uint32(1500), "1500us"),
		Entry("milliseconds", uint32(10000), "10ms"),
		Entry("seconds", uint32(2000000), "2s"),
	)

	DescribeTable("fmtRate", func(bps uint64, expected string) {
		Expect(fmtRate(bps)).To(Equal(expected))
	},
		Entry("bits", uint64(1500), "1500bit"),
		Entry("kbit", uint64(512000), "512kbit"),
		Entry("mbit", uint64(100000000), "100mbit"),
		Entry("gbit", uint64(10000000000), "10gbit"),
	)

	DescribeTable("fmtPercent", func(pct float64, expected string) {
		Expect(fmtPercent(pct)).To(Equal(expected))
	},
		Entry("integral", 5.0, "5%"),
		Entry("fraction", 0.25, "0.25%"),
	)

	It("fmtMajorMinor formats handle", func() {
		Expect(fmtMajorMinor(0x80010000)).To(Equal("8001:0"))
		Expect(fmtMajorMinor(0x00010002)).To(Equal("1:2"))
	})
})
