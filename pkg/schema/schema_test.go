package schema_test

import (
	"github.com/kairos-io/archstrap/pkg/schema"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("schema", func() {
	Context("Disk", func() {
		It("accepts block device paths", func() {
			for _, p := range []string{"/dev/sda", "/dev/vdb", "/dev/nvme0n1", "/dev/mmcblk0"} {
				d, err := schema.NewDisk(p)
				Expect(err).ToNot(HaveOccurred(), p)
				Expect(d.Path()).To(Equal(p))
			}
		})
		It("rejects loop devices and garbage", func() {
			for _, p := range []string{"/dev/loop0", "/dev/loop12", "sda", "/dev/sda1", "/dev/", "/tmp/disk"} {
				_, err := schema.NewDisk(p)
				Expect(err).To(HaveOccurred(), p)
			}
		})
	})

	Context("PartitionMap", func() {
		It("derives boot and root from /dev/sda", func() {
			d, err := schema.NewDisk("/dev/sda")
			Expect(err).ToNot(HaveOccurred())
			p := schema.NewPartitionMap(d)
			Expect(p.Boot.Path()).To(Equal("/dev/sda1"))
			Expect(p.Root.Path()).To(Equal("/dev/sda2"))
			Expect(p.Boot.Disk()).To(Equal(d))
			Expect(p.Root.Disk()).To(Equal(d))
		})
		It("uses the p separator for nvme disks", func() {
			d, err := schema.NewDisk("/dev/nvme0n1")
			Expect(err).ToNot(HaveOccurred())
			p := schema.NewPartitionMap(d)
			Expect(p.Boot.Path()).To(Equal("/dev/nvme0n1p1"))
			Expect(p.Root.Path()).To(Equal("/dev/nvme0n1p2"))
		})
	})

	Context("ProcessorBrand", func() {
		It("parses known vendors", func() {
			b, ok := schema.ParseProcessorBrand("intel")
			Expect(ok).To(BeTrue())
			Expect(b).To(Equal(schema.Intel))
			pkg, ok := b.MicrocodePackage()
			Expect(ok).To(BeTrue())
			Expect(pkg).To(Equal("intel-ucode"))

			b, ok = schema.ParseProcessorBrand("amd")
			Expect(ok).To(BeTrue())
			pkg, _ = b.MicrocodePackage()
			Expect(pkg).To(Equal("amd-ucode"))
		})
		It("maps other to no microcode", func() {
			b, ok := schema.ParseProcessorBrand("other")
			Expect(ok).To(BeTrue())
			Expect(b).To(Equal(schema.NoProcessorBrand))
			_, ok = b.MicrocodePackage()
			Expect(ok).To(BeFalse())
			Expect(b.String()).To(Equal("other"))
		})
		It("rejects unknown vendors", func() {
			_, ok := schema.ParseProcessorBrand("arm")
			Expect(ok).To(BeFalse())
		})
	})

	Context("BootstrapParameters", func() {
		It("returns what it was built with", func() {
			d, _ := schema.NewDisk("/dev/sdb")
			p := schema.NewBootstrapParameters(d, schema.AMD, schema.ByteCount(8589934592))
			Expect(p.InstallDisk().Path()).To(Equal("/dev/sdb"))
			Expect(p.ProcessorBrand()).To(Equal(schema.AMD))
			Expect(p.TotalMemory().Decimal()).To(Equal("8589934592"))
			Expect(p.TotalMemory().String()).To(Equal("8GiB"))
		})
	})
})
