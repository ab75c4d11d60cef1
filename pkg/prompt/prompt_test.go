package prompt_test

import (
	"bytes"
	"strings"

	"github.com/kairos-io/archstrap/internal/constants"
	"github.com/kairos-io/archstrap/pkg/prompt"
	"github.com/kairos-io/archstrap/pkg/schema"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func mustDisk(path string) schema.Disk {
	d, err := schema.NewDisk(path)
	Expect(err).ToNot(HaveOccurred())
	return d
}

var _ = Describe("prompt", func() {
	var out *bytes.Buffer

	BeforeEach(func() {
		out = &bytes.Buffer{}
	})

	Context("ConfirmInstallation", func() {
		It("accepts y and Y", func() {
			Expect(prompt.NewPrompter(strings.NewReader("y\n"), out).ConfirmInstallation()).To(Succeed())
			Expect(prompt.NewPrompter(strings.NewReader("Y\n"), out).ConfirmInstallation()).To(Succeed())
		})
		It("aborts on n and N", func() {
			Expect(prompt.NewPrompter(strings.NewReader("n\n"), out).ConfirmInstallation()).To(MatchError(constants.ErrUserAbort))
			Expect(prompt.NewPrompter(strings.NewReader("N\n"), out).ConfirmInstallation()).To(MatchError(constants.ErrUserAbort))
		})
		It("asks again on anything else", func() {
			p := prompt.NewPrompter(strings.NewReader("yes\nmaybe\n\ny\n"), out)
			Expect(p.ConfirmInstallation()).To(Succeed())
			Expect(strings.Count(out.String(), "Confirm installation? (y/n)")).To(Equal(4))
		})
		It("aborts on end of input", func() {
			Expect(prompt.NewPrompter(strings.NewReader(""), out).ConfirmInstallation()).To(MatchError(constants.ErrUserAbort))
			Expect(prompt.NewPrompter(strings.NewReader("what\n"), out).ConfirmInstallation()).To(MatchError(constants.ErrUserAbort))
		})
		It("takes a last answer without newline", func() {
			Expect(prompt.NewPrompter(strings.NewReader("y"), out).ConfirmInstallation()).To(Succeed())
		})
	})

	Context("SelectInstallDisk", func() {
		var disks []schema.Disk

		BeforeEach(func() {
			disks = []schema.Disk{mustDisk("/dev/sda"), mustDisk("/dev/sdb")}
		})

		It("lists the disks and returns the chosen one", func() {
			p := prompt.NewPrompter(strings.NewReader("/dev/sdb\n"), out)
			d, err := p.SelectInstallDisk(disks, map[string]string{"/dev/sda": "238.5GiB Samsung SSD 860"})
			Expect(err).ToNot(HaveOccurred())
			Expect(d.Path()).To(Equal("/dev/sdb"))
			Expect(out.String()).To(ContainSubstring(" -> /dev/sda (238.5GiB Samsung SSD 860)\n -> /dev/sdb\n"))
		})
		It("asks again until the answer is a listed disk", func() {
			p := prompt.NewPrompter(strings.NewReader("sda\n/dev/sdc\n/dev/loop0\n/dev/sda\n"), out)
			d, err := p.SelectInstallDisk(disks, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(d.Path()).To(Equal("/dev/sda"))
			Expect(strings.Count(out.String(), "Available disks:")).To(Equal(4))
		})
		It("fails without disks", func() {
			_, err := prompt.NewPrompter(strings.NewReader("/dev/sda\n"), out).SelectInstallDisk(nil, nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("SelectProcessorBrand", func() {
		It("offers the vendors and other", func() {
			_, err := prompt.NewPrompter(strings.NewReader("amd\n"), out).SelectProcessorBrand()
			Expect(err).ToNot(HaveOccurred())
			Expect(out.String()).To(ContainSubstring("(amd, intel, other)"))
		})
		It("maps other to no microcode", func() {
			brand, err := prompt.NewPrompter(strings.NewReader("arm\nother\n"), out).SelectProcessorBrand()
			Expect(err).ToNot(HaveOccurred())
			Expect(brand).To(Equal(schema.NoProcessorBrand))
			_, ok := brand.MicrocodePackage()
			Expect(ok).To(BeFalse())
		})
	})

	Context("GatherInstallParameters", func() {
		It("freezes disk, vendor and memory", func() {
			p := prompt.NewPrompter(strings.NewReader("/dev/sda\nintel\n"), out)
			params, err := p.GatherInstallParameters([]schema.Disk{mustDisk("/dev/sda")}, nil, schema.ByteCount(8589934592))
			Expect(err).ToNot(HaveOccurred())
			Expect(params.InstallDisk().Path()).To(Equal("/dev/sda"))
			Expect(params.ProcessorBrand()).To(Equal(schema.Intel))
			Expect(params.TotalMemory()).To(Equal(schema.ByteCount(8589934592)))
		})
		It("aborts when input ends before the vendor", func() {
			p := prompt.NewPrompter(strings.NewReader("/dev/sda\n"), out)
			_, err := p.GatherInstallParameters([]schema.Disk{mustDisk("/dev/sda")}, nil, schema.ByteCount(1))
			Expect(err).To(MatchError(constants.ErrUserAbort))
		})
	})
})
