package op_test

import (
	"strings"

	"github.com/kairos-io/archstrap/internal/constants"
	"github.com/kairos-io/archstrap/pkg/op"
	"github.com/kairos-io/archstrap/tests/mocks"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const rawFstab = "# Static information about the filesystems.\n" +
	"# /dev/sda2\n" +
	"UUID=0a3407de-014b-458b-b5c1-848e92a327a3\t/         \text4      \trw,noatime\t0 1\n" +
	"\n" +
	"# /dev/sda1\n" +
	"UUID=2E1A-5C4D      \t/boot     \tvfat      \trw,noatime,fmask=0022,dmask=0022\t0 2\n" +
	"\n" +
	"/swapfile    none    swap    defaults    0 0\n"

var _ = Describe("operations", func() {
	Context("MountOperation", func() {
		It("runs mount with the no-atime option", func() {
			runner := mocks.NewFakeRunner()
			m := op.MountOP("/dev/sda2", "/mnt", "ext4", []string{"noatime"})
			Expect(m.Run(runner, func(string) (bool, error) { return false, nil })).To(Succeed())
			Expect(runner.Calls()).To(Equal([]string{"mount --options noatime /dev/sda2 /mnt"}))
		})
		It("refuses to mount over a mount point", func() {
			runner := mocks.NewFakeRunner()
			m := op.MountOP("/dev/sda2", "/mnt", "ext4", []string{"noatime"})
			err := m.Run(runner, func(string) (bool, error) { return true, nil })
			Expect(err).To(MatchError(constants.ErrAlreadyMounted))
			Expect(runner.Calls()).To(BeEmpty())
		})
		It("runs the prepare callback before checking the target", func() {
			var order []string
			runner := mocks.NewFakeRunner()
			m := op.MountOP("/dev/sda1", "/mnt/boot", "vfat", []string{"noatime"})
			m.PrepareCallback = func() error {
				order = append(order, "prepare")
				return nil
			}
			Expect(m.Run(runner, func(string) (bool, error) {
				order = append(order, "check")
				return false, nil
			})).To(Succeed())
			Expect(order).To(Equal([]string{"prepare", "check"}))
		})
	})

	Context("NormalizeFstab", func() {
		It("leaves no tab and no double space", func() {
			out := op.NormalizeFstab(rawFstab)
			Expect(out).ToNot(ContainSubstring("\t"))
			Expect(out).ToNot(ContainSubstring("  "))
			Expect(out).To(ContainSubstring("UUID=2E1A-5C4D /boot vfat rw,noatime,fmask=0022,dmask=0022 0 2\n"))
			Expect(out).To(ContainSubstring("/swapfile none swap defaults 0 0\n"))
		})
		It("handles mixed runs of tabs and spaces", func() {
			for _, raw := range []string{" \t ", "\t\t  \t", "a  \t  b", strings.Repeat(" ", 7) + "\t"} {
				out := op.NormalizeFstab(raw)
				Expect(out).ToNot(ContainSubstring("\t"), raw)
				Expect(out).ToNot(ContainSubstring("  "), raw)
			}
		})
		It("keeps line breaks", func() {
			Expect(strings.Count(op.NormalizeFstab(rawFstab), "\n")).To(Equal(strings.Count(rawFstab, "\n")))
		})
	})

	Context("VerifyFstab", func() {
		It("accepts a table with root and boot", func() {
			Expect(op.VerifyFstab(op.NormalizeFstab(rawFstab), "/", "/boot")).To(Succeed())
		})
		It("reports missing mount points", func() {
			err := op.VerifyFstab("UUID=abc / ext4 rw 0 1\n", "/", "/boot")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("/boot"))
		})
	})
})
