package probe_test

import (
	"errors"

	"github.com/kairos-io/archstrap/internal/utils"
	"github.com/kairos-io/archstrap/pkg/probe"
	"github.com/kairos-io/archstrap/tests/mocks"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/twpayne/go-vfs/v4/vfst"
)

const fdiskOutput = `Disk /dev/sdb: 14.32 GiB, 15376000000 bytes, 30031250 sectors
Disk model: Ultra Fit
Units: sectors of 1 * 512 = 512 bytes

Device     Boot   Start      End  Sectors  Size Id Type
/dev/sdb1  *         64  1624063  1624000  793M  0 Empty

Disk /dev/sda: 238.47 GiB, 256060514304 bytes, 500118192 sectors
Disk model: Samsung SSD 860
Disklabel type: gpt

Disk /dev/loop0: 693.18 MiB, 726847488 bytes, 1419624 sectors
Units: sectors of 1 * 512 = 512 bytes

Disk /dev/nvme0n1: 476.94 GiB, 512110190592 bytes, 1000215216 sectors
Disk model: WDC PC SN730

Disk /dev/loop12: 4 KiB, 4096 bytes, 8 sectors
`

const freeOutput = `               total        used        free      shared  buff/cache   available
Mem:      8589934592   613326848  7325220864     1245184   651386880  7735107584
Swap:              0           0           0
`

var _ = Describe("probe", func() {
	var runner *mocks.FakeRunner

	BeforeEach(func() {
		runner = mocks.NewFakeRunner()
	})

	Context("ListAvailableDisks", func() {
		It("lists disks sorted, without loop devices", func() {
			runner.Outputs["fdisk --list"] = fdiskOutput
			disks, err := probe.ListAvailableDisks(runner)
			Expect(err).ToNot(HaveOccurred())
			paths := []string{}
			for _, d := range disks {
				paths = append(paths, d.Path())
			}
			Expect(paths).To(Equal([]string{"/dev/nvme0n1", "/dev/sda", "/dev/sdb"}))
			Expect(runner.Calls()).To(Equal([]string{"fdisk --list"}))
		})
		It("never lists loop devices", func() {
			disks := probe.ParseDisks("Disk /dev/loop0: 1 MiB\nDisk /dev/loop1: 1 MiB\n")
			Expect(disks).To(BeEmpty())
		})
		It("lists each disk once", func() {
			disks := probe.ParseDisks("Disk /dev/sda: 1 GiB\nDisk /dev/sda: 1 GiB\n")
			Expect(disks).To(HaveLen(1))
		})
		It("ignores partition lines", func() {
			disks := probe.ParseDisks("/dev/sda1  2048  4095  2048  1M EFI System\n")
			Expect(disks).To(BeEmpty())
		})
		It("returns a probe error when fdisk fails", func() {
			runner.Failures["fdisk"] = "fdisk: cannot open /dev/sda: Permission denied"
			_, err := probe.ListAvailableDisks(runner)
			var probeErr *probe.ProbeError
			Expect(errors.As(err, &probeErr)).To(BeTrue())
			var cmdErr *utils.CommandError
			Expect(errors.As(err, &cmdErr)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("Permission denied"))
		})
	})

	Context("TotalPhysicalMemory", func() {
		It("reads the total of the Mem: line", func() {
			runner.Outputs["free --bytes"] = freeOutput
			mem, err := probe.TotalPhysicalMemory(runner)
			Expect(err).ToNot(HaveOccurred())
			Expect(uint64(mem)).To(Equal(uint64(8589934592)))
		})
		It("fails when there is no Mem: line", func() {
			_, err := probe.ParseMemory("Swap: 0 0 0\n")
			var probeErr *probe.ProbeError
			Expect(errors.As(err, &probeErr)).To(BeTrue())
			Expect(probeErr.What).To(Equal("memory"))
		})
		It("rejects a total that does not fit a file length", func() {
			_, err := probe.ParseMemory("Mem: 18446744073709551615 1 2\n")
			var probeErr *probe.ProbeError
			Expect(errors.As(err, &probeErr)).To(BeTrue())

			mem, err := probe.ParseMemory("Mem: 9223372036854775807 1 2\n")
			Expect(err).ToNot(HaveOccurred())
			Expect(mem.Decimal()).To(Equal("9223372036854775807"))
		})
		It("returns a probe error when free fails", func() {
			runner.Failures["free"] = "free: command not found"
			_, err := probe.TotalPhysicalMemory(runner)
			var probeErr *probe.ProbeError
			Expect(errors.As(err, &probeErr)).To(BeTrue())
		})
	})

	Context("Preflight", func() {
		It("accepts an arch live environment booted with UEFI", func() {
			fs, cleanup, err := vfst.NewTestFS(map[string]interface{}{
				"/etc/os-release":             "NAME=\"Arch Linux\"\nID=arch\nBUILD_ID=rolling\n",
				"/sys/firmware/efi/fw_vendor": "",
			})
			Expect(err).ToNot(HaveOccurred())
			defer cleanup()
			Expect(probe.Preflight(fs)).To(Succeed())
		})
		It("rejects other distributions", func() {
			fs, cleanup, err := vfst.NewTestFS(map[string]interface{}{
				"/etc/os-release":             "NAME=\"Ubuntu\"\nID=ubuntu\n",
				"/sys/firmware/efi/fw_vendor": "",
			})
			Expect(err).ToNot(HaveOccurred())
			defer cleanup()
			err = probe.Preflight(fs)
			var probeErr *probe.ProbeError
			Expect(errors.As(err, &probeErr)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("ubuntu"))
		})
		It("rejects a legacy BIOS boot", func() {
			fs, cleanup, err := vfst.NewTestFS(map[string]interface{}{
				"/etc/os-release": "ID=arch\n",
			})
			Expect(err).ToNot(HaveOccurred())
			defer cleanup()
			err = probe.Preflight(fs)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("UEFI"))
		})
	})
})
