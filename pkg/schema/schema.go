package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/deniswernert/go-fstab"
	"github.com/docker/go-units"
)

// DiskPathPattern matches whole-disk device paths: sda, vda, nvme0n1, mmcblk0...
const DiskPathPattern = `/dev/(?:[a-z]+|nvme\d+n\d+|mmcblk\d+)`

var (
	diskPathRe = regexp.MustCompile(`^` + DiskPathPattern + `$`)
	loopRe     = regexp.MustCompile(`^/dev/loop\d+$`)
)

// Disk is a whole block device, e.g. /dev/sda.
type Disk struct {
	path string
}

// NewDisk validates the path against DiskPathPattern. Loop devices are rejected.
func NewDisk(path string) (Disk, error) {
	if loopRe.MatchString(path) {
		return Disk{}, fmt.Errorf("invalid disk path %q: loop devices are not installable", path)
	}
	if !diskPathRe.MatchString(path) {
		return Disk{}, fmt.Errorf("invalid disk path %q", path)
	}
	return Disk{path: path}, nil
}

func (d Disk) Path() string   { return d.path }
func (d Disk) String() string { return d.path }

// IsLoop reports whether the path names a loopback device.
func IsLoop(path string) bool {
	return loopRe.MatchString(path)
}

// Partition returns the n-th partition of the disk. Disks whose name ends
// with a digit (nvme0n1, mmcblk0) get a "p" separator.
func (d Disk) Partition(n int) Partition {
	if d.path == "" {
		return Partition{}
	}
	sep := ""
	if last := d.path[len(d.path)-1]; last >= '0' && last <= '9' {
		sep = "p"
	}
	return Partition{path: fmt.Sprintf("%s%s%d", d.path, sep, n), disk: d}
}

// Partition is a partition device path together with its parent disk.
type Partition struct {
	path string
	disk Disk
}

func (p Partition) Path() string   { return p.path }
func (p Partition) Disk() Disk     { return p.disk }
func (p Partition) String() string { return p.path }

// PartitionMap holds the two partitions created on the install disk.
type PartitionMap struct {
	Boot Partition
	Root Partition
}

// NewPartitionMap derives the boot (1) and root (2) partitions of disk.
func NewPartitionMap(disk Disk) PartitionMap {
	return PartitionMap{
		Boot: disk.Partition(1),
		Root: disk.Partition(2),
	}
}

// ByteCount is a storage or memory quantity in bytes.
type ByteCount uint64

// Decimal renders the count in plain bytes, as tools take it on the command line.
func (b ByteCount) Decimal() string { return strconv.FormatUint(uint64(b), 10) }

func (b ByteCount) String() string {
	return units.BytesSize(float64(b))
}

// ProcessorBrand selects the vendor microcode package. The zero value is
// NoProcessorBrand.
type ProcessorBrand struct {
	vendor string
}

var (
	NoProcessorBrand = ProcessorBrand{}
	AMD              = ProcessorBrand{vendor: "amd"}
	Intel            = ProcessorBrand{vendor: "intel"}
)

// NoProcessorBrandChoice is the answer that selects no vendor microcode.
const NoProcessorBrandChoice = "other"

// ProcessorBrands lists the known vendors in prompt order.
func ProcessorBrands() []ProcessorBrand {
	return []ProcessorBrand{AMD, Intel}
}

// ParseProcessorBrand maps a prompt answer to a brand. "other" yields
// NoProcessorBrand.
func ParseProcessorBrand(s string) (ProcessorBrand, bool) {
	s = strings.TrimSpace(s)
	if s == NoProcessorBrandChoice {
		return NoProcessorBrand, true
	}
	for _, b := range ProcessorBrands() {
		if b.vendor == s {
			return b, true
		}
	}
	return NoProcessorBrand, false
}

// MicrocodePackage returns the microcode package for the vendor, and false
// when no vendor was selected.
func (p ProcessorBrand) MicrocodePackage() (string, bool) {
	if p.vendor == "" {
		return "", false
	}
	return p.vendor + "-ucode", true
}

func (p ProcessorBrand) String() string {
	if p.vendor == "" {
		return NoProcessorBrandChoice
	}
	return p.vendor
}

// BootstrapParameters is the snapshot of user and host decisions taken
// before any destructive step. It has no setters.
type BootstrapParameters struct {
	installDisk    Disk
	processorBrand ProcessorBrand
	totalMemory    ByteCount
}

func NewBootstrapParameters(disk Disk, brand ProcessorBrand, memory ByteCount) BootstrapParameters {
	return BootstrapParameters{
		installDisk:    disk,
		processorBrand: brand,
		totalMemory:    memory,
	}
}

func (b BootstrapParameters) InstallDisk() Disk              { return b.installDisk }
func (b BootstrapParameters) ProcessorBrand() ProcessorBrand { return b.processorBrand }
func (b BootstrapParameters) TotalMemory() ByteCount         { return b.totalMemory }

// FsTabs is a parsed fstab.
type FsTabs []*fstab.Mount
