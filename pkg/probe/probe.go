package probe

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"

	"github.com/kairos-io/archstrap/internal/utils"
	"github.com/kairos-io/archstrap/pkg/schema"
	"github.com/samber/lo"
)

var (
	diskLineRe = regexp.MustCompile(`(?m)^Disk (` + schema.DiskPathPattern + `):`)
	memLineRe  = regexp.MustCompile(`(?m)^Mem: +(\d+) `)
)

// ProbeError means the host could not be inspected or reported something we
// cannot interpret. It is never retried.
type ProbeError struct {
	What string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probing %s: %s", e.What, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// ListAvailableDisks returns the installable disks reported by fdisk, sorted
// by path. Loop devices are never included.
func ListAvailableDisks(r utils.Runner) ([]schema.Disk, error) {
	out, err := r.Run("fdisk", "--list")
	if err != nil {
		return nil, &ProbeError{What: "disks", Err: err}
	}
	return ParseDisks(out), nil
}

// ParseDisks extracts disks from fdisk --list output.
func ParseDisks(fdiskOutput string) []schema.Disk {
	paths := lo.Map(diskLineRe.FindAllStringSubmatch(fdiskOutput, -1), func(m []string, _ int) string {
		return m[1]
	})
	paths = lo.Uniq(lo.Reject(paths, func(p string, _ int) bool { return schema.IsLoop(p) }))
	sort.Strings(paths)

	disks := make([]schema.Disk, 0, len(paths))
	for _, p := range paths {
		d, err := schema.NewDisk(p)
		if err != nil {
			utils.Log.Debug().Err(err).Str("path", p).Msg("Skipping disk")
			continue
		}
		disks = append(disks, d)
	}
	return disks
}

// TotalPhysicalMemory returns the total memory reported by free --bytes.
func TotalPhysicalMemory(r utils.Runner) (schema.ByteCount, error) {
	out, err := r.Run("free", "--bytes")
	if err != nil {
		return 0, &ProbeError{What: "memory", Err: err}
	}
	return ParseMemory(out)
}

// ParseMemory reads the total column of the Mem: line of free --bytes output.
func ParseMemory(freeOutput string) (schema.ByteCount, error) {
	m := memLineRe.FindStringSubmatch(freeOutput)
	if m == nil {
		return 0, &ProbeError{What: "memory", Err: fmt.Errorf("no Mem: line in free output")}
	}
	n, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, &ProbeError{What: "memory", Err: err}
	}
	// the swap file is sized from it and file lengths are signed
	if n > math.MaxInt64 {
		return 0, &ProbeError{What: "memory", Err: fmt.Errorf("total %d does not fit a file length", n)}
	}
	return schema.ByteCount(n), nil
}
