package probe

import (
	"errors"
	"fmt"

	"github.com/docker/go-units"
	"github.com/foxboron/go-uefi/efi"
	"github.com/jaypipes/ghw"
	"github.com/joho/godotenv"
	"github.com/kairos-io/archstrap/internal/constants"
	"github.com/kairos-io/archstrap/internal/utils"
	"github.com/kairos-io/archstrap/pkg/schema"
	"github.com/twpayne/go-vfs/v4"
)

// Preflight checks that we run on an Arch live environment booted in UEFI
// mode. Secure Boot only raises a warning.
func Preflight(fs vfs.FS) error {
	osRelease, err := fs.RawPath(constants.OsRelease)
	if err != nil {
		return &ProbeError{What: "os-release", Err: err}
	}
	env, err := godotenv.Read(osRelease)
	if err != nil {
		return &ProbeError{What: "os-release", Err: err}
	}
	if env["ID"] != "arch" {
		return &ProbeError{What: "os-release", Err: fmt.Errorf("live environment is %q, expected arch", env["ID"])}
	}

	if _, err := fs.Stat(constants.EfiDir); err != nil {
		return &ProbeError{What: "firmware", Err: errors.New("not booted in UEFI mode")}
	}

	if efi.GetSecureBoot() {
		utils.Log.Warn().Msg("Secure Boot is enabled, the installed system will not boot until it is disabled")
	}
	return nil
}

// DescribeDisks returns a short "size model" label per disk path. Disks ghw
// cannot see are left out.
func DescribeDisks(disks []schema.Disk) map[string]string {
	res := map[string]string{}
	blk, err := ghw.Block()
	if err != nil {
		utils.Log.Debug().Err(err).Msg("Could not read block devices")
		return res
	}
	for _, d := range disks {
		for _, b := range blk.Disks {
			if "/dev/"+b.Name != d.Path() {
				continue
			}
			label := units.BytesSize(float64(b.SizeBytes))
			if b.Model != "" && b.Model != "unknown" {
				label = fmt.Sprintf("%s %s", label, b.Model)
			}
			res[d.Path()] = label
		}
	}
	return res
}
