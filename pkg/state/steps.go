package state

import (
	"errors"
	"fmt"

	"github.com/avast/retry-go"
	cnst "github.com/kairos-io/archstrap/internal/constants"
	internalUtils "github.com/kairos-io/archstrap/internal/utils"
	"github.com/kairos-io/archstrap/pkg/op"
	"github.com/kairos-io/archstrap/pkg/schema"
	"github.com/spectrocloud-labs/herd"
)

// StopMirrorServiceDagStep stops the reflector service of the live system so
// it does not rewrite the mirror list behind our back.
func (s *State) StopMirrorServiceDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpStopMirrorService, append(opts, herd.WithCallback(s.step(cnst.OpStopMirrorService, func() error {
		return s.run("systemctl", "stop", cnst.MirrorService)
	})))...)
}

// EnableNTPDagStep turns on network time synchronization. A wrong clock breaks
// signature checks later on, so a failure here stops the install.
func (s *State) EnableNTPDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpEnableNTP, append(opts, herd.WithCallback(s.step(cnst.OpEnableNTP, func() error {
		return s.run("timedatectl", "set-ntp", "1")
	})))...)
}

// WipeDiskDagStep erases every signature on the install disk.
func (s *State) WipeDiskDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpWipeDisk, append(opts, herd.WithCallback(s.step(cnst.OpWipeDisk, func() error {
		disk := s.Params.InstallDisk()
		internalUtils.Log.Info().Str("disk", disk.Path()).Msg("Wiping disk")
		return s.run("wipefs", "--all", disk.Path())
	})))...)
}

// PartitionDiskDagStep writes a GPT label with an EFI system partition and a
// root partition spanning the rest of the disk, then fills s.Partitions.
func (s *State) PartitionDiskDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpPartitionDisk, append(opts, herd.WithCallback(s.step(cnst.OpPartitionDisk, func() error {
		disk := s.Params.InstallDisk().Path()
		for _, args := range [][]string{
			{"mklabel", "gpt"},
			{"mkpart", cnst.BootPartitionName, "fat32", cnst.BootPartitionStart, cnst.BootPartitionEnd},
			{"mkpart", cnst.RootPartitionName, cnst.RootFS, cnst.BootPartitionEnd, cnst.RootPartitionEnd},
			{"set", "1", "esp", "on"},
		} {
			if err := s.run("parted", append([]string{"--script", disk}, args...)...); err != nil {
				return err
			}
		}

		partitions := schema.NewPartitionMap(s.Params.InstallDisk())
		if err := s.waitForPartitions(partitions); err != nil {
			return err
		}
		s.Partitions = partitions
		internalUtils.Log.Debug().Str("boot", partitions.Boot.Path()).Str("root", partitions.Root.Path()).Msg("Partitions ready")
		return nil
	})))...)
}

// waitForPartitions polls until udev has created both partition nodes. The
// partitioning tool is not run again.
func (s *State) waitForPartitions(p schema.PartitionMap) error {
	return retry.Do(
		func() error {
			for _, part := range []schema.Partition{p.Boot, p.Root} {
				if _, err := s.FS.Stat(part.Path()); err != nil {
					return fmt.Errorf("partition %s not ready: %w", part, err)
				}
			}
			return nil
		},
		retry.Attempts(s.Config.PartitionWait.Attempts),
		retry.Delay(s.Config.PartitionWait.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}

// FormatPartitionsDagStep creates a FAT32 filesystem on boot and ext4 on root.
func (s *State) FormatPartitionsDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpFormatPartitions, append(opts, herd.WithCallback(s.step(cnst.OpFormatPartitions, func() error {
		if err := s.run("mkfs.fat", "-F", "32", s.Partitions.Boot.Path()); err != nil {
			return err
		}
		return s.run("mkfs."+cnst.RootFS, s.Partitions.Root.Path())
	})))...)
}

// MountPartitionsDagStep mounts root on s.Rootdir and boot under it. Root has
// to be mounted first, the boot mount point lives on it.
func (s *State) MountPartitionsDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpMountPartitions, append(opts, herd.WithCallback(s.step(cnst.OpMountPartitions, func() error {
		root := op.MountOP(s.Partitions.Root.Path(), s.Rootdir, cnst.RootFS, []string{cnst.MountOptionNoAtime})
		root.PrepareCallback = func() error {
			return internalUtils.CreateIfNotExists(s.FS, s.Rootdir, cnst.BootDirMode)
		}
		if err := root.Run(s.Runner, s.Mounted); err != nil {
			return err
		}

		bootDir := s.path(cnst.BootDir)
		boot := op.MountOP(s.Partitions.Boot.Path(), bootDir, cnst.BootFS, []string{cnst.MountOptionNoAtime})
		boot.PrepareCallback = func() error {
			return internalUtils.CreateIfNotExists(s.FS, bootDir, cnst.BootDirMode)
		}
		return boot.Run(s.Runner, s.Mounted)
	})))...)
}

// CreateSwapfileDagStep allocates a swap file as large as the physical memory.
// The file is made owner-only before mkswap ever sees it.
func (s *State) CreateSwapfileDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpCreateSwapfile, append(opts, herd.WithCallback(s.step(cnst.OpCreateSwapfile, func() error {
		size := s.Params.TotalMemory()
		if size == 0 {
			return errors.New("total memory is zero, cannot size the swap file")
		}
		swapfile := s.SwapfilePath()
		internalUtils.Log.Info().Str("path", swapfile).Str("size", size.String()).Msg("Creating swap file")

		if err := s.run("fallocate", "--length", size.Decimal(), swapfile); err != nil {
			return err
		}
		if err := s.FS.Chmod(swapfile, cnst.SwapfileMode); err != nil {
			return err
		}
		return s.run("mkswap", swapfile)
	})))...)
}

// EnableSwapDagStep activates the swap file.
func (s *State) EnableSwapDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpEnableSwap, append(opts, herd.WithCallback(s.step(cnst.OpEnableSwap, func() error {
		return s.run("swapon", s.SwapfilePath())
	})))...)
}
