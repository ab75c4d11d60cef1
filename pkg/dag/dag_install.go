package dag

import (
	cnst "github.com/kairos-io/archstrap/internal/constants"
	"github.com/kairos-io/archstrap/pkg/state"
	"github.com/spectrocloud-labs/herd"
)

type dagStep func(g *herd.Graph, opts ...herd.OpOption) error

type chain struct {
	s    *state.State
	g    *herd.Graph
	last string
	err  error
}

// add registers step after the previously added one. Registration stops at
// the first error.
func (c *chain) add(name string, step dagStep, msgContext string) {
	if c.err != nil {
		return
	}
	var opts []herd.OpOption
	if c.last != "" {
		opts = append(opts, herd.WithDeps(c.last))
	}
	if c.err = c.s.LogIfErrorAndReturn(step(c.g, opts...), msgContext); c.err == nil {
		c.last = name
	}
}

// RegisterInstall registers the installation chain. Every step depends on
// the one before it, so a failure leaves the rest of the chain unexecuted.
// The optional system configuration steps sit between the base install and
// the fstab generation, which always comes last.
func RegisterInstall(s *state.State, g *herd.Graph) error {
	c := &chain{s: s, g: g}

	// Host preparation, does not touch the disk
	c.add(cnst.OpStopMirrorService, s.StopMirrorServiceDagStep, "stop mirror service")
	c.add(cnst.OpEnableNTP, s.EnableNTPDagStep, "enable ntp")

	// Disk
	c.add(cnst.OpWipeDisk, s.WipeDiskDagStep, "wipe disk")
	c.add(cnst.OpPartitionDisk, s.PartitionDiskDagStep, "partition disk")
	c.add(cnst.OpFormatPartitions, s.FormatPartitionsDagStep, "format partitions")
	c.add(cnst.OpMountPartitions, s.MountPartitionsDagStep, "mount partitions")
	c.add(cnst.OpCreateSwapfile, s.CreateSwapfileDagStep, "create swapfile")
	c.add(cnst.OpEnableSwap, s.EnableSwapDagStep, "enable swap")

	// Packages
	c.add(cnst.OpUpdateMirrorList, s.UpdateMirrorListDagStep, "update mirror list")
	c.add(cnst.OpInitKeyring, s.InitKeyringDagStep, "init keyring")
	c.add(cnst.OpInstallBase, s.InstallBaseDagStep, "install base system")

	if sys := s.Config.System; sys != nil {
		if sys.Hostname != "" {
			c.add(cnst.OpConfigureHostname, s.ConfigureHostnameDagStep, "configure hostname")
		}
		if sys.Timezone != "" {
			c.add(cnst.OpConfigureTimezone, s.ConfigureTimezoneDagStep, "configure timezone")
		}
		if len(sys.Locales) > 0 {
			c.add(cnst.OpConfigureLocales, s.ConfigureLocalesDagStep, "configure locales")
		}
		if sys.Keymap != "" {
			c.add(cnst.OpConfigureKeymap, s.ConfigureKeymapDagStep, "configure keymap")
		}
	}

	c.add(cnst.OpGenerateFstab, s.GenerateFstabDagStep, "generate fstab")
	return c.err
}
