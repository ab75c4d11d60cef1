package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kairos-io/archstrap/internal/config"
	"github.com/kairos-io/archstrap/internal/utils"
	"github.com/kairos-io/archstrap/pkg/dag"
	"github.com/kairos-io/archstrap/pkg/op"
	"github.com/kairos-io/archstrap/pkg/probe"
	"github.com/kairos-io/archstrap/pkg/prompt"
	"github.com/kairos-io/archstrap/pkg/schema"
	"github.com/kairos-io/archstrap/pkg/state"
	"github.com/spectrocloud-labs/herd"
	"github.com/twpayne/go-vfs/v4"
)

// Options holds the collaborators of an install run. Zero values fall back to
// the host: stdin/stdout, real tools, the OS filesystem.
type Options struct {
	Config *config.Config
	DryRun bool

	In     io.Reader
	Out    io.Writer
	Runner utils.Runner
	FS     vfs.FS

	// Mounted replaces the mountinfo check, mostly for tests.
	Mounted op.MountChecker
	// Preflight checks the live environment; defaults to probe.Preflight.
	Preflight func(vfs.FS) error
	// Describe labels the disk choices; defaults to probe.DescribeDisks.
	Describe func([]schema.Disk) map[string]string
}

func (o *Options) defaults() {
	if o.Config == nil {
		o.Config = config.Default()
	}
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Runner == nil {
		o.Runner = utils.CommandRunner{}
	}
	if o.FS == nil {
		o.FS = vfs.OSFS
	}
	if o.Preflight == nil {
		o.Preflight = probe.Preflight
	}
	if o.Describe == nil {
		o.Describe = probe.DescribeDisks
	}
}

// Install asks for confirmation, collects the parameters and runs the
// installation chain. A decline returns constants.ErrUserAbort before any
// tool has been run.
func Install(ctx context.Context, o Options) error {
	o.defaults()
	p := prompt.NewPrompter(o.In, o.Out)

	if err := p.ConfirmInstallation(); err != nil {
		return err
	}

	if err := o.Preflight(o.FS); err != nil {
		return err
	}

	disks, err := probe.ListAvailableDisks(o.Runner)
	if err != nil {
		return err
	}
	memory, err := probe.TotalPhysicalMemory(o.Runner)
	if err != nil {
		return err
	}
	utils.Log.Info().Int("disks", len(disks)).Str("memory", memory.String()).Msg("Host probed")

	params, err := p.GatherInstallParameters(disks, o.Describe(disks), memory)
	if err != nil {
		return err
	}
	utils.Log.Info().
		Str("disk", params.InstallDisk().Path()).
		Str("cpu", params.ProcessorBrand().String()).
		Str("memory", params.TotalMemory().String()).
		Msg("Installation parameters")

	s := state.New(o.Config, params)
	s.Runner = o.Runner
	s.FS = o.FS
	if o.Mounted != nil {
		s.Mounted = o.Mounted
	}

	g := herd.DAG()
	if err := dag.RegisterInstall(s, g); err != nil {
		return err
	}
	utils.Log.Info().Msg(s.WriteDAG(g))

	if o.DryRun {
		return nil
	}

	err = g.Run(ctx)
	utils.Log.Info().Msg(s.WriteDAG(g))
	if failure := s.Failure(); failure != nil {
		return failure
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(o.Out, "\nInstallation of %s done. The system can be configured with arch-chroot %s\n", params.InstallDisk(), s.Rootdir)
	return nil
}

// Probe prints the installable disks and the memory size without changing anything.
func Probe(r utils.Runner, out io.Writer, describe func([]schema.Disk) map[string]string) error {
	disks, err := probe.ListAvailableDisks(r)
	if err != nil {
		return err
	}
	memory, err := probe.TotalPhysicalMemory(r)
	if err != nil {
		return err
	}
	descriptions := map[string]string{}
	if describe != nil {
		descriptions = describe(disks)
	}
	for _, d := range disks {
		if desc, ok := descriptions[d.Path()]; ok {
			fmt.Fprintf(out, "%s\t%s\n", d, desc)
			continue
		}
		fmt.Fprintln(out, d)
	}
	fmt.Fprintf(out, "memory\t%s (%d bytes)\n", memory, memory)
	return nil
}
