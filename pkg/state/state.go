package state

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/kairos-io/archstrap/internal/config"
	cnst "github.com/kairos-io/archstrap/internal/constants"
	internalUtils "github.com/kairos-io/archstrap/internal/utils"
	"github.com/kairos-io/archstrap/pkg/op"
	"github.com/kairos-io/archstrap/pkg/schema"
	"github.com/moby/sys/mountinfo"
	"github.com/spectrocloud-labs/herd"
	"github.com/twpayne/go-vfs/v4"
)

// State is the installation state. Only the registered steps mutate it, one
// at a time, in dependency order.
type State struct {
	Rootdir    string                     // where the root partition is mounted e.g. /mnt
	Params     schema.BootstrapParameters // frozen before the first step runs
	Partitions schema.PartitionMap        // set by the partition step
	Config     *config.Config

	Runner  internalUtils.Runner
	FS      vfs.FS
	Mounted op.MountChecker // defaults to mountinfo on the host

	failure error
}

// New returns a State running tools on the host.
func New(cfg *config.Config, params schema.BootstrapParameters) *State {
	s := &State{
		Rootdir: cfg.Target,
		Params:  params,
		Config:  cfg,
		Runner:  internalUtils.CommandRunner{},
		FS:      vfs.OSFS,
	}
	s.Mounted = s.hostMounted
	return s
}

func (s *State) hostMounted(path string) (bool, error) {
	raw, err := s.FS.RawPath(path)
	if err != nil {
		return false, err
	}
	return mountinfo.Mounted(raw)
}

func (s *State) path(p ...string) string {
	return filepath.Join(append([]string{s.Rootdir}, p...)...)
}

// SwapfilePath is the swap file inside the target root.
func (s *State) SwapfilePath() string {
	return s.path(cnst.SwapfileName)
}

// Failure returns the error of the step that stopped the run, if any.
func (s *State) Failure() error {
	return s.failure
}

// step wraps fn so that it never runs once another step has failed, and
// records its own failure.
func (s *State) step(name string, fn func() error) func(context.Context) error {
	return func(ctx context.Context) error {
		l := internalUtils.Log.With().Str("step", name).Logger()
		if s.failure != nil {
			l.Debug().Msg("Skipping, a previous step failed")
			return fmt.Errorf("%s: %w", name, cnst.ErrPreviousStepFailed)
		}
		if err := ctx.Err(); err != nil {
			s.failure = fmt.Errorf("%s: %w", name, err)
			return s.failure
		}

		l.Info().Msg("Starting")
		if err := fn(); err != nil {
			s.failure = fmt.Errorf("%s: %w", name, err)
			l.Err(err).Msg("Step failed")
			return s.failure
		}
		l.Info().Msg("Done")
		return nil
	}
}

// run executes a tool and drops its output, which is already logged on failure.
func (s *State) run(name string, args ...string) error {
	_, err := s.Runner.Run(name, args...)
	return err
}

// WriteDAG writes the dag.
func (s *State) WriteDAG(g *herd.Graph) (out string) {
	for i, layer := range g.Analyze() {
		out += fmt.Sprintf("%d.\n", i+1)
		for _, op := range layer {
			if op.Error != nil {
				out += fmt.Sprintf(" <%s> (error: %s) (run: %t)\n", op.Name, op.Error.Error(), op.Executed)
			} else {
				out += fmt.Sprintf(" <%s> (run: %t)\n", op.Name, op.Executed)
			}
		}
	}
	return
}

// LogIfError will log if there is an error with the given context as message
// Context can be empty.
func (s *State) LogIfError(e error, msgContext string) {
	if e != nil {
		internalUtils.Log.Err(e).Msg(msgContext)
	}
}

// LogIfErrorAndReturn will log if there is an error with the given context as message
// Context can be empty
// Will also return the error.
func (s *State) LogIfErrorAndReturn(e error, msgContext string) error {
	if e != nil {
		internalUtils.Log.Err(e).Msg(msgContext)
	}
	return e
}
