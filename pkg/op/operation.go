package op

import (
	"strings"

	"github.com/containerd/containerd/mount"
	"github.com/kairos-io/archstrap/internal/constants"
	"github.com/kairos-io/archstrap/internal/utils"
)

// MountChecker reports whether path is already a mount point.
type MountChecker func(path string) (bool, error)

// MountOperation mounts MountOption.Source on Target with the mount tool.
type MountOperation struct {
	MountOption     mount.Mount
	Target          string
	PrepareCallback func() error
}

// MountOP describes mounting what on where with options.
func MountOP(what, where, t string, options []string) MountOperation {
	return MountOperation{
		MountOption: mount.Mount{
			Type:    t,
			Source:  what,
			Options: options,
		},
		Target: where,
	}
}

// Args returns the mount tool arguments for the operation.
func (m MountOperation) Args() []string {
	var args []string
	if len(m.MountOption.Options) > 0 {
		args = append(args, "--options", strings.Join(m.MountOption.Options, ","))
	}
	return append(args, m.MountOption.Source, m.Target)
}

// Run runs the prepare callback, refuses to stack a mount over an existing
// mount point and then runs the mount tool.
func (m MountOperation) Run(r utils.Runner, mounted MountChecker) error {
	l := utils.Log.With().Str("what", m.MountOption.Source).Str("where", m.Target).Str("type", m.MountOption.Type).Strs("options", m.MountOption.Options).Logger()

	if m.PrepareCallback != nil {
		if err := m.PrepareCallback(); err != nil {
			l.Warn().Err(err).Msg("executing mount callback")
			return err
		}
	}

	if mounted != nil {
		isMounted, err := mounted(m.Target)
		if err != nil {
			l.Warn().Err(err).Msg("checking mount status")
			return err
		}
		if isMounted {
			l.Warn().Msg("Already mounted")
			return constants.ErrAlreadyMounted
		}
	}

	l.Debug().Msg("mount ready")
	if _, err := r.Run("mount", m.Args()...); err != nil {
		return err
	}
	l.Info().Msg("mount done")
	return nil
}
