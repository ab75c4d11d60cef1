package utils

import (
	"strings"
)

// Chroot runs tools inside the installed system with arch-chroot, which takes
// care of binding /dev, /proc, /sys and /run under the new root.
type Chroot struct {
	path   string
	runner Runner
}

func NewChroot(path string, runner Runner) *Chroot {
	return &Chroot{path: path, runner: runner}
}

// Run executes name with args inside the chroot.
func (c *Chroot) Run(name string, args ...string) (string, error) {
	out, err := c.runner.Run("arch-chroot", append([]string{c.path, name}, args...)...)
	if err != nil {
		Log.Err(err).Str("path", c.path).Str("cmd", CommandLine(name, args...)).Msg("Cant run command on chroot")
	}
	return strings.TrimSpace(out), err
}
