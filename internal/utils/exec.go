package utils

import (
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes an external tool and returns its combined stdout and stderr.
type Runner interface {
	Run(name string, args ...string) (string, error)
}

// CommandError is returned when a tool exits with a non-zero status. The
// combined output is kept verbatim for the operator.
type CommandError struct {
	Cmd    string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("%s: %s", e.Cmd, e.Err)
	}
	return fmt.Sprintf("%s: %s\n%s", e.Cmd, e.Err, out)
}

func (e *CommandError) Unwrap() error { return e.Err }

// CommandLine renders name and args the way an operator would type them.
func CommandLine(name string, args ...string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

// CommandRunner runs tools on the host.
type CommandRunner struct {
	// Env is appended to the environment of every command.
	Env []string
}

func (r CommandRunner) Run(name string, args ...string) (string, error) {
	l := Log.With().Str("cmd", name).Strs("args", args).Logger()
	l.Debug().Msg("running command")

	cmd := exec.Command(name, args...)
	cmd.Env = append(cmd.Environ(), r.Env...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		l.Debug().Str("output", string(out)).Err(err).Msg("command failed")
		return string(out), &CommandError{Cmd: CommandLine(name, args...), Output: string(out), Err: err}
	}
	return string(out), nil
}
