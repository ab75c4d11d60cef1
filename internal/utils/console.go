package utils

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// StageConsole is the yip console used for the installed system stages. It
// sends every command through Runner so that tools are logged and recorded
// like any other step.
type StageConsole struct {
	Runner Runner
}

// Run splits cmd on whitespace and runs it. The exec options yip passes are
// ignored, the Runner owns the process setup.
func (s StageConsole) Run(cmd string, _ ...func(cmd *exec.Cmd)) (string, error) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return "", errors.New("empty command")
	}
	return s.Runner.Run(fields[0], fields[1:]...)
}

func (s StageConsole) Start(cmd *exec.Cmd, opts ...func(cmd *exec.Cmd)) error {
	for _, o := range opts {
		o(cmd)
	}
	return cmd.Run()
}

func (s StageConsole) RunTemplate(st []string, template string) error {
	var errs error

	for _, svc := range st {
		out, err := s.Run(fmt.Sprintf(template, svc))
		if err != nil {
			Log.Debug().Str("output", out).Msg("Run template")
			errs = multierror.Append(errs, err)
		}
	}
	return errs
}
