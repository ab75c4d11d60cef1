package state

import (
	"os"
	"strings"

	internalUtils "github.com/kairos-io/archstrap/internal/utils"
	"github.com/mudler/yip/pkg/executor"
	"github.com/mudler/yip/pkg/plugins"
	yipSchema "github.com/mudler/yip/pkg/schema"
	"github.com/twpayne/go-vfs/v4"
)

// applyStage applies stage to the installed system: file paths are taken
// relative to s.Rootdir and commands run inside it with arch-chroot. Only the files and
// commands plugins are enabled, the others (hostname, users, services...)
// act on the live host.
func (s *State) applyStage(name string, stage yipSchema.Stage) error {
	yip := executor.NewExecutor(
		executor.WithLogger(internalUtils.StageLogger{}),
		executor.WithPlugins(plugins.EnsureFiles, plugins.Commands),
	)
	stage.Name = name
	cfg := yipSchema.YipConfig{
		Name:   name,
		Stages: map[string][]yipSchema.Stage{name: {stage}},
	}
	return yip.Apply(name, cfg, vfs.NewPathFS(s.FS, s.Rootdir), internalUtils.StageConsole{Runner: internalUtils.NewChroot(s.Rootdir, s.Runner)})
}

// stageFile is a 0644 text file owned by the installing user, trimmed and
// ending with one newline.
func stageFile(path, content string) yipSchema.File {
	return yipSchema.File{
		Path:        path,
		Content:     strings.TrimSpace(content) + "\n",
		Permissions: 0o644,
		Owner:       os.Getuid(),
		Group:       os.Getgid(),
	}
}
