package state

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	cnst "github.com/kairos-io/archstrap/internal/constants"
	internalUtils "github.com/kairos-io/archstrap/internal/utils"
	yipSchema "github.com/mudler/yip/pkg/schema"
	"github.com/spectrocloud-labs/herd"
)

const hostsTemplate = `
127.0.0.1 localhost
::1 localhost
127.0.1.1 %[1]s.localdomain %[1]s
`

// ConfigureHostnameDagStep writes /etc/hostname and /etc/hosts of the installed
// system. yip's hostname plugin is not used, it renames the live host too.
func (s *State) ConfigureHostnameDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpConfigureHostname, append(opts, herd.WithCallback(s.step(cnst.OpConfigureHostname, func() error {
		hostname := s.Config.System.Hostname
		return s.applyStage(cnst.OpConfigureHostname, yipSchema.Stage{
			Files: []yipSchema.File{
				stageFile("/etc/hostname", hostname),
				stageFile("/etc/hosts", fmt.Sprintf(hostsTemplate, hostname)),
			},
		})
	})))...)
}

// ConfigureTimezoneDagStep points /etc/localtime of the installed system at the zoneinfo file.
func (s *State) ConfigureTimezoneDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpConfigureTimezone, append(opts, herd.WithCallback(s.step(cnst.OpConfigureTimezone, func() error {
		zoneinfo := filepath.Join("/usr/share/zoneinfo", s.Config.System.Timezone)
		if _, err := s.FS.Stat(s.path(zoneinfo)); err != nil {
			return fmt.Errorf("unknown timezone %s: %w", s.Config.System.Timezone, err)
		}
		localtime := s.path("/etc/localtime")
		if err := s.FS.Remove(localtime); err != nil && !os.IsNotExist(err) {
			return err
		}
		// relative to the installed root, not to ours
		return s.FS.Symlink(zoneinfo, localtime)
	})))...)
}

// ConfigureLocalesDagStep enables the configured UTF-8 locales in locale.gen,
// generates them and makes the first one the system language.
func (s *State) ConfigureLocalesDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpConfigureLocales, append(opts, herd.WithCallback(s.step(cnst.OpConfigureLocales, func() error {
		locales := s.Config.System.Locales
		for _, locale := range locales {
			re := regexp.MustCompile(fmt.Sprintf(`^#(%s\.UTF-8 UTF-8 *)$`, regexp.QuoteMeta(locale)))
			if err := internalUtils.ReplaceInFile(s.FS, s.path("/etc/locale.gen"), re, "$1"); err != nil {
				return err
			}
		}

		lang := locales[0]
		conf := fmt.Sprintf("LANG=%s.UTF-8\nLANGUAGE=%s:%s", lang, lang, strings.SplitN(lang, "_", 2)[0])
		return s.applyStage(cnst.OpConfigureLocales, yipSchema.Stage{
			Files:    []yipSchema.File{stageFile("/etc/locale.conf", conf)},
			Commands: []string{"locale-gen"},
		})
	})))...)
}

// ConfigureKeymapDagStep sets the console keymap of the installed system.
func (s *State) ConfigureKeymapDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpConfigureKeymap, append(opts, herd.WithCallback(s.step(cnst.OpConfigureKeymap, func() error {
		return s.applyStage(cnst.OpConfigureKeymap, yipSchema.Stage{
			Files: []yipSchema.File{stageFile("/etc/vconsole.conf", "KEYMAP="+s.Config.System.Keymap)},
		})
	})))...)
}
