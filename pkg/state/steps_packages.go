package state

import (
	"fmt"
	"path/filepath"
	"strconv"

	cnst "github.com/kairos-io/archstrap/internal/constants"
	internalUtils "github.com/kairos-io/archstrap/internal/utils"
	"github.com/kairos-io/archstrap/pkg/op"
	"github.com/samber/lo"
	"github.com/spectrocloud-labs/herd"
)

// UpdateMirrorListDagStep ranks the package mirrors with reflector using the
// configured policy.
func (s *State) UpdateMirrorListDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpUpdateMirrorList, append(opts, herd.WithCallback(s.step(cnst.OpUpdateMirrorList, func() error {
		m := s.Config.Mirrors
		return s.run("reflector",
			"--verbose",
			"--protocol", m.Protocol,
			"--country", m.Country,
			"--latest", strconv.Itoa(m.Latest),
			"--sort", m.Sort,
			"--save", m.Save,
		)
	})))...)
}

// InitKeyringDagStep initializes and populates the pacman keyring.
func (s *State) InitKeyringDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpInitKeyring, append(opts, herd.WithCallback(s.step(cnst.OpInitKeyring, func() error {
		if err := s.run("pacman-key", "--init"); err != nil {
			return err
		}
		return s.run("pacman-key", "--populate", s.Config.Keyring)
	})))...)
}

// Packages returns the packages installed by pacstrap: the base set, the
// configured extras and the vendor microcode when a vendor was picked.
func (s *State) Packages() []string {
	pkgs := append(cnst.BasePackages(), s.Config.ExtraPackages...)
	if ucode, ok := s.Params.ProcessorBrand().MicrocodePackage(); ok {
		pkgs = append(pkgs, ucode)
	}
	return lo.Uniq(pkgs)
}

// InstallBaseDagStep installs the base system into s.Rootdir. It is not
// retried; a mirror hiccup means running the whole install again.
func (s *State) InstallBaseDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpInstallBase, append(opts, herd.WithCallback(s.step(cnst.OpInstallBase, func() error {
		pkgs := s.Packages()
		internalUtils.Log.Info().Strs("packages", pkgs).Msg("Installing base system")
		return s.run("pacstrap", append([]string{s.Rootdir}, pkgs...)...)
	})))...)
}

// GenerateFstabDagStep writes the fstab of the installed system from the
// current mounts. It has to come last, once every mount is in place.
func (s *State) GenerateFstabDagStep(g *herd.Graph, opts ...herd.OpOption) error {
	return g.Add(cnst.OpGenerateFstab, append(opts, herd.WithCallback(s.step(cnst.OpGenerateFstab, func() error {
		if s.Mounted != nil {
			for _, p := range []string{s.Rootdir, s.path(cnst.BootDir)} {
				mounted, err := s.Mounted(p)
				if err != nil {
					return err
				}
				if !mounted {
					return fmt.Errorf("%s is not mounted", p)
				}
			}
		}

		raw, err := s.Runner.Run("genfstab", "-U", s.Rootdir)
		if err != nil {
			return err
		}
		fstab := op.NormalizeFstab(raw)
		if err := op.VerifyFstab(fstab, "/", cnst.BootDir); err != nil {
			return err
		}

		fstabFile := s.path(cnst.FstabFile)
		if err := internalUtils.CreateIfNotExists(s.FS, filepath.Dir(fstabFile), cnst.BootDirMode); err != nil {
			return err
		}
		internalUtils.Log.Debug().Str("content", fstab).Str("path", fstabFile).Msg("Writing fstab")
		return internalUtils.WriteFile(s.FS, fstabFile, fstab)
	})))...)
}
