package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/kairos-io/archstrap/internal/constants"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Target is where the root partition gets mounted.
	Target        string        `yaml:"target"`
	Debug         bool          `yaml:"debug"`
	Mirrors       Mirrors       `yaml:"mirrors"`
	Keyring       string        `yaml:"keyring"`
	ExtraPackages []string      `yaml:"extra_packages,omitempty"`
	PartitionWait PartitionWait `yaml:"partition_wait"`
	System        *System       `yaml:"system,omitempty"`
}

// Mirrors is the reflector selection policy.
type Mirrors struct {
	Protocol string `yaml:"protocol"`
	Country  string `yaml:"country"`
	Latest   int    `yaml:"latest"`
	Sort     string `yaml:"sort"`
	Save     string `yaml:"save"`
}

// PartitionWait bounds the wait for partition device nodes after parted.
type PartitionWait struct {
	Attempts uint          `yaml:"attempts"`
	Delay    time.Duration `yaml:"delay"`
}

// System is the optional configuration applied to the installed system.
type System struct {
	Hostname string   `yaml:"hostname,omitempty"`
	Timezone string   `yaml:"timezone,omitempty"`
	Locales  []string `yaml:"locales,omitempty"`
	Keymap   string   `yaml:"keymap,omitempty"`
}

var (
	hostnameRe = regexp.MustCompile(`^[a-z\d-]+$`)
	localeRe   = regexp.MustCompile(`^\w+$`)
	timezoneRe = regexp.MustCompile(`^[A-Za-z0-9_+-]+(/[A-Za-z0-9_+-]+)*$`)

	sortKeys = map[string]bool{"age": true, "rate": true, "country": true, "score": true, "delay": true}
)

func Default() *Config {
	return &Config{
		Target: constants.DefaultTarget,
		Mirrors: Mirrors{
			Protocol: "https",
			Country:  "France",
			Latest:   10,
			Sort:     "rate",
			Save:     constants.MirrorList,
		},
		Keyring: constants.DefaultKeyring,
		PartitionWait: PartitionWait{
			Attempts: 10,
			Delay:    500 * time.Millisecond,
		},
	}
}

// Load reads the yaml config at path over the defaults. An empty path falls
// back to constants.DefaultConfigFile, and a missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = constants.DefaultConfigFile
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs error

	if !filepath.IsAbs(c.Target) {
		errs = multierror.Append(errs, fmt.Errorf("target %q must be an absolute path", c.Target))
	}
	if c.Mirrors.Latest <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("mirrors.latest must be positive, got %d", c.Mirrors.Latest))
	}
	if !sortKeys[c.Mirrors.Sort] {
		errs = multierror.Append(errs, fmt.Errorf("mirrors.sort %q is not a reflector sort key", c.Mirrors.Sort))
	}
	if c.Mirrors.Country == "" {
		errs = multierror.Append(errs, errors.New("mirrors.country is empty"))
	}
	if c.Mirrors.Protocol == "" {
		errs = multierror.Append(errs, errors.New("mirrors.protocol is empty"))
	}
	if c.Mirrors.Save == "" {
		errs = multierror.Append(errs, errors.New("mirrors.save is empty"))
	}
	if c.Keyring == "" {
		errs = multierror.Append(errs, errors.New("keyring is empty"))
	}
	if c.PartitionWait.Attempts == 0 {
		errs = multierror.Append(errs, errors.New("partition_wait.attempts must be at least 1"))
	}

	if s := c.System; s != nil {
		if s.Hostname != "" && !hostnameRe.MatchString(s.Hostname) {
			errs = multierror.Append(errs, fmt.Errorf("system.hostname %q must match %s", s.Hostname, hostnameRe))
		}
		if s.Timezone != "" && !timezoneRe.MatchString(s.Timezone) {
			errs = multierror.Append(errs, fmt.Errorf("system.timezone %q is not a zoneinfo name", s.Timezone))
		}
		for _, l := range s.Locales {
			if !localeRe.MatchString(l) {
				errs = multierror.Append(errs, fmt.Errorf("system.locales: %q is not a locale name", l))
			}
		}
	}

	return errs
}
