// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gestalt

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/MovingBlocks/gestalt-sub000/internal/fs"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ConfigName is the conventional configuration file name.
const ConfigName = "gestalt.toml"

// Config describes where modules come from and how they are resolved.
type Config struct {
	// RegistryDir is the directory scanned for module manifests.
	RegistryDir string
	// CachePath is an optional Bolt database that archives every module seen
	// in RegistryDir, so that modules stay resolvable after their manifests
	// are removed.
	CachePath string

	IncludeOptional bool
	Trace           bool

	// Feedback reports the version selected for every module after each
	// successful resolution.
	Feedback bool
	LogLevel logrus.Level
}

// NewConfig returns a Config for dir with default settings.
func NewConfig(dir string) *Config {
	return &Config{
		RegistryDir: dir,
		LogLevel:    logrus.WarnLevel,
	}
}

type rawConfig struct {
	Registry rawRegistry `toml:"registry"`
	Resolve  rawResolve  `toml:"resolve"`
}

type rawRegistry struct {
	Dir   string `toml:"dir"`
	Cache string `toml:"cache,omitempty"`
}

type rawResolve struct {
	IncludeOptional bool   `toml:"include-optional"`
	Trace           bool   `toml:"trace"`
	Feedback        bool   `toml:"feedback"`
	LogLevel        string `toml:"log-level,omitempty"`
}

// readConfig returns a Config read from r.
func readConfig(r io.Reader) (*Config, error) {
	buf := &bytes.Buffer{}
	_, err := buf.ReadFrom(r)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to read byte stream")
	}
	raw := rawConfig{}
	err = toml.Unmarshal(buf.Bytes(), &raw)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to parse the config as TOML")
	}

	c := NewConfig(raw.Registry.Dir)
	c.CachePath = raw.Registry.Cache
	c.IncludeOptional = raw.Resolve.IncludeOptional
	c.Trace = raw.Resolve.Trace
	c.Feedback = raw.Resolve.Feedback
	if raw.Resolve.LogLevel != "" {
		c.LogLevel, err = logrus.ParseLevel(raw.Resolve.LogLevel)
		if err != nil {
			return nil, errors.Wrap(err, "invalid log-level")
		}
	}

	return c, c.validate()
}

// ReadConfigFile reads the config at path. Relative registry and cache paths
// are taken relative to the directory holding the file.
func ReadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open config %s", path)
	}
	defer f.Close()

	c, err := readConfig(f)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}

	base := filepath.Dir(path)
	if !filepath.IsAbs(c.RegistryDir) {
		c.RegistryDir = filepath.Join(base, c.RegistryDir)
	}
	if c.CachePath != "" && !filepath.IsAbs(c.CachePath) {
		c.CachePath = filepath.Join(base, c.CachePath)
	}
	return c, errors.Wrapf(c.validate(), "invalid config %s", path)
}

func (c *Config) validate() error {
	if c.RegistryDir == "" {
		return errors.New("registry dir must be set")
	}
	if c.CachePath == "" {
		return nil
	}

	cache, err := filepath.Abs(c.CachePath)
	if err != nil {
		return errors.Wrapf(err, "unable to resolve registry cache path")
	}
	dir, err := filepath.Abs(c.RegistryDir)
	if err != nil {
		return errors.Wrapf(err, "unable to resolve registry dir")
	}
	// Writes to the cache would otherwise wake the registry's watcher.
	if fs.HasFilepathPrefix(cache, dir) {
		return errors.Errorf("registry cache %s must not be inside the registry dir %s", c.CachePath, c.RegistryDir)
	}
	return nil
}

// toRaw converts the config into a representation suitable to write to the config file
func (c *Config) toRaw() rawConfig {
	return rawConfig{
		Registry: rawRegistry{
			Dir:   c.RegistryDir,
			Cache: c.CachePath,
		},
		Resolve: rawResolve{
			IncludeOptional: c.IncludeOptional,
			Trace:           c.Trace,
			Feedback:        c.Feedback,
			LogLevel:        c.LogLevel.String(),
		},
	}
}

// MarshalTOML serializes this config into TOML via an intermediate raw form.
func (c *Config) MarshalTOML() ([]byte, error) {
	raw := c.toRaw()
	result, err := toml.Marshal(raw)
	return result, errors.Wrap(err, "Unable to marshal config to TOML string")
}

// WriteFile atomically writes the config to path.
func (c *Config) WriteFile(path string) error {
	b, err := c.MarshalTOML()
	if err != nil {
		return err
	}
	return fs.WriteFileAtomic(path, b, 0644)
}
