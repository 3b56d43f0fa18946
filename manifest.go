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
	"github.com/MovingBlocks/gestalt-sub000/resolver"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Manifest file names recognized by the directory registry.
const (
	ManifestTOML = "module.toml"
	ManifestYAML = "module.yaml"
	ManifestYML  = "module.yml"
)

// ManifestFormat identifies the encoding of a module manifest.
type ManifestFormat int

const (
	// FormatTOML is the TOML manifest encoding.
	FormatTOML ManifestFormat = iota
	// FormatYAML is the YAML manifest encoding.
	FormatYAML
)

func (f ManifestFormat) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// IsManifestName reports whether a file with the given base name is a module
// manifest, and in which format.
func IsManifestName(name string) (ManifestFormat, bool) {
	switch name {
	case ManifestTOML:
		return FormatTOML, true
	case ManifestYAML, ManifestYML:
		return FormatYAML, true
	}
	return 0, false
}

type rawManifest struct {
	ID           string          `toml:"id" yaml:"id"`
	Version      string          `toml:"version" yaml:"version"`
	Dependencies []rawDependency `toml:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

type rawDependency struct {
	ID         string `toml:"id" yaml:"id"`
	MinVersion string `toml:"minVersion" yaml:"minVersion"`
	MaxVersion string `toml:"maxVersion,omitempty" yaml:"maxVersion,omitempty"`
	Optional   bool   `toml:"optional,omitempty" yaml:"optional,omitempty"`
}

// ReadManifest reads one module manifest in the given format.
func ReadManifest(r io.Reader, format ManifestFormat) (resolver.Module, error) {
	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(r); err != nil {
		return resolver.Module{}, errors.Wrap(err, "Unable to read byte stream")
	}

	raw := rawManifest{}
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(buf.Bytes(), &raw)
	case FormatYAML:
		err = yaml.Unmarshal(buf.Bytes(), &raw)
	default:
		return resolver.Module{}, errors.Errorf("unknown manifest format %d", format)
	}
	if err != nil {
		return resolver.Module{}, errors.Wrapf(err, "Unable to parse the manifest as %s", format)
	}

	return fromRaw(raw)
}

// ReadManifestFile reads the manifest at path, choosing the format by file
// name. Errors name the offending file.
func ReadManifestFile(path string) (resolver.Module, error) {
	format, ok := IsManifestName(filepath.Base(path))
	if !ok {
		switch filepath.Ext(path) {
		case ".toml":
			format = FormatTOML
		case ".yaml", ".yml":
			format = FormatYAML
		default:
			return resolver.Module{}, errors.Errorf("%s is not a recognized manifest file", path)
		}
	}

	if ok, err := fs.IsRegular(path); err != nil {
		return resolver.Module{}, errors.Wrap(err, "invalid manifest")
	} else if !ok {
		return resolver.Module{}, errors.Errorf("manifest %s does not exist", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return resolver.Module{}, errors.Wrapf(err, "unable to open manifest %s", path)
	}
	defer f.Close()

	m, err := ReadManifest(f, format)
	return m, errors.Wrapf(err, "invalid manifest %s", path)
}

func fromRaw(raw rawManifest) (resolver.Module, error) {
	if raw.ID == "" {
		return resolver.Module{}, errors.New("manifest has no module id")
	}
	v, err := resolver.ParseVersion(raw.Version)
	if err != nil {
		return resolver.Module{}, errors.Wrapf(err, "module %s", raw.ID)
	}

	deps := make([]resolver.DependencyInfo, 0, len(raw.Dependencies))
	for i, rd := range raw.Dependencies {
		if rd.ID == "" {
			return resolver.Module{}, errors.Errorf("module %s: dependency %d has no id", raw.ID, i)
		}
		d := resolver.DependencyInfo{
			ID:       resolver.Name(rd.ID),
			Optional: rd.Optional,
		}
		if d.MinVersion, err = resolver.ParseVersion(rd.MinVersion); err != nil {
			return resolver.Module{}, errors.Wrapf(err, "module %s: minimum version of %s", raw.ID, rd.ID)
		}
		if rd.MaxVersion != "" {
			if d.MaxVersion, err = resolver.ParseVersion(rd.MaxVersion); err != nil {
				return resolver.Module{}, errors.Wrapf(err, "module %s: maximum version of %s", raw.ID, rd.ID)
			}
		}
		deps = append(deps, d)
	}

	return resolver.NewModule(resolver.Name(raw.ID), v, deps...), nil
}

func toRaw(m resolver.Module) rawManifest {
	raw := rawManifest{
		ID:      string(m.ID()),
		Version: m.Version().String(),
	}
	for _, d := range m.Dependencies() {
		rd := rawDependency{
			ID:         string(d.ID),
			MinVersion: d.MinVersion.String(),
			Optional:   d.Optional,
		}
		if !d.MaxVersion.IsZero() {
			rd.MaxVersion = d.MaxVersion.String()
		}
		raw.Dependencies = append(raw.Dependencies, rd)
	}
	return raw
}

// MarshalManifest serializes m in the given format.
func MarshalManifest(m resolver.Module, format ManifestFormat) ([]byte, error) {
	raw := toRaw(m)
	switch format {
	case FormatTOML:
		b, err := toml.Marshal(raw)
		return b, errors.Wrap(err, "Unable to marshal the manifest to TOML")
	case FormatYAML:
		b, err := yaml.Marshal(raw)
		return b, errors.Wrap(err, "Unable to marshal the manifest to YAML")
	}
	return nil, errors.Errorf("unknown manifest format %d", format)
}
