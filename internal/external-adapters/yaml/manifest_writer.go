package yaml

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/khronokernel/dcbuild/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// yamlManifest is the on-disk layout of a release manifest
type yamlManifest struct {
	Product   string         `yaml:"product"`
	Version   string         `yaml:"version"`
	BuiltAt   time.Time      `yaml:"built_at"`
	Signing   yamlSigning    `yaml:"signing"`
	Archs     []string       `yaml:"archs,omitempty"`
	Artifacts []yamlArtifact `yaml:"artifacts"`
	Stages    []string       `yaml:"stages"`
	Skipped   []string       `yaml:"skipped,omitempty"`
}

type yamlSigning struct {
	Executable          bool `yaml:"executable"`
	ExecutableNotarized bool `yaml:"executable_notarized"`
	Packages            bool `yaml:"packages"`
	PackagesNotarized   bool `yaml:"packages_notarized"`
}

type yamlArtifact struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Target string `yaml:"target,omitempty"`
	Path   string `yaml:"path"`
	SHA256 string `yaml:"sha256,omitempty"`
}

// ManifestWriter implements repositories.ManifestWriter as a YAML file
type ManifestWriter struct{}

// NewManifestWriter creates a new manifest writer
func NewManifestWriter() *ManifestWriter {
	return &ManifestWriter{}
}

// WriteManifest encodes manifest to path, replacing any previous manifest
func (w *ManifestWriter) WriteManifest(_ context.Context, path string, manifest *entities.ReleaseManifest) error {
	doc := yamlManifest{
		Product: manifest.Product,
		Version: manifest.Version,
		BuiltAt: manifest.BuiltAt,
		Signing: yamlSigning{
			Executable:          manifest.Signed,
			ExecutableNotarized: manifest.Notarized,
			Packages:            manifest.PkgSigned,
			PackagesNotarized:   manifest.PkgNotarized,
		},
		Archs:   manifest.Archs,
		Stages:  manifest.Stages,
		Skipped: manifest.Skipped,
	}
	for _, a := range manifest.Artifacts {
		doc.Artifacts = append(doc.Artifacts, yamlArtifact{
			Name:   a.Name,
			Kind:   string(a.Kind),
			Target: a.Target,
			Path:   a.Path,
			SHA256: a.SHA256,
		})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
