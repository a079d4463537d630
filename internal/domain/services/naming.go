package services

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultBuildDir is where every stage writes its outputs
const DefaultBuildDir = ".build"

// ArtifactNamer derives the output path of every stage from the product name
type ArtifactNamer struct {
	product  string
	buildDir string
}

// NewArtifactNamer creates a namer for product rooted at buildDir
func NewArtifactNamer(product, buildDir string) *ArtifactNamer {
	if buildDir == "" {
		buildDir = DefaultBuildDir
	}
	return &ArtifactNamer{product: product, buildDir: buildDir}
}

// Binary returns the per-architecture binary path: <buildDir>/<product>-<target>
func (n *ArtifactNamer) Binary(target string) string {
	return filepath.Join(n.buildDir, fmt.Sprintf("%s-%s", n.product, target))
}

// Universal returns the merged binary path
func (n *ArtifactNamer) Universal() string {
	return filepath.Join(n.buildDir, n.product)
}

// ToolchainOutput returns where the Swift toolchain leaves a debug build
func (n *ArtifactNamer) ToolchainOutput() string {
	return filepath.Join(n.buildDir, "debug", n.product)
}

// Installer returns the installer package path
func (n *ArtifactNamer) Installer() string {
	return filepath.Join(n.buildDir, capitalize(n.product)+"-Installer.pkg")
}

// Uninstaller returns the uninstaller package path
func (n *ArtifactNamer) Uninstaller() string {
	return filepath.Join(n.buildDir, capitalize(n.product)+"-Uninstaller.pkg")
}

// Manifest returns the release manifest path
func (n *ArtifactNamer) Manifest() string {
	return filepath.Join(n.buildDir, "release-manifest.yml")
}

// capitalize upper-cases the first rune and lower-cases the rest
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
