// Package entities defines core domain models and data structures.
package entities

// ArtifactKind classifies a build product by the stage that created it
type ArtifactKind string

// Artifact kinds produced by the release pipeline
const (
	ArtifactBinary      ArtifactKind = "binary"
	ArtifactUniversal   ArtifactKind = "universal"
	ArtifactInstaller   ArtifactKind = "installer"
	ArtifactUninstaller ArtifactKind = "uninstaller"
)

// Artifact represents a build product on disk. Its identity is the path.
type Artifact struct {
	Name   string
	Kind   ArtifactKind
	Target string // target triple, only set for per-architecture binaries
	Path   string
	SHA256 string // filled in once checksums are generated
}
