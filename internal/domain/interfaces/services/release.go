// Package services defines interfaces for domain service contracts.
package services

import (
	"context"

	"github.com/khronokernel/dcbuild/internal/domain/entities"
)

// VersionResolver extracts the product version from a source file
type VersionResolver interface {
	Resolve(path string) (string, error)
}

// ReleaseArtifacts writes checksum files for finished artifacts
type ReleaseArtifacts interface {
	// GenerateChecksums writes <path>.sha256 for every artifact and fills in Artifact.SHA256
	GenerateChecksums(ctx context.Context, artifacts []*entities.Artifact) ([]string, error)
}
