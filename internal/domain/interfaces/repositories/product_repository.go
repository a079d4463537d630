// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/khronokernel/dcbuild/internal/domain/entities"
)

// ProductRepository defines the interface for accessing product recipes
type ProductRepository interface {
	// GetProduct retrieves a product recipe by name
	GetProduct(ctx context.Context, name string) (*entities.Product, error)
}

// ManifestWriter persists the summary of a finished release run
type ManifestWriter interface {
	WriteManifest(ctx context.Context, path string, manifest *entities.ReleaseManifest) error
}
