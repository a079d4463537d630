// Package gateways defines interfaces for external tool adapters.
package gateways

import (
	"context"

	"github.com/khronokernel/dcbuild/internal/domain/entities"
)

// Compiler builds a single-architecture binary for one target triple
type Compiler interface {
	// Compile builds product for target and leaves the binary at output
	Compile(ctx context.Context, product, target, output string) error
}

// Merger combines single-architecture binaries into a universal binary
type Merger interface {
	Merge(ctx context.Context, inputs []string, output string) error
}

// Signer code-signs a file in place
type Signer interface {
	Sign(ctx context.Context, path, identity string) error
}

// Notarizer submits a file for notarization and staples the ticket
type Notarizer interface {
	Notarize(ctx context.Context, path string, creds entities.NotarizationCredentials) error
}

// PackageBuilder produces an installer package. A false result and a
// non-nil error are both failures.
type PackageBuilder interface {
	Build(ctx context.Context, spec *entities.PackageSpec) (bool, error)
}

// UniversalInspector checks the architecture slices of a universal binary
type UniversalInspector interface {
	Inspect(ctx context.Context, path string, targets []string) (*entities.UniversalReport, error)
}
