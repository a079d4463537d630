package gateways

import (
	"context"
	"fmt"

	"github.com/khronokernel/dcbuild/internal/domain/entities"
)

// CodesignSigner signs files in place with codesign using the hardened runtime
type CodesignSigner struct {
	runner   CommandRunner
	codesign string
}

// NewCodesignSigner creates a new codesign signer
func NewCodesignSigner(runner CommandRunner) *CodesignSigner {
	return &CodesignSigner{runner: runner, codesign: "/usr/bin/codesign"}
}

// Sign signs path with identity
func (s *CodesignSigner) Sign(ctx context.Context, path, identity string) error {
	if identity == "" {
		return fmt.Errorf("%w: no signing identity for %s", entities.ErrSigningFailed, path)
	}

	result := s.runner.Invoke(ctx, []string{
		s.codesign,
		"--force",
		"--options", "runtime",
		"--timestamp",
		"--sign", identity,
		path,
	})
	if !result.Success() {
		return fmt.Errorf("%w: %s: %s", entities.ErrSigningFailed, path, toolMessage(result))
	}

	return nil
}
