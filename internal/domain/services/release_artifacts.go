package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/khronokernel/dcbuild/internal/domain/entities"
	"github.com/khronokernel/dcbuild/internal/domain/interfaces"
)

// ReleaseArtifactsService handles generation of checksum files for release artifacts
type ReleaseArtifactsService struct {
	logger interfaces.Logger
}

// NewReleaseArtifactsService creates a new release artifacts service
func NewReleaseArtifactsService(logger interfaces.Logger) *ReleaseArtifactsService {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &ReleaseArtifactsService{logger: logger}
}

// GenerateChecksums writes a .sha256 file next to every artifact and records
// the digest on the artifact
func (s *ReleaseArtifactsService) GenerateChecksums(_ context.Context, artifacts []*entities.Artifact) ([]string, error) {
	paths := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		checksumPath, sum, err := s.GenerateSHA256(artifact.Path)
		if err != nil {
			return nil, err
		}
		artifact.SHA256 = sum
		paths = append(paths, checksumPath)
		s.logger.Debug("Checksum written", interfaces.F("artifact", artifact.Path), interfaces.F("sha256", sum))
	}
	return paths, nil
}

// GenerateSHA256 generates SHA256 checksum file in shasum format
func (s *ReleaseArtifactsService) GenerateSHA256(filePath string) (string, string, error) {
	hash, err := ComputeSHA256(filePath)
	if err != nil {
		return "", "", err
	}

	checksumPath := filePath + ".sha256"
	content := fmt.Sprintf("%s  %s\n", hash, filepath.Base(filePath))

	if err := os.WriteFile(checksumPath, []byte(content), 0600); err != nil {
		return "", "", fmt.Errorf("failed to write SHA256 file: %w", err)
	}

	return checksumPath, hash, nil
}

// ComputeSHA256 returns the hex SHA256 digest of a file
func ComputeSHA256(filePath string) (string, error) {
	//nolint:gosec // G304: File path is a build artifact
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
