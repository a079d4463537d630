package gateways

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/khronokernel/dcbuild/internal/domain/entities"
	"github.com/khronokernel/dcbuild/internal/domain/interfaces"
)

// PackageBuilder produces macOS installer packages with pkgbuild and productbuild
type PackageBuilder struct {
	runner       CommandRunner
	pkgbuild     string
	productbuild string
	logger       interfaces.Logger
}

// NewPackageBuilder creates a new package builder
func NewPackageBuilder(runner CommandRunner, logger interfaces.Logger) *PackageBuilder {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &PackageBuilder{
		runner:       runner,
		pkgbuild:     "/usr/bin/pkgbuild",
		productbuild: "/usr/bin/productbuild",
		logger:       logger,
	}
}

// Build stages the payload and scripts, builds a component package and, for
// distribution packages, wraps it with the title and welcome text. It
// reports false with the cause on any failure.
func (b *PackageBuilder) Build(ctx context.Context, spec *entities.PackageSpec) (bool, error) {
	if spec.OutputPath == "" || spec.BundleID == "" {
		return false, fmt.Errorf("%w: output path and bundle id are required", entities.ErrPackageBuildFailed)
	}

	workDir, err := os.MkdirTemp("", "dcbuild-pkg-")
	if err != nil {
		return false, fmt.Errorf("%w: failed to create work directory: %w", entities.ErrPackageBuildFailed, err)
	}
	//nolint:errcheck // Best-effort cleanup of the staging area
	defer os.RemoveAll(workDir)

	if err := os.MkdirAll(filepath.Dir(spec.OutputPath), 0750); err != nil {
		return false, fmt.Errorf("%w: failed to create output directory: %w", entities.ErrPackageBuildFailed, err)
	}
	// Re-runs overwrite the previous package
	if err := os.Remove(spec.OutputPath); err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("%w: failed to remove previous package: %w", entities.ErrPackageBuildFailed, err)
	}

	rootDir := filepath.Join(workDir, "root")
	if err := stagePayload(rootDir, spec.Payload); err != nil {
		return false, fmt.Errorf("%w: %w", entities.ErrPackageBuildFailed, err)
	}

	scriptsDir := filepath.Join(workDir, "scripts")
	hasScripts, err := stageScripts(scriptsDir, spec.PreInstall, spec.PostInstall)
	if err != nil {
		return false, fmt.Errorf("%w: %w", entities.ErrPackageBuildFailed, err)
	}

	componentPath := spec.OutputPath
	if spec.Distribution {
		componentPath = filepath.Join(workDir, "component.pkg")
	}

	command := []string{b.pkgbuild, "--identifier", spec.BundleID, "--version", spec.Version}
	if len(spec.Payload) > 0 {
		command = append(command, "--root", rootDir, "--install-location", "/")
	} else {
		command = append(command, "--nopayload")
	}
	if hasScripts {
		command = append(command, "--scripts", scriptsDir)
	}
	if identity, ok := spec.SigningIdentity.Get(); ok && !spec.Distribution {
		command = append(command, "--sign", identity)
	}
	command = append(command, componentPath)

	b.logger.Debug("Building component package", interfaces.F("bundle_id", spec.BundleID))
	if result := b.runner.Invoke(ctx, command); !result.Success() {
		return false, fmt.Errorf("%w: pkgbuild %s: %s", entities.ErrPackageBuildFailed, spec.BundleID, toolMessage(result))
	}

	if !spec.Distribution {
		return true, nil
	}

	resourcesDir := filepath.Join(workDir, "resources")
	distributionPath := filepath.Join(workDir, "distribution.xml")
	if err := writeDistribution(distributionPath, resourcesDir, spec, filepath.Base(componentPath)); err != nil {
		return false, fmt.Errorf("%w: %w", entities.ErrPackageBuildFailed, err)
	}

	command = []string{
		b.productbuild,
		"--distribution", distributionPath,
		"--resources", resourcesDir,
		"--package-path", workDir,
	}
	if identity, ok := spec.SigningIdentity.Get(); ok {
		command = append(command, "--sign", identity)
	}
	command = append(command, spec.OutputPath)

	b.logger.Debug("Building distribution package", interfaces.F("output", spec.OutputPath))
	if result := b.runner.Invoke(ctx, command); !result.Success() {
		return false, fmt.Errorf("%w: productbuild %s: %s", entities.ErrPackageBuildFailed, spec.OutputPath, toolMessage(result))
	}

	return true, nil
}

// stagePayload copies every payload source to its destination under rootDir
func stagePayload(rootDir string, payload []entities.PayloadEntry) error {
	for _, entry := range payload {
		dest := filepath.Join(rootDir, filepath.Clean("/"+entry.Destination))
		if err := copyFile(entry.Source, dest, 0); err != nil {
			return fmt.Errorf("failed to stage %s: %w", entry.Source, err)
		}
	}
	return nil
}

// stageScripts copies the install scripts under the names pkgbuild expects
func stageScripts(scriptsDir, preInstall, postInstall string) (bool, error) {
	scripts := map[string]string{
		"preinstall":  preInstall,
		"postinstall": postInstall,
	}

	staged := false
	for name, source := range scripts {
		if source == "" {
			continue
		}
		if err := copyFile(source, filepath.Join(scriptsDir, name), 0755); err != nil {
			return false, fmt.Errorf("failed to stage %s script: %w", name, err)
		}
		staged = true
	}
	return staged, nil
}

// copyFile copies src to dst, creating parent directories. A zero mode keeps
// the source file's permissions.
func copyFile(src, dst string, mode os.FileMode) error {
	//nolint:gosec // G304: src is a payload path from the product recipe
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source file: %w", err)
	}
	if mode == 0 {
		mode = info.Mode().Perm()
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	//nolint:gosec // G304: dst is inside the package staging directory
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	// OpenFile honours the umask, set the mode explicitly
	return os.Chmod(dst, mode)
}
