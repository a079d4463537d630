package gateways

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/khronokernel/dcbuild/internal/domain/entities"
	"github.com/khronokernel/dcbuild/internal/domain/interfaces"
)

// Notary submits files to Apple's notarization service with notarytool and
// staples the resulting ticket
type Notary struct {
	runner CommandRunner
	xcrun  string
	ditto  string
	logger interfaces.Logger
}

// NewNotary creates a new notary
func NewNotary(runner CommandRunner, logger interfaces.Logger) *Notary {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &Notary{
		runner: runner,
		xcrun:  "/usr/bin/xcrun",
		ditto:  "/usr/bin/ditto",
		logger: logger,
	}
}

// Notarize submits path, waits for the verdict and staples the ticket.
// Bare executables are submitted as a zip archive and cannot be stapled.
func (n *Notary) Notarize(ctx context.Context, path string, creds entities.NotarizationCredentials) error {
	submission := path
	staple := isStaplable(path)

	if !staple {
		submission = path + ".zip"
		result := n.runner.Invoke(ctx, []string{n.ditto, "-c", "-k", "--keepParent", path, submission})
		if !result.Success() {
			return fmt.Errorf("%w: archiving %s: %s", entities.ErrNotarizationFailed, path, toolMessage(result))
		}
		//nolint:errcheck // Best-effort removal of the submission archive
		defer os.Remove(submission)
	}

	n.logger.Info("Submitting for notarization",
		interfaces.F("file", path),
		interfaces.F("team_id", creds.TeamID),
	)
	n.logger.Debug("Notarization account",
		interfaces.F("apple_id", creds.AppleID),
		interfaces.Redacted("password"),
	)

	result := n.runner.Invoke(ctx, []string{
		n.xcrun, "notarytool", "submit", submission,
		"--apple-id", creds.AppleID,
		"--password", creds.Password,
		"--team-id", creds.TeamID,
		"--wait",
	})
	if !result.Success() {
		return fmt.Errorf("%w: %s: %s", entities.ErrNotarizationFailed, path, toolMessage(result))
	}

	// notarytool exits 0 for rejected submissions, the verdict is in the output
	status := submissionStatus(result.Stdout)
	if status != "Accepted" {
		return fmt.Errorf("%w: %s: submission status %q", entities.ErrNotarizationFailed, path, status)
	}

	if !staple {
		n.logger.Debug("Skipping staple for bare executable", interfaces.F("file", path))
		return nil
	}

	result = n.runner.Invoke(ctx, []string{n.xcrun, "stapler", "staple", path})
	if !result.Success() {
		return fmt.Errorf("%w: stapling %s: %s", entities.ErrNotarizationFailed, path, toolMessage(result))
	}

	return nil
}

// isStaplable reports whether the notarization ticket can be attached to path
func isStaplable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pkg", ".dmg", ".app":
		return true
	default:
		return false
	}
}

// submissionStatus returns the last "status:" value reported by notarytool
func submissionStatus(stdout []byte) string {
	status := ""
	for _, line := range strings.Split(string(stdout), "\n") {
		line = strings.TrimSpace(line)
		if value, ok := strings.CutPrefix(line, "status:"); ok {
			status = strings.TrimSpace(value)
		}
	}
	return status
}
