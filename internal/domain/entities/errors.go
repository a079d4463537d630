package entities

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds of a release run
var (
	ErrToolInvocationFailed = errors.New("tool invocation failed")
	ErrSigningFailed        = errors.New("signing failed")
	ErrNotarizationFailed   = errors.New("notarization failed")
	ErrPackageBuildFailed   = errors.New("package build failed")
	ErrVersionNotFound      = errors.New("failed to resolve version")
	ErrArchitectureMissing  = errors.New("architecture missing from universal binary")
)

// ToolInvocationError is returned when a subprocess exits non-zero
type ToolInvocationError struct {
	Message string
	Result  *StageResult
}

func (e *ToolInvocationError) Error() string {
	return fmt.Sprintf("%s (exit %d)", e.Message, e.Result.ExitCode)
}

// Is matches ErrToolInvocationFailed
func (e *ToolInvocationError) Is(target error) bool {
	return target == ErrToolInvocationFailed
}
