// Package gateways provides adapter implementations for external tools.
package gateways

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/khronokernel/dcbuild/internal/domain/entities"
	"github.com/khronokernel/dcbuild/internal/domain/interfaces"
	"github.com/khronokernel/dcbuild/internal/domain/services"
)

// CommandRunner is the subprocess surface the tool adapters depend on
type CommandRunner interface {
	// Invoke runs command and always returns a result
	Invoke(ctx context.Context, command []string) *entities.StageResult

	// Check runs command and, on a non-zero exit, prints the diagnostic
	// report before returning a *entities.ToolInvocationError
	Check(ctx context.Context, failure string, command []string) error
}

// ToolInvoker runs external tools as subprocesses and captures their output
type ToolInvoker struct {
	workingDir string
	diagOut    io.Writer
	reporter   *services.DiagnosticReporter
	logger     interfaces.Logger
}

// ToolInvokerConfig contains configuration for the tool invoker
type ToolInvokerConfig struct {
	WorkingDir       string
	DiagnosticOutput io.Writer // defaults to os.Stdout
	Logger           interfaces.Logger
}

// NewToolInvoker creates a new tool invoker
func NewToolInvoker(config ToolInvokerConfig) *ToolInvoker {
	diagOut := config.DiagnosticOutput
	if diagOut == nil {
		diagOut = os.Stdout
	}
	logger := config.Logger
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	return &ToolInvoker{
		workingDir: config.WorkingDir,
		diagOut:    diagOut,
		reporter:   services.NewDiagnosticReporter(),
		logger:     logger,
	}
}

// Invoke runs command to completion. No timeout is imposed; the tool's own
// runtime bounds the call.
func (ti *ToolInvoker) Invoke(ctx context.Context, command []string) *entities.StageResult {
	startTime := time.Now()
	result := &entities.StageResult{Command: command}

	if len(command) == 0 {
		result.ExitCode = -1
		result.Err = errors.New("empty command")
		return result
	}

	//nolint:gosec // G204: commands are fixed toolchain invocations built by the adapters
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	if ti.workingDir != "" {
		cmd.Dir = ti.workingDir
	}

	// Capture stdout and stderr as raw bytes
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Only the tool name is logged, arguments may carry credentials
	ti.logger.Debug("Running tool", interfaces.F("tool", command[0]), interfaces.F("args", len(command)-1))

	err := cmd.Run()
	result.Duration = time.Since(startTime)
	result.Stdout = stdout.Bytes()
	result.Stderr = stderr.Bytes()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.Err = err
			result.ExitCode = -1
		}
	}

	ti.logger.Debug("Tool finished",
		interfaces.F("tool", command[0]),
		interfaces.F("exit_code", result.ExitCode),
		interfaces.F("duration", result.Duration),
	)

	return result
}

// Check runs command and converts a non-zero exit into a ToolInvocationError
// after writing the diagnostic report
func (ti *ToolInvoker) Check(ctx context.Context, failure string, command []string) error {
	result := ti.Invoke(ctx, command)
	if result.Success() {
		return nil
	}

	ti.reporter.Report(ti.diagOut, result)
	return &entities.ToolInvocationError{Message: failure, Result: result}
}

// toolMessage summarizes a failed result without echoing its command line
func toolMessage(result *entities.StageResult) string {
	if result.Err != nil {
		return result.Err.Error()
	}
	msg := strings.TrimSpace(strings.ToValidUTF8(string(result.Stderr), "�"))
	if msg == "" {
		msg = strings.TrimSpace(strings.ToValidUTF8(string(result.Stdout), "�"))
	}
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	if msg == "" {
		return fmt.Sprintf("exit status %d", result.ExitCode)
	}
	return fmt.Sprintf("exit status %d: %s", result.ExitCode, msg)
}
