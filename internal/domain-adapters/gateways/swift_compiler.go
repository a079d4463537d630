package gateways

import (
	"context"
	"fmt"
)

// SwiftCompiler builds single-architecture binaries with the Swift toolchain
type SwiftCompiler struct {
	runner          CommandRunner
	swift           string
	toolchainOutput string
}

// NewSwiftCompiler creates a compiler that copies each build from
// toolchainOutput, the path where swift build leaves the product
func NewSwiftCompiler(runner CommandRunner, toolchainOutput string) *SwiftCompiler {
	return &SwiftCompiler{
		runner:          runner,
		swift:           "/usr/bin/swift",
		toolchainOutput: toolchainOutput,
	}
}

// Compile builds product for target and copies the toolchain's debug output
// to output
func (c *SwiftCompiler) Compile(ctx context.Context, product, target, output string) error {
	build := []string{
		c.swift, "build", "--product", product,
		"-Xswiftc", "-target", "-Xswiftc", target,
	}
	if err := c.runner.Check(ctx, "Failed to build executable", build); err != nil {
		return fmt.Errorf("compile %s for %s: %w", product, target, err)
	}

	if err := c.runner.Check(ctx, "Failed to copy executable", []string{"/bin/cp", c.toolchainOutput, output}); err != nil {
		return fmt.Errorf("copy %s: %w", c.toolchainOutput, err)
	}

	return nil
}
