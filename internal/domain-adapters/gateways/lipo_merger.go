package gateways

import (
	"context"
	"fmt"
)

// LipoMerger merges single-architecture binaries with lipo
type LipoMerger struct {
	runner CommandRunner
	lipo   string
}

// NewLipoMerger creates a new lipo merger
func NewLipoMerger(runner CommandRunner) *LipoMerger {
	return &LipoMerger{runner: runner, lipo: "/usr/bin/lipo"}
}

// Merge writes a universal binary containing every input to output
func (m *LipoMerger) Merge(ctx context.Context, inputs []string, output string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no executables to merge")
	}

	command := make([]string, 0, len(inputs)+4)
	command = append(command, m.lipo, "-create")
	command = append(command, inputs...)
	command = append(command, "-output", output)

	return m.runner.Check(ctx, "Failed to merge executables", command)
}
