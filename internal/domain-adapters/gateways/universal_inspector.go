package gateways

import (
	"context"
	"debug/macho"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/khronokernel/dcbuild/internal/domain/entities"
)

// loadCmdCodeSignature is LC_CODE_SIGNATURE, which debug/macho does not name
const loadCmdCodeSignature macho.LoadCmd = 0x1d

// universalInspector inspects universal binaries using pure Go
// Uses debug/macho - no lipo or codesign invocation required
type universalInspector struct{}

// NewUniversalInspector creates a new universal binary inspector
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewUniversalInspector() *universalInspector {
	return &universalInspector{}
}

// Inspect lists the slices of the Mach-O file at path and verifies that every
// target triple's architecture is present
func (u *universalInspector) Inspect(_ context.Context, path string, targets []string) (*entities.UniversalReport, error) {
	report, err := u.readSlices(path)
	if err != nil {
		return nil, err
	}

	archs := report.Archs()
	for _, target := range targets {
		want := TargetArch(target)
		if !slices.Contains(archs, want) {
			return report, fmt.Errorf("%w: %s has %v, want %s for %s",
				entities.ErrArchitectureMissing, path, archs, want, target)
		}
	}

	return report, nil
}

func (u *universalInspector) readSlices(path string) (*entities.UniversalReport, error) {
	report := &entities.UniversalReport{Path: path}

	fat, err := macho.OpenFat(path)
	if err == nil {
		//nolint:errcheck // Defer close on read-only file
		defer fat.Close()
		for _, arch := range fat.Arches {
			report.Slices = append(report.Slices, describeSlice(arch.File))
		}
		return report, nil
	}
	if !errors.Is(err, macho.ErrNotFat) {
		return nil, fmt.Errorf("failed to open universal binary: %w", err)
	}

	// A thin binary is a universal binary with a single slice
	f, err := macho.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Mach-O file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	report.Slices = append(report.Slices, describeSlice(f))
	return report, nil
}

func describeSlice(f *macho.File) entities.ArchSlice {
	slice := entities.ArchSlice{Arch: cpuName(f.Cpu)}

	// Code signing check - look for the LC_CODE_SIGNATURE load command
	for _, load := range f.Loads {
		raw := load.Raw()
		if len(raw) >= 4 && macho.LoadCmd(f.ByteOrder.Uint32(raw[0:4])) == loadCmdCodeSignature {
			slice.CodeSigned = true
			break
		}
	}

	return slice
}

func cpuName(cpu macho.Cpu) string {
	switch cpu {
	case macho.CpuArm64:
		return "arm64"
	case macho.CpuAmd64:
		return "x86_64"
	case macho.Cpu386:
		return "i386"
	case macho.CpuArm:
		return "arm"
	default:
		return strings.ToLower(cpu.String())
	}
}

// TargetArch returns the architecture component of a target triple,
// e.g. "arm64" for "arm64-apple-macos11"
func TargetArch(target string) string {
	arch, _, _ := strings.Cut(target, "-")
	return arch
}
