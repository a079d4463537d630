package services

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/khronokernel/dcbuild/internal/domain/entities"
)

// DefaultVersionPrefix is the line prefix of the version constant in Constants.swift
const DefaultVersionPrefix = `let projectVersion    = "`

// VersionResolver reads the product version out of a source constants file
type VersionResolver struct {
	prefix string
}

// NewVersionResolver creates a resolver matching lines that start with prefix
func NewVersionResolver(prefix string) *VersionResolver {
	if prefix == "" {
		prefix = DefaultVersionPrefix
	}
	return &VersionResolver{prefix: prefix}
}

// Resolve scans path line by line and returns the quoted literal on the
// first line starting with the prefix
func (r *VersionResolver) Resolve(path string) (string, error) {
	//nolint:gosec // G304: path is the product's constants file from the recipe
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", entities.ErrVersionNotFound, err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	// Lines may exceed bufio.Scanner's token limit
	reader := bufio.NewReader(f)
	for {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return "", fmt.Errorf("%w: reading %s: %w", entities.ErrVersionNotFound, path, readErr)
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(line, r.prefix) {
			parts := strings.Split(line, `"`)
			if len(parts) < 2 {
				return "", fmt.Errorf("%w: no quoted version on line %q in %s", entities.ErrVersionNotFound, line, path)
			}
			return parts[1], nil
		}
		if readErr != nil {
			break
		}
	}

	return "", fmt.Errorf("%w: no line starting with %q in %s", entities.ErrVersionNotFound, r.prefix, path)
}
