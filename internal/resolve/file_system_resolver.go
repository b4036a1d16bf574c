/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

package resolve

import (
	"fmt"
	"os"
	"strings"
)

// FileSystemResolver reads file contents for templates and parameter files
type FileSystemResolver interface {
	// ReadFile reads the content of a file. The location may be a plain
	// path or a file:// URI.
	ReadFile(location string) (string, error)
}

// OSFileSystemResolver reads files from the local file system
type OSFileSystemResolver struct{}

// NewOSFileSystemResolver creates a file system resolver backed by the OS
func NewOSFileSystemResolver() *OSFileSystemResolver {
	return &OSFileSystemResolver{}
}

// ReadFile reads the content of a local file
func (r *OSFileSystemResolver) ReadFile(location string) (string, error) {
	path := strings.TrimPrefix(location, "file://")
	if path == "" {
		return "", fmt.Errorf("file location %q has no path", location)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}

	return string(data), nil
}
