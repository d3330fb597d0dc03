// Package testhelpers provides reusable test utilities and helpers for testing cugparck.
package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
)

// CreateTempTestDir creates a temporary directory for test file operations
// and registers a cleanup function with t.Cleanup() to automatically remove it after the test completes.
// Returns the directory path.
func CreateTempTestDir(t *testing.T, prefix string) string {
	t.Helper()
	return t.TempDir()
}

// CreateTestFile creates a test file with the specified content in the given directory.
// Returns the full file path.
func CreateTestFile(t *testing.T, dir, filename string, content []byte) string {
	t.Helper()
	filePath := filepath.Join(dir, filename)
	if err := os.WriteFile(filePath, content, 0o600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return filePath
}
