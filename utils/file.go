package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// GetFileNameWithoutExt returns the base name of path without its extension.
func GetFileNameWithoutExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SanitizeFileName keeps ASCII letters, digits, '-', '_' and '.' and replaces
// everything else with '_'. Directory components are dropped.
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, name)
	if strings.Trim(name, ".") == "" {
		return ""
	}
	return name
}

// SaveFile writes src to uploadDir/name, replacing any previous file with the
// same name. Returns the destination path.
func SaveFile(src io.Reader, uploadDir, name string) (string, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	destPath := filepath.Join(uploadDir, name)
	tmp, err := os.CreateTemp(uploadDir, "."+name+"-*")
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to copy file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close destination file: %w", err)
	}
	if err := os.Rename(tmp.Name(), destPath); err != nil {
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}
	return destPath, nil
}

// CopyFile copies the file at sourcePath into uploadDir under its sanitized
// base name. Returns the destination path.
func CopyFile(sourcePath, uploadDir string) (string, error) {
	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	return SaveFile(sourceFile, uploadDir, SanitizeFileName(filepath.Base(sourcePath)))
}
