package docs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ScannedFile is a markdown file found under the documents root.
type ScannedFile struct {
	RelPath string // Relative path from the documents root, forward slashes
	AbsPath string // Absolute file path
}

// Scanner finds markdown files under a documents root directory.
type Scanner struct {
	root string
}

// NewScanner creates a scanner rooted at the given directory.
func NewScanner(root string) *Scanner {
	return &Scanner{root: root}
}

// Scan walks the documents root and returns all markdown files.
// Hidden directories are skipped.
func (s *Scanner) Scan(ctx context.Context) ([]ScannedFile, error) {
	var files []ScannedFile

	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".md" && ext != ".markdown" {
			return nil
		}

		relPath, err := filepath.Rel(s.root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}

		files = append(files, ScannedFile{
			RelPath: filepath.ToSlash(relPath),
			AbsPath: path,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// Load reads and parses a scanned file into a Document.
func (s *Scanner) Load(file ScannedFile, parser *Parser) (*Document, error) {
	content, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", file.AbsPath, err)
	}

	info, err := os.Stat(file.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %s: %w", file.AbsPath, err)
	}

	return parser.Parse(content, file.RelPath, info.ModTime())
}
