// Package corpus provides read-only access to the notes directory.
package corpus

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// skipDirs are directories never scanned for notes. They hold version
// control data, dependencies, or generated output.
var skipDirs = map[string]bool{
	".git":         true,
	".svn":         true,
	".hg":          true,
	"node_modules": true,
	"vendor":       true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	".idea":        true,
	".vscode":      true,
	".cache":       true,
}

// noteExtensions are the file extensions recognized as notes.
var noteExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// Document is a single note, immutable once read for a pipeline run.
type Document struct {
	// ID is the path relative to the corpus root, with forward slashes.
	// It doubles as the document's stable identifier.
	ID string

	// Text is the full UTF-8 content.
	Text string

	// ModTime is the file's last-modified marker at read time.
	ModTime time.Time
}

// Store reads documents from a directory tree of .txt/.md files.
type Store struct {
	root   string
	logger *zap.Logger
}

// NewStore creates a corpus store rooted at dir.
func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{root: dir, logger: logger}
}

// Root returns the corpus root directory.
func (s *Store) Root() string {
	return s.root
}

// Documents reads every note under the corpus root, sorted by ID for
// deterministic iteration. Unreadable files are skipped with a warning;
// a missing root yields an empty corpus rather than an error, since the
// system must keep answering in every infrastructure state.
func (s *Store) Documents(ctx context.Context) ([]Document, error) {
	if _, err := os.Stat(s.root); err != nil {
		s.logger.Warn("corpus root not readable, treating as empty",
			zap.String("root", s.root),
			zap.Error(err))
		return nil, nil
	}

	var docs []Document
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("corpus walk error, skipping entry",
				zap.String("path", path),
				zap.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !noteExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		doc, ok := s.readDocument(path)
		if ok {
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// readDocument reads a single note. Returns false if the file could not
// be read; the scan continues with the remaining files.
func (s *Store) readDocument(path string) (Document, bool) {
	info, err := os.Stat(path)
	if err != nil {
		s.logger.Warn("skipping unreadable note", zap.String("path", path), zap.Error(err))
		return Document{}, false
	}

	content, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("skipping unreadable note", zap.String("path", path), zap.Error(err))
		return Document{}, false
	}

	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		rel = path
	}

	return Document{
		ID:      filepath.ToSlash(rel),
		Text:    string(content),
		ModTime: info.ModTime(),
	}, true
}
