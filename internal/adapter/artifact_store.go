package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	m "github.com/DevOps-MBSE/aac-doc-mdl/internal/model"
	"github.com/pmezard/go-difflib/difflib"
)

const artifactFileMode = 0o644

// ArtifactStore persists generated documents.
type ArtifactStore interface {
	// Save writes content to path, creating parent directories, and reports
	// how the file changed against any previous version.
	Save(ctx context.Context, path m.Path, content []byte) (m.Artifact, error)
}

// LocalArtifactStore writes artifacts to the local filesystem.
type LocalArtifactStore struct{}

// NewLocalArtifactStore constructs a LocalArtifactStore.
func NewLocalArtifactStore() *LocalArtifactStore {
	return &LocalArtifactStore{}
}

// Save implements ArtifactStore.
func (s *LocalArtifactStore) Save(ctx context.Context, path m.Path, content []byte) (m.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return m.Artifact{}, err
	}

	target := string(path)
	artifact := m.Artifact{Path: path, Changed: true}

	previous, err := os.ReadFile(target)

	switch {
	case err == nil:
		if bytes.Equal(previous, content) {
			artifact.Changed = false
			slog.Debug("Artifact unchanged", "path", target)

			return artifact, nil
		}

		artifact.Diff = changedLines(target, previous, content)
	case !errors.Is(err, fs.ErrNotExist):
		return m.Artifact{}, fmt.Errorf("read existing artifact %s: %w", target, err)
	}

	if dir := filepath.Dir(target); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return m.Artifact{}, fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(target, content, artifactFileMode); err != nil {
		return m.Artifact{}, fmt.Errorf("write artifact %s: %w", target, err)
	}

	slog.Info("Wrote artifact", "path", target, "bytes", len(content), "changed_lines", artifact.Diff)

	return artifact, nil
}

// changedLines counts added and removed lines between two text versions.
// Binary content is reported as a single change.
func changedLines(name string, previous, current []byte) int {
	if !isText(previous) || !isText(current) {
		return 1
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(previous)),
		B:        difflib.SplitLines(string(current)),
		FromFile: name,
		ToFile:   name,
		Context:  0,
	})
	if err != nil {
		slog.Debug("Failed to diff artifact", "path", name, "error", err)
		return 1
	}

	count := 0

	// the first two lines are the ---/+++ file headers
	for i, line := range strings.Split(diff, "\n") {
		if i < 2 {
			continue
		}

		if strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-") {
			count++
		}
	}

	return count
}

func isText(content []byte) bool {
	return !bytes.ContainsRune(content, 0)
}
