// Package blobsink implements the BlobSink port on the local filesystem.
//
// Artifacts are written to a temp file in the destination directory and
// renamed into place, so a partially written export is never visible
// under its final name. The temp file is removed on every failure path.
package blobsink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fernlea-labs/attest-cli/internal/core/domain"
	"github.com/fernlea-labs/attest-cli/internal/core/ports/driven"
	"github.com/fernlea-labs/attest-cli/internal/logger"
)

var _ driven.BlobSink = (*Filesystem)(nil)

// Filesystem saves artifacts into a fixed output directory.
type Filesystem struct {
	dir string
}

// NewFilesystem creates a sink writing into dir. The directory is
// created on first save, not here.
func NewFilesystem(dir string) *Filesystem {
	return &Filesystem{dir: dir}
}

// Dir returns the destination directory.
func (s *Filesystem) Dir() string {
	return s.dir
}

// Save writes the artifact atomically into the output directory.
func (s *Filesystem) Save(artifact domain.Artifact) error {
	if artifact.Filename == "" {
		return fmt.Errorf("%w: artifact has no filename", domain.ErrInvalidInput)
	}
	if filepath.Base(artifact.Filename) != artifact.Filename {
		return fmt.Errorf("%w: artifact filename %q contains a path", domain.ErrInvalidInput, artifact.Filename)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+artifact.Filename+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(artifact.Data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", artifact.Filename, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", artifact.Filename, err)
	}

	target := filepath.Join(s.dir, artifact.Filename)
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("saving %s: %w", artifact.Filename, err)
	}

	logger.Info("Saved %s (%d bytes)", target, len(artifact.Data))
	return nil
}
