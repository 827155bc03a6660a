// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package document

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// BackupSuffix is appended to a document path to name its backup
const BackupSuffix = ".bak"

// 📄 Document is the full content of one file at a known path
type Document struct {
	Path    string      // Path as given by the caller
	Content []byte      // Full file content
	Mode    os.FileMode // Permissions to keep on overwrite
}

// Checksum returns a SHA-256 hash of the content
func (d *Document) Checksum() string {
	return calculateChecksum(d.Content)
}

// 💾 FileManager handles all file system operations for documents
type FileManager interface {
	Read(ctx context.Context, path string) (*Document, error)
	Write(ctx context.Context, doc *Document, content []byte) error
	WriteAtomic(ctx context.Context, doc *Document, content []byte) error
	Backup(ctx context.Context, path string) error
	Restore(ctx context.Context, path string) error
}

// 🔧 Manager implements FileManager on the local filesystem
type Manager struct{}

// 🏭 NewManager creates a new document manager
func NewManager() *Manager {
	return &Manager{}
}

var _ FileManager = (*Manager)(nil)

// 🔍 calculateChecksum generates a SHA-256 hash of the content
func calculateChecksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// Read loads the whole file. Missing or unreadable files keep their
// os.ErrNotExist / os.ErrPermission identity through the wrap.
func (m *Manager) Read(ctx context.Context, path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Errorf("reading document: %w", err)
	}
	if info.IsDir() {
		return nil, errors.Errorf("reading document: %s is a directory", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading document: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int("size", len(content)).
		Str("checksum", calculateChecksum(content)).
		Msg("read document")

	return &Document{
		Path:    path,
		Content: content,
		Mode:    info.Mode().Perm(),
	}, nil
}

// Write overwrites the document in place
func (m *Manager) Write(ctx context.Context, doc *Document, content []byte) error {
	if err := os.WriteFile(doc.Path, content, doc.Mode); err != nil {
		return errors.Errorf("writing document: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", doc.Path).
		Int("size", len(content)).
		Str("checksum", calculateChecksum(content)).
		Msg("wrote document")

	doc.Content = content
	return nil
}

// WriteAtomic writes to a temp file in the same directory and renames it over the document
func (m *Manager) WriteAtomic(ctx context.Context, doc *Document, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(doc.Path), "."+filepath.Base(doc.Path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tempPath)
	}

	if _, err := tmp.Write(content); err != nil {
		cleanup()
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(doc.Mode); err != nil {
		cleanup()
		return errors.Errorf("setting temp file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, doc.Path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", doc.Path).
		Int("size", len(content)).
		Msg("wrote document atomically")

	doc.Content = content
	return nil
}

// Backup copies the file to path+BackupSuffix, replacing any older backup
func (m *Manager) Backup(ctx context.Context, path string) error {
	if err := copyFile(path, path+BackupSuffix); err != nil {
		return errors.Errorf("creating backup: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("backed up document")
	return nil
}

// Restore copies the backup over the file and removes the backup
func (m *Manager) Restore(ctx context.Context, path string) error {
	backupPath := path + BackupSuffix

	if _, err := os.Stat(backupPath); err != nil {
		return errors.Errorf("checking backup existence: %w", err)
	}

	if err := copyFile(backupPath, path); err != nil {
		return errors.Errorf("restoring from backup: %w", err)
	}

	if err := os.Remove(backupPath); err != nil {
		return errors.Errorf("removing backup: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("restored document")
	return nil
}

// 📋 copyFile copies src to dst, keeping the source permissions
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
