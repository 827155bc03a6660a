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

package patch

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/patchrc/pkg/document"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// mockFileManager is a testify mock of document.FileManager
type mockFileManager struct {
	mock.Mock
}

var _ document.FileManager = (*mockFileManager)(nil)

func (m *mockFileManager) Read(ctx context.Context, path string) (*document.Document, error) {
	args := m.Called(ctx, path)
	doc, _ := args.Get(0).(*document.Document)
	return doc, args.Error(1)
}

func (m *mockFileManager) Write(ctx context.Context, doc *document.Document, content []byte) error {
	return m.Called(ctx, doc, content).Error(0)
}

func (m *mockFileManager) WriteAtomic(ctx context.Context, doc *document.Document, content []byte) error {
	return m.Called(ctx, doc, content).Error(0)
}

func (m *mockFileManager) Backup(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *mockFileManager) Restore(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func newMockPatcher(t *testing.T, docs *mockFileManager, opts Options) (*Patcher, *bytes.Buffer, context.Context) {
	t.Helper()
	console := &bytes.Buffer{}
	opts.Documents = docs
	opts.Logger = log.NewWithDiagnostics(console, io.Discard, zerolog.InfoLevel)
	ctx := zerolog.New(zerolog.TestWriter{T: t}).Level(zerolog.DebugLevel).WithContext(context.Background())
	return New(opts), console, ctx
}

func TestPatcher_Apply_WriteFailure(t *testing.T) {
	docs := &mockFileManager{}
	doc := &document.Document{Path: "index.html", Content: []byte(page), Mode: 0644}

	docs.On("Read", mock.Anything, "index.html").Return(doc, nil).Once()
	docs.On("Write", mock.Anything, doc, mock.Anything).Return(os.ErrPermission).Once()

	p, console, ctx := newMockPatcher(t, docs, Options{})

	_, err := p.Apply(ctx, "index.html", cssRule)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Empty(t, console.String(), "failed writes print no outcome line")

	docs.AssertExpectations(t)
}

func TestPatcher_Apply_BackupFailure(t *testing.T) {
	docs := &mockFileManager{}
	doc := &document.Document{Path: "index.html", Content: []byte(page), Mode: 0644}
	backupErr := errors.New("disk full")

	docs.On("Read", mock.Anything, "index.html").Return(doc, nil).Once()
	docs.On("Backup", mock.Anything, "index.html").Return(backupErr).Once()

	p, _, ctx := newMockPatcher(t, docs, Options{Backup: true})

	_, err := p.Apply(ctx, "index.html", cssRule)
	require.Error(t, err)
	assert.ErrorIs(t, err, backupErr)

	docs.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
	docs.AssertNotCalled(t, "WriteAtomic", mock.Anything, mock.Anything, mock.Anything)
	docs.AssertExpectations(t)
}

func TestPatcher_Apply_NotFoundSkipsWrite(t *testing.T) {
	docs := &mockFileManager{}
	doc := &document.Document{Path: "index.html", Content: []byte(page), Mode: 0644}

	docs.On("Read", mock.Anything, "index.html").Return(doc, nil).Once()

	p, console, ctx := newMockPatcher(t, docs, Options{Atomic: true, Backup: true})

	report, err := p.Apply(ctx, "index.html", text.ReplacementRule{FromText: "<footer>", ToText: "<footer class=\"x\">"})
	require.NoError(t, err)
	assert.Equal(t, Unchanged, report.Outcome)
	assert.Contains(t, console.String(), "pattern not found")

	docs.AssertNotCalled(t, "Backup", mock.Anything, mock.Anything)
	docs.AssertNotCalled(t, "WriteAtomic", mock.Anything, mock.Anything, mock.Anything)
	docs.AssertExpectations(t)
}
