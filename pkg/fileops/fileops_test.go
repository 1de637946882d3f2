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

package fileops_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/bulkrename/pkg/binaryfile"
	"github.com/walteh/bulkrename/pkg/fileops"
)

// 🧪 newTestOps creates Operations and a logger-carrying context.
func newTestOps(t *testing.T) (*fileops.Operations, context.Context) {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return fileops.New(binaryfile.NewDetector()), logger.WithContext(context.Background())
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

// 🧪 TestReplaceContent tests the in-memory replace path.
func TestReplaceContent(t *testing.T) {
	ops, ctx := newTestOps(t)

	t.Run("replaces and reports modified", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "a.txt", []byte("oldname content with oldname twice"))
		modified, err := ops.ReplaceContent(ctx, path, "oldname", "newname")
		require.NoError(t, err)
		assert.True(t, modified)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "newname content with newname twice", string(content))
	})

	t.Run("no match reports unmodified", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "a.txt", []byte("nothing to see"))
		modified, err := ops.ReplaceContent(ctx, path, "oldname", "newname")
		require.NoError(t, err)
		assert.False(t, modified)
	})

	t.Run("binary file is skipped", func(t *testing.T) {
		content := append([]byte{0x1F, 0x8B, 0x08}, []byte("oldname inside gzip")...)
		path := writeFile(t, t.TempDir(), "a.txt", content)
		modified, err := ops.ReplaceContent(ctx, path, "oldname", "newname")
		require.NoError(t, err)
		assert.False(t, modified)

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, content, after, "binary content must stay untouched")
	})

	t.Run("preserves utf-16le bom", func(t *testing.T) {
		// "old" in UTF-16LE with BOM.
		original := []byte{0xFF, 0xFE, 'o', 0, 'l', 0, 'd', 0}
		path := writeFile(t, t.TempDir(), "a.txt", original)
		modified, err := ops.ReplaceContent(ctx, path, "old", "new")
		require.NoError(t, err)
		assert.True(t, modified)

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xFF, 0xFE, 'n', 0, 'e', 0, 'w', 0}, after)
	})

	t.Run("preserves windows-1252 bytes outside the span", func(t *testing.T) {
		original := []byte("before \x96 target after \xE9 plus more legacy text")
		path := writeFile(t, t.TempDir(), "a.txt", original)
		modified, err := ops.ReplaceContent(ctx, path, "target", "replacement")
		require.NoError(t, err)
		assert.True(t, modified)

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte("before \x96 replacement after \xE9 plus more legacy text"), after)
	})

	t.Run("preserves file mode", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a.sh")
		require.NoError(t, os.WriteFile(path, []byte("run oldname"), 0755))
		_, err := ops.ReplaceContent(ctx, path, "oldname", "newname")
		require.NoError(t, err)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	})
}

// 🧪 TestReplaceContentStreaming tests the streaming replace path.
func TestReplaceContentStreaming(t *testing.T) {
	ops, ctx := newTestOps(t)

	t.Run("replaces line by line", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "a.txt",
			[]byte("first oldname line\nsecond line\nthird oldname line\n"))
		modified, err := ops.ReplaceContentStreaming(ctx, path, "oldname", "newname")
		require.NoError(t, err)
		assert.True(t, modified)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "first newname line\nsecond line\nthird newname line\n", string(content))
	})

	t.Run("preserves crlf terminators", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "a.txt", []byte("old here\r\nplain\r\nno final newline old"))
		modified, err := ops.ReplaceContentStreaming(ctx, path, "old", "new")
		require.NoError(t, err)
		assert.True(t, modified)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new here\r\nplain\r\nno final newline new", string(content))
	})

	t.Run("no match leaves file untouched", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "a.txt", []byte("line one\nline two\n"))
		before, err := os.Stat(path)
		require.NoError(t, err)

		modified, err := ops.ReplaceContentStreaming(ctx, path, "absent", "x")
		require.NoError(t, err)
		assert.False(t, modified)

		after, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, before.ModTime(), after.ModTime())
	})

	t.Run("utf8 bom passes through", func(t *testing.T) {
		original := append([]byte{0xEF, 0xBB, 0xBF}, []byte("old first line\nmore\n")...)
		path := writeFile(t, t.TempDir(), "a.txt", original)
		modified, err := ops.ReplaceContentStreaming(ctx, path, "old", "new")
		require.NoError(t, err)
		assert.True(t, modified)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, append([]byte{0xEF, 0xBB, 0xBF}, []byte("new first line\nmore\n")...), content)
	})

	t.Run("legacy encoding falls back to in-memory", func(t *testing.T) {
		original := []byte("legacy \x96 old bytes with fran\xE7ais accents everywhere")
		path := writeFile(t, t.TempDir(), "a.txt", original)
		modified, err := ops.ReplaceContentStreaming(ctx, path, "old", "new")
		require.NoError(t, err)
		assert.True(t, modified)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte("legacy \x96 new bytes with fran\xE7ais accents everywhere"), content)
	})
}

// 🧪 TestSearchHelpers tests FileContainsString and CountStringOccurrences.
func TestSearchHelpers(t *testing.T) {
	ops, ctx := newTestOps(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", []byte("one fish two fish red fish"))

	found, err := ops.FileContainsString(ctx, path, "fish")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = ops.FileContainsString(ctx, path, "whale")
	require.NoError(t, err)
	assert.False(t, found)

	count, err := ops.CountStringOccurrences(ctx, path, "fish")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	binary := writeFile(t, dir, "b.txt", []byte("fish\x00fish"))
	found, err = ops.FileContainsString(ctx, binary, "fish")
	require.NoError(t, err)
	assert.False(t, found, "binary files never match")
}

// 🧪 TestCreateBackup tests backup naming and no-overwrite behavior.
func TestCreateBackup(t *testing.T) {
	ops, ctx := newTestOps(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "file.txt", []byte("v1"))

	first, err := ops.CreateBackup(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, path+".bak", first)

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0644))
	second, err := ops.CreateBackup(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, path+".bak.1", second)

	third, err := ops.CreateBackup(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, path+".bak.2", third)

	content, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(content), "existing backups are never overwritten")
}

// 🧪 TestMoveItem tests file and directory moves.
func TestMoveItem(t *testing.T) {
	ops, ctx := newTestOps(t)

	t.Run("moves a file into a missing parent", func(t *testing.T) {
		dir := t.TempDir()
		src := writeFile(t, dir, "src.txt", []byte("payload"))
		dst := filepath.Join(dir, "deep", "nested", "dst.txt")

		require.NoError(t, ops.MoveItem(ctx, src, dst))

		_, err := os.Lstat(src)
		assert.True(t, os.IsNotExist(err))
		content, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(content))
	})

	t.Run("moves a directory", func(t *testing.T) {
		dir := t.TempDir()
		srcDir := filepath.Join(dir, "olddir")
		require.NoError(t, os.MkdirAll(srcDir, 0755))
		writeFile(t, srcDir, "inner.txt", []byte("x"))

		dstDir := filepath.Join(dir, "newdir")
		require.NoError(t, ops.MoveItem(ctx, srcDir, dstDir))
		assert.FileExists(t, filepath.Join(dstDir, "inner.txt"))
	})
}
