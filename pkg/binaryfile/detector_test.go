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

package binaryfile_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/bulkrename/pkg/binaryfile"
)

// 🧪 writeTestFile writes content to a file in a temp dir and returns its path
func writeTestFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

// 🧪 TestExtensionAllowlist tests that known binary extensions short-circuit
// without any content read.
func TestExtensionAllowlist(t *testing.T) {
	d := binaryfile.NewDetector()

	// The file does not exist: extension classification must not touch disk.
	isBinary, err := d.IsBinary("/nonexistent/dir/image.PNG")
	require.NoError(t, err)
	assert.True(t, isBinary)

	reason, err := d.BinaryReason("/nonexistent/dir/archive.zip")
	require.NoError(t, err)
	assert.Contains(t, reason, ".zip")
}

// 🧪 TestMagicSignatures tests signature-based classification.
func TestMagicSignatures(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		reason  string
	}{
		{
			name:    "png",
			content: []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 1, 2, 3},
			reason:  "png",
		},
		{
			name:    "gzip",
			content: []byte{0x1F, 0x8B, 0x08, 0x00},
			reason:  "gzip",
		},
		{
			name:    "elf",
			content: []byte{0x7F, 'E', 'L', 'F', 0x02, 0x01},
			reason:  "elf",
		},
		{
			name:    "pdf",
			content: []byte("%PDF-1.7\nsome body"),
			reason:  "pdf",
		},
		{
			name: "tar at offset 257",
			content: append(append(
				bytes.Repeat([]byte{'x'}, 257), []byte("ustar")...),
				bytes.Repeat([]byte{' '}, 100)...),
			reason: "tar",
		},
	}

	d := binaryfile.NewDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Extension intentionally neutral so magic matching decides.
			path := writeTestFile(t, "sample.txt", tt.content)
			reason, err := d.BinaryReason(path)
			require.NoError(t, err)
			assert.Contains(t, reason, tt.reason)
		})
	}
}

// 🧪 TestTextClassification tests that ordinary text survives every step.
func TestTextClassification(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"plain ascii", []byte("hello world\nsecond line\n")},
		{"utf8 no bom", []byte("héllo wörld — ünïcode\n")},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, []byte("bom text")...)},
		{"utf16le bom", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}},
		{"utf16be bom", []byte{0xFE, 0xFF, 0, 'h', 0, 'i'}},
		{"utf16le no bom", []byte{'h', 0, 'e', 0, 'l', 0, 'l', 0, 'o', 0, '!', 0}},
		{"empty file", nil},
		{"tabs and newlines", []byte("a\tb\r\nc\n")},
	}

	d := binaryfile.NewDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestFile(t, "sample.txt", tt.content)
			isBinary, err := d.IsBinary(path)
			require.NoError(t, err)
			assert.False(t, isBinary)
		})
	}
}

// 🧪 TestManualFallback tests the null-byte and control-ratio rules.
func TestManualFallback(t *testing.T) {
	d := binaryfile.NewDetector()

	t.Run("null byte is decisive", func(t *testing.T) {
		path := writeTestFile(t, "data.txt", []byte("looks like text\x00but is not"))
		reason, err := d.BinaryReason(path)
		require.NoError(t, err)
		assert.Contains(t, reason, "null byte")
	})

	t.Run("high control ratio", func(t *testing.T) {
		content := append([]byte("ab"), bytes.Repeat([]byte{0x01, 0x02}, 20)...)
		path := writeTestFile(t, "data.txt", content)
		isBinary, err := d.IsBinary(path)
		require.NoError(t, err)
		assert.True(t, isBinary)
	})

	t.Run("sparse control characters stay text", func(t *testing.T) {
		content := append(bytes.Repeat([]byte("text "), 50), 0x1B) // one escape
		path := writeTestFile(t, "data.txt", content)
		isBinary, err := d.IsBinary(path)
		require.NoError(t, err)
		assert.False(t, isBinary)
	})

	t.Run("custom threshold", func(t *testing.T) {
		strict := &binaryfile.Detector{ControlRatioThreshold: 0.01}
		content := append(bytes.Repeat([]byte("text "), 10), 0x01, 0x02)
		path := writeTestFile(t, "data.txt", content)
		isBinary, err := strict.IsBinary(path)
		require.NoError(t, err)
		assert.True(t, isBinary)
	})
}

// 🧪 TestIOErrorsPropagate tests that read failures are returned, not resolved.
func TestIOErrorsPropagate(t *testing.T) {
	d := binaryfile.NewDetector()
	_, err := d.IsBinary(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
