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

package textenc_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/bulkrename/pkg/textenc"
)

// 🧪 TestDetect tests BOM and charset detection order.
func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		codec  string
		hasBOM bool
	}{
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "hello"...), "utf-8", true},
		{"utf16le bom", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, "utf-16le", true},
		{"utf16be bom", []byte{0xFE, 0xFF, 0, 'h', 0, 'i'}, "utf-16be", true},
		{"utf32le bom", []byte{0xFF, 0xFE, 0, 0, 'h', 0, 0, 0}, "utf-32le", true},
		{"utf32be bom", []byte{0, 0, 0xFE, 0xFF, 0, 0, 0, 'h'}, "utf-32be", true},
		{"bare utf8", []byte("héllo wörld"), "utf-8", false},
		{"plain ascii", []byte("hello"), "utf-8", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := textenc.Detect(tt.data)
			assert.Equal(t, tt.codec, enc.Name)
			assert.Equal(t, tt.hasBOM, enc.HasBOM)
		})
	}
}

// 🧪 TestRoundTrip tests that decode → encode reproduces the original bytes
// for every supported codec family, BOM included.
func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "text with ünïcode"...)},
		{"utf16le bom", []byte{0xFF, 0xFE, 'a', 0, 'b', 0, 'c', 0}},
		{"utf16be bom", []byte{0xFE, 0xFF, 0, 'a', 0, 'b', 0, 'c'}},
		{"bare utf8", []byte("plain text\nwith lines\n")},
		// 0x96 (dash) and 0xE9 (é) in Windows-1252.
		{"windows-1252", []byte("caf\xE9 \x96 dash and extended fran\xE7ais text here")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := textenc.Detect(tt.data)
			decoded, err := enc.Decode(tt.data)
			require.NoError(t, err)

			reencoded, err := enc.Encode(decoded)
			require.NoError(t, err)
			assert.Equal(t, tt.data, reencoded)
		})
	}
}

// 🧪 TestReplacePreservesSurroundingBytes tests the byte-identity guarantee
// around a replaced span in a legacy single-byte encoding.
func TestReplacePreservesSurroundingBytes(t *testing.T) {
	original := []byte("before \x96 target \xE9 after")
	enc := textenc.Detect(original)

	decoded, err := enc.Decode(original)
	require.NoError(t, err)

	replaced := strings.ReplaceAll(decoded, "target", "replacement")
	out, err := enc.Encode(replaced)
	require.NoError(t, err)

	assert.Equal(t, []byte("before \x96 replacement \xE9 after"), out)
}

// 🧪 TestDecodeErrors tests that lossy or invalid decodes are hard errors.
func TestDecodeErrors(t *testing.T) {
	t.Run("invalid utf8 under utf8 codec", func(t *testing.T) {
		enc := textenc.Detect([]byte("valid"))
		_, err := enc.Decode([]byte{'o', 'k', 0xFF, 0xFE, 0xFD})
		require.Error(t, err)
	})

	t.Run("odd-length utf16 is not silently repaired", func(t *testing.T) {
		enc := textenc.Detect([]byte{0xFF, 0xFE, 'a', 0, 'b', 0})
		_, err := enc.Decode([]byte{0xFF, 0xFE, 'a', 0, 'b'})
		require.Error(t, err)
	})
}

// 🧪 TestEncodeUnrepresentableRune tests that encoding a rune outside the
// codec's repertoire fails instead of substituting.
func TestEncodeUnrepresentableRune(t *testing.T) {
	enc := textenc.Detect([]byte("legacy \x96 bytes force windows-1252 detection here"))
	if enc.Name == "utf-8" {
		t.Skip("detector resolved sample as utf-8")
	}
	_, err := enc.Encode("snowman ☃ is not in a latin codepage")
	require.Error(t, err)
}
