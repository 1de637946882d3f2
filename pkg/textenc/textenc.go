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

// Package textenc detects a text file's character encoding and converts
// between raw bytes and Go strings without losing fidelity. A FileEncoding is
// derived per file at read time and discarded after the write; it is never
// cached across files.
package textenc

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// BOM byte sequences, longest-prefix first where one extends another.
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// 🔤 FileEncoding identifies the codec and BOM presence of one file's text.
type FileEncoding struct {
	Name   string // codec name, e.g. "utf-8", "utf-16le", "windows-1252"
	HasBOM bool

	enc encoding.Encoding // nil for plain utf-8
	bom []byte            // bytes to restore on encode when HasBOM
}

// Detect inspects raw file content and returns its encoding. Order: UTF-8
// BOM, UTF-32/UTF-16 BOMs, valid bare UTF-8, statistical charset detection,
// then Windows-1252 as the last resort (a superset of ASCII that decodes
// arbitrary extended bytes).
func Detect(data []byte) FileEncoding {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return FileEncoding{Name: "utf-8", HasBOM: true, bom: bomUTF8}
	case bytes.HasPrefix(data, bomUTF32LE):
		// Checked before UTF-16LE, whose BOM it extends.
		return FileEncoding{
			Name: "utf-32le", HasBOM: true, bom: bomUTF32LE,
			enc: utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
		}
	case bytes.HasPrefix(data, bomUTF32BE):
		return FileEncoding{
			Name: "utf-32be", HasBOM: true, bom: bomUTF32BE,
			enc: utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
		}
	case bytes.HasPrefix(data, bomUTF16LE):
		return FileEncoding{
			Name: "utf-16le", HasBOM: true, bom: bomUTF16LE,
			enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
		}
	case bytes.HasPrefix(data, bomUTF16BE):
		return FileEncoding{
			Name: "utf-16be", HasBOM: true, bom: bomUTF16BE,
			enc: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
		}
	}

	if utf8.Valid(data) {
		return FileEncoding{Name: "utf-8"}
	}

	return detectLegacy(data)
}

// detectLegacy maps a statistical charset guess to a concrete codec,
// defaulting to Windows-1252 for unrecognized or unmappable labels.
func detectLegacy(data []byte) FileEncoding {
	fallback := FileEncoding{Name: "windows-1252", enc: charmap.Windows1252}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil || result.Charset == "" {
		return fallback
	}

	enc, err := ianaindex.IANA.Encoding(result.Charset)
	if err != nil || enc == nil {
		return fallback
	}
	return FileEncoding{Name: strings.ToLower(result.Charset), enc: enc}
}

// Decode converts raw file bytes (including any BOM) to a string. Invalid
// input for the detected codec is a hard error, never replaced.
func (e FileEncoding) Decode(data []byte) (string, error) {
	if e.HasBOM {
		data = data[len(e.bom):]
	}

	if e.enc == nil {
		if !utf8.Valid(data) {
			return "", errors.Errorf("decoding %s: invalid byte sequence", e.Name)
		}
		return string(data), nil
	}

	decoded, err := e.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", errors.Errorf("decoding %s: %w", e.Name, err)
	}

	// x/text decoders substitute U+FFFD rather than failing. Re-encode and
	// compare so a lossy decode surfaces as a hard error instead of
	// corrupting bytes outside the replaced span.
	reencoded, err := e.encodeBody(string(decoded))
	if err != nil || !bytes.Equal(reencoded, data) {
		return "", errors.Errorf("decoding %s: not byte-reversible", e.Name)
	}
	return string(decoded), nil
}

// Encode converts a string back to file bytes in the original codec,
// restoring the BOM when one was present.
func (e FileEncoding) Encode(s string) ([]byte, error) {
	body, err := e.encodeBody(s)
	if err != nil {
		return nil, err
	}
	if e.HasBOM {
		return append(append([]byte{}, e.bom...), body...), nil
	}
	return body, nil
}

func (e FileEncoding) encodeBody(s string) ([]byte, error) {
	if e.enc == nil {
		return []byte(s), nil
	}
	out, err := e.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.Errorf("encoding %s: %w", e.Name, err)
	}
	return out, nil
}
