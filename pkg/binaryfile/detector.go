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

// Package binaryfile classifies files as binary or text so that content
// rewriting never touches a file it could corrupt. Classification is
// first-match-wins and fails safe toward binary when ambiguous.
package binaryfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

const (
	// sampleSize is how many leading bytes are read for classification.
	// Must cover the tar signature at offset 257.
	sampleSize = 8192

	// DefaultControlRatioThreshold is the fraction of true control
	// characters (excluding tab, CR, LF) above which content is binary.
	DefaultControlRatioThreshold = 0.30
)

// 🔍 Detector classifies files as binary or text.
type Detector struct {
	// ControlRatioThreshold overrides DefaultControlRatioThreshold when > 0.
	ControlRatioThreshold float64
}

// 🏭 NewDetector creates a detector with default thresholds.
func NewDetector() *Detector {
	return &Detector{}
}

func (d *Detector) threshold() float64 {
	if d.ControlRatioThreshold > 0 {
		return d.ControlRatioThreshold
	}
	return DefaultControlRatioThreshold
}

// IsBinary reports whether the file at path is binary. I/O errors propagate;
// they are never silently resolved to either answer.
func (d *Detector) IsBinary(path string) (bool, error) {
	reason, err := d.classify(path)
	if err != nil {
		return false, err
	}
	return reason != "", nil
}

// BinaryReason returns a human-readable cause for a binary classification,
// using the identical precedence as IsBinary. The empty string means text.
func (d *Detector) BinaryReason(path string) (string, error) {
	return d.classify(path)
}

// classify runs the full chain: extension allowlist, magic signatures,
// protobuf heuristic, UTF fast path, then the manual byte-ratio fallback.
// A non-empty return is the reason the file is binary.
func (d *Detector) classify(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if HasBinaryExtension(ext) {
		return fmt.Sprintf("extension %s is a known binary format", ext), nil
	}

	sample, err := readSample(path)
	if err != nil {
		return "", err
	}
	if len(sample) == 0 {
		// Empty files are trivially text.
		return "", nil
	}

	if name := matchMagic(sample); name != "" {
		return fmt.Sprintf("magic signature: %s", name), nil
	}
	if looksLikeProtobuf(sample) {
		return "content resembles a serialized protocol buffer", nil
	}

	// Fast path: a UTF BOM (or clean BOM-less UTF-16) settles it as text.
	if isUTFText(sample) {
		return "", nil
	}

	return d.manualFallback(sample), nil
}

// manualFallback is the last classification step: a null byte is decisive,
// otherwise the true-control-character ratio decides (computed over decoded
// runes for valid UTF-8, over raw bytes with a printable/lead-byte heuristic
// otherwise).
func (d *Detector) manualFallback(sample []byte) string {
	if bytes.IndexByte(sample, 0x00) >= 0 {
		return "content contains a null byte"
	}

	if utf8.Valid(sample) {
		ratio := controlRuneRatio(sample)
		if ratio > d.threshold() {
			return fmt.Sprintf("control character ratio %.0f%% exceeds %.0f%%",
				ratio*100, d.threshold()*100)
		}
		return ""
	}

	ratio := suspectByteRatio(sample)
	if ratio > d.threshold() {
		return fmt.Sprintf("non-text byte ratio %.0f%% exceeds %.0f%% (invalid utf-8)",
			ratio*100, d.threshold()*100)
	}
	return ""
}

// readSample reads up to sampleSize leading bytes.
func readSample(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, sampleSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, errors.Errorf("reading sample of %s: %w", path, err)
	}
	return buf[:n], nil
}

// isUTFText recognizes UTF-8/UTF-16/UTF-32 text, with or without a BOM.
func isUTFText(sample []byte) bool {
	switch {
	case bytes.HasPrefix(sample, []byte{0xEF, 0xBB, 0xBF}):
		return utf8.Valid(sample[3:])
	case bytes.HasPrefix(sample, []byte{0xFF, 0xFE, 0x00, 0x00}),
		bytes.HasPrefix(sample, []byte{0x00, 0x00, 0xFE, 0xFF}):
		// UTF-32 BOM. Checked before UTF-16LE, whose BOM it extends.
		return true
	case bytes.HasPrefix(sample, []byte{0xFF, 0xFE}),
		bytes.HasPrefix(sample, []byte{0xFE, 0xFF}):
		return true
	}
	// BOM-less UTF-16 shows up as ASCII interleaved with null bytes in a
	// strictly alternating pattern. Only called text when the pattern holds
	// across the whole sample.
	return looksLikeUTF16(sample)
}

// looksLikeUTF16 detects BOM-less UTF-16 by the alternating-null pattern of
// ASCII-range code units.
func looksLikeUTF16(sample []byte) bool {
	if len(sample) < 4 || len(sample)%2 != 0 {
		return false
	}
	evenNulls, oddNulls := 0, 0
	pairs := len(sample) / 2
	for i := 0; i+1 < len(sample); i += 2 {
		if sample[i] == 0x00 {
			evenNulls++
		}
		if sample[i+1] == 0x00 {
			oddNulls++
		}
	}
	// One side all nulls, the other side none: LE or BE ASCII text.
	if oddNulls == pairs && evenNulls == 0 {
		return true
	}
	if evenNulls == pairs && oddNulls == 0 {
		return true
	}
	return false
}

// controlRuneRatio computes the fraction of true control characters (C0/C1
// minus tab, CR, LF) across decoded runes.
func controlRuneRatio(sample []byte) float64 {
	total, control := 0, 0
	for _, r := range string(sample) {
		total++
		if isTrueControl(r) {
			control++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(control) / float64(total)
}

func isTrueControl(r rune) bool {
	if r == '\t' || r == '\r' || r == '\n' {
		return false
	}
	return r < 0x20 || r == 0x7F || (r >= 0x80 && r <= 0x9F)
}

// suspectByteRatio is the raw-byte variant used when the sample is not valid
// UTF-8: bytes that are neither printable ASCII, common whitespace, nor
// plausible UTF-8 lead/continuation bytes count against the file.
func suspectByteRatio(sample []byte) float64 {
	if len(sample) == 0 {
		return 0
	}
	suspect := 0
	for _, c := range sample {
		switch {
		case c == '\t' || c == '\r' || c == '\n':
		case c >= 0x20 && c < 0x7F:
		case c >= 0xC2 && c <= 0xF4:
			// UTF-8 lead byte range.
		case c >= 0x80 && c <= 0xBF:
			// Continuation byte, also covers most legacy single-byte text.
		default:
			suspect++
		}
	}
	return float64(suspect) / float64(len(sample))
}
