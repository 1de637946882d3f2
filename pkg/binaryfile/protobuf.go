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

package binaryfile

import (
	"bytes"
	"unicode/utf8"
)

// Protocol Buffer wire types (3-bit field in each field header).
const (
	wireVarint          = 0
	wireFixed64         = 1
	wireLengthDelimited = 2
	wireFixed32         = 5
)

const (
	// maxPlausibleFieldNumber caps the field numbers the heuristic accepts.
	// Real messages rarely start above 31, and higher values are a strong
	// hint that we are reading text, not field headers.
	maxPlausibleFieldNumber = 31

	// minValidSequences is the weighted sequence count required before the
	// heuristic will even consider declaring protobuf.
	minValidSequences = 2

	// nonASCIIGate is the non-ASCII byte ratio required (absent a null byte)
	// as the second signal of the dual-signal gate.
	nonASCIIGate = 0.20
)

// 🧬 looksLikeProtobuf applies a heuristic scan for serialized Protocol
// Buffer messages. Protobuf carries no magic number, so this reads leading
// bytes as (field_number, wire_type) pairs and demands two independent
// signals before declaring a match: plausible field headers AND binary-ish
// byte content. Printable or valid-UTF-8 samples are rejected up front.
func looksLikeProtobuf(sample []byte) bool {
	if len(sample) < 2 {
		return false
	}

	// Protobuf is a binary format. High printable ratio or valid UTF-8
	// means text, whatever the leading bytes happen to decode as.
	if printableASCIIRatio(sample) > 0.80 {
		return false
	}
	if utf8.Valid(sample) {
		return false
	}

	valid := 0
	pos := 0
	for pos < len(sample) && valid < 8 {
		tag, n := consumeVarint(sample[pos:])
		if n == 0 {
			break
		}
		fieldNumber := tag >> 3
		wireType := tag & 0x07
		if fieldNumber < 1 || fieldNumber > maxPlausibleFieldNumber {
			break
		}
		pos += n

		switch wireType {
		case wireVarint:
			_, vn := consumeVarint(sample[pos:])
			if vn == 0 {
				return weighDecision(sample, valid)
			}
			pos += vn
			valid++
		case wireFixed64:
			pos += 8
			valid++
		case wireLengthDelimited:
			length, ln := consumeVarint(sample[pos:])
			if ln == 0 || length > uint64(len(sample)) {
				return weighDecision(sample, valid)
			}
			pos += ln + int(length)
			// Length-delimited fields encode nested messages, strings and
			// bytes; a well-formed one is a much stronger signal.
			valid += 2
		case wireFixed32:
			pos += 4
			valid++
		default:
			return weighDecision(sample, valid)
		}
	}

	return weighDecision(sample, valid)
}

// weighDecision applies the dual-signal gate: enough valid field sequences
// AND (a null byte OR a high non-ASCII ratio).
func weighDecision(sample []byte, valid int) bool {
	if valid < minValidSequences {
		return false
	}
	if bytes.IndexByte(sample, 0x00) >= 0 {
		return true
	}
	return nonASCIIRatio(sample) > nonASCIIGate
}

// consumeVarint decodes a base-128 varint, returning its value and the number
// of bytes consumed. n == 0 means truncated or over-long input.
func consumeVarint(b []byte) (uint64, int) {
	var v uint64
	for i := 0; i < len(b) && i < 10; i++ {
		v |= uint64(b[i]&0x7F) << (7 * uint(i))
		if b[i]&0x80 == 0 {
			return v, i + 1
		}
	}
	return 0, 0
}

// printableASCIIRatio returns the fraction of bytes in the printable ASCII
// range (plus tab, CR, LF).
func printableASCIIRatio(b []byte) float64 {
	if len(b) == 0 {
		return 0
	}
	printable := 0
	for _, c := range b {
		if (c >= 0x20 && c < 0x7F) || c == '\t' || c == '\r' || c == '\n' {
			printable++
		}
	}
	return float64(printable) / float64(len(b))
}

// nonASCIIRatio returns the fraction of bytes above 0x7F.
func nonASCIIRatio(b []byte) float64 {
	if len(b) == 0 {
		return 0
	}
	high := 0
	for _, c := range b {
		if c > 0x7F {
			high++
		}
	}
	return float64(high) / float64(len(b))
}
