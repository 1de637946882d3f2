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

import "bytes"

// 🔎 signature describes a magic-byte prefix at a fixed offset.
type signature struct {
	name   string
	offset int
	magic  []byte
}

// magicSignatures are checked against the first bytes of a file. The tar
// signature sits at offset 257, so the sample buffer must be large enough to
// cover it.
var magicSignatures = []signature{
	{"png", 0, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}},
	{"jpeg", 0, []byte{0xFF, 0xD8, 0xFF}},
	{"pdf", 0, []byte("%PDF-")},
	{"zip", 0, []byte{'P', 'K', 0x03, 0x04}},
	{"zip (empty)", 0, []byte{'P', 'K', 0x05, 0x06}},
	{"zip (spanned)", 0, []byte{'P', 'K', 0x07, 0x08}},
	{"elf", 0, []byte{0x7F, 'E', 'L', 'F'}},
	{"pe/dos", 0, []byte{'M', 'Z'}},
	{"mach-o 32-bit", 0, []byte{0xFE, 0xED, 0xFA, 0xCE}},
	{"mach-o 64-bit", 0, []byte{0xFE, 0xED, 0xFA, 0xCF}},
	{"mach-o 32-bit (swapped)", 0, []byte{0xCE, 0xFA, 0xED, 0xFE}},
	{"mach-o 64-bit (swapped)", 0, []byte{0xCF, 0xFA, 0xED, 0xFE}},
	// 0xCAFEBABE is shared by Java class files and Mach-O universal binaries.
	{"java class or mach-o universal", 0, []byte{0xCA, 0xFE, 0xBA, 0xBE}},
	{"gzip", 0, []byte{0x1F, 0x8B}},
	{"bzip2", 0, []byte{'B', 'Z', 'h'}},
	{"xz", 0, []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}},
	{"7z", 0, []byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}},
	{"dex", 0, []byte("dex\n")},
	{"zlib (no compression)", 0, []byte{0x78, 0x01}},
	{"zlib (default)", 0, []byte{0x78, 0x9C}},
	{"zlib (best)", 0, []byte{0x78, 0xDA}},
	{"tar", 257, []byte("ustar")},
}

// matchMagic returns the name of the first matching signature, or "" when the
// sample matches none of them.
func matchMagic(sample []byte) string {
	for _, sig := range magicSignatures {
		end := sig.offset + len(sig.magic)
		if len(sample) < end {
			continue
		}
		if bytes.Equal(sample[sig.offset:end], sig.magic) {
			return sig.name
		}
	}
	return ""
}
