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

package fileops

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/bulkrename/pkg/textenc"
	"gitlab.com/tozd/go/errors"
)

// ReplaceContentStreaming has the same contract as ReplaceContent but
// constant memory: content flows line by line through a temp file that is
// atomically renamed over the original on success.
//
// The streaming path is line-oriented: a pattern spanning a line boundary is
// not matched. Line terminator bytes are carried through verbatim. Files in
// multi-byte or legacy encodings fall back to the in-memory path, since
// their code units cannot be split on raw newline bytes.
func (o *Operations) ReplaceContentStreaming(ctx context.Context, path, pattern, substitute string) (bool, error) {
	isBinary, err := o.detector.IsBinary(path)
	if err != nil {
		return false, errors.Errorf("classifying %s: %w", path, err)
	}
	if isBinary {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("skipping binary file")
		return false, nil
	}

	src, err := os.Open(path)
	if err != nil {
		return false, errors.Errorf("opening %s: %w", path, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return false, errors.Errorf("stating %s: %w", path, err)
	}

	// Sniff the encoding from the head of the file.
	head := make([]byte, 4096)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, errors.Errorf("reading %s: %w", path, err)
	}
	head = head[:n]
	enc := textenc.Detect(head)
	if enc.Name != "utf-8" {
		src.Close()
		return o.ReplaceContent(ctx, path, pattern, substitute)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return false, errors.Errorf("rewinding %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return false, errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	discard := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	reader := bufio.NewReader(src)
	writer := bufio.NewWriter(tmp)
	modified := false

	// Pass the UTF-8 BOM through untouched so the first line still matches.
	if enc.HasBOM {
		bom := make([]byte, 3)
		if _, err := io.ReadFull(reader, bom); err != nil {
			discard()
			return false, errors.Errorf("reading BOM from %s: %w", path, err)
		}
		if _, err := writer.Write(bom); err != nil {
			discard()
			return false, errors.Errorf("writing temp file: %w", err)
		}
	}

	for {
		line, readErr := reader.ReadString('\n')
		if line != "" {
			if strings.Contains(line, pattern) {
				if replaced := replacePreservingTerminator(line, pattern, substitute); replaced != line {
					line = replaced
					modified = true
				}
			}
			if _, err := writer.WriteString(line); err != nil {
				discard()
				return false, errors.Errorf("writing temp file: %w", err)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			discard()
			return false, errors.Errorf("reading %s: %w", path, readErr)
		}
	}

	if !modified {
		discard()
		return false, nil
	}

	if err := writer.Flush(); err != nil {
		discard()
		return false, errors.Errorf("flushing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return false, errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		os.Remove(tmpPath)
		return false, errors.Errorf("restoring file mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return false, errors.Errorf("renaming temp file into place: %w", err)
	}
	return true, nil
}

// replacePreservingTerminator replaces pattern within the body of a line
// while leaving its terminator bytes (\n or \r\n) exactly as read. Keeps a
// substitute ending in the pattern's trailing characters from swallowing the
// terminator.
func replacePreservingTerminator(line, pattern, substitute string) string {
	body := line
	terminator := ""
	if strings.HasSuffix(body, "\n") {
		body = body[:len(body)-1]
		terminator = "\n"
		if strings.HasSuffix(body, "\r") {
			body = body[:len(body)-1]
			terminator = "\r\n"
		}
	}
	return strings.ReplaceAll(body, pattern, substitute) + terminator
}
