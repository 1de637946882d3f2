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

// Package fileops provides the atomic file primitives the rename engine is
// built on: encoding-aware content replacement, move, copy, backup and
// string search. Binary/encoding decisions are delegated to pkg/binaryfile
// and pkg/textenc.
package fileops

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/bulkrename/pkg/binaryfile"
	"github.com/walteh/bulkrename/pkg/textenc"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Operations bundles the file primitives around one binary detector.
type Operations struct {
	detector *binaryfile.Detector
}

// 🏭 New creates an Operations backed by the given detector.
func New(detector *binaryfile.Detector) *Operations {
	return &Operations{detector: detector}
}

// ReplaceContent rewrites every occurrence of pattern with substitute inside
// the file, preserving its original encoding and BOM. It reports true iff the
// file was modified. Binary files are skipped before any decode is attempted.
func (o *Operations) ReplaceContent(ctx context.Context, path, pattern, substitute string) (bool, error) {
	isBinary, err := o.detector.IsBinary(path)
	if err != nil {
		return false, errors.Errorf("classifying %s: %w", path, err)
	}
	if isBinary {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("skipping binary file")
		return false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Errorf("reading %s: %w", path, err)
	}

	enc := textenc.Detect(data)
	decoded, err := enc.Decode(data)
	if err != nil {
		return false, errors.Errorf("decoding %s: %w", path, err)
	}

	if !strings.Contains(decoded, pattern) {
		return false, nil
	}

	replaced := strings.ReplaceAll(decoded, pattern, substitute)
	if replaced == decoded {
		// Pattern and substitute are identical; nothing to write.
		return false, nil
	}
	out, err := enc.Encode(replaced)
	if err != nil {
		return false, errors.Errorf("re-encoding %s as %s: %w", path, enc.Name, err)
	}

	if err := o.writeFileAtomic(path, out); err != nil {
		return false, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Str("codec", enc.Name).
		Int("occurrences", strings.Count(decoded, pattern)).
		Msg("content replaced")
	return true, nil
}

// FileContainsString reports whether the decoded content of a text file
// contains pattern. Binary files report false without a decode.
func (o *Operations) FileContainsString(ctx context.Context, path, pattern string) (bool, error) {
	decoded, isText, err := o.decodeTextFile(path)
	if err != nil || !isText {
		return false, err
	}
	return strings.Contains(decoded, pattern), nil
}

// CountStringOccurrences counts non-overlapping occurrences of pattern in the
// decoded content of a text file. Binary files count zero.
func (o *Operations) CountStringOccurrences(ctx context.Context, path, pattern string) (int, error) {
	decoded, isText, err := o.decodeTextFile(path)
	if err != nil || !isText {
		return 0, err
	}
	return strings.Count(decoded, pattern), nil
}

// ReadDecoded classifies, reads and decodes a file in one step. isText is
// false for binary files, with no error.
func (o *Operations) ReadDecoded(ctx context.Context, path string) (decoded string, isText bool, err error) {
	return o.decodeTextFile(path)
}

// decodeTextFile classifies, reads and decodes path. isText is false for
// binary files.
func (o *Operations) decodeTextFile(path string) (decoded string, isText bool, err error) {
	isBinary, err := o.detector.IsBinary(path)
	if err != nil {
		return "", false, errors.Errorf("classifying %s: %w", path, err)
	}
	if isBinary {
		return "", false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, errors.Errorf("reading %s: %w", path, err)
	}
	enc := textenc.Detect(data)
	decoded, err = enc.Decode(data)
	if err != nil {
		return "", false, errors.Errorf("decoding %s: %w", path, err)
	}
	return decoded, true, nil
}

// CreateBackup copies the file to <name>.bak, appending .1, .2, … until a
// free name is found. An existing backup is never overwritten. Returns the
// backup path.
func (o *Operations) CreateBackup(ctx context.Context, path string) (string, error) {
	candidate := path + ".bak"
	for n := 1; ; n++ {
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			break
		} else if err != nil {
			return "", errors.Errorf("checking backup path %s: %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s.bak.%d", path, n)
	}

	if err := o.CopyFile(ctx, path, candidate); err != nil {
		return "", errors.Errorf("creating backup of %s: %w", path, err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Str("backup", candidate).Msg("backup created")
	return candidate, nil
}

// MoveItem renames a file or directory, creating missing parent directories
// of the destination on demand. For files on a different filesystem the
// rename degrades to copy + remove.
func (o *Operations) MoveItem(ctx context.Context, src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Errorf("creating parent directories for %s: %w", dst, err)
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	} else if info, statErr := os.Lstat(src); statErr != nil || info.IsDir() {
		return errors.Errorf("moving %s to %s: %w", src, dst, err)
	}

	// Cross-device fallback for regular files.
	if err := o.CopyFile(ctx, src, dst); err != nil {
		return errors.Errorf("moving %s to %s: %w", src, dst, err)
	}
	if err := os.Remove(src); err != nil {
		return errors.Errorf("removing source after copy %s: %w", src, err)
	}
	return nil
}

// CopyFile copies src to dst preserving the source file mode. dst must not be
// a directory.
func (o *Operations) CopyFile(ctx context.Context, src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return errors.Errorf("stating source file: %w", err)
	}

	destination, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return errors.Errorf("copying file content: %w", err)
	}
	return destination.Close()
}

// writeFileAtomic writes content to a temp file in the target's directory,
// carries over the original mode, and renames it into place.
func (o *Operations) writeFileAtomic(path string, content []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Errorf("stating %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("restoring file mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp file into place: %w", err)
	}
	return nil
}
