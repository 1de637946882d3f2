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

package engine

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// discoverItems walks the tree and returns the files whose content needs
// editing plus the proposed renames, already in execution order. Walk errors
// abort discovery: an incomplete scan cannot be trusted.
func (e *Engine) discoverItems(ctx context.Context) ([]string, []Item, error) {
	var contentFiles []string
	var items []Item

	visited := map[string]bool{e.cfg.RootDir: true}
	err := e.walkDir(ctx, e.cfg.RootDir, 1, visited, &contentFiles, &items)
	if err != nil {
		return nil, nil, err
	}

	sort.Strings(contentFiles)
	sortItems(items)
	return contentFiles, items, nil
}

// walkDir recursively scans dir. depth is the path-segment depth of dir's
// direct entries below the root. visited guards against symlink cycles when
// following links.
func (e *Engine) walkDir(ctx context.Context, dir string, depth int, visited map[string]bool,
	contentFiles *[]string, items *[]Item) error {

	if e.cfg.MaxDepth > 0 && depth > e.cfg.MaxDepth {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Errorf("reading directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)
		isDir := entry.IsDir()

		// Symlinks are renameable by name but never followed for content;
		// a link to a directory is only descended into when configured.
		isSymlink := entry.Type()&os.ModeSymlink != 0
		if isSymlink && e.cfg.FollowSymlinks {
			if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
				isDir = true
			}
		}

		if e.skipHidden(name) {
			zerolog.Ctx(ctx).Debug().Str("path", path).Msg("skipping hidden entry")
			continue
		}
		// Excludes prune the subtree. Includes are candidacy filters only:
		// a directory is always descended into, so --include "*.txt" still
		// finds matching files arbitrarily deep.
		if e.filter.excludedBy(name) {
			continue
		}

		if isDir {
			if e.wantsDirRenames() && e.filter.matches(name) && containsName(name, e.cfg.OldString, e.cfg.IgnoreCase) {
				*items = append(*items, Item{
					OriginalPath: path,
					NewPath:      filepath.Join(dir, replaceName(name, e.cfg.OldString, e.cfg.NewString, e.cfg.IgnoreCase)),
					Type:         ItemDirectory,
					Depth:        depth,
				})
			}
			if isSymlink {
				resolved, resolveErr := filepath.EvalSymlinks(path)
				if resolveErr != nil {
					return errors.Errorf("resolving symlink %s: %w", path, resolveErr)
				}
				if visited[resolved] {
					zerolog.Ctx(ctx).Debug().Str("path", path).Msg("skipping symlink cycle")
					continue
				}
				visited[resolved] = true
			}
			if err := e.walkDir(ctx, path, depth+1, visited, contentFiles, items); err != nil {
				return err
			}
			continue
		}

		if !e.filter.matches(name) {
			continue
		}
		if err := e.considerFile(ctx, path, name, depth, isSymlink, contentFiles, items); err != nil {
			return err
		}
	}
	return nil
}

// considerFile stages a regular file for content edit and/or rename.
func (e *Engine) considerFile(ctx context.Context, path, name string, depth int, isSymlink bool,
	contentFiles *[]string, items *[]Item) error {

	isBinary := false
	if !isSymlink {
		var err error
		isBinary, err = e.detector.IsBinary(path)
		if err != nil {
			return errors.Errorf("classifying %s: %w", path, err)
		}
	}

	if e.wantsContentEdits() && !isSymlink && !isBinary {
		found, err := e.ops.FileContainsString(ctx, path, e.cfg.OldString)
		if err != nil {
			return err
		}
		if found {
			*contentFiles = append(*contentFiles, path)
		}
	}

	if !e.wantsFileRenames() || !containsName(name, e.cfg.OldString, e.cfg.IgnoreCase) {
		return nil
	}
	if isBinary && !e.cfg.BinaryNames {
		if e.cfg.Verbose {
			reason, reasonErr := e.detector.BinaryReason(path)
			if reasonErr == nil {
				zerolog.Ctx(ctx).Info().Str("path", path).Str("reason", reason).
					Msg("binary file kept its name (use --binary-names to rename)")
			}
		}
		return nil
	}

	*items = append(*items, Item{
		OriginalPath: path,
		NewPath:      filepath.Join(filepath.Dir(path), replaceName(name, e.cfg.OldString, e.cfg.NewString, e.cfg.IgnoreCase)),
		Type:         ItemFile,
		Depth:        depth,
	})
	return nil
}

// skipHidden filters dotfiles unless an include pattern explicitly matches
// the dotted name.
func (e *Engine) skipHidden(name string) bool {
	if !strings.HasPrefix(name, ".") {
		return false
	}
	return !e.filter.matchesInclude(name)
}

func (e *Engine) wantsContentEdits() bool {
	return !e.cfg.NamesOnly && !e.cfg.DirsOnly
}

func (e *Engine) wantsFileRenames() bool {
	return !e.cfg.ContentOnly && !e.cfg.DirsOnly
}

func (e *Engine) wantsDirRenames() bool {
	return !e.cfg.ContentOnly && !e.cfg.FilesOnly
}
