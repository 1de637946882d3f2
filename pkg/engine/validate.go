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
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// 🏷️ ErrorCategory groups validation errors for reporting.
type ErrorCategory string

const (
	CategorySourceMissing   ErrorCategory = "source_missing"
	CategoryTargetExists    ErrorCategory = "target_exists"
	CategoryContentNotFound ErrorCategory = "content_not_found"
	CategoryNotAFile        ErrorCategory = "not_a_file"
	CategoryAccessDenied    ErrorCategory = "access_denied"
	CategoryParentBlocked   ErrorCategory = "parent_blocked"
	CategoryReadOnlySource  ErrorCategory = "read_only_source"
	// CategoryOrderingBug marks a tripped structural self-check: an internal
	// ordering defect, more severe than any user-facing situation.
	CategoryOrderingBug ErrorCategory = "ordering_bug"
)

// ⚠️ ValidationError is one tagged problem found by the mandatory
// pre-execution pass. The pass is pure: it never mutates and never throws,
// it returns the complete list.
type ValidationError struct {
	Location   string        `json:"location"`
	Category   ErrorCategory `json:"category"`
	Message    string        `json:"message"`
	Suggestion string        `json:"suggestion,omitempty"`
}

// validateAll re-derives every condition discovery assumed; the filesystem
// may have changed since. Errors are collected exhaustively, never
// fail-fast, and any non-empty result aborts the run with zero mutation.
func (e *Engine) validateAll(ctx context.Context, contentFiles []string, items []Item) []ValidationError {
	var out []ValidationError

	for _, path := range contentFiles {
		out = append(out, e.validateContentFile(ctx, path)...)
	}
	for _, item := range items {
		out = append(out, e.validateRename(item)...)
	}
	out = append(out, e.validateNoEmptyDirectoriesRemain(items)...)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Location < out[j].Location
	})
	return out
}

// validateContentFile checks a staged content edit is still possible.
func (e *Engine) validateContentFile(ctx context.Context, path string) []ValidationError {
	var out []ValidationError

	info, err := os.Lstat(path)
	if err != nil {
		return append(out, ValidationError{
			Location:   path,
			Category:   CategorySourceMissing,
			Message:    "file scheduled for content edit no longer exists",
			Suggestion: "re-run to rescan the tree",
		})
	}
	if !info.Mode().IsRegular() {
		return append(out, ValidationError{
			Location:   path,
			Category:   CategoryNotAFile,
			Message:    fmt.Sprintf("not a regular file (%s)", info.Mode().Type()),
			Suggestion: "only regular files can be edited in place",
		})
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return append(out, ValidationError{
			Location:   path,
			Category:   CategoryAccessDenied,
			Message:    "file is not readable and writable",
			Suggestion: "fix permissions or exclude the file",
		})
	}
	f.Close()

	found, err := e.ops.FileContainsString(ctx, path, e.cfg.OldString)
	if err != nil {
		out = append(out, ValidationError{
			Location: path,
			Category: CategoryAccessDenied,
			Message:  err.Error(),
		})
	} else if !found {
		out = append(out, ValidationError{
			Location:   path,
			Category:   CategoryContentNotFound,
			Message:    "pattern no longer present in file content",
			Suggestion: "the file changed since discovery; re-run",
		})
	}
	return out
}

// validateRename checks a staged rename is still possible.
func (e *Engine) validateRename(item Item) []ValidationError {
	var out []ValidationError

	// Lstat sees the link itself, so a dangling symlink still counts as an
	// existing source.
	info, err := os.Lstat(item.OriginalPath)
	if err != nil {
		return append(out, ValidationError{
			Location:   item.OriginalPath,
			Category:   CategorySourceMissing,
			Message:    "rename source no longer exists",
			Suggestion: "re-run to rescan the tree",
		})
	}

	if !item.IsNoOp() {
		if _, err := os.Lstat(item.NewPath); err == nil {
			out = append(out, ValidationError{
				Location:   item.NewPath,
				Category:   CategoryTargetExists,
				Message:    fmt.Sprintf("rename target already exists (from %s)", item.OriginalPath),
				Suggestion: "remove or rename the existing path first",
			})
		}
	}

	if verr := validateParentCreatable(item.NewPath); verr != nil {
		out = append(out, *verr)
	}

	if info.Mode().IsRegular() && info.Mode().Perm()&0200 == 0 {
		out = append(out, ValidationError{
			Location:   item.OriginalPath,
			Category:   CategoryReadOnlySource,
			Message:    "rename source is read-only",
			Suggestion: "make the file writable or exclude it",
		})
	}
	return out
}

// validateParentCreatable walks up to the nearest existing ancestor of path
// and checks it is a writable directory, so missing parents can be created
// at execution time.
func validateParentCreatable(path string) *ValidationError {
	dir := filepath.Dir(path)
	for {
		info, err := os.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return &ValidationError{
					Location:   dir,
					Category:   CategoryParentBlocked,
					Message:    "parent path exists but is not a directory",
					Suggestion: "remove the conflicting file",
				}
			}
			if info.Mode().Perm()&0200 == 0 {
				return &ValidationError{
					Location:   dir,
					Category:   CategoryParentBlocked,
					Message:    "parent directory is not writable",
					Suggestion: "fix permissions on the parent directory",
				}
			}
			return nil
		}
		if !os.IsNotExist(err) {
			return &ValidationError{
				Location: dir,
				Category: CategoryParentBlocked,
				Message:  err.Error(),
			}
		}
		next := filepath.Dir(dir)
		if next == dir {
			return nil
		}
		dir = next
	}
}

// validateNoEmptyDirectoriesRemain simulates applying every rename against a
// fresh scan and asserts that no directory which is not itself being renamed
// ends up empty. Tripping it signals an internal ordering bug, not a user
// situation.
func (e *Engine) validateNoEmptyDirectoriesRemain(items []Item) []ValidationError {
	childCount := make(map[string]int)
	var walkErr error
	err := filepath.WalkDir(e.cfg.RootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			walkErr = err
			return err
		}
		if d.IsDir() {
			if _, ok := childCount[path]; !ok {
				childCount[path] = 0
			}
		}
		if path != e.cfg.RootDir {
			childCount[filepath.Dir(path)]++
		}
		return nil
	})
	if err != nil || walkErr != nil {
		return []ValidationError{{
			Location: e.cfg.RootDir,
			Category: CategoryAccessDenied,
			Message:  fmt.Sprintf("rescanning tree for structural check: %v", err),
		}}
	}

	renamedAway := make(map[string]bool, len(items))
	hadChildren := make(map[string]bool, len(childCount))
	for dir, n := range childCount {
		hadChildren[dir] = n > 0
	}
	for _, item := range items {
		if item.IsNoOp() {
			continue
		}
		renamedAway[item.OriginalPath] = true
		childCount[filepath.Dir(item.OriginalPath)]--
		childCount[filepath.Dir(item.NewPath)]++
	}

	var out []ValidationError
	for dir, n := range childCount {
		if n > 0 || !hadChildren[dir] || renamedAway[dir] {
			continue
		}
		out = append(out, ValidationError{
			Location: dir,
			Category: CategoryOrderingBug,
			Message:  "applying the staged renames would empty a directory that is not itself renamed",
			Suggestion: "this is an internal ordering bug in the rename planner; " +
				"please report it with the command you ran",
		})
	}
	return out
}

// groupByCategory buckets validation errors for reporting.
func groupByCategory(errs []ValidationError) map[ErrorCategory][]ValidationError {
	grouped := make(map[ErrorCategory][]ValidationError)
	for _, v := range errs {
		grouped[v.Category] = append(grouped[v.Category], v)
	}
	return grouped
}
