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
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/bulkrename/pkg/log"
	"golang.org/x/sync/errgroup"
)

// executeChanges mutates the filesystem: content replacement first, then
// renames. Per-item failures are recorded in stats and never abort the
// batch.
func (e *Engine) executeChanges(ctx context.Context, contentFiles []string, items []Item) {
	e.replaceAllContent(ctx, contentFiles)
	e.applyRenames(ctx, items)
}

// replaceAllContent edits every staged file, fanning out across the
// configured thread count. Files are independent; the only shared state is
// the mutex-guarded stats accumulator. Fork-join: every worker finishes
// before the sequential rename segment starts.
func (e *Engine) replaceAllContent(ctx context.Context, contentFiles []string) {
	if len(contentFiles) == 0 {
		return
	}

	var mu sync.Mutex
	if e.cfg.Threads <= 1 {
		for _, path := range contentFiles {
			e.replaceOneFile(ctx, path, &mu)
			e.bumpProgress()
		}
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Threads)
	for _, path := range contentFiles {
		path := path
		g.Go(func() error {
			e.replaceOneFile(gctx, path, &mu)
			e.bumpProgress()
			return nil
		})
	}
	// Workers never return errors; failures land in stats.
	_ = g.Wait()
}

// replaceOneFile performs one content edit, guarding stats with mu.
func (e *Engine) replaceOneFile(ctx context.Context, path string, mu *sync.Mutex) {
	if e.cfg.Backup {
		if _, err := e.ops.CreateBackup(ctx, path); err != nil {
			mu.Lock()
			e.stats.ContentFailed++
			e.stats.Errors = append(e.stats.Errors, ItemError{Path: path, Op: "backup", Message: err.Error()})
			mu.Unlock()
			e.logItem(ctx, log.ItemOperation{Path: path, Kind: log.KindContent, Failed: true, Err: err})
			return
		}
	}

	count, err := e.ops.CountStringOccurrences(ctx, path, e.cfg.OldString)
	var modified bool
	if err == nil {
		modified, err = e.ops.ReplaceContent(ctx, path, e.cfg.OldString, e.cfg.NewString)
	}
	if err != nil {
		mu.Lock()
		e.stats.ContentFailed++
		e.stats.Errors = append(e.stats.Errors, ItemError{Path: path, Op: "replace", Message: err.Error()})
		mu.Unlock()
		e.logItem(ctx, log.ItemOperation{Path: path, Kind: log.KindContent, Failed: true, Err: err})
		return
	}
	if !modified {
		// Identical pattern and substitute rewrite nothing.
		e.logItem(ctx, log.ItemOperation{Path: path, Kind: log.KindContent, Skipped: true})
		return
	}

	mu.Lock()
	e.stats.ContentChanges++
	mu.Unlock()
	e.logItem(ctx, log.ItemOperation{Path: path, Kind: log.KindContent, Replacements: count})
}

// applyRenames runs strictly sequentially in the pre-sorted order; the
// relative order is load-bearing. Each move is re-validated immediately
// before it happens, protecting against filesystem changes between the
// validation phase and now.
func (e *Engine) applyRenames(ctx context.Context, items []Item) {
	for _, item := range items {
		if item.IsNoOp() {
			e.logItem(ctx, log.ItemOperation{Path: item.OriginalPath, Kind: itemLogKind(item), Skipped: true})
			e.bumpProgress()
			continue
		}

		if err := e.preMoveCheck(item); err != nil {
			e.recordRenameFailure(ctx, item, err)
			e.bumpProgress()
			continue
		}

		if err := e.ops.MoveItem(ctx, item.OriginalPath, item.NewPath); err != nil {
			e.recordRenameFailure(ctx, item, err)
			e.bumpProgress()
			continue
		}

		if item.Type == ItemDirectory {
			e.stats.DirsRenamed++
		} else {
			e.stats.FilesRenamed++
		}
		e.logItem(ctx, log.ItemOperation{
			Path:    item.OriginalPath,
			NewPath: item.NewPath,
			Kind:    itemLogKind(item),
		})
		e.bumpProgress()
	}
}

// preMoveCheck is the last-instant re-validation of a single rename.
func (e *Engine) preMoveCheck(item Item) error {
	if _, err := os.Lstat(item.OriginalPath); err != nil {
		return err
	}
	if _, err := os.Lstat(item.NewPath); err == nil {
		return &targetExistsError{path: item.NewPath}
	}
	return nil
}

// targetExistsError marks a rename target that appeared after validation.
type targetExistsError struct {
	path string
}

func (e *targetExistsError) Error() string {
	return "target already exists: " + e.path
}

func (e *Engine) recordRenameFailure(ctx context.Context, item Item, err error) {
	e.stats.RenamesFailed++
	e.stats.Errors = append(e.stats.Errors, ItemError{
		Path:    item.OriginalPath,
		Op:      "rename",
		Message: err.Error(),
	})
	e.logItem(ctx, log.ItemOperation{
		Path:    item.OriginalPath,
		NewPath: item.NewPath,
		Kind:    itemLogKind(item),
		Failed:  true,
		Err:     err,
	})
	zerolog.Ctx(ctx).Error().Err(err).
		Str("from", item.OriginalPath).
		Str("to", item.NewPath).
		Msg("rename failed")
}

func itemLogKind(item Item) log.ItemKind {
	if item.Type == ItemDirectory {
		return log.KindDirectory
	}
	return log.KindFile
}
