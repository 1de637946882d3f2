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

// Package engine orchestrates a bulk rename/replace run through strictly
// sequential phases: discover → detect collisions → validate → summarize and
// confirm → execute → report. The filesystem is only mutated during execute;
// any fatal problem in an earlier phase aborts with zero mutation.
package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/bulkrename/pkg/binaryfile"
	"github.com/walteh/bulkrename/pkg/collision"
	"github.com/walteh/bulkrename/pkg/fileops"
	"github.com/walteh/bulkrename/pkg/log"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/term"
)

// 🔧 Options wires the engine's collaborators.
type Options struct {
	// Config is the validated-on-construction run configuration.
	Config Config
	// Console renders human-format output. Required for FormatHuman.
	Console *log.Logger
	// Out receives reports; defaults to os.Stdout.
	Out io.Writer
}

// 🎮 Engine runs the rename pipeline.
type Engine struct {
	cfg      Config
	console  *log.Logger
	out      io.Writer
	detector *binaryfile.Detector
	ops      *fileops.Operations
	filter   *nameFilter

	stats Stats

	progressMu sync.Mutex
	progress   *pterm.ProgressbarPrinter
}

// 📊 Result is what a finished (or cleanly declined) run reports back.
type Result struct {
	Stats    *Stats
	Declined bool // the user answered no at the confirmation prompt
}

// ⚠️ ValidationFailedError aborts a run before any mutation.
type ValidationFailedError struct {
	Errors []ValidationError
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("validation failed with %d problem(s)", len(e.Errors))
}

// 💥 CollisionError aborts a run before any mutation.
type CollisionError struct {
	Collisions []collision.Collision
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%d rename collision(s) detected", len(e.Collisions))
}

// 🏭 New validates the configuration, canonicalizes the root and builds an
// engine. Setup errors surface here, before any scan.
func New(opts Options) (*Engine, error) {
	cfg := opts.Config
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := cfg.canonicalizeRoot(); err != nil {
		return nil, err
	}
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}

	filter, err := newNameFilter(cfg.Include, cfg.Exclude, cfg.UseRegex)
	if err != nil {
		return nil, err
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if cfg.Format == FormatHuman && opts.Console == nil {
		return nil, errors.Errorf("human format requires a console logger")
	}

	detector := binaryfile.NewDetector()
	return &Engine{
		cfg:      cfg,
		console:  opts.Console,
		out:      out,
		detector: detector,
		ops:      fileops.New(detector),
		filter:   filter,
	}, nil
}

// Stats exposes the accumulated counters; meaningful after Run.
func (e *Engine) Stats() *Stats {
	return &e.stats
}

// Run drives the phase machine once. Execution-phase failures are per-item
// and land in the stats; pre-execution failures return
// *ValidationFailedError or *CollisionError with zero mutation.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	// Phase 1: discovery.
	contentFiles, items, err := e.discoverItems(ctx)
	if err != nil {
		return nil, errors.Errorf("discovery: %w", err)
	}
	logger.Debug().
		Int("content_files", len(contentFiles)).
		Int("renames", len(items)).
		Msg("discovery complete")

	// Phase 2: collision detection.
	if err := e.detectCollisions(items); err != nil {
		return nil, err
	}

	// Phase 3: mandatory validation. Not skippable; re-derives everything
	// discovery assumed.
	if verrs := e.validateAll(ctx, contentFiles, items); len(verrs) > 0 {
		e.showValidationErrors(verrs)
		return nil, &ValidationFailedError{Errors: verrs}
	}

	// Phase 4: summary and confirmation.
	report := e.buildReport(ctx, contentFiles, items)
	e.showSummary(report)

	if report.Empty() || e.cfg.DryRun {
		e.showFinalReport()
		return &Result{Stats: &e.stats}, nil
	}
	if !e.confirm(len(contentFiles), len(items)) {
		if e.console != nil {
			e.console.Warning("aborted; nothing was changed")
		}
		return &Result{Stats: &e.stats, Declined: true}, nil
	}

	// Phase 5: execution.
	e.startProgress(len(contentFiles) + len(items))
	e.executeChanges(ctx, contentFiles, items)
	e.stopProgress()

	// Phase 6: report.
	e.showFinalReport()
	return &Result{Stats: &e.stats}, nil
}

// detectCollisions scans the current tree, stages the proposed renames and
// aborts on any fatal collision.
func (e *Engine) detectCollisions(items []Item) error {
	detector := collision.NewDetector()
	if err := detector.ScanExistingPaths(e.cfg.RootDir); err != nil {
		return err
	}

	renames := make([]collision.Rename, 0, len(items))
	for _, item := range items {
		renames = append(renames, collision.Rename{Source: item.OriginalPath, Target: item.NewPath})
	}
	detector.AddRenames(renames)

	fatal := collision.Fatal(detector.DetectCollisions())
	if len(fatal) == 0 {
		return nil
	}
	e.showCollisions(fatal)
	return &CollisionError{Collisions: fatal}
}

// confirm gates execution behind an interactive prompt. Skipped (granted)
// for assume-yes and for machine-readable formats.
func (e *Engine) confirm(contentCount, renameCount int) bool {
	if e.cfg.AssumeYes || e.cfg.Format != FormatHuman {
		return true
	}
	prompt := fmt.Sprintf("apply %d content edit(s) and %d rename(s)?", contentCount, renameCount)
	ok, err := pterm.DefaultInteractiveConfirm.WithDefaultValue(false).Show(prompt)
	if err != nil {
		// An unreadable terminal is a decline, not an approval.
		return false
	}
	return ok
}

// startProgress starts the execution progress bar when configured.
func (e *Engine) startProgress(total int) {
	if !e.progressEnabled() || total == 0 {
		return
	}
	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("applying changes").
		Start()
	if err == nil {
		e.progress = bar
	}
}

func (e *Engine) progressEnabled() bool {
	if e.cfg.Format != FormatHuman {
		return false
	}
	switch e.cfg.Progress {
	case ProgressAlways:
		return true
	case ProgressNever:
		return false
	default:
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
}

func (e *Engine) bumpProgress() {
	e.progressMu.Lock()
	defer e.progressMu.Unlock()
	if e.progress != nil {
		e.progress.Increment()
	}
}

func (e *Engine) stopProgress() {
	e.progressMu.Lock()
	defer e.progressMu.Unlock()
	if e.progress != nil {
		_, _ = e.progress.Stop()
		e.progress = nil
	}
}

// logItem writes one per-item console line in human mode.
func (e *Engine) logItem(ctx context.Context, op log.ItemOperation) {
	if e.cfg.Format != FormatHuman || e.console == nil {
		return
	}
	// Shorten paths relative to the root for readable columns.
	op.Path = e.relPath(op.Path)
	if op.NewPath != "" {
		op.NewPath = e.relPath(op.NewPath)
	}
	e.console.LogItemOperation(ctx, op)
}

func (e *Engine) relPath(path string) string {
	trimmed := strings.TrimPrefix(path, e.cfg.RootDir)
	return strings.TrimPrefix(trimmed, string(os.PathSeparator))
}
