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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/walteh/bulkrename/pkg/collision"
)

// 📄 FileChangeReport describes one pending content edit for the summary.
type FileChangeReport struct {
	Path        string `json:"path"`
	Occurrences int    `json:"occurrences"`
	Diff        string `json:"-"` // verbose human presentation only
}

// 📄 ChangeReport is the transient read-model behind the pre-execution
// summary. It is derived fresh every run and never persisted.
type ChangeReport struct {
	ContentFiles []FileChangeReport `json:"content_files"`
	Renames      []Item             `json:"renames"`
}

// Empty reports whether there is nothing at all to do.
func (r *ChangeReport) Empty() bool {
	return len(r.ContentFiles) == 0 && len(r.Renames) == 0
}

// buildReport assembles the summary read-model. In verbose human mode it
// also renders a unified diff per content file.
func (e *Engine) buildReport(ctx context.Context, contentFiles []string, items []Item) *ChangeReport {
	report := &ChangeReport{Renames: items}
	for _, path := range contentFiles {
		entry := FileChangeReport{Path: path}
		if count, err := e.ops.CountStringOccurrences(ctx, path, e.cfg.OldString); err == nil {
			entry.Occurrences = count
		}
		if e.cfg.Verbose && e.cfg.Format == FormatHuman {
			entry.Diff = e.renderDiff(ctx, path)
		}
		report.ContentFiles = append(report.ContentFiles, entry)
	}
	return report
}

// renderDiff produces a short unified diff of the proposed content change.
// Failures degrade to no diff; the summary still lists the file.
func (e *Engine) renderDiff(ctx context.Context, path string) string {
	decoded, isText, err := e.ops.ReadDecoded(ctx, path)
	if err != nil || !isText {
		return ""
	}
	replaced := strings.ReplaceAll(decoded, e.cfg.OldString, e.cfg.NewString)
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(decoded),
		B:        difflib.SplitLines(replaced),
		FromFile: path,
		ToFile:   path + " (proposed)",
		Context:  1,
	})
	if err != nil {
		return ""
	}
	return diff
}

// showSummary presents the pending changes before confirmation.
func (e *Engine) showSummary(report *ChangeReport) {
	switch e.cfg.Format {
	case FormatJSON:
		e.writeJSON("summary", report)
	case FormatPlain:
		for _, f := range report.ContentFiles {
			fmt.Fprintf(e.out, "content\t%s\t%d\n", f.Path, f.Occurrences)
		}
		for _, r := range report.Renames {
			fmt.Fprintf(e.out, "rename\t%s\t%s\t%s\n", r.Type, r.OriginalPath, r.NewPath)
		}
	default:
		e.showHumanSummary(report)
	}
}

func (e *Engine) showHumanSummary(report *ChangeReport) {
	e.console.Header(fmt.Sprintf("replacing %q with %q under %s",
		e.cfg.OldString, e.cfg.NewString, e.cfg.RootDir))

	if report.Empty() {
		e.console.Info("nothing to do")
		return
	}

	if len(report.ContentFiles) > 0 {
		e.console.Infof("%d file(s) with content matches", len(report.ContentFiles))
		for _, f := range report.ContentFiles {
			fmt.Fprintf(e.out, "    %s %s (%d occurrence(s))\n",
				color.New(color.FgBlue).Sprint("⟳"), f.Path, f.Occurrences)
			if f.Diff != "" {
				fmt.Fprint(e.out, indentLines(f.Diff, 6))
			}
		}
	}
	if len(report.Renames) > 0 {
		e.console.Infof("%d rename(s) planned", len(report.Renames))
		for _, r := range report.Renames {
			arrow := color.New(color.Faint).Sprint("→")
			fmt.Fprintf(e.out, "    %s %s %s %s\n",
				color.New(color.FgGreen).Sprint("✓"), r.OriginalPath, arrow, r.NewPath)
		}
	}
}

// showValidationErrors presents grouped validation failures.
func (e *Engine) showValidationErrors(errs []ValidationError) {
	if e.cfg.Format == FormatJSON {
		e.writeJSON("validation", map[string]any{"errors": errs})
		return
	}

	grouped := groupByCategory(errs)
	if e.cfg.Format == FormatPlain {
		for category, list := range grouped {
			for _, v := range list {
				fmt.Fprintf(e.out, "error\t%s\t%s\t%s\n", category, v.Location, v.Message)
			}
		}
		return
	}

	e.console.Errorf("validation failed with %d problem(s); nothing was changed", len(errs))
	for category, list := range grouped {
		fmt.Fprintf(e.out, "\n  %s\n", color.New(color.Bold).Sprint(category))
		for _, v := range list {
			fmt.Fprintf(e.out, "    %s %s\n", color.New(color.FgRed).Sprint("✗"), v.Location)
			fmt.Fprintf(e.out, "      %s\n", v.Message)
			if v.Suggestion != "" {
				fmt.Fprintf(e.out, "      %s\n", color.New(color.Faint).Sprint("hint: "+v.Suggestion))
			}
		}
	}
}

// showCollisions presents fatal collisions, every offending pair with its
// kind.
func (e *Engine) showCollisions(collisions []collision.Collision) {
	if e.cfg.Format == FormatJSON {
		type jsonCollision struct {
			Kind   string `json:"kind"`
			Source string `json:"source"`
			Target string `json:"target"`
			Other  string `json:"other_source,omitempty"`
		}
		out := make([]jsonCollision, 0, len(collisions))
		for _, c := range collisions {
			jc := jsonCollision{Kind: c.Kind.String(), Source: c.Rename.Source, Target: c.Rename.Target}
			if c.Other != nil {
				jc.Other = c.Other.Source
			}
			out = append(out, jc)
		}
		e.writeJSON("collisions", map[string]any{"collisions": out})
		return
	}

	if e.cfg.Format == FormatPlain {
		for _, c := range collisions {
			fmt.Fprintf(e.out, "collision\t%s\n", c)
		}
		return
	}

	e.console.Errorf("%d collision(s) detected; nothing was changed", len(collisions))
	for _, c := range collisions {
		fmt.Fprintf(e.out, "    %s %s\n", color.New(color.FgRed).Sprint("✗"), c)
	}
}

// showFinalReport presents the execution outcome. All three formats derive
// from the same stats object, so the facts are identical regardless of
// presentation.
func (e *Engine) showFinalReport() {
	switch e.cfg.Format {
	case FormatJSON:
		e.writeJSON("report", &e.stats)
	case FormatPlain:
		fmt.Fprintf(e.out, "content_changes\t%d\n", e.stats.ContentChanges)
		fmt.Fprintf(e.out, "files_renamed\t%d\n", e.stats.FilesRenamed)
		fmt.Fprintf(e.out, "dirs_renamed\t%d\n", e.stats.DirsRenamed)
		fmt.Fprintf(e.out, "failed\t%d\n", e.stats.RenamesFailed+e.stats.ContentFailed)
		for _, ie := range e.stats.Errors {
			fmt.Fprintf(e.out, "error\t%s\t%s\t%s\n", ie.Op, ie.Path, ie.Message)
		}
	default:
		failed := e.stats.RenamesFailed + e.stats.ContentFailed
		if failed > 0 {
			e.console.Errorf("completed with %d failure(s): %d content edit(s), %d file rename(s), %d directory rename(s)",
				failed, e.stats.ContentChanges, e.stats.FilesRenamed, e.stats.DirsRenamed)
			for _, ie := range e.stats.Errors {
				fmt.Fprintf(e.out, "    %s %s: %s\n",
					color.New(color.FgRed).Sprint("✗"), ie.Path, ie.Message)
			}
		} else {
			e.console.Successf("%d content edit(s), %d file rename(s), %d directory rename(s)",
				e.stats.ContentChanges, e.stats.FilesRenamed, e.stats.DirsRenamed)
		}
	}
}

// writeJSON emits one pretty-printed document for a phase.
func (e *Engine) writeJSON(phase string, payload any) {
	doc := map[string]any{"phase": phase, "data": payload}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		fmt.Fprintf(e.out, `{"phase":%q,"error":%q}`+"\n", phase, err.Error())
		return
	}
	fmt.Fprintln(e.out, string(out))
}

func indentLines(s string, n int) string {
	pad := strings.Repeat(" ", n)
	var b strings.Builder
	for _, line := range strings.SplitAfter(s, "\n") {
		if line == "" {
			continue
		}
		b.WriteString(pad)
		b.WriteString(line)
	}
	return b.String()
}
