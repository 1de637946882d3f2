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
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 📊 Format selects the report presentation.
type Format string

const (
	FormatHuman Format = "human"
	FormatPlain Format = "plain"
	FormatJSON  Format = "json"
)

// ⏳ ProgressMode controls the execution progress bar.
type ProgressMode string

const (
	ProgressAuto   ProgressMode = "auto"
	ProgressAlways ProgressMode = "always"
	ProgressNever  ProgressMode = "never"
)

// 🔧 Config is the single configuration struct the engine consumes. It is
// validated once by New and immutable afterwards; all behavior flows through
// it rather than through globals.
type Config struct {
	RootDir   string // canonicalized by New
	OldString string // literal pattern searched in names and content
	NewString string // literal substitute

	// Mode restrictions, mutually exclusive in pairs.
	FilesOnly   bool // rename files only; directories keep their names
	DirsOnly    bool // rename directories only; files untouched entirely
	NamesOnly   bool // rename only, never edit content
	ContentOnly bool // edit content only, never rename

	MaxDepth int      // 0 = unlimited
	Include  []string // basename filters; glob, or regex with UseRegex
	Exclude  []string

	IgnoreCase     bool // case-insensitive name matching
	UseRegex       bool // include/exclude are regular expressions
	FollowSymlinks bool
	Backup         bool // back up files before content edits
	BinaryNames    bool // permit renaming binary files by name

	Threads int // content-edit parallelism; <= 1 runs sequentially

	DryRun    bool
	AssumeYes bool
	Verbose   bool

	Progress ProgressMode
	Format   Format
}

// validate applies the setup-error rules. These fail fast, before any scan.
func (c *Config) validate() error {
	if c.OldString == "" {
		return errors.Errorf("pattern must not be empty")
	}
	if c.NewString == "" {
		return errors.Errorf("substitute must not be empty")
	}
	if c.NamesOnly && c.ContentOnly {
		return errors.Errorf("--names-only and --content-only are mutually exclusive")
	}
	if c.FilesOnly && c.DirsOnly {
		return errors.Errorf("--files-only and --dirs-only are mutually exclusive")
	}
	if !c.ContentOnly && strings.ContainsAny(c.NewString, `/\`) {
		return errors.Errorf("substitute must not contain path separators unless running --content-only")
	}
	if c.MaxDepth < 0 {
		return errors.Errorf("--max-depth must not be negative")
	}
	switch c.Format {
	case FormatHuman, FormatPlain, FormatJSON:
	default:
		return errors.Errorf("unknown format %q", c.Format)
	}
	switch c.Progress {
	case ProgressAuto, ProgressAlways, ProgressNever:
	default:
		return errors.Errorf("unknown progress mode %q", c.Progress)
	}
	return nil
}

// canonicalizeRoot resolves the root to an absolute, symlink-free directory.
func (c *Config) canonicalizeRoot() error {
	abs, err := filepath.Abs(c.RootDir)
	if err != nil {
		return errors.Errorf("resolving root %s: %w", c.RootDir, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return errors.Errorf("resolving root %s: %w", abs, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return errors.Errorf("stating root %s: %w", resolved, err)
	}
	if !info.IsDir() {
		return errors.Errorf("root %s is not a directory", resolved)
	}
	c.RootDir = resolved
	return nil
}

// 🧮 nameFilter matches basenames against include/exclude patterns.
type nameFilter struct {
	include   []string
	exclude   []string
	includeRe []*regexp.Regexp
	excludeRe []*regexp.Regexp
	useRegex  bool
}

func newNameFilter(include, exclude []string, useRegex bool) (*nameFilter, error) {
	f := &nameFilter{include: include, exclude: exclude, useRegex: useRegex}
	if useRegex {
		for _, p := range include {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, errors.Errorf("compiling include pattern %q: %w", p, err)
			}
			f.includeRe = append(f.includeRe, re)
		}
		for _, p := range exclude {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, errors.Errorf("compiling exclude pattern %q: %w", p, err)
			}
			f.excludeRe = append(f.excludeRe, re)
		}
		return f, nil
	}
	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Errorf("invalid glob pattern %q", p)
		}
	}
	return f, nil
}

// matches applies excludes first, then requires an include match when any
// include patterns are configured.
func (f *nameFilter) matches(basename string) bool {
	if f.matchesAny(basename, f.exclude, f.excludeRe) {
		return false
	}
	if len(f.include) == 0 {
		return true
	}
	return f.matchesAny(basename, f.include, f.includeRe)
}

// matchesInclude reports whether an include pattern explicitly names the
// basename; hidden files need this to be considered at all.
func (f *nameFilter) matchesInclude(basename string) bool {
	return f.matchesAny(basename, f.include, f.includeRe)
}

// excludedBy reports whether an exclude pattern names the basename. Unlike
// matches it ignores includes entirely: exclusion prunes traversal, while
// includes only gate candidacy and must never stop a descent.
func (f *nameFilter) excludedBy(basename string) bool {
	return f.matchesAny(basename, f.exclude, f.excludeRe)
}

func (f *nameFilter) matchesAny(basename string, globs []string, res []*regexp.Regexp) bool {
	if f.useRegex {
		for _, re := range res {
			if re.MatchString(basename) {
				return true
			}
		}
		return false
	}
	for _, g := range globs {
		if ok, err := doublestar.Match(g, basename); err == nil && ok {
			return true
		}
	}
	return false
}
