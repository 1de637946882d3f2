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

package main

import (
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/bulkrename/pkg/engine"
	"github.com/walteh/bulkrename/pkg/log"
)

var (
	// Flags
	filesOnly      bool
	dirsOnly       bool
	namesOnly      bool
	contentOnly    bool
	maxDepth       int
	include        []string
	exclude        []string
	ignoreCase     bool
	useRegex       bool
	followSymlinks bool
	backup         bool
	binaryNames    bool
	threads        int
	dryRun         bool
	assumeYes      bool
	verbose        bool
	debug          bool
	progress       string
	format         string
)

// setupError marks a failure before any scan started.
type setupError struct {
	err error
}

func (e *setupError) Error() string { return e.err.Error() }
func (e *setupError) Unwrap() error { return e.err }

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulkrename <root> <pattern> <substitute>",
		Short: "Rename files and directories in bulk and rewrite matching file content",
		Long: `bulkrename walks a directory tree, renames every file and directory whose
name contains the literal pattern, and rewrites the pattern inside text file
content, preserving each file's original encoding. All changes are planned,
collision-checked and validated before anything touches the filesystem.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	f := cmd.Flags()
	f.BoolVar(&filesOnly, "files-only", false, "rename files only, leave directory names alone")
	f.BoolVar(&dirsOnly, "dirs-only", false, "rename directories only, leave files untouched")
	f.BoolVar(&namesOnly, "names-only", false, "rename only, never edit file content")
	f.BoolVar(&contentOnly, "content-only", false, "edit file content only, never rename")
	f.IntVar(&maxDepth, "max-depth", 0, "limit recursion depth (0 = unlimited)")
	f.StringArrayVar(&include, "include", nil, "only consider basenames matching this glob (repeatable)")
	f.StringArrayVar(&exclude, "exclude", nil, "skip basenames matching this glob (repeatable)")
	f.BoolVarP(&ignoreCase, "ignore-case", "i", false, "match names case-insensitively")
	f.BoolVar(&useRegex, "regex", false, "treat --include/--exclude patterns as regular expressions")
	f.BoolVar(&followSymlinks, "follow-symlinks", false, "descend into directory symlinks")
	f.BoolVar(&backup, "backup", false, "write a .bak copy before each content edit")
	f.BoolVar(&binaryNames, "binary-names", false, "allow renaming binary files (content is never edited)")
	f.IntVar(&threads, "threads", runtime.NumCPU(), "parallel workers for content edits")
	f.BoolVarP(&dryRun, "dry-run", "n", false, "show the plan and exit without changing anything")
	f.BoolVarP(&assumeYes, "assume-yes", "y", false, "skip the confirmation prompt")
	f.BoolVarP(&verbose, "verbose", "v", false, "per-item output, with content diffs in the summary")
	f.BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	f.StringVar(&progress, "progress", "auto", "progress bar: auto, always or never")
	f.StringVar(&format, "format", "human", "output format: human, plain or json")

	return cmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg := engine.Config{
		RootDir:        args[0],
		OldString:      args[1],
		NewString:      args[2],
		FilesOnly:      filesOnly,
		DirsOnly:       dirsOnly,
		NamesOnly:      namesOnly,
		ContentOnly:    contentOnly,
		MaxDepth:       maxDepth,
		Include:        include,
		Exclude:        exclude,
		IgnoreCase:     ignoreCase,
		UseRegex:       useRegex,
		FollowSymlinks: followSymlinks,
		Backup:         backup,
		BinaryNames:    binaryNames,
		Threads:        threads,
		DryRun:         dryRun,
		AssumeYes:      assumeYes,
		Verbose:        verbose,
		Progress:       engine.ProgressMode(progress),
		Format:         engine.Format(format),
	}

	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	console := log.New(os.Stdout, level)
	ctx = log.NewContext(console.ZerologContext(ctx), console)

	eng, err := engine.New(engine.Options{
		Config:  cfg,
		Console: console,
		Out:     os.Stdout,
	})
	if err != nil {
		return &setupError{err: err}
	}

	// A declined confirmation is a clean exit; run errors carry their own
	// exit codes.
	_, err = eng.Run(ctx)
	return err
}
