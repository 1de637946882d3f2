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

// Package collision finds rename operations that would address the same
// final path. Any fatal collision aborts a run before the first mutation.
package collision

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"gitlab.com/tozd/go/errors"
)

// 💥 Kind classifies a collision.
type Kind int

const (
	// TargetExists: the target path already exists on disk and is not the
	// rename's own source. Fatal.
	TargetExists Kind = iota
	// DuplicateTarget: two distinct proposed renames share a target. Fatal.
	DuplicateTarget
	// SourceEqualsTarget: a no-op rename. Informational; filtered from
	// user-facing errors and skipped at execution.
	SourceEqualsTarget
)

func (k Kind) String() string {
	switch k {
	case TargetExists:
		return "target already exists"
	case DuplicateTarget:
		return "duplicate target"
	case SourceEqualsTarget:
		return "source equals target"
	default:
		return "unknown"
	}
}

// Fatal reports whether this collision kind must abort the run.
func (k Kind) Fatal() bool {
	return k != SourceEqualsTarget
}

// 📋 Rename is one proposed source → target transform.
type Rename struct {
	Source string
	Target string
}

// 💥 Collision pairs a rename with the reason it cannot proceed.
type Collision struct {
	Kind   Kind
	Rename Rename
	// Other is the conflicting rename for DuplicateTarget collisions.
	Other *Rename
}

func (c Collision) String() string {
	if c.Other != nil {
		return fmt.Sprintf("%s: %s and %s both become %s",
			c.Kind, c.Rename.Source, c.Other.Source, c.Rename.Target)
	}
	return fmt.Sprintf("%s: %s -> %s", c.Kind, c.Rename.Source, c.Rename.Target)
}

// 🔍 Detector indexes existing paths and staged renames.
type Detector struct {
	existing map[string]bool
	renames  []Rename
}

// 🏭 NewDetector creates an empty detector.
func NewDetector() *Detector {
	return &Detector{existing: make(map[string]bool)}
}

// ScanExistingPaths indexes every path currently under root, the root
// included. Walk errors propagate: a partial index cannot be trusted.
func (d *Detector) ScanExistingPaths(root string) error {
	err := filepath.WalkDir(root, func(path string, _ fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		d.existing[filepath.Clean(path)] = true
		return nil
	})
	if err != nil {
		return errors.Errorf("scanning %s: %w", root, err)
	}
	return nil
}

// AddRenames stages proposed transforms for detection.
func (d *Detector) AddRenames(renames []Rename) {
	d.renames = append(d.renames, renames...)
}

// DetectCollisions returns every collision among the staged renames, ordered
// by target path for stable output.
func (d *Detector) DetectCollisions() []Collision {
	var out []Collision
	claimed := make(map[string]*Rename, len(d.renames))
	for i := range d.renames {
		r := d.renames[i]
		src := filepath.Clean(r.Source)
		dst := filepath.Clean(r.Target)

		if src == dst {
			out = append(out, Collision{Kind: SourceEqualsTarget, Rename: r})
			continue
		}

		if prev, ok := claimed[dst]; ok {
			out = append(out, Collision{Kind: DuplicateTarget, Rename: r, Other: prev})
		} else {
			claimed[dst] = &d.renames[i]
		}

		if d.existing[dst] {
			out = append(out, Collision{Kind: TargetExists, Rename: r})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rename.Target != out[j].Rename.Target {
			return out[i].Rename.Target < out[j].Rename.Target
		}
		return out[i].Rename.Source < out[j].Rename.Source
	})
	return out
}

// Fatal filters the result of DetectCollisions down to run-aborting kinds.
func Fatal(collisions []Collision) []Collision {
	var out []Collision
	for _, c := range collisions {
		if c.Kind.Fatal() {
			out = append(out, c)
		}
	}
	return out
}
