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
	"sort"
	"strings"
)

// 🏷️ ItemType distinguishes file and directory renames.
type ItemType string

const (
	ItemFile      ItemType = "file"
	ItemDirectory ItemType = "directory"
)

// 📋 Item is one proposed rename, created at discovery and read-only
// afterwards. Depth counts path segments below the root and drives execution
// order only.
type Item struct {
	OriginalPath string   `json:"original_path"`
	NewPath      string   `json:"new_path"`
	Type         ItemType `json:"type"`
	Depth        int      `json:"depth"`
}

// IsNoOp reports whether the rename would not change the path.
func (i Item) IsNoOp() bool {
	return i.OriginalPath == i.NewPath
}

// sortItems orders items for race-free execution: all files before all
// directories, deepest first within each group. A directory is therefore
// never renamed while un-processed children still reference the old path.
// Path order breaks ties for determinism.
func sortItems(items []Item) {
	sort.SliceStable(items, func(a, b int) bool {
		ia, ib := items[a], items[b]
		if ia.Type != ib.Type {
			return ia.Type == ItemFile
		}
		if ia.Depth != ib.Depth {
			return ia.Depth > ib.Depth
		}
		return ia.OriginalPath < ib.OriginalPath
	})
}

// 📈 ItemError records one per-item execution failure.
type ItemError struct {
	Path    string `json:"path"`
	Op      string `json:"op"`
	Message string `json:"message"`
}

// 📈 Stats accumulates counters through execution and backs the final report.
type Stats struct {
	ContentChanges int         `json:"content_changes"`
	FilesRenamed   int         `json:"files_renamed"`
	DirsRenamed    int         `json:"dirs_renamed"`
	RenamesFailed  int         `json:"renames_failed"`
	ContentFailed  int         `json:"content_failed"`
	Errors         []ItemError `json:"errors,omitempty"`
}

// TotalChanges is the number of successful mutations across all kinds.
func (s *Stats) TotalChanges() int {
	return s.ContentChanges + s.FilesRenamed + s.DirsRenamed
}

// replaceName computes the new basename by literal substitution, honoring
// case-insensitive matching. The untouched remainder of the name keeps its
// original casing; the substitute is inserted verbatim per match.
func replaceName(name, old, sub string, ignoreCase bool) string {
	if !ignoreCase {
		return strings.ReplaceAll(name, old, sub)
	}
	return replaceAllFold(name, old, sub)
}

// containsName reports whether the basename matches the pattern under the
// configured case sensitivity.
func containsName(name, old string, ignoreCase bool) bool {
	if !ignoreCase {
		return strings.Contains(name, old)
	}
	return indexFold(name, old) >= 0
}

// replaceAllFold replaces every case-insensitive occurrence of old with sub.
func replaceAllFold(s, old, sub string) string {
	var b strings.Builder
	for {
		i := indexFold(s, old)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		b.WriteString(sub)
		s = s[i+len(old):]
	}
}

// indexFold is a case-insensitive strings.Index. Folding is ASCII-simple by
// way of strings.EqualFold over equal-length windows.
func indexFold(s, substr string) int {
	if substr == "" {
		return 0
	}
	for i := 0; i+len(substr) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}
