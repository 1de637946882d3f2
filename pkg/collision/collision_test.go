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

package collision_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/bulkrename/pkg/collision"
)

// 🧪 buildTree creates files under a temp root and returns the root.
func buildTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
	return root
}

// 🧪 TestTargetExists tests the fatal existing-target collision.
func TestTargetExists(t *testing.T) {
	root := buildTree(t, "old_file.txt", "new_file.txt")

	d := collision.NewDetector()
	require.NoError(t, d.ScanExistingPaths(root))
	d.AddRenames([]collision.Rename{{
		Source: filepath.Join(root, "old_file.txt"),
		Target: filepath.Join(root, "new_file.txt"),
	}})

	collisions := d.DetectCollisions()
	require.Len(t, collisions, 1)
	assert.Equal(t, collision.TargetExists, collisions[0].Kind)
	assert.True(t, collisions[0].Kind.Fatal())
}

// 🧪 TestDuplicateTarget tests two renames converging on one path.
func TestDuplicateTarget(t *testing.T) {
	root := buildTree(t, "a_old.txt", "b_old.txt")

	d := collision.NewDetector()
	require.NoError(t, d.ScanExistingPaths(root))
	d.AddRenames([]collision.Rename{
		{Source: filepath.Join(root, "a_old.txt"), Target: filepath.Join(root, "same.txt")},
		{Source: filepath.Join(root, "b_old.txt"), Target: filepath.Join(root, "same.txt")},
	})

	collisions := d.DetectCollisions()
	require.Len(t, collisions, 1)
	assert.Equal(t, collision.DuplicateTarget, collisions[0].Kind)
	require.NotNil(t, collisions[0].Other)
	assert.NotEqual(t, collisions[0].Rename.Source, collisions[0].Other.Source)
}

// 🧪 TestSourceEqualsTarget tests that no-op renames are informational only.
func TestSourceEqualsTarget(t *testing.T) {
	root := buildTree(t, "same_name.txt")
	path := filepath.Join(root, "same_name.txt")

	d := collision.NewDetector()
	require.NoError(t, d.ScanExistingPaths(root))
	d.AddRenames([]collision.Rename{{Source: path, Target: path}})

	collisions := d.DetectCollisions()
	require.Len(t, collisions, 1)
	assert.Equal(t, collision.SourceEqualsTarget, collisions[0].Kind)
	assert.False(t, collisions[0].Kind.Fatal())
	assert.Empty(t, collision.Fatal(collisions))
}

// 🧪 TestCleanRun tests that non-conflicting renames produce no collisions.
func TestCleanRun(t *testing.T) {
	root := buildTree(t, "old_a.txt", "sub/old_b.txt")

	d := collision.NewDetector()
	require.NoError(t, d.ScanExistingPaths(root))
	d.AddRenames([]collision.Rename{
		{Source: filepath.Join(root, "old_a.txt"), Target: filepath.Join(root, "new_a.txt")},
		{Source: filepath.Join(root, "sub", "old_b.txt"), Target: filepath.Join(root, "sub", "new_b.txt")},
	})

	assert.Empty(t, d.DetectCollisions())
}

// 🧪 TestScanErrorPropagates tests that a failed scan is not swallowed.
func TestScanErrorPropagates(t *testing.T) {
	d := collision.NewDetector()
	err := d.ScanExistingPaths(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}
