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

package log_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/bulkrename/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// 🧪 TestLogItemOperation tests the console line for each operation shape.
func TestLogItemOperation(t *testing.T) {
	tests := []struct {
		name string
		op   log.ItemOperation
		want []string
	}{
		{
			name: "file rename",
			op: log.ItemOperation{
				Path:    "old_file.txt",
				NewPath: "new_file.txt",
				Kind:    log.KindFile,
			},
			want: []string{"old_file.txt", "new_file.txt", "file"},
		},
		{
			name: "content edit",
			op: log.ItemOperation{
				Path:         "notes.txt",
				Kind:         log.KindContent,
				Replacements: 3,
			},
			want: []string{"notes.txt", "3 replaced", "content"},
		},
		{
			name: "failed rename",
			op: log.ItemOperation{
				Path:   "locked.txt",
				Kind:   log.KindFile,
				Failed: true,
				Err:    errors.New("permission denied"),
			},
			want: []string{"locked.txt", "permission denied"},
		},
		{
			name: "skipped no-op",
			op: log.ItemOperation{
				Path:    "same.txt",
				Kind:    log.KindDirectory,
				Skipped: true,
			},
			want: []string{"same.txt", "directory"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := log.New(&buf, zerolog.Disabled)
			l.LogItemOperation(context.Background(), tt.op)
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

// 🧪 TestContextRoundTrip tests logger storage in context.
func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&buf, zerolog.Disabled)

	ctx := log.NewContext(context.Background(), l)
	require.Same(t, l, log.FromContext(ctx))
	assert.Nil(t, log.FromContext(context.Background()))
}

// 🧪 TestMessageHelpers tests the leveled console helpers.
func TestMessageHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&buf, zerolog.Disabled)

	l.Header("planning changes")
	l.Success("all operations completed")
	l.Warningf("%d items skipped", 2)
	l.Errorf("%d items failed", 1)
	l.Infof("%d items discovered", 9)

	out := buf.String()
	assert.Contains(t, out, "bulkrename")
	assert.Contains(t, out, "planning changes")
	assert.Contains(t, out, "all operations completed")
	assert.Contains(t, out, "2 items skipped")
	assert.Contains(t, out, "1 items failed")
	assert.Contains(t, out, "9 items discovered")
}
