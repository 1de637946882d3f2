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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	itemIndent = 4  // spaces to indent item entries
	pathWidth  = 45 // base width for the item path
	kindWidth  = 10 // width for the item kind
)

// 🎯 ItemKind says what part of an item an operation touched.
type ItemKind string

const (
	KindContent   ItemKind = "content"
	KindFile      ItemKind = "file"
	KindDirectory ItemKind = "directory"
)

// 🎯 ItemOperation represents one executed rename or content edit for logging
type ItemOperation struct {
	Path         string   // Path the operation addressed
	NewPath      string   // Rename target, empty for content edits
	Kind         ItemKind // content / file / directory
	Replacements int      // Occurrences replaced, content edits only
	Skipped      bool     // No-op, nothing to do
	Failed       bool     // Operation failed; Err carries the cause
	Err          error
}

// 🎯 Logger pairs colored console lines with structured zerolog output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or nil when absent
func FromContext(ctx context.Context) *Logger {
	logger, _ := ctx.Value(contextKey{}).(*Logger)
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 🎯 ZerologContext attaches the structured half of the logger to ctx so
// zerolog.Ctx picks it up down the call tree.
func (l *Logger) ZerologContext(ctx context.Context) context.Context {
	return l.zlog.WithContext(ctx)
}

// 📝 formatItemOperation formats one operation for display
func (l *Logger) formatItemOperation(op ItemOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.Failed:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.Skipped:
		symbol = '-'
		symbolColor = color.FgYellow
	case op.Kind == KindContent:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '✓'
		symbolColor = color.FgGreen
	}

	var kindColor color.Attribute
	switch op.Kind {
	case KindContent:
		kindColor = color.FgBlue
	case KindDirectory:
		kindColor = color.FgCyan
	default:
		kindColor = color.FgWhite
	}

	detail := ""
	switch {
	case op.Failed && op.Err != nil:
		detail = op.Err.Error()
	case op.NewPath != "":
		detail = "→ " + op.NewPath
	case op.Replacements > 0:
		detail = fmt.Sprintf("%d replaced", op.Replacements)
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", itemIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", pathWidth, op.Path),
		color.New(kindColor).Sprint(fmt.Sprintf("%-*s", kindWidth, op.Kind)),
		detail)
}

// 📝 LogItemOperation logs one executed operation
func (l *Logger) LogItemOperation(ctx context.Context, op ItemOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatItemOperation(op))

	evt := l.zlog.Info()
	if op.Failed {
		evt = l.zlog.Error().Err(op.Err)
	}
	evt.
		Str("path", op.Path).
		Str("new_path", op.NewPath).
		Str("kind", string(op.Kind)).
		Int("replacements", op.Replacements).
		Bool("skipped", op.Skipped).
		Bool("failed", op.Failed).
		Msg("item operation")
}

// 📝 Header logs a phase header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("bulkrename")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
