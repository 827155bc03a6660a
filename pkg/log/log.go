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
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	nameWidth = 35 // Base width for the document path
	ruleWidth = 20 // Width for the rule name
)

// 🎯 PatchOperation is one rule applied to one document
type PatchOperation struct {
	Path         string // Document path
	Rule         string // Rule name or matcher description
	Status       string // Human readable outcome
	IsChanged    bool   // Whether the document was rewritten
	IsDryRun     bool   // Whether the write was suppressed
	Replacements int    // Number of matches replaced
}

// 🎯 Logger prints one console line per patch and mirrors it to zerolog
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	operations []PatchOperation
}

// 🏭 New creates a new logger. Console lines go to console; structured
// diagnostics go to stderr.
func New(console io.Writer, level zerolog.Level) *Logger {
	return NewWithDiagnostics(console, zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	}), level)
}

// 🏭 NewWithDiagnostics creates a new logger with an explicit diagnostics writer
func NewWithDiagnostics(console, diagnostics io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(diagnostics).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 📝 formatPatchOperation formats a patch for display
func (l *Logger) formatPatchOperation(op PatchOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsChanged && op.IsDryRun:
		symbol = '~'
		symbolColor = color.FgYellow
	case op.IsChanged:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	return fmt.Sprintf("%s %s %s %s",
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(color.Faint).Sprint(fmt.Sprintf("%-*s", ruleWidth, op.Rule)),
		op.Status)
}

// 📝 LogPatch prints the outcome line for one patch
func (l *Logger) LogPatch(ctx context.Context, op PatchOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatPatchOperation(op))

	l.zlog.Debug().
		Str("file", op.Path).
		Str("rule", op.Rule).
		Str("status", op.Status).
		Bool("is_changed", op.IsChanged).
		Bool("is_dry_run", op.IsDryRun).
		Int("replacements", op.Replacements).
		Msg("patch operation")
}

// 📊 Operations returns the patches logged so far
func (l *Logger) Operations() []PatchOperation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]PatchOperation(nil), l.operations...)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	patchrcText := color.New(color.Bold, color.FgCyan).Sprint("patchrc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", patchrcText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

