package gateways

import (
	"context"
	"fmt"
	"strings"

	"github.com/khronokernel/dcbuild/internal/domain/entities"
	"github.com/khronokernel/dcbuild/internal/domain/interfaces"
)

// logEntry is one message captured by recordingLogger
type logEntry struct {
	level  string
	msg    string
	fields []interfaces.Field
}

// text renders the entry with its field values for substring checks
func (e logEntry) text() string {
	var b strings.Builder
	b.WriteString(e.msg)
	for _, f := range e.fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	return b.String()
}

// recordingLogger keeps every entry so tests can inspect levels and fields
type recordingLogger struct {
	entries []logEntry
}

func (l *recordingLogger) record(level, msg string, fields []interfaces.Field) {
	l.entries = append(l.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (l *recordingLogger) Debug(msg string, fields ...interfaces.Field) { l.record("debug", msg, fields) }
func (l *recordingLogger) Info(msg string, fields ...interfaces.Field)  { l.record("info", msg, fields) }
func (l *recordingLogger) Warn(msg string, fields ...interfaces.Field)  { l.record("warn", msg, fields) }
func (l *recordingLogger) Error(msg string, fields ...interfaces.Field) { l.record("error", msg, fields) }

// fakeRunner records commands and answers from a table keyed by tool path
type fakeRunner struct {
	commands [][]string
	results  map[string]*entities.StageResult
	onInvoke func(command []string)
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{results: make(map[string]*entities.StageResult)}
}

func (f *fakeRunner) respond(tool string, result *entities.StageResult) {
	f.results[tool] = result
}

func (f *fakeRunner) Invoke(_ context.Context, command []string) *entities.StageResult {
	f.commands = append(f.commands, command)
	if f.onInvoke != nil {
		f.onInvoke(command)
	}

	key := command[0]
	if len(command) > 1 && strings.HasSuffix(command[0], "xcrun") {
		key = command[0] + " " + command[1]
	}
	if r, ok := f.results[key]; ok {
		out := *r
		out.Command = command
		return &out
	}
	return &entities.StageResult{Command: command}
}

func (f *fakeRunner) Check(ctx context.Context, failure string, command []string) error {
	result := f.Invoke(ctx, command)
	if result.Success() {
		return nil
	}
	return &entities.ToolInvocationError{Message: failure, Result: result}
}

func (f *fakeRunner) joined() []string {
	out := make([]string, 0, len(f.commands))
	for _, c := range f.commands {
		out = append(out, strings.Join(c, " "))
	}
	return out
}
