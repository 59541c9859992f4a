package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(t *testing.T) (*Logger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return fromCore(core), logs
}

func TestPackageFunctionsReportCaller(t *testing.T) {
	req := require.New(t)
	l, logs := observed(t)
	prev := GlobalLogger
	SetGlobal(l)
	t.Cleanup(func() { GlobalLogger = prev })

	Info("joined %s", "Alice")
	Warn("slow")

	entries := logs.All()
	req.Len(entries, 2)
	req.Equal("joined Alice", entries[0].Message)
	for _, e := range entries {
		req.True(e.Caller.Defined)
		req.Equal("logger_test.go", filepath.Base(e.Caller.File))
	}
}

func TestInstanceMethodsReportCaller(t *testing.T) {
	req := require.New(t)
	l, logs := observed(t)

	l.Error("boom %d", 1)

	entries := logs.All()
	req.Len(entries, 1)
	req.Equal(zapcore.ErrorLevel, entries[0].Level)
	req.Equal("logger_test.go", filepath.Base(entries[0].Caller.File))
}

func TestParseLevel(t *testing.T) {
	req := require.New(t)
	req.Equal(zapcore.DebugLevel, parseLevel(" DEBUG "))
	req.Equal(zapcore.WarnLevel, parseLevel("warning"))
	req.Equal(zapcore.ErrorLevel, parseLevel("error"))
	req.Equal(zapcore.InfoLevel, parseLevel(""))
}
