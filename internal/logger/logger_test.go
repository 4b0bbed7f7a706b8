package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/samvad-hq/restclient/internal/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" INFO ":  zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitSetsPackageLogger(t *testing.T) {
	prev := S
	t.Cleanup(func() { S = prev })

	sugar, err := Init(&config.Config{LogLevel: "debug"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if sugar == nil || S != sugar {
		t.Fatalf("expected package logger to be set")
	}
	if !sugar.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level enabled")
	}
}

func TestFromSugarWritesObjects(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromSugar(zap.New(core).Sugar())

	log.DebugObj("request completed", "request", map[string]any{"status": 200})
	log.ErrorObj("request failed", "error", "boom")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "request completed" || entries[0].ContextMap()["request"] == nil {
		t.Fatalf("unexpected entry %#v", entries[0])
	}
	if entries[1].Level != zapcore.ErrorLevel {
		t.Fatalf("expected error level, got %v", entries[1].Level)
	}
}

func TestFromSugarNil(t *testing.T) {
	log := FromSugar(nil)
	if log == nil {
		t.Fatalf("expected a usable logger")
	}
	log.InfoObj("ignored", "k", 1)
}

func TestPackageHelpersWriteToS(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := S
	S = zap.New(core).Sugar()
	t.Cleanup(func() { S = prev })

	InfoObj("raw response", "response_meta", map[string]any{"status": 200})
	DebugObj("cache hit", "cache_key", "GET http://h/x")
	WarnObj("cache write failed", "error", "disk full")
	ErrorObj("cache close failed", "error", "closed")

	want := []zapcore.Level{zapcore.InfoLevel, zapcore.DebugLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	entries := logs.All()
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, e := range entries {
		if e.Level != want[i] {
			t.Fatalf("entry %d: expected %v, got %v", i, want[i], e.Level)
		}
	}
	if entries[1].ContextMap()["cache_key"] != "GET http://h/x" {
		t.Fatalf("unexpected fields %#v", entries[1].ContextMap())
	}
}

func TestPackageHelpersWithoutInit(t *testing.T) {
	prev := S
	S = nil
	t.Cleanup(func() { S = prev })
	InfoObj("noop", "k", 1)
	DebugObj("noop", "k", 1)
	WarnObj("noop", "k", 1)
	ErrorObj("noop", "k", 1)
	if err := Close(); err != nil {
		t.Fatalf("Close without Init: %v", err)
	}
}
