package zap

import (
	"errors"
	"testing"

	"github.com/unkn0wn-root/recframe"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := New(zap.New(core))

	l.Debug("hidden", nil)
	l.Info("scan done", recframe.Fields{"records": 3})
	l.Warn("skipped unreadable bytes", recframe.Fields{"offset": int64(8), "err": errors.New("boom")})
	l.Error("failed", nil)

	entries := logs.AllUntimed()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries (debug filtered), got %d", len(entries))
	}
	if entries[0].Message != "scan done" || entries[0].ContextMap()["records"] != int64(3) {
		t.Fatalf("unexpected info entry %+v", entries[0])
	}
	warn := entries[1]
	if warn.Level != zapcore.WarnLevel {
		t.Fatalf("level %v", warn.Level)
	}
	ctx := warn.ContextMap()
	if ctx["err"] != "boom" || ctx["offset"] != int64(8) {
		t.Fatalf("unexpected context %+v", ctx)
	}
	if entries[2].Level != zapcore.ErrorLevel {
		t.Fatalf("level %v", entries[2].Level)
	}
}

func TestNewNilDiscards(t *testing.T) {
	New(nil).Warn("nothing", recframe.Fields{"k": "v"})
}
