package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		level   string
		enabled zapcore.Level
		wantErr bool
	}{
		{name: "prod default", env: "prod", enabled: zapcore.InfoLevel},
		{name: "local default", env: "local", enabled: zapcore.DebugLevel},
		{name: "override", env: "prod", level: "WARN", enabled: zapcore.WarnLevel},
		{name: "unknown env", env: "staging", wantErr: true},
		{name: "bad level", env: "dev", level: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(tt.env, tt.level)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !l.Core().Enabled(tt.enabled) {
				t.Errorf("level %s should be enabled", tt.enabled)
			}
			if tt.enabled > zapcore.DebugLevel && l.Core().Enabled(tt.enabled-1) {
				t.Errorf("level %s should be disabled", tt.enabled-1)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	if l := FromContext(context.Background()); l.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("expected nop logger for empty context")
	}

	want := zap.NewExample()
	ctx := NewContext(context.Background(), want)
	if got := FromContext(ctx); got != want {
		t.Error("expected stored logger")
	}
}

func TestFromContextOr(t *testing.T) {
	fallback := zap.NewExample()
	if got := FromContextOr(context.Background(), fallback); got != fallback {
		t.Error("expected fallback for empty context")
	}
	if got := FromContextOr(NewContext(context.Background(), nil), fallback); got != fallback {
		t.Error("expected fallback for nil stored logger")
	}

	stored := zap.NewNop()
	if got := FromContextOr(NewContext(context.Background(), stored), fallback); got != stored {
		t.Error("expected stored logger over fallback")
	}
}
