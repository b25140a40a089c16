package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateLevel(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true}, // case insensitive
		{"invalid", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := ValidateLevel(tt.level); got != tt.valid {
				t.Errorf("ValidateLevel(%q) = %v, want %v", tt.level, got, tt.valid)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format string
		valid  bool
	}{
		{"logfmt", true},
		{"json", true},
		{"JSON", true},
		{"text", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := ValidateFormat(tt.format); got != tt.valid {
				t.Errorf("ValidateFormat(%q) = %v, want %v", tt.format, got, tt.valid)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn}, // alias
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo}, // fallback
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		hasErr bool
	}{
		{"stdout logfmt", Config{Level: "info", Format: "logfmt", Output: "stdout"}, false},
		{"stderr json", Config{Level: "debug", Format: "json", Output: "stderr"}, false},
		{"invalid level", Config{Level: "loud", Format: "logfmt"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, closer, err := New(tt.config)
			if tt.hasErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if logger == nil {
				t.Fatal("New returned nil logger")
			}
			if closer != nil {
				t.Error("closer should be nil for console output")
			}
		})
	}
}

func TestNewWithFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "agent.log")

	logger, closer, err := New(Config{Level: "info", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if closer == nil {
		t.Fatal("expected closer for file output")
	}

	logger.Info("registry initialized", "entries", 109)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `"entries":109`) {
		t.Errorf("log file missing record: %s", data)
	}
}

func TestOpenLogFileRejectsTraversal(t *testing.T) {
	if _, err := openLogFile("../../agent.log"); err == nil {
		t.Error("expected traversal path to be rejected")
	}
	if _, err := openLogFile("/proc/agent.log"); err == nil {
		t.Error("expected /proc path to be rejected")
	}
}

func TestSetLevel(t *testing.T) {
	if err := Init(Config{Level: "info", Format: "logfmt", Output: "stderr"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer func() { _ = Shutdown() }()

	if err := SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	if !Get().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be enabled after SetLevel(debug)")
	}
	if err := SetLevel("nope"); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestComponentLoggerWithNilLogger(t *testing.T) {
	cl := &ComponentLogger{component: "mib", componentType: "registry"}

	next := cl.With("key", "value")
	concrete, ok := next.(*ComponentLogger)
	if !ok {
		t.Fatal("With() should return *ComponentLogger")
	}
	if concrete.GetComponent() != "mib" || concrete.GetComponentType() != "registry" {
		t.Errorf("With() lost component context: %q/%q", concrete.component, concrete.componentType)
	}

	// Must not panic without an underlying logger.
	cl.Info("info")
	cl.DebugContext(context.Background(), "debug")
}

func TestContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger := FromSlog(slog.New(slog.NewTextHandler(&buf, nil)))

	ctx := WithField(context.Background(), KeyPeer, "192.0.2.7:40161")
	ctx = WithField(ctx, KeyPDUType, "GetNextRequest")
	logger.InfoContext(ctx, "request handled")

	out := buf.String()
	if !strings.Contains(out, "peer=192.0.2.7:40161") {
		t.Errorf("missing peer field: %s", out)
	}
	if !strings.Contains(out, "pdu_type=GetNextRequest") {
		t.Errorf("missing pdu_type field: %s", out)
	}
}

func TestTracer(t *testing.T) {
	var buf bytes.Buffer
	logger := FromSlog(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	SetTraceLevel(ChannelMIB, 10)
	defer SetTraceLevel(ChannelMIB, 0)

	tr := NewTracer(ChannelMIB, logger)
	tr.Trace(17, "too verbose")
	tr.Trace(5, "resetting counter", "name", "daemon.connectionTotal.0")

	out := buf.String()
	if strings.Contains(out, "too verbose") {
		t.Errorf("level 17 message should be filtered: %s", out)
	}
	if !strings.Contains(out, "channel=snmp.mib") || !strings.Contains(out, "trace_level=5") {
		t.Errorf("missing trace attributes: %s", out)
	}
}

func TestTracerContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger := FromSlog(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	SetTraceLevel(ChannelAgent, 15)
	defer SetTraceLevel(ChannelAgent, 0)

	ctx := WithField(context.Background(), KeyRequestID, "42")
	ctx = WithField(ctx, KeyPeer, "192.0.2.7:40161")

	tr := NewTracer(ChannelAgent, logger)
	tr.TraceContext(ctx, 20, "too verbose")
	tr.TraceContext(ctx, 15, "answered request", "bindings", 1)

	out := buf.String()
	if strings.Contains(out, "too verbose") {
		t.Errorf("level 20 message should be filtered: %s", out)
	}
	for _, want := range []string{"request_id=42", "peer=192.0.2.7:40161", "bindings=1", "channel=snmp.agent"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s: %s", want, out)
		}
	}
}

func TestDiscardAndGlobalWrappers(t *testing.T) {
	Discard().Info("dropped")

	if _, ok := Discard().(*slogWrapper); !ok {
		t.Error("Discard() should wrap a slog logger")
	}
	if GetLogger() == nil {
		t.Error("GetLogger() returned nil")
	}
}

func TestParseTraceSpec(t *testing.T) {
	defer SetTraceLevel("snmp.db", 0)
	defer SetTraceLevel(ChannelMIB, 0)

	invalid := ParseTraceSpec("snmp.mib:20, snmp.db:7, broken, :3")
	if len(invalid) != 2 {
		t.Errorf("invalid = %v, want 2 items", invalid)
	}
	if got := TraceLevel(ChannelMIB); got != 20 {
		t.Errorf("TraceLevel(snmp.mib) = %d, want 20", got)
	}
	if got := TraceLevel("snmp.db"); got != 7 {
		t.Errorf("TraceLevel(snmp.db) = %d, want 7", got)
	}
}
