// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultConf(t *testing.T) {
	conf := SetDefaults()

	if conf.Output != "stdout" {
		t.Errorf("expected output to be stdout, got %s", conf.Output)
	}
	if conf.Level != "INFO" {
		t.Errorf("expected level to be INFO, got %s", conf.Level)
	}
	if conf.Filename != "registry.log" {
		t.Errorf("expected filename to be registry.log, got %s", conf.Filename)
	}
}

func TestConf_Validate(t *testing.T) {
	tests := []struct {
		name    string
		conf    *Conf
		wantErr bool
	}{
		{
			name:    "valid stdout config",
			conf:    &Conf{Output: "stdout", Level: "INFO"},
			wantErr: false,
		},
		{
			name: "valid file config",
			conf: &Conf{
				Output:     "file",
				Path:       "/tmp/logs",
				Level:      "DEBUG",
				KeepHours:  7,
				RotateSize: 100,
				RotateNum:  10,
			},
			wantErr: false,
		},
		{
			name:    "invalid file config - missing path",
			conf:    &Conf{Output: "file", Level: "INFO"},
			wantErr: true,
		},
		{
			name:    "file config with auto-correction",
			conf:    &Conf{Output: "file", Path: "/tmp/logs", Level: "INFO"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conf.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}

			if !tt.wantErr && tt.conf.Output == "file" {
				if tt.conf.RotateSize <= 0 || tt.conf.RotateNum <= 0 || tt.conf.KeepHours <= 0 {
					t.Errorf("rotation settings should be auto-corrected, got %+v", tt.conf)
				}
			}
		})
	}
}

func TestNewLog_File(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "nested")

	logger, err := NewLog(&Conf{
		Output:     "file",
		Path:       tmpDir,
		Filename:   "test.log",
		Level:      "INFO",
		KeepHours:  1,
		RotateSize: 1,
		RotateNum:  3,
	})
	if err != nil {
		t.Fatalf("NewLog() error = %v", err)
	}

	logger.Info("test message 1")
	logger.Warn("test message 2")
	_ = logger.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "test.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if len(content) == 0 {
		t.Error("log file should not be empty")
	}
}

func TestGlobalLogFunctions_AutoInit(t *testing.T) {
	mu.Lock()
	sugar = nil
	logger = nil
	mu.Unlock()
	once = sync.Once{}

	Info("test info message")
	Debugw("test debug message", "key", "value")

	mu.RLock()
	initialized := sugar != nil
	mu.RUnlock()
	if !initialized {
		t.Error("global logger should be auto-initialized")
	}
}

func TestWithContext_AddsTraceFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mu.Lock()
	logger = zap.New(core)
	sugar = logger.Sugar()
	mu.Unlock()
	t.Cleanup(func() { _ = Init(SetDefaults()) })

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	WithContext(ctx).Infow("traced")
	WithContext(context.Background()).Infow("untraced")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["trace_id"] != traceID.String() || fields["span_id"] != spanID.String() {
		t.Errorf("trace fields missing: %v", fields)
	}
	if _, ok := entries[1].ContextMap()["trace_id"]; ok {
		t.Error("untraced entry should not carry trace_id")
	}
}

func TestWithContext_ReportsCallSite(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mu.Lock()
	logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	sugar = logger.Sugar()
	mu.Unlock()
	t.Cleanup(func() { _ = Init(SetDefaults()) })

	WithContext(context.Background()).Infow("direct")
	Infow("helper")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if !strings.HasSuffix(e.Caller.File, "log_test.go") {
			t.Errorf("%q logged from %s, want log_test.go", e.Message, e.Caller.File)
		}
	}
}

func TestConcurrentLogging(t *testing.T) {
	_ = Init(SetDefaults())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Infow("concurrent message", "number", n)
			Warnw("warn message", "number", n)
		}(i)
	}
	wg.Wait()
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{" WARN ", zapcore.WarnLevel},
		{"WARNING", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"FATAL", zapcore.FatalLevel},
		{"INVALID", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := parseLogLevel(tt.input); result != tt.expected {
				t.Errorf("parseLogLevel(%s) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}
