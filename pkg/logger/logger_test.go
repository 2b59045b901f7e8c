package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInit_JSONWithComponent(t *testing.T) {
	resetAfter(t)

	var buf bytes.Buffer
	Init(Options{Level: "info", Service: "storefront", Output: &buf})

	l := Component("orders")
	l.Info().Str("order_number", "ORD-1-ABCDEF12").Msg("order created")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if line["service"] != "storefront" || line["component"] != "orders" {
		t.Errorf("missing context fields: %v", line)
	}
	if line["order_number"] != "ORD-1-ABCDEF12" {
		t.Errorf("order_number = %v", line["order_number"])
	}
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	resetAfter(t)

	var first, second bytes.Buffer
	Init(Options{Level: "info", Output: &first})
	Init(Options{Level: "debug", Output: &second})

	l := Get()
	l.Info().Msg("hello")
	if first.Len() == 0 || second.Len() != 0 {
		t.Errorf("second Init should be ignored: first=%q second=%q", first.String(), second.String())
	}
}

func TestGet_BeforeInitIsNoop(t *testing.T) {
	Reset()
	l := Get()
	l.Error().Msg("dropped")
}

func resetAfter(t *testing.T) {
	t.Helper()
	prev := zerolog.GlobalLevel()
	Reset()
	t.Cleanup(func() {
		Reset()
		zerolog.SetGlobalLevel(prev)
	})
}
