package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// readRecords parses every JSON line in the debug log.
func readRecords(t *testing.T, dir string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	require.NoError(t, err)

	var records []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		var r map[string]any
		if err := json.Unmarshal(sc.Bytes(), &r); err == nil {
			records = append(records, r)
		}
	}
	return records
}

func TestInitDefaults(t *testing.T) {
	Shutdown()

	dir := t.TempDir()
	Init(Config{Debug: true, LogDir: dir})
	defer Shutdown()

	Logger().Info("test_message", "key", "value")

	records := readRecords(t, dir)
	require.NotEmpty(t, records)
	require.Equal(t, "test_message", records[0]["msg"])
	require.Equal(t, "value", records[0]["key"])
}

func TestInitNonDebug(t *testing.T) {
	Shutdown()

	Init(Config{Debug: false})
	defer Shutdown()

	l := Logger()
	require.NotNil(t, l)
	l.Info("this goes nowhere")
}

func TestLoggerBeforeInit(t *testing.T) {
	Shutdown()
	require.NotNil(t, Logger())
	// Package-level component loggers must not panic before Init.
	ForComponent(CompSheet).Debug("early")
}

func TestForComponent(t *testing.T) {
	Shutdown()

	// Created before Init, like the package-level loggers in the tree.
	cl := ForComponent(CompGesture)

	dir := t.TempDir()
	Init(Config{Debug: true, LogDir: dir})
	defer Shutdown()

	cl.Info("settle_decided", slog.String("decision", "closed"))

	records := readRecords(t, dir)
	require.Len(t, records, 1)
	require.Equal(t, CompGesture, records[0]["component"])
	require.Equal(t, "closed", records[0]["decision"])
}

func TestForComponentWithAttrs(t *testing.T) {
	Shutdown()

	dir := t.TempDir()
	Init(Config{Debug: true, LogDir: dir})
	defer Shutdown()

	ForComponent(CompMotion).With(slog.Int("sheet", 2)).Info("animation_started")

	records := readRecords(t, dir)
	require.Len(t, records, 1)
	require.Equal(t, CompMotion, records[0]["component"])
	require.EqualValues(t, 2, records[0]["sheet"])
}

func TestLevelFiltering(t *testing.T) {
	Shutdown()

	dir := t.TempDir()
	Init(Config{Debug: true, LogDir: dir, Level: "warn"})
	defer Shutdown()

	l := Logger()
	l.Info("should_be_filtered")
	l.Warn("should_appear")

	records := readRecords(t, dir)
	require.Len(t, records, 1)
	require.Equal(t, "should_appear", records[0]["msg"])
}

func TestTextFormat(t *testing.T) {
	Shutdown()

	dir := t.TempDir()
	Init(Config{Debug: true, LogDir: dir, Format: "text"})
	defer Shutdown()

	Logger().Info("text_format_test")

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	require.NoError(t, err)
	require.Contains(t, string(data), "msg=text_format_test")

	var record map[string]any
	require.Error(t, json.Unmarshal(data, &record), "text format should not be JSON")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for name, want := range tests {
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestSamplesFlushedOnShutdown(t *testing.T) {
	Shutdown()

	dir := t.TempDir()
	Init(Config{Debug: true, LogDir: dir, AggregateIntervalSecs: 60})

	for i := 0; i < 5; i++ {
		Sample(CompMotion, "offset", float64(i))
	}
	Shutdown()

	var summary map[string]any
	for _, r := range readRecords(t, dir) {
		if r["msg"] == "sample_summary" && r["series"] == "offset" {
			summary = r
		}
	}
	require.NotNil(t, summary, "offset summary not found")
	require.EqualValues(t, 5, summary["count"])
	require.EqualValues(t, 0, summary["min"])
	require.EqualValues(t, 4, summary["last"])
}
