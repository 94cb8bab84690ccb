package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func summaries(t *testing.T, buf *bytes.Buffer) map[string]map[string]any {
	t.Helper()
	out := make(map[string]map[string]any)
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for sc.Scan() {
		var r map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		if r["msg"] == "sample_summary" {
			out[r["series"].(string)] = r
		}
	}
	return out
}

func TestAggregatorSeries(t *testing.T) {
	var buf bytes.Buffer
	agg := NewAggregator(slog.New(slog.NewJSONHandler(&buf, nil)), 60)

	agg.Sample(CompGesture, "translation", 20)
	agg.Sample(CompGesture, "translation", -5)
	agg.Sample(CompGesture, "translation", 110)
	agg.Sample(CompMotion, "offset", 12)
	require.EqualValues(t, 3, agg.Pending(CompGesture, "translation"))

	agg.flush()

	got := summaries(t, &buf)
	require.Len(t, got, 2)
	tr := got["translation"]
	require.EqualValues(t, 3, tr["count"])
	require.EqualValues(t, -5, tr["min"])
	require.EqualValues(t, 110, tr["max"])
	require.EqualValues(t, 110, tr["last"])
	require.Equal(t, CompGesture, tr["component"])
	require.EqualValues(t, 1, got["offset"]["count"])
	require.Zero(t, agg.Pending(CompGesture, "translation"))
}

func TestAggregatorRate(t *testing.T) {
	var buf bytes.Buffer
	agg := NewAggregator(slog.New(slog.NewJSONHandler(&buf, nil)), 60)

	base := time.Unix(1000, 0)
	tick := 0
	agg.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick-1) * 100 * time.Millisecond)
	}
	for i := 0; i < 11; i++ {
		agg.Sample(CompMotion, "offset", float64(i))
	}
	agg.flush()

	offset := summaries(t, &buf)["offset"]
	require.NotNil(t, offset)
	require.EqualValues(t, 1000, offset["span_ms"])
	require.InDelta(t, 11.0, offset["per_sec"], 0.001)
}

func TestAggregatorEmptyFlushWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	agg := NewAggregator(slog.New(slog.NewJSONHandler(&buf, nil)), 60)
	agg.flush()
	require.Zero(t, buf.Len())
}

func TestAggregatorNilLogger(t *testing.T) {
	agg := NewAggregator(nil, 1)
	agg.Start()
	agg.Sample(CompSheet, "offset", 1)
	agg.Stop()
}

func TestAggregatorStopFlushes(t *testing.T) {
	var buf bytes.Buffer
	agg := NewAggregator(slog.New(slog.NewJSONHandler(&buf, nil)), 60)
	agg.Start()

	agg.Sample(CompSheet, "height", 24)
	agg.Stop()
	agg.Stop()

	require.Contains(t, summaries(t, &buf), "height")
}
