package logging

import (
	"log/slog"
	"math"
	"sync"
	"time"
)

type seriesKey struct {
	component string
	name      string
}

// series summarizes the values a component reported for one quantity
// (an animation offset, a drag translation) since the last flush.
type series struct {
	count    int64
	min, max float64
	last     float64
	first    time.Time
	lastAt   time.Time
}

func (s *series) add(v float64, at time.Time) {
	if s.count == 0 {
		s.min, s.max, s.first = v, v, at
	}
	s.count++
	s.min = math.Min(s.min, v)
	s.max = math.Max(s.max, v)
	s.last = v
	s.lastAt = at
}

// Aggregator turns per-frame values into one summary record per series and
// flush interval, so a 60 fps animation does not write 60 lines a second.
type Aggregator struct {
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time

	mu     sync.Mutex
	series map[seriesKey]*series

	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewAggregator flushes every intervalSecs seconds (30 when not positive).
// A nil logger drops everything.
func NewAggregator(logger *slog.Logger, intervalSecs int) *Aggregator {
	if intervalSecs <= 0 {
		intervalSecs = 30
	}
	return &Aggregator{
		logger:   logger,
		interval: time.Duration(intervalSecs) * time.Second,
		now:      time.Now,
		series:   make(map[seriesKey]*series),
		done:     make(chan struct{}),
	}
}

func (a *Aggregator) Start() {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		t := time.NewTicker(a.interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				a.flush()
			case <-a.done:
				return
			}
		}
	}()
}

// Stop ends the flush loop and writes what is left. Safe to call twice.
func (a *Aggregator) Stop() {
	a.stopOnce.Do(func() { close(a.done) })
	a.wg.Wait()
	a.flush()
}

// Sample adds one value to the component's named series.
func (a *Aggregator) Sample(component, name string, v float64) {
	at := a.now()

	a.mu.Lock()
	defer a.mu.Unlock()
	k := seriesKey{component, name}
	s := a.series[k]
	if s == nil {
		s = &series{}
		a.series[k] = s
	}
	s.add(v, at)
}

// Pending is the number of unflushed values in a series.
func (a *Aggregator) Pending(component, name string) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s := a.series[seriesKey{component, name}]; s != nil {
		return s.count
	}
	return 0
}

func (a *Aggregator) flush() {
	a.mu.Lock()
	batch := a.series
	if len(batch) > 0 {
		a.series = make(map[seriesKey]*series)
	}
	a.mu.Unlock()

	if a.logger == nil || len(batch) == 0 {
		return
	}
	for k, s := range batch {
		span := s.lastAt.Sub(s.first)
		attrs := []any{
			slog.String("component", k.component),
			slog.String("series", k.name),
			slog.Int64("count", s.count),
			slog.Float64("min", s.min),
			slog.Float64("max", s.max),
			slog.Float64("last", s.last),
			slog.Int64("span_ms", span.Milliseconds()),
		}
		// Rate over the burst, not the flush window.
		if span > 0 {
			attrs = append(attrs, slog.Float64("per_sec", float64(s.count)/span.Seconds()))
		}
		a.logger.Info("sample_summary", attrs...)
	}
}
