// Package logger provides structured JSON logging and run metrics for f1news.
//
// Log lines are emitted by a log/slog JSON handler. The level filter accepts
// DEBUG, INFO, WARN and ERROR, and every entry may carry arbitrary structured
// fields:
//
//	logger.Info("Fetched listing", logger.Fields{
//	    "url":     cfg.Source.URL,
//	    "stories": len(stories),
//	})
//
//	logger.Error("Email delivery failed", logger.Fields{"to": cfg.Mail.To}, err)
//
// Metrics tracks counters, gauges and timings and is reported at DEBUG after
// each run:
//
//	m := logger.DefaultMetrics()
//	m.AddCounter("stories.new", int64(len(fresh)))
//	m.RecordTiming("pipeline.run", time.Since(start))
//	m.Report(logger.Default())
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level is a log severity name
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var slogLevels = map[Level]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

// ParseLevel converts a user supplied level name, defaulting to INFO
func ParseLevel(value string) Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger wraps a slog.Logger behind the Fields-based API
type Logger struct {
	slog *slog.Logger
}

// Fields are attached to an entry as JSON keys
type Fields map[string]interface{}

var defaultLogger *Logger

func init() {
	defaultLogger = New(LevelInfo, os.Stderr)
}

// New returns a JSON logger writing to output. Entries below level are dropped.
func New(level Level, output io.Writer) *Logger {
	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{
		Level: slogLevels[level],
	})
	return &Logger{slog: slog.New(handler)}
}

// SetDefault replaces the logger behind the package-level functions
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// Default returns the package-level logger
func Default() *Logger {
	return defaultLogger
}

// With returns a logger that adds fields to every entry
func (l *Logger) With(fields Fields) *Logger {
	return &Logger{slog: slog.New(l.slog.Handler().WithAttrs(fields.attrs()))}
}

func (l *Logger) log(level Level, message string, fields Fields, err error) {
	attrs := fields.attrs()
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.slog.LogAttrs(context.Background(), slogLevels[level], message, attrs...)
}

// attrs converts fields to slog attributes in key order so output is stable
func (f Fields) attrs() []slog.Attr {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, f[k]))
	}
	return attrs
}

// Debug logs at DEBUG.
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

// Info logs at INFO.
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs degraded input, such as a page with no stories.
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil)
}

// Error logs at ERROR, adding err under the "error" key when non-nil.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Debug logs to the default logger
func Debug(message string, fields Fields) {
	defaultLogger.Debug(message, fields)
}

// Info logs to the default logger
func Info(message string, fields Fields) {
	defaultLogger.Info(message, fields)
}

// Warn logs to the default logger
func Warn(message string, fields Fields) {
	defaultLogger.Warn(message, fields)
}

// Error logs to the default logger
func Error(message string, fields Fields, err error) {
	defaultLogger.Error(message, fields, err)
}

// Metrics accumulates counters, gauges and timings across runs.
// Safe for concurrent use; watch mode records from cron goroutines.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	gauges   map[string]float64
	timings  map[string]TimingStats
}

// TimingStats summarizes the durations recorded under one name
type TimingStats struct {
	Count int           `json:"count"`
	Total time.Duration `json:"total"`
	Min   time.Duration `json:"min"`
	Max   time.Duration `json:"max"`
}

// Average returns the mean duration, zero when nothing was recorded
func (s TimingStats) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

func (s TimingStats) add(d time.Duration) TimingStats {
	if s.Count == 0 || d < s.Min {
		s.Min = d
	}
	if d > s.Max {
		s.Max = d
	}
	s.Count++
	s.Total += d
	return s
}

// Snapshot is a point-in-time copy of Metrics
type Snapshot struct {
	Counters map[string]int64       `json:"counters"`
	Gauges   map[string]float64     `json:"gauges"`
	Timings  map[string]TimingStats `json:"timings"`
}

var defaultMetrics = NewMetrics()

// NewMetrics creates an empty tracker
func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		gauges:   make(map[string]float64),
		timings:  make(map[string]TimingStats),
	}
}

// DefaultMetrics returns the process-wide tracker
func DefaultMetrics() *Metrics {
	return defaultMetrics
}

// IncrCounter increments a counter by 1
func (m *Metrics) IncrCounter(name string) {
	m.AddCounter(name, 1)
}

// AddCounter increments a counter by delta
func (m *Metrics) AddCounter(name string, delta int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] += delta
}

// SetGauge overwrites a gauge
func (m *Metrics) SetGauge(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[name] = value
}

// RecordTiming folds one duration into the named timing
func (m *Metrics) RecordTiming(name string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings[name] = m.timings[name].add(d)
}

// Snapshot copies the current values
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Counters: make(map[string]int64, len(m.counters)),
		Gauges:   make(map[string]float64, len(m.gauges)),
		Timings:  make(map[string]TimingStats, len(m.timings)),
	}
	for k, v := range m.counters {
		snap.Counters[k] = v
	}
	for k, v := range m.gauges {
		snap.Gauges[k] = v
	}
	for k, v := range m.timings {
		snap.Timings[k] = v
	}
	return snap
}

// Report logs the snapshot at DEBUG, one field per metric
func (m *Metrics) Report(l *Logger) {
	snap := m.Snapshot()
	fields := make(Fields, len(snap.Counters)+len(snap.Gauges)+len(snap.Timings))
	for k, v := range snap.Counters {
		fields[k] = v
	}
	for k, v := range snap.Gauges {
		fields[k] = v
	}
	for k, v := range snap.Timings {
		fields[k] = v.Average().String()
	}
	l.Debug("Metrics", fields)
}
