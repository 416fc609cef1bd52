package render

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// SkipReason says why a triangle produced no coverage.
type SkipReason int

const (
	// SkipDegenerate marks zero, near-zero or NaN area.
	SkipDegenerate SkipReason = iota
	// SkipBackFace marks a clockwise triangle under CullBack.
	SkipBackFace
	// SkipOffscreen marks a triangle whose bounds miss the target.
	SkipOffscreen
)

func (r SkipReason) String() string {
	switch r {
	case SkipDegenerate:
		return "degenerate"
	case SkipBackFace:
		return "back-face"
	case SkipOffscreen:
		return "offscreen"
	default:
		return "unknown"
	}
}

// Tracer observes the rasterizer at fixed points. Pixel hooks may be
// called from several goroutines when filling in parallel.
type Tracer interface {
	TriangleStart(index int)
	TriangleSkipped(index int, reason SkipReason)
	PixelAccepted(x, y int, depth float32)
	PixelRejected(x, y int, depth float32)
}

type nopTracer struct{}

func (nopTracer) TriangleStart(int)               {}
func (nopTracer) TriangleSkipped(int, SkipReason) {}
func (nopTracer) PixelAccepted(int, int, float32) {}
func (nopTracer) PixelRejected(int, int, float32) {}

// NopTracer ignores every event.
var NopTracer Tracer = nopTracer{}

// Stats counts tracer events atomically.
type Stats struct {
	Triangles      atomic.Int64
	Degenerate     atomic.Int64
	BackFaces      atomic.Int64
	Offscreen      atomic.Int64
	PixelsAccepted atomic.Int64
	PixelsRejected atomic.Int64
}

// TriangleStart implements Tracer.
func (s *Stats) TriangleStart(int) { s.Triangles.Add(1) }

// TriangleSkipped implements Tracer.
func (s *Stats) TriangleSkipped(_ int, reason SkipReason) {
	switch reason {
	case SkipDegenerate:
		s.Degenerate.Add(1)
	case SkipBackFace:
		s.BackFaces.Add(1)
	case SkipOffscreen:
		s.Offscreen.Add(1)
	}
}

// PixelAccepted implements Tracer.
func (s *Stats) PixelAccepted(int, int, float32) { s.PixelsAccepted.Add(1) }

// PixelRejected implements Tracer.
func (s *Stats) PixelRejected(int, int, float32) { s.PixelsRejected.Add(1) }

// Skipped returns the total number of skipped triangles.
func (s *Stats) Skipped() int64 {
	return s.Degenerate.Load() + s.BackFaces.Load() + s.Offscreen.Load()
}

// LogValue implements slog.LogValuer.
func (s *Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("triangles", s.Triangles.Load()),
		slog.Int64("skipped", s.Skipped()),
		slog.Int64("accepted", s.PixelsAccepted.Load()),
		slog.Int64("rejected", s.PixelsRejected.Load()),
	)
}

// SlogTracer writes every event as a Debug record.
type SlogTracer struct {
	Logger *slog.Logger
}

func (t SlogTracer) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return Logger()
}

func (t SlogTracer) debug(msg string, attrs ...slog.Attr) {
	l := t.logger()
	ctx := context.Background()
	if !l.Enabled(ctx, slog.LevelDebug) {
		return
	}
	l.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

// TriangleStart implements Tracer.
func (t SlogTracer) TriangleStart(index int) {
	t.debug("triangle start", slog.Int("index", index))
}

// TriangleSkipped implements Tracer.
func (t SlogTracer) TriangleSkipped(index int, reason SkipReason) {
	t.debug("triangle skipped", slog.Int("index", index), slog.String("reason", reason.String()))
}

// PixelAccepted implements Tracer.
func (t SlogTracer) PixelAccepted(x, y int, depth float32) {
	t.debug("pixel accepted", slog.Int("x", x), slog.Int("y", y), slog.Float64("depth", float64(depth)))
}

// PixelRejected implements Tracer.
func (t SlogTracer) PixelRejected(x, y int, depth float32) {
	t.debug("pixel rejected", slog.Int("x", x), slog.Int("y", y), slog.Float64("depth", float64(depth)))
}

// MultiTracer fans events out to several tracers.
type MultiTracer []Tracer

// TriangleStart implements Tracer.
func (m MultiTracer) TriangleStart(index int) {
	for _, t := range m {
		t.TriangleStart(index)
	}
}

// TriangleSkipped implements Tracer.
func (m MultiTracer) TriangleSkipped(index int, reason SkipReason) {
	for _, t := range m {
		t.TriangleSkipped(index, reason)
	}
}

// PixelAccepted implements Tracer.
func (m MultiTracer) PixelAccepted(x, y int, depth float32) {
	for _, t := range m {
		t.PixelAccepted(x, y, depth)
	}
}

// PixelRejected implements Tracer.
func (m MultiTracer) PixelRejected(x, y int, depth float32) {
	for _, t := range m {
		t.PixelRejected(x, y, depth)
	}
}

// TracerFuncs is a Tracer built from optional callbacks.
type TracerFuncs struct {
	OnTriangleStart   func(index int)
	OnTriangleSkipped func(index int, reason SkipReason)
	OnPixelAccepted   func(x, y int, depth float32)
	OnPixelRejected   func(x, y int, depth float32)
}

// TriangleStart implements Tracer.
func (f TracerFuncs) TriangleStart(index int) {
	if f.OnTriangleStart != nil {
		f.OnTriangleStart(index)
	}
}

// TriangleSkipped implements Tracer.
func (f TracerFuncs) TriangleSkipped(index int, reason SkipReason) {
	if f.OnTriangleSkipped != nil {
		f.OnTriangleSkipped(index, reason)
	}
}

// PixelAccepted implements Tracer.
func (f TracerFuncs) PixelAccepted(x, y int, depth float32) {
	if f.OnPixelAccepted != nil {
		f.OnPixelAccepted(x, y, depth)
	}
}

// PixelRejected implements Tracer.
func (f TracerFuncs) PixelRejected(x, y int, depth float32) {
	if f.OnPixelRejected != nil {
		f.OnPixelRejected(x, y, depth)
	}
}
