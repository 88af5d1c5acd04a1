package viewer

import (
	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/engine/render"
)

// HeadlessStats summarises a headless run.
type HeadlessStats struct {
	Frames int
	Calls  int
}

// RunHeadless drives frames updates and renders at a fixed step against
// tr, logging body positions every second of simulated time.
func (v *Viewer) RunHeadless(tr *render.Tracer, frames int, dt float32) HeadlessStats {
	var stats HeadlessStats
	every := 1
	if dt > 0 && dt < 1 {
		every = int(1/dt + 0.5)
	}

	for i := 0; i < frames; i++ {
		v.Update(dt)
		tr.Reset()
		v.Render(tr)
		stats.Frames++
		stats.Calls += len(tr.Calls)

		if (i+1)%every == 0 {
			v.logPositions(i + 1)
		}
	}
	v.log.Info("headless run finished",
		zap.Int("frames", stats.Frames),
		zap.Int("draw_calls", stats.Calls),
	)
	return stats
}

func (v *Viewer) logPositions(frame int) {
	fields := []zap.Field{
		zap.Int("frame", frame),
		zap.Bool("paused", v.system.Paused()),
		zap.Any("star", v.system.StarPosition()),
	}
	for _, n := range v.system.Star().Children() {
		fields = append(fields, zap.Any(n.Name, n.WorldPosition()))
	}
	v.log.Debug("positions", fields...)
}
