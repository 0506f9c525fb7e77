package game

import (
	"log/slog"

	"github.com/pthm-cable/munchers/components"
	"github.com/pthm-cable/munchers/telemetry"
)

// emit routes an event to the window collector, lifetime tracker and event sink.
func (g *Game) emit(ev telemetry.Event) {
	g.collector.Record(ev)
	g.lifetimeTracker.Record(ev)
	if g.eventSink != nil {
		g.eventSink(ev)
	}
}

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	radii, healths := g.sampleMunchers()
	stats := g.collector.Flush(g.tick, g.pop.Counts(), radii, healths)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// sampleMunchers collects radius and health values for distribution stats.
func (g *Game) sampleMunchers() (radii, healths []float64) {
	ents := g.pop.Entities(components.KindMuncher)
	radii = make([]float64, 0, len(ents))
	healths = make([]float64, 0, len(ents))
	for _, e := range ents {
		if g.pop.Removed(e) {
			continue
		}
		radii = append(radii, float64(g.bodyMap.Get(e).Radius))
		healths = append(healths, float64(g.muncherMap.Get(e).Health))
	}
	return radii, healths
}
