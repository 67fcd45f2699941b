package app

import (
	"log/slog"

	"github.com/pthm-cable/pasture/snapshot"
	"github.com/pthm-cable/pasture/telemetry"
)

// Censuses kept by the bookmark detector.
const bookmarkHistory = 10

// Bookmarks kept for display.
const maxBookmarks = 32

// record logs and writes the samples appended for the current step. Every
// log_interval steps the turnover window is closed and the population is
// checked for bookmarks.
func (a *App) record(samples [snapshot.NumKinds]telemetry.Sample) {
	if every(a.step, a.cfg.Stats.LogInterval) {
		if a.opts.LogStats {
			for _, s := range samples {
				s.LogStats()
			}
		}
		if a.step > 0 {
			a.lastTurn = a.turnover.Flush(a.step)
			if a.opts.LogStats {
				a.lastTurn.LogTurnover()
			}
		}
		for _, b := range a.bookmarks.Check(telemetry.CensusOf(samples)) {
			b.LogBookmark()
			a.events = append(a.events, b)
		}
		if n := len(a.events); n > maxBookmarks {
			a.events = append(a.events[:0], a.events[n-maxBookmarks:]...)
		}
	}

	if err := a.opts.Output.WriteSamples(samples[:]); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
}

// flushPerf emits a perf record every perf_log_interval steps.
func (a *App) flushPerf() {
	if a.step == 0 || !every(a.step, a.cfg.Telemetry.PerfLogInterval) {
		return
	}
	stats := a.perf.Stats()
	if a.opts.LogStats {
		stats.LogStats()
	}
	if err := a.opts.Output.WritePerf(stats, a.step); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// every reports whether step falls on a positive interval.
func every(step uint64, interval int) bool {
	return interval > 0 && step%uint64(interval) == 0
}
