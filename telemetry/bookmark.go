package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/pasture/snapshot"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPredatorRecovery BookmarkType = "predator_recovery"
	BookmarkPreyCrash        BookmarkType = "prey_crash"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
	BookmarkExtinction       BookmarkType = "extinction"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType
	Step        uint64
	Description string
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"step", b.Step,
		"description", b.Description,
	)
}

// Census is the population at one checked step.
type Census struct {
	Step   uint64
	Counts [snapshot.NumKinds]int
}

// CensusOf collects the counts of one step's samples.
func CensusOf(samples [snapshot.NumKinds]Sample) Census {
	c := Census{Step: samples[0].Step}
	for k, s := range samples {
		c.Counts[k] = s.Count
	}
	return c
}

func (c Census) pred() int { return c.Counts[snapshot.KindPredator] }
func (c Census) prey() int { return c.Counts[snapshot.KindPrey] }

// BookmarkDetector detects notable population moments from periodic
// censuses.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []Census
	historySize int
	historyIdx  int
	historyFull bool

	recentPredMin  int // minimum predator count since the last recovery
	recentPreyPeak int // peak prey count since the last crash
	stableCount    int // consecutive stable checks
	extinct        [snapshot.NumKinds]bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable ecosystem detection
	}
	return &BookmarkDetector{
		history:       make([]Census, historySize),
		historySize:   historySize,
		recentPredMin: -1,
	}
}

// Check analyzes the latest census and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(c Census) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkPredatorRecovery(c); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkPreyCrash(c); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		bookmarks = append(bookmarks, bd.checkExtinction(c)...)
	} else {
		// Kinds absent from the start never went extinct
		for k, n := range c.Counts {
			bd.extinct[k] = n == 0
		}
	}

	bd.addToHistory(c)

	// Needs the current census in history
	if b := bd.checkStableEcosystem(c); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.recentPredMin < 0 || c.pred() < bd.recentPredMin {
		bd.recentPredMin = c.pred()
	}
	if c.prey() > bd.recentPreyPeak {
		bd.recentPreyPeak = c.prey()
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(c Census) {
	bd.history[bd.historyIdx] = c
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n of the newest censuses, oldest first.
func (bd *BookmarkDetector) recent(n int) []Census {
	size := bd.historyIdx
	if bd.historyFull {
		size = bd.historySize
	}
	n = min(n, size)
	out := make([]Census, n)
	for i := range n {
		idx := (bd.historyIdx - n + i + bd.historySize) % bd.historySize
		out[i] = bd.history[idx]
	}
	return out
}

func (bd *BookmarkDetector) checkPredatorRecovery(c Census) *Bookmark {
	if bd.recentPredMin < 1 || bd.recentPredMin > 3 {
		return nil
	}

	threshold := bd.recentPredMin * 3
	if c.pred() >= threshold && c.pred() >= 6 {
		oldMin := bd.recentPredMin
		bd.recentPredMin = c.pred()
		return &Bookmark{
			Type:        BookmarkPredatorRecovery,
			Step:        c.Step,
			Description: fmt.Sprintf("Predator population recovered from %d to %d", oldMin, c.pred()),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPreyCrash(c Census) *Bookmark {
	if bd.recentPreyPeak == 0 {
		return nil
	}

	drop := 1.0 - float64(c.prey())/float64(bd.recentPreyPeak)
	if drop > 0.30 && c.prey() < bd.recentPreyPeak-10 {
		oldPeak := bd.recentPreyPeak
		bd.recentPreyPeak = c.prey()
		return &Bookmark{
			Type:        BookmarkPreyCrash,
			Step:        c.Step,
			Description: fmt.Sprintf("Prey crashed %.0f%% from peak %d to %d", drop*100, oldPeak, c.prey()),
		}
	}
	return nil
}

// checkExtinction fires once per kind when its count reaches zero. A kind
// that reappears can go extinct again.
func (bd *BookmarkDetector) checkExtinction(c Census) []Bookmark {
	var out []Bookmark
	for _, k := range snapshot.Kinds {
		gone := c.Counts[k] == 0
		if gone && !bd.extinct[k] {
			out = append(out, Bookmark{
				Type:        BookmarkExtinction,
				Step:        c.Step,
				Description: fmt.Sprintf("%s population went extinct", k),
			})
		}
		bd.extinct[k] = gone
	}
	return out
}

func (bd *BookmarkDetector) checkStableEcosystem(c Census) *Bookmark {
	if c.prey() < 10 || c.pred() < 3 {
		bd.stableCount = 0
		return nil
	}

	window := bd.recent(4)
	if len(window) < 4 {
		return nil
	}

	var preySum, predSum float64
	for _, h := range window {
		preySum += float64(h.prey())
		predSum += float64(h.pred())
	}
	preyMean := preySum / 4
	predMean := predSum / 4

	var preyVar, predVar float64
	for _, h := range window {
		dp := float64(h.prey()) - preyMean
		dq := float64(h.pred()) - predMean
		preyVar += dp * dp
		predVar += dq * dq
	}
	preyVar /= 4
	predVar /= 4

	// CV^2 < 0.04 means CV < 0.2
	if preyVar/(preyMean*preyMean) < 0.04 && predVar/(predMean*predMean) < 0.04 {
		bd.stableCount++
	} else {
		bd.stableCount = 0
	}

	if bd.stableCount == 5 {
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Step:        c.Step,
			Description: fmt.Sprintf("Stable ecosystem with %d prey, %d predators over 5+ checks", c.prey(), c.pred()),
		}
	}
	return nil
}
