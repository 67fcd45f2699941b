package telemetry

import (
	"testing"

	"github.com/pthm-cable/pasture/snapshot"
)

func census(step uint64, pred, prey, forage int) Census {
	return Census{Step: step, Counts: [snapshot.NumKinds]int{pred, prey, forage}}
}

func hasBookmark(bms []Bookmark, typ BookmarkType) bool {
	for _, bm := range bms {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_PreyCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := range 5 {
		bd.Check(census(uint64(i*600), 10, 100, 50))
	}

	bookmarks := bd.Check(census(3000, 10, 50, 50))
	if !hasBookmark(bookmarks, BookmarkPreyCrash) {
		t.Error("expected prey_crash bookmark")
	}

	// Peak resets after a crash
	if hasBookmark(bd.Check(census(3600, 10, 45, 50)), BookmarkPreyCrash) {
		t.Error("expected no second crash right after the first")
	}
}

func TestBookmarkDetector_PredatorRecovery(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(census(0, 2, 40, 50))
	bd.Check(census(600, 3, 40, 50))

	bookmarks := bd.Check(census(1200, 8, 40, 50))
	if !hasBookmark(bookmarks, BookmarkPredatorRecovery) {
		t.Error("expected predator_recovery bookmark")
	}
}

func TestBookmarkDetector_StableEcosystem(t *testing.T) {
	bd := NewBookmarkDetector(10)

	var fired []uint64
	for i := range 12 {
		step := uint64(i * 600)
		if hasBookmark(bd.Check(census(step, 8, 60, 50)), BookmarkStableEcosystem) {
			fired = append(fired, step)
		}
	}
	// The window fills at the fourth census, the fifth stable check fires
	if len(fired) != 1 || fired[0] != 4200 {
		t.Errorf("expected one stable_ecosystem bookmark at step 4200, got %v", fired)
	}
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := NewBookmarkDetector(10)
	// Predators absent from the start are not an extinction
	bd.Check(census(0, 0, 20, 50))

	bookmarks := bd.Check(census(600, 0, 0, 50))
	count := 0
	for _, bm := range bookmarks {
		if bm.Type == BookmarkExtinction {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one extinction bookmark, got %d: %+v", count, bookmarks)
	}

	if hasBookmark(bd.Check(census(1200, 0, 0, 50)), BookmarkExtinction) {
		t.Error("expected extinction to be reported once")
	}
}

func TestCensusOf(t *testing.T) {
	var samples [snapshot.NumKinds]Sample
	for k := range samples {
		samples[k] = Sample{Step: 7, Kind: snapshot.Kind(k), Count: k + 1}
	}
	c := CensusOf(samples)
	if c.Step != 7 || c.Counts != [snapshot.NumKinds]int{1, 2, 3} {
		t.Errorf("unexpected census %+v", c)
	}
}
