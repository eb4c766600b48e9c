package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_HeavyFighting(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 2000), Explosions: 1, PlayerAlive: true, PlayerBattery: 1})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 10000, Explosions: 6, PlayerAlive: true, PlayerBattery: 1})
	if !hasBookmark(bookmarks, BookmarkHeavyFighting) {
		t.Error("expected heavy_fighting bookmark")
	}
}

func TestBookmarkDetector_EnemyLosses(t *testing.T) {
	bd := NewBookmarkDetector(10)
	alive := WindowStats{PlayerAlive: true, PlayerBattery: 1}

	alive.Enemies = 20
	bd.Check(alive)
	alive.Enemies = 18
	bd.Check(alive)

	alive.Enemies = 10
	if !hasBookmark(bd.Check(alive), BookmarkEnemyLosses) {
		t.Error("expected enemy_losses bookmark after dropping from 20 to 10")
	}

	// Peak was reset, a steady count does not retrigger.
	if hasBookmark(bd.Check(alive), BookmarkEnemyLosses) {
		t.Error("enemy_losses retriggered without a new drop")
	}
}

func TestBookmarkDetector_PlayerEventsFireOnce(t *testing.T) {
	bd := NewBookmarkDetector(5)

	if bms := bd.Check(WindowStats{PlayerAlive: true, PlayerBattery: 0.9}); len(bms) != 0 {
		t.Errorf("unexpected bookmarks %v", bms)
	}
	if !hasBookmark(bd.Check(WindowStats{PlayerAlive: true, PlayerBattery: 0.25}), BookmarkPlayerLowPower) {
		t.Error("expected player_low_power bookmark")
	}
	if hasBookmark(bd.Check(WindowStats{PlayerAlive: true, PlayerBattery: 0.2}), BookmarkPlayerLowPower) {
		t.Error("player_low_power repeated while still low")
	}

	if !hasBookmark(bd.Check(WindowStats{SimTimeSec: 60}), BookmarkPlayerLost) {
		t.Error("expected player_lost bookmark")
	}
	if hasBookmark(bd.Check(WindowStats{SimTimeSec: 70}), BookmarkPlayerLost) {
		t.Error("player_lost repeated")
	}
}
