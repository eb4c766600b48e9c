package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkHeavyFighting  BookmarkType = "heavy_fighting"
	BookmarkEnemyLosses    BookmarkType = "enemy_losses"
	BookmarkPlayerLowPower BookmarkType = "player_low_power"
	BookmarkPlayerLost     BookmarkType = "player_lost"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in a battle.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentEnemyPeak int
	lowPower        bool
	playerLost      bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		// Heavy fighting: explosions > 2x rolling average
		if b := bd.checkHeavyFighting(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Enemy losses: dropped >30% from recent peak
		if b := bd.checkEnemyLosses(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	if b := bd.checkLowPower(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkPlayerLost(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	if stats.Enemies > bd.recentEnemyPeak {
		bd.recentEnemyPeak = stats.Enemies
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkHeavyFighting(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Explosions
	}
	avg := float64(total) / float64(len(history))

	if stats.Explosions >= 3 && float64(stats.Explosions) > avg*2 {
		return &Bookmark{
			Type:        BookmarkHeavyFighting,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d explosions against an average of %.1f", stats.Explosions, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkEnemyLosses(stats WindowStats) *Bookmark {
	if bd.recentEnemyPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.Enemies)/float64(bd.recentEnemyPeak)
	if dropPercent > 0.30 && stats.Enemies < bd.recentEnemyPeak-2 {
		// Reset peak after the drop
		oldPeak := bd.recentEnemyPeak
		bd.recentEnemyPeak = stats.Enemies

		return &Bookmark{
			Type:        BookmarkEnemyLosses,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Enemies fell %.0f%% from %d to %d", dropPercent*100, oldPeak, stats.Enemies),
		}
	}
	return nil
}

// checkLowPower fires once each time the player's battery drops to the
// warning level.
func (bd *BookmarkDetector) checkLowPower(stats WindowStats) *Bookmark {
	low := stats.PlayerAlive && stats.PlayerBattery <= 0.3
	defer func() { bd.lowPower = low }()
	if !low || bd.lowPower {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkPlayerLowPower,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Player battery at %.0f%%, diesel at %.0f%%", stats.PlayerBattery*100, stats.PlayerDiesel*100),
	}
}

func (bd *BookmarkDetector) checkPlayerLost(stats WindowStats) *Bookmark {
	if stats.PlayerAlive || bd.playerLost {
		return nil
	}
	bd.playerLost = true
	return &Bookmark{
		Type:        BookmarkPlayerLost,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Player destroyed after %.0f s", stats.SimTimeSec),
	}
}
