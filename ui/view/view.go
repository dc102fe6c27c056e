// Package view holds the text both frontends show: overlays, the score line,
// the stats panel and history rows.
package view

import (
	"fmt"
	"strings"
	"time"

	"classic-snake/game/input"
	"classic-snake/game/manager"
	"classic-snake/game/types"

	"github.com/dustin/go-humanize"
)

const Title = "SNAKE"

// Overlay is a centred message drawn over the board.
type Overlay struct {
	Title string
	Lines []string
}

// OverlayFor returns the message for the snapshot's status. There is none
// while running.
func OverlayFor(snap types.Snapshot, b input.Bindings) (Overlay, bool) {
	start := KeyHint(b, input.ActionStart)
	switch snap.Status {
	case types.Ready:
		return Overlay{
			Title: Title,
			Lines: []string{
				fmt.Sprintf("Press %s to start", start),
				fmt.Sprintf("Steer with %s", steerHint(b)),
				fmt.Sprintf("%s pauses, %s quits", KeyHint(b, input.ActionPause), KeyHint(b, input.ActionQuit)),
			},
		}, true
	case types.Paused:
		return Overlay{
			Title: "PAUSED",
			Lines: []string{fmt.Sprintf("Press %s to resume", KeyHint(b, input.ActionPause))},
		}, true
	case types.Over:
		return Overlay{
			Title: "GAME OVER",
			Lines: []string{
				capitalize(snap.Reason.String()),
				fmt.Sprintf("Score %s", humanize.Comma(int64(snap.Score))),
				fmt.Sprintf("Press %s to play again", start),
			},
		}, true
	default:
		return Overlay{}, false
	}
}

// KeyHint renders the keys bound to a, e.g. "ENTER/SPACE".
func KeyHint(b input.Bindings, a input.Action) string {
	keys := b.Keys(a)
	if len(keys) == 0 {
		return "(unbound)"
	}
	return strings.ToUpper(strings.Join(keys, "/"))
}

func steerHint(b input.Bindings) string {
	var keys []string
	for _, a := range []input.Action{input.ActionUp, input.ActionLeft, input.ActionDown, input.ActionRight} {
		keys = append(keys, b.Keys(a)...)
	}
	if len(keys) == 0 {
		return "(unbound)"
	}
	return strings.ToUpper(strings.Join(keys, " "))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func ScoreLine(score, highScore int) string {
	return fmt.Sprintf("Score: %s  Best: %s", humanize.Comma(int64(score)), humanize.Comma(int64(highScore)))
}

// StatsLines renders a summary for the side panel.
func StatsLines(s manager.Summary) []string {
	if s.GamesPlayed == 0 {
		return []string{"No games yet"}
	}
	return []string{
		fmt.Sprintf("Games: %s", humanize.Comma(int64(s.GamesPlayed))),
		fmt.Sprintf("Avg: %.1f", s.AverageScore),
		fmt.Sprintf("Median: %.1f", s.MedianScore),
		fmt.Sprintf("Max: %s", humanize.Comma(int64(s.MaxScore))),
		fmt.Sprintf("Avg time: %s", s.AverageDuration.Round(time.Second)),
		fmt.Sprintf("Longest: %s", s.MaxDuration.Round(time.Second)),
	}
}

// HistoryLine renders one finished session relative to now.
func HistoryLine(rec manager.SessionRecord, now time.Time) string {
	return fmt.Sprintf("%6s pts  len %-3d %-15s %8s  %s",
		humanize.Comma(int64(rec.Score)),
		rec.Length,
		rec.Reason,
		rec.Duration().Round(time.Second),
		humanize.RelTime(rec.EndTime, now, "ago", "from now"),
	)
}

// HeadGlyph is the arrow drawn on the head cell in text mode.
func HeadGlyph(d types.Direction) rune {
	switch d {
	case types.Up:
		return '▲'
	case types.Down:
		return '▼'
	case types.Left:
		return '◀'
	default:
		return '▶'
	}
}
