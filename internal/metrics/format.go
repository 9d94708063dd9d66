package metrics

import (
	"fmt"
	"time"
)

// FormatSessionSummary renders the per-session console lines plus today's
// running totals.
func FormatSessionSummary(session *SessionMetrics, today *DailyMetrics) []string {
	lines := []string{
		fmt.Sprintf("✅ Typed %d words (recorded %s, saved ~%s)",
			session.WordCount, roundDuration(session.RecordingTime), roundDuration(session.TimeSaved)),
	}
	if today != nil && today.SessionCount > 0 {
		lines = append(lines, fmt.Sprintf("📅 Today: %d sessions, %d words, ~%s saved",
			today.SessionCount, today.TotalWords, roundDuration(today.TotalSaved)))
	}
	return lines
}

// FormatTotals renders the --stats summary.
func FormatTotals(totals *TotalMetrics, typingSpeed int) []string {
	return []string{
		"📊 Dictation totals",
		fmt.Sprintf("   Sessions: %d", totals.TotalSessions),
		fmt.Sprintf("   Words: %d (avg %d per session)", totals.TotalWords, totals.AvgWordsPerSession),
		fmt.Sprintf("   Time saved: ~%s (vs typing at %d WPM)", roundDuration(totals.TotalSaved), typingSpeed),
	}
}

func roundDuration(d time.Duration) time.Duration {
	return d.Round(time.Second)
}
