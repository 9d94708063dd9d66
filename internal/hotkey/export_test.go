package hotkey

import (
	"time"

	"github.com/voxtype/voxtype/internal/input"
)

// FeedEvent lets the external test package drive the listener with synthetic
// key events.
func (l *Listener) FeedEvent(ev input.Event, now time.Time) bool {
	return l.handleEvent(ev, now)
}
