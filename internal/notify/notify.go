// Package notify sends fire-and-forget desktop notifications.
package notify

import (
	"log"

	"github.com/gen2brain/beeep"
)

// Send shows a desktop notification. A missing notification backend only
// produces a log line; callers never depend on delivery.
func Send(title, message string) {
	if err := beeep.Notify(title, message, ""); err != nil {
		log.Printf("[NOTIFY] %s: %s (notification backend unavailable: %v)", title, message, err)
	}
}
