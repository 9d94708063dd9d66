package audio

import (
	"os/exec"

	"github.com/gen2brain/beeep"
)

// Feedback sounds played on recording start/stop. Falls back to the
// freedesktop sound theme via paplay when the beep backend is unavailable.
// Failures are swallowed: feedback must never affect the session.
func PlayFeedback(kind string) {
	switch kind {
	case "start":
		if err := beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration/2); err != nil {
			exec.Command("paplay", "/usr/share/sounds/freedesktop/stereo/message.oga").Run()
		}
	case "stop":
		if err := beeep.Beep(beeep.DefaultFreq*2, beeep.DefaultDuration/3); err != nil {
			exec.Command("paplay", "/usr/share/sounds/freedesktop/stereo/complete.oga").Run()
		}
	}
}
