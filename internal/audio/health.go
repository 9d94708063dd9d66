package audio

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gordonklaus/portaudio"
)

// Substrings that mark a capture device as virtual rather than a real
// microphone.
var virtualDeviceMarkers = []string{"monitor", "loopback", "virtual", "dummy"}

// HealthMonitor periodically checks that a real capture device is present and
// notifies on availability transitions. It owns all of its state; nothing else
// reads it.
type HealthMonitor struct {
	interval   time.Duration
	notify     func(title, message string)
	listInputs func() ([]string, error)
	available  bool
	firstCheck bool
}

func NewHealthMonitor(interval time.Duration, notify func(title, message string)) *HealthMonitor {
	return &HealthMonitor{
		interval:   interval,
		notify:     notify,
		listInputs: listCaptureDevices,
		firstCheck: true,
	}
}

// Run polls on the configured interval until ctx is cancelled.
func (m *HealthMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check()
		}
	}
}

// check compares current availability to the last observation and notifies
// only on the transition. The first check notifies only when no device is
// present, so a healthy startup stays quiet.
func (m *HealthMonitor) check() {
	names, err := m.listInputs()
	if err != nil {
		log.Printf("[HEALTH] Device query failed: %v", err)
		return
	}
	available := len(names) > 0

	switch {
	case m.firstCheck && !available:
		m.notify("Microphone missing", "No capture device found; dictation will record silence")
	case !m.firstCheck && available && !m.available:
		m.notify("Microphone back", "Capture device available again")
	case !m.firstCheck && !available && m.available:
		m.notify("Microphone lost", "Capture device disappeared")
	}
	m.available = available
	m.firstCheck = false
}

// listCaptureDevices returns the names of real (non-virtual) input devices.
func listCaptureDevices() ([]string, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, d := range devices {
		if d.MaxInputChannels == 0 || isVirtualDevice(d.Name) {
			continue
		}
		names = append(names, d.Name)
	}
	return names, nil
}

func isVirtualDevice(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range virtualDeviceMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
