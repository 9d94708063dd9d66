package audio

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeNotifier struct {
	titles []string
}

func (f *fakeNotifier) notify(title, _ string) {
	f.titles = append(f.titles, title)
}

func newTestMonitor(names *[]string, err *error) (*HealthMonitor, *fakeNotifier) {
	n := &fakeNotifier{}
	m := NewHealthMonitor(time.Minute, n.notify)
	m.listInputs = func() ([]string, error) {
		if err != nil && *err != nil {
			return nil, *err
		}
		return *names, nil
	}
	return m, n
}

func TestFirstCheckQuietWhenDevicePresent(t *testing.T) {
	names := []string{"Built-in Mic"}
	m, n := newTestMonitor(&names, nil)

	m.check()

	assert.Empty(t, n.titles)
}

func TestFirstCheckNotifiesWhenMissing(t *testing.T) {
	names := []string{}
	m, n := newTestMonitor(&names, nil)

	m.check()

	assert.Equal(t, []string{"Microphone missing"}, n.titles)
}

func TestNotifiesOnlyOnTransitions(t *testing.T) {
	names := []string{"Built-in Mic"}
	m, n := newTestMonitor(&names, nil)

	m.check() // present, quiet
	m.check() // still present, quiet
	names = nil
	m.check() // lost
	m.check() // still lost, quiet
	names = []string{"USB Mic"}
	m.check() // back
	m.check() // still back, quiet

	assert.Equal(t, []string{"Microphone lost", "Microphone back"}, n.titles)
}

func TestQueryErrorKeepsState(t *testing.T) {
	names := []string{"Built-in Mic"}
	queryErr := error(nil)
	m, n := newTestMonitor(&names, &queryErr)

	m.check()
	queryErr = errors.New("portaudio unavailable")
	m.check()
	queryErr = nil
	m.check()

	assert.Empty(t, n.titles)
}

func TestVirtualDevicesFiltered(t *testing.T) {
	assert.True(t, isVirtualDevice("Monitor of Built-in Audio"))
	assert.True(t, isVirtualDevice("Loopback Device"))
	assert.False(t, isVirtualDevice("Blue Yeti USB"))
}
