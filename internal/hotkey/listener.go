package hotkey

import (
	"context"
	"fmt"
	"log"
	"os/user"
	"time"

	"golang.org/x/sys/unix"

	"github.com/voxtype/voxtype/internal/input"
)

const readBufSize = 4096

// Config carries the listener timing knobs. Zero values fall back to the
// defaults the daemon ships with.
type Config struct {
	PollTimeout time.Duration // upper bound on one poll wait
	Debounce    time.Duration // minimum gap between accepted triggers
	RetryDelay  time.Duration // pause after losing a single device
	RescanDelay time.Duration // pause when no device is usable at all
}

func (c Config) withDefaults() Config {
	if c.PollTimeout <= 0 {
		c.PollTimeout = time.Second
	}
	if c.Debounce <= 0 {
		c.Debounce = 300 * time.Millisecond
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 500 * time.Millisecond
	}
	if c.RescanDelay <= 0 {
		c.RescanDelay = 2 * time.Second
	}
	return c
}

// Listener multiplexes all discovered keyboard devices, tracks the live
// pressed-key set and emits one signal per accepted hotkey edge. It is the
// sole owner of its pressed-key state; only Run's goroutine touches it.
type Listener struct {
	spec     Spec
	cfg      Config
	discover func() ([]*input.Device, int, error)
	devices  []*input.Device
	pressed  map[uint16]bool
	lastFire time.Time
	triggers chan struct{}
}

func NewListener(spec Spec, cfg Config) *Listener {
	return &Listener{
		spec:     spec,
		cfg:      cfg.withDefaults(),
		discover: input.Discover,
		pressed:  make(map[uint16]bool),
		triggers: make(chan struct{}, 1),
	}
}

// Triggers returns the channel that receives one value per accepted hotkey
// edge. The channel has a single slot; edges arriving while the previous one
// is still unconsumed are dropped, which is harmless given the one-session-
// in-flight rule downstream.
func (l *Listener) Triggers() <-chan struct{} {
	return l.triggers
}

// Start runs the initial device discovery. Zero usable devices is fatal here:
// without a keyboard source the listener can never function, and the error
// carries guidance built from the permission-denied count.
func (l *Listener) Start() error {
	devices, denied, err := l.discover()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return startupError(denied)
	}
	l.devices = devices
	for _, d := range devices {
		log.Printf("[INPUT] Listening on %s (%s)", d.Path(), d.Name())
	}
	return nil
}

func startupError(denied int) error {
	if denied == 0 {
		return fmt.Errorf("no keyboard devices found under /dev/input")
	}
	if userInGroup("input") {
		return fmt.Errorf("access denied on %d input device(s); you are in the 'input' group but the grant is not active in this session yet; log out and back in", denied)
	}
	return fmt.Errorf("access denied on %d input device(s); add yourself to the 'input' group (sudo usermod -aG input $USER) and re-login", denied)
}

func userInGroup(name string) bool {
	u, err := user.Current()
	if err != nil {
		return false
	}
	ids, err := u.GroupIds()
	if err != nil {
		return false
	}
	for _, id := range ids {
		g, err := user.LookupGroupId(id)
		if err == nil && g.Name == name {
			return true
		}
	}
	return false
}

// Run is the multiplexer loop. It blocks for the life of the process and only
// returns once ctx is cancelled; cancellation is observed at the latest one
// poll timeout after it happens.
func (l *Listener) Run(ctx context.Context) {
	buf := make([]byte, readBufSize)
	for {
		if ctx.Err() != nil {
			l.closeAll()
			return
		}
		if len(l.devices) == 0 {
			log.Printf("[INPUT] No usable keyboard devices, rescanning in %v", l.cfg.RescanDelay)
			sleepCtx(ctx, l.cfg.RescanDelay)
			l.rebuild()
			continue
		}

		fds := make([]unix.PollFd, len(l.devices))
		for i, d := range l.devices {
			fds[i] = unix.PollFd{Fd: int32(d.Fd()), Events: unix.POLLIN}
		}
		n, err := unix.Poll(fds, int(l.cfg.PollTimeout.Milliseconds()))
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			log.Printf("[INPUT] Poll failed: %v", err)
			sleepCtx(ctx, l.cfg.RescanDelay)
			l.rebuild()
			continue
		}
		if n == 0 {
			continue
		}

		lost := false
		for i, pfd := range fds {
			if pfd.Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
				log.Printf("[INPUT] Device %s went away", l.devices[i].Path())
				lost = true
				continue
			}
			if pfd.Revents&unix.POLLIN == 0 {
				continue
			}
			events, err := l.devices[i].ReadEvents(buf)
			if err != nil {
				log.Printf("[INPUT] %v, dropping device", err)
				lost = true
				continue
			}
			for _, ev := range events {
				l.handleEvent(ev, time.Now())
			}
		}
		if lost {
			// A lost device may hold key-down entries that will never see
			// their key-up, so the rebuild also clears the pressed set.
			sleepCtx(ctx, l.cfg.RetryDelay)
			l.rebuild()
		}
	}
}

// handleEvent updates the pressed-key set and fires the trigger on a matching
// key-down edge. Repeat events (value 2) carry no state change.
func (l *Listener) handleEvent(ev input.Event, now time.Time) bool {
	if ev.Type != input.EvKey {
		return false
	}
	switch ev.Value {
	case input.KeyReleased:
		delete(l.pressed, ev.Code)
		return false
	case input.KeyPressed:
		l.pressed[ev.Code] = true
	default:
		return false
	}

	if !l.spec.isTrigger(ev.Code) || !l.spec.modifiersHeld(l.pressed) {
		return false
	}
	if now.Sub(l.lastFire) < l.cfg.Debounce {
		return false
	}
	l.lastFire = now
	select {
	case l.triggers <- struct{}{}:
	default:
	}
	return true
}

// rebuild drops every open device, re-runs discovery and resets pressed-key
// state. Called from Run's goroutine only.
func (l *Listener) rebuild() {
	l.closeAll()
	l.pressed = make(map[uint16]bool)

	devices, denied, err := l.discover()
	if err != nil {
		log.Printf("[INPUT] Rediscovery failed: %v", err)
		return
	}
	if len(devices) == 0 && denied > 0 {
		log.Printf("[INPUT] Rediscovery found no usable devices (%d permission denied)", denied)
	}
	l.devices = devices
	for _, d := range devices {
		log.Printf("[INPUT] Listening on %s (%s)", d.Path(), d.Name())
	}
}

func (l *Listener) closeAll() {
	for _, d := range l.devices {
		d.Close()
	}
	l.devices = nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
