package app

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// Engine is the blocking capture-and-transcribe collaborator.
type Engine interface {
	Transcribe() (string, error)
}

// Injector delivers text to the focused application.
type Injector interface {
	Type(text string) error
}

// Session is the recording state machine: Idle -> Recording -> Processing ->
// Idle, with at most one transcription worker in flight. All state lives
// behind one mutex; Toggle runs on the hotkey listener's goroutine and must
// return promptly.
//
// Recording means the blocking capture call is still listening; Processing
// means capture ended and the transcript is being finalized and delivered.
// The worker holds both flags while capturing and drops recording the moment
// the blocking call returns.
type Session struct {
	mu         sync.Mutex
	recording  bool
	processing bool
	deadline   time.Time
	generation int
	timer      *time.Timer

	engine      Engine
	injector    Injector
	deadlineDur time.Duration
	feedback    func(kind string)
	onDelivered func(text string, recorded time.Duration)

	now func() time.Time
}

func NewSession(engine Engine, injector Injector, deadlineDur time.Duration) *Session {
	return &Session{
		engine:      engine,
		injector:    injector,
		deadlineDur: deadlineDur,
		now:         time.Now,
	}
}

// SetFeedback installs the start/stop sound hook.
func (s *Session) SetFeedback(fn func(kind string)) { s.feedback = fn }

// SetDeliveredHook installs a callback invoked after each successful text
// delivery, outside the session lock.
func (s *Session) SetDeliveredHook(fn func(text string, recorded time.Duration)) {
	s.onDelivered = fn
}

// State reports the current phase for diagnostics and tests.
func (s *Session) State() (recording, processing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording, s.processing
}

// Toggle handles one accepted hotkey edge. The stuck-session check and the
// transition decision form a single critical section so two near-simultaneous
// triggers cannot both observe Idle.
func (s *Session) Toggle() {
	s.mu.Lock()
	now := s.now()

	// A worker that never returned would wedge the machine forever; past the
	// deadline the session bookkeeping moves on without it.
	if s.processing && !s.deadline.IsZero() && now.After(s.deadline) {
		log.Printf("[SESSION] WARNING: previous session still processing past its deadline, force-resetting")
		s.resetLocked()
	}

	switch {
	case s.recording:
		s.mu.Unlock()
		fmt.Println("🎙️  Recording stops when you stop speaking...")
	case s.processing:
		s.mu.Unlock()
		fmt.Println("⏳ Still processing the previous recording...")
	default:
		s.recording = true
		s.processing = true
		s.deadline = now.Add(s.deadlineDur)
		s.generation++
		gen := s.generation
		s.armTimerLocked(gen)
		s.mu.Unlock()

		log.Printf("[SESSION] ===== RECORDING START =====")
		if s.feedback != nil {
			s.feedback("start")
		}
		fmt.Println("🎤 Recording...")
		go s.work(gen, now)
	}
}

// work runs the blocking capture+transcribe call and delivers the result.
// Exactly one instance runs at a time under normal operation; after a
// deadline reset a stale instance may still be draining, in which case it
// skips all bookkeeping (generation mismatch) but still delivers its text
// best-effort.
func (s *Session) work(gen int, started time.Time) {
	defer s.finish(gen)

	text, err := s.engine.Transcribe()

	// Capture is over: Recording -> Processing.
	s.mu.Lock()
	if gen == s.generation {
		s.recording = false
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("[SESSION] Capture failed: %v", err)
		fmt.Printf("❌ Capture failed: %v\n", err)
		return
	}
	if strings.TrimSpace(text) == "" {
		fmt.Println("🔇 No speech detected")
		return
	}

	log.Printf("[SESSION] Transcript: %d chars", len(text))
	if err := s.injector.Type(text + " "); err != nil {
		log.Printf("[SESSION] Delivery failed: %v", err)
		return
	}
	if s.onDelivered != nil {
		s.onDelivered(text, time.Since(started))
	}
}

// finish clears processing state and the deadline unconditionally for the
// worker's own generation, no matter how the worker ended.
func (s *Session) finish(gen int) {
	s.mu.Lock()
	if gen == s.generation {
		s.resetLocked()
	}
	s.mu.Unlock()

	if s.feedback != nil {
		s.feedback("stop")
	}
	log.Printf("[SESSION] ===== SESSION COMPLETE =====")
}

// armTimerLocked schedules the deadline sweep so a wedged worker is cleaned
// up even if no further toggle ever arrives.
func (s *Session) armTimerLocked(gen int) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.deadlineDur, func() { s.expire(gen) })
}

func (s *Session) expire(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || !s.processing {
		return
	}
	if s.now().Before(s.deadline) {
		return
	}
	log.Printf("[SESSION] WARNING: transcription exceeded %v, resetting session state", s.deadlineDur)
	s.resetLocked()
}

// resetLocked returns the machine to Idle and bumps the generation so a
// stale worker cannot touch the bookkeeping of whatever comes next.
func (s *Session) resetLocked() {
	s.recording = false
	s.processing = false
	s.deadline = time.Time{}
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
