package app

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type engineResult struct {
	text string
	err  error
}

// fakeEngine blocks each Transcribe call until the test pushes a result,
// standing in for the unbounded-duration external ASR call.
type fakeEngine struct {
	mu      sync.Mutex
	calls   int
	results chan engineResult
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{results: make(chan engineResult)}
}

func (f *fakeEngine) Transcribe() (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	r := <-f.results
	return r.text, r.err
}

func (f *fakeEngine) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeInjector struct {
	mu    sync.Mutex
	typed []string
	err   error
}

func (f *fakeInjector) Type(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.typed = append(f.typed, text)
	return nil
}

func (f *fakeInjector) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.typed...)
}

func newTestSession(engine Engine, injector Injector) *Session {
	return NewSession(engine, injector, 2*time.Minute)
}

func idle(s *Session) func() bool {
	return func() bool {
		recording, processing := s.State()
		return !recording && !processing
	}
}

func TestToggleRunsFullCycle(t *testing.T) {
	engine := newFakeEngine()
	injector := &fakeInjector{}
	s := newTestSession(engine, injector)

	s.Toggle()
	recording, processing := s.State()
	assert.True(t, recording)
	assert.True(t, processing)

	engine.results <- engineResult{text: "hello world"}

	require.Eventually(t, idle(s), time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"hello world "}, injector.all())
}

func TestToggleWhileBusyIsNoOp(t *testing.T) {
	engine := newFakeEngine()
	s := newTestSession(engine, &fakeInjector{})

	s.Toggle()
	require.Eventually(t, func() bool { return engine.callCount() == 1 }, time.Second, 5*time.Millisecond)

	// Capture still in flight: further toggles change nothing and spawn
	// nothing.
	s.Toggle()
	s.Toggle()
	assert.Equal(t, 1, engine.callCount())

	recording, processing := s.State()
	assert.True(t, recording)
	assert.True(t, processing)

	engine.results <- engineResult{text: ""}
	require.Eventually(t, idle(s), time.Second, 5*time.Millisecond)
}

func TestDeadlineOverrideAllowsNewSession(t *testing.T) {
	engine := newFakeEngine()
	injector := &fakeInjector{}
	s := newTestSession(engine, injector)

	base := time.Now()
	clock := base
	var clockMu sync.Mutex
	s.now = func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		return clock
	}

	s.Toggle()
	require.Eventually(t, func() bool { return engine.callCount() == 1 }, time.Second, 5*time.Millisecond)

	// The worker hangs; wall clock passes the deadline. The next toggle
	// must first reset, then proceed to a fresh Recording.
	clockMu.Lock()
	clock = base.Add(3 * time.Minute)
	clockMu.Unlock()

	s.Toggle()
	require.Eventually(t, func() bool { return engine.callCount() == 2 }, time.Second, 5*time.Millisecond)
	recording, processing := s.State()
	assert.True(t, recording)
	assert.True(t, processing)

	// The stale worker finally returns: its text is still delivered
	// best-effort, but the new session's state must survive it.
	engine.results <- engineResult{text: "late result"}
	require.Eventually(t, func() bool { return len(injector.all()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "late result ", injector.all()[0])

	_, processing = s.State()
	assert.True(t, processing, "stale worker must not clear the new session")

	engine.results <- engineResult{text: "current"}
	require.Eventually(t, idle(s), time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"late result ", "current "}, injector.all())
}

func TestDeadlineTimerSweepsWithoutToggle(t *testing.T) {
	engine := newFakeEngine()
	s := NewSession(engine, &fakeInjector{}, 20*time.Millisecond)

	s.Toggle()
	require.Eventually(t, func() bool { return engine.callCount() == 1 }, time.Second, 5*time.Millisecond)

	// No further user action: the armed timer alone must reset the state
	// while the worker is still stuck.
	require.Eventually(t, idle(s), time.Second, 5*time.Millisecond)

	engine.results <- engineResult{text: ""}
}

func TestEmptyTranscriptNotDelivered(t *testing.T) {
	engine := newFakeEngine()
	injector := &fakeInjector{}
	s := newTestSession(engine, injector)

	s.Toggle()
	engine.results <- engineResult{text: "   "}

	require.Eventually(t, idle(s), time.Second, 5*time.Millisecond)
	assert.Empty(t, injector.all())
}

func TestEngineErrorResetsState(t *testing.T) {
	engine := newFakeEngine()
	injector := &fakeInjector{}
	s := newTestSession(engine, injector)

	s.Toggle()
	engine.results <- engineResult{err: errors.New("stream died")}

	require.Eventually(t, idle(s), time.Second, 5*time.Millisecond)
	assert.Empty(t, injector.all())

	// The machine accepts a fresh session afterwards.
	s.Toggle()
	require.Eventually(t, func() bool { return engine.callCount() == 2 }, time.Second, 5*time.Millisecond)
	engine.results <- engineResult{text: ""}
	require.Eventually(t, idle(s), time.Second, 5*time.Millisecond)
}

func TestDeliveryFailureStillResets(t *testing.T) {
	engine := newFakeEngine()
	injector := &fakeInjector{err: errors.New("xdotool missing")}
	s := newTestSession(engine, injector)

	delivered := false
	s.SetDeliveredHook(func(string, time.Duration) { delivered = true })

	s.Toggle()
	engine.results <- engineResult{text: "hello"}

	require.Eventually(t, idle(s), time.Second, 5*time.Millisecond)
	assert.False(t, delivered)
}

func TestFeedbackAndDeliveredHooks(t *testing.T) {
	engine := newFakeEngine()
	injector := &fakeInjector{}
	s := newTestSession(engine, injector)

	var mu sync.Mutex
	var kinds []string
	var deliveredText string
	s.SetFeedback(func(kind string) {
		mu.Lock()
		kinds = append(kinds, kind)
		mu.Unlock()
	})
	s.SetDeliveredHook(func(text string, _ time.Duration) {
		mu.Lock()
		deliveredText = text
		mu.Unlock()
	})

	s.Toggle()
	engine.results <- engineResult{text: "hi there"}

	require.Eventually(t, idle(s), time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(kinds) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"start", "stop"}, kinds)
	assert.Equal(t, "hi there", deliveredText)
}
