package hotkey_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/voxtype/voxtype/internal/app"
	"github.com/voxtype/voxtype/internal/hotkey"
	"github.com/voxtype/voxtype/internal/input"
)

type stubEngine struct {
	results chan string
}

func (e *stubEngine) Transcribe() (string, error) {
	return <-e.results, nil
}

type stubInjector struct {
	mu    sync.Mutex
	typed []string
}

func (i *stubInjector) Type(text string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.typed = append(i.typed, text)
	return nil
}

func (i *stubInjector) all() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]string(nil), i.typed...)
}

// Walks a dictation through the whole pipeline: key events hit the listener,
// the trigger crosses the channel into the session, and the transcript lands
// at the injector with its trailing space.
func TestHotkeyToDeliveryEndToEnd(t *testing.T) {
	spec, err := hotkey.Parse("<ctrl>+space")
	require.NoError(t, err)
	listener := hotkey.NewListener(spec, hotkey.Config{})

	engine := &stubEngine{results: make(chan string)}
	injector := &stubInjector{}
	session := app.NewSession(engine, injector, 2*time.Minute)

	now := time.Now()
	listener.FeedEvent(input.Event{Type: input.EvKey, Code: input.KeyLeftCtrl, Value: input.KeyPressed}, now)
	listener.FeedEvent(input.Event{Type: input.EvKey, Code: input.KeySpace, Value: input.KeyPressed}, now)

	select {
	case <-listener.Triggers():
		session.Toggle()
	case <-time.After(time.Second):
		t.Fatal("expected a trigger")
	}

	recording, processing := session.State()
	require.True(t, recording)
	require.True(t, processing)

	engine.results <- "hello world"

	require.Eventually(t, func() bool {
		recording, processing := session.State()
		return !recording && !processing
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, []string{"hello world "}, injector.all())
}
