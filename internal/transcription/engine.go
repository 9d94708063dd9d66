package transcription

import (
	"fmt"
	"log"
	"time"

	"github.com/voxtype/voxtype/internal/audio"
)

const (
	// Captures with a peak RMS below this carry no speech worth sending on.
	silenceRMS = 150.0

	// How long to wait for the server's termination confirmation before
	// consuming whatever transcript is in hand.
	terminationWait = time.Second

	// Settle time after a reconnect before audio starts flowing.
	connectSettle = 150 * time.Millisecond
)

// Engine is the blocking capture-and-transcribe collaborator: one call records
// from the microphone until the speaker stops (or the utterance cap is hit)
// and returns the transcript, possibly empty.
type Engine struct {
	client       *Client
	recorder     *audio.Recorder
	proc         *Processor
	apiKey       string
	maxUtterance time.Duration
}

func NewEngine(apiKey string, maxUtterance time.Duration) *Engine {
	e := &Engine{
		proc:         NewProcessor(),
		apiKey:       apiKey,
		maxUtterance: maxUtterance,
	}
	e.client = NewClient(audio.SampleRate, e.proc.Observe, e.proc.SignalTermination)
	e.recorder = audio.NewRecorder(e.client.SendAudio)
	return e
}

// Connect establishes the initial streaming connection. Later sessions
// reconnect on their own if the server closed the session in between.
func (e *Engine) Connect() error {
	return e.client.Connect(e.apiKey)
}

// Transcribe records until voice activity ends or the utterance cap elapses,
// then finalizes the streaming session and returns the transcript. An empty
// string with a nil error means nothing was said.
func (e *Engine) Transcribe() (string, error) {
	if !e.client.IsConnected() {
		log.Printf("[ASR] Reconnecting to streaming API")
		if err := e.client.Connect(e.apiKey); err != nil {
			return "", fmt.Errorf("reconnect failed: %v", err)
		}
		time.Sleep(connectSettle)
	}

	e.proc.Reset()
	if err := e.recorder.Start(); err != nil {
		return "", fmt.Errorf("starting capture: %v", err)
	}

	// The server's end-of-turn marks the silence edge that stops a capture;
	// the utterance cap bounds a session where it never comes.
	select {
	case <-e.proc.EndOfTurn():
		log.Printf("[ASR] End of turn detected")
	case <-time.After(e.maxUtterance):
		log.Printf("[ASR] Utterance cap (%v) reached", e.maxUtterance)
	}

	e.recorder.Stop()

	if e.recorder.MaxRMS() < silenceRMS {
		log.Printf("[ASR] Peak level %.1f below speech threshold, discarding capture", e.recorder.MaxRMS())
		e.proc.Reset()
		return "", nil
	}

	e.client.Terminate()
	select {
	case <-e.proc.Terminated():
	case <-time.After(terminationWait):
		log.Printf("[ASR] Termination confirmation timed out, consuming anyway")
	}

	return e.proc.Consume(), nil
}

// Close tears down the capture stream and the streaming connection.
func (e *Engine) Close() {
	e.recorder.Stop()
	e.client.Close()
}
