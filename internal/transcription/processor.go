package transcription

import (
	"log"
	"strings"
	"sync"
)

// Processor accumulates transcripts for the current capture. Finals arrive as
// formatted turns; partials are kept as a fallback in case the session ends
// before the server formats a turn.
type Processor struct {
	mu          sync.Mutex
	finals      []string
	bestPartial string
	endOfTurn   chan struct{}
	terminated  chan struct{}
}

func NewProcessor() *Processor {
	return &Processor{
		endOfTurn:  make(chan struct{}, 1),
		terminated: make(chan struct{}, 1),
	}
}

// Observe records one transcript update from the stream. A formatted final
// with end-of-turn also signals the voice-activity edge the capture waits on.
func (p *Processor) Observe(transcript string, isFinal, endOfTurn bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if isFinal {
		p.finals = append(p.finals, transcript)
		log.Printf("[PROC] Final transcript #%d: %d chars", len(p.finals), len(transcript))
		if endOfTurn {
			signal(p.endOfTurn)
		}
		return
	}
	// Partials are progressive; the longest one is the best fallback.
	if len(transcript) > len(p.bestPartial) {
		p.bestPartial = transcript
	}
}

// EndOfTurn is signaled when the server reports a completed, formatted turn.
func (p *Processor) EndOfTurn() <-chan struct{} { return p.endOfTurn }

// Terminated is signaled when the server confirms session termination.
func (p *Processor) Terminated() <-chan struct{} { return p.terminated }

func (p *Processor) SignalTermination() {
	signal(p.terminated)
}

// Consume returns the accumulated transcript and clears all state for the
// next capture. Finals win; the best partial is the fallback.
func (p *Processor) Consume() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	text := strings.Join(p.finals, " ")
	if text == "" && p.bestPartial != "" {
		log.Printf("[PROC] No final transcript, falling back to partial (%d chars)", len(p.bestPartial))
		text = p.bestPartial
	}
	p.resetLocked()
	return strings.TrimSpace(text)
}

// Reset discards any state left over from a previous capture, including
// pending signals, so sessions cannot contaminate each other.
func (p *Processor) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
}

func (p *Processor) resetLocked() {
	p.finals = nil
	p.bestPartial = ""
	drain(p.endOfTurn)
	drain(p.terminated)
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func drain(ch chan struct{}) {
	select {
	case <-ch:
	default:
	}
}
