package transcription

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsumeJoinsFinals(t *testing.T) {
	p := NewProcessor()

	p.Observe("Hello world.", true, true)
	p.Observe("Second sentence.", true, true)

	assert.Equal(t, "Hello world. Second sentence.", p.Consume())
}

func TestConsumeFallsBackToBestPartial(t *testing.T) {
	p := NewProcessor()

	p.Observe("hel", false, false)
	p.Observe("hello wor", false, false)
	p.Observe("hello", false, false) // shorter, not the best

	assert.Equal(t, "hello wor", p.Consume())
}

func TestFinalsWinOverPartials(t *testing.T) {
	p := NewProcessor()

	p.Observe("hello world partial that is quite long", false, false)
	p.Observe("Hello world.", true, true)

	assert.Equal(t, "Hello world.", p.Consume())
}

func TestConsumeClearsState(t *testing.T) {
	p := NewProcessor()

	p.Observe("Hello.", true, true)
	assert.Equal(t, "Hello.", p.Consume())
	assert.Equal(t, "", p.Consume())
}

func TestEndOfTurnSignaledOnFormattedTurn(t *testing.T) {
	p := NewProcessor()

	p.Observe("partial", false, false)
	select {
	case <-p.EndOfTurn():
		t.Fatal("partial must not signal end of turn")
	default:
	}

	p.Observe("Final.", true, true)
	select {
	case <-p.EndOfTurn():
	default:
		t.Fatal("formatted end-of-turn final must signal")
	}
}

func TestResetDrainsPendingSignals(t *testing.T) {
	p := NewProcessor()

	p.Observe("Final.", true, true)
	p.SignalTermination()
	p.Reset()

	select {
	case <-p.EndOfTurn():
		t.Fatal("reset must drain the end-of-turn signal")
	default:
	}
	select {
	case <-p.Terminated():
		t.Fatal("reset must drain the termination signal")
	default:
	}
	assert.Equal(t, "", p.Consume())
}
