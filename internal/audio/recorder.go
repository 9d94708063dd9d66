package audio

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate = 16000
	frames     = 1024
)

// Recorder captures microphone audio and streams PCM16 chunks to a callback.
// Start and Stop are safe to call from different goroutines.
type Recorder struct {
	mu       sync.Mutex
	active   bool
	stream   *portaudio.Stream
	sink     func([]byte) error
	stopChan chan struct{}
	wg       sync.WaitGroup
	maxRMS   float64
}

func NewRecorder(sink func([]byte) error) *Recorder {
	return &Recorder{sink: sink}
}

func (r *Recorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// MaxRMS returns the loudest RMS level seen in the current or most recent
// capture, used to skip transcribing silence.
func (r *Recorder) MaxRMS() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxRMS
}

func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active {
		return nil
	}

	in := make([]int32, frames)
	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(in), in)
	if err != nil {
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return err
	}

	r.active = true
	r.maxRMS = 0
	r.stream = stream
	r.stopChan = make(chan struct{})

	r.wg.Add(1)
	go r.streamLoop(in)
	return nil
}

func (r *Recorder) Stop() {
	r.mu.Lock()
	if !r.active {
		r.mu.Unlock()
		return
	}
	r.active = false
	close(r.stopChan)
	r.mu.Unlock()

	// Let the stream goroutine finish before tearing the stream down.
	r.wg.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stream != nil {
		r.stream.Stop()
		r.stream.Close()
		r.stream = nil
	}
}

func (r *Recorder) streamLoop(in []int32) {
	defer r.wg.Done()

	pcm := make([]byte, len(in)*2)
	samples := make([]int16, len(in))
	for {
		select {
		case <-r.stopChan:
			return
		default:
		}

		r.mu.Lock()
		stream := r.stream
		r.mu.Unlock()
		if stream == nil {
			return
		}

		if err := stream.Read(); err != nil {
			select {
			case <-r.stopChan:
				// Expected during shutdown.
			default:
				log.Printf("[AUDIO] Stream read failed: %v", err)
			}
			return
		}

		for i, sample := range in {
			s16 := int16(sample >> 16)
			samples[i] = s16
			pcm[i*2] = byte(s16)
			pcm[i*2+1] = byte(s16 >> 8)
		}

		rms := chunkRMS(samples)
		r.mu.Lock()
		if rms > r.maxRMS {
			r.maxRMS = rms
		}
		r.mu.Unlock()

		select {
		case <-r.stopChan:
			return
		default:
		}
		if r.sink != nil {
			if err := r.sink(pcm); err != nil {
				select {
				case <-r.stopChan:
				default:
					log.Printf("[AUDIO] Dropping capture, sink failed: %v", err)
				}
				return
			}
		}

		time.Sleep(10 * time.Millisecond)
	}
}

func chunkRMS(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// Initialize starts PortAudio for the process; call once at startup.
func Initialize() error {
	return portaudio.Initialize()
}

// Terminate shuts PortAudio down; call once at exit.
func Terminate() {
	portaudio.Terminate()
}
