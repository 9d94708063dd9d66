// Package app wires the hotkey listener, the recording state machine and the
// external collaborators into one daemon.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voxtype/voxtype/internal/audio"
	"github.com/voxtype/voxtype/internal/config"
	"github.com/voxtype/voxtype/internal/hotkey"
	"github.com/voxtype/voxtype/internal/metrics"
	"github.com/voxtype/voxtype/internal/notify"
	"github.com/voxtype/voxtype/internal/transcription"
	"github.com/voxtype/voxtype/internal/typing"
)

type Daemon struct {
	cfg      *config.Config
	engine   *transcription.Engine
	session  *Session
	listener *hotkey.Listener
	health   *audio.HealthMonitor
	metrics  *metrics.Manager
	typer    *typing.Typer
}

func NewDaemon() *Daemon {
	return &Daemon{}
}

func (d *Daemon) Initialize() error {
	if err := config.SaveDefault(); err != nil {
		fmt.Printf("⚠️  Warning: could not write default config: %v\n", err)
	}

	var err error
	d.cfg, err = config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %v", err)
	}

	// A malformed combo has no safe fallback trigger, so it is fatal here.
	spec, err := hotkey.Parse(d.cfg.Hotkey)
	if err != nil {
		return fmt.Errorf("invalid hotkey: %v", err)
	}
	d.listener = hotkey.NewListener(spec, hotkey.Config{
		PollTimeout: d.cfg.PollTimeout(),
		Debounce:    d.cfg.Debounce(),
	})

	apiKey, err := config.GetAPIKey()
	if err != nil {
		return fmt.Errorf("resolving AssemblyAI API key: %v", err)
	}

	if err := audio.Initialize(); err != nil {
		return fmt.Errorf("initializing PortAudio: %v", err)
	}

	d.engine = transcription.NewEngine(apiKey, d.cfg.MaxUtterance())
	if err := d.engine.Connect(); err != nil {
		return fmt.Errorf("connecting to streaming API: %v", err)
	}

	d.typer = typing.NewTyper(d.cfg.InputMethod)
	if d.typer.Method() == "" {
		fmt.Println("⚠️  No text-injection tool found (install xdotool, ydotool or wtype)")
		fmt.Println("   Transcripts will be printed to the console instead.")
	}

	metricsDir, err := config.GetMetricsDir()
	if err != nil {
		return fmt.Errorf("resolving metrics directory: %v", err)
	}
	d.metrics, err = metrics.NewManager(metricsDir)
	if err != nil {
		return fmt.Errorf("initializing metrics: %v", err)
	}

	d.session = NewSession(d.engine, d.typer, d.cfg.ProcessingDeadline())
	if d.cfg.SoundFeedback {
		d.session.SetFeedback(audio.PlayFeedback)
	}
	d.session.SetDeliveredHook(d.recordDelivery)

	d.health = audio.NewHealthMonitor(d.cfg.HealthInterval(), notify.Send)
	return nil
}

// Run starts the listener and health monitor and consumes trigger edges until
// an interrupt arrives. The zero-usable-devices condition surfaces here as an
// error so main can exit non-zero with the diagnostic.
func (d *Daemon) Run() error {
	if err := d.listener.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.listener.Run(ctx)
	go d.health.Run(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	fmt.Println("🎤 voxtype: voice dictation daemon")
	fmt.Printf("📋 Press %s to dictate; recording stops when you stop speaking\n", d.cfg.Hotkey)
	if method := d.typer.Method(); method != "" {
		fmt.Printf("⌨️  Typing via %s\n", method)
	}
	fmt.Println("🛑 Press Ctrl+C to exit")
	fmt.Println()

	for {
		select {
		case <-d.listener.Triggers():
			d.session.Toggle()
		case <-sig:
			fmt.Println("\n🛑 Shutting down...")
			cancel()
			d.Cleanup()
			return nil
		}
	}
}

func (d *Daemon) Cleanup() {
	if d.engine != nil {
		d.engine.Close()
	}
	audio.Terminate()
}

// recordDelivery runs after each successful injection: persist the session
// stats and print the summary.
func (d *Daemon) recordDelivery(text string, recorded time.Duration) {
	session, err := d.metrics.RecordSession(text, recorded)
	if err != nil {
		fmt.Printf("⚠️  Warning: failed to record session metrics: %v\n", err)
		return
	}
	today, err := d.metrics.TodayMetrics()
	if err != nil {
		today = nil
	}
	for _, line := range metrics.FormatSessionSummary(session, today) {
		fmt.Println(line)
	}
	fmt.Println()
}
