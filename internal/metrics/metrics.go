// Package metrics tracks dictation usage: words spoken, time recorded and an
// estimate of typing time saved.
package metrics

import (
	"strings"
	"time"
)

const defaultTypingWPM = 40

type SessionMetrics struct {
	Timestamp     time.Time     `json:"timestamp"`
	WordCount     int           `json:"word_count"`
	RecordingTime time.Duration `json:"recording_time"`
	TimeSaved     time.Duration `json:"time_saved"`
}

type DailyMetrics struct {
	Date         string           `json:"date"`
	Sessions     []SessionMetrics `json:"sessions"`
	TotalWords   int              `json:"total_words"`
	TotalSaved   time.Duration    `json:"total_saved"`
	SessionCount int              `json:"session_count"`
}

type TotalMetrics struct {
	TotalWords         int           `json:"total_words"`
	TotalSessions      int           `json:"total_sessions"`
	TotalSaved         time.Duration `json:"total_saved"`
	AvgWordsPerSession int           `json:"avg_words_per_session"`
}

type UserSettings struct {
	TypingSpeed int `json:"typing_speed"` // words per minute
}

type Manager struct {
	storage  *Storage
	settings *UserSettings
}

func NewManager(dir string) (*Manager, error) {
	storage, err := NewStorage(dir)
	if err != nil {
		return nil, err
	}
	settings, err := storage.LoadUserSettings()
	if err != nil {
		settings = &UserSettings{TypingSpeed: defaultTypingWPM}
	}
	return &Manager{storage: storage, settings: settings}, nil
}

// RecordSession persists one dictation session's stats.
func (m *Manager) RecordSession(transcript string, recordingTime time.Duration) (*SessionMetrics, error) {
	words := countWords(transcript)
	session := &SessionMetrics{
		Timestamp:     time.Now(),
		WordCount:     words,
		RecordingTime: recordingTime,
		TimeSaved:     m.timeSaved(words, recordingTime),
	}
	if err := m.storage.SaveSession(session); err != nil {
		return session, err
	}
	return session, nil
}

func (m *Manager) TodayMetrics() (*DailyMetrics, error) {
	return m.storage.GetDailyMetrics(time.Now().Format("2006-01-02"))
}

func (m *Manager) Totals() (*TotalMetrics, error) {
	return m.storage.GetTotalMetrics()
}

func (m *Manager) SetTypingSpeed(wpm int) error {
	m.settings.TypingSpeed = wpm
	return m.storage.SaveUserSettings(m.settings)
}

func (m *Manager) TypingSpeed() int {
	return m.settings.TypingSpeed
}

func (m *Manager) ClearAll() error {
	return m.storage.ClearAll()
}

// timeSaved estimates how much longer typing the words would have taken than
// speaking them did.
func (m *Manager) timeSaved(words int, recordingTime time.Duration) time.Duration {
	if words == 0 {
		return 0
	}
	typingTime := time.Duration(float64(words) / float64(m.settings.TypingSpeed) * float64(time.Minute))
	return max(typingTime-recordingTime, 0)
}

func countWords(text string) int {
	return len(strings.Fields(text))
}
