package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	settingsFile = "settings.json"
	dailyDirName = "daily"
)

// Storage persists metrics as one JSON file per day plus a settings file.
type Storage struct {
	baseDir string
}

func NewStorage(baseDir string) (*Storage, error) {
	if err := os.MkdirAll(filepath.Join(baseDir, dailyDirName), 0755); err != nil {
		return nil, fmt.Errorf("creating metrics directory: %v", err)
	}
	return &Storage{baseDir: baseDir}, nil
}

func (s *Storage) dailyPath(date string) string {
	return filepath.Join(s.baseDir, dailyDirName, date+".json")
}

func (s *Storage) SaveSession(session *SessionMetrics) error {
	date := session.Timestamp.Format("2006-01-02")
	daily, err := s.GetDailyMetrics(date)
	if err != nil {
		daily = &DailyMetrics{Date: date}
	}

	daily.Sessions = append(daily.Sessions, *session)
	daily.TotalWords += session.WordCount
	daily.TotalSaved += session.TimeSaved
	daily.SessionCount = len(daily.Sessions)

	data, err := json.MarshalIndent(daily, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.dailyPath(date), data, 0644)
}

func (s *Storage) GetDailyMetrics(date string) (*DailyMetrics, error) {
	data, err := os.ReadFile(s.dailyPath(date))
	if os.IsNotExist(err) {
		return &DailyMetrics{Date: date}, nil
	}
	if err != nil {
		return nil, err
	}
	var daily DailyMetrics
	if err := json.Unmarshal(data, &daily); err != nil {
		return nil, err
	}
	return &daily, nil
}

func (s *Storage) GetTotalMetrics() (*TotalMetrics, error) {
	files, err := os.ReadDir(filepath.Join(s.baseDir, dailyDirName))
	if err != nil {
		return &TotalMetrics{}, nil
	}

	totals := &TotalMetrics{}
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, dailyDirName, file.Name()))
		if err != nil {
			continue
		}
		var daily DailyMetrics
		if err := json.Unmarshal(data, &daily); err != nil {
			continue
		}
		totals.TotalWords += daily.TotalWords
		totals.TotalSessions += daily.SessionCount
		totals.TotalSaved += daily.TotalSaved
	}
	if totals.TotalSessions > 0 {
		totals.AvgWordsPerSession = totals.TotalWords / totals.TotalSessions
	}
	return totals, nil
}

func (s *Storage) SaveUserSettings(settings *UserSettings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.baseDir, settingsFile), data, 0644)
}

func (s *Storage) LoadUserSettings() (*UserSettings, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, settingsFile))
	if err != nil {
		return nil, err
	}
	var settings UserSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Storage) ClearAll() error {
	dailyDir := filepath.Join(s.baseDir, dailyDirName)
	files, err := os.ReadDir(dailyDir)
	if err != nil {
		return nil
	}
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(dailyDir, file.Name())); err != nil {
			return fmt.Errorf("removing %s: %v", file.Name(), err)
		}
	}
	return nil
}
