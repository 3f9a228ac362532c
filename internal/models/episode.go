package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// EpisodeStatus represents the state of one generation run
type EpisodeStatus string

const (
	EpisodeStatusGenerating   EpisodeStatus = "generating"
	EpisodeStatusSynthesizing EpisodeStatus = "synthesizing"
	EpisodeStatusReady        EpisodeStatus = "ready"
	EpisodeStatusFailed       EpisodeStatus = "failed"
)

// SegmentSource is one cited source within a segment (display order =
// citation order)
type SegmentSource struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// SourceList is the ordered set of sources cited by a segment, stored as a
// JSON column
type SourceList []SegmentSource

// Value implements driver.Valuer interface for SourceList
func (s SourceList) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner interface for SourceList
func (s *SourceList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, s)
}

// Episode represents one synthesized audio artifact assembled from a user's
// signals for a period
type Episode struct {
	gorm.Model
	UserID uint          `json:"user_id" gorm:"not null;index:idx_episodes_user_status"`
	Status EpisodeStatus `json:"status" gorm:"default:'generating';index:idx_episodes_user_status"`

	Title   string `json:"title"`
	Summary string `json:"summary" gorm:"type:text"`

	// Script holds the main narration text; EpilogueScript the deterministic
	// closing remark. Both are kept for reference once audio is rendered.
	Script         string `json:"script" gorm:"type:text"`
	EpilogueScript string `json:"epilogue_script" gorm:"type:text"`

	AudioPath string  `json:"audio_path"`
	Duration  float64 `json:"duration"` // seconds

	SignalCount int       `json:"signal_count"`
	Topics      TopicList `json:"topics,omitempty" gorm:"type:json"`

	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	GeneratedAt time.Time `json:"generated_at"`

	PlayCount    int    `json:"play_count" gorm:"default:0"`
	ErrorMessage string `json:"error_message,omitempty"`

	Segments []EpisodeSegment `json:"segments,omitempty" gorm:"foreignKey:EpisodeID"`
	Signals  []Signal         `json:"signals,omitempty" gorm:"foreignKey:EpisodeID"`
}

// IsTerminal returns true if the episode is in a terminal state
func (e *Episode) IsTerminal() bool {
	return e.Status == EpisodeStatusReady || e.Status == EpisodeStatusFailed
}

// FullScript returns the main script and epilogue joined for reference
func (e *Episode) FullScript() string {
	if e.EpilogueScript == "" {
		return e.Script
	}
	return e.Script + "\n\n" + e.EpilogueScript
}

// TableName specifies the table name for GORM
func (Episode) TableName() string {
	return "episodes"
}

// EpisodeSegment is one ordered narration unit within an episode's script,
// with the sources cited in its text. Segments are descriptive only and are
// not mutated once the episode is ready.
type EpisodeSegment struct {
	gorm.Model
	EpisodeID uint       `json:"episode_id" gorm:"not null;index"`
	Position  int        `json:"position" gorm:"not null"`
	Text      string     `json:"text" gorm:"type:text;not null"`
	Sources   SourceList `json:"sources,omitempty" gorm:"type:json"`
}

// TableName specifies the table name for GORM
func (EpisodeSegment) TableName() string {
	return "episode_segments"
}
