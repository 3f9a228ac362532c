package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
)

// SignalStatus represents the lifecycle state of a captured signal
type SignalStatus string

const (
	SignalStatusPending  SignalStatus = "pending"
	SignalStatusQueued   SignalStatus = "queued"
	SignalStatusEnriched SignalStatus = "enriched"
	SignalStatusUsed     SignalStatus = "used"
	SignalStatusSkipped  SignalStatus = "skipped"
	SignalStatusFailed   SignalStatus = "failed"
)

// SignalKind represents the kind of content a signal carries
type SignalKind string

const (
	SignalKindLink  SignalKind = "link"
	SignalKindTopic SignalKind = "topic"
	SignalKindVoice SignalKind = "voice"
)

// TopicList is a set of extracted topic strings stored as a JSON column
type TopicList []string

// Value implements driver.Valuer interface for TopicList
func (t TopicList) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner interface for TopicList
func (t *TopicList) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, t)
}

// Signal represents one captured note (link, topic, or voice transcript)
// belonging to a single user
type Signal struct {
	gorm.Model
	UserID  uint         `json:"user_id" gorm:"not null;index:idx_signals_user_status"`
	Content string       `json:"content" gorm:"type:text;not null"`
	Kind    SignalKind   `json:"kind" gorm:"not null"`
	Channel string       `json:"channel"`
	Status  SignalStatus `json:"status" gorm:"default:'pending';index:idx_signals_user_status"`
	Topics  TopicList    `json:"topics,omitempty" gorm:"type:json"`

	// Optional metadata extracted by the enrichment step
	Title  string `json:"title,omitempty"`
	URL    string `json:"url,omitempty"`
	Source string `json:"source,omitempty"`

	// Set when the signal is consumed by a persisted episode. A signal is
	// never attached to more than one episode.
	EpisodeID *uint `json:"episode_id,omitempty" gorm:"index"`
}

// IsEligible returns true if the signal can still be selected for synthesis
func (s *Signal) IsEligible() bool {
	switch s.Status {
	case SignalStatusPending, SignalStatusQueued, SignalStatusEnriched:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the signal is in a terminal state
func (s *Signal) IsTerminal() bool {
	return s.Status == SignalStatusFailed || s.Status == SignalStatusSkipped
}

// TableName specifies the table name for GORM
func (Signal) TableName() string {
	return "signals"
}
