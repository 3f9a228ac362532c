package models

import (
	"gorm.io/gorm"
)

// User represents an account whose signals are assembled into episodes
type User struct {
	gorm.Model
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Timezone string `json:"timezone"` // IANA zone name; empty means the configured default

	// EpisodeLimit caps the number of episodes generated within the quota
	// window. Zero means the configured default applies.
	EpisodeLimit int `json:"episode_limit" gorm:"default:0"`

	// NotifyTopic is the delivery topic for ready-episode notifications.
	// Empty disables notification for the user.
	NotifyTopic string `json:"notify_topic,omitempty"`

	IsActive bool      `json:"is_active" gorm:"default:true"`
	Signals  []Signal  `json:"signals,omitempty" gorm:"foreignKey:UserID"`
	Episodes []Episode `json:"episodes,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
