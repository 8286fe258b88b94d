package models

import (
	"time"
)

// User is identified by email only. Accounts are created implicitly the first
// time an address hosts or joins an event; there are no passwords or sessions.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	HostedEvents   []Event         `json:"hosted_events,omitempty" gorm:"foreignKey:HostID"`
	Participations []Participation `json:"participations,omitempty" gorm:"foreignKey:UserID"`
}
