package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Participation links a user to an event. The pair is unique, so joining the
// same event twice with the same address keeps a single row.
type Participation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UUID      string    `json:"uuid" gorm:"uniqueIndex;not null;size:36"`
	EventID   uint      `json:"event_id" gorm:"not null;uniqueIndex:idx_participations_event_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_participations_event_user"`
	CreatedAt time.Time `json:"created_at"`

	Event Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (p *Participation) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	return nil
}

// LeaveURL is the per-participation link to leave the event, keyed by the
// participation token.
func (p *Participation) LeaveURL(baseURL string) string {
	return fmt.Sprintf("%s/leave/%s", baseURL, p.UUID)
}
