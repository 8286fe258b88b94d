package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxOccupancy is the number of seats in a meeting room, host included.
const MaxOccupancy = 5

type Event struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UUID      string    `json:"uuid" gorm:"uniqueIndex;not null;size:36"`
	CreatedAt time.Time `json:"created_at"`
	Start     time.Time `json:"start" gorm:"not null;index"` // stored in UTC
	Language  string    `json:"language" gorm:"not null;size:10;default:'en'"`
	// TZName is the timezone the host picked on the form. It is used to
	// interpret the submitted local start time; rendered mails use the
	// language-derived display timezone instead (see Config.DisplayTimezone).
	TZName    string `json:"tzname" gorm:"not null;size:255;default:'UTC'"`
	MailsSent bool   `json:"mails_sent" gorm:"not null;default:false"`
	HostID    uint   `json:"host_id" gorm:"not null"`

	Host           User            `json:"host" gorm:"foreignKey:HostID"`
	Participations []Participation `json:"participations,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.UUID == "" {
		e.UUID = uuid.New().String()
	}
	if e.Language == "" {
		e.Language = "en"
	}
	return nil
}

// IsPast reports whether the event has already started.
func (e *Event) IsPast() bool {
	return e.Start.Before(time.Now())
}

// JoinURL is the external meeting room URL, keyed by the event token.
func (e *Event) JoinURL(meetBaseURL string) string {
	return fmt.Sprintf("%s/%s", meetBaseURL, e.UUID)
}

// ParticipateURL is the public link to register as a participant.
func (e *Event) ParticipateURL(baseURL string) string {
	return fmt.Sprintf("%s/participate/%d", baseURL, e.ID)
}

// DeleteURL is the link for the host to delete the event, keyed by the
// event token so that it cannot be guessed from the sequential id.
func (e *Event) DeleteURL(baseURL string) string {
	return fmt.Sprintf("%s/delete/%s", baseURL, e.UUID)
}
