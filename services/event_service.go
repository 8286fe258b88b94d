package services

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"videochat-api/config"
	"videochat-api/logger"
	"videochat-api/models"
	"videochat-api/repositories"
	"videochat-api/utils"
)

// startLayout is the local datetime format the host form submits, interpreted
// in the timezone the host picked.
const startLayout = "2006-01-02 15:04"

var (
	ErrEventFull = errors.New("event is full")
	ErrEventPast = errors.New("event is past")
)

// ValidationError carries a localized field error back to the submitter.
// Nothing is persisted when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type HostEventRequest struct {
	Email    string
	Start    string // local datetime, e.g. "2030-05-10 10:00"
	TZName   string
	Language string
}

type EventService struct {
	cfg            *config.Config
	events         *repositories.EventRepository
	users          *repositories.UserRepository
	participations *repositories.ParticipationRepository
	notifications  *NotificationService
	log            zerolog.Logger
}

func NewEventService(cfg *config.Config, db *gorm.DB, notifications *NotificationService) *EventService {
	return &EventService{
		cfg:            cfg,
		events:         repositories.NewEventRepository(db),
		users:          repositories.NewUserRepository(db),
		participations: repositories.NewParticipationRepository(db),
		notifications:  notifications,
		log:            logger.WithComponent("events"),
	}
}

// HostEvent validates the submitted start in the host's own timezone, creates
// the host user and the event, and sends the host confirmation with a
// calendar invite.
func (s *EventService) HostEvent(req HostEventRequest) (*models.Event, error) {
	language := utils.NormalizeLanguage(req.Language, s.cfg.Languages, s.cfg.DefaultLanguage)

	loc, err := time.LoadLocation(req.TZName)
	if err != nil {
		return nil, &ValidationError{Field: "tzname", Message: "Unknown timezone"}
	}
	start, err := time.ParseInLocation(startLayout, req.Start, loc)
	if err != nil {
		return nil, &ValidationError{Field: "start", Message: "Invalid date format"}
	}
	if !start.After(time.Now()) {
		return nil, &ValidationError{Field: "start", Message: utils.Translate(language, "start_in_past")}
	}

	host, err := s.users.GetOrCreateByEmail(req.Email)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		Start:    start.UTC(),
		Language: language,
		TZName:   req.TZName,
		HostID:   host.ID,
	}
	if err := s.events.Create(event); err != nil {
		return nil, err
	}
	event.Host = *host

	s.log.Info().Uint("event_id", event.ID).Time("start", event.Start).Msg("event created")
	s.notifications.Notify(event, models.NotificationHostConfirmation,
		[]Recipient{{Email: host.Email}}, BuildInvite(event))

	return event, nil
}

// JoinEvent registers an email address as a participant. The seat check runs
// against the live participation count at join time. Joining twice keeps one
// participation but re-sends the confirmation mail.
func (s *EventService) JoinEvent(eventID uint, email string) (*models.Participation, error) {
	event, err := s.events.FindByID(eventID)
	if err != nil {
		return nil, err
	}

	if event.IsPast() {
		return nil, ErrEventPast
	}
	occupants, err := s.events.OccupantCount(event.ID)
	if err != nil {
		return nil, err
	}
	if occupants >= models.MaxOccupancy {
		return nil, ErrEventFull
	}

	user, err := s.users.GetOrCreateByEmail(email)
	if err != nil {
		return nil, err
	}
	participation, err := s.participations.GetOrCreate(event.ID, user.ID)
	if err != nil {
		return nil, err
	}

	s.notifications.Notify(event, models.NotificationJoinConfirmation,
		[]Recipient{{Email: user.Email, LeaveURL: participation.LeaveURL(s.cfg.BaseURL)}},
		BuildInvite(event))

	return participation, nil
}

// DeleteEvent removes an event by its public token, notifying every
// participant and the host before the records go away.
func (s *EventService) DeleteEvent(uuid string) error {
	event, err := s.events.FindByUUID(uuid)
	if err != nil {
		return err
	}

	s.notifications.Notify(event, models.NotificationDeleted, EventRecipients(event), nil)

	if err := s.events.Delete(event); err != nil {
		return err
	}
	s.log.Info().Uint("event_id", event.ID).Msg("event deleted by host")
	return nil
}

// LeaveEvent removes a participation by its leave token, freeing the seat.
func (s *EventService) LeaveEvent(uuid string) error {
	participation, err := s.participations.FindByUUID(uuid)
	if err != nil {
		return err
	}
	return s.participations.Delete(participation)
}

// UpcomingEvents lists events that have not started yet, soonest first.
func (s *EventService) UpcomingEvents() ([]models.Event, error) {
	return s.events.Upcoming(time.Now())
}

// GetEvent fetches an event by internal id for the confirmation pages.
func (s *EventService) GetEvent(id uint) (*models.Event, error) {
	return s.events.FindByID(id)
}

// ParticipateURL exposes the public join link for an event.
func (s *EventService) ParticipateURL(event *models.Event) string {
	return event.ParticipateURL(s.cfg.BaseURL)
}
