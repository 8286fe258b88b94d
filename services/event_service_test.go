package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"videochat-api/models"
)

func newEventService(t *testing.T) (*EventService, *gorm.DB, *fakeMailer) {
	t.Helper()
	db := setupTestDB(t)
	mailer := &fakeMailer{}
	cfg := testConfig()
	notifications := NewNotificationService(cfg, db, mailer)
	return NewEventService(cfg, db, notifications), db, mailer
}

func seedAllTemplates(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, typ := range []models.NotificationType{
		models.NotificationHostConfirmation,
		models.NotificationJoinConfirmation,
		models.NotificationJoin,
		models.NotificationDeleted,
	} {
		createTemplate(t, db, typ, "en", string(typ), "{{ .Event.Start }}")
	}
}

func TestHostEventStoresStartInUTC(t *testing.T) {
	service, db, mailer := newEventService(t)
	seedAllTemplates(t, db)

	event, err := service.HostEvent(HostEventRequest{
		Email:    "host@example.com",
		Start:    "2222-05-10 20:00",
		TZName:   "Europe/Berlin",
		Language: "en",
	})
	require.NoError(t, err)

	// 20:00 CEST is 18:00 UTC
	assert.Equal(t, time.Date(2222, 5, 10, 18, 0, 0, 0, time.UTC), event.Start)
	assert.NotEmpty(t, event.UUID)
	assert.Equal(t, "host@example.com", event.Host.Email)

	// host confirmation with the invite attached
	require.Len(t, mailer.outbox, 1)
	assert.Equal(t, []string{"host@example.com"}, mailer.outbox[0].to)
	assert.Contains(t, mailer.outbox[0].raw, "event.ics")
}

func TestHostEventReusesExistingUser(t *testing.T) {
	service, db, _ := newEventService(t)
	seedAllTemplates(t, db)
	existing := createUser(t, db, "host@example.com")

	event, err := service.HostEvent(HostEventRequest{
		Email:    "host@example.com",
		Start:    "2222-05-10 20:00",
		TZName:   "UTC",
		Language: "en",
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, event.HostID)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestHostEventRejectsPastStart(t *testing.T) {
	service, db, mailer := newEventService(t)

	_, err := service.HostEvent(HostEventRequest{
		Email:    "host@example.com",
		Start:    "2020-05-10 20:00",
		TZName:   "UTC",
		Language: "de",
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "start", validationErr.Field)
	assert.Equal(t, "Muss in der Zukunft liegen", validationErr.Message)

	// nothing persisted, nothing sent
	var count int64
	require.NoError(t, db.Model(&models.Event{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, mailer.outbox)
}

func TestHostEventRejectsUnknownTimezone(t *testing.T) {
	service, _, _ := newEventService(t)

	_, err := service.HostEvent(HostEventRequest{
		Email:    "host@example.com",
		Start:    "2222-05-10 20:00",
		TZName:   "Mars/Olympus_Mons",
		Language: "en",
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "tzname", validationErr.Field)
}

func TestHostEventRejectsBadDateFormat(t *testing.T) {
	service, _, _ := newEventService(t)

	_, err := service.HostEvent(HostEventRequest{
		Email:    "host@example.com",
		Start:    "next tuesday",
		TZName:   "UTC",
		Language: "en",
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "start", validationErr.Field)
}

func TestJoinEventSendsConfirmationWithLeaveLink(t *testing.T) {
	service, db, mailer := newEventService(t)
	host := createUser(t, db, "host@example.com")
	event := createEvent(t, db, host, time.Date(2222, 5, 1, 20, 0, 0, 0, time.UTC), "en")
	createTemplate(t, db, models.NotificationJoinConfirmation, "en", "joined", "{{ .LeaveURL }}")

	participation, err := service.JoinEvent(event.ID, "guest@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, participation.UUID)

	require.Len(t, mailer.outbox, 1)
	assert.Equal(t, []string{"guest@example.com"}, mailer.outbox[0].to)
	assert.Contains(t, mailer.outbox[0].raw, "/leave/"+participation.UUID)
	assert.Contains(t, mailer.outbox[0].raw, "event.ics")
}

func TestJoinEventTwiceKeepsOneParticipation(t *testing.T) {
	service, db, mailer := newEventService(t)
	host := createUser(t, db, "host@example.com")
	event := createEvent(t, db, host, time.Date(2222, 5, 1, 20, 0, 0, 0, time.UTC), "en")
	createTemplate(t, db, models.NotificationJoinConfirmation, "en", "joined", "welcome")

	first, err := service.JoinEvent(event.ID, "guest@example.com")
	require.NoError(t, err)
	second, err := service.JoinEvent(event.ID, "guest@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Participation{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// the confirmation goes out again
	assert.Len(t, mailer.outbox, 2)
}

func TestJoinEventFull(t *testing.T) {
	service, db, _ := newEventService(t)
	host := createUser(t, db, "host@example.com")
	event := createEvent(t, db, host, time.Date(2222, 5, 1, 20, 0, 0, 0, time.UTC), "en")
	createTemplate(t, db, models.NotificationJoinConfirmation, "en", "joined", "welcome")

	// host plus four guests fills the room
	guests := []string{"a@example.com", "b@example.com", "c@example.com", "d@example.com"}
	for _, email := range guests {
		_, err := service.JoinEvent(event.ID, email)
		require.NoError(t, err)
	}

	_, err := service.JoinEvent(event.ID, "late@example.com")
	assert.ErrorIs(t, err, ErrEventFull)
}

func TestJoinEventPast(t *testing.T) {
	service, db, _ := newEventService(t)
	host := createUser(t, db, "host@example.com")
	event := createEvent(t, db, host, time.Date(1999, 5, 1, 20, 0, 0, 0, time.UTC), "en")

	_, err := service.JoinEvent(event.ID, "guest@example.com")
	assert.ErrorIs(t, err, ErrEventPast)
}

func TestJoinEventUnknownID(t *testing.T) {
	service, _, _ := newEventService(t)

	_, err := service.JoinEvent(4242, "guest@example.com")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestDeleteEventNotifiesEveryone(t *testing.T) {
	service, db, mailer := newEventService(t)
	host := createUser(t, db, "host@example.com")
	event := createEvent(t, db, host, time.Date(2222, 5, 1, 20, 0, 0, 0, time.UTC), "en")
	createTemplate(t, db, models.NotificationJoinConfirmation, "en", "joined", "welcome")
	createTemplate(t, db, models.NotificationDeleted, "en", "cancelled", "the event was cancelled")

	_, err := service.JoinEvent(event.ID, "guest@example.com")
	require.NoError(t, err)
	mailer.outbox = nil

	require.NoError(t, service.DeleteEvent(event.UUID))

	// participant first, then the host
	require.Len(t, mailer.outbox, 2)
	assert.Equal(t, []string{"guest@example.com"}, mailer.outbox[0].to)
	assert.Equal(t, []string{"host@example.com"}, mailer.outbox[1].to)

	var eventCount, participationCount int64
	require.NoError(t, db.Model(&models.Event{}).Count(&eventCount).Error)
	require.NoError(t, db.Model(&models.Participation{}).Count(&participationCount).Error)
	assert.Zero(t, eventCount)
	assert.Zero(t, participationCount)
}

func TestDeleteEventUnknownToken(t *testing.T) {
	service, _, mailer := newEventService(t)

	err := service.DeleteEvent("8511c737-4498-40ce-8657-9057e8d2cef2")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.Empty(t, mailer.outbox)
}

func TestLeaveEventFreesTheSeat(t *testing.T) {
	service, db, _ := newEventService(t)
	host := createUser(t, db, "host@example.com")
	event := createEvent(t, db, host, time.Date(2222, 5, 1, 20, 0, 0, 0, time.UTC), "en")
	createTemplate(t, db, models.NotificationJoinConfirmation, "en", "joined", "welcome")

	participation, err := service.JoinEvent(event.ID, "guest@example.com")
	require.NoError(t, err)

	require.NoError(t, service.LeaveEvent(participation.UUID))

	var count int64
	require.NoError(t, db.Model(&models.Participation{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpcomingEventsSkipsStarted(t *testing.T) {
	service, db, _ := newEventService(t)
	host := createUser(t, db, "host@example.com")
	createEvent(t, db, host, time.Date(1999, 5, 1, 20, 0, 0, 0, time.UTC), "en")
	future := createEvent(t, db, host, time.Date(2222, 5, 1, 20, 0, 0, 0, time.UTC), "en")

	events, err := service.UpcomingEvents()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, future.ID, events[0].ID)
}
