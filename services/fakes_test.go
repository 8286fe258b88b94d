package services

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"

	"videochat-api/config"
	"videochat-api/database"
	"videochat-api/models"
)

// sentMail is one captured outbound message.
type sentMail struct {
	from string
	to   []string
	raw  string
}

// fakeMailer captures sent mails instead of dialing SMTP.
type fakeMailer struct {
	outbox  []sentMail
	openErr error
	sendErr error // returned for every send when set
}

func (f *fakeMailer) Open() (gomail.SendCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return &fakeSendCloser{mailer: f}, nil
}

type fakeSendCloser struct {
	mailer *fakeMailer
}

func (s *fakeSendCloser) Send(from string, to []string, msg io.WriterTo) error {
	if s.mailer.sendErr != nil {
		return s.mailer.sendErr
	}
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return err
	}
	s.mailer.outbox = append(s.mailer.outbox, sentMail{from: from, to: to, raw: buf.String()})
	return nil
}

func (s *fakeSendCloser) Close() error {
	return nil
}

var errSendFailed = errors.New("send failed")

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		BaseURL:         "https://chat.example.org",
		MeetBaseURL:     "https://meet.example.org",
		FromEmail:       "noreply@example.org",
		FromName:        "Video Chat",
		DefaultLanguage: "en",
		DefaultTimezone: "UTC",
		Languages:       []string{"en", "de"},
		TimeZonesByLang: map[string]string{"de": "Europe/Berlin"},
	}
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{Email: email}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createEvent(t *testing.T, db *gorm.DB, host *models.User, start time.Time, language string) *models.Event {
	t.Helper()
	event := models.Event{Start: start, HostID: host.ID, Language: language}
	require.NoError(t, db.Create(&event).Error)
	event.Host = *host
	return &event
}

func createTemplate(t *testing.T, db *gorm.DB, typ models.NotificationType, language, subject, body string) {
	t.Helper()
	tmpl := models.MailTemplate{Type: typ, Language: language, Subject: subject, Body: body}
	require.NoError(t, db.Create(&tmpl).Error)
}
