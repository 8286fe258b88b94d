package models

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&User{}, &Event{}, &Participation{}, &MailTemplate{}))
	return db
}

func TestIsPast(t *testing.T) {
	past := Event{Start: time.Date(1999, 5, 1, 20, 0, 0, 0, time.UTC)}
	assert.True(t, past.IsPast())

	future := Event{Start: time.Date(2222, 5, 1, 20, 0, 0, 0, time.UTC)}
	assert.False(t, future.IsPast())
}

func TestBeforeCreateAssignsToken(t *testing.T) {
	db := setupTestDB(t)

	host := User{Email: "host@example.com"}
	require.NoError(t, db.Create(&host).Error)

	first := Event{Start: time.Date(2222, 5, 1, 20, 0, 0, 0, time.UTC), HostID: host.ID}
	second := Event{Start: time.Date(2222, 6, 1, 20, 0, 0, 0, time.UTC), HostID: host.ID}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	assert.NotEmpty(t, first.UUID)
	assert.NotEmpty(t, second.UUID)
	assert.NotEqual(t, first.UUID, second.UUID)
	assert.Equal(t, "en", first.Language)
}

func TestParticipationTokenIsUnique(t *testing.T) {
	db := setupTestDB(t)

	host := User{Email: "host@example.com"}
	guest := User{Email: "guest@example.com"}
	require.NoError(t, db.Create(&host).Error)
	require.NoError(t, db.Create(&guest).Error)

	event := Event{Start: time.Date(2222, 5, 1, 20, 0, 0, 0, time.UTC), HostID: host.ID}
	require.NoError(t, db.Create(&event).Error)

	participation := Participation{EventID: event.ID, UserID: guest.ID}
	require.NoError(t, db.Create(&participation).Error)
	assert.NotEmpty(t, participation.UUID)
	assert.NotEqual(t, event.UUID, participation.UUID)

	// second row for the same (event, user) pair is rejected
	duplicate := Participation{EventID: event.ID, UserID: guest.ID}
	assert.Error(t, db.Create(&duplicate).Error)
}

func TestEventURLs(t *testing.T) {
	event := Event{ID: 7, UUID: "8511c737-4498-40ce-8657-9057e8d2cef2"}

	assert.Equal(t,
		"https://meet.example.org/8511c737-4498-40ce-8657-9057e8d2cef2",
		event.JoinURL("https://meet.example.org"))
	assert.Equal(t,
		"https://chat.example.org/participate/7",
		event.ParticipateURL("https://chat.example.org"))
	assert.Equal(t,
		"https://chat.example.org/delete/8511c737-4498-40ce-8657-9057e8d2cef2",
		event.DeleteURL("https://chat.example.org"))
}

func TestLeaveURL(t *testing.T) {
	participation := Participation{UUID: "e7a1c737-4498-40ce-8657-9057e8d2cef2"}
	assert.Equal(t,
		"https://chat.example.org/leave/e7a1c737-4498-40ce-8657-9057e8d2cef2",
		participation.LeaveURL("https://chat.example.org"))
}
