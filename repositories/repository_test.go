package repositories

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"videochat-api/database"
	"videochat-api/models"
)

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

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{Email: email}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createEvent(t *testing.T, db *gorm.DB, host *models.User, start time.Time) *models.Event {
	t.Helper()
	event := models.Event{Start: start, HostID: host.ID}
	require.NoError(t, db.Create(&event).Error)
	return &event
}

func addParticipant(t *testing.T, db *gorm.DB, event *models.Event, email string) *models.Participation {
	t.Helper()
	user := createUser(t, db, email)
	participation := models.Participation{EventID: event.ID, UserID: user.ID}
	require.NoError(t, db.Create(&participation).Error)
	return &participation
}
