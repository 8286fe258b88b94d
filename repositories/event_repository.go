package repositories

import (
	"time"

	"gorm.io/gorm"

	"videochat-api/models"
)

// reminderWindow is how long before the start the reminder mail goes out.
const reminderWindow = time.Hour

// deletionAge is how long after the start an event is removed by the cleanup
// pass.
const deletionAge = 24 * time.Hour

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

// FindByID retrieves an event by its internal id (used in join and
// confirmation links).
func (r *EventRepository) FindByID(id uint) (*models.Event, error) {
	var event models.Event
	err := r.db.Preload("Host").First(&event, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// FindByUUID retrieves an event by its public token (used in the delete link),
// with participants loaded.
func (r *EventRepository) FindByUUID(uuid string) (*models.Event, error) {
	var event models.Event
	err := r.db.Preload("Host").Preload("Participations.User").
		First(&event, "uuid = ?", uuid).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Upcoming returns events that have not started yet, soonest first.
func (r *EventRepository) Upcoming(now time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Preload("Host").
		Where("start >= ?", now).
		Order("start ASC").
		Find(&events).Error
	return events, err
}

// ToBeMailed returns events whose reminder is due: the reminder has not been
// sent and the event starts within the next hour (or has already started).
func (r *EventRepository) ToBeMailed(now time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Preload("Host").Preload("Participations.User").
		Where("mails_sent = ? AND start <= ?", false, now.Add(reminderWindow)).
		Find(&events).Error
	return events, err
}

// ToBeDeleted returns events that started more than a day ago.
func (r *EventRepository) ToBeDeleted(now time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Where("start <= ?", now.Add(-deletionAge)).Find(&events).Error
	return events, err
}

// Delete removes an event and its participations.
func (r *EventRepository) Delete(event *models.Event) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Participation{}).Error; err != nil {
			return err
		}
		return tx.Delete(event).Error
	})
}

// MarkMailsSent flips the reminder guard flag. It never resets.
func (r *EventRepository) MarkMailsSent(event *models.Event) error {
	event.MailsSent = true
	return r.db.Model(event).Update("mails_sent", true).Error
}

// OccupantCount is the live number of seats taken, host included.
func (r *EventRepository) OccupantCount(eventID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Participation{}).Where("event_id = ?", eventID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count + 1, nil
}
