package repositories

import (
	"errors"

	"gorm.io/gorm"

	"videochat-api/models"
)

type ParticipationRepository struct {
	db *gorm.DB
}

func NewParticipationRepository(db *gorm.DB) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

// GetOrCreate returns the participation for (event, user), creating it if
// missing. Joining twice keeps a single row.
func (r *ParticipationRepository) GetOrCreate(eventID, userID uint) (*models.Participation, error) {
	var participation models.Participation
	err := r.db.Where("event_id = ? AND user_id = ?", eventID, userID).First(&participation).Error
	if err == nil {
		return &participation, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	participation = models.Participation{EventID: eventID, UserID: userID}
	if err := r.db.Create(&participation).Error; err != nil {
		return nil, err
	}
	return &participation, nil
}

// FindByUUID retrieves a participation by its leave token.
func (r *ParticipationRepository) FindByUUID(uuid string) (*models.Participation, error) {
	var participation models.Participation
	err := r.db.Preload("Event").Preload("User").First(&participation, "uuid = ?", uuid).Error
	if err != nil {
		return nil, err
	}
	return &participation, nil
}

func (r *ParticipationRepository) Delete(participation *models.Participation) error {
	return r.db.Delete(participation).Error
}
