package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"videochat-api/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Participation{},
		&models.MailTemplate{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}

// SeedTemplates installs default mail templates when the table is empty, so a
// fresh instance sends mails out of the box. Operators can edit the rows
// afterwards; seeding never overwrites existing templates.
func SeedTemplates(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.MailTemplate{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count mail templates: %w", err)
	}
	if count > 0 {
		return nil
	}

	templates := []models.MailTemplate{
		{
			Type:     models.NotificationHostConfirmation,
			Language: "en",
			Subject:  "Your video chat was created",
			Body: "You are hosting a video chat at {{ .Event.Start }}.\n\n" +
				"Share this link so others can join: {{ .Event.ParticipateURL }}\n" +
				"Meeting room: {{ .Event.JoinURL }}\n\n" +
				"To cancel the event, open: {{ .Event.DeleteURL }}\n",
		},
		{
			Type:     models.NotificationHostConfirmation,
			Language: "de",
			Subject:  "Dein Videochat wurde erstellt",
			Body: "Du bist Gastgeber eines Videochats am {{ .Event.Start }}.\n\n" +
				"Teile diesen Link, damit andere teilnehmen können: {{ .Event.ParticipateURL }}\n" +
				"Konferenzraum: {{ .Event.JoinURL }}\n\n" +
				"Zum Absagen des Termins: {{ .Event.DeleteURL }}\n",
		},
		{
			Type:     models.NotificationJoinConfirmation,
			Language: "en",
			Subject:  "You are participating in a video chat",
			Body: "You joined the video chat at {{ .Event.Start }}.\n\n" +
				"Meeting room: {{ .Event.JoinURL }}\n\n" +
				"If you cannot make it, free your seat here: {{ .LeaveURL }}\n",
		},
		{
			Type:     models.NotificationJoinConfirmation,
			Language: "de",
			Subject:  "Du nimmst an einem Videochat teil",
			Body: "Du hast dich für den Videochat am {{ .Event.Start }} angemeldet.\n\n" +
				"Konferenzraum: {{ .Event.JoinURL }}\n\n" +
				"Falls du nicht kannst, gib deinen Platz hier frei: {{ .LeaveURL }}\n",
		},
		{
			Type:     models.NotificationJoin,
			Language: "en",
			Subject:  "Your video chat starts soon",
			Body: "The video chat starts at {{ .Event.Start }}.\n\n" +
				"Join here: {{ .Event.JoinURL }}\n",
		},
		{
			Type:     models.NotificationJoin,
			Language: "de",
			Subject:  "Dein Videochat beginnt bald",
			Body: "Der Videochat beginnt am {{ .Event.Start }}.\n\n" +
				"Hier teilnehmen: {{ .Event.JoinURL }}\n",
		},
		{
			Type:     models.NotificationDeleted,
			Language: "en",
			Subject:  "Video chat cancelled",
			Body:     "The video chat at {{ .Event.Start }} was cancelled by the host.\n",
		},
		{
			Type:     models.NotificationDeleted,
			Language: "de",
			Subject:  "Videochat abgesagt",
			Body:     "Der Videochat am {{ .Event.Start }} wurde vom Gastgeber abgesagt.\n",
		},
	}

	for _, tmpl := range templates {
		if err := db.Create(&tmpl).Error; err != nil {
			return fmt.Errorf("failed to seed mail template %s/%s: %w", tmpl.Type, tmpl.Language, err)
		}
	}

	return nil
}
