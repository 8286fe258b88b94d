package repositories

import (
	"errors"

	"gorm.io/gorm"

	"videochat-api/models"
)

// ResolvedTemplate is the subject/body pair left after language fallback.
type ResolvedTemplate struct {
	Subject string
	Body    string
}

type MailTemplateRepository struct {
	db *gorm.DB
}

func NewMailTemplateRepository(db *gorm.DB) *MailTemplateRepository {
	return &MailTemplateRepository{db: db}
}

// Resolve returns the template for (type, language). Missing or empty fields
// fall back to the default language individually: a translated subject can be
// paired with a default-language body. When no row exists for the type at all,
// Resolve returns (nil, nil) and no mail is sent.
func (r *MailTemplateRepository) Resolve(typ models.NotificationType, language, defaultLanguage string) (*ResolvedTemplate, error) {
	localized, err := r.find(typ, language)
	if err != nil {
		return nil, err
	}
	fallback := localized
	if language != defaultLanguage {
		fallback, err = r.find(typ, defaultLanguage)
		if err != nil {
			return nil, err
		}
	}

	if localized == nil && fallback == nil {
		return nil, nil
	}

	resolved := &ResolvedTemplate{}
	resolved.Subject = pickField(localized, fallback, func(t *models.MailTemplate) string { return t.Subject })
	resolved.Body = pickField(localized, fallback, func(t *models.MailTemplate) string { return t.Body })
	return resolved, nil
}

func (r *MailTemplateRepository) find(typ models.NotificationType, language string) (*models.MailTemplate, error) {
	var tmpl models.MailTemplate
	err := r.db.Where("type = ? AND language = ?", typ, language).First(&tmpl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

func pickField(localized, fallback *models.MailTemplate, field func(*models.MailTemplate) string) string {
	if localized != nil && field(localized) != "" {
		return field(localized)
	}
	if fallback != nil {
		return field(fallback)
	}
	return ""
}
