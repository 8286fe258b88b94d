package services

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"

	"videochat-api/config"
	"videochat-api/logger"
	"videochat-api/models"
	"videochat-api/repositories"
	"videochat-api/utils"
)

// TemplateRenderError wraps a template parse or execute failure. The caller
// logs it and treats the notification as "no message"; it never fails the
// triggering action.
type TemplateRenderError struct {
	Type models.NotificationType
	Err  error
}

func (e *TemplateRenderError) Error() string {
	return fmt.Sprintf("could not render mail template %q: %v", e.Type, e.Err)
}

func (e *TemplateRenderError) Unwrap() error {
	return e.Err
}

// Mail is a rendered message ready for dispatch.
type Mail struct {
	Subject string
	Body    string
	To      string
}

// Recipient is one target of a notification. LeaveURL is only set for join
// confirmations, where the mail carries the participant's own leave link.
type Recipient struct {
	Email    string
	LeaveURL string
}

// TemplateData is the context mail templates are executed against.
type TemplateData struct {
	Event    EventData
	LeaveURL string
}

// EventData exposes the event to templates. Start is pre-formatted in the
// event's display timezone and language, so templates never deal with
// timezones themselves.
type EventData struct {
	Start          string
	Language       string
	JoinURL        string
	ParticipateURL string
	DeleteURL      string
}

type NotificationService struct {
	cfg       *config.Config
	templates *repositories.MailTemplateRepository
	events    *repositories.EventRepository
	mailer    Mailer
	log       zerolog.Logger
}

func NewNotificationService(cfg *config.Config, db *gorm.DB, mailer Mailer) *NotificationService {
	return &NotificationService{
		cfg:       cfg,
		templates: repositories.NewMailTemplateRepository(db),
		events:    repositories.NewEventRepository(db),
		mailer:    mailer,
		log:       logger.WithComponent("notifications"),
	}
}

// EventRecipients is every participant plus the host.
func EventRecipients(event *models.Event) []Recipient {
	recipients := make([]Recipient, 0, len(event.Participations)+1)
	for _, p := range event.Participations {
		recipients = append(recipients, Recipient{Email: p.User.Email})
	}
	return append(recipients, Recipient{Email: event.Host.Email})
}

// Render resolves the template for (type, event language) and renders it for
// one recipient. A missing template yields (nil, nil) and no mail is sent; a
// broken template yields a *TemplateRenderError.
func (s *NotificationService) Render(typ models.NotificationType, event *models.Event, recipient Recipient) (*Mail, error) {
	lang := utils.NormalizeLanguage(event.Language, s.cfg.Languages, s.cfg.DefaultLanguage)
	resolved, err := s.templates.Resolve(typ, lang, s.cfg.DefaultLanguage)
	if err != nil {
		return nil, err
	}
	if resolved == nil {
		return nil, nil
	}

	data := s.templateData(event, lang, recipient)

	subject, err := renderTemplate("subject", resolved.Subject, data)
	if err != nil {
		return nil, &TemplateRenderError{Type: typ, Err: err}
	}
	body, err := renderTemplate("body", resolved.Body, data)
	if err != nil {
		return nil, &TemplateRenderError{Type: typ, Err: err}
	}

	return &Mail{Subject: subject, Body: body, To: recipient.Email}, nil
}

// templateData builds the render context. The display timezone is derived
// from the event's language, not from the timezone the host picked on the
// form.
func (s *NotificationService) templateData(event *models.Event, lang string, recipient Recipient) TemplateData {
	loc, err := time.LoadLocation(s.cfg.DisplayTimezone(lang))
	if err != nil {
		loc = time.UTC
	}

	return TemplateData{
		Event: EventData{
			Start:          utils.FormatDateTime(event.Start.In(loc), lang),
			Language:       lang,
			JoinURL:        event.JoinURL(s.cfg.MeetBaseURL),
			ParticipateURL: event.ParticipateURL(s.cfg.BaseURL),
			DeleteURL:      event.DeleteURL(s.cfg.BaseURL),
		},
		LeaveURL: recipient.LeaveURL,
	}
}

func renderTemplate(name, text string, data TemplateData) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Notify renders once per recipient and sends the batch over one shared mail
// connection. Render and send failures are logged and swallowed per
// recipient; one bad address never blocks the others. After all recipients
// have been attempted, a reminder-type send flips the event's mails_sent
// flag so the next scheduler run skips the event.
func (s *NotificationService) Notify(event *models.Event, typ models.NotificationType, recipients []Recipient, attachment []byte) {
	sender, err := s.mailer.Open()
	if err != nil {
		s.log.Error().Err(err).Msg("could not open mail connection")
		return
	}
	defer sender.Close()

	for _, recipient := range recipients {
		mail, err := s.Render(typ, event, recipient)
		if err != nil {
			s.log.Error().Err(err).
				Str("type", string(typ)).
				Str("to", recipient.Email).
				Msg("could not render mail")
			continue
		}
		if mail == nil {
			continue
		}
		if err := s.send(sender, mail, attachment); err != nil {
			s.log.Error().Err(err).Str("to", mail.To).Msg("could not send mail")
		}
	}

	if typ == models.NotificationJoin {
		if err := s.events.MarkMailsSent(event); err != nil {
			s.log.Error().Err(err).Uint("event_id", event.ID).Msg("could not mark reminder as sent")
		}
	}
}

func (s *NotificationService) send(sender gomail.SendCloser, mail *Mail, attachment []byte) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.FromEmail, s.cfg.FromName)
	m.SetHeader("To", mail.To)
	m.SetHeader("Subject", mail.Subject)
	m.SetBody("text/plain", mail.Body)
	if attachment != nil {
		m.Attach("event.ics",
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(attachment)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {"text/calendar"}}),
		)
	}
	return gomail.Send(sender, m)
}
