package models

// NotificationType identifies which mail a template renders.
type NotificationType string

const (
	// NotificationHostConfirmation is sent to the host right after creating
	// an event.
	NotificationHostConfirmation NotificationType = "host_confirmation"
	// NotificationJoinConfirmation is sent to a participant right after
	// joining an event.
	NotificationJoinConfirmation NotificationType = "join_confirmation"
	// NotificationJoin is the reminder sent to everybody shortly before the
	// event starts, carrying the meeting URL.
	NotificationJoin NotificationType = "join"
	// NotificationDeleted is sent to everybody when the host deletes the
	// event.
	NotificationDeleted NotificationType = "deleted"
)

// MailTemplate holds the subject and body templates for one notification type
// in one language. Subject and body are text/template strings; the renderer
// binds them against the event context, e.g. {{ .Event.Start }} or
// {{ .LeaveURL }}. At most one row exists per (type, language).
type MailTemplate struct {
	ID       uint             `json:"id" gorm:"primaryKey"`
	Type     NotificationType `json:"type" gorm:"not null;size:50;uniqueIndex:idx_mail_templates_type_lang"`
	Language string           `json:"language" gorm:"not null;size:10;uniqueIndex:idx_mail_templates_type_lang"`
	Subject  string           `json:"subject" gorm:"not null;size:255"`
	Body     string           `json:"body" gorm:"not null;type:text"`
}
