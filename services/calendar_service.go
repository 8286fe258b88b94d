package services

import (
	ics "github.com/arran4/golang-ical"

	"videochat-api/models"
)

// BuildInvite serializes a calendar invite for the event, attached to
// confirmation mails as event.ics.
func BuildInvite(event *models.Event) []byte {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodRequest)

	entry := cal.AddEvent(event.UUID)
	entry.SetSummary("Video Chat")
	entry.SetStartAt(event.Start.UTC())

	return []byte(cal.Serialize())
}
