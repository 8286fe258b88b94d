package jobs

import (
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"videochat-api/logger"
	"videochat-api/models"
	"videochat-api/repositories"
	"videochat-api/services"
)

// EventLifecycleJob runs the two periodic passes: mail the participants of
// events that are about to start, then delete events that are long past.
type EventLifecycleJob struct {
	events        *repositories.EventRepository
	notifications *services.NotificationService
	interval      time.Duration
	done          chan bool
	log           zerolog.Logger
}

func NewEventLifecycleJob(db *gorm.DB, notifications *services.NotificationService, interval time.Duration) *EventLifecycleJob {
	return &EventLifecycleJob{
		events:        repositories.NewEventRepository(db),
		notifications: notifications,
		interval:      interval,
		done:          make(chan bool),
		log:           logger.WithComponent("lifecycle"),
	}
}

// Start begins running the passes on the configured interval.
func (j *EventLifecycleJob) Start() {
	j.log.Info().Dur("interval", j.interval).Msg("event lifecycle job started")

	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		// Run immediately on start
		j.run()

		for {
			select {
			case <-ticker.C:
				j.run()
			case <-j.done:
				j.log.Info().Msg("event lifecycle job stopped")
				return
			}
		}
	}()
}

// Stop stops the periodic job.
func (j *EventLifecycleJob) Stop() {
	j.done <- true
}

func (j *EventLifecycleJob) run() {
	if err := j.RunOnce(time.Now()); err != nil {
		j.log.Error().Err(err).Msg("event lifecycle pass failed")
	}
}

// RunOnce executes the reminder pass and then the deletion pass. Both passes
// are idempotent; an error is returned only on store failures.
func (j *EventLifecycleJob) RunOnce(now time.Time) error {
	if err := j.mailParticipants(now); err != nil {
		return err
	}
	return j.deleteOldEvents(now)
}

// mailParticipants sends the reminder to everyone on events starting within
// the next hour. The mails_sent flag, flipped inside Notify after the whole
// batch has been attempted, keeps later runs from re-notifying.
func (j *EventLifecycleJob) mailParticipants(now time.Time) error {
	events, err := j.events.ToBeMailed(now)
	if err != nil {
		return err
	}

	for i := range events {
		event := &events[i]
		j.log.Info().Uint("event_id", event.ID).Msg("sending event reminder")
		j.notifications.Notify(event, models.NotificationJoin, services.EventRecipients(event), nil)
	}
	return nil
}

// deleteOldEvents removes events that started more than a day ago. No
// notification goes out on this path.
func (j *EventLifecycleJob) deleteOldEvents(now time.Time) error {
	events, err := j.events.ToBeDeleted(now)
	if err != nil {
		return err
	}

	for i := range events {
		event := &events[i]
		if err := j.events.Delete(event); err != nil {
			return err
		}
		j.log.Info().Uint("event_id", event.ID).Msg("deleted old event")
	}
	return nil
}
