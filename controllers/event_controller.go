package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"videochat-api/services"
	"videochat-api/utils"
)

type EventController struct {
	service *services.EventService
}

func NewEventController(service *services.EventService) *EventController {
	return &EventController{service: service}
}

type HostEventRequest struct {
	Email    string `json:"email" binding:"required"`
	Start    string `json:"start" binding:"required"` // local datetime "2006-01-02 15:04"
	TZName   string `json:"tzname" binding:"required"`
	Language string `json:"language"`
}

type JoinEventRequest struct {
	Email string `json:"email" binding:"required"`
}

type eventView struct {
	ID             uint      `json:"id"`
	Start          time.Time `json:"start"`
	Language       string    `json:"language"`
	ParticipateURL string    `json:"participate_url"`
}

// GetEvents lists upcoming events, soonest first.
func (ec *EventController) GetEvents(c *gin.Context) {
	events, err := ec.service.UpcomingEvents()
	if err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch events")
		return
	}

	views := make([]eventView, 0, len(events))
	for i := range events {
		views = append(views, eventView{
			ID:             events[i].ID,
			Start:          events[i].Start,
			Language:       events[i].Language,
			ParticipateURL: ec.service.ParticipateURL(&events[i]),
		})
	}

	c.JSON(http.StatusOK, gin.H{"events": views})
}

// HostEvent creates a new event from the host form. A start that is not
// strictly in the future fails validation and creates nothing.
func (ec *EventController) HostEvent(c *gin.Context) {
	var req HostEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}
	if !utils.IsValidEmail(req.Email) {
		utils.SendValidationError(c, "Invalid email address")
		return
	}

	event, err := ec.service.HostEvent(services.HostEventRequest{
		Email:    req.Email,
		Start:    req.Start,
		TZName:   req.TZName,
		Language: req.Language,
	})
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			utils.SendValidationError(c, validationErr.Message)
			return
		}
		utils.SendError(c, http.StatusInternalServerError, "Failed to create event")
		return
	}

	utils.SendCreated(c, "Event was created", eventView{
		ID:             event.ID,
		Start:          event.Start,
		Language:       event.Language,
		ParticipateURL: ec.service.ParticipateURL(event),
	})
}

// GetEvent serves the hosted/participated confirmation lookups by internal id.
func (ec *EventController) GetEvent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendNotFound(c, "Event")
		return
	}

	event, err := ec.service.GetEvent(uint(id))
	if err != nil {
		utils.SendNotFound(c, "Event")
		return
	}

	c.JSON(http.StatusOK, eventView{
		ID:             event.ID,
		Start:          event.Start,
		Language:       event.Language,
		ParticipateURL: ec.service.ParticipateURL(event),
	})
}

// JoinEvent registers the submitted email as a participant of the event.
func (ec *EventController) JoinEvent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendNotFound(c, "Event")
		return
	}

	var req JoinEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}
	if !utils.IsValidEmail(req.Email) {
		utils.SendValidationError(c, "Invalid email address")
		return
	}

	_, err = ec.service.JoinEvent(uint(id), req.Email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.SendNotFound(c, "Event")
	case errors.Is(err, services.ErrEventFull), errors.Is(err, services.ErrEventPast):
		utils.SendError(c, http.StatusBadRequest, "You can not join: the event is full or already past")
	case err != nil:
		utils.SendError(c, http.StatusInternalServerError, "Failed to join event")
	default:
		utils.SendCreated(c, "You are participating", nil)
	}
}

// DeleteEvent removes an event by its public token, after the deletion
// notice has gone out to everybody.
func (ec *EventController) DeleteEvent(c *gin.Context) {
	err := ec.service.DeleteEvent(c.Param("id"))
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.SendNotFound(c, "Event")
	case err != nil:
		utils.SendError(c, http.StatusInternalServerError, "Failed to delete event")
	default:
		utils.SendSuccess(c, "Event deleted", nil)
	}
}

// LeaveEvent frees a seat by the participation's leave token.
func (ec *EventController) LeaveEvent(c *gin.Context) {
	err := ec.service.LeaveEvent(c.Param("id"))
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.SendNotFound(c, "Participation")
	case err != nil:
		utils.SendError(c, http.StatusInternalServerError, "Failed to leave event")
	default:
		utils.SendSuccess(c, "You left the event", nil)
	}
}
