package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"videochat-api/config"
	"videochat-api/controllers"
	"videochat-api/middleware"
	"videochat-api/services"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, notifications *services.NotificationService) {
	eventService := services.NewEventService(cfg, db, notifications)
	eventController := controllers.NewEventController(eventService)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// API version 1
	v1 := r.Group("/api/v1")

	v1.GET("/events", eventController.GetEvents)
	v1.GET("/events/:id", eventController.GetEvent)

	// The mutating public endpoints are rate limited; there is no
	// authentication, links are capability URLs keyed by random tokens.
	limited := v1.Group("/")
	limited.Use(middleware.RateLimit(30, 10))
	{
		limited.POST("/events", eventController.HostEvent)
		limited.POST("/events/:id/participants", eventController.JoinEvent)
		// :id is the event's public token here, not the internal id
		limited.DELETE("/events/:id", eventController.DeleteEvent)
		// :id is the participation's leave token
		limited.DELETE("/participations/:id", eventController.LeaveEvent)
	}
}
