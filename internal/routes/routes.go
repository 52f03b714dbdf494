package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"midwife-booking-server/internal/config"
	"midwife-booking-server/internal/events"
	"midwife-booking-server/internal/handlers"
	"midwife-booking-server/internal/logging"
	"midwife-booking-server/internal/middleware"
	"midwife-booking-server/internal/models"
	"midwife-booking-server/internal/services"
)

// Services are the domain services the routes are served by.
type Services struct {
	Profile       *services.ProfileService
	Appointments  *services.AppointmentService
	Conversations *services.ConversationService
	Symptoms      *services.SymptomService
	Availability  *services.AvailabilityService
	Booking       *services.BookingService
	Bus           events.Bus
	Metrics       prometheus.Gatherer
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, svc Services, cfg *config.Config, logger *logging.Logger) {
	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(svc.Profile, cfg, logger)
	profileHandler := handlers.NewProfileHandler(svc.Profile, logger)
	appointmentHandler := handlers.NewAppointmentHandler(svc.Appointments, svc.Booking, logger)
	messageHandler := handlers.NewMessageHandler(svc.Conversations, logger)
	symptomHandler := handlers.NewSymptomHandler(svc.Symptoms, logger)
	availabilityHandler := handlers.NewAvailabilityHandler(svc.Availability, svc.Appointments, logger)
	eventHandler := handlers.NewEventHandler(svc.Bus, logger)

	health := func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	}

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		public.POST("/session", sessionHandler.CreateSession)
		public.GET("/health", health)
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		profileRoutes := private.Group("/profile")
		{
			profileRoutes.GET("", profileHandler.GetProfile)
			profileRoutes.PUT("", profileHandler.UpdateProfile)
			profileRoutes.DELETE("", profileHandler.ResetProfile)
		}

		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("/upcoming", appointmentHandler.GetUpcomingAppointments)
			appointmentRoutes.GET("/past", appointmentHandler.GetPastAppointments)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PATCH("/:id", appointmentHandler.UpdateAppointment)
			appointmentRoutes.POST("/:id/cancel", appointmentHandler.CancelAppointment)
			appointmentRoutes.POST("/:id/complete", appointmentHandler.CompleteAppointment)
		}
		private.POST("/bookings", appointmentHandler.BookAppointment)

		conversationRoutes := private.Group("/conversations")
		{
			conversationRoutes.GET("", messageHandler.GetConversations)
			conversationRoutes.POST("", messageHandler.StartConversation)
			conversationRoutes.GET("/unread", messageHandler.GetUnreadCount)
			conversationRoutes.GET("/:id/messages", messageHandler.GetMessages)
			conversationRoutes.POST("/:id/messages", messageHandler.SendMessage)
			conversationRoutes.POST("/:id/read", messageHandler.MarkConversationAsRead)
		}

		symptomRoutes := private.Group("/symptoms")
		{
			symptomRoutes.GET("", symptomHandler.GetSymptoms)
			symptomRoutes.PUT("", symptomHandler.SaveSymptoms)
			symptomRoutes.GET("/:date", symptomHandler.GetSymptomsByDate)
			symptomRoutes.DELETE("/:date", symptomHandler.DeleteSymptoms)
		}

		midwifeRoutes := private.Group("/midwives")
		{
			midwifeRoutes.GET("", availabilityHandler.GetMidwives)
			midwifeRoutes.GET("/:id/appointments", availabilityHandler.GetMidwifeAppointments)
			midwifeRoutes.GET("/:id/availability", availabilityHandler.GetAvailability)

			// Midwives manage only their own availability
			manage := midwifeRoutes.Group("/:id/availability")
			manage.Use(middleware.RoleAuthMiddleware(models.RoleMidwife), middleware.OwnerAuthMiddleware("id"))
			{
				manage.PUT("", availabilityHandler.SetAvailability)
				manage.POST("/bulk", availabilityHandler.SetMultiDayAvailability)
				manage.PATCH("/:slotId", availabilityHandler.UpdateSlot)
				manage.DELETE("/:slotId", availabilityHandler.DeleteSlot)
			}
		}

		private.GET("/events", eventHandler.Stream)
	}

	// Simple health check endpoint
	router.GET("/health", health)
	if svc.Metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(svc.Metrics, promhttp.HandlerOpts{})))
	}
}
