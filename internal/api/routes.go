package api

import (
	"net/http"
	"time"

	"fitcal/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// Services bundles what the handlers depend on.
type Services struct {
	Auth         service.AuthService
	Profiles     service.ProfileService
	WorkoutTypes service.WorkoutTypeService
	Sessions     service.SessionService
	Tracking     service.TrackingService
	Stats        service.StatsService
	Exports      service.ExportService
	Changes      ChangeFeed

	TimerInterval time.Duration
}

func SetupRoutes(router *gin.Engine, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	profileHandler := NewProfileHandler(svc.Profiles)
	workoutTypeHandler := NewWorkoutTypeHandler(svc.WorkoutTypes)
	sessionHandler := NewSessionHandler(svc.Sessions, svc.TimerInterval)
	trackingHandler := NewTrackingHandler(svc.Tracking)
	statsHandler := NewStatsHandler(svc.Stats, svc.Changes)
	exportHandler := NewExportHandler(svc.Exports)

	authMiddleware := AuthMiddleware(svc.Auth)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/demo", authHandler.Demo)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)
		protected.PATCH("/me", authHandler.UpdateMe)

		// --- Profile Routes ---
		profileGroup := protected.Group("/profile")
		{
			profileGroup.GET("", profileHandler.GetProfile)
			profileGroup.POST("", profileHandler.CreateProfile)
			profileGroup.PUT("", profileHandler.SaveProfile)
			profileGroup.PATCH("", profileHandler.UpdateProfile)
		}

		// --- Workout Type Routes ---
		typeGroup := protected.Group("/workout-types")
		{
			typeGroup.GET("", workoutTypeHandler.ListWorkoutTypes)
			typeGroup.POST("", workoutTypeHandler.CreateWorkoutType)
			typeGroup.POST("/defaults", workoutTypeHandler.SeedDefaults)
			typeGroup.GET("/:id", workoutTypeHandler.GetWorkoutType)
			typeGroup.PATCH("/:id", workoutTypeHandler.UpdateWorkoutType)
			typeGroup.DELETE("/:id", workoutTypeHandler.DeleteWorkoutType)
			typeGroup.POST("/:id/sections", workoutTypeHandler.AddSection)
		}
		sectionGroup := protected.Group("/sections")
		{
			sectionGroup.PATCH("/:id", workoutTypeHandler.UpdateSection)
			sectionGroup.DELETE("/:id", workoutTypeHandler.DeleteSection)
		}

		// --- Built-in Plans ---
		protected.GET("/plans", ListPlans)
		protected.GET("/plans/:id", GetPlan)

		// --- Session Routes ---
		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.GET("", sessionHandler.ListSessions)
			sessionGroup.POST("", sessionHandler.CreateSession)
			sessionGroup.POST("/schedule", sessionHandler.ScheduleSessions)
			sessionGroup.POST("/start", sessionHandler.StartSession)
			sessionGroup.PUT("/week/:weekStart", sessionHandler.PlanWeek)

			sessionGroup.GET("/:id", sessionHandler.GetSession)
			sessionGroup.PATCH("/:id", sessionHandler.UpdateSession)
			sessionGroup.DELETE("/:id", sessionHandler.DeleteSession)
			sessionGroup.POST("/:id/toggle", sessionHandler.ToggleSession)
			sessionGroup.POST("/:id/begin", sessionHandler.BeginSession)
			sessionGroup.POST("/:id/complete", sessionHandler.CompleteSession)
			sessionGroup.POST("/:id/sections/:index/toggle", sessionHandler.ToggleSection)
			sessionGroup.POST("/:id/steps/:index/toggle", sessionHandler.ToggleStep)
			sessionGroup.PUT("/:id/steps/:index", sessionHandler.SetStep)
			sessionGroup.GET("/:id/timer", sessionHandler.SessionTimer)
		}

		// --- Weekly Tracking Routes ---
		trackingGroup := protected.Group("/tracking")
		{
			trackingGroup.GET("", trackingHandler.ListWeek)
			trackingGroup.POST("/toggle", trackingHandler.Toggle)
			trackingGroup.GET("/weekly-stats", trackingHandler.WeeklyStats)
		}

		// --- Stats Routes ---
		protected.GET("/stats", statsHandler.GetStats)
		protected.GET("/stats/stream", statsHandler.StreamStats)

		// --- Export Routes ---
		exportGroup := protected.Group("/exports")
		{
			exportGroup.POST("", exportHandler.CreateExport)
			exportGroup.GET("", exportHandler.ListExports)
			exportGroup.GET("/:id/url", exportHandler.GetExportURL)
		}
	}
}
