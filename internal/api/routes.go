package api

import (
	"advokit/case-app/internal/service"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all handlers onto the router. Everything except
// registration, login and the health probe sits behind the JWT middleware.
// dbPing reports database reachability for the health endpoint.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	dbPing func(context.Context) error,
	authService service.AuthService,
	caseService service.CaseService,
	noteService service.NoteService,
	dashboardService service.DashboardService,
) {
	authHandler := NewAuthHandler(authService)
	caseHandler := NewCaseHandler(caseService)
	noteHandler := NewNoteHandler(noteService)
	dashboardHandler := NewDashboardHandler(dashboardService)

	authMiddleware := AuthMiddleware(jwtSecret)

	api := router.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := dbPing(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "database": "disconnected"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "connected"})
	})

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	protected := api.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/auth/profile", authHandler.Profile)

		caseGroup := protected.Group("/cases")
		{
			// /search must register before /:id or gin would treat
			// "search" as a case id.
			caseGroup.GET("/search", caseHandler.SearchCases)

			caseGroup.POST("", caseHandler.CreateCase)
			caseGroup.GET("", caseHandler.ListCases)
			caseGroup.GET("/:id", caseHandler.GetCase)
			caseGroup.PUT("/:id", caseHandler.UpdateCase)
			caseGroup.PATCH("/:id/status", caseHandler.UpdateStatus)
			caseGroup.DELETE("/:id", caseHandler.DeleteCase)

			caseGroup.POST("/:id/upload", caseHandler.UploadFiles)
			caseGroup.POST("/:id/notes", caseHandler.CreateSectionNote)
			caseGroup.DELETE("/:id/files/:fileId", caseHandler.DeleteAttachment)
			caseGroup.GET("/:id/sections", caseHandler.GetSections)
		}

		noteGroup := protected.Group("/notes")
		{
			noteGroup.POST("", noteHandler.CreateNote)
			noteGroup.GET("", noteHandler.ListNotes)
			noteGroup.GET("/:id", noteHandler.GetNote)
			noteGroup.PUT("/:id", noteHandler.UpdateNote)
			noteGroup.DELETE("/:id", noteHandler.DeleteNote)
		}

		dashboardGroup := protected.Group("/dashboard")
		{
			dashboardGroup.GET("/stats", dashboardHandler.Stats)
			dashboardGroup.GET("/hearings", dashboardHandler.UpcomingHearings)
			dashboardGroup.GET("/activity", dashboardHandler.RecentActivity)
			dashboardGroup.GET("/metrics", dashboardHandler.Metrics)
		}
	}
}
