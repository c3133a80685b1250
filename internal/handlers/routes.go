package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/charity-task-api/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes.
type Handlers struct {
	Auth    *AuthHandler
	Profile *ProfileHandler
	Task    *TaskHandler
}

// RegisterRoutes mounts the API on r. Session middleware must already be installed.
func RegisterRoutes(r *gin.Engine, h Handlers, tokens middleware.TokenAuthenticator) {
	requireAuth := middleware.RequireAuth(tokens)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Charity Task API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", requireAuth, h.Auth.Logout)
			auth.GET("/me", requireAuth, h.Auth.GetCurrentUser)
			auth.PATCH("/me", requireAuth, h.Auth.UpdateProfile)
		}

		benefactors := api.Group("/benefactors")
		benefactors.Use(requireAuth)
		{
			benefactors.POST("", h.Profile.RegisterBenefactor)
			benefactors.GET("/me", h.Profile.GetBenefactor)
			benefactors.DELETE("/me", h.Profile.WithdrawBenefactor)
		}

		charities := api.Group("/charities")
		charities.Use(requireAuth)
		{
			charities.POST("", h.Profile.RegisterCharity)
			charities.GET("/me", h.Profile.GetCharity)
			charities.DELETE("/me", h.Profile.CloseCharity)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", h.Task.ListTasks)
			tasks.POST("", h.Task.CreateTask)
			tasks.GET("/:id", middleware.RequireTaskID(), h.Task.GetTask)
			tasks.POST("/:id/request", middleware.RequireTaskID(), h.Task.RequestTask)
			tasks.POST("/:id/response", middleware.RequireTaskID(), h.Task.RespondTask)
			tasks.POST("/:id/done", middleware.RequireTaskID(), h.Task.CompleteTask)
		}
	}
}
