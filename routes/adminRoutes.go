package routes

import (
	"github.com/gin-gonic/gin"

	"civicapp-be/controllers"
	"civicapp-be/middlewares"
)

// AdminRoutes sets up the triage dashboard routes
func AdminRoutes(r *gin.Engine, ac *controllers.AdminController, auth *controllers.AuthController, jwtSecret string) {
	admin := r.Group("/api/admin")
	{
		admin.POST("/login", auth.AdminLogin)

		protected := admin.Group("", middlewares.AuthMiddleware(jwtSecret))
		{
			protected.GET("/issues/summary", ac.GetSummary)
			protected.GET("/issues", ac.GetIssues)
			protected.POST("/issues/:id/assign/:workerId", ac.AssignWorker)
			protected.GET("/workers/leaderboard", ac.GetLeaderboard)
			protected.GET("/analytics", ac.GetAnalytics)
		}
	}
}
