package routes

import (
	"github.com/gin-gonic/gin"

	"civicapp-be/controllers"
)

// IssueRoutes sets up the citizen-facing issue routes
func IssueRoutes(r *gin.Engine, ic *controllers.IssueController, rateLimiter gin.HandlerFunc) {
	issue := r.Group("/api/issues")
	{
		issue.POST("", rateLimiter, ic.CreateIssue)
		issue.GET("", ic.GetAllIssues)
		issue.GET("/map", ic.MapIssues)
		issue.GET("/:id", ic.GetIssue)
		issue.DELETE("/:id", ic.DeleteIssue)
	}
}
