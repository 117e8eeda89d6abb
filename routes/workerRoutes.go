package routes

import (
	"github.com/gin-gonic/gin"

	"civicapp-be/controllers"
)

// WorkerRoutes sets up the field-worker routes
func WorkerRoutes(r *gin.Engine, wc *controllers.WorkerController) {
	worker := r.Group("/api/workers")
	{
		worker.GET("/:phone/issues", wc.GetAssignedIssues)
		worker.POST("/:phone/issues/:id/resolve", wc.ResolveIssue)
	}
}
