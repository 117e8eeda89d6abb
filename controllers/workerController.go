package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"civicapp-be/models"
	"civicapp-be/store"
)

const resolvedMessage = "Issue has been resolved and verified"

// WorkerController serves the field-worker dashboard: the worker's
// assigned issues, and marking an issue resolved. Workers are identified
// by the phone number registered in the worker directory.
type WorkerController struct {
	issues  store.IssueStore
	workers store.WorkerStore
	now     func() time.Time
}

func NewWorkerController(issues store.IssueStore, workers store.WorkerStore) *WorkerController {
	return &WorkerController{issues: issues, workers: workers, now: time.Now}
}

// GetAssignedIssues lists the issues assigned to the worker registered
// under the given phone number.
func (wc *WorkerController) GetAssignedIssues(c *gin.Context) {
	ctx := c.Request.Context()

	worker, err := wc.workers.FindByPhone(ctx, c.Param("phone"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve worker"})
		}
		return
	}

	issues, err := wc.issues.List(ctx, store.Filter{Worker: worker.ID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"worker": worker, "issues": issues})
}

// ResolveIssue advances an assigned issue to resolved and stamps
// resolvedAt. Re-resolving an already resolved issue is rejected by the
// state machine.
func (wc *WorkerController) ResolveIssue(c *gin.Context) {
	ctx := c.Request.Context()

	worker, err := wc.workers.FindByPhone(ctx, c.Param("phone"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve worker"})
		}
		return
	}

	issue, err := wc.issues.FindByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	if issue.AssignedWorker == nil || issue.AssignedWorker.ID != worker.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Issue is not assigned to this worker"})
		return
	}

	var transition *models.TransitionError
	if err := issue.Advance(models.Resolved, worker.Name, resolvedMessage, wc.now()); err != nil {
		if errors.As(err, &transition) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve issue"})
		}
		return
	}

	if err := wc.issues.Update(ctx, issue); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Issue was modified concurrently, reload and retry"})
		} else if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			log.WithError(err).Error("issue resolution failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve issue"})
		}
		return
	}

	c.JSON(http.StatusOK, issue)
}
