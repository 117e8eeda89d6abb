package controllers

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"civicapp-be/models"
	"civicapp-be/services"
	"civicapp-be/store"
)

const assignedMessage = "Worker assigned to address the issue"

// AdminController serves the triage dashboard: summary counters, the
// filtered issue list, worker assignment, leaderboard and analytics.
type AdminController struct {
	issues  store.IssueStore
	workers store.WorkerStore
	summary *services.SummaryRefresher
	now     func() time.Time
}

func NewAdminController(issues store.IssueStore, workers store.WorkerStore, summary *services.SummaryRefresher) *AdminController {
	return &AdminController{issues: issues, workers: workers, summary: summary, now: time.Now}
}

// GetSummary returns the dashboard counters, served from the periodically
// refreshed cache when available.
func (ac *AdminController) GetSummary(c *gin.Context) {
	summary, err := ac.summary.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetIssues lists issues for triage. The four filters (status, category,
// worker-or-unassigned, date range) are combined with AND.
func (ac *AdminController) GetIssues(c *gin.Context) {
	status := c.DefaultQuery("status", "all")
	category := c.DefaultQuery("category", "all")
	worker := c.DefaultQuery("worker", "all")
	dateRange := c.DefaultQuery("dateRange", "all")

	if status != "all" && !models.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}
	if category != "all" && !models.ValidCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	since, ok := ac.rangeStart(dateRange)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range"})
		return
	}

	issues, err := ac.issues.List(c.Request.Context(), store.Filter{
		Status:   status,
		Category: category,
		Worker:   worker,
		Since:    since,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"issues": issues, "totalIssues": len(issues)})
}

// rangeStart maps the dashboard date-range filter to a lower bound.
func (ac *AdminController) rangeStart(dateRange string) (time.Time, bool) {
	now := ac.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch dateRange {
	case "all", "":
		return time.Time{}, true
	case "today":
		return midnight, true
	case "week":
		return midnight.AddDate(0, 0, -7), true
	case "month":
		return midnight.AddDate(0, -1, 0), true
	}
	return time.Time{}, false
}

// AssignWorker assigns a worker to an issue and advances it to
// worker_assigned. The write carries the version read, so a concurrent
// update is rejected with a conflict instead of silently lost.
func (ac *AdminController) AssignWorker(c *gin.Context) {
	ctx := c.Request.Context()

	worker, err := ac.workers.FindByID(ctx, c.Param("workerId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve worker"})
		}
		return
	}

	issue, err := ac.issues.FindByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	actor := c.GetString("admin_user")
	if actor == "" {
		actor = "admin"
	}

	issue.AssignedWorker = &models.AssignedWorker{ID: worker.ID, Name: worker.Name}

	var transition *models.TransitionError
	if err := issue.Advance(models.WorkerAssigned, actor, assignedMessage, ac.now()); err != nil {
		if errors.As(err, &transition) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign worker"})
		}
		return
	}

	if err := ac.issues.Update(ctx, issue); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Issue was modified concurrently, reload and retry"})
		} else if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			log.WithError(err).Error("worker assignment failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign worker"})
		}
		return
	}

	c.JSON(http.StatusOK, issue)
}

// GetLeaderboard ranks workers by issues resolved today.
func (ac *AdminController) GetLeaderboard(c *gin.Context) {
	ctx := c.Request.Context()

	workers, err := ac.workers.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve workers"})
		return
	}
	issues, err := ac.issues.List(ctx, store.Filter{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}

	now := ac.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := lo.Map(workers, func(w *models.Worker, _ int) models.WorkerStats {
		assigned := lo.Filter(issues, func(issue *models.Issue, _ int) bool {
			return issue.AssignedWorker != nil && issue.AssignedWorker.ID == w.ID
		})
		active := lo.CountBy(assigned, func(issue *models.Issue) bool {
			return issue.Status == models.WorkerAssigned
		})
		resolvedToday := lo.CountBy(assigned, func(issue *models.Issue) bool {
			return issue.Status == models.Resolved &&
				issue.ResolvedAt != nil && !issue.ResolvedAt.Before(midnight)
		})
		return models.WorkerStats{Worker: *w, ActiveIssues: active, ResolvedToday: resolvedToday}
	})

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].ResolvedToday > stats[j].ResolvedToday
	})

	c.JSON(http.StatusOK, stats)
}

// GetAnalytics returns submissions per day over the last 7 days and the
// average resolution time per category.
func (ac *AdminController) GetAnalytics(c *gin.Context) {
	ctx := c.Request.Context()
	now := ac.now()

	var issuesPerDay []gin.H
	for i := 6; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

		count, err := ac.issues.Count(ctx, store.Filter{
			Since: date,
			Until: date.AddDate(0, 0, 1),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build analytics"})
			return
		}

		issuesPerDay = append(issuesPerDay, gin.H{
			"date":  date.Format("2006-01-02"),
			"count": count,
		})
	}

	resolved, err := ac.issues.List(ctx, store.Filter{Status: string(models.Resolved)})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build analytics"})
		return
	}

	byCategory := lo.GroupBy(resolved, func(issue *models.Issue) models.IssueCategory {
		return issue.Category
	})

	resolutionTimes := make([]gin.H, 0, len(byCategory))
	for category, members := range byCategory {
		var total time.Duration
		var counted int
		for _, issue := range members {
			if issue.ResolvedAt == nil {
				continue
			}
			total += issue.ResolvedAt.Sub(issue.SubmittedAt)
			counted++
		}
		if counted == 0 {
			continue
		}
		resolutionTimes = append(resolutionTimes, gin.H{
			"category": category,
			"avgHours": (total / time.Duration(counted)).Hours(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"issuesPerDay":    issuesPerDay,
		"resolutionTimes": resolutionTimes,
	})
}
