package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"civicapp-be/models"
	"civicapp-be/services"
	"civicapp-be/store"
)

// Pin colors on the public map, keyed by status.
var statusColors = map[models.IssueStatus]string{
	models.Submitted:      "#ef4444",
	models.AIProcessing:   "#a855f7",
	models.WorkerAssigned: "#eab308",
	models.Resolved:       "#22c55e",
}

const mapPinLimit = 19

// IssueController serves the citizen-facing report, tracking and map
// endpoints. Everything reads and writes through the shared issue store.
type IssueController struct {
	issues store.IssueStore
	submit *services.SubmitService
}

func NewIssueController(issues store.IssueStore, submit *services.SubmitService) *IssueController {
	return &IssueController{issues: issues, submit: submit}
}

// CreateIssue handles a citizen report submission
func (ic *IssueController) CreateIssue(c *gin.Context) {
	var input struct {
		Photo          string  `json:"photo"`
		PhoneNumber    string  `json:"phoneNumber"`
		Description    string  `json:"description" binding:"max=1000"`
		ManualLocation string  `json:"manualLocation"`
		Location       *struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Accuracy  float64 `json:"accuracy"`
		} `json:"location"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var coords *models.Coordinates
	if input.Location != nil {
		coords = &models.Coordinates{
			Lat:      input.Location.Latitude,
			Lng:      input.Location.Longitude,
			Accuracy: input.Location.Accuracy,
		}
	}

	issue, err := ic.submit.Submit(c.Request.Context(), services.SubmitInput{
		Photo:         input.Photo,
		Description:   input.Description,
		Phone:         input.PhoneNumber,
		ManualAddress: input.ManualLocation,
		Coordinates:   coords,
	})

	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message})
	case errors.Is(err, services.ErrSubmitFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to submit report after 3 attempts. Please try again later."})
	case err != nil:
		log.WithError(err).Error("report submission failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit report"})
	default:
		c.JSON(http.StatusCreated, issue)
	}
}

// GetIssue retrieves one issue for the tracking view. The response carries
// the timeline in stored order plus a completed flag per entry, computed
// from the entry's position in the fixed status ordering.
func (ic *IssueController) GetIssue(c *gin.Context) {
	issue, err := ic.issues.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	statusIndex := models.StatusIndex(issue.Status)

	type timelineEvent struct {
		models.TimelineEntry
		Completed bool `json:"completed"`
	}
	timeline := lo.Map(issue.Timeline, func(entry models.TimelineEntry, _ int) timelineEvent {
		return timelineEvent{
			TimelineEntry: entry,
			Completed:     models.StatusIndex(entry.Status) <= statusIndex,
		}
	})

	c.JSON(http.StatusOK, gin.H{
		"issue":       issue,
		"statusIndex": statusIndex,
		"timeline":    timeline,
	})
}

// GetAllIssues lists issues for the tracking list with optional status
// filtering and pagination
func (ic *IssueController) GetAllIssues(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != "all" && !models.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	issues, err := ic.issues.List(c.Request.Context(), store.Filter{Status: status})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}

	total := len(issues)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, gin.H{
		"issues":      issues[start:end],
		"totalIssues": total,
		"totalPages":  (total + limit - 1) / limit,
		"currentPage": page,
	})
}

// DeleteIssue removes one issue by id. Deleting a nonexistent id is a
// no-op.
func (ic *IssueController) DeleteIssue(c *gin.Context) {
	if err := ic.issues.Remove(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete issue"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Issue deleted successfully"})
}

// MapIssues returns the most recent issues that have coordinates, grouped
// by status for pin color selection. Read-only.
func (ic *IssueController) MapIssues(c *gin.Context) {
	issues, err := ic.issues.List(c.Request.Context(), store.Filter{
		HasCoordinates: true,
		Limit:          mapPinLimit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve map issues"})
		return
	}

	type pin struct {
		ID       string               `json:"id"`
		Title    string               `json:"title"`
		Status   models.IssueStatus   `json:"status"`
		Priority models.IssuePriority `json:"priority"`
		Address  string               `json:"address"`
		Lat      float64              `json:"lat"`
		Lng      float64              `json:"lng"`
	}

	grouped := lo.GroupBy(issues, func(issue *models.Issue) models.IssueStatus {
		return issue.Status
	})

	groups := make([]gin.H, 0, len(grouped))
	for _, status := range models.StatusOrder {
		members, ok := grouped[status]
		if !ok {
			continue
		}
		pins := lo.Map(members, func(issue *models.Issue, _ int) pin {
			return pin{
				ID:       issue.ID,
				Title:    issue.Title,
				Status:   issue.Status,
				Priority: issue.Priority,
				Address:  issue.Location.Address,
				Lat:      issue.Location.Coordinates.Lat,
				Lng:      issue.Location.Coordinates.Lng,
			}
		})
		groups = append(groups, gin.H{
			"status": status,
			"color":  statusColors[status],
			"pins":   pins,
		})
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}
