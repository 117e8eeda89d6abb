package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"civicapp-be/models"
	"civicapp-be/store"
)

// Classifier is the "AI processing" stage of the issue lifecycle. After a
// report lands it derives a category (and possibly a raised priority) from
// the description and advances the issue submitted -> ai_processing with a
// timeline entry. It runs asynchronously so the submission response still
// observes status "submitted" and priority "medium".
type Classifier struct {
	issues store.IssueStore
	// delay simulates the analysis time before the result is applied.
	delay time.Duration
	now   func() time.Time
}

func NewClassifier(issues store.IssueStore, delay time.Duration) *Classifier {
	return &Classifier{issues: issues, delay: delay, now: time.Now}
}

// categoryKeywords is checked in slice order so a description matching
// several categories always classifies the same way.
var categoryKeywords = []struct {
	category models.IssueCategory
	words    []string
}{
	{models.RoadMaintenance, []string{"pothole", "road", "asphalt", "pavement"}},
	{models.Infrastructure, []string{"streetlight", "street light", "sidewalk", "bridge", "lamp"}},
	{models.Sanitation, []string{"garbage", "trash", "waste", "sewage", "litter"}},
	{models.Traffic, []string{"traffic", "signal", "crosswalk", "intersection"}},
}

var urgentKeywords = []string{"danger", "accident", "urgent", "school", "hospital", "injur"}

// Classify derives a category and priority from the free-text description.
func Classify(description string) (models.IssueCategory, models.IssuePriority) {
	text := strings.ToLower(description)

	category := models.Other
	for _, entry := range categoryKeywords {
		for _, w := range entry.words {
			if strings.Contains(text, w) {
				category = entry.category
				break
			}
		}
		if category != models.Other {
			break
		}
	}

	priority := models.Medium
	for _, w := range urgentKeywords {
		if strings.Contains(text, w) {
			priority = models.High
			break
		}
	}
	return category, priority
}

// Process classifies one issue and advances it to ai_processing. A version
// conflict is retried once against the fresh record; any other failure is
// logged and dropped, classification is not critical to the report itself.
func (c *Classifier) Process(ctx context.Context, id string) {
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return
		}
	}

	for attempt := 0; attempt < 2; attempt++ {
		err := c.classify(ctx, id)
		if err == nil {
			return
		}
		if errors.Is(err, store.ErrVersionConflict) && attempt == 0 {
			continue
		}
		log.WithError(err).WithField("issue_id", id).Error("classification failed")
		return
	}
}

func (c *Classifier) classify(ctx context.Context, id string) error {
	issue, err := c.issues.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load issue: %w", err)
	}
	if issue.Status != models.Submitted {
		// Someone already moved it along.
		return nil
	}

	category, priority := Classify(issue.Description)
	issue.Category = category
	issue.Priority = priority

	message := fmt.Sprintf("AI analysis completed - classified as %s issue", category)
	if err := issue.Advance(models.AIProcessing, "System", message, c.now()); err != nil {
		return err
	}
	return c.issues.Update(ctx, issue)
}
