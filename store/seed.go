package store

import (
	"context"
	"time"

	"civicapp-be/models"
)

// SeedWorkers is the demo worker directory used in mock mode.
func SeedWorkers() []*models.Worker {
	return []*models.Worker{
		{ID: "worker-1", Name: "Alice Johnson", Phone: "1234567890", Department: "Infrastructure"},
		{ID: "worker-2", Name: "Bob Williams", Phone: "0987654321", Department: "Sanitation"},
		{ID: "worker-3", Name: "Charlie Brown", Phone: "5551234567", Department: "Road Maintenance"},
		{ID: "worker-4", Name: "Diana Smith", Phone: "5559876543", Department: "Traffic"},
	}
}

// SeedIssues populates the mock-mode store with a handful of demo issues
// in different lifecycle stages so every dashboard has something to show.
func SeedIssues(ctx context.Context, issues IssueStore, now time.Time) error {
	for _, issue := range demoIssues(now) {
		if err := issues.Append(ctx, issue); err != nil {
			return err
		}
	}
	return nil
}

func demoIssues(now time.Time) []*models.Issue {
	day := 24 * time.Hour

	streetlight := &models.Issue{
		ID:          "issue-demo-1",
		Title:       "Broken Streetlight on Main Street",
		Description: "Streetlight has been flickering and completely went out last night. Located near the intersection with Oak Avenue.",
		Category:    models.Infrastructure,
		Status:      models.WorkerAssigned,
		Priority:    models.High,
		Photo:       "streetlight.jpg",
		Location: models.Location{
			Address:     "123 Main Street, Downtown",
			Coordinates: &models.Coordinates{Lat: 40.7128, Lng: -74.0060},
		},
		Reporter:       models.Reporter{Phone: "+15559876543", Name: "Bob Smith"},
		AssignedWorker: &models.AssignedWorker{ID: "worker-1", Name: "Alice Johnson"},
		SubmittedAt:    now.Add(-2 * day),
		Timeline: []models.TimelineEntry{
			{Status: models.Submitted, Timestamp: now.Add(-2 * day), Message: "Issue submitted by citizen", User: "System"},
			{Status: models.AIProcessing, Timestamp: now.Add(-2*day + 2*time.Minute), Message: "AI analysis completed - classified as Infrastructure issue", User: "System"},
			{Status: models.WorkerAssigned, Timestamp: now.Add(-2*day + time.Hour), Message: "Worker assigned to address the issue", User: "admin"},
		},
		Version: 1,
	}

	pothole := &models.Issue{
		ID:          "issue-demo-2",
		Title:       "Pothole on Oak Avenue",
		Description: "Large pothole causing damage to vehicles. About 2 feet wide and 6 inches deep.",
		Category:    models.RoadMaintenance,
		Status:      models.WorkerAssigned,
		Priority:    models.Medium,
		Photo:       "pothole.jpg",
		Location: models.Location{
			Address:     "456 Oak Avenue, Midtown",
			Coordinates: &models.Coordinates{Lat: 40.7589, Lng: -73.9851},
		},
		Reporter:       models.Reporter{Phone: "+15551112233", Name: "Jane Smith"},
		AssignedWorker: &models.AssignedWorker{ID: "worker-1", Name: "Alice Johnson"},
		SubmittedAt:    now.Add(-3 * day),
		Timeline: []models.TimelineEntry{
			{Status: models.Submitted, Timestamp: now.Add(-3 * day), Message: "Issue submitted by citizen", User: "System"},
			{Status: models.AIProcessing, Timestamp: now.Add(-3*day + 2*time.Minute), Message: "AI analysis completed - classified as Road Maintenance issue", User: "System"},
			{Status: models.WorkerAssigned, Timestamp: now.Add(-3*day + 40*time.Minute), Message: "Worker assigned to address the issue", User: "admin"},
		},
		Version: 1,
	}

	resolvedAt := now.Add(-day)
	garbage := &models.Issue{
		ID:          "issue-demo-3",
		Title:       "Garbage Collection Issue",
		Description: "Garbage not collected for 3 days in residential area.",
		Category:    models.Sanitation,
		Status:      models.Resolved,
		Priority:    models.Low,
		Photo:       "garbage.jpg",
		Location: models.Location{
			Address:     "789 Residential St, Uptown",
			Coordinates: &models.Coordinates{Lat: 40.7050, Lng: -74.0000},
		},
		Reporter:       models.Reporter{Phone: "+15554445566", Name: "Diana Prince"},
		AssignedWorker: &models.AssignedWorker{ID: "worker-2", Name: "Bob Williams"},
		SubmittedAt:    now.Add(-4 * day),
		ResolvedAt:     &resolvedAt,
		Timeline: []models.TimelineEntry{
			{Status: models.Submitted, Timestamp: now.Add(-4 * day), Message: "Issue submitted by citizen", User: "System"},
			{Status: models.AIProcessing, Timestamp: now.Add(-4*day + 2*time.Minute), Message: "AI analysis completed - classified as Sanitation issue", User: "System"},
			{Status: models.WorkerAssigned, Timestamp: now.Add(-4*day + time.Hour), Message: "Worker assigned to address the issue", User: "admin"},
			{Status: models.Resolved, Timestamp: resolvedAt, Message: "Issue has been resolved and verified", User: "Bob Williams"},
		},
		Version: 1,
	}

	signal := &models.Issue{
		ID:          "issue-demo-4",
		Title:       "Broken Traffic Signal",
		Description: "Traffic light stuck on red at busy intersection causing traffic jams.",
		Category:    models.Traffic,
		Status:      models.AIProcessing,
		Priority:    models.High,
		Photo:       "signal.jpg",
		Location: models.Location{
			Address:     "321 Traffic Ave, Downtown",
			Coordinates: &models.Coordinates{Lat: 40.7140, Lng: -74.0040},
		},
		Reporter:    models.Reporter{Phone: "+15553334444", Name: "Eve Green"},
		SubmittedAt: now.Add(-6 * time.Hour),
		Timeline: []models.TimelineEntry{
			{Status: models.Submitted, Timestamp: now.Add(-6 * time.Hour), Message: "Issue submitted by citizen", User: "System"},
			{Status: models.AIProcessing, Timestamp: now.Add(-6*time.Hour + 2*time.Minute), Message: "AI analysis completed - classified as Traffic issue", User: "System"},
		},
		Version: 1,
	}

	return []*models.Issue{streetlight, pothole, garbage, signal}
}
