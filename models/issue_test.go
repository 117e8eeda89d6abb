package models

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitleFromDescription(t *testing.T) {
	assert.Equal(t, "Pothole near school", TitleFromDescription("Pothole near school"))
	assert.Equal(t, "Civic Issue Report", TitleFromDescription(""))
	assert.Equal(t, "Civic Issue Report", TitleFromDescription("   "))

	long := strings.Repeat("a", 80)
	title := TitleFromDescription(long)
	assert.Equal(t, strings.Repeat("a", 50)+"...", title)

	// Truncation counts characters, not bytes.
	multibyte := strings.Repeat("क", 80)
	title = TitleFromDescription(multibyte)
	assert.Equal(t, strings.Repeat("क", 50)+"...", title)
	assert.True(t, utf8.ValidString(title))

	// Over 50 bytes but under 50 characters stays intact.
	short := strings.Repeat("क", 20)
	assert.Equal(t, short, TitleFromDescription(short))
}

func TestNewIssueDefaults(t *testing.T) {
	now := time.Date(2024, 1, 20, 10, 30, 0, 0, time.UTC)
	issue := NewIssue("Pothole near school", "photo.jpg", "", "12 Elm St", nil, now)

	assert.Equal(t, "Pothole near school", issue.Title)
	assert.Equal(t, "12 Elm St", issue.Location.Address)
	assert.Nil(t, issue.Location.Coordinates)
	assert.Equal(t, Submitted, issue.Status)
	assert.Equal(t, Medium, issue.Priority)
	assert.Equal(t, "Anonymous", issue.Reporter.Phone)
	assert.Equal(t, "Reporter", issue.Reporter.Name)
	assert.Equal(t, now, issue.SubmittedAt)
	assert.Nil(t, issue.AssignedWorker)
	assert.Equal(t, int64(1), issue.Version)

	require.Len(t, issue.Timeline, 1)
	assert.Equal(t, Submitted, issue.Timeline[0].Status)
	assert.Equal(t, "Issue submitted by citizen", issue.Timeline[0].Message)
	assert.Equal(t, "System", issue.Timeline[0].User)
}

func TestNewIssueIDUnique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewIssueID(now)
		assert.True(t, strings.HasPrefix(id, "issue_"))
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestAdvanceForward(t *testing.T) {
	now := time.Now()
	issue := NewIssue("Garbage not collected", "photo.jpg", "", "789 Residential St", nil, now)

	require.NoError(t, issue.Advance(AIProcessing, "System", "classified", now.Add(time.Minute)))
	assert.Equal(t, AIProcessing, issue.Status)
	require.Len(t, issue.Timeline, 2)

	require.NoError(t, issue.Advance(WorkerAssigned, "admin", "assigned", now.Add(2*time.Minute)))
	require.NoError(t, issue.Advance(Resolved, "Bob Williams", "resolved", now.Add(time.Hour)))

	assert.Equal(t, Resolved, issue.Status)
	require.NotNil(t, issue.ResolvedAt)
	assert.False(t, issue.ResolvedAt.Before(issue.SubmittedAt))
	require.Len(t, issue.Timeline, 4)
	assert.Equal(t, Resolved, issue.Timeline[3].Status)
}

func TestAdvanceRejectsSkipped(t *testing.T) {
	now := time.Now()
	issue := NewIssue("desc", "photo.jpg", "", "addr", nil, now)

	err := issue.Advance(WorkerAssigned, "admin", "assigned", now)
	var transition *TransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, Submitted, transition.From)
	assert.Equal(t, WorkerAssigned, transition.To)

	// Nothing changed, nothing appended.
	assert.Equal(t, Submitted, issue.Status)
	assert.Len(t, issue.Timeline, 1)
}

func TestAdvanceRejectsBackward(t *testing.T) {
	now := time.Now()
	issue := NewIssue("desc", "photo.jpg", "", "addr", nil, now)
	require.NoError(t, issue.Advance(AIProcessing, "System", "classified", now))

	var transition *TransitionError
	require.ErrorAs(t, issue.Advance(Submitted, "System", "back", now), &transition)
}

func TestAdvanceRejectsResolvingResolved(t *testing.T) {
	now := time.Now()
	issue := NewIssue("desc", "photo.jpg", "", "addr", nil, now)
	require.NoError(t, issue.Advance(AIProcessing, "System", "classified", now))
	require.NoError(t, issue.Advance(WorkerAssigned, "admin", "assigned", now))
	require.NoError(t, issue.Advance(Resolved, "worker", "resolved", now))

	firstResolvedAt := *issue.ResolvedAt

	var transition *TransitionError
	require.ErrorAs(t, issue.Advance(Resolved, "worker", "again", now.Add(time.Hour)), &transition)
	assert.Equal(t, firstResolvedAt, *issue.ResolvedAt, "resolvedAt must not be re-stamped")
}

func TestAdvanceUnknownStatus(t *testing.T) {
	issue := NewIssue("desc", "photo.jpg", "", "addr", nil, time.Now())
	assert.Error(t, issue.Advance(IssueStatus("bogus"), "x", "y", time.Now()))
}

func TestStatusIndex(t *testing.T) {
	assert.Equal(t, 0, StatusIndex(Submitted))
	assert.Equal(t, 1, StatusIndex(AIProcessing))
	assert.Equal(t, 2, StatusIndex(WorkerAssigned))
	assert.Equal(t, 3, StatusIndex(Resolved))
	assert.Equal(t, -1, StatusIndex(IssueStatus("bogus")))
}

func TestCloneIsDeep(t *testing.T) {
	now := time.Now()
	issue := NewIssue("desc", "photo.jpg", "+15551234567", "addr",
		&Coordinates{Lat: 40.7, Lng: -74.0, Accuracy: 10}, now)
	issue.AssignedWorker = &AssignedWorker{ID: "worker-1", Name: "Alice Johnson"}

	clone := issue.Clone()
	require.Equal(t, issue, clone)

	clone.Location.Coordinates.Lat = 0
	clone.AssignedWorker.Name = "changed"
	clone.Timeline[0].Message = "changed"

	assert.Equal(t, 40.7, issue.Location.Coordinates.Lat)
	assert.Equal(t, "Alice Johnson", issue.AssignedWorker.Name)
	assert.Equal(t, "Issue submitted by citizen", issue.Timeline[0].Message)
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidStatus("submitted"))
	assert.True(t, ValidStatus("ai_processing"))
	assert.False(t, ValidStatus("pending"))

	assert.True(t, ValidCategory("Road Maintenance"))
	assert.True(t, ValidCategory("Other"))
	assert.False(t, ValidCategory("Plumbing"))
}
