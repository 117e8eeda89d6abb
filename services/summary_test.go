package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicapp-be/models"
	"civicapp-be/store"
)

func TestBuildSummary(t *testing.T) {
	ctx := context.Background()
	issues := store.NewMemoryIssueStore(0)

	now := time.Now()
	add := func(id string, status models.IssueStatus, priority models.IssuePriority) {
		issue := models.NewIssue("desc", "photo.jpg", "", "addr", nil, now)
		issue.ID = id
		issue.Status = status
		issue.Priority = priority
		require.NoError(t, issues.Append(ctx, issue))
	}

	add("a", models.Submitted, models.Medium)
	add("b", models.AIProcessing, models.High)
	add("c", models.WorkerAssigned, models.High)
	add("d", models.Resolved, models.Low)
	add("e", models.Resolved, models.Medium)

	summary, err := BuildSummary(ctx, issues, now)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 3, summary.Pending)
	assert.Equal(t, 2, summary.Resolved)
	assert.Equal(t, 2, summary.HighPriority)
	assert.Equal(t, 2, summary.MediumPriority)
	assert.Equal(t, 1, summary.LowPriority)
	assert.Equal(t, now, summary.LastUpdated)
}

func TestBuildSummaryEmptyStore(t *testing.T) {
	ctx := context.Background()
	issues := store.NewMemoryIssueStore(0)

	summary, err := BuildSummary(ctx, issues, time.Now())
	require.NoError(t, err)
	assert.Zero(t, summary.Total)
	assert.Zero(t, summary.Pending)
	assert.Zero(t, summary.Resolved)
}

func TestSummaryFallsBackWithoutRedis(t *testing.T) {
	ctx := context.Background()
	issues := store.NewMemoryIssueStore(0)
	require.NoError(t, issues.Append(ctx, models.NewIssue("desc", "photo.jpg", "", "addr", nil, time.Now())))

	r := NewSummaryRefresher(issues, nil, time.Second)
	summary, err := r.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
}

func TestRunReturnsWithoutRedis(t *testing.T) {
	r := NewSummaryRefresher(store.NewMemoryIssueStore(0), nil, time.Second)

	done := make(chan struct{})
	go func() {
		r.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run with no Redis client should return immediately")
	}
}
