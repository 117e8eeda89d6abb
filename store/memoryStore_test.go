package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicapp-be/models"
)

func newTestIssue(id string, submittedAt time.Time) *models.Issue {
	issue := models.NewIssue("desc for "+id, "photo.jpg", "", "addr "+id, nil, submittedAt)
	issue.ID = id
	return issue
}

func TestMemoryStoreAppendAndFind(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryIssueStore(0)

	issue := newTestIssue("issue-1", time.Now())
	require.NoError(t, s.Append(ctx, issue))

	// Two lookups before any mutation return structurally identical records.
	first, err := s.FindByID(ctx, "issue-1")
	require.NoError(t, err)
	second, err := s.FindByID(ctx, "issue-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Mutating a returned record must not leak into the store.
	first.Title = "mutated"
	again, err := s.FindByID(ctx, "issue-1")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again.Title)

	_, err = s.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryIssueStore(0)

	require.NoError(t, s.Append(ctx, newTestIssue("issue-1", time.Now())))
	assert.ErrorIs(t, s.Append(ctx, newTestIssue("issue-1", time.Now())), ErrDuplicateID)
}

func TestMemoryStoreRemove(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryIssueStore(0)

	base := time.Now()
	for i, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, s.Append(ctx, newTestIssue(id, base.Add(time.Duration(i)*time.Hour))))
	}

	require.NoError(t, s.Remove(ctx, "b"))

	issues, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	ids := lo.Map(issues, func(i *models.Issue, _ int) string { return i.ID })
	// Newest first, with exactly "b" gone and the rest in order.
	assert.Equal(t, []string{"d", "c", "a"}, ids)

	// Removing a nonexistent id is a no-op.
	require.NoError(t, s.Remove(ctx, "nope"))
	count, err := s.Count(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestMemoryStoreUpdateVersionCheck(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryIssueStore(0)

	issue := newTestIssue("issue-1", time.Now())
	require.NoError(t, s.Append(ctx, issue))

	// Two readers load the same version.
	admin, err := s.FindByID(ctx, "issue-1")
	require.NoError(t, err)
	refresh, err := s.FindByID(ctx, "issue-1")
	require.NoError(t, err)

	admin.Title = "admin edit"
	require.NoError(t, s.Update(ctx, admin))
	assert.Equal(t, int64(2), admin.Version)

	// The second writer holds a stale version and must be rejected.
	refresh.Title = "refresh overwrite"
	assert.ErrorIs(t, s.Update(ctx, refresh), ErrVersionConflict)

	stored, err := s.FindByID(ctx, "issue-1")
	require.NoError(t, err)
	assert.Equal(t, "admin edit", stored.Title)

	missing := newTestIssue("gone", time.Now())
	assert.ErrorIs(t, s.Update(ctx, missing), ErrNotFound)
}

func TestMemoryStoreFailAppends(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryIssueStore(0)

	injected := errors.New("simulated network failure")
	s.FailAppends(2, injected)

	assert.ErrorIs(t, s.Append(ctx, newTestIssue("x", time.Now())), injected)
	assert.ErrorIs(t, s.Append(ctx, newTestIssue("x", time.Now())), injected)
	assert.NoError(t, s.Append(ctx, newTestIssue("x", time.Now())))
}

func TestFilterMatches(t *testing.T) {
	now := time.Now()
	issue := newTestIssue("issue-1", now)
	issue.Category = models.Sanitation
	issue.Status = models.WorkerAssigned
	issue.AssignedWorker = &models.AssignedWorker{ID: "worker-2", Name: "Bob Williams"}

	assert.True(t, Filter{}.Matches(issue))
	assert.True(t, Filter{Status: "all", Category: "all", Worker: "all"}.Matches(issue))
	assert.True(t, Filter{Status: "worker_assigned"}.Matches(issue))
	assert.False(t, Filter{Status: "resolved"}.Matches(issue))
	assert.True(t, Filter{Category: "Sanitation"}.Matches(issue))
	assert.False(t, Filter{Category: "Traffic"}.Matches(issue))
	assert.True(t, Filter{Worker: "worker-2"}.Matches(issue))
	assert.False(t, Filter{Worker: "worker-1"}.Matches(issue))
	assert.False(t, Filter{Worker: "unassigned"}.Matches(issue))
	assert.True(t, Filter{Since: now.Add(-time.Hour)}.Matches(issue))
	assert.False(t, Filter{Since: now.Add(time.Hour)}.Matches(issue))
	assert.False(t, Filter{Until: now.Add(-time.Hour)}.Matches(issue))
	assert.False(t, Filter{HasCoordinates: true}.Matches(issue))

	unassigned := newTestIssue("issue-2", now)
	assert.True(t, Filter{Worker: "unassigned"}.Matches(unassigned))

	located := newTestIssue("issue-3", now)
	located.Location.Coordinates = &models.Coordinates{Lat: 1, Lng: 2}
	assert.True(t, Filter{HasCoordinates: true}.Matches(located))

	// All predicates combine with AND.
	assert.True(t, Filter{
		Status:   "worker_assigned",
		Category: "Sanitation",
		Worker:   "worker-2",
		Since:    now.Add(-time.Hour),
	}.Matches(issue))
	assert.False(t, Filter{
		Status:   "worker_assigned",
		Category: "Traffic",
		Worker:   "worker-2",
	}.Matches(issue))
}

func TestMemoryStoreListFilterAndLimit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryIssueStore(0)

	base := time.Now()
	for i := 0; i < 5; i++ {
		issue := newTestIssue(string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute))
		if i%2 == 0 {
			issue.Status = models.Resolved
		}
		require.NoError(t, s.Append(ctx, issue))
	}

	resolved, err := s.List(ctx, Filter{Status: string(models.Resolved)})
	require.NoError(t, err)
	assert.Len(t, resolved, 3)

	limited, err := s.List(ctx, Filter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	// Newest first.
	assert.Equal(t, "e", limited[0].ID)
	assert.Equal(t, "d", limited[1].ID)
}

func TestMemoryWorkerStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryWorkerStore(SeedWorkers())

	workers, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, workers, 4)

	alice, err := s.FindByID(ctx, "worker-1")
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", alice.Name)

	byPhone, err := s.FindByPhone(ctx, "0987654321")
	require.NoError(t, err)
	assert.Equal(t, "worker-2", byPhone.ID)

	_, err = s.FindByPhone(ctx, "0000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeedIssues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryIssueStore(0)
	require.NoError(t, SeedIssues(ctx, s, time.Now()))

	count, err := s.Count(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	// Every seeded issue has a timeline consistent with its status.
	issues, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	for _, issue := range issues {
		require.NotEmpty(t, issue.Timeline)
		last := issue.Timeline[len(issue.Timeline)-1]
		assert.Equal(t, issue.Status, last.Status, "issue %s", issue.ID)
	}
}
