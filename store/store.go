package store

import (
	"context"
	"errors"
	"time"

	"civicapp-be/models"
)

// Store errors. Handlers map these to distinct HTTP statuses: a missing
// issue is not a transient failure, and a stale write is not a success.
var (
	ErrNotFound        = errors.New("issue not found")
	ErrDuplicateID     = errors.New("issue id already exists")
	ErrVersionConflict = errors.New("issue was modified concurrently")
)

// Filter is the AND-combined predicate set of the admin triage view.
// Zero values (or "all") mean "any".
type Filter struct {
	Status   string
	Category string
	// Worker is a worker id, or the special value "unassigned".
	Worker string
	// Since/Until bound submittedAt. Zero time means unbounded.
	Since time.Time
	Until time.Time
	// HasCoordinates keeps only issues with a GPS fix (map view).
	HasCoordinates bool
	// Limit caps the result set; 0 means no cap. Results are newest first.
	Limit int
}

// Matches reports whether an issue passes every predicate of the filter.
func (f Filter) Matches(issue *models.Issue) bool {
	if f.Status != "" && f.Status != "all" && string(issue.Status) != f.Status {
		return false
	}
	if f.Category != "" && f.Category != "all" && string(issue.Category) != f.Category {
		return false
	}
	switch f.Worker {
	case "", "all":
	case "unassigned":
		if issue.AssignedWorker != nil {
			return false
		}
	default:
		if issue.AssignedWorker == nil || issue.AssignedWorker.ID != f.Worker {
			return false
		}
	}
	if !f.Since.IsZero() && issue.SubmittedAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && !issue.SubmittedAt.Before(f.Until) {
		return false
	}
	if f.HasCoordinates && issue.Location.Coordinates == nil {
		return false
	}
	return true
}

// IssueStore is the single authoritative contract every view goes through.
// There are no per-view datasets: the admin, worker, tracking and map
// handlers all read and write the same collection.
type IssueStore interface {
	// Append inserts a new issue. A duplicate id is rejected.
	Append(ctx context.Context, issue *models.Issue) error
	// FindByID returns the issue or ErrNotFound.
	FindByID(ctx context.Context, id string) (*models.Issue, error)
	// List returns issues matching the filter, newest first.
	List(ctx context.Context, filter Filter) ([]*models.Issue, error)
	// Count returns the number of issues matching the filter.
	Count(ctx context.Context, filter Filter) (int64, error)
	// Update writes the issue back if the caller holds the current version,
	// incrementing it. A stale version yields ErrVersionConflict.
	Update(ctx context.Context, issue *models.Issue) error
	// Remove deletes by id. Removing a nonexistent id is a no-op.
	Remove(ctx context.Context, id string) error
}

// WorkerStore is the worker directory.
type WorkerStore interface {
	List(ctx context.Context) ([]*models.Worker, error)
	FindByID(ctx context.Context, id string) (*models.Worker, error)
	FindByPhone(ctx context.Context, phone string) (*models.Worker, error)
}
