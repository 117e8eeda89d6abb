package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IssueCategory enum
type IssueCategory string

const (
	Infrastructure  IssueCategory = "Infrastructure"
	RoadMaintenance IssueCategory = "Road Maintenance"
	Sanitation      IssueCategory = "Sanitation"
	Traffic         IssueCategory = "Traffic"
	Other           IssueCategory = "Other"
)

// IssueStatus enum. Order matters: an issue only ever moves forward
// through Submitted -> AIProcessing -> WorkerAssigned -> Resolved.
type IssueStatus string

const (
	Submitted      IssueStatus = "submitted"
	AIProcessing   IssueStatus = "ai_processing"
	WorkerAssigned IssueStatus = "worker_assigned"
	Resolved       IssueStatus = "resolved"
)

// StatusOrder is the fixed lifecycle ordering used both for transition
// checks and for rendering timeline progress on the tracking view.
var StatusOrder = []IssueStatus{Submitted, AIProcessing, WorkerAssigned, Resolved}

// StatusIndex returns the position of a status in the lifecycle order,
// or -1 for an unknown status.
func StatusIndex(s IssueStatus) int {
	for i, st := range StatusOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// IssuePriority enum
type IssuePriority string

const (
	Low    IssuePriority = "low"
	Medium IssuePriority = "medium"
	High   IssuePriority = "high"
)

// Coordinates is an optional GPS fix attached to a location.
type Coordinates struct {
	Lat      float64 `bson:"lat" json:"lat"`
	Lng      float64 `bson:"lng" json:"lng"`
	Accuracy float64 `bson:"accuracy,omitempty" json:"accuracy,omitempty"`
}

// Location always carries an address; coordinates are present only when
// a GPS fix was captured or the address could be geocoded.
type Location struct {
	Address     string       `bson:"address" json:"address"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

// Reporter identifies the citizen who filed the report.
type Reporter struct {
	Phone string `bson:"phone" json:"phone"`
	Name  string `bson:"name" json:"name"`
}

// AssignedWorker is the worker an admin assigned to an issue.
type AssignedWorker struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// TimelineEntry is one immutable record of a status change.
type TimelineEntry struct {
	Status    IssueStatus `bson:"status" json:"status"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
	Message   string      `bson:"message" json:"message"`
	User      string      `bson:"user" json:"user"`
}

// Issue represents a civic issue reported by a citizen
type Issue struct {
	ID             string          `bson:"_id" json:"id"`
	Title          string          `bson:"title" json:"title"`
	Description    string          `bson:"description" json:"description"`
	Category       IssueCategory   `bson:"category,omitempty" json:"category,omitempty"`
	Status         IssueStatus     `bson:"status" json:"status"`
	Priority       IssuePriority   `bson:"priority" json:"priority"`
	Photo          string          `bson:"photo" json:"photo"`
	Location       Location        `bson:"location" json:"location"`
	Reporter       Reporter        `bson:"reporter" json:"reporter"`
	AssignedWorker *AssignedWorker `bson:"assignedWorker,omitempty" json:"assignedWorker"`
	SubmittedAt    time.Time       `bson:"submittedAt" json:"submittedAt"`
	ResolvedAt     *time.Time      `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	Timeline       []TimelineEntry `bson:"timeline" json:"timeline"`
	// Version is the optimistic concurrency token: every successful store
	// update increments it, and a write carrying a stale version is rejected.
	Version int64 `bson:"version" json:"version"`
}

const (
	titleMaxLen      = 50
	fallbackTitle    = "Civic Issue Report"
	fallbackDesc     = "No description provided"
	anonymousPhone   = "Anonymous"
	defaultReporter  = "Reporter"
	submittedMessage = "Issue submitted by citizen"
	systemUser       = "System"
)

// NewIssueID returns a timestamp-derived id. The random suffix keeps ids
// unique when two reports land in the same millisecond.
func NewIssueID(now time.Time) string {
	return fmt.Sprintf("issue_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}

// TitleFromDescription derives an issue title from the first 50 characters
// of the description, falling back to a fixed title when it is empty.
// Truncation counts runes, not bytes, so a multibyte description is never
// cut mid-character.
func TitleFromDescription(description string) string {
	desc := strings.TrimSpace(description)
	if desc == "" {
		return fallbackTitle
	}
	if runes := []rune(desc); len(runes) > titleMaxLen {
		return string(runes[:titleMaxLen]) + "..."
	}
	return desc
}

// NewIssue builds a freshly submitted issue with the single "submitted"
// timeline entry. Status and priority are fixed at creation; later stages
// go through Advance.
func NewIssue(description, photo, phone, address string, coords *Coordinates, now time.Time) *Issue {
	desc := strings.TrimSpace(description)
	if desc == "" {
		desc = fallbackDesc
	}
	if phone == "" {
		phone = anonymousPhone
	}
	if address == "" {
		address = "Location captured"
	}

	return &Issue{
		ID:          NewIssueID(now),
		Title:       TitleFromDescription(description),
		Description: desc,
		Status:      Submitted,
		Priority:    Medium,
		Photo:       photo,
		Location: Location{
			Address:     address,
			Coordinates: coords,
		},
		Reporter: Reporter{
			Phone: phone,
			Name:  defaultReporter,
		},
		SubmittedAt: now,
		Timeline: []TimelineEntry{
			{
				Status:    Submitted,
				Timestamp: now,
				Message:   submittedMessage,
				User:      systemUser,
			},
		},
		Version: 1,
	}
}

// TransitionError reports a rejected status change.
type TransitionError struct {
	From IssueStatus
	To   IssueStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

// Advance moves the issue to the next lifecycle status, appending exactly
// one timeline entry atomically with the change. Backward and skipped
// transitions are rejected, so resolving an already resolved issue fails
// instead of re-stamping it.
func (i *Issue) Advance(next IssueStatus, actor, message string, now time.Time) error {
	from := StatusIndex(i.Status)
	to := StatusIndex(next)
	if to == -1 {
		return fmt.Errorf("unknown status %q", next)
	}
	if to != from+1 {
		return &TransitionError{From: i.Status, To: next}
	}

	i.Status = next
	if next == Resolved {
		t := now
		i.ResolvedAt = &t
	}
	i.Timeline = append(i.Timeline, TimelineEntry{
		Status:    next,
		Timestamp: now,
		Message:   message,
		User:      actor,
	})
	return nil
}

// Clone returns a deep copy so callers never alias store-owned state.
func (i *Issue) Clone() *Issue {
	cp := *i
	if i.Location.Coordinates != nil {
		c := *i.Location.Coordinates
		cp.Location.Coordinates = &c
	}
	if i.AssignedWorker != nil {
		w := *i.AssignedWorker
		cp.AssignedWorker = &w
	}
	if i.ResolvedAt != nil {
		t := *i.ResolvedAt
		cp.ResolvedAt = &t
	}
	cp.Timeline = make([]TimelineEntry, len(i.Timeline))
	copy(cp.Timeline, i.Timeline)
	return &cp
}

// ValidStatus reports whether s is one of the lifecycle statuses.
func ValidStatus(s string) bool {
	return StatusIndex(IssueStatus(s)) != -1
}

// ValidCategory reports whether c is a known issue category.
func ValidCategory(c string) bool {
	switch IssueCategory(c) {
	case Infrastructure, RoadMaintenance, Sanitation, Traffic, Other:
		return true
	}
	return false
}
