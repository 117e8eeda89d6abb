package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"civicapp-be/geocoder"
	"civicapp-be/models"
	"civicapp-be/store"
)

const (
	submitAttempts   = 3
	submitRetryDelay = 2 * time.Second
)

// ErrSubmitFailed is the terminal error after the bounded retry loop is
// exhausted.
var ErrSubmitFailed = errors.New("failed to submit report after 3 attempts")

// ValidationError reports a missing required field. It is never retried
// and never mutates the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SubmitInput is the payload of a citizen report.
type SubmitInput struct {
	Photo         string
	Description   string
	Phone         string
	ManualAddress string
	Coordinates   *models.Coordinates
}

// SubmitService turns a report into a stored issue: validation gate,
// best-effort geocoding, bounded-retry append, then asynchronous
// classification.
type SubmitService struct {
	issues     store.IssueStore
	geo        geocoder.Client
	classifier *Classifier

	// background is the server-lifetime context classification runs under,
	// so a finished request does not cancel it but shutdown does.
	background context.Context

	attempts   int
	retryDelay time.Duration
	now        func() time.Time
}

func NewSubmitService(background context.Context, issues store.IssueStore, geo geocoder.Client, classifier *Classifier) *SubmitService {
	return &SubmitService{
		issues:     issues,
		geo:        geo,
		classifier: classifier,
		background: background,
		attempts:   submitAttempts,
		retryDelay: submitRetryDelay,
		now:        time.Now,
	}
}

// Submit validates the report and appends a new issue to the store. A
// transient store failure is retried up to 3 times with a fixed 2 second
// delay; the caller's context cancels a pending retry (a new submission
// supersedes the old one). After the final failure the terminal
// ErrSubmitFailed is returned and the attempt counter starts fresh on the
// next call.
func (s *SubmitService) Submit(ctx context.Context, in SubmitInput) (*models.Issue, error) {
	if in.Photo == "" {
		return nil, &ValidationError{Field: "photo", Message: "Please select a photo."}
	}
	if in.Coordinates == nil && strings.TrimSpace(in.ManualAddress) == "" {
		return nil, &ValidationError{Field: "location", Message: "Please capture your location or enter it manually."}
	}

	coords := in.Coordinates
	if coords == nil && s.geo != nil {
		coords = s.locate(ctx, in.ManualAddress)
	}

	issue := models.NewIssue(in.Description, in.Photo, in.Phone, in.ManualAddress, coords, s.now())

	for attempt := 1; ; attempt++ {
		err := s.issues.Append(ctx, issue)
		if err == nil {
			break
		}
		if errors.Is(err, store.ErrDuplicateID) || ctx.Err() != nil {
			return nil, err
		}
		if attempt >= s.attempts {
			return nil, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
		}

		log.WithFields(log.Fields{"attempt": attempt, "max": s.attempts}).
			Warnf("Submission failed. Retrying... (%d/%d)", attempt+1, s.attempts)

		select {
		case <-time.After(s.retryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if s.classifier != nil {
		go s.classifier.Process(s.background, issue.ID)
	}
	return issue, nil
}

// locate resolves coordinates from the manual address. Failure is logged
// with a kind-specific message and the report proceeds without a fix.
func (s *SubmitService) locate(ctx context.Context, address string) *models.Coordinates {
	coords, err := s.geo.Locate(ctx, address)
	if err == nil {
		return coords
	}

	entry := log.WithField("address", address)
	switch {
	case errors.Is(err, geocoder.ErrPermissionDenied):
		entry.Warn("Location access denied. Please allow location access and try again.")
	case errors.Is(err, geocoder.ErrTimeout):
		entry.Warn("Location request timed out. Please try again.")
	default:
		entry.Warn("Location information is unavailable. Please check the address.")
	}
	return nil
}
