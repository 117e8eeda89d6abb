package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"civicapp-be/models"
	"civicapp-be/store"
)

const summaryCacheKey = "civicapp:summary"

// Summary is the admin dashboard counter block.
type Summary struct {
	Total          int       `json:"total"`
	Pending        int       `json:"pending"`
	Resolved       int       `json:"resolved"`
	HighPriority   int       `json:"highPriority"`
	MediumPriority int       `json:"mediumPriority"`
	LowPriority    int       `json:"lowPriority"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// BuildSummary computes the dashboard counters from the issue collection.
func BuildSummary(ctx context.Context, issues store.IssueStore, now time.Time) (*Summary, error) {
	all, err := issues.List(ctx, store.Filter{})
	if err != nil {
		return nil, err
	}

	byStatus := lo.CountValuesBy(all, func(i *models.Issue) models.IssueStatus { return i.Status })
	byPriority := lo.CountValuesBy(all, func(i *models.Issue) models.IssuePriority { return i.Priority })

	resolved := byStatus[models.Resolved]
	return &Summary{
		Total:          len(all),
		Pending:        len(all) - resolved,
		Resolved:       resolved,
		HighPriority:   byPriority[models.High],
		MediumPriority: byPriority[models.Medium],
		LowPriority:    byPriority[models.Low],
		LastUpdated:    now,
	}, nil
}

// SummaryRefresher keeps a cached dashboard summary warm in Redis on a
// fixed interval. The loop stops when its context is canceled, so the
// refresh cannot outlive the server.
type SummaryRefresher struct {
	issues   store.IssueStore
	redis    *redis.Client
	interval time.Duration
	now      func() time.Time
}

func NewSummaryRefresher(issues store.IssueStore, rdb *redis.Client, interval time.Duration) *SummaryRefresher {
	return &SummaryRefresher{issues: issues, redis: rdb, interval: interval, now: time.Now}
}

// Run refreshes once immediately and then on every tick until ctx is
// canceled. With no Redis client there is nothing to keep warm.
func (r *SummaryRefresher) Run(ctx context.Context) {
	if r.redis == nil {
		return
	}

	if err := r.refresh(ctx); err != nil {
		log.WithError(err).Warn("initial summary refresh failed")
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.refresh(ctx); err != nil {
				log.WithError(err).Warn("summary refresh failed")
			}
		case <-ctx.Done():
			return
		}
	}
}

func (r *SummaryRefresher) refresh(ctx context.Context) error {
	summary, err := BuildSummary(ctx, r.issues, r.now())
	if err != nil {
		return err
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return r.redis.Set(ctx, summaryCacheKey, payload, 2*r.interval).Err()
}

// Summary returns the cached summary, falling back to a fresh computation
// when the cache is cold or Redis is not configured (mock mode).
func (r *SummaryRefresher) Summary(ctx context.Context) (*Summary, error) {
	if r.redis != nil {
		payload, err := r.redis.Get(ctx, summaryCacheKey).Bytes()
		if err == nil {
			var summary Summary
			if err := json.Unmarshal(payload, &summary); err == nil {
				return &summary, nil
			}
		} else if err != redis.Nil {
			log.WithError(err).Warn("summary cache read failed")
		}
	}
	return BuildSummary(ctx, r.issues, r.now())
}
