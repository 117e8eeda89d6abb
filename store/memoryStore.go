package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"civicapp-be/models"
)

// MemoryIssueStore is the mock-mode store: a single in-memory collection
// with optional simulated latency. It is safe for concurrent use and
// enforces the same version checks as the Mongo store, so the optimistic
// concurrency paths behave identically in both modes.
type MemoryIssueStore struct {
	mu      sync.RWMutex
	issues  map[string]*models.Issue
	order   []string
	latency time.Duration

	// failNextAppends makes the next N Append calls fail with failErr.
	// Used to exercise the bounded retry path.
	failNextAppends int
	failErr         error
}

func NewMemoryIssueStore(latency time.Duration) *MemoryIssueStore {
	return &MemoryIssueStore{
		issues:  make(map[string]*models.Issue),
		latency: latency,
	}
}

// FailAppends arranges for the next n Append calls to fail with err.
func (s *MemoryIssueStore) FailAppends(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNextAppends = n
	s.failErr = err
}

func (s *MemoryIssueStore) sleep(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	select {
	case <-time.After(s.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *MemoryIssueStore) Append(ctx context.Context, issue *models.Issue) error {
	if err := s.sleep(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failNextAppends > 0 {
		s.failNextAppends--
		return s.failErr
	}
	if _, ok := s.issues[issue.ID]; ok {
		return ErrDuplicateID
	}
	s.issues[issue.ID] = issue.Clone()
	s.order = append(s.order, issue.ID)
	return nil
}

func (s *MemoryIssueStore) FindByID(ctx context.Context, id string) (*models.Issue, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	issue, ok := s.issues[id]
	if !ok {
		return nil, ErrNotFound
	}
	return issue.Clone(), nil
}

func (s *MemoryIssueStore) List(ctx context.Context, filter Filter) ([]*models.Issue, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	all := lo.Map(s.order, func(id string, _ int) *models.Issue {
		return s.issues[id]
	})
	matched := lo.Filter(all, func(issue *models.Issue, _ int) bool {
		return filter.Matches(issue)
	})

	// Newest first; insertion order breaks ties, matching Mongo's sort on
	// submittedAt.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].SubmittedAt.After(matched[j].SubmittedAt)
	})

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return lo.Map(matched, func(issue *models.Issue, _ int) *models.Issue {
		return issue.Clone()
	}), nil
}

func (s *MemoryIssueStore) Count(ctx context.Context, filter Filter) (int64, error) {
	if err := s.sleep(ctx); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, issue := range s.issues {
		if filter.Matches(issue) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryIssueStore) Update(ctx context.Context, issue *models.Issue) error {
	if err := s.sleep(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.issues[issue.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Version != issue.Version {
		return ErrVersionConflict
	}

	next := issue.Clone()
	next.Version = issue.Version + 1
	s.issues[issue.ID] = next
	issue.Version = next.Version
	return nil
}

func (s *MemoryIssueStore) Remove(ctx context.Context, id string) error {
	if err := s.sleep(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.issues[id]; !ok {
		return nil
	}
	delete(s.issues, id)
	s.order = lo.Without(s.order, id)
	return nil
}

// MemoryWorkerStore is the mock-mode worker directory.
type MemoryWorkerStore struct {
	mu      sync.RWMutex
	workers []*models.Worker
}

func NewMemoryWorkerStore(workers []*models.Worker) *MemoryWorkerStore {
	return &MemoryWorkerStore{workers: workers}
}

func (s *MemoryWorkerStore) List(ctx context.Context) ([]*models.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Worker, len(s.workers))
	for i, w := range s.workers {
		cp := *w
		out[i] = &cp
	}
	return out, nil
}

func (s *MemoryWorkerStore) FindByID(ctx context.Context, id string) (*models.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, w := range s.workers {
		if w.ID == id {
			cp := *w
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryWorkerStore) FindByPhone(ctx context.Context, phone string) (*models.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, w := range s.workers {
		if w.Phone == phone {
			cp := *w
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}
