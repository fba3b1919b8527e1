package payments

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryStore struct {
	mu    sync.RWMutex
	items []Payment
}

// NewMemoryStore creates a concurrency-safe in-memory payment store used in
// development mode and unit tests.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (s *memoryStore) Insert(_ context.Context, p Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, p)
	return nil
}

func (s *memoryStore) InsertMany(_ context.Context, ps []Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, ps...)
	return nil
}

func (s *memoryStore) FindByID(_ context.Context, id string) (Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.items {
		if p.ID == id {
			return p, nil
		}
	}
	return Payment{}, ErrNotFound
}

func (s *memoryStore) FindPage(_ context.Context, f Filter, skip, limit int) ([]Payment, error) {
	s.mu.RLock()
	matched := s.match(f)
	s.mu.RUnlock()

	// Newest first; insertion order breaks timestamp ties so repeated reads
	// stay stable within one store lifetime.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if skip >= len(matched) {
		return []Payment{}, nil
	}
	matched = matched[skip:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *memoryStore) Count(_ context.Context, f Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.match(f))), nil
}

func (s *memoryStore) SumAmount(_ context.Context, f Filter) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, p := range s.match(f) {
		total += p.Amount
	}
	return total, nil
}

func (s *memoryStore) RevenueByDay(_ context.Context, since time.Time) ([]TrendPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byDay := make(map[string]*TrendPoint)
	for _, p := range s.items {
		if p.Status != StatusSuccess || p.CreatedAt.Before(since) {
			continue
		}
		day := p.CreatedAt.Format("2006-01-02")
		point, ok := byDay[day]
		if !ok {
			point = &TrendPoint{Date: day}
			byDay[day] = point
		}
		point.Revenue += p.Amount
		point.Count++
	}

	trend := make([]TrendPoint, 0, len(byDay))
	for _, point := range byDay {
		trend = append(trend, *point)
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Date < trend[j].Date })
	return trend, nil
}

// match returns a copy of the records satisfying the filter. Callers must
// hold at least a read lock.
func (s *memoryStore) match(f Filter) []Payment {
	matched := make([]Payment, 0, len(s.items))
	for _, p := range s.items {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Method != "" && p.Method != f.Method {
			continue
		}
		if f.Start != nil && p.CreatedAt.Before(*f.Start) {
			continue
		}
		if f.End != nil && p.CreatedAt.After(*f.End) {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}
