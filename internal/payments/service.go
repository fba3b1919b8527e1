package payments

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	seedRecordCount = 50
)

// Service owns payment creation, filtered queries, and dashboard statistics.
type Service struct {
	store Store
}

// NewService constructs a payment service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateInput captures already-deserialized data for a new payment. Business
// rules (positive amount, known enum values) are still enforced here even
// though the transport layer validates upstream.
type CreateInput struct {
	Amount        float64
	Method        string
	Status        string
	Receiver      string
	Sender        string
	Description   string
	FailureReason string
}

// Create validates the input, assigns a transaction identifier, and persists
// the record. The transaction identifier is generated exactly once and never
// recomputed.
func (s *Service) Create(ctx context.Context, input CreateInput) (Payment, error) {
	if input.Amount <= 0 {
		return Payment{}, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	method, err := ParseMethod(input.Method)
	if err != nil {
		return Payment{}, err
	}
	status, err := ParseStatus(input.Status)
	if err != nil {
		return Payment{}, err
	}
	if strings.TrimSpace(input.Receiver) == "" {
		return Payment{}, fmt.Errorf("%w: receiver is required", ErrInvalidInput)
	}

	now := time.Now()
	payment := Payment{
		ID:            uuid.New().String(),
		Amount:        input.Amount,
		Method:        method,
		Status:        status,
		Receiver:      input.Receiver,
		Sender:        input.Sender,
		Description:   input.Description,
		TransactionID: newTransactionID(),
		FailureReason: input.FailureReason,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.Insert(ctx, payment); err != nil {
		return Payment{}, err
	}
	return payment, nil
}

// ListQuery combines a filter with pagination parameters.
type ListQuery struct {
	Filter   Filter
	Page     int
	PageSize int
}

// Page is one page of filtered payments plus pagination totals.
type Page struct {
	Items      []Payment `json:"payments"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	TotalPages int64     `json:"total_pages"`
}

// List returns the requested page of payments ordered newest first, together
// with the total match count and the derived page count. A page beyond the
// last yields an empty item list with the totals still populated.
func (s *Service) List(ctx context.Context, q ListQuery) (Page, error) {
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}

	skip := (q.Page - 1) * q.PageSize
	items, err := s.store.FindPage(ctx, q.Filter, skip, q.PageSize)
	if err != nil {
		return Page{}, err
	}
	total, err := s.store.Count(ctx, q.Filter)
	if err != nil {
		return Page{}, err
	}

	totalPages := (total + int64(q.PageSize) - 1) / int64(q.PageSize)
	return Page{Items: items, Total: total, Page: q.Page, TotalPages: totalPages}, nil
}

// Get fetches a single payment by identifier.
func (s *Service) Get(ctx context.Context, id string) (Payment, error) {
	return s.store.FindByID(ctx, id)
}

// Stats aggregates dashboard figures over two time windows.
type Stats struct {
	TransactionsToday       int64        `json:"transactions_today"`
	TransactionsThisWeek    int64        `json:"transactions_this_week"`
	RevenueToday            float64      `json:"revenue_today"`
	RevenueThisWeek         float64      `json:"revenue_this_week"`
	FailedTransactionsToday int64        `json:"failed_transactions_today"`
	RevenueTrend            []TrendPoint `json:"revenue_trend"`
}

// Stats computes rolling-window counts, success-only revenue sums, and the
// daily revenue trend. "Today" starts at local midnight; the week window
// rolls back seven days from today's boundary rather than aligning to a
// calendar week. Revenue sums are zero, never absent, for empty windows.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	now := time.Now()
	today := startOfDay(now)
	weekStart := startOfDay(now.AddDate(0, 0, -7))

	var (
		stats Stats
		err   error
	)

	if stats.TransactionsToday, err = s.store.Count(ctx, Filter{Start: &today}); err != nil {
		return Stats{}, err
	}
	if stats.TransactionsThisWeek, err = s.store.Count(ctx, Filter{Start: &weekStart}); err != nil {
		return Stats{}, err
	}
	if stats.RevenueToday, err = s.store.SumAmount(ctx, Filter{Status: StatusSuccess, Start: &today}); err != nil {
		return Stats{}, err
	}
	if stats.RevenueThisWeek, err = s.store.SumAmount(ctx, Filter{Status: StatusSuccess, Start: &weekStart}); err != nil {
		return Stats{}, err
	}
	if stats.FailedTransactionsToday, err = s.store.Count(ctx, Filter{Status: StatusFailed, Start: &today}); err != nil {
		return Stats{}, err
	}
	if stats.RevenueTrend, err = s.store.RevenueByDay(ctx, weekStart); err != nil {
		return Stats{}, err
	}

	return stats, nil
}

// SeedSampleData inserts sample payments spread over the last thirty days.
// It is idempotent by cardinality: when any payment already exists the seed
// is skipped entirely.
func (s *Service) SeedSampleData(ctx context.Context) (bool, error) {
	existing, err := s.store.Count(ctx, Filter{})
	if err != nil {
		return false, err
	}
	if existing > 0 {
		return false, nil
	}

	methods := Methods()
	statuses := Statuses()
	now := time.Now()

	samples := make([]Payment, 0, seedRecordCount)
	for i := 0; i < seedRecordCount; i++ {
		createdAt := now.AddDate(0, 0, -rand.Intn(30))
		samples = append(samples, Payment{
			ID:            uuid.New().String(),
			Amount:        float64(rand.Intn(991) + 10),
			Method:        methods[rand.Intn(len(methods))],
			Status:        statuses[rand.Intn(len(statuses))],
			Receiver:      fmt.Sprintf("user_%d@example.com", rand.Intn(100)),
			Sender:        fmt.Sprintf("sender_%d@example.com", rand.Intn(100)),
			Description:   fmt.Sprintf("Sample payment %d", i+1),
			TransactionID: newTransactionID(),
			CreatedAt:     createdAt,
			UpdatedAt:     createdAt,
		})
	}

	if err := s.store.InsertMany(ctx, samples); err != nil {
		return false, err
	}
	return true, nil
}

// newTransactionID produces identifiers in the form TXN-<millis>-<suffix>.
func newTransactionID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("TXN-%d-%s", time.Now().UnixMilli(), suffix)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
