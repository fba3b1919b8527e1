package payments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes payment endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a payment HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	Status        string  `json:"status"`
	Receiver      string  `json:"receiver"`
	Sender        string  `json:"sender"`
	Description   string  `json:"description"`
	FailureReason string  `json:"failure_reason"`
}

// Create records a new payment.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	payment, err := h.service.Create(c.UserContext(), CreateInput{
		Amount:        req.Amount,
		Method:        req.Method,
		Status:        req.Status,
		Receiver:      req.Receiver,
		Sender:        req.Sender,
		Description:   req.Description,
		FailureReason: req.FailureReason,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return storeError(err)
	}

	return c.Status(http.StatusCreated).JSON(payment)
}

// List returns a filtered, paginated page of payments.
func (h *Handler) List(c *fiber.Ctx) error {
	query, err := parseListQuery(c)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	page, err := h.service.List(c.UserContext(), query)
	if err != nil {
		return storeError(err)
	}
	return c.Status(http.StatusOK).JSON(page)
}

// Stats returns dashboard aggregates.
func (h *Handler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return storeError(err)
	}
	return c.Status(http.StatusOK).JSON(stats)
}

// Get returns a single payment by id.
func (h *Handler) Get(c *fiber.Ctx) error {
	payment, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "payment not found")
		}
		return storeError(err)
	}
	return c.Status(http.StatusOK).JSON(payment)
}

// Seed loads sample data when the ledger is empty.
func (h *Handler) Seed(c *fiber.Ctx) error {
	seeded, err := h.service.SeedSampleData(c.UserContext())
	if err != nil {
		return storeError(err)
	}
	status := "skipped"
	if seeded {
		status = "seeded"
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": status})
}

func parseListQuery(c *fiber.Ctx) (ListQuery, error) {
	q := ListQuery{Page: defaultPage, PageSize: defaultPageSize}

	if raw := c.Query("status"); raw != "" {
		status, err := ParseStatus(raw)
		if err != nil {
			return ListQuery{}, err
		}
		q.Filter.Status = status
	}
	if raw := c.Query("method"); raw != "" {
		method, err := ParseMethod(raw)
		if err != nil {
			return ListQuery{}, err
		}
		q.Filter.Method = method
	}
	if raw := c.Query("start_date"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return ListQuery{}, err
		}
		q.Filter.Start = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return ListQuery{}, err
		}
		q.Filter.End = &t
	}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return ListQuery{}, errors.New("page must be a positive integer")
		}
		q.Page = page
	}
	if raw := c.Query("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return ListQuery{}, errors.New("page_size must be a positive integer")
		}
		q.PageSize = size
	}

	return q, nil
}

// parseDate accepts RFC 3339 timestamps or bare YYYY-MM-DD dates.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, errors.New("dates must be RFC 3339 or YYYY-MM-DD")
	}
	return t, nil
}

// storeError surfaces store failures without retrying; the payment store is
// the only fallible I/O behind these endpoints.
func storeError(err error) error {
	return fiber.NewError(http.StatusServiceUnavailable, "payment store unavailable: "+err.Error())
}
