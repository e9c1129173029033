package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/dora-register/pkg/httpapi"
	"github.com/iota-uz/dora-register/pkg/outbox"
)

type healthStatus string

const (
	healthStatusHealthy  healthStatus = "healthy"
	healthStatusDegraded healthStatus = "degraded"
	healthStatusDown     healthStatus = "down"
)

const (
	dbDegradedLatency            = 100 * time.Millisecond
	outboxOldestPendingDegraded  = 5 * time.Minute
	outboxPendingDegradedBacklog = int64(1000)
)

type healthResponse struct {
	Status    healthStatus               `json:"status"`
	Timestamp string                     `json:"timestamp"`
	Checks    map[string]componentHealth `json:"checks"`
}

type componentHealth struct {
	Status       healthStatus   `json:"status"`
	ResponseTime string         `json:"responseTime,omitempty"`
	Error        string         `json:"error,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
}

// RowQuerier is the part of *pgxpool.Pool the checks use.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type HealthController struct {
	db RowQuerier
}

func NewHealthController(db RowQuerier) *HealthController {
	return &HealthController{db: db}
}

func (c *HealthController) Key() string {
	return "/health"
}

func (c *HealthController) Register(r *mux.Router) {
	r.HandleFunc("/health", c.Get).Methods(http.MethodGet)
}

func (c *HealthController) Get(w http.ResponseWriter, r *http.Request) {
	checks := map[string]componentHealth{
		"database": c.checkDatabase(r.Context()),
		"outbox":   c.checkOutbox(r.Context()),
	}
	overall := healthStatusHealthy
	for _, check := range checks {
		overall = mergeHealthStatus(overall, check.Status)
	}
	status := http.StatusOK
	if overall == healthStatusDown {
		status = http.StatusServiceUnavailable
	}
	_ = httpapi.WriteJSON(w, status, healthResponse{
		Status:    overall,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

func mergeHealthStatus(current, next healthStatus) healthStatus {
	if next == healthStatusDown {
		return healthStatusDown
	}
	if next == healthStatusDegraded && current == healthStatusHealthy {
		return healthStatusDegraded
	}
	return current
}

func (c *HealthController) checkDatabase(ctx context.Context) componentHealth {
	start := time.Now()
	timeoutCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result int
	err := c.db.QueryRow(timeoutCtx, "SELECT 1").Scan(&result)
	responseTime := time.Since(start)
	if err != nil {
		return componentHealth{
			Status:       healthStatusDown,
			ResponseTime: responseTime.String(),
			Error:        fmt.Sprintf("database query failed: %v", err),
		}
	}
	status := healthStatusHealthy
	if responseTime > dbDegradedLatency {
		status = healthStatusDegraded
	}
	return componentHealth{Status: status, ResponseTime: responseTime.String()}
}

func (c *HealthController) checkOutbox(ctx context.Context) componentHealth {
	start := time.Now()
	timeoutCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var pending, dead int64
	var oldest *time.Time
	err := c.db.QueryRow(timeoutCtx, fmt.Sprintf(`
		SELECT
			count(*) FILTER (WHERE published_at IS NULL AND dead_at IS NULL),
			count(*) FILTER (WHERE dead_at IS NOT NULL),
			min(available_at) FILTER (WHERE published_at IS NULL AND dead_at IS NULL)
		FROM %s`, outbox.DefaultTable.Sanitize()),
	).Scan(&pending, &dead, &oldest)
	if err != nil {
		return componentHealth{
			Status:       healthStatusDown,
			ResponseTime: time.Since(start).String(),
			Error:        fmt.Sprintf("outbox query failed: %v", err),
		}
	}

	status := healthStatusHealthy
	details := map[string]any{"pending": pending, "dead": dead}
	if oldest != nil {
		age := time.Since(*oldest)
		details["oldestPendingAge"] = age.Truncate(time.Second).String()
		if age > outboxOldestPendingDegraded {
			status = healthStatusDegraded
		}
	}
	if pending > outboxPendingDegradedBacklog {
		status = healthStatusDegraded
	}
	return componentHealth{
		Status:       status,
		ResponseTime: time.Since(start).String(),
		Details:      details,
	}
}
