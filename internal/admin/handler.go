package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler serves the admin overview: record counts plus the most recent
// audit entries. Its routes sit behind the admin guard.
type Handler struct {
	Pool *pgxpool.Pool
}

func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{Pool: pool}
}

const queryTimeout = 5 * time.Second

type auditEntry struct {
	ID         int64  `json:"id"`
	Actor      string `json:"actor"`
	Action     string `json:"action"`
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
	CreatedAt  string `json:"createdAt"`
}

type OverviewResponse struct {
	CompaniesTotal    int64        `json:"companiesTotal"`
	JobsTotal         int64        `json:"jobsTotal"`
	UsersTotal        int64        `json:"usersTotal"`
	ApplicationsTotal int64        `json:"applicationsTotal"`
	RecentAudit       []auditEntry `json:"recentAudit"`
}

func (h *Handler) Overview(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), queryTimeout)
	defer cancel()

	var resp OverviewResponse

	counts := []struct {
		query string
		dst   *int64
	}{
		{`SELECT COUNT(*) FROM companies`, &resp.CompaniesTotal},
		{`SELECT COUNT(*) FROM jobs`, &resp.JobsTotal},
		{`SELECT COUNT(*) FROM users`, &resp.UsersTotal},
		{`SELECT COUNT(*) FROM applications`, &resp.ApplicationsTotal},
	}
	for _, ct := range counts {
		if err := h.Pool.QueryRow(ctx, ct.query).Scan(ct.dst); err != nil {
			return fmt.Errorf("admin overview counts: %w", err)
		}
	}

	rows, err := h.Pool.Query(ctx, `
		SELECT id, COALESCE(actor, ''), action, entity_type, COALESCE(entity_id, ''), created_at::text
		FROM audit_logs
		ORDER BY id DESC
		LIMIT 20`)
	if err != nil {
		return fmt.Errorf("admin overview audit: %w", err)
	}
	defer rows.Close()

	resp.RecentAudit = []auditEntry{}
	for rows.Next() {
		var e auditEntry
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.EntityType, &e.EntityID, &e.CreatedAt); err != nil {
			return fmt.Errorf("admin overview audit: %w", err)
		}
		resp.RecentAudit = append(resp.RecentAudit, e)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("admin overview audit: %w", err)
	}

	return c.JSON(resp)
}
