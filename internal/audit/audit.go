// Package audit records admin mutations for later review. Recording is
// best-effort: handlers ignore the returned error so a missing audit row
// never fails the request that caused it.
package audit

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Recorder struct {
	DB *pgxpool.Pool
}

type Entry struct {
	Actor      string
	Action     string
	EntityType string
	EntityID   string
	IP         string
	UserAgent  string
	Metadata   []byte
}

// Record writes an audit entry; failures are returned so callers can ignore if needed.
func (r *Recorder) Record(ctx context.Context, e Entry) error {
	if r == nil || r.DB == nil {
		return nil
	}

	var metadata interface{}
	if len(e.Metadata) > 0 {
		raw := json.RawMessage(e.Metadata)
		metadata = raw
	}

	_, err := r.DB.Exec(ctx, `
INSERT INTO audit_logs (actor, action, entity_type, entity_id, ip, user_agent, metadata)
VALUES (NULLIF($1, ''), $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7)
`, e.Actor, e.Action, e.EntityType, e.EntityID, e.IP, e.UserAgent, metadata)

	return err
}
