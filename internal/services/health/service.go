package health

import (
	"context"
	"database/sql"
	"time"
)

// Service reports process liveness and, when a database is attached,
// storage reachability.
type Service struct {
	db *sql.DB
}

// NewService constructs a health service. db may be nil when the server
// runs on the in-memory store.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Status returns the health payload. The database check is bounded so a
// stalled connection pool cannot hang the endpoint.
func (s *Service) Status(ctx context.Context) map[string]any {
	payload := map[string]any{
		"ok":      true,
		"storage": "memory",
	}
	if s.db == nil {
		return payload
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.db.PingContext(pingCtx); err != nil {
		payload["ok"] = false
		payload["storage"] = "postgres:unreachable"
		return payload
	}
	payload["storage"] = "postgres"
	return payload
}
