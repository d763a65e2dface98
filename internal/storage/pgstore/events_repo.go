package pgstore

import (
	"context"
	"time"

	"github.com/BearBump/ShipTrack/internal/models"
	"github.com/pkg/errors"
)

// InsertSessionEvent stores an event; a duplicate event_id is ignored.
func (s *Storage) InsertSessionEvent(ctx context.Context, e *models.SessionEvent) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	_, err := s.db.Exec(ctx, `
INSERT INTO session_events (event_id, type, username, session_id, occurred_at, created_at)
VALUES ($1,$2,$3,$4,$5, now())
ON CONFLICT (event_id) DO NOTHING
`, e.EventID, e.Type, e.Username, e.SessionID, e.OccurredAt.UTC())
	if err != nil {
		return errors.Wrap(err, "insert session event")
	}
	return nil
}

func (s *Storage) ListSessionEvents(ctx context.Context, username string, limit, offset int) ([]*models.SessionEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.Query(ctx, `
SELECT id, event_id, type, username, session_id, occurred_at, created_at
FROM session_events
WHERE username = $1
ORDER BY occurred_at DESC, id DESC
LIMIT $2 OFFSET $3
`, username, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "select session events")
	}
	defer rows.Close()

	var out []*models.SessionEvent
	for rows.Next() {
		var e models.SessionEvent
		if err := rows.Scan(&e.ID, &e.EventID, &e.Type, &e.Username, &e.SessionID, &e.OccurredAt, &e.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan session event")
		}
		out = append(out, &e)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}
