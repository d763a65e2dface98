package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/BearBump/ShipTrack/internal/broker/kafka"
	"github.com/BearBump/ShipTrack/internal/broker/messages"
	"github.com/BearBump/ShipTrack/internal/models"
	"github.com/pkg/errors"
)

type Repository interface {
	InsertSessionEvent(ctx context.Context, e *models.SessionEvent) error
	ListSessionEvents(ctx context.Context, username string, limit, offset int) ([]*models.SessionEvent, error)
}

// Recorder persists session events consumed from Kafka.
type Recorder struct {
	repo Repository

	mu     sync.Mutex
	counts map[string]int
	last   time.Time
}

func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo, counts: map[string]int{}}
}

var knownTypes = map[string]bool{
	models.SessionEventRegistered: true,
	models.SessionEventLoggedIn:   true,
	models.SessionEventLoggedOut:  true,
}

// Handle is a kafka.Consumer handler. Undecodable or incomplete events wrap kafka.ErrSkip.
func (r *Recorder) Handle(ctx context.Context, _ []byte, value []byte) error {
	var msg messages.SessionEvent
	if err := json.Unmarshal(value, &msg); err != nil {
		return errors.Wrapf(kafka.ErrSkip, "decode session event: %v", err)
	}
	if strings.TrimSpace(msg.EventID) == "" || strings.TrimSpace(msg.Username) == "" {
		return errors.Wrap(kafka.ErrSkip, "event_id and username are required")
	}
	if !knownTypes[msg.Type] {
		return errors.Wrapf(kafka.ErrSkip, "unknown event type %q", msg.Type)
	}

	e := &models.SessionEvent{
		EventID:    msg.EventID,
		Type:       msg.Type,
		Username:   msg.Username,
		SessionID:  msg.SessionID,
		OccurredAt: msg.OccurredAt,
	}
	if err := r.repo.InsertSessionEvent(ctx, e); err != nil {
		return err
	}

	r.mu.Lock()
	r.counts[msg.Type]++
	r.last = time.Now().UTC()
	r.mu.Unlock()

	slog.Info("session event recorded", "type", msg.Type, "username", msg.Username)
	return nil
}

// History lists stored events of a user, newest first.
func (r *Recorder) History(ctx context.Context, username string, limit, offset int) ([]*models.SessionEvent, error) {
	if strings.TrimSpace(username) == "" {
		return nil, errors.New("username is required")
	}
	return r.repo.ListSessionEvents(ctx, username, limit, offset)
}

type Stats struct {
	Counts       map[string]int `json:"counts"`
	Total        int            `json:"total"`
	LastRecorded *time.Time     `json:"last_recorded,omitempty"`
}

// Stats reports what this process has recorded since start.
func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := Stats{Counts: make(map[string]int, len(r.counts))}
	for k, v := range r.counts {
		st.Counts[k] = v
		st.Total += v
	}
	if !r.last.IsZero() {
		t := r.last
		st.LastRecorded = &t
	}
	return st
}
