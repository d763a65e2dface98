package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/BearBump/ShipTrack/internal/cache"
	"github.com/pkg/errors"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Toast is a one-shot message shown on the next rendered page.
type Toast struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

// Flash keeps pending toasts per browser session.
type Flash struct {
	kv  cache.Store
	ttl time.Duration
}

const defaultTTL = 5 * time.Minute

func NewFlash(kv cache.Store, ttl time.Duration) *Flash {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Flash{kv: kv, ttl: ttl}
}

func key(sid string) string { return "flash:" + sid }

// Push appends t to the pending toasts of sid.
func (f *Flash) Push(ctx context.Context, sid string, t Toast) error {
	pending, err := f.load(ctx, sid)
	if err != nil {
		return err
	}
	pending = append(pending, t)

	b, err := json.Marshal(pending)
	if err != nil {
		return errors.Wrap(err, "marshal toasts")
	}
	return f.kv.Set(ctx, key(sid), b, f.ttl)
}

// Pop returns and clears the pending toasts of sid.
func (f *Flash) Pop(ctx context.Context, sid string) ([]Toast, error) {
	pending, err := f.load(ctx, sid)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, nil
	}
	if err := f.kv.Delete(ctx, key(sid)); err != nil {
		return nil, err
	}
	return pending, nil
}

func (f *Flash) load(ctx context.Context, sid string) ([]Toast, error) {
	b, ok, err := f.kv.Get(ctx, key(sid))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var out []Toast
	if err := json.Unmarshal(b, &out); err != nil {
		slog.Warn("dropping malformed flash", "sid", sid)
		return nil, nil
	}
	return out, nil
}
