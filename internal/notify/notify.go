// Package notify publishes build lifecycle events to NATS so deploy hooks
// and dashboards can react to documentation rebuilds without polling the
// output directory. Publishing is optional and fire-and-forget.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Event is one build lifecycle notification.
type Event struct {
	Site      string    `json:"site"`
	BuildID   string    `json:"build_id,omitempty"`
	Status    string    `json:"status"` // started|success|failure
	Pages     int       `json:"pages,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher publishes Events on <prefix>.<status> subjects.
type Publisher struct {
	conn   *nats.Conn
	prefix string
}

// DefaultSubjectPrefix is used when no prefix is configured.
const DefaultSubjectPrefix = "mdsite.builds"

// Connect dials NATS at url. An empty prefix falls back to
// DefaultSubjectPrefix.
func Connect(url, prefix string) (*Publisher, error) {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	conn, err := nats.Connect(url,
		nats.Name("mdsite"),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	slog.Info("Build notifications enabled", "url", url, "subject_prefix", prefix)
	return &Publisher{conn: conn, prefix: prefix}, nil
}

// Publish emits ev. A nil Publisher is valid and does nothing, so callers
// need no guards when notifications are not configured.
func (p *Publisher) Publish(ev Event) {
	if p == nil {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Warn("Failed to encode build event", "error", err)
		return
	}
	subject := p.prefix + "." + ev.Status
	if err := p.conn.Publish(subject, data); err != nil {
		slog.Warn("Failed to publish build event", "subject", subject, "error", err)
	}
}

// Close drains and closes the connection. Nil-safe.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}
