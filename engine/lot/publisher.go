package lot

import (
	"context"
	"log/slog"

	"github.com/WessleyAI/carlot/engine/car"
	"github.com/WessleyAI/carlot/pkg/natsutil"
)

// Publisher forwards car events to NATS on "<prefix>.<kind>".
type Publisher struct {
	conn   natsutil.MsgPublisher
	prefix string
	log    *slog.Logger
}

// NewPublisher creates a Publisher. conn is usually a *nats.Conn.
func NewPublisher(conn natsutil.MsgPublisher, prefix string, log *slog.Logger) *Publisher {
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{conn: conn, prefix: prefix, log: log}
}

// Subject returns the subject events of kind are published on.
func (p *Publisher) Subject(kind car.EventKind) string {
	return p.prefix + "." + string(kind)
}

// Observe implements car.Observer. Publish failures are logged, not returned.
func (p *Publisher) Observe(ev car.Event) {
	subject := p.Subject(ev.Kind)
	if err := natsutil.Publish(context.Background(), p.conn, subject, ev); err != nil {
		p.log.Warn("publish car event failed", "subject", subject, "error", err)
	}
}
