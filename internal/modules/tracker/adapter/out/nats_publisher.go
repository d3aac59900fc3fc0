package out

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/nats-io/nats.go"

	"tasktrail/internal/modules/tracker/domain"
	trackerout "tasktrail/internal/modules/tracker/port/out"
)

// SubjectSessionClosed carries one event per persisted session.
const SubjectSessionClosed = "tasktrail.session.closed"

type SessionClosedEvent struct {
	SessionID       string    `json:"session_id"`
	TaskName        string    `json:"task_name"`
	Category        string    `json:"category"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds float64   `json:"duration_seconds"`
	ActiveSeconds   float64   `json:"active_time_seconds"`
	ScreenshotCount int       `json:"screenshot_count"`
	Confidence      float64   `json:"confidence"`
}

func NewSessionClosedEvent(session domain.TaskSession) SessionClosedEvent {
	return SessionClosedEvent{
		SessionID:       session.ID,
		TaskName:        session.TaskName,
		Category:        session.Category,
		StartTime:       session.StartTime.UTC(),
		EndTime:         session.EndTime.UTC(),
		DurationSeconds: session.Duration().Seconds(),
		ActiveSeconds:   session.ActiveTime().Seconds(),
		ScreenshotCount: session.ScreenshotCount,
		Confidence:      session.Confidence,
	}
}

type NATSPublisher struct {
	conn   *nats.Conn
	logger hclog.Logger
}

func NewNATSPublisher(url string, logger hclog.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("nats")
	opts := []nats.Option{
		nats.Name("tasktrail"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NATSPublisher{conn: nc, logger: logger}, nil
}

func (p *NATSPublisher) PublishSessionClosed(_ context.Context, session domain.TaskSession) error {
	payload, err := json.Marshal(NewSessionClosedEvent(session))
	if err != nil {
		return fmt.Errorf("marshal session event: %w", err)
	}
	if err := p.conn.Publish(SubjectSessionClosed, payload); err != nil {
		return fmt.Errorf("publish %s: %w", SubjectSessionClosed, err)
	}
	return nil
}

func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

type NoopPublisher struct{}

func NewNoopPublisher() trackerout.EventPublisher {
	return NoopPublisher{}
}

func (NoopPublisher) PublishSessionClosed(context.Context, domain.TaskSession) error {
	return nil
}
