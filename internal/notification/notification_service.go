package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go-workforce/internal/events"
	"go-workforce/internal/messaging/kafka"
	"go-workforce/internal/platform/metrics"
	"go-workforce/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Message struct {
	Title         string
	Body          string
	Severity      Severity
	RelatedEntity string
	RelatedID     string
}

// Dispatcher raises notifications. Delivery is best-effort and out of
// process: the call persists rows plus an outbox event and returns; it
// must never block or fail a caller's primary operation, so callers log
// the error and move on.
//
//go:generate mockgen -source=notification_service.go -destination=mock/dispatcher_mock.go -package=mock
type Dispatcher interface {
	Notify(ctx context.Context, recipients []string, msg Message) error
}

type dispatcher struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewDispatcher(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Dispatcher {
	l := zap.L().Named("notification.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.dispatcher")
	}
	return &dispatcher{db: db, repo: repo, outbox: outbox, logger: l}
}

func (d *dispatcher) Notify(ctx context.Context, recipients []string, msg Message) error {
	if len(recipients) == 0 {
		return nil
	}
	if !msg.Severity.Valid() {
		msg.Severity = SeverityInfo
	}

	rows := make([]Notification, 0, len(recipients))
	seen := make(map[string]struct{}, len(recipients))
	for _, rid := range recipients {
		// A recipient is notified once even if listed twice.
		if _, dup := seen[rid]; dup {
			continue
		}
		seen[rid] = struct{}{}

		recipientUUID, err := uuid.Parse(rid)
		if err != nil {
			d.logger.Warn("skip notification for malformed recipient id",
				zap.String("recipient_id", rid),
			)
			continue
		}
		row := Notification{
			ID:          uuid.New(),
			RecipientID: recipientUUID,
			Title:       msg.Title,
			Message:     msg.Body,
			Severity:    msg.Severity,
		}
		if msg.RelatedEntity != "" {
			row.RelatedEntity = &msg.RelatedEntity
		}
		if msg.RelatedID != "" {
			row.RelatedID = &msg.RelatedID
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := d.repo.WithTx(tx).CreateBatch(ctx, rows); err != nil {
		d.logger.Error("persist notifications failed", zap.Error(err))
		return err
	}

	recipientIDs := make([]string, len(rows))
	for i, row := range rows {
		recipientIDs[i] = row.RecipientID.String()
	}
	payload, err := json.Marshal(events.NotificationRequestedEvent{
		EventType:     "notification.requested",
		Recipients:    recipientIDs,
		Title:         msg.Title,
		Message:       msg.Body,
		Severity:      string(msg.Severity),
		RelatedEntity: msg.RelatedEntity,
		RelatedID:     msg.RelatedID,
		OccurredAt:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	if err := d.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "notification",
		AggregateID:   rows[0].ID.String(),
		EventType:     "notification.requested",
		Topic:         events.NotificationRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		d.logger.Error("persist notification outbox event failed", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	metrics.NotificationsRaisedTotal.WithLabelValues(string(msg.Severity)).Add(float64(len(rows)))
	d.logger.Info("notification raised",
		zap.Int("recipients", len(rows)),
		zap.String("title", msg.Title),
		zap.String("severity", string(msg.Severity)),
	)
	return nil
}
