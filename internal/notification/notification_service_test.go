package notification_test

import (
	"context"
	"database/sql"
	"testing"

	"go-workforce/internal/messaging/kafka"
	"go-workforce/internal/notification"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeNotificationRepository struct {
	createBatchFn func(ctx context.Context, rows []notification.Notification) error
}

func (f *fakeNotificationRepository) WithTx(tx *sql.Tx) notification.Repository { return f }

func (f *fakeNotificationRepository) CreateBatch(ctx context.Context, rows []notification.Notification) error {
	if f.createBatchFn != nil {
		return f.createBatchFn(ctx, rows)
	}
	return nil
}

func (f *fakeNotificationRepository) ListForRecipient(ctx context.Context, recipientID string, limit int) ([]notification.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationRepository) MarkRead(ctx context.Context, recipientID, id string) error {
	return nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type dispatcherDeps struct {
	db       *sql.DB
	sqlMock  sqlmock.Sqlmock
	notifier notification.Dispatcher
	repo     *fakeNotificationRepository
	outbox   *fakeOutboxRepository
}

func setupDispatcherTest(t *testing.T) *dispatcherDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	deps := &dispatcherDeps{
		db:      db,
		sqlMock: sqlMock,
		repo:    &fakeNotificationRepository{},
		outbox:  &fakeOutboxRepository{},
	}
	deps.notifier = notification.NewDispatcher(db, deps.repo, deps.outbox)
	return deps
}

func TestDispatcher_Notify(t *testing.T) {
	ctx := context.Background()

	t.Run("persists one row per recipient plus an outbox event", func(t *testing.T) {
		deps := setupDispatcherTest(t)
		defer deps.db.Close()

		a := uuid.New().String()
		b := uuid.New().String()

		var rows []notification.Notification
		deps.repo.createBatchFn = func(ctx context.Context, batch []notification.Notification) error {
			rows = batch
			return nil
		}
		var event *kafka.OutboxEvent
		deps.outbox.createFn = func(ctx context.Context, e kafka.OutboxEvent) error {
			event = &e
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		err := deps.notifier.Notify(ctx, []string{a, b}, notification.Message{
			Title:    "Shift swap requested",
			Body:     "A colleague asked you to take their shift.",
			Severity: notification.SeverityInfo,
		})

		assert.NoError(t, err)
		assert.Len(t, rows, 2)
		assert.Equal(t, "Shift swap requested", rows[0].Title)
		assert.NotNil(t, event)
		assert.Equal(t, "notification.requested", event.EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("deduplicates recipients and skips malformed ids", func(t *testing.T) {
		deps := setupDispatcherTest(t)
		defer deps.db.Close()

		a := uuid.New().String()

		var rows []notification.Notification
		deps.repo.createBatchFn = func(ctx context.Context, batch []notification.Notification) error {
			rows = batch
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		err := deps.notifier.Notify(ctx, []string{a, a, "not-a-uuid"}, notification.Message{
			Title: "Team member linked",
			Body:  "A new employee joined.",
		})

		assert.NoError(t, err)
		assert.Len(t, rows, 1)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("no recipients is a no-op without a transaction", func(t *testing.T) {
		deps := setupDispatcherTest(t)
		defer deps.db.Close()

		deps.repo.createBatchFn = func(ctx context.Context, batch []notification.Notification) error {
			t.Fatal("nothing should be persisted")
			return nil
		}

		assert.NoError(t, deps.notifier.Notify(ctx, nil, notification.Message{Title: "x", Body: "y"}))
		assert.NoError(t, deps.notifier.Notify(ctx, []string{"not-a-uuid"}, notification.Message{Title: "x", Body: "y"}))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown severity falls back to info", func(t *testing.T) {
		deps := setupDispatcherTest(t)
		defer deps.db.Close()

		var rows []notification.Notification
		deps.repo.createBatchFn = func(ctx context.Context, batch []notification.Notification) error {
			rows = batch
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		err := deps.notifier.Notify(ctx, []string{uuid.New().String()}, notification.Message{
			Title:    "x",
			Body:     "y",
			Severity: notification.Severity("shout"),
		})

		assert.NoError(t, err)
		assert.Len(t, rows, 1)
		assert.Equal(t, notification.SeverityInfo, rows[0].Severity)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
