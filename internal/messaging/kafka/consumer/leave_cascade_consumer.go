package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-workforce/internal/events"
	"go-workforce/internal/leave"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConsumeLeaveApproved re-runs the reconciliation cascade off the durable
// approval log. The handlers are idempotent, so a cascade that already ran
// in-process settles to a no-op here; one that was cut short by a crash is
// finished.
func ConsumeLeaveApproved(
	ctx context.Context,
	reader *kafkago.Reader,
	leaves leave.Repository,
	cascade *leave.Cascade,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_cascade")
	log.Info("leave cascade consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave cascade consumer stopped")
				return
			}
			log.Error("fetch leave approved message failed", zap.Error(err))
			continue
		}

		var event events.LeaveApprovedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave approved event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		req, err := leaves.FindByID(ctx, event.LeaveID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Warn("leave approved event names unknown request, skipping",
					zap.String("leave_id", event.LeaveID),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}
			log.Error("load leave request failed",
				zap.String("leave_id", event.LeaveID),
				zap.Error(err),
			)
			continue
		}
		if req.Status != leave.StatusApproved {
			// The flip and the event commit together, so anything else
			// means a stale or replayed message.
			log.Warn("leave approved event for non-approved request, skipping",
				zap.String("leave_id", event.LeaveID),
				zap.String("status", string(req.Status)),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		result := cascade.Run(ctx, req)
		if len(result.StepErrors) > 0 {
			// Leave uncommitted: redelivery retries only the steps that
			// have not settled yet.
			log.Error("leave cascade incomplete, awaiting redelivery",
				zap.String("leave_id", event.LeaveID),
				zap.Strings("step_errors", result.StepErrors),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave approved message failed", zap.Error(err))
			continue
		}

		log.Info("leave cascade settled",
			zap.String("leave_id", event.LeaveID),
			zap.Int("attendance_days_marked", result.AttendanceDaysMarked),
			zap.Int("shifts_cancelled", result.ShiftsCancelled),
			zap.Float64("salary_deduction", result.SalaryDeduction),
		)
	}
}
