package events

import "time"

const LeaveApprovedTopic = "workforce.leave.approved.v1"

// LeaveApprovedEvent is the durable record of a leave approval. The
// cascade handlers (attendance upsert, shift cancellation, salary
// deduction) are idempotent, so redelivery is safe.
type LeaveApprovedEvent struct {
	EventType    string    `json:"event_type"`
	LeaveID      string    `json:"leave_id"`
	EmployeeID   string    `json:"employee_id"`
	LeaveType    string    `json:"leave_type"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	BusinessDays int       `json:"business_days"`
	OccurredAt   time.Time `json:"occurred_at"`
}
