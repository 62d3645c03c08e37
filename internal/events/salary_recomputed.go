package events

import "time"

const SalaryRecomputedTopic = "workforce.payroll.salary.recomputed.v1"

type SalaryRecomputedEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID string    `json:"employee_id"`
	Month      string    `json:"month"`
	NetSalary  float64   `json:"net_salary"`
	OccurredAt time.Time `json:"occurred_at"`
}
