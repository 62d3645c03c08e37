package schedule

import (
	scheduleerrors "go-workforce/internal/schedule/errors"
)

// allowedTransitions is the legal state graph for a shift instance.
// completed, rejected and employee_rejected are terminal.
var allowedTransitions = map[Status][]Status{
	StatusPending:          {StatusConfirmed, StatusEmployeeAccepted, StatusEmployeeRejected, StatusRejected},
	StatusConfirmed:        {StatusCompleted, StatusRejected},
	StatusEmployeeAccepted: {StatusCompleted, StatusRejected},
}

func CanTransition(from, to Status) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition is the single mutation point for instance status. Every actor
// that moves a shift (generator, swap negotiator, leave cancellation) goes
// through here so none of them can write an illegal state.
func Transition(inst *ScheduleInstance, next Status, note string) error {
	if !CanTransition(inst.Status, next) {
		return scheduleerrors.ErrInvalidTransition
	}
	inst.Status = next
	if note != "" {
		appendNote(inst, note)
	}
	return nil
}

func appendNote(inst *ScheduleInstance, note string) {
	if inst.Notes == nil || *inst.Notes == "" {
		inst.Notes = &note
		return
	}
	joined := *inst.Notes + "\n" + note
	inst.Notes = &joined
}
