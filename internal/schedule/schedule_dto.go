package schedule

import "time"

type GenerateRotaRequest struct {
	PatternID   string   `json:"pattern_id" binding:"required,uuid"`
	EmployeeIDs []string `json:"employee_ids" binding:"required,min=1,dive,uuid"`
	Weeks       int      `json:"weeks" binding:"required,min=1,max=52"`
}

type EmployeeError struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

// GenerateResult carries all-settle totals: one employee failing does not
// abort the others, it just lands in PerEmployeeErrors.
type GenerateResult struct {
	Created           int             `json:"created"`
	SkippedDuplicates int             `json:"skipped_duplicates"`
	PerEmployeeErrors []EmployeeError `json:"per_employee_errors,omitempty"`
}

type BatchApproveResult struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

type AssignShiftRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	StartTime  string  `json:"start_time" binding:"required"`
	EndTime    string  `json:"end_time" binding:"required"`
	Title      string  `json:"title" binding:"required"`
	Location   *string `json:"location"`
	Notes      *string `json:"notes"`
}

type AcknowledgeShiftRequest struct {
	Accept bool `json:"accept"`
}

type ScheduleResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	Status     string  `json:"status"`
	Source     string  `json:"source"`
	Title      string  `json:"title"`
	Location   *string `json:"location,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

func mapToResponse(inst ScheduleInstance) ScheduleResponse {
	return ScheduleResponse{
		ID:         inst.ID.String(),
		EmployeeID: inst.EmployeeID.String(),
		StartTime:  inst.StartTime.Format(time.RFC3339),
		EndTime:    inst.EndTime.Format(time.RFC3339),
		Status:     string(inst.Status),
		Source:     string(inst.Source),
		Title:      inst.Title,
		Location:   inst.Location,
		Notes:      inst.Notes,
	}
}
