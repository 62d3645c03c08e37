package leave

import "time"

type CreateLeaveRequest struct {
	Type      string  `json:"type" binding:"required"`
	StartDate string  `json:"start_date" binding:"required"`
	EndDate   string  `json:"end_date" binding:"required"`
	Reason    *string `json:"reason"`
}

type RejectLeaveRequest struct {
	Note *string `json:"note"`
}

type AuditEntryResponse struct {
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
	Details   string `json:"details,omitempty"`
}

type LeaveResponse struct {
	ID           string               `json:"id"`
	EmployeeID   string               `json:"employee_id"`
	Type         string               `json:"type"`
	Status       string               `json:"status"`
	StartDate    string               `json:"start_date"`
	EndDate      string               `json:"end_date"`
	BusinessDays int                  `json:"business_days"`
	Reason       *string              `json:"reason,omitempty"`
	DecidedBy    *string              `json:"decided_by,omitempty"`
	DecidedAt    *string              `json:"decided_at,omitempty"`
	AuditLog     []AuditEntryResponse `json:"audit_log"`
}

// SubmitResult carries the persisted request together with the conflicts
// the manager should weigh. Conflicts never block submission.
type SubmitResult struct {
	Request      LeaveResponse `json:"request"`
	BusinessDays int           `json:"business_days"`
	Conflicts    []Conflict    `json:"conflicts"`
}

type ApproveResult struct {
	Request LeaveResponse `json:"request"`
	Cascade CascadeResult `json:"cascade"`
}

func mapToResponse(req LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:           req.ID.String(),
		EmployeeID:   req.EmployeeID.String(),
		Type:         string(req.Type),
		Status:       string(req.Status),
		StartDate:    req.StartDate.Format("2006-01-02"),
		EndDate:      req.EndDate.Format("2006-01-02"),
		BusinessDays: req.BusinessDays,
		Reason:       req.Reason,
		AuditLog:     make([]AuditEntryResponse, 0, len(req.AuditLog)),
	}
	if req.DecidedBy != nil {
		v := req.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if req.DecidedAt != nil {
		v := req.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	for _, e := range req.AuditLog {
		resp.AuditLog = append(resp.AuditLog, AuditEntryResponse{
			Action:    e.Action,
			Timestamp: e.Timestamp.Format(time.RFC3339),
			Details:   e.Details,
		})
	}
	return resp
}
