package swap

import "time"

type CreateSwapRequest struct {
	RecipientEmployeeID string  `json:"recipient_employee_id" binding:"required,uuid"`
	RequesterScheduleID string  `json:"requester_schedule_id" binding:"required,uuid"`
	RecipientScheduleID *string `json:"recipient_schedule_id" binding:"omitempty,uuid"`
	Note                *string `json:"note"`
}

type RespondSwapRequest struct {
	Accept bool `json:"accept"`
}

type SwapResponse struct {
	ID                  string  `json:"id"`
	RequesterEmployeeID string  `json:"requester_employee_id"`
	RecipientEmployeeID string  `json:"recipient_employee_id"`
	RequesterScheduleID string  `json:"requester_schedule_id"`
	RecipientScheduleID *string `json:"recipient_schedule_id,omitempty"`
	Status              string  `json:"status"`
	Note                *string `json:"note,omitempty"`
	DecidedAt           *string `json:"decided_at,omitempty"`
	CompletedAt         *string `json:"completed_at,omitempty"`
}

func mapToResponse(req ShiftSwapRequest) SwapResponse {
	resp := SwapResponse{
		ID:                  req.ID.String(),
		RequesterEmployeeID: req.RequesterEmployeeID.String(),
		RecipientEmployeeID: req.RecipientEmployeeID.String(),
		RequesterScheduleID: req.RequesterScheduleID.String(),
		Status:              string(req.Status),
		Note:                req.Note,
	}
	if req.RecipientScheduleID != nil {
		v := req.RecipientScheduleID.String()
		resp.RecipientScheduleID = &v
	}
	if req.DecidedAt != nil {
		v := req.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	if req.CompletedAt != nil {
		v := req.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &v
	}
	return resp
}
