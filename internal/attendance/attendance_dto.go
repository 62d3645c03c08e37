package attendance

import "time"

type ClockInRequest struct {
	DeviceInfo *string  `json:"device_info"`
	Location   *string  `json:"location"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

type ReplayClockOutRequest struct {
	// MarkedAt is the timestamp the client recorded before it died; the
	// replayed clock-out uses it instead of now.
	MarkedAt string `json:"marked_at" binding:"required"`
}

type AttendanceResponse struct {
	ID              string   `json:"id"`
	EmployeeID      string   `json:"employee_id"`
	WorkDate        string   `json:"work_date"`
	CheckIn         *string  `json:"check_in,omitempty"`
	CheckOut        *string  `json:"check_out,omitempty"`
	ActiveSession   bool     `json:"active_session"`
	WorkingMinutes  int      `json:"working_minutes"`
	OvertimeMinutes int      `json:"overtime_minutes"`
	Status          string   `json:"status"`
	Location        *string  `json:"location,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
}

type SweepResult struct {
	RecordsCreated int `json:"records_created"`
	RecordsUpdated int `json:"records_updated"`
	Errors         int `json:"errors"`
}

func mapToResponse(rec AttendanceRecord) AttendanceResponse {
	resp := AttendanceResponse{
		ID:              rec.ID.String(),
		EmployeeID:      rec.EmployeeID.String(),
		WorkDate:        rec.WorkDate.Format("2006-01-02"),
		ActiveSession:   rec.ActiveSession,
		WorkingMinutes:  rec.WorkingMinutes,
		OvertimeMinutes: rec.OvertimeMinutes,
		Status:          string(rec.Status),
		Location:        rec.Location,
		Latitude:        rec.Latitude,
		Longitude:       rec.Longitude,
	}
	if rec.CheckIn != nil {
		v := rec.CheckIn.Format(time.RFC3339)
		resp.CheckIn = &v
	}
	if rec.CheckOut != nil {
		v := rec.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &v
	}
	return resp
}
