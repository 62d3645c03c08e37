package employee

type EmployeeResponse struct {
	ID              string   `json:"id"`
	UserID          *string  `json:"user_id,omitempty"`
	FullName        string   `json:"full_name"`
	JobTitle        string   `json:"job_title"`
	Department      string   `json:"department,omitempty"`
	BaseSalary      float64  `json:"base_salary"`
	HourlyRate      *float64 `json:"hourly_rate,omitempty"`
	AnnualLeaveDays int      `json:"annual_leave_days"`
	SickLeaveDays   int      `json:"sick_leave_days"`
	Status          string   `json:"status"`
	ManagerCode     *string  `json:"manager_code,omitempty"`
}

type EmployeeOption struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	JobTitle string `json:"job_title"`
}
