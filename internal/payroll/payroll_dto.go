package payroll

import "time"

type ComputeSalaryRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Month      string `json:"month" binding:"required"`
}

type SalaryResponse struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employee_id"`
	Month            string  `json:"month"`
	PresentDays      int     `json:"present_days"`
	AbsentDays       int     `json:"absent_days"`
	LeaveDays        int     `json:"leave_days"`
	OvertimeMinutes  int     `json:"overtime_minutes"`
	BaseSalary       float64 `json:"base_salary"`
	AbsenceDeduction float64 `json:"absence_deduction"`
	Deductions       float64 `json:"deductions"`
	Bonus            float64 `json:"bonus"`
	OvertimePay      float64 `json:"overtime_pay"`
	NetSalary        float64 `json:"net_salary"`
	PaymentStatus    string  `json:"payment_status"`
	ComputedAt       string  `json:"computed_at"`
}

func mapToResponse(stats SalaryStatistics) SalaryResponse {
	return SalaryResponse{
		ID:               stats.ID.String(),
		EmployeeID:       stats.EmployeeID.String(),
		Month:            stats.Month,
		PresentDays:      stats.PresentDays,
		AbsentDays:       stats.AbsentDays,
		LeaveDays:        stats.LeaveDays,
		OvertimeMinutes:  stats.OvertimeMinutes,
		BaseSalary:       stats.BaseSalary,
		AbsenceDeduction: stats.AbsenceDeduction,
		Deductions:       stats.Deductions,
		Bonus:            stats.Bonus,
		OvertimePay:      stats.OvertimePay,
		NetSalary:        stats.NetSalary,
		PaymentStatus:    string(stats.PaymentStatus),
		ComputedAt:       stats.ComputedAt.Format(time.RFC3339),
	}
}
