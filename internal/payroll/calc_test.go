package payroll_test

import (
	"testing"

	"go-workforce/internal/payroll"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Run("full month with no adjustments", func(t *testing.T) {
		out := payroll.Calculate(payroll.CalcInput{BaseSalary: 2200})

		assert.Equal(t, 100.0, out.DailyRate)
		assert.Equal(t, 12.5, out.HourlyRate)
		assert.Zero(t, out.AbsenceDeduction)
		assert.Zero(t, out.OvertimePay)
		assert.Equal(t, 2200.0, out.NetSalary)
	})

	t.Run("absences deduct at the daily rate", func(t *testing.T) {
		out := payroll.Calculate(payroll.CalcInput{
			BaseSalary: 2200,
			AbsentDays: 3,
		})

		assert.Equal(t, 300.0, out.AbsenceDeduction)
		assert.Equal(t, 1900.0, out.NetSalary)
	})

	t.Run("overtime pays time and a half", func(t *testing.T) {
		out := payroll.Calculate(payroll.CalcInput{
			BaseSalary:      2200,
			OvertimeMinutes: 120,
		})

		// 2 hours at 12.50 x 1.5
		assert.Equal(t, 37.5, out.OvertimePay)
		assert.Equal(t, 2237.5, out.NetSalary)
	})

	t.Run("hourly override replaces the derived rate", func(t *testing.T) {
		override := 20.0
		out := payroll.Calculate(payroll.CalcInput{
			BaseSalary:         2200,
			HourlyRateOverride: &override,
			OvertimeMinutes:    60,
		})

		assert.Equal(t, 20.0, out.HourlyRate)
		assert.Equal(t, 30.0, out.OvertimePay)
	})

	t.Run("deductions and bonus both land in net", func(t *testing.T) {
		out := payroll.Calculate(payroll.CalcInput{
			BaseSalary: 2200,
			Deductions: 150,
			Bonus:      80,
		})

		assert.Equal(t, 2130.0, out.NetSalary)
	})

	t.Run("uneven base rounds to cents at the edges only", func(t *testing.T) {
		out := payroll.Calculate(payroll.CalcInput{
			BaseSalary: 1000,
			AbsentDays: 1,
		})

		// 1000/22 = 45.4545..., rounded once for display
		assert.Equal(t, 45.45, out.DailyRate)
		assert.Equal(t, 45.45, out.AbsenceDeduction)
		assert.Equal(t, 954.55, out.NetSalary)
	})
}

func TestUnpaidLeaveDeduction(t *testing.T) {
	assert.Equal(t, 300.0, payroll.UnpaidLeaveDeduction(2200, 3))
	assert.Equal(t, 136.36, payroll.UnpaidLeaveDeduction(1000, 3))
	assert.Zero(t, payroll.UnpaidLeaveDeduction(2200, 0))
}
