package payroll

import "github.com/shopspring/decimal"

const (
	workingDaysPerMonth = 22
	hoursPerWorkingDay  = 8
	overtimeMultiplier  = "1.5"
)

// CalcInput is everything the salary formula needs for one month. All
// money flows through decimal so repeated recomputation cannot drift.
type CalcInput struct {
	BaseSalary         float64
	HourlyRateOverride *float64
	AbsentDays         int
	OvertimeMinutes    int
	Deductions         float64
	Bonus              float64
}

type CalcOutput struct {
	DailyRate        float64
	HourlyRate       float64
	AbsenceDeduction float64
	OvertimePay      float64
	NetSalary        float64
}

// DailyRate is the base salary spread over the standard working month.
func DailyRate(baseSalary float64) decimal.Decimal {
	return decimal.NewFromFloat(baseSalary).
		Div(decimal.NewFromInt(workingDaysPerMonth))
}

func hourlyRate(in CalcInput) decimal.Decimal {
	if in.HourlyRateOverride != nil {
		return decimal.NewFromFloat(*in.HourlyRateOverride)
	}
	return DailyRate(in.BaseSalary).Div(decimal.NewFromInt(hoursPerWorkingDay))
}

// Calculate applies the monthly salary formula:
//
//	net = base - absentDays*dailyRate - deductions + bonus + overtimePay
//
// where overtimePay = overtimeHours * hourlyRate * 1.5. Results are
// rounded to cents at the edges only.
func Calculate(in CalcInput) CalcOutput {
	daily := DailyRate(in.BaseSalary)
	hourly := hourlyRate(in)

	absence := daily.Mul(decimal.NewFromInt(int64(in.AbsentDays)))

	overtimeHours := decimal.NewFromInt(int64(in.OvertimeMinutes)).
		Div(decimal.NewFromInt(60))
	overtimePay := overtimeHours.
		Mul(hourly).
		Mul(decimal.RequireFromString(overtimeMultiplier))

	net := decimal.NewFromFloat(in.BaseSalary).
		Sub(absence).
		Sub(decimal.NewFromFloat(in.Deductions)).
		Add(decimal.NewFromFloat(in.Bonus)).
		Add(overtimePay)

	return CalcOutput{
		DailyRate:        daily.Round(2).InexactFloat64(),
		HourlyRate:       hourly.Round(2).InexactFloat64(),
		AbsenceDeduction: absence.Round(2).InexactFloat64(),
		OvertimePay:      overtimePay.Round(2).InexactFloat64(),
		NetSalary:        net.Round(2).InexactFloat64(),
	}
}

// UnpaidLeaveDeduction is the amount withheld for a span of unpaid leave
// days at the employee's daily rate.
func UnpaidLeaveDeduction(baseSalary float64, days int) float64 {
	return DailyRate(baseSalary).
		Mul(decimal.NewFromInt(int64(days))).
		Round(2).
		InexactFloat64()
}
