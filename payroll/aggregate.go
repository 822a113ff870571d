/*
aggregate.go - Monthly attendance counts and salary figures

SALARY RULE:
  expectedSalary = workDays × wagePerDay
  deduction      = absentDays × wagePerDay
  netSalary      = expectedSalary

  Net equals expected EXACTLY. Absent days are already excluded from the
  work-day count, so subtracting the deduction again would charge the
  absence twice. The deduction is computed and reported for display only.

  Late is always 0: late tracking is a placeholder kept for output-shape
  stability.
*/
package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/roster"
)

// MonthlySummary is one staff member's (or a rollup's) month.
type MonthlySummary struct {
	WorkDays      int
	Absent        int
	SickLeave     int
	PersonalLeave int
	Vacation      int
	Late          int

	ExpectedSalary decimal.Decimal
	Deduction      decimal.Decimal
	NetSalary      decimal.Decimal
}

// AggregateMonth computes the summary from a full month of resolved codes
// (one per day, defaults already applied by the matrix build).
func AggregateMonth(codes []roster.ShiftCode, wagePerDay decimal.Decimal, cls Classification) MonthlySummary {
	var s MonthlySummary

	for _, code := range codes {
		switch {
		case cls.IsWork(code):
			s.WorkDays++
		case code == cls.Absent:
			s.Absent++
		case code == cls.Sick:
			s.SickLeave++
		case code == cls.Personal:
			s.PersonalLeave++
		case code == cls.Vacation:
			s.Vacation++
		}
		// Anything else (OFF included) is uncounted.
	}

	s.ExpectedSalary = wagePerDay.Mul(decimal.NewFromInt(int64(s.WorkDays)))
	s.Deduction = wagePerDay.Mul(decimal.NewFromInt(int64(s.Absent)))
	s.NetSalary = s.ExpectedSalary
	return s
}

// Add accumulates another summary into s. Used for project and portfolio
// rollups.
func (s *MonthlySummary) Add(other MonthlySummary) {
	s.WorkDays += other.WorkDays
	s.Absent += other.Absent
	s.SickLeave += other.SickLeave
	s.PersonalLeave += other.PersonalLeave
	s.Vacation += other.Vacation
	s.Late += other.Late
	s.ExpectedSalary = s.ExpectedSalary.Add(other.ExpectedSalary)
	s.Deduction = s.Deduction.Add(other.Deduction)
	s.NetSalary = s.NetSalary.Add(other.NetSalary)
}

// Rollup sums per-staff summaries into one.
func Rollup(summaries []MonthlySummary) MonthlySummary {
	var total MonthlySummary
	for _, s := range summaries {
		total.Add(s)
	}
	return total
}
