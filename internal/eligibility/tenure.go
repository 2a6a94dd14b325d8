package eligibility

import "time"

// TenureYears returns the number of full years between founded and at, never negative.
func TenureYears(founded, at time.Time) int {
	years := at.Year() - founded.Year()
	if at.Month() < founded.Month() || (at.Month() == founded.Month() && at.Day() < founded.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// TenureMeetsMinimum passes when no minimum is configured, and otherwise requires a known
// tenure at least equal to it.
func TenureMeetsMinimum(tenure *int, minYears *int) bool {
	if minYears == nil {
		return true
	}
	if tenure == nil {
		return false
	}
	return *tenure >= *minYears
}
