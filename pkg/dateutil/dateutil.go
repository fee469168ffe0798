package dateutil

import (
	"time"

	"github.com/shopspring/decimal"
)

var twelve = decimal.NewFromInt(12)

// FractionalAge returns the age reached after a number of simulated months
func FractionalAge(age, month int) decimal.Decimal {
	return decimal.NewFromInt(int64(age)).Add(decimal.NewFromInt(int64(month)).Div(twelve))
}

// YearOfMonth returns the zero-based simulation year a month falls into
func YearOfMonth(month int) int {
	if month < 0 {
		return 0
	}
	return month / 12
}

// AddMonths adds a specified number of months to a date
func AddMonths(date time.Time, months int) time.Time {
	return date.AddDate(0, months, 0)
}

// CalendarYear returns the calendar year of a simulated month counted from start
func CalendarYear(start time.Time, month int) int {
	return AddMonths(BeginningOfMonth(start), month).Year()
}

// BeginningOfMonth returns the first day of the month for a given date
func BeginningOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}
