package application

import (
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

type CalendarDay struct {
	Date    string
	Day     int
	InMonth bool
	Today   bool
}

// Calendar is a month grid of full weeks starting on Sunday.
type Calendar struct {
	Title string
	Month string
	Prev  string
	Next  string
	Weeks [][]CalendarDay
}

// BuildCalendar renders month ("YYYY-MM"). An empty or malformed month
// falls back to the month of now.
func BuildCalendar(month string, now time.Time) *Calendar {
	first, err := time.Parse(MonthLayout, month)
	if err != nil {
		first = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	today := now.Format(DateLayout)

	cal := &Calendar{
		Title: first.Format("January 2006"),
		Month: first.Format(MonthLayout),
		Prev:  first.AddDate(0, -1, 0).Format(MonthLayout),
		Next:  first.AddDate(0, 1, 0).Format(MonthLayout),
	}

	day := first.AddDate(0, 0, -int(first.Weekday()))
	for {
		week := make([]CalendarDay, 0, 7)
		for i := 0; i < 7; i++ {
			date := day.Format(DateLayout)
			week = append(week, CalendarDay{
				Date:    date,
				Day:     day.Day(),
				InMonth: day.Month() == first.Month(),
				Today:   date == today,
			})
			day = day.AddDate(0, 0, 1)
		}
		cal.Weeks = append(cal.Weeks, week)
		if day.Month() != first.Month() {
			break
		}
	}
	return cal
}
