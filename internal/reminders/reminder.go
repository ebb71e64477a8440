package reminders

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var weekdayNames = [...]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// Reminder is one upcoming event decomposed into spoken fields.
// Dates are YYYY-MM-DD; days keep the two digits of the timestamp.
type Reminder struct {
	Title string

	StartDate    string
	StartWeekday string
	StartDay     string
	StartMonth   string
	StartYear    string
	StartTime    string

	EndDate    string
	EndWeekday string
	EndDay     string
	EndMonth   string
	EndYear    string
	EndTime    string
}

// Key returns the composite day key of the reminder's start.
func (r Reminder) Key() DayKey {
	return DayKey{
		Weekday: r.StartWeekday,
		Day:     r.StartDay,
		Month:   r.StartMonth,
		Year:    r.StartYear,
	}
}

// SameDay reports whether the reminder starts and ends on the same date.
func (r Reminder) SameDay() bool {
	return r.StartDate == r.EndDate
}

// stamp is a validated "YYYY-MM-DDTHH:MM..." timestamp.
type stamp struct {
	date   string // YYYY-MM-DD
	clock  string // HH:MM
	year   int
	month  int
	day    int
	hour   int
	minute int
}

// sortKey is the "YYYY-MM-DD HH:MM" form used for the past-event filter.
func (s stamp) sortKey() string {
	return s.date + " " + s.clock
}

// parseStamp reads the date and wall-clock time straight from the timestamp
// text. The offset suffix is ignored so the event keeps its own local time.
func parseStamp(v string) (stamp, error) {
	if len(v) < 16 || v[4] != '-' || v[7] != '-' || (v[10] != 'T' && v[10] != ' ') || v[13] != ':' {
		return stamp{}, fmt.Errorf("%w: timestamp %q", ErrMalformedItem, v)
	}

	var s stamp
	fields := []struct {
		text string
		dst  *int
	}{
		{v[0:4], &s.year},
		{v[5:7], &s.month},
		{v[8:10], &s.day},
		{v[11:13], &s.hour},
		{v[14:16], &s.minute},
	}
	for _, f := range fields {
		n, err := strconv.Atoi(f.text)
		if err != nil || strings.ContainsAny(f.text, "+-") {
			return stamp{}, fmt.Errorf("%w: timestamp %q", ErrMalformedItem, v)
		}
		*f.dst = n
	}

	if s.month < 1 || s.month > 12 || s.hour > 23 || s.minute > 59 {
		return stamp{}, fmt.Errorf("%w: timestamp %q out of range", ErrMalformedItem, v)
	}
	if s.day < 1 || s.day > daysIn(s.year, s.month) {
		return stamp{}, fmt.Errorf("%w: timestamp %q out of range", ErrMalformedItem, v)
	}

	s.date = v[0:10]
	s.clock = v[11:16]
	return s, nil
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func newReminder(title string, start, end stamp) Reminder {
	return Reminder{
		Title: title,

		StartDate:    start.date,
		StartWeekday: Weekday(start.year, start.month, start.day),
		StartDay:     start.date[8:10],
		StartMonth:   MonthName(start.month),
		StartYear:    start.date[0:4],
		StartTime:    To12Hour(start.clock),

		EndDate:    end.date,
		EndWeekday: Weekday(end.year, end.month, end.day),
		EndDay:     end.date[8:10],
		EndMonth:   MonthName(end.month),
		EndYear:    end.date[0:4],
		EndTime:    To12Hour(end.clock),
	}
}

// To12Hour converts a 24-hour "HH:MM" to the spoken 12-hour form.
// Midnight stays "00:MM AM"; other hours drop the leading zero.
// Input that is not "HH:MM" is returned unchanged.
func To12Hour(hhmm string) string {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return hhmm
	}
	hour, err := strconv.Atoi(hhmm[0:2])
	if err != nil || hour < 0 {
		return hhmm
	}
	minutes := hhmm[3:5]

	switch {
	case hour > 12:
		return strconv.Itoa(hour-12) + ":" + minutes + " PM"
	case hour == 12:
		return "12:" + minutes + " PM"
	case hour == 0:
		return "00:" + minutes + " AM"
	default:
		return strconv.Itoa(hour) + ":" + minutes + " AM"
	}
}

// MonthName returns the English name of month 1-12.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// Weekday returns the English weekday name of a proleptic Gregorian date,
// using Sakamoto's method.
func Weekday(year, month, day int) string {
	offsets := [...]int{0, 3, 2, 5, 0, 3, 5, 1, 4, 6, 2, 4}
	if month < 3 {
		year--
	}
	w := (year + year/4 - year/100 + year/400 + offsets[month-1] + day) % 7
	if w < 0 {
		w += 7
	}
	return weekdayNames[w]
}
