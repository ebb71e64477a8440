package reminders

import "strings"

// NoRemindersForDay is spoken when RenderDay finds nothing.
const NoRemindersForDay = "You don't have reminders for the day."

// NoReminders is shown by text surfaces when the whole snapshot is empty.
const NoReminders = "You don't have reminders."

// RenderAll speaks every group in order.
func RenderAll(groups *DayGroups) string {
	var b strings.Builder
	for _, g := range groups.Groups() {
		writeGroup(&b, g)
	}
	return b.String()
}

// RenderDay speaks the groups whose first reminder starts on day
// (YYYY-MM-DD), or NoRemindersForDay.
func RenderDay(day string, groups *DayGroups) string {
	var b strings.Builder
	for _, g := range groups.Groups() {
		if len(g.Reminders) == 0 || g.Reminders[0].StartDate != day {
			continue
		}
		writeGroup(&b, g)
	}
	if b.Len() == 0 {
		return NoRemindersForDay
	}
	return b.String()
}

func writeGroup(b *strings.Builder, g DayGroup) {
	b.WriteString("Day ")
	b.WriteString(g.Key.String())
	b.WriteString(", ")
	for _, r := range g.Reminders {
		b.WriteString(Sentence(r))
	}
}

// Sentence speaks a single reminder. Reminders that end on another day name
// the end day before the end time.
func Sentence(r Reminder) string {
	if r.SameDay() {
		return "Reminder, '" + r.Title + "', from " + r.StartTime + " to " + r.EndTime + ". "
	}
	return "Reminder, '" + r.Title + "', from " + r.StartTime + " to " +
		r.EndWeekday + ", " + r.EndDay + ", " + r.EndMonth + ", " + r.EndYear +
		" at " + r.EndTime + ". "
}
