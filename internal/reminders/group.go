package reminders

// DayKey identifies a calendar day by its spoken parts.
type DayKey struct {
	Weekday string
	Day     string
	Month   string
	Year    string
}

// String renders the key as "<weekday>, <day>, <month>, <year>".
func (k DayKey) String() string {
	return k.Weekday + ", " + k.Day + ", " + k.Month + ", " + k.Year
}

// DayGroup holds the reminders starting on one day, in load order.
type DayGroup struct {
	Key       DayKey
	Reminders []Reminder
}

// DayGroups is an insertion-ordered mapping from DayKey to DayGroup.
// It is immutable once built and safe for concurrent readers.
type DayGroups struct {
	groups []DayGroup
	index  map[DayKey]int
}

// GroupByDay buckets reminders by start day, keeping their order.
func GroupByDay(rs []Reminder) *DayGroups {
	g := &DayGroups{index: make(map[DayKey]int)}
	for _, r := range rs {
		key := r.Key()
		i, ok := g.index[key]
		if !ok {
			i = len(g.groups)
			g.index[key] = i
			g.groups = append(g.groups, DayGroup{Key: key})
		}
		g.groups[i].Reminders = append(g.groups[i].Reminders, r)
	}
	return g
}

// Groups returns the groups in insertion order.
func (g *DayGroups) Groups() []DayGroup {
	if g == nil {
		return nil
	}
	return g.groups
}

// Lookup returns the group for key.
func (g *DayGroups) Lookup(key DayKey) (DayGroup, bool) {
	if g == nil {
		return DayGroup{}, false
	}
	i, ok := g.index[key]
	if !ok {
		return DayGroup{}, false
	}
	return g.groups[i], true
}

// Len returns the number of days.
func (g *DayGroups) Len() int {
	if g == nil {
		return 0
	}
	return len(g.groups)
}

// Count returns the number of reminders across all days.
func (g *DayGroups) Count() int {
	n := 0
	for _, grp := range g.Groups() {
		n += len(grp.Reminders)
	}
	return n
}
