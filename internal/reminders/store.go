package reminders

import (
	"sync/atomic"
	"time"
)

// Store holds the grouped snapshot served to readers. Replace swaps it
// atomically; readers see either the old or the new snapshot.
type Store struct {
	groups   atomic.Pointer[DayGroups]
	loadedAt atomic.Int64
}

// NewStore returns a Store holding groups.
func NewStore(groups *DayGroups) *Store {
	s := &Store{}
	s.Replace(groups)
	return s
}

// Groups returns the current snapshot.
func (s *Store) Groups() *DayGroups {
	return s.groups.Load()
}

// Replace installs a new snapshot.
func (s *Store) Replace(groups *DayGroups) {
	if groups == nil {
		groups = GroupByDay(nil)
	}
	s.groups.Store(groups)
	s.loadedAt.Store(time.Now().UnixNano())
}

// LoadedAt returns when the current snapshot was installed.
func (s *Store) LoadedAt() time.Time {
	return time.Unix(0, s.loadedAt.Load())
}
