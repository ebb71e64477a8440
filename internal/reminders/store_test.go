package reminders

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore(t *testing.T) {
	first := GroupByDay([]Reminder{reminderOn("a", "2030-03-05", "Tuesday", "05")})
	s := NewStore(first)
	assert.Same(t, first, s.Groups())
	assert.False(t, s.LoadedAt().IsZero())

	second := GroupByDay(nil)
	s.Replace(second)
	assert.Same(t, second, s.Groups())
}

func TestStore_NilSnapshot(t *testing.T) {
	s := NewStore(nil)
	assert.NotNil(t, s.Groups())
	assert.Equal(t, NoRemindersForDay, RenderDay("2030-03-05", s.Groups()))
}

func TestStore_ConcurrentReaders(t *testing.T) {
	s := NewStore(GroupByDay([]Reminder{reminderOn("a", "2030-03-05", "Tuesday", "05")}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = RenderAll(s.Groups())
			}
		}()
	}
	for j := 0; j < 10; j++ {
		s.Replace(GroupByDay([]Reminder{reminderOn("b", "2030-03-06", "Wednesday", "06")}))
	}
	wg.Wait()
}
