package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/gcalskill/internal/reminders"
)

type stubBuilder struct {
	groups *reminders.DayGroups
	err    error
	calls  atomic.Int32
}

func (s *stubBuilder) Build(ctx context.Context) (*reminders.DayGroups, error) {
	s.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("expected a deadline")
	}
	return s.groups, s.err
}

func groupsOf(titles ...string) *reminders.DayGroups {
	var rs []reminders.Reminder
	for _, title := range titles {
		rs = append(rs, reminders.Reminder{Title: title, StartDate: "2030-03-05", StartWeekday: "Tuesday", StartDay: "05", StartMonth: "March", StartYear: "2030"})
	}
	return reminders.GroupByDay(rs)
}

func TestNewRefresher_InvalidSpec(t *testing.T) {
	_, err := NewRefresher("not a schedule", &stubBuilder{}, reminders.NewStore(nil), time.Second, nil)
	assert.Error(t, err)
}

func TestRefresher_Refresh_ReplacesSnapshot(t *testing.T) {
	store := reminders.NewStore(groupsOf("old"))
	fresh := groupsOf("new one", "new two")
	b := &stubBuilder{groups: fresh}

	r, err := NewRefresher("@hourly", b, store, time.Second, nil)
	require.NoError(t, err)

	require.NoError(t, r.Refresh(context.Background()))
	assert.Same(t, fresh, store.Groups())
	assert.Equal(t, int32(1), b.calls.Load())
}

func TestRefresher_Refresh_KeepsSnapshotOnError(t *testing.T) {
	old := groupsOf("old")
	store := reminders.NewStore(old)
	b := &stubBuilder{err: errors.New("feed down")}

	r, err := NewRefresher("*/5 * * * *", b, store, time.Second, nil)
	require.NoError(t, err)

	assert.Error(t, r.Refresh(context.Background()))
	assert.Same(t, old, store.Groups())
}

func TestRefresher_StartStop(t *testing.T) {
	r, err := NewRefresher("@every 1h", &stubBuilder{groups: groupsOf()}, reminders.NewStore(nil), time.Second, nil)
	require.NoError(t, err)
	assert.True(t, r.Next().IsZero())

	r.Start(context.Background())
	assert.Eventually(t, func() bool { return !r.Next().IsZero() }, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, r.Stop(ctx))
}
