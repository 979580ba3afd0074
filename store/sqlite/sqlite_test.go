package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslabs/schedule-engine/schedule"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_ScheduleRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Empty store reads as a miss.
	ys, err := store.LoadSchedule(ctx)
	require.NoError(t, err)
	assert.Nil(t, ys)

	saved := make(schedule.YearSchedule)
	saved.Put(10, "LabInf1", schedule.Monday, "08:00", &schedule.ScheduleSlot{
		Activity:    "Aula",
		User:        schedule.User{Email: "joao.silva@ifsudestemg.edu.br", Name: "Joao Silva"},
		BookingTime: "2025-05-12T12:00:00Z",
		DBSynced:    true,
	})
	require.NoError(t, store.SaveSchedule(ctx, saved))

	loaded, err := store.LoadSchedule(ctx)
	require.NoError(t, err)
	slot, ok := loaded.Slot(10, "LabInf1", schedule.Monday, "08:00")
	require.True(t, ok)
	assert.Equal(t, "Aula", slot.Activity)
	assert.True(t, slot.DBSynced)
}

func TestStore_SaveScheduleOverwritesWholesale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := make(schedule.YearSchedule)
	first.Put(10, "LabInf1", schedule.Monday, "08:00", &schedule.ScheduleSlot{Activity: "Aula"})
	require.NoError(t, store.SaveSchedule(ctx, first))

	second := make(schedule.YearSchedule)
	second.Put(11, "LabInf2", schedule.Tuesday, "09:00", &schedule.ScheduleSlot{Activity: "Pesquisa"})
	require.NoError(t, store.SaveSchedule(ctx, second))

	loaded, err := store.LoadSchedule(ctx)
	require.NoError(t, err)
	_, ok := loaded.Slot(10, "LabInf1", schedule.Monday, "08:00")
	assert.False(t, ok, "snapshots replace, never merge")
	_, ok = loaded.Slot(11, "LabInf2", schedule.Tuesday, "09:00")
	assert.True(t, ok)
}

func TestStore_CorruptScheduleReadsAsMiss(t *testing.T) {
	// GIVEN: A damaged schedule payload
	// WHEN: Loading
	// THEN: (nil, nil) - the engine must be able to start from a broken cache

	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.set(ctx, keySchedule, "{not json"))

	ys, err := store.LoadSchedule(ctx)
	assert.NoError(t, err)
	assert.Nil(t, ys)
}

func TestStore_LastSyncRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	got, err := store.LoadLastSync(ctx)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	stamp := time.Date(2025, time.May, 12, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveLastSync(ctx, stamp))

	got, err = store.LoadLastSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, stamp.UnixMilli(), got.UnixMilli())
}

func TestStore_CorruptLastSyncReadsAsMiss(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.set(ctx, keyLastSync, "yesterday-ish"))

	got, err := store.LoadLastSync(ctx)
	assert.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestStore_UserActivitiesRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	email := "joao.silva@ifsudestemg.edu.br"

	ac, err := store.LoadUserActivities(ctx, email)
	require.NoError(t, err)
	assert.Nil(t, ac)

	require.NoError(t, store.SaveUserActivities(ctx, email, schedule.ActivityCache{
		Activities: []string{"Monitoria"},
		LastUpdate: 1747051200000,
	}))

	ac, err = store.LoadUserActivities(ctx, email)
	require.NoError(t, err)
	require.NotNil(t, ac)
	assert.Equal(t, []string{"Monitoria"}, ac.Activities)
	assert.Equal(t, int64(1747051200000), ac.LastUpdate)

	// Keys are per-email.
	other, err := store.LoadUserActivities(ctx, "ana.souza@ifsudestemg.edu.br")
	require.NoError(t, err)
	assert.Nil(t, other)
}
