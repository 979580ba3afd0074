package schedule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslabs/schedule-engine/schedule"
)

func TestYearSchedule_PutAndSlot(t *testing.T) {
	ys := make(schedule.YearSchedule)
	ys.Put(10, "LabInf1", schedule.Monday, "08:00", booked("Aula", "u1@x"))

	slot, ok := ys.Slot(10, "LabInf1", schedule.Monday, "08:00")
	require.True(t, ok)
	assert.Equal(t, "Aula", slot.Activity)

	_, ok = ys.Slot(10, "LabInf1", schedule.Monday, "08:15")
	assert.False(t, ok)
	_, ok = ys.Slot(11, "LabInf1", schedule.Monday, "08:00")
	assert.False(t, ok)
}

func TestYearSchedule_RemoveCascades(t *testing.T) {
	// GIVEN: A week whose only booking is one slot
	// WHEN: Removing it
	// THEN: The day, environment, and week containers all disappear

	ys := make(schedule.YearSchedule)
	ys.Put(10, "LabInf1", schedule.Monday, "08:00", booked("Aula", "u1@x"))

	assert.True(t, ys.Remove(10, "LabInf1", schedule.Monday, "08:00"))
	_, ok := ys[10]
	assert.False(t, ok)
	assert.Empty(t, ys)
}

func TestYearSchedule_RemoveKeepsSiblings(t *testing.T) {
	// A partial removal must not cascade past a still-occupied container.
	ys := make(schedule.YearSchedule)
	ys.Put(10, "LabInf1", schedule.Monday, "08:00", booked("Aula", "u1@x"))
	ys.Put(10, "LabInf1", schedule.Monday, "08:15", booked("Aula", "u1@x"))

	assert.True(t, ys.Remove(10, "LabInf1", schedule.Monday, "08:00"))
	_, ok := ys.Slot(10, "LabInf1", schedule.Monday, "08:15")
	assert.True(t, ok)
}

func TestYearSchedule_RemoveAbsent(t *testing.T) {
	ys := make(schedule.YearSchedule)
	assert.False(t, ys.Remove(10, "LabInf1", schedule.Monday, "08:00"))
}

func TestYearSchedule_CloneIsDeep(t *testing.T) {
	ys := make(schedule.YearSchedule)
	ys.Put(10, "LabInf1", schedule.Monday, "08:00", booked("Aula", "u1@x"))

	clone := ys.Clone()
	slot, _ := clone.Slot(10, "LabInf1", schedule.Monday, "08:00")
	slot.Activity = "tampered"
	clone.Put(11, "LabInf2", schedule.Tuesday, "09:00", booked("Pesquisa", "u2@x"))

	original, _ := ys.Slot(10, "LabInf1", schedule.Monday, "08:00")
	assert.Equal(t, "Aula", original.Activity)
	_, ok := ys.Slot(11, "LabInf2", schedule.Tuesday, "09:00")
	assert.False(t, ok)
}

func TestYearSchedule_CountSlots(t *testing.T) {
	ys := make(schedule.YearSchedule)
	ys.Put(10, "LabInf1", schedule.Monday, "08:00", booked("Aula", "u1@x"))
	ys.Put(10, "LabInf1", schedule.Tuesday, "09:00", booked("Aula", "u1@x"))
	ys.Put(10, "LabInf2", schedule.Monday, "08:00", booked("Aula", "u1@x"))

	assert.Equal(t, 2, ys.CountSlots(10, "LabInf1"))
	assert.Equal(t, 1, ys.CountSlots(10, "LabInf2"))
	assert.Equal(t, 0, ys.CountSlots(11, "LabInf1"))
}
