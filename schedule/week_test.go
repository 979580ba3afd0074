package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/campuslabs/schedule-engine/schedule"
)

func TestWeekNumber(t *testing.T) {
	// 2025-05-12 is a Monday in ISO week 20.
	assert.Equal(t, 20, schedule.WeekNumber(time.Date(2025, time.May, 12, 0, 0, 0, 0, time.UTC)))
	// 2024-12-30 belongs to ISO week 1 of 2025.
	assert.Equal(t, 1, schedule.WeekNumber(time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC)))
}

func TestNextWeek_WrapsAtYearEnd(t *testing.T) {
	assert.Equal(t, 21, schedule.NextWeek(20))
	assert.Equal(t, 1, schedule.NextWeek(52))
}

func TestWindowWeeks(t *testing.T) {
	assert.Equal(t, []int{20, 21, 22, 23}, schedule.WindowWeeks(20, 4))
	assert.Equal(t, []int{51, 52, 1}, schedule.WindowWeeks(51, 3), "window wraps across the year boundary")
	assert.Equal(t, []int{10}, schedule.WindowWeeks(10, 0), "count is clamped to at least the current week")
}

func TestCooldownElapsed(t *testing.T) {
	now := time.Date(2025, time.May, 12, 12, 0, 0, 0, time.UTC)
	assert.False(t, schedule.CooldownElapsed(now.Add(-30*time.Second), now, time.Minute))
	assert.True(t, schedule.CooldownElapsed(now.Add(-time.Minute), now, time.Minute))
	assert.True(t, schedule.CooldownElapsed(now.Add(-time.Hour), now, time.Minute))
}

func TestValidTimeSlot(t *testing.T) {
	valid := []string{"00:00", "07:45", "08:00", "13:15", "22:15", "23:45"}
	for _, s := range valid {
		assert.True(t, schedule.ValidTimeSlot(s), "%q should be valid", s)
	}

	invalid := []string{"", "8:00", "08:07", "08:0", "0800", "24:00", "08:60", "ab:cd", "08:15:00"}
	for _, s := range invalid {
		assert.False(t, schedule.ValidTimeSlot(s), "%q should be invalid", s)
	}
}

func TestNextTimeSlot(t *testing.T) {
	assert.Equal(t, "08:15", schedule.NextTimeSlot("08:00"))
	assert.Equal(t, "11:00", schedule.NextTimeSlot("10:45"))
	assert.Equal(t, "00:00", schedule.NextTimeSlot("23:45"), "wraps at midnight")
}

func TestParseDay(t *testing.T) {
	cases := map[string]schedule.DayOfWeek{
		"Monday":   schedule.Monday,
		"Sunday":   schedule.Sunday,
		"Segunda":  schedule.Monday,
		"Terça":    schedule.Tuesday,
		"Terca":    schedule.Tuesday,
		"Quarta":   schedule.Wednesday,
		"Quinta":   schedule.Thursday,
		"Sexta":    schedule.Friday,
		"Sábado":   schedule.Saturday,
		"Sabado":   schedule.Saturday,
		"Domingo":  schedule.Sunday,
	}
	for in, want := range cases {
		got, err := schedule.ParseDay(in)
		assert.NoError(t, err, "parsing %q", in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"", "monday", "Funday", "Seg"} {
		_, err := schedule.ParseDay(in)
		assert.ErrorIs(t, err, schedule.ErrInvalidDay, "parsing %q", in)
	}
}

func TestDisplayNameFromEmail(t *testing.T) {
	assert.Equal(t, "Joao Silva",
		schedule.DisplayNameFromEmail("joao.silva@ifsudestemg.edu.br", "ifsudestemg.edu.br"))
	assert.Equal(t, "Ana",
		schedule.DisplayNameFromEmail("ana@ifsudestemg.edu.br", "ifsudestemg.edu.br"))
	assert.Equal(t, "Maria Souza Lima",
		schedule.DisplayNameFromEmail("maria.souza.lima@ifsudestemg.edu.br", "ifsudestemg.edu.br"))
	// Foreign domains still resolve to something readable.
	assert.Equal(t, "Visitor",
		schedule.DisplayNameFromEmail("visitor@gmail.com", "ifsudestemg.edu.br"))
}
