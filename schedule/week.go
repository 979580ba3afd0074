/*
week.go - Week numbering, time-slot arithmetic, and day normalization

PURPOSE:
  Calendar helpers shared by the engine and the projection logic: ISO
  week numbers with the campus 52-week wrap, the rolling display window,
  15-minute slot arithmetic, and day-of-week parsing that accepts both
  canonical English identifiers and the pt-BR names the UI uses.

SEE ALSO:
  - project.go: Uses WindowWeeks for commission projection
  - engine.go: Uses ParseDay and ValidTimeSlot to gate mutations
*/
package schedule

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const (
	// MaxWeeksYear caps the week numbering; the week after 52 wraps to 1.
	MaxWeeksYear = 52

	// CommissionWeek is the sentinel week number marking a recurring
	// commission booking that applies to every displayed week.
	CommissionWeek = 100

	// MinutesPerSlot is the duration of one bookable cell.
	MinutesPerSlot = 15
)

// =============================================================================
// WEEK NUMBERING
// =============================================================================

// WeekNumber returns the ISO 8601 week number of t.
func WeekNumber(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// NextWeek returns the week following w, wrapping 52 -> 1.
func NextWeek(w int) int {
	if w+1 > MaxWeeksYear {
		return 1
	}
	return w + 1
}

// WindowWeeks returns the display window starting at current: the current
// week plus count-1 following weeks, in order, wrapping at year end.
func WindowWeeks(current, count int) []int {
	if count < 1 {
		count = 1
	}
	weeks := make([]int, 0, count)
	w := current
	for i := 0; i < count; i++ {
		weeks = append(weeks, w)
		w = NextWeek(w)
	}
	return weeks
}

// CooldownElapsed reports whether enough time has passed since the last
// successful remote sync to justify another fetch.
func CooldownElapsed(lastSync, now time.Time, cooldown time.Duration) bool {
	return now.Sub(lastSync) >= cooldown
}

// =============================================================================
// TIME SLOTS
// =============================================================================

// ValidTimeSlot reports whether s is an HH:MM value on the 15-minute grid.
func ValidTimeSlot(s string) bool {
	var h, m int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return false
	}
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	return h >= 0 && h < 24 && m >= 0 && m < 60 && m%MinutesPerSlot == 0
}

// NextTimeSlot returns the slot MinutesPerSlot after s, wrapping at
// midnight. Input must be a valid slot.
func NextTimeSlot(s string) string {
	var h, m int
	fmt.Sscanf(s, "%02d:%02d", &h, &m)
	m += MinutesPerSlot
	if m >= 60 {
		m -= 60
		h++
		if h >= 24 {
			h = 0
		}
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// =============================================================================
// DAY NORMALIZATION
// =============================================================================

var canonicalDays = map[DayOfWeek]bool{
	Monday: true, Tuesday: true, Wednesday: true, Thursday: true,
	Friday: true, Saturday: true, Sunday: true,
}

// daysFromPortuguese maps the pt-BR day names the UI renders to their
// canonical identifiers. Unaccented spellings are accepted too.
var daysFromPortuguese = map[string]DayOfWeek{
	"Segunda": Monday,
	"Terça":   Tuesday,
	"Terca":   Tuesday,
	"Quarta":  Wednesday,
	"Quinta":  Thursday,
	"Sexta":   Friday,
	"Sábado":  Saturday,
	"Sabado":  Saturday,
	"Domingo": Sunday,
}

// ParseDay normalizes a caller-supplied day to its canonical English
// identifier, accepting pt-BR names. Unknown values return ErrInvalidDay.
func ParseDay(s string) (DayOfWeek, error) {
	d := DayOfWeek(s)
	if canonicalDays[d] {
		return d, nil
	}
	if d, ok := daysFromPortuguese[s]; ok {
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDay, s)
}

// =============================================================================
// DISPLAY NAMES
// =============================================================================

// DisplayNameFromEmail derives a human-readable name from an
// institutional email: the domain suffix is stripped and the remaining
// dot-separated local part is title-cased.
//
//	joao.silva@ifsudestemg.edu.br -> "Joao Silva"
func DisplayNameFromEmail(email, domain string) string {
	local := strings.TrimSuffix(email, "@"+domain)
	if i := strings.IndexByte(local, '@'); i >= 0 {
		local = local[:i]
	}
	parts := strings.Split(local, ".")
	for i, p := range parts {
		parts[i] = titleWord(p)
	}
	return strings.Join(parts, " ")
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
