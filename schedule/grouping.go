/*
grouping.go - Contiguous slot grouping for merged-cell rendering

PURPOSE:
  Derives contiguous runs of identical slots from a day's ordered slot
  sequence so the UI can render one merged cell per run. Pure function:
  deterministic, re-derivable from the schedule alone, no side effects.

EQUALITY RULE:
  Two adjacent slots share a group iff both are free, or both are booked
  with the same activity and owner email. Details and bookingTime do NOT
  participate: two bookings by the same owner for the same activity merge
  even when their annotations differ. A free/booked boundary always
  starts a new group.
*/
package schedule

// SlotGroup is a contiguous run of equivalent slots, as inclusive
// indexes into the input sequence.
type SlotGroup struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// GroupSlots folds an ordered day sequence (nil = free slot) into
// contiguous groups.
func GroupSlots(slots []*ScheduleSlot) []SlotGroup {
	if len(slots) == 0 {
		return nil
	}
	groups := []SlotGroup{{Start: 0, End: 0}}
	for i := 1; i < len(slots); i++ {
		if sameGroup(slots[i-1], slots[i]) {
			groups[len(groups)-1].End = i
		} else {
			groups = append(groups, SlotGroup{Start: i, End: i})
		}
	}
	return groups
}

func sameGroup(a, b *ScheduleSlot) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Activity == b.Activity && a.User.Email == b.User.Email
}
