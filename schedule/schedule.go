/*
schedule.go - YearSchedule structural operations

PURPOSE:
  Pure map surgery on the nested YearSchedule document: slot lookup,
  placement, removal with cascade cleanup, and deep cloning. No I/O,
  no locking; the engine owns synchronization.

INVARIANTS MAINTAINED HERE:
  - A (week, envID, day, time) tuple maps to at most one slot
  - Removing a slot cascade-deletes now-empty day, envID, and week
    containers; no dangling empty maps persist

SEE ALSO:
  - engine.go: The only mutator of the live document
*/
package schedule

// Slot returns the slot at the given coordinates, if present.
func (ys YearSchedule) Slot(week int, envID string, day DayOfWeek, timeSlot string) (*ScheduleSlot, bool) {
	s, ok := ys[week][envID][day][timeSlot]
	return s, ok
}

// Put places slot at the given coordinates, creating intermediate
// containers as needed and overwriting any existing booking.
func (ys YearSchedule) Put(week int, envID string, day DayOfWeek, timeSlot string, slot *ScheduleSlot) {
	envs, ok := ys[week]
	if !ok {
		envs = make(map[string]WeekSchedule)
		ys[week] = envs
	}
	ws, ok := envs[envID]
	if !ok {
		ws = make(WeekSchedule)
		envs[envID] = ws
	}
	times, ok := ws[day]
	if !ok {
		times = make(map[string]*ScheduleSlot)
		ws[day] = times
	}
	times[timeSlot] = slot
}

// Remove deletes the slot at the given coordinates and cascades the
// cleanup of emptied containers: day first, then envID, then week.
// Returns false if no slot was present.
func (ys YearSchedule) Remove(week int, envID string, day DayOfWeek, timeSlot string) bool {
	times := ys[week][envID][day]
	if _, ok := times[timeSlot]; !ok {
		return false
	}
	delete(times, timeSlot)
	if len(times) == 0 {
		delete(ys[week][envID], day)
		if len(ys[week][envID]) == 0 {
			delete(ys[week], envID)
			if len(ys[week]) == 0 {
				delete(ys, week)
			}
		}
	}
	return true
}

// Clone returns a deep copy of the schedule. Slot structs are copied by
// value, so mutations of the clone never alias the original.
func (ys YearSchedule) Clone() YearSchedule {
	out := make(YearSchedule, len(ys))
	for week, envs := range ys {
		outEnvs := make(map[string]WeekSchedule, len(envs))
		for envID, ws := range envs {
			outWS := make(WeekSchedule, len(ws))
			for day, times := range ws {
				outTimes := make(map[string]*ScheduleSlot, len(times))
				for t, slot := range times {
					copied := *slot
					outTimes[t] = &copied
				}
				outWS[day] = outTimes
			}
			outEnvs[envID] = outWS
		}
		out[week] = outEnvs
	}
	return out
}

// CountSlots returns the number of booked slots in week for envID.
func (ys YearSchedule) CountSlots(week int, envID string) int {
	n := 0
	for _, times := range ys[week][envID] {
		n += len(times)
	}
	return n
}
