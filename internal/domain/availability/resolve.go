package availability

// ResolveDay decides the status of one cell. A held reservation beats any override,
// including one that marks the day available; an unavailable override is classified
// by its reason; everything else is available.
func ResolveDay(day Day, booked BookedDays, overrides map[Day]OverrideEntry) DayStatus {
	if booked.Has(day) {
		return Occupied
	}
	if o, ok := overrides[day]; ok && !o.IsAvailable {
		return Blocked(ClassifyReason(o.Reason))
	}
	return Available
}
