package availability

import "strings"

// OverrideEntry is the indexed form of a manual override.
type OverrideEntry struct {
	IsAvailable bool
	Reason      string
}

// OverrideIndex maps property -> day -> override.
type OverrideIndex map[PropertyID]map[Day]OverrideEntry

// ForProperty returns the per-day overrides of one property (nil when there are none).
func (idx OverrideIndex) ForProperty(id PropertyID) map[Day]OverrideEntry {
	return idx[id]
}

// DuplicateOverride records a (property, day) key that appeared more than once.
// Replaced is the entry that lost; Kept is the later row that won.
type DuplicateOverride struct {
	PropertyID PropertyID
	Day        Day
	Replaced   OverrideEntry
	Kept       OverrideEntry
}

// IndexOverrides builds the override lookup. Rows are applied in input order so the
// last row for a key wins; every collision is returned as a DuplicateOverride.
// Rows with an unparsable date are skipped.
func IndexOverrides(rows []ManualOverride) (OverrideIndex, []SkippedRow, []DuplicateOverride) {
	index := make(OverrideIndex)
	var (
		skipped    []SkippedRow
		duplicates []DuplicateOverride
	)
	for _, row := range rows {
		day, err := ParseDay(row.Date)
		if err != nil {
			skipped = append(skipped, SkippedRow{Kind: RowOverride, PropertyID: row.PropertyID, Ref: row.Date, Err: err})
			continue
		}
		days, ok := index[row.PropertyID]
		if !ok {
			days = make(map[Day]OverrideEntry)
			index[row.PropertyID] = days
		}
		entry := OverrideEntry{IsAvailable: row.IsAvailable, Reason: strings.TrimSpace(row.Reason)}
		if prev, exists := days[day]; exists {
			duplicates = append(duplicates, DuplicateOverride{PropertyID: row.PropertyID, Day: day, Replaced: prev, Kept: entry})
		}
		days[day] = entry
	}
	return index, skipped, duplicates
}
