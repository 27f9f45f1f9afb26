package availability

import "fmt"

// BlockedCategory is the closed set of reasons a day can be unavailable
// without a guest holding it.
type BlockedCategory uint8

const (
	categoryUnset BlockedCategory = iota
	CategoryMaintenance
	CategoryRenovation
	CategoryPersonal
	CategoryBlocked
	CategoryOther
)

// Categories lists every valid category in classification priority order.
func Categories() []BlockedCategory {
	return []BlockedCategory{CategoryMaintenance, CategoryRenovation, CategoryPersonal, CategoryBlocked, CategoryOther}
}

func (c BlockedCategory) Valid() bool {
	return c >= CategoryMaintenance && c <= CategoryOther
}

func (c BlockedCategory) String() string {
	switch c {
	case CategoryMaintenance:
		return "maintenance"
	case CategoryRenovation:
		return "renovation"
	case CategoryPersonal:
		return "personal"
	case CategoryBlocked:
		return "blocked"
	case CategoryOther:
		return "other"
	default:
		return ""
	}
}

// TranslationKey is the lookup key for the category label.
func (c BlockedCategory) TranslationKey() string {
	if !c.Valid() {
		c = CategoryBlocked
	}
	return "availability." + c.String()
}

func ParseCategory(raw string) (BlockedCategory, bool) {
	for _, c := range Categories() {
		if c.String() == raw {
			return c, true
		}
	}
	return categoryUnset, false
}

type StatusKind uint8

const (
	KindAvailable StatusKind = iota
	KindOccupied
	KindBlocked
)

// DayStatus is the resolved state of one (property, day) cell. The zero value is available.
type DayStatus struct {
	Kind     StatusKind
	Category BlockedCategory
}

var (
	Available = DayStatus{Kind: KindAvailable}
	Occupied  = DayStatus{Kind: KindOccupied}
)

// Blocked builds a blocked status; unknown categories collapse to CategoryBlocked.
func Blocked(c BlockedCategory) DayStatus {
	if !c.Valid() {
		c = CategoryBlocked
	}
	return DayStatus{Kind: KindBlocked, Category: c}
}

func (s DayStatus) IsAvailable() bool { return s.Kind == KindAvailable }

func (s DayStatus) String() string {
	switch s.Kind {
	case KindOccupied:
		return "occupied"
	case KindBlocked:
		return Blocked(s.Category).Category.String()
	default:
		return "available"
	}
}

// TranslationKey returns the label key for the status as shown on a calendar.
func (s DayStatus) TranslationKey() string {
	switch s.Kind {
	case KindOccupied:
		return "availability.occupied"
	case KindBlocked:
		return s.Category.TranslationKey()
	default:
		return "availability.available"
	}
}

// ParseDayStatus is the inverse of String.
func ParseDayStatus(raw string) (DayStatus, error) {
	switch raw {
	case "available":
		return Available, nil
	case "occupied":
		return Occupied, nil
	}
	if c, ok := ParseCategory(raw); ok {
		return Blocked(c), nil
	}
	return DayStatus{}, fmt.Errorf("availability: unknown day status %q", raw)
}

func (s DayStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *DayStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseDayStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
