package availability

import (
	"encoding/json"
	"testing"
)

var labels = map[Locale]map[string]string{
	LocaleFrench: {
		"availability.maintenance": "Maintenance",
		"availability.blocked":     "Bloqué",
		"availability.occupied":    "Occupé",
		LoftLabelKey:               "Loft",
	},
	LocaleEnglish: {
		"availability.maintenance": "Maintenance",
		"availability.blocked":     "Blocked",
		"availability.personal":    "Personal use",
	},
}

func fakeTranslator(key string, locale Locale) string {
	return labels[locale][key]
}

func TestFormatTitle(t *testing.T) {
	tests := []struct {
		name string
		in   TitleInput
		want string
	}{
		{
			name: "fallback name from identifier",
			in:   TitleInput{Status: Blocked(CategoryMaintenance), PropertyID: "loft-123-456-789", Locale: LocaleFrench},
			want: "Maintenance - Loft 789",
		},
		{
			name: "property name wins",
			in:   TitleInput{Status: Occupied, PropertyName: "Le Marais", PropertyID: "loft-1", Locale: LocaleFrench},
			want: "Occupé - Le Marais",
		},
		{
			name: "missing category defaults to blocked",
			in:   TitleInput{PropertyName: "Le Marais", Locale: LocaleFrench},
			want: "Bloqué - Le Marais",
		},
		{
			name: "unknown locale uses default",
			in:   TitleInput{Status: Blocked(CategoryBlocked), PropertyName: "Casbah", Locale: "de"},
			want: "Bloqué - Casbah",
		},
		{
			name: "loft word falls back when untranslated",
			in:   TitleInput{Status: Blocked(CategoryPersonal), PropertyID: "9f8e7d6c5b4a", Locale: LocaleEnglish},
			want: "Personal use - Loft 5b4a",
		},
		{
			name: "missing label shows key",
			in:   TitleInput{Status: Blocked(CategoryOther), PropertyName: "Casbah", Locale: LocaleEnglish},
			want: "availability.other - Casbah",
		},
		{
			name: "no name and no id",
			in:   TitleInput{Status: Blocked(CategoryMaintenance), Locale: LocaleEnglish},
			want: "Maintenance",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTitle(tt.in, fakeTranslator); got != tt.want {
				t.Fatalf("FormatTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatTitleNilTranslator(t *testing.T) {
	got := FormatTitle(TitleInput{Status: Occupied, PropertyID: "loft-42"}, nil)
	if got != "availability.occupied - Loft 42" {
		t.Fatalf("unexpected title %q", got)
	}
}

func TestIdentifierSuffix(t *testing.T) {
	tests := []struct{ in, want string }{
		{in: "loft-123-456-789", want: "789"},
		{in: "loft_7", want: "7"},
		{in: "abcdef", want: "cdef"},
		{in: "3f2b9c1d-4e5f-6a7b-8c9d-0e1f2a3b4c5d", want: "4c5d"},
		{in: "loft-", want: "loft"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := identifierSuffix(tt.in); got != tt.want {
			t.Errorf("identifierSuffix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseLocale(t *testing.T) {
	tests := []struct {
		raw      string
		fallback Locale
		want     Locale
	}{
		{raw: "fr", fallback: LocaleEnglish, want: LocaleFrench},
		{raw: "fr-FR", fallback: LocaleEnglish, want: LocaleFrench},
		{raw: "ar-DZ", fallback: LocaleFrench, want: LocaleArabic},
		{raw: "en-GB,fr;q=0.5", fallback: LocaleFrench, want: LocaleEnglish},
		{raw: "de", fallback: LocaleEnglish, want: LocaleEnglish},
		{raw: "", fallback: LocaleArabic, want: LocaleArabic},
		{raw: "", fallback: "xx", want: DefaultLocale},
		{raw: "!!", fallback: LocaleEnglish, want: LocaleEnglish},
	}
	for _, tt := range tests {
		if got := ParseLocale(tt.raw, tt.fallback); got != tt.want {
			t.Errorf("ParseLocale(%q, %q) = %q, want %q", tt.raw, tt.fallback, got, tt.want)
		}
	}
}

func TestDayStatusText(t *testing.T) {
	for _, s := range []DayStatus{Available, Occupied, Blocked(CategoryMaintenance), Blocked(CategoryRenovation), Blocked(CategoryPersonal), Blocked(CategoryBlocked), Blocked(CategoryOther)} {
		raw, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("marshal %s: %v", s, err)
		}
		var back DayStatus
		if err := json.Unmarshal(raw, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if back != s {
			t.Fatalf("round trip %s -> %s", s, back)
		}
	}
	if _, err := ParseDayStatus("closed"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
	if got := Blocked(BlockedCategory(99)); got.Category != CategoryBlocked {
		t.Fatalf("invalid category must collapse to blocked, got %v", got.Category)
	}
}
