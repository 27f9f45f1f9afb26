// Package i18n holds the calendar labels for every supported locale.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"loftcal/internal/domain/availability"
)

var defaultLabels = map[availability.Locale]map[string]string{
	availability.LocaleFrench: {
		"availability.available":   "Disponible",
		"availability.occupied":    "Occupé",
		"availability.maintenance": "Maintenance",
		"availability.renovation":  "Rénovation",
		"availability.personal":    "Usage personnel",
		"availability.blocked":     "Bloqué",
		"availability.other":       "Indisponible",
		availability.LoftLabelKey:  "Loft",
	},
	availability.LocaleEnglish: {
		"availability.available":   "Available",
		"availability.occupied":    "Occupied",
		"availability.maintenance": "Maintenance",
		"availability.renovation":  "Renovation",
		"availability.personal":    "Personal use",
		"availability.blocked":     "Blocked",
		"availability.other":       "Unavailable",
		availability.LoftLabelKey:  "Loft",
	},
	availability.LocaleArabic: {
		"availability.available":   "متاح",
		"availability.occupied":    "محجوز",
		"availability.maintenance": "صيانة",
		"availability.renovation":  "ترميم",
		"availability.personal":    "استخدام شخصي",
		"availability.blocked":     "محظور",
		"availability.other":       "غير متاح",
		availability.LoftLabelKey:  "لوفت",
	},
}

// Catalog resolves label keys per locale.
type Catalog struct {
	builder *catalog.Builder
	tags    map[availability.Locale]language.Tag
}

// New builds the catalog with the bundled labels.
func New() (*Catalog, error) {
	c := &Catalog{
		builder: catalog.NewBuilder(),
		tags:    make(map[availability.Locale]language.Tag, len(defaultLabels)),
	}
	for locale, labels := range defaultLabels {
		tag, err := language.Parse(string(locale))
		if err != nil {
			return nil, fmt.Errorf("i18n: locale %q: %w", locale, err)
		}
		c.tags[locale] = tag
		for key, label := range labels {
			if err := c.builder.SetString(tag, key, label); err != nil {
				return nil, fmt.Errorf("i18n: %s/%s: %w", locale, key, err)
			}
		}
	}
	return c, nil
}

// MustNew is New for package-level wiring and tests.
func MustNew() *Catalog {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

// Translate returns the label for key, or "" when the locale or key is unknown.
// It satisfies availability.Translator.
func (c *Catalog) Translate(key string, locale availability.Locale) string {
	tag, ok := c.tags[locale]
	if !ok {
		return ""
	}
	p := message.NewPrinter(tag, message.Catalog(c.builder))
	out := p.Sprintf(key)
	if out == key {
		return ""
	}
	return out
}
