package availability

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

type Locale string

const (
	LocaleFrench  Locale = "fr"
	LocaleEnglish Locale = "en"
	LocaleArabic  Locale = "ar"

	// DefaultLocale applies when a caller does not ask for a supported locale.
	DefaultLocale = LocaleFrench
)

// LoftLabelKey is the translation key of the word used to name a loft without a name.
const LoftLabelKey = "availability.loft"

// fallbackLoftWord is used only when the translator has no entry for LoftLabelKey.
const fallbackLoftWord = "Loft"

var (
	supportedLocales = []Locale{LocaleFrench, LocaleEnglish, LocaleArabic}
	localeMatcher    = language.NewMatcher([]language.Tag{language.French, language.English, language.Arabic})
)

func SupportedLocales() []Locale {
	return append([]Locale(nil), supportedLocales...)
}

func (l Locale) Valid() bool {
	for _, s := range supportedLocales {
		if l == s {
			return true
		}
	}
	return false
}

// ParseLocale negotiates a BCP 47 tag or Accept-Language value ("fr-FR", "en;q=0.8,ar")
// against the supported locales. Anything unsupported resolves to fallback, or to
// DefaultLocale when fallback itself is not supported.
func ParseLocale(raw string, fallback Locale) Locale {
	if !fallback.Valid() {
		fallback = DefaultLocale
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, confidence := localeMatcher.Match(tags...)
	if confidence == language.No || idx < 0 || idx >= len(supportedLocales) {
		return fallback
	}
	return supportedLocales[idx]
}

// Translator resolves a label key for a locale. It returns "" when the key is unknown.
type Translator func(key string, locale Locale) string

// TitleInput describes a non-available calendar cell to label.
type TitleInput struct {
	Status       DayStatus
	PropertyName string
	PropertyID   PropertyID
	Locale       Locale
}

// FormatTitle builds "{label} - {property name}" for a calendar event. A missing name is
// replaced by a short name derived from the identifier; an available or unset status is
// labelled as blocked. Labels come from translate; unknown keys fall back to the key.
func FormatTitle(in TitleInput, translate Translator) string {
	status := in.Status
	if status.Kind == KindAvailable || (status.Kind == KindBlocked && !status.Category.Valid()) {
		status = Blocked(CategoryBlocked)
	}
	locale := in.Locale
	if !locale.Valid() {
		locale = DefaultLocale
	}

	label := lookup(translate, status.TranslationKey(), locale)
	name := strings.TrimSpace(in.PropertyName)
	if name == "" {
		name = fallbackPropertyName(in.PropertyID, locale, translate)
	}
	if name == "" {
		return label
	}
	return label + " - " + name
}

func lookup(translate Translator, key string, locale Locale) string {
	if translate != nil {
		if v := strings.TrimSpace(translate(key, locale)); v != "" {
			return v
		}
	}
	return key
}

func fallbackPropertyName(id PropertyID, locale Locale, translate Translator) string {
	suffix := identifierSuffix(string(id))
	if suffix == "" {
		return ""
	}
	word := fallbackLoftWord
	if translate != nil {
		if v := strings.TrimSpace(translate(LoftLabelKey, locale)); v != "" {
			word = v
		}
	}
	return word + " " + suffix
}

// identifierSuffix keeps the last separator-delimited segment when it is short
// ("loft-123-456-789" -> "789"), otherwise the last four characters.
func identifierSuffix(id string) string {
	id = strings.TrimFunc(strings.TrimSpace(id), isSeparator)
	if id == "" {
		return ""
	}
	if i := strings.LastIndexFunc(id, isSeparator); i >= 0 {
		if seg := id[i+1:]; len([]rune(seg)) <= 4 {
			return seg
		}
	}
	r := []rune(id)
	if len(r) > 4 {
		r = r[len(r)-4:]
	}
	return strings.TrimFunc(string(r), isSeparator)
}

func isSeparator(r rune) bool {
	return r == '-' || r == '_' || r == '/' || r == ':' || unicode.IsSpace(r)
}
