package availability

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type reasonRule struct {
	category BlockedCategory
	keywords []string
}

// reasonTable is consulted top to bottom; the first rule with a matching keyword wins.
// Keywords are normalized at init, so spelling variants that only differ by accents,
// case, underscores or hyphens need a single entry.
var reasonTable = []reasonRule{
	{category: CategoryMaintenance, keywords: []string{
		"maintenance",
		"entretien",
		"صيانة",
	}},
	{category: CategoryRenovation, keywords: []string{
		"renovation",
		"rénovation",
		"travaux",
		"تجديد",
		"ترميم",
	}},
	{category: CategoryPersonal, keywords: []string{
		"personal",
		"personal use",
		"usage personnel",
		"utilisation personnelle",
		"استخدام شخصي",
		"شخصي",
	}},
	{category: CategoryBlocked, keywords: []string{
		"blocked",
		"bloqué",
		"bloquée",
		"محظور",
		"محجوب",
	}},
}

var compiledRules = compileRules(reasonTable)

func compileRules(table []reasonRule) []reasonRule {
	out := make([]reasonRule, 0, len(table))
	for _, rule := range table {
		keywords := make([]string, 0, len(rule.keywords))
		for _, kw := range rule.keywords {
			if n := normalizeReason(kw); n != "" {
				keywords = append(keywords, n)
			}
		}
		out = append(out, reasonRule{category: rule.category, keywords: keywords})
	}
	return out
}

// ClassifyReason maps a free-text blocked reason to a category. Empty input means no
// reason was given and yields CategoryBlocked; unmatched text yields CategoryOther.
func ClassifyReason(reason string) BlockedCategory {
	normalized := normalizeReason(reason)
	if normalized == "" {
		return CategoryBlocked
	}
	for _, rule := range compiledRules {
		for _, kw := range rule.keywords {
			if strings.Contains(normalized, kw) {
				return rule.category
			}
		}
	}
	return CategoryOther
}

// normalizeReason folds case, strips combining marks (Latin accents and Arabic harakat)
// and turns separators into single spaces.
func normalizeReason(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// transformers carry state and cannot be shared between goroutines
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
