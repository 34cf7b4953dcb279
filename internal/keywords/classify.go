package keywords

import (
	"strings"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

var (
	highIntentTerms     = []string{"near me", "cost", "price", "pricing", "best"}
	serviceSeekingTerms = []string{"clinic", "doctor", "services"}
	localPlaces         = []string{
		"las vegas", "henderson", "summerlin", "north las vegas", "boulder city",
		"spring valley", "paradise", "enterprise", "green valley", "centennial hills",
	}
	brandTerms = []string{
		"ozempic", "wegovy", "mounjaro", "zepbound", "semaglutide", "tirzepatide",
		"botox", "dysport", "juvederm", "hydrafacial", "coolsculpting",
	}
)

// CompetitionFromIndex maps a competition index to its tier. Indexes reported
// on a 0-100 scale are normalised to 0-1 first.
func CompetitionFromIndex(index float64) entity.Competition {
	if index > 1 {
		index /= 100
	}
	switch {
	case index >= 0.7:
		return entity.CompetitionHigh
	case index >= 0.4:
		return entity.CompetitionMediumHigh
	case index >= 0.2:
		return entity.CompetitionMedium
	default:
		return entity.CompetitionLow
	}
}

// ClassifyIntent applies the intent rules in priority order; the first match wins.
func ClassifyIntent(keyword, city string) entity.Intent {
	kw := " " + strings.Join(strings.Fields(strings.ToLower(keyword)), " ") + " "

	if containsInflected(kw, highIntentTerms) {
		return entity.IntentHighIntent
	}
	if containsInflected(kw, serviceSeekingTerms) {
		return entity.IntentServiceSeeking
	}
	places := localPlaces
	if c := strings.ToLower(strings.TrimSpace(city)); c != "" {
		places = append([]string{c}, localPlaces...)
	}
	if containsAny(kw, places) {
		return entity.IntentLocalQualified
	}
	if containsAny(kw, brandTerms) {
		return entity.IntentBrandProduct
	}
	return entity.IntentAwareness
}

// containsAny matches whole words only; kw must be space padded.
func containsAny(kw string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(kw, " "+t+" ") {
			return true
		}
	}
	return false
}

// containsInflected is containsAny that also accepts the plural forms of each
// term, so "prices" and "clinics" match like "price" and "clinic".
func containsInflected(kw string, terms []string) bool {
	for _, t := range terms {
		for _, suffix := range pluralSuffixes {
			if strings.Contains(kw, " "+t+suffix+" ") {
				return true
			}
		}
	}
	return false
}

var pluralSuffixes = []string{"", "s", "es"}
