package keywords

import (
	"sort"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

const MaxResults = 10

// Metric is one row as reported by the keyword-volume provider.
type Metric struct {
	Keyword          string
	Volume           int64
	CompetitionIndex float64
	CPC              float64
}

// Rank drops zero-volume rows, classifies the rest, sorts by volume (ties by
// keyword) and keeps the top MaxResults. It returns the rows and their summed volume.
func Rank(metrics []Metric, city string) ([]entity.KeywordResult, int64) {
	results := make([]entity.KeywordResult, 0, len(metrics))
	for _, m := range metrics {
		if m.Volume <= 0 {
			continue
		}
		results = append(results, entity.KeywordResult{
			Keyword:          m.Keyword,
			Volume:           m.Volume,
			CompetitionIndex: m.CompetitionIndex,
			Competition:      CompetitionFromIndex(m.CompetitionIndex),
			CPC:              m.CPC,
			Intent:           ClassifyIntent(m.Keyword, city),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Volume != results[j].Volume {
			return results[i].Volume > results[j].Volume
		}
		return results[i].Keyword < results[j].Keyword
	})
	if len(results) > MaxResults {
		results = results[:MaxResults]
	}

	var total int64
	for _, r := range results {
		total += r.Volume
	}
	return results, total
}
