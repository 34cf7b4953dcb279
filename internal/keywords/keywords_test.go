package keywords

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

func TestBuildSeedsUsesIndustryBank(t *testing.T) {
	seeds := BuildSeeds(entity.IndustryMedical, "Las Vegas", "", nil)

	require.NotEmpty(t, seeds)
	assert.LessOrEqual(t, len(seeds), MaxSeeds)
	assert.Contains(t, seeds, "weight loss clinic las vegas")
	for _, s := range seeds {
		assert.NotContains(t, s, "{city}")
	}
}

func TestBuildSeedsSmallBusinessInterpolatesService(t *testing.T) {
	seeds := BuildSeeds(entity.IndustrySmallBusiness, "Henderson", "Dog Grooming", nil)

	assert.Contains(t, seeds, "dog grooming henderson")
	assert.Contains(t, seeds, "dog grooming near me")
}

func TestBuildSeedsExplicitOverrideIsCappedAndDeduplicated(t *testing.T) {
	explicit := []string{"Botox  Las Vegas", "botox las vegas"}
	for i := 0; i < 20; i++ {
		explicit = append(explicit, fmt.Sprintf("seed %d", i))
	}

	seeds := BuildSeeds(entity.IndustryVenue, "las vegas", "", explicit)

	assert.Len(t, seeds, MaxSeeds)
	assert.Equal(t, "botox las vegas", seeds[0])
	assert.Equal(t, "seed 0", seeds[1])
}

func TestCompetitionFromIndex(t *testing.T) {
	cases := map[float64]entity.Competition{
		0:    entity.CompetitionLow,
		0.19: entity.CompetitionLow,
		0.2:  entity.CompetitionMedium,
		0.4:  entity.CompetitionMediumHigh,
		0.69: entity.CompetitionMediumHigh,
		0.7:  entity.CompetitionHigh,
		1:    entity.CompetitionHigh,
		75:   entity.CompetitionHigh,
		30:   entity.CompetitionMedium,
	}
	for index, want := range cases {
		assert.Equal(t, want, CompetitionFromIndex(index), "index %v", index)
	}
}

func TestClassifyIntentPriority(t *testing.T) {
	cases := []struct {
		keyword string
		want    entity.Intent
	}{
		{"best weight loss clinic las vegas", entity.IntentHighIntent},
		{"botox cost", entity.IntentHighIntent},
		{"med spa near me", entity.IntentHighIntent},
		{"weight loss clinic las vegas", entity.IntentServiceSeeking},
		{"plumbing services", entity.IntentServiceSeeking},
		{"med spa summerlin", entity.IntentLocalQualified},
		{"med spa reno", entity.IntentLocalQualified},
		{"ozempic", entity.IntentBrandProduct},
		{"medical weight loss", entity.IntentAwareness},
		{"bestow insurance", entity.IntentAwareness},
		{"botox prices", entity.IntentHighIntent},
		{"iv therapy costs las vegas", entity.IntentHighIntent},
		{"med spa pricing", entity.IntentHighIntent},
		{"dermatology clinics las vegas", entity.IntentServiceSeeking},
		{"doctors office henderson", entity.IntentServiceSeeking},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyIntent(tc.keyword, "Reno"), tc.keyword)
	}
}

func TestRankDropsZeroVolumeRows(t *testing.T) {
	metrics := []Metric{
		{Keyword: "weight loss clinic las vegas", Volume: 800, CompetitionIndex: 0.75, CPC: 12},
		{Keyword: "ozempic las vegas", Volume: 0, CompetitionIndex: 0.5, CPC: 20},
	}

	results, total := Rank(metrics, "las vegas")

	require.Len(t, results, 1)
	assert.Equal(t, "weight loss clinic las vegas", results[0].Keyword)
	assert.Equal(t, entity.CompetitionHigh, results[0].Competition)
	assert.Equal(t, entity.IntentServiceSeeking, results[0].Intent)
	assert.Equal(t, int64(800), total)
}

func TestRankSortsAndKeepsTopTen(t *testing.T) {
	var metrics []Metric
	for i := 1; i <= 14; i++ {
		metrics = append(metrics, Metric{Keyword: fmt.Sprintf("kw %02d", i), Volume: int64(i * 10)})
	}
	metrics = append(metrics, Metric{Keyword: "a tie", Volume: 140})

	results, total := Rank(metrics, "")

	require.Len(t, results, MaxResults)
	assert.Equal(t, "a tie", results[0].Keyword)
	assert.Equal(t, "kw 14", results[1].Keyword)
	var sum int64
	for i, r := range results {
		assert.Greater(t, r.Volume, int64(0))
		if i > 0 {
			assert.GreaterOrEqual(t, results[i-1].Volume, r.Volume)
		}
		sum += r.Volume
	}
	assert.Equal(t, sum, total)
}
