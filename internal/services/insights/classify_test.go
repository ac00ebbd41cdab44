package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreBand(t *testing.T) {
	cases := []struct {
		value, max float64
		want       Band
	}{
		{75, 100, BandGood},
		{70, 100, BandGood},
		{69.9, 100, BandFair},
		{50, 100, BandFair},
		{40, 100, BandFair},
		{20, 100, BandPoor},
		{0, 100, BandPoor},
		{7, 10, BandGood},
		{130, 100, BandGood},
		{5, 0, BandPoor},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ScoreBand(c.value, c.max), "%v/%v", c.value, c.max)
	}
}

func TestPercentIsNotClamped(t *testing.T) {
	assert.Equal(t, 130.0, Percent(130, 100))
	assert.Equal(t, 50.0, Percent(5, 10))
	assert.Zero(t, Percent(5, 0))
}

func TestSpamBand(t *testing.T) {
	assert.Equal(t, BandGood, SpamBand(3))
	assert.Equal(t, BandFair, SpamBand(4))
	assert.Equal(t, BandFair, SpamBand(6))
	assert.Equal(t, BandPoor, SpamBand(7))
	assert.Equal(t, "Excellent", SpamCaption(SpamBand(1)))
	assert.Equal(t, "Needs Attention", SpamCaption(SpamBand(9)))
}

func TestLoadTimeBand(t *testing.T) {
	assert.Equal(t, BandGood, LoadTimeBand(900))
	assert.Equal(t, BandGood, LoadTimeBand(1000))
	assert.Equal(t, BandFair, LoadTimeBand(2000))
	assert.Equal(t, BandPoor, LoadTimeBand(2500))
	assert.Equal(t, "Fast", LoadTimeCaption(BandGood))
	assert.Equal(t, "Moderate", LoadTimeCaption(BandFair))
	assert.Equal(t, "Slow", LoadTimeCaption(BandPoor))
}

func TestBandStyles(t *testing.T) {
	assert.Equal(t, BandStyle{Text: "text-emerald-700", Bar: "bg-emerald-400"}, BandGood.Style())
	assert.Equal(t, BandStyle{Text: "text-amber-700", Bar: "bg-amber-400"}, BandFair.Style())
	assert.Equal(t, BandStyle{Text: "text-rose-600", Bar: "bg-rose-400"}, BandPoor.Style())
	assert.Equal(t, "good", BandGood.String())
}

func TestRankingTier(t *testing.T) {
	assert.Equal(t, TierTop10, RankingTier(5))
	assert.Equal(t, TierTop10, RankingTier(10))
	assert.Equal(t, TierTop50, RankingTier(11))
	assert.Equal(t, TierTop100, RankingTier(80))
	assert.Equal(t, TierBeyond100, RankingTier(150))

	seen := map[string]bool{}
	for tier := TierTop10; tier < tierCount; tier++ {
		assert.NotEmpty(t, tier.Badge())
		assert.False(t, seen[tier.Badge()], "badge for %s reused", tier)
		seen[tier.Badge()] = true
	}
}

func TestSourceKinds(t *testing.T) {
	var names []string
	for _, k := range SourceKinds() {
		names = append(names, k.String())
		assert.NotEmpty(t, k.Style().Card)
	}
	assert.Equal(t, []string{"organic", "direct", "referral", "social"}, names)
	assert.Equal(t, "bg-slate-500", SourceKind(42).Style().Bar)
}

func TestGeoColorCycles(t *testing.T) {
	assert.Equal(t, "bg-blue-400", GeoColor(0))
	assert.Equal(t, "bg-indigo-400", GeoColor(4))
	assert.Equal(t, GeoColor(1), GeoColor(6))
}
