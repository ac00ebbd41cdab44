package insights

// Band is the qualitative classification of a metric.
type Band int

const (
	BandGood Band = iota
	BandFair
	BandPoor
	bandCount
)

// BandStyle holds the display tokens of a band.
type BandStyle struct {
	Text string
	Bar  string
}

var bandStyles = [...]BandStyle{
	BandGood: {Text: "text-emerald-700", Bar: "bg-emerald-400"},
	BandFair: {Text: "text-amber-700", Bar: "bg-amber-400"},
	BandPoor: {Text: "text-rose-600", Bar: "bg-rose-400"},
}

// Every band has exactly one style entry.
var (
	_ [len(bandStyles) - int(bandCount)]struct{}
	_ [int(bandCount) - len(bandStyles)]struct{}
)

func (b Band) String() string {
	switch b {
	case BandGood:
		return "good"
	case BandFair:
		return "fair"
	case BandPoor:
		return "poor"
	}
	return "unknown"
}

func (b Band) Style() BandStyle {
	if b < 0 || b >= bandCount {
		return bandStyles[BandPoor]
	}
	return bandStyles[b]
}

// DefaultMax is the scale of score metrics.
const DefaultMax = 100

// Percent is value as a percentage of max. It is not clamped.
func Percent(value, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return value * 100 / max
}

// ScoreBand classifies value against max: good from 70%, fair from 40%.
func ScoreBand(value, max float64) Band {
	if max <= 0 {
		return BandPoor
	}
	switch p := Percent(value, max); {
	case p >= 70:
		return BandGood
	case p >= 40:
		return BandFair
	}
	return BandPoor
}

// SpamBand classifies a 0-10 spam score; lower is better.
func SpamBand(score float64) Band {
	switch {
	case score <= 3:
		return BandGood
	case score <= 6:
		return BandFair
	}
	return BandPoor
}

// LoadTimeBand classifies a page load time in milliseconds.
func LoadTimeBand(ms int64) Band {
	switch {
	case ms <= 1000:
		return BandGood
	case ms <= 2000:
		return BandFair
	}
	return BandPoor
}

var spamCaptions = [...]string{
	BandGood: "Excellent",
	BandFair: "Good",
	BandPoor: "Needs Attention",
}

var loadTimeCaptions = [...]string{
	BandGood: "Fast",
	BandFair: "Moderate",
	BandPoor: "Slow",
}

var (
	_ [len(spamCaptions) - int(bandCount)]struct{}
	_ [int(bandCount) - len(spamCaptions)]struct{}
	_ [len(loadTimeCaptions) - int(bandCount)]struct{}
	_ [int(bandCount) - len(loadTimeCaptions)]struct{}
)

func SpamCaption(b Band) string     { return spamCaptions[b.clamp()] }
func LoadTimeCaption(b Band) string { return loadTimeCaptions[b.clamp()] }

func (b Band) clamp() Band {
	if b < 0 || b >= bandCount {
		return BandPoor
	}
	return b
}

// Tier buckets a keyword ranking position.
type Tier int

const (
	TierTop10 Tier = iota
	TierTop50
	TierTop100
	TierBeyond100
	tierCount
)

var tierBadges = [...]string{
	TierTop10:     "bg-emerald-50 text-emerald-700 border-emerald-200",
	TierTop50:     "bg-blue-50 text-blue-700 border-blue-200",
	TierTop100:    "bg-amber-50 text-amber-700 border-amber-200",
	TierBeyond100: "bg-slate-50 text-slate-700 border-slate-200",
}

var (
	_ [len(tierBadges) - int(tierCount)]struct{}
	_ [int(tierCount) - len(tierBadges)]struct{}
)

func RankingTier(rank int) Tier {
	switch {
	case rank <= 10:
		return TierTop10
	case rank <= 50:
		return TierTop50
	case rank <= 100:
		return TierTop100
	}
	return TierBeyond100
}

func (t Tier) String() string {
	switch t {
	case TierTop10:
		return "top-10"
	case TierTop50:
		return "top-50"
	case TierTop100:
		return "top-100"
	case TierBeyond100:
		return "beyond-100"
	}
	return "unknown"
}

func (t Tier) Badge() string {
	if t < 0 || t >= tierCount {
		return tierBadges[TierBeyond100]
	}
	return tierBadges[t]
}

// SourceKind is one of the fixed traffic sources.
type SourceKind int

const (
	SourceOrganic SourceKind = iota
	SourceDirect
	SourceReferral
	SourceSocial
	sourceCount
)

// SourceStyle holds the card and bar tokens of a traffic source.
type SourceStyle struct {
	Card string
	Bar  string
}

var sourceStyles = [...]SourceStyle{
	SourceOrganic:  {Card: "bg-emerald-50 border-emerald-200 text-emerald-900", Bar: "bg-emerald-500"},
	SourceDirect:   {Card: "bg-blue-50 border-blue-200 text-blue-900", Bar: "bg-blue-500"},
	SourceReferral: {Card: "bg-purple-50 border-purple-200 text-purple-900", Bar: "bg-purple-500"},
	SourceSocial:   {Card: "bg-orange-50 border-orange-200 text-orange-900", Bar: "bg-orange-500"},
}

var sourceNames = [...]string{
	SourceOrganic:  "organic",
	SourceDirect:   "direct",
	SourceReferral: "referral",
	SourceSocial:   "social",
}

var (
	_ [len(sourceStyles) - int(sourceCount)]struct{}
	_ [int(sourceCount) - len(sourceStyles)]struct{}
	_ [len(sourceNames) - int(sourceCount)]struct{}
	_ [int(sourceCount) - len(sourceNames)]struct{}
)

// SourceKinds lists the sources in display order.
func SourceKinds() []SourceKind {
	return []SourceKind{SourceOrganic, SourceDirect, SourceReferral, SourceSocial}
}

func (k SourceKind) String() string {
	if k < 0 || k >= sourceCount {
		return "unknown"
	}
	return sourceNames[k]
}

func (k SourceKind) Style() SourceStyle {
	if k < 0 || k >= sourceCount {
		return SourceStyle{Card: "bg-slate-50 border-slate-200 text-slate-900", Bar: "bg-slate-500"}
	}
	return sourceStyles[k]
}

var geoColors = [...]string{
	"bg-blue-400",
	"bg-purple-400",
	"bg-emerald-400",
	"bg-orange-400",
	"bg-indigo-400",
}

// GeoColor cycles through the geo palette by row index.
func GeoColor(index int) string {
	if index < 0 {
		index = -index
	}
	return geoColors[index%len(geoColors)]
}
