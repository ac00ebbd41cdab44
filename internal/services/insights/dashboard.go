package insights

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/publicsuffix"

	"brandscope/internal/domain"
)

const defaultBrandName = "Your Brand"

// Dashboard is the render-ready form of InsightsData.
type Dashboard struct {
	Brand    BrandCard
	Overview []MetricCard
	Keywords []KeywordRow
	Sources  []SourceCard
	Geo      []GeoRow
	History  []HistoryRow
}

type BrandCard struct {
	Name    string
	Website string
	Href    string
	Domain  string
}

// Bar is a fill bar; Width is a raw percentage.
type Bar struct {
	Width float64
	Class string
}

type MetricCard struct {
	Label     string
	Icon      string
	Value     string
	Band      *Band
	TextClass string
	Bar       *Bar
	Caption   string
}

type KeywordRow struct {
	Position  int
	Text      string
	Rank      int
	Tier      Tier
	Volume    string
	VolumeBar Bar
}

type SourceCard struct {
	Kind    SourceKind
	Name    string
	Percent string
	Bar     Bar
}

type GeoRow struct {
	Country string
	Traffic string
	Bar     Bar
}

type TrendBadge struct {
	Direction Direction
	Value     string
}

type HistoryRow struct {
	Month        string
	Score        string
	ScoreBand    Band
	ScoreBar     Bar
	Traffic      string
	ScoreTrend   *TrendBadge
	TrafficTrend *TrendBadge
}

// BuildBrandCard prepares the brand header from the session copy.
func BuildBrandCard(ref domain.BrandRef) BrandCard {
	card := BrandCard{Name: ref.Name, Website: ref.Website}
	if card.Name == "" {
		card.Name = defaultBrandName
	}
	if ref.Website == "" {
		return card
	}
	card.Href = ref.Website
	if !strings.Contains(card.Href, "://") {
		card.Href = "https://" + card.Href
	}
	if u, err := url.Parse(card.Href); err == nil {
		host := u.Hostname()
		if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
			card.Domain = d
		} else {
			card.Domain = host
		}
	}
	return card
}

// Build classifies and formats data for display.
func Build(ref domain.BrandRef, data domain.InsightsData) Dashboard {
	return Dashboard{
		Brand:    BuildBrandCard(ref),
		Overview: overviewCards(data.SearchOverview),
		Keywords: keywordRows(data.TopKeywords),
		Sources:  sourceCards(data.TrafficSources),
		Geo:      geoRows(data.Geo),
		History:  historyRows(data.SEOHistory),
	}
}

func scoreCard(label, icon string, v float64) MetricCard {
	band := ScoreBand(v, DefaultMax)
	style := band.Style()
	return MetricCard{
		Label:     label,
		Icon:      icon,
		Value:     FormatNumber(v),
		Band:      &band,
		TextClass: style.Text,
		Bar:       &Bar{Width: Percent(v, DefaultMax), Class: style.Bar},
	}
}

func overviewCards(o domain.SearchOverview) []MetricCard {
	spam := SpamBand(o.SpamScore)
	load := LoadTimeBand(o.LoadTimeMs)
	return []MetricCard{
		scoreCard("Search Score", "zap", o.SearchScore),
		scoreCard("Visibility Index", "trending-up", o.VisibilityIndex),
		scoreCard("Domain Authority", "shield", o.DomainAuthority),
		scoreCard("Page Authority", "bar-chart", o.PageAuthority),
		{
			Label:     "Spam Score",
			Icon:      "shield",
			Value:     FormatNumber(o.SpamScore),
			Band:      &spam,
			TextClass: spam.Style().Text,
			Caption:   SpamCaption(spam),
		},
		{
			Label:     "Indexed Pages",
			Icon:      "search",
			Value:     FormatCount(o.IndexedPages),
			TextClass: "text-slate-800",
			Caption:   "Pages indexed",
		},
		{
			Label:     "Load Time",
			Icon:      "clock",
			Value:     strconv.FormatInt(o.LoadTimeMs, 10) + "ms",
			Band:      &load,
			TextClass: load.Style().Text,
			Caption:   LoadTimeCaption(load),
		},
		scoreCard("Mobile Score", "smartphone", o.MobileScore),
	}
}

func keywordRows(keywords []domain.Keyword) []KeywordRow {
	volumes := make([]float64, len(keywords))
	for i, k := range keywords {
		volumes[i] = float64(k.Volume)
	}
	widths := ProportionalWidths(volumes)
	rows := make([]KeywordRow, len(keywords))
	for i, k := range keywords {
		rows[i] = KeywordRow{
			Position:  i + 1,
			Text:      k.Text,
			Rank:      k.Ranking,
			Tier:      RankingTier(k.Ranking),
			Volume:    FormatCount(k.Volume),
			VolumeBar: Bar{Width: widths[i], Class: "bg-emerald-500"},
		}
	}
	return rows
}

func sourceCards(s domain.TrafficSources) []SourceCard {
	shares := map[SourceKind]float64{
		SourceOrganic:  s.Organic,
		SourceDirect:   s.Direct,
		SourceReferral: s.Referral,
		SourceSocial:   s.Social,
	}
	kinds := SourceKinds()
	cards := make([]SourceCard, len(kinds))
	for i, k := range kinds {
		pct := shares[k]
		cards[i] = SourceCard{
			Kind:    k,
			Name:    k.String(),
			Percent: FormatNumber(pct) + "%",
			Bar:     Bar{Width: pct, Class: k.Style().Bar},
		}
	}
	return cards
}

func geoRows(geo []domain.GeoEntry) []GeoRow {
	traffic := make([]float64, len(geo))
	for i, g := range geo {
		traffic[i] = float64(g.Traffic)
	}
	widths := ProportionalWidths(traffic)
	rows := make([]GeoRow, len(geo))
	for i, g := range geo {
		rows[i] = GeoRow{
			Country: g.Country,
			Traffic: FormatCount(g.Traffic),
			Bar:     Bar{Width: widths[i], Class: GeoColor(i)},
		}
	}
	return rows
}

func historyRows(history []domain.HistoryPoint) []HistoryRow {
	trends := HistoryTrends(history)
	rows := make([]HistoryRow, len(history))
	for i, h := range history {
		band := ScoreBand(h.SearchScore, DefaultMax)
		row := HistoryRow{
			Month:     h.Month,
			Score:     FormatNumber(h.SearchScore),
			ScoreBand: band,
			ScoreBar:  Bar{Width: Percent(h.SearchScore, DefaultMax), Class: band.Style().Bar},
			Traffic:   FormatCount(h.OrganicTraffic),
		}
		if t := trends[i]; t != nil {
			row.ScoreTrend = badge(t.Score)
			row.TrafficTrend = badge(t.Traffic)
		}
		rows[i] = row
	}
	return rows
}

// badge is nil for a flat trend, which renders no indicator.
func badge(t Trend) *TrendBadge {
	if t.Direction == Flat {
		return nil
	}
	return &TrendBadge{Direction: t.Direction, Value: FormatDelta(t.Delta)}
}
