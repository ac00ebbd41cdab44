package domain

// Core domain models. The JSON tags follow the collaborator backend's wire
// shape; nothing in this package talks to the network.

// BrandIntakeForm is the candidate submitted from the intake page.
type BrandIntakeForm struct {
	Name    string `json:"name"`
	Website string `json:"website"`
	Email   string `json:"email"`
}

// Brand is what the backend returns after a successful intake.
type Brand struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Website string `json:"website"`
	Email   string `json:"email"`
}

// Ref returns the read-only copy kept in the session.
func (b Brand) Ref() BrandRef {
	return BrandRef{ID: b.ID, Name: b.Name, Website: b.Website}
}

// BrandRef is the session-scoped view of a Brand.
type BrandRef struct {
	ID      string
	Name    string
	Website string
}

type InsightsData struct {
	SearchOverview SearchOverview `json:"search_overview"`
	TopKeywords    []Keyword      `json:"top_keywords"`
	Geo            []GeoEntry     `json:"geo_distribution"`
	TrafficSources TrafficSources `json:"traffic_sources"`
	SEOHistory     []HistoryPoint `json:"seo_history"`
}

type SearchOverview struct {
	SearchScore     float64 `json:"search_score"`
	VisibilityIndex float64 `json:"visibility_index"`
	DomainAuthority float64 `json:"domain_authority"`
	PageAuthority   float64 `json:"page_authority"`
	SpamScore       float64 `json:"spam_score"`
	IndexedPages    int64   `json:"indexed_pages"`
	LoadTimeMs      int64   `json:"load_time_ms"`
	MobileScore     float64 `json:"mobile_score"`
}

type Keyword struct {
	Text    string `json:"keyword"`
	Volume  int64  `json:"volume"`
	Ranking int    `json:"ranking"`
}

type GeoEntry struct {
	Country string `json:"country"`
	Traffic int64  `json:"traffic"`
}

// TrafficSources holds percentage shares; they are not required to sum to 100.
type TrafficSources struct {
	Organic  float64 `json:"organic"`
	Direct   float64 `json:"direct"`
	Referral float64 `json:"referral"`
	Social   float64 `json:"social"`
}

// HistoryPoint entries arrive newest first.
type HistoryPoint struct {
	Month          string  `json:"month"`
	SearchScore    float64 `json:"search_score"`
	OrganicTraffic int64   `json:"organic_traffic"`
}
