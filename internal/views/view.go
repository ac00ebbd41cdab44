//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate

package views

import (
	"strings"

	"github.com/a-h/templ"

	"brandscope/internal/domain"
	"brandscope/internal/services/insights"
)

const InsightsFailedMessage = "Failed to load insights. Please try again later."

// IntakeView is the state of the intake page.
type IntakeView struct {
	Form      domain.BrandIntakeForm
	Errors    map[string]string
	Failed    bool
	Succeeded bool
}

func (v IntakeView) invalid(field string) bool {
	_, bad := v.Errors[field]
	return bad
}

type formField struct {
	name, label, kind, placeholder string
	value                          func(domain.BrandIntakeForm) string
}

var intakeFields = []formField{
	{"name", "Brand Name", "text", "Acme Inc.", func(f domain.BrandIntakeForm) string { return f.Name }},
	{"website", "Website", "text", "https://acme.com", func(f domain.BrandIntakeForm) string { return f.Website }},
	{"email", "Email", "email", "team@acme.com", func(f domain.BrandIntakeForm) string { return f.Email }},
}

func classes(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, c := range parts {
		if c != "" {
			out = append(out, c)
		}
	}
	return strings.Join(out, " ")
}

func barStyle(b insights.Bar) templ.Attributes {
	return templ.Attributes{"style": "width: " + insights.CSSWidth(b.Width)}
}

func trendArrow(d insights.Direction) string {
	if d == insights.Down {
		return "↓"
	}
	return "↑"
}
