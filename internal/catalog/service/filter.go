package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/serp-db/serp-backend/internal/catalog/domain"
)

const All = "All"

// Display categories derived from tags.
const (
	CategoryEngineering = "Engineering"
	CategoryScience     = "Science"
	CategoryTechnology  = "Technology"
	CategoryMathematics = "Mathematics"
	CategoryOther       = "Other"
)

// Cost buckets over the numeric value of the display cost.
const (
	CostLow    = "Low"
	CostMedium = "Medium"
	CostHigh   = "High"
)

var nonNumeric = regexp.MustCompile(`[^0-9.\-]+`)

// Categorize derives a project's display category from its tags.
func Categorize(p domain.Project) string {
	tags := make(map[string]bool, len(p.Tags))
	for _, t := range p.Tags {
		tags[strings.ToLower(t)] = true
	}
	switch {
	case tags["engineering"]:
		return CategoryEngineering
	case tags["biology"] || tags["chemistry"]:
		return CategoryScience
	case tags["technology"]:
		return CategoryTechnology
	case tags["math"] || tags["mathematics"]:
		return CategoryMathematics
	default:
		return CategoryOther
	}
}

// CostValue parses a display cost such as "$1,340" into a number; unparseable costs are 0.
func CostValue(cost string) float64 {
	f, err := strconv.ParseFloat(nonNumeric.ReplaceAllString(cost, ""), 64)
	if err != nil {
		return 0
	}
	return f
}

// Filter selects projects the way the catalogue page does. Empty fields and "All" match everything.
type Filter struct {
	Search     string
	Category   string
	Cost       string
	SchoolYear string
}

func (f Filter) Match(p domain.Project) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" &&
		!strings.Contains(strings.ToLower(p.Title), q) {
		return false
	}
	if !isAll(f.Category) && Categorize(p) != f.Category {
		return false
	}
	if !isAll(f.SchoolYear) && p.SchoolYear != f.SchoolYear {
		return false
	}

	cost := CostValue(p.Cost)
	switch f.Cost {
	case CostLow:
		return cost <= 100
	case CostMedium:
		return cost > 100 && cost <= 500
	case CostHigh:
		return cost > 500
	}
	return true
}

// Apply returns the matching projects in their original order.
func (f Filter) Apply(projects []domain.Project) []domain.Project {
	out := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

func isAll(v string) bool {
	return v == "" || v == All
}

// ProjectOfTheYear returns the first project flagged as project of the year.
func ProjectOfTheYear(projects []domain.Project) (domain.Project, bool) {
	for _, p := range projects {
		if p.IsProjectOfTheYear {
			return p, true
		}
	}
	return domain.Project{}, false
}

// SchoolYears lists the distinct non-empty school years in order of first appearance.
func SchoolYears(projects []domain.Project) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, p := range projects {
		if p.SchoolYear == "" || seen[p.SchoolYear] {
			continue
		}
		seen[p.SchoolYear] = true
		out = append(out, p.SchoolYear)
	}
	return out
}

// OwnedBy keeps the projects with at least one creator whose auth id equals externalID.
func OwnedBy(projects []domain.Project, externalID string) []domain.Project {
	out := make([]domain.Project, 0)
	if externalID == "" {
		return out
	}
	for _, p := range projects {
		for _, c := range p.Creators {
			if c.ExternalAuthID == externalID {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
