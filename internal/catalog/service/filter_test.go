package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/serp-db/serp-backend/internal/catalog/domain"
)

func TestCategorize(t *testing.T) {
	cases := map[string][]string{
		CategoryEngineering: {"Robotics", "ENGINEERING"},
		CategoryScience:     {"chemistry"},
		CategoryTechnology:  {"Technology"},
		CategoryMathematics: {"Math"},
		CategoryOther:       {"art"},
	}
	for want, tags := range cases {
		assert.Equal(t, want, Categorize(domain.Project{Tags: tags}), "tags %v", tags)
	}
	assert.Equal(t, CategoryEngineering, Categorize(domain.Project{Tags: []string{"biology", "engineering"}}))
}

func TestCostValue(t *testing.T) {
	assert.Equal(t, 340.0, CostValue("$340"))
	assert.Equal(t, 1340.5, CostValue("$1,340.50"))
	assert.Zero(t, CostValue("free"))
	assert.Zero(t, CostValue(""))
}

func TestFilter(t *testing.T) {
	projects := []domain.Project{
		{ID: "oven", Title: "Solar Oven", Cost: "$340", SchoolYear: "2023-2024", Tags: []string{"engineering"}},
		{ID: "bees", Title: "Bee Counter", Cost: "$80", SchoolYear: "2022-2023", Tags: []string{"biology"}},
		{ID: "rover", Title: "Mars Rover", Cost: "$900", SchoolYear: "2023-2024", Tags: []string{"technology"}},
	}

	cases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"everything", Filter{Category: All, Cost: All, SchoolYear: All}, []string{"oven", "bees", "rover"}},
		{"search", Filter{Search: "  OVEN "}, []string{"oven"}},
		{"category", Filter{Category: CategoryScience}, []string{"bees"}},
		{"low cost", Filter{Cost: CostLow}, []string{"bees"}},
		{"medium cost", Filter{Cost: CostMedium}, []string{"oven"}},
		{"high cost", Filter{Cost: CostHigh}, []string{"rover"}},
		{"school year", Filter{SchoolYear: "2023-2024"}, []string{"oven", "rover"}},
		{"combined", Filter{SchoolYear: "2023-2024", Cost: CostHigh}, []string{"rover"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(tc.filter.Apply(projects)))
		})
	}
}

func TestProjectOfTheYearAndSchoolYears(t *testing.T) {
	projects := []domain.Project{
		{ID: "a", SchoolYear: "2023-2024"},
		{ID: "b", SchoolYear: "", IsProjectOfTheYear: true},
		{ID: "c", SchoolYear: "2022-2023", IsProjectOfTheYear: true},
		{ID: "d", SchoolYear: "2023-2024"},
	}

	poty, ok := ProjectOfTheYear(projects)
	assert.True(t, ok)
	assert.Equal(t, "b", poty.ID)

	_, ok = ProjectOfTheYear(projects[:1])
	assert.False(t, ok)

	assert.Equal(t, []string{"2023-2024", "2022-2023"}, SchoolYears(projects))
}

func TestOwnedBy(t *testing.T) {
	projects := []domain.Project{
		{ID: "a", Creators: []domain.Creator{{ExternalAuthID: "u1"}, {ExternalAuthID: "u2"}}},
		{ID: "b", Creators: []domain.Creator{{ExternalAuthID: "u3"}}},
		{ID: "c", Creators: []domain.Creator{{ExternalAuthID: ""}}},
	}
	assert.Equal(t, []string{"a"}, ids(OwnedBy(projects, "u2")))
	assert.Empty(t, OwnedBy(projects, ""))
}
