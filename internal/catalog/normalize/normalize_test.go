package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serp-db/serp-backend/internal/catalog/domain"
)

func serviceDoc(id string, fields map[string]any) domain.Document {
	return domain.NewDocument(domain.CollectionServices, id, fields)
}

func validService() map[string]any {
	return map[string]any{
		"name":        "Widget",
		"costperunit": "9.99",
		"quantity":    "2",
		"reason":      "test",
		"link":        "http://x",
	}
}

func TestService_NumericCoercionEquivalence(t *testing.T) {
	fromString := validService()
	fromString["costperunit"] = "12.50"
	fromNumber := validService()
	fromNumber["costperunit"] = 12.50

	a, err := Service(serviceDoc("s1", fromString))
	require.NoError(t, err)
	b, err := Service(serviceDoc("s1", fromNumber))
	require.NoError(t, err)

	assert.Equal(t, 12.5, a.CostPerUnit)
	assert.Equal(t, a, b)
}

func TestService_Coerced(t *testing.T) {
	s, err := Service(serviceDoc("s1", validService()))
	require.NoError(t, err)
	assert.Equal(t, domain.Service{
		ID:          "s1",
		Name:        "Widget",
		CostPerUnit: 9.99,
		Quantity:    2,
		Reason:      "test",
		Link:        "http://x",
	}, s)
}

func TestService_RequiredFields(t *testing.T) {
	for _, field := range ServiceRequired {
		t.Run("missing "+field, func(t *testing.T) {
			fields := validService()
			delete(fields, field)

			_, err := Service(serviceDoc("s9", fields))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, field, ve.Field)
			assert.Equal(t, "s9", ve.EntityID)
			assert.Equal(t, domain.CollectionServices, ve.Collection)
		})
	}
}

func TestService_BlankStringCountsAsMissing(t *testing.T) {
	fields := validService()
	fields["link"] = "   "
	_, err := Service(serviceDoc("s1", fields))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_BadNumbers(t *testing.T) {
	cases := map[string]map[string]any{
		"unparseable cost": {"costperunit": "twelve"},
		"negative cost":    {"costperunit": -1.0},
		"fractional qty":   {"quantity": "2.5"},
		"negative qty":     {"quantity": int64(-3)},
		"boolean cost":     {"costperunit": true},
		"unparseable qty":  {"quantity": "a few"},
	}
	for name, override := range cases {
		t.Run(name, func(t *testing.T) {
			fields := validService()
			for k, v := range override {
				fields[k] = v
			}
			_, err := Service(serviceDoc("s1", fields))
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestService_QuantityOutOfRange(t *testing.T) {
	for _, qty := range []any{"1e30", 1e30, "9223372036854775808"} {
		fields := validService()
		fields["quantity"] = qty
		_, err := Service(serviceDoc("s1", fields))
		require.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), "out of range")
	}
}

func TestService_QuantityOptional(t *testing.T) {
	fields := validService()
	delete(fields, "quantity")
	s, err := Service(serviceDoc("s1", fields))
	require.NoError(t, err)
	assert.Zero(t, s.Quantity)
}

func TestService_FreeItemAllowed(t *testing.T) {
	fields := validService()
	fields["costperunit"] = int64(0)
	s, err := Service(serviceDoc("s1", fields))
	require.NoError(t, err)
	assert.Zero(t, s.CostPerUnit)
}

func projectFields() map[string]any {
	return map[string]any{
		"title":       "Solar Oven",
		"image":       "https://img/oven.png",
		"cost":        "$340",
		"schoolYear":  "2023-2024",
		"status":      "complete",
		"link":        "https://example.org/oven",
		"lastUpdated": time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		"tags":        []any{"Engineering", "Energy", "Engineering"},
		"creators":    []any{domain.NewReference("creators", "c1")},
	}
}

func TestProject_Defaults(t *testing.T) {
	p, err := Project(domain.NewDocument(domain.CollectionProjects, "p1", projectFields()))
	require.NoError(t, err)

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "", p.Description)
	assert.Equal(t, []string{"Engineering", "Energy"}, p.Tags)
	assert.NotNil(t, p.Technologies)
	assert.Empty(t, p.Technologies)
	assert.NotNil(t, p.Creators)
	assert.NotNil(t, p.ProductsAndServices)
	assert.False(t, p.IsProjectOfTheYear)
	assert.Equal(t, "$340", p.Cost)
}

func TestProject_NumericCostAndStringTimestamp(t *testing.T) {
	fields := projectFields()
	fields["cost"] = int64(120)
	fields["lastUpdated"] = "2024-05-01T10:00:00Z"
	fields["isProjectOfTheYear"] = true

	p, err := Project(domain.NewDocument(domain.CollectionProjects, "p1", fields))
	require.NoError(t, err)
	assert.Equal(t, "$120", p.Cost)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), p.LastUpdated)
	assert.True(t, p.IsProjectOfTheYear)
}

func TestProject_SecondsTimestamp(t *testing.T) {
	fields := projectFields()
	fields["lastUpdated"] = map[string]any{"seconds": float64(1714557600), "nanoseconds": float64(0)}

	p, err := Project(domain.NewDocument(domain.CollectionProjects, "p1", fields))
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1714557600, 0).UTC(), p.LastUpdated)
}

func TestProject_Invalid(t *testing.T) {
	fields := projectFields()
	fields["tags"] = []any{"ok", 7}
	_, err := Project(domain.NewDocument(domain.CollectionProjects, "p1", fields))
	assert.ErrorIs(t, err, domain.ErrValidation)

	fields = projectFields()
	delete(fields, "title")
	_, err = Project(domain.NewDocument(domain.CollectionProjects, "p1", fields))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = Project(domain.NewDocument(domain.CollectionProjects, "", projectFields()))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProjectLinks(t *testing.T) {
	fields := projectFields()
	fields["ProductsAndServices"] = []any{"ProductsAndServices/s1", domain.NewReference("ProductsAndServices", "s2")}

	links, err := ProjectLinks(domain.NewDocument(domain.CollectionProjects, "p1", fields))
	require.NoError(t, err)
	assert.Equal(t, []domain.Reference{{Collection: "creators", ID: "c1"}}, links.Creators)
	assert.Equal(t, []domain.Reference{
		{Collection: "ProductsAndServices", ID: "s1"},
		{Collection: "ProductsAndServices", ID: "s2"},
	}, links.Services)
}

func TestProjectLinks_MissingFieldsAreEmpty(t *testing.T) {
	links, err := ProjectLinks(domain.NewDocument(domain.CollectionProjects, "p1", map[string]any{}))
	require.NoError(t, err)
	assert.Empty(t, links.Creators)
	assert.Empty(t, links.Services)
}

func TestProjectLinks_Malformed(t *testing.T) {
	fields := projectFields()
	fields["creators"] = []any{domain.NewReference("creators", "c1"), 42}

	_, err := ProjectLinks(domain.NewDocument(domain.CollectionProjects, "p1", fields))
	assert.ErrorIs(t, err, domain.ErrMalformedReference)
}

func TestCreator(t *testing.T) {
	doc := domain.NewDocument(domain.CollectionCreators, "c1", map[string]any{
		"Name":            "Ada",
		"bio":             "likes gears",
		"image":           "https://img/ada.png",
		"auth0Id":         "118170320184413952065",
		"Inspiration-bin": []any{domain.NewReference("Projects", "p2")},
	})
	c, err := Creator(doc)
	require.NoError(t, err)
	assert.Equal(t, "Ada", c.Name)
	assert.Equal(t, "118170320184413952065", c.ExternalAuthID)
	assert.Equal(t, []domain.Reference{{Collection: "Projects", ID: "p2"}}, c.InspirationBin)

	_, err = Creator(domain.NewDocument(domain.CollectionCreators, "c2", map[string]any{"image": "x"}))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreator_BadBinEntriesAreDropped(t *testing.T) {
	doc := domain.NewDocument(domain.CollectionCreators, "c1", map[string]any{
		"Name":  "Ada",
		"image": "https://img/ada.png",
		"Inspiration-bin": []any{
			domain.NewReference("Projects", "p2"),
			42,
			"no-slash",
			"Projects/p7",
		},
	})
	c, err := Creator(doc)
	require.NoError(t, err)
	assert.Equal(t, "Ada", c.Name)
	assert.Equal(t, []domain.Reference{
		{Collection: "Projects", ID: "p2"},
		{Collection: "Projects", ID: "p7"},
	}, c.InspirationBin)

	refs, errs := InspirationBin(doc)
	assert.Len(t, refs, 2)
	require.Len(t, errs, 2)
	for _, err := range errs {
		assert.ErrorIs(t, err, domain.ErrMalformedReference)
	}
	assert.Contains(t, errs[0].Error(), "element 1")
}

func TestCreator_BinNotASequence(t *testing.T) {
	doc := domain.NewDocument(domain.CollectionCreators, "c1", map[string]any{
		"Name": "Ada", "image": "img", "Inspiration-bin": "Projects/p2,Projects/p3",
	})
	c, err := Creator(doc)
	require.NoError(t, err)
	assert.Empty(t, c.InspirationBin)

	_, errs := InspirationBin(doc)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], domain.ErrMalformedReference)
}

func TestNormalize_DispatchesByKind(t *testing.T) {
	e, err := Normalize(serviceDoc("s1", validService()), domain.KindService)
	require.NoError(t, err)
	assert.Equal(t, domain.KindService, e.Kind())
	assert.Equal(t, "s1", e.EntityID())

	_, err = Normalize(serviceDoc("s1", validService()), domain.EntityKind(99))
	assert.Error(t, err)
}

func TestNormalize_Deterministic(t *testing.T) {
	doc := serviceDoc("s1", validService())
	a, errA := Normalize(doc, domain.KindService)
	b, errB := Normalize(doc, domain.KindService)
	assert.Equal(t, a, b)
	assert.Equal(t, errA, errB)
}
