// Package normalize validates raw documents and coerces their loosely-typed fields into
// hydrated entities. Every function here is pure: no I/O and no hidden state.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/serp-db/serp-backend/internal/catalog/domain"
)

// Required fields per kind, in the order they are checked.
var (
	ProjectRequired = []string{"title", "image", "lastUpdated"}
	CreatorRequired = []string{"Name", "image"}
	ServiceRequired = []string{"name", "costperunit", "reason", "link"}
)

// Normalize turns a raw document into the hydrated entity of the given kind. On failure
// the error is a *domain.ValidationError naming the offending field.
func Normalize(doc domain.Document, kind domain.EntityKind) (domain.Entity, error) {
	switch kind {
	case domain.KindProject:
		return Project(doc)
	case domain.KindCreator:
		return Creator(doc)
	case domain.KindService:
		return Service(doc)
	default:
		return nil, fmt.Errorf("normalize: unknown entity kind %d", kind)
	}
}

// Project normalizes the scalar fields of a project. Creators and ProductsAndServices
// are left empty; see ProjectLinks for the references that fill them.
func Project(doc domain.Document) (domain.Project, error) {
	r := newReader(doc, domain.KindProject)
	if err := r.require(ProjectRequired...); err != nil {
		return domain.Project{}, err
	}

	p := domain.Project{
		ID:                  doc.ID,
		Title:               r.str("title"),
		Description:         r.optStr("description"),
		Image:               r.str("image"),
		Tags:                dedupe(r.optStrings("tags")),
		Technologies:        nonEmpty(r.optStrings("technologies")),
		Cost:                r.cost("cost"),
		SchoolYear:          r.optStr("schoolYear"),
		Category:            r.optStr("category"),
		Complexity:          r.optStr("complexity"),
		Status:              r.optStr("status"),
		LastUpdated:         r.timestamp("lastUpdated"),
		IsProjectOfTheYear:  r.optBool("isProjectOfTheYear"),
		Link:                r.optStr("link"),
		Creators:            []domain.Creator{},
		ProductsAndServices: []domain.Service{},
	}
	p.EverWonProjectOfTheYear = r.optBool("everWonProjectOfTheYear")

	if r.err != nil {
		return domain.Project{}, r.err
	}
	return p, nil
}

// ProjectLinks extracts the creators and services reference sequences of a raw project.
// Missing fields yield empty sequences; a malformed element fails the whole project.
func ProjectLinks(doc domain.Document) (domain.ProjectLinks, error) {
	var links domain.ProjectLinks
	var err error
	if links.Creators, err = optRefs(doc, domain.FieldCreators); err != nil {
		return domain.ProjectLinks{}, fmt.Errorf("project %s: field %q: %w", doc.ID, domain.FieldCreators, err)
	}
	if links.Services, err = optRefs(doc, domain.FieldServices); err != nil {
		return domain.ProjectLinks{}, fmt.Errorf("project %s: field %q: %w", doc.ID, domain.FieldServices, err)
	}
	return links, nil
}

func Creator(doc domain.Document) (domain.Creator, error) {
	r := newReader(doc, domain.KindCreator)
	if err := r.require(CreatorRequired...); err != nil {
		return domain.Creator{}, err
	}

	c := domain.Creator{
		ID:             doc.ID,
		Name:           r.str("Name"),
		Bio:            r.optStr("bio"),
		Image:          r.str("image"),
		ExternalAuthID: r.optStr("auth0Id"),
	}
	c.InspirationBin, _ = InspirationBin(doc)

	if r.err != nil {
		return domain.Creator{}, r.err
	}
	return c, nil
}

// InspirationBin reads the project references a creator saved. Entries that are not
// references come back as errors and are left out; they never invalidate the creator.
func InspirationBin(doc domain.Document) ([]domain.Reference, []error) {
	v, ok := doc.Get(domain.FieldInspirationBin)
	if !ok || v == nil {
		return []domain.Reference{}, nil
	}

	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case []domain.Reference:
		items = anySlice(t)
	case domain.Reference:
		items = []any{t}
	default:
		return []domain.Reference{}, []error{fmt.Errorf("%w: not a reference sequence", domain.ErrMalformedReference)}
	}

	refs := make([]domain.Reference, 0, len(items))
	var errs []error
	for i, e := range items {
		ref, err := asReference(e)
		if err != nil {
			errs = append(errs, fmt.Errorf("element %d: %w", i, err))
			continue
		}
		refs = append(refs, ref)
	}
	return refs, errs
}

func Service(doc domain.Document) (domain.Service, error) {
	r := newReader(doc, domain.KindService)
	if err := r.require(ServiceRequired...); err != nil {
		return domain.Service{}, err
	}

	s := domain.Service{
		ID:     doc.ID,
		Name:   r.str("name"),
		Reason: r.str("reason"),
		Link:   r.str("link"),
	}
	s.CostPerUnit = r.number("costperunit")
	if r.err == nil && s.CostPerUnit < 0 {
		r.fail("costperunit", "must not be negative")
	}
	if _, ok := doc.Get("quantity"); ok {
		s.Quantity = r.integer("quantity")
		if r.err == nil && s.Quantity < 0 {
			r.fail("quantity", "must not be negative")
		}
	}

	if r.err != nil {
		return domain.Service{}, r.err
	}
	return s, nil
}

// reader reads fields off one document and keeps the first validation failure.
type reader struct {
	doc  domain.Document
	kind domain.EntityKind
	err  error
}

func newReader(doc domain.Document, kind domain.EntityKind) *reader {
	r := &reader{doc: doc, kind: kind}
	if strings.TrimSpace(doc.ID) == "" {
		r.fail("id", errMissing.Error())
	}
	return r
}

func (r *reader) fail(field, reason string) {
	if r.err != nil {
		return
	}
	coll := r.doc.Collection
	if coll == "" {
		coll = r.kind.Collection()
	}
	r.err = &domain.ValidationError{
		Kind:       r.kind,
		EntityID:   r.doc.ID,
		Collection: coll,
		Field:      field,
		Reason:     reason,
	}
}

// require checks presence and non-emptiness of each field.
func (r *reader) require(fields ...string) error {
	for _, f := range fields {
		v, ok := r.doc.Get(f)
		if !ok {
			r.fail(f, errMissing.Error())
			break
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			r.fail(f, errMissing.Error())
			break
		}
	}
	return r.err
}

func (r *reader) str(field string) string {
	v, _ := r.doc.Get(field)
	s, err := asString(v)
	if err != nil {
		r.fail(field, err.Error())
	}
	return s
}

func (r *reader) optStr(field string) string {
	if _, ok := r.doc.Get(field); !ok {
		return ""
	}
	return r.str(field)
}

// cost renders numeric costs as a dollar display string.
func (r *reader) cost(field string) string {
	v, ok := r.doc.Get(field)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	s, err := asString(v)
	if err != nil {
		r.fail(field, err.Error())
		return ""
	}
	return "$" + s
}

func (r *reader) number(field string) float64 {
	v, _ := r.doc.Get(field)
	f, err := asFloat(v)
	if err != nil {
		r.fail(field, err.Error())
	}
	return f
}

func (r *reader) integer(field string) int {
	v, _ := r.doc.Get(field)
	n, err := asInt(v)
	if err != nil {
		r.fail(field, err.Error())
	}
	return n
}

func (r *reader) optBool(field string) bool {
	v, ok := r.doc.Get(field)
	if !ok {
		return false
	}
	b, err := asBool(v)
	if err != nil {
		r.fail(field, err.Error())
	}
	return b
}

func (r *reader) timestamp(field string) time.Time {
	v, _ := r.doc.Get(field)
	ts, err := asTime(v)
	if err != nil {
		r.fail(field, err.Error())
	}
	return ts
}

func (r *reader) optStrings(field string) []string {
	v, ok := r.doc.Get(field)
	if !ok {
		return []string{}
	}
	out, err := asStrings(v)
	if err != nil {
		r.fail(field, err.Error())
		return []string{}
	}
	return out
}

func optRefs(doc domain.Document, field string) ([]domain.Reference, error) {
	v, ok := doc.Get(field)
	if !ok {
		return []domain.Reference{}, nil
	}
	return asReferences(v)
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
