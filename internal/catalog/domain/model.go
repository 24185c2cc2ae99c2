package domain

import "time"

// Entity is a hydrated, validated record of one kind.
type Entity interface {
	EntityID() string
	Kind() EntityKind
}

// Project is a fully hydrated catalogue entry. It is a value object: produced once per
// fetch cycle and never mutated afterwards.
type Project struct {
	ID                      string    `json:"id"`
	Title                   string    `json:"title"`
	Description             string    `json:"description"`
	Image                   string    `json:"image"`
	Tags                    []string  `json:"tags"`
	Technologies            []string  `json:"technologies"`
	Cost                    string    `json:"cost"`
	SchoolYear              string    `json:"schoolYear"`
	Category                string    `json:"category,omitempty"`
	Complexity              string    `json:"complexity,omitempty"`
	Status                  string    `json:"status"`
	LastUpdated             time.Time `json:"lastUpdated"`
	IsProjectOfTheYear      bool      `json:"isProjectOfTheYear"`
	EverWonProjectOfTheYear bool      `json:"everWonProjectOfTheYear"`
	Link                    string    `json:"link"`
	Creators                []Creator `json:"creators"`
	ProductsAndServices     []Service `json:"productsAndServices"`
}

func (p Project) EntityID() string { return p.ID }
func (p Project) Kind() EntityKind { return KindProject }

// Creator is a student who worked on one or more projects.
type Creator struct {
	ID             string      `json:"id"`
	Name           string      `json:"Name"`
	Bio            string      `json:"bio"`
	Image          string      `json:"image"`
	ExternalAuthID string      `json:"auth0Id"`
	InspirationBin []Reference `json:"inspirationBin,omitempty"`
}

func (c Creator) EntityID() string { return c.ID }
func (c Creator) Kind() EntityKind { return KindCreator }

// Service is a product or service bought for a project.
type Service struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	CostPerUnit float64 `json:"costPerUnit"`
	Quantity    int     `json:"quantity"`
	Reason      string  `json:"reason"`
	Link        string  `json:"link"`
}

func (s Service) EntityID() string { return s.ID }
func (s Service) Kind() EntityKind { return KindService }

// ProjectLinks holds the unresolved reference fields of a raw project document.
type ProjectLinks struct {
	Creators []Reference
	Services []Reference
}
