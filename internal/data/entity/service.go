package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Service struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Icon  string          `json:"icon,omitempty"`
	Color string          `json:"color,omitempty"`
}

// ServiceSnapshot is the copy of a catalog entry stored inside a booking so
// later catalog edits never rewrite history.
type ServiceSnapshot struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func (s Service) Snapshot() ServiceSnapshot {
	return ServiceSnapshot{ID: s.ID, Name: s.Name, Price: s.Price}
}

// Catalog is the immutable list of bookable services.
type Catalog struct {
	services []Service
	byID     map[int]Service
}

func NewCatalog(services ...Service) (*Catalog, error) {
	c := &Catalog{byID: make(map[int]Service, len(services))}
	names := make(map[string]bool, len(services))
	for _, s := range services {
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate service id %d", s.ID)
		}
		if names[s.Name] {
			return nil, fmt.Errorf("duplicate service name %q", s.Name)
		}
		if s.Price.IsNegative() {
			return nil, fmt.Errorf("service %q has negative price", s.Name)
		}
		c.byID[s.ID] = s
		names[s.Name] = true
		c.services = append(c.services, s)
	}
	return c, nil
}

func DefaultCatalog() *Catalog {
	c, err := NewCatalog(
		Service{ID: 4, Name: "Pop In", Price: decimal.NewFromInt(25), Icon: "pets", Color: "#E987A7"},
		Service{ID: 2, Name: "Walking", Price: decimal.NewFromInt(25), Icon: "directions-walk", Color: "#4ECDC4"},
		Service{ID: 3, Name: "Sitting", Price: decimal.NewFromInt(75), Icon: "home", Color: "#95E1D3"},
		Service{ID: 1, Name: "Grooming", Price: decimal.NewFromInt(50), Icon: "content-cut", Color: "#FF6B6B"},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// All returns the catalog in display order.
func (c *Catalog) All() []Service {
	out := make([]Service, len(c.services))
	copy(out, c.services)
	return out
}

func (c *Catalog) Find(id int) (Service, bool) {
	s, ok := c.byID[id]
	return s, ok
}
