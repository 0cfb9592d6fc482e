package domain

import (
	"context"
	"sort"
)

type Plan struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	JobQuota        int     `json:"job_quota"`
	ProviderPriceID string  `json:"provider_price_id"`
	// Featured plans give new postings promotional placement.
	Featured bool `json:"featured"`
}

// PlanCatalog is an immutable, in-memory view of the plans table. It is
// loaded once at startup and shared read-only.
type PlanCatalog struct {
	byID    map[string]Plan
	byPrice map[string]Plan
	ordered []Plan
}

func NewPlanCatalog(plans []Plan) *PlanCatalog {
	c := &PlanCatalog{
		byID:    make(map[string]Plan, len(plans)),
		byPrice: make(map[string]Plan, len(plans)),
		ordered: make([]Plan, 0, len(plans)),
	}
	for _, p := range plans {
		c.byID[p.ID] = p
		if p.ProviderPriceID != "" {
			c.byPrice[p.ProviderPriceID] = p
		}
		c.ordered = append(c.ordered, p)
	}
	sort.SliceStable(c.ordered, func(i, j int) bool {
		return c.ordered[i].Price < c.ordered[j].Price
	})
	return c
}

func (c *PlanCatalog) Get(id string) (Plan, bool) {
	p, ok := c.byID[id]
	return p, ok
}

func (c *PlanCatalog) ByProviderPrice(priceID string) (Plan, bool) {
	p, ok := c.byPrice[priceID]
	return p, ok
}

// All returns the plans ordered by price.
func (c *PlanCatalog) All() []Plan {
	out := make([]Plan, len(c.ordered))
	copy(out, c.ordered)
	return out
}

type PlanRepository interface {
	List(ctx context.Context) ([]Plan, error)
	Upsert(ctx context.Context, plan *Plan) error
}
