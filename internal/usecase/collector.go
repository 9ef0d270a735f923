package usecase

import "github.com/farofertas/backend/internal/domain"

// DefaultCandidateMultiplier is how many candidates are gathered per requested result
const DefaultCandidateMultiplier = 5

// Decision tells the row loop whether to keep parsing
type Decision int

const (
	Continue Decision = iota
	Stop
)

// Collector accumulates matching products until it holds
// limit × multiplier candidates.
type Collector struct {
	items  []domain.Product
	target int
}

// NewCollector creates a collector sized for limit results
func NewCollector(limit, multiplier int) *Collector {
	if limit < 1 {
		limit = 1
	}
	if multiplier < 1 {
		multiplier = DefaultCandidateMultiplier
	}
	target := limit * multiplier

	return &Collector{
		items:  make([]domain.Product, 0, target),
		target: target,
	}
}

// Offer adds p and returns Stop once the target has been reached
func (c *Collector) Offer(p domain.Product) Decision {
	if c.Full() {
		return Stop
	}

	c.items = append(c.items, p)
	if c.Full() {
		return Stop
	}
	return Continue
}

// Full reports whether the target has been reached
func (c *Collector) Full() bool {
	return len(c.items) >= c.target
}

// Target returns the number of candidates the collector aims for
func (c *Collector) Target() int {
	return c.target
}

// Len returns the number of collected candidates
func (c *Collector) Len() int {
	return len(c.items)
}

// Candidates returns the collected products in arrival order
func (c *Collector) Candidates() []domain.Product {
	return c.items
}
