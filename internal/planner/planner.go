package planner

import (
	"math/rand/v2"

	"diet-planner/internal/catalog"
)

// RandFactory returns a fresh random source for one plan generation.
type RandFactory func() *rand.Rand

// Planner generates daily meal plans from a read-only catalog.
type Planner struct {
	catalog *catalog.Catalog
	newRand RandFactory
}

// Option configures a Planner.
type Option func(*Planner)

// WithRandFactory overrides how random sources are created, mainly so tests
// can use a fixed seed.
func WithRandFactory(f RandFactory) Option {
	return func(p *Planner) {
		p.newRand = f
	}
}

// NewPlanner creates a new Planner instance.
func NewPlanner(cat *catalog.Catalog, opts ...Option) *Planner {
	p := &Planner{
		catalog: cat,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GeneratePlan filters the catalog for the profile, draws meals for every
// meal type and assembles the result. Nothing is reused between calls, so
// calling it again with the same profile regenerates the plan from scratch.
func (p *Planner) GeneratePlan(profile Profile) MealPlan {
	return Generate(p.newRand(), p.catalog.Meals(), profile)
}

// Generate runs the whole pipeline against records with the given random source.
func Generate(rng *rand.Rand, records []catalog.MealRecord, profile Profile) MealPlan {
	eligible := Eligible(records, profile)
	sel := SelectMeals(rng, eligible)
	return Assemble(sel, profile.WantsTea, profile.Fruit)
}
