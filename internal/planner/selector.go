package planner

import (
	"math/rand/v2"

	"diet-planner/internal/catalog"
)

// Selection holds the sampled records for each meal type.
type Selection struct {
	Breakfast []catalog.MealRecord
	Lunch     []catalog.MealRecord
	Dinner    []catalog.MealRecord
}

// For returns the records selected for mt.
func (s Selection) For(mt catalog.MealType) []catalog.MealRecord {
	switch mt {
	case catalog.Breakfast:
		return s.Breakfast
	case catalog.Lunch:
		return s.Lunch
	case catalog.Dinner:
		return s.Dinner
	}
	return nil
}

func (s *Selection) set(mt catalog.MealType, recs []catalog.MealRecord) {
	switch mt {
	case catalog.Breakfast:
		s.Breakfast = recs
	case catalog.Lunch:
		s.Lunch = recs
	case catalog.Dinner:
		s.Dinner = recs
	}
}

// SelectMeals draws a random, non-repeating subset of eligible records for
// every meal type. The sample size is 2 or 3 when the eligible table as a
// whole has at least two records, 1 otherwise, and never exceeds the number
// of records available for that meal type.
func SelectMeals(rng *rand.Rand, eligible []catalog.MealRecord) Selection {
	var sel Selection
	for _, mt := range catalog.MealTypes {
		subset := ofType(eligible, mt)
		if len(subset) == 0 {
			continue
		}
		k := min(sampleSize(rng, len(eligible)), len(subset))
		sel.set(mt, sample(rng, subset, k))
	}
	return sel
}

// sampleSize is drawn independently for every meal type.
func sampleSize(rng *rand.Rand, total int) int {
	if total >= 2 {
		return 2 + rng.IntN(2)
	}
	return 1
}

// sample picks k distinct records uniformly with a partial Fisher-Yates
// shuffle. It reorders recs, which must be owned by the caller.
func sample(rng *rand.Rand, recs []catalog.MealRecord, k int) []catalog.MealRecord {
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(recs)-i)
		recs[i], recs[j] = recs[j], recs[i]
	}
	return recs[:k:k]
}

func ofType(recs []catalog.MealRecord, mt catalog.MealType) []catalog.MealRecord {
	var out []catalog.MealRecord
	for _, r := range recs {
		if r.MealType == mt {
			out = append(out, r)
		}
	}
	return out
}
