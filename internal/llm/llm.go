package llm

import (
	"context"

	"diet-planner/internal/shared"
)

// Classification is the label a model assigned to a food photo.
type Classification struct {
	Label string
	Meta  shared.CallMeta
}

// FoodClassifier turns a food photo into one of the known food labels.
type FoodClassifier interface {
	ClassifyFood(ctx context.Context, image []byte, mimeType string, labels []string) (Classification, error)
}
