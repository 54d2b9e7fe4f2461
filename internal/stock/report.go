package stock

import (
	"context"
	"time"
)

// IngredientLevel is one row of the stock report.
type IngredientLevel struct {
	ID       IngredientID `json:"id"`
	Name     string       `json:"name"`
	Unit     string       `json:"unit"`
	Quantity float64      `json:"quantity"`
	MinStock float64      `json:"min_stock"`
	Low      bool         `json:"low"`
}

// RecipeCapacity is how many units of a sellable recipe current stock covers.
// Unbounded recipes consume nothing; Limiting is the first ingredient to run
// out otherwise.
type RecipeCapacity struct {
	ID         RecipeID     `json:"id"`
	Name       string       `json:"name"`
	Producible int          `json:"producible"`
	Unbounded  bool         `json:"unbounded"`
	Limiting   IngredientID `json:"limiting_ingredient_id,omitempty"`
}

type Report struct {
	RestaurantID uint              `json:"restaurant_id"`
	GeneratedAt  time.Time         `json:"generated_at"`
	Ingredients  []IngredientLevel `json:"ingredients"`
	Recipes      []RecipeCapacity  `json:"recipes"`
}

// LowStock returns the ingredients under their minimum threshold.
func (r Report) LowStock() []IngredientLevel {
	var out []IngredientLevel
	for _, level := range r.Ingredients {
		if level.Low {
			out = append(out, level)
		}
	}
	return out
}

// Report snapshots ingredient levels and per-recipe production capacity.
func (e *Engine) Report(ctx context.Context, restaurantID uint) (report Report, err error) {
	ctx, p, err := e.begin(ctx, "Report", restaurantID)
	if err != nil {
		return Report{}, err
	}
	defer func() { p.finish(ctx, err) }()

	report = Report{RestaurantID: restaurantID, GeneratedAt: e.now().UTC()}
	for _, stock := range p.graph.Stocks() {
		report.Ingredients = append(report.Ingredients, IngredientLevel{
			ID:       stock.ID,
			Name:     stock.Name,
			Unit:     stock.Unit,
			Quantity: stock.Quantity,
			MinStock: stock.MinStock,
			Low:      stock.BelowMinimum(),
		})
	}

	for _, recipe := range p.graph.Recipes() {
		if recipe.IsSubRecipe {
			continue
		}
		reqs, err := p.resolver.Resolve(recipe.ID)
		if err != nil {
			return Report{}, err
		}
		units, limiting := producible(p.graph, reqs)
		capacity := RecipeCapacity{ID: recipe.ID, Name: recipe.Name, Limiting: limiting}
		if units < 0 {
			capacity.Unbounded = true
		} else {
			capacity.Producible = units
		}
		report.Recipes = append(report.Recipes, capacity)
	}
	return report, nil
}
