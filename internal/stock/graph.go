package stock

import (
	"context"
	"sort"
)

type (
	RecipeID     uint
	IngredientID uint
)

// Recipe is the resolution-relevant view of a menu recipe.
type Recipe struct {
	ID                 RecipeID
	Name               string
	Price              float64
	SourceIngredientID *IngredientID
	IsSubRecipe        bool
	IsAvailable        bool
}

// IsProxy reports whether selling the recipe consumes exactly one unit of a
// single ingredient.
func (r Recipe) IsProxy() bool {
	return r.SourceIngredientID != nil && *r.SourceIngredientID != 0
}

type IngredientEdge struct {
	RecipeID     RecipeID
	IngredientID IngredientID
	Quantity     float64
}

type SubRecipeEdge struct {
	ParentID RecipeID
	ChildID  RecipeID
	Quantity float64
}

type IngredientStock struct {
	ID       IngredientID
	Name     string
	Unit     string
	Quantity float64
	MinStock float64
}

// BelowMinimum reports whether the stock sits under a positive alert threshold.
func (s IngredientStock) BelowMinimum() bool {
	return s.MinStock > 0 && s.Quantity < s.MinStock
}

// Snapshot is the result of one scoped read of the composition tables.
type Snapshot struct {
	Recipes     []Recipe
	Ingredients []IngredientEdge
	SubRecipes  []SubRecipeEdge
	Stocks      []IngredientStock
}

// SnapshotSource reads everything a pass needs for one restaurant.
type SnapshotSource interface {
	Snapshot(ctx context.Context, restaurantID uint) (Snapshot, error)
}

// Graph is an immutable index over a Snapshot.
type Graph struct {
	recipes     map[RecipeID]Recipe
	ingredients map[RecipeID][]IngredientEdge
	subRecipes  map[RecipeID][]SubRecipeEdge
	stocks      map[IngredientID]IngredientStock
}

// LoadGraph fetches a snapshot and indexes it. A failed fetch is returned as a
// *SnapshotFetchError and no graph is produced.
func LoadGraph(ctx context.Context, source SnapshotSource, restaurantID uint) (*Graph, error) {
	snapshot, err := source.Snapshot(ctx, restaurantID)
	if err != nil {
		return nil, &SnapshotFetchError{RestaurantID: restaurantID, Err: err}
	}
	return NewGraph(snapshot), nil
}

// NewGraph indexes a snapshot. Edges with a non-positive quantity carry no
// consumption and are dropped.
func NewGraph(s Snapshot) *Graph {
	g := &Graph{
		recipes:     make(map[RecipeID]Recipe, len(s.Recipes)),
		ingredients: make(map[RecipeID][]IngredientEdge),
		subRecipes:  make(map[RecipeID][]SubRecipeEdge),
		stocks:      make(map[IngredientID]IngredientStock, len(s.Stocks)),
	}
	for _, recipe := range s.Recipes {
		g.recipes[recipe.ID] = recipe
	}
	for _, edge := range s.Ingredients {
		if edge.Quantity <= 0 {
			continue
		}
		g.ingredients[edge.RecipeID] = append(g.ingredients[edge.RecipeID], edge)
	}
	for _, edge := range s.SubRecipes {
		if edge.Quantity <= 0 {
			continue
		}
		g.subRecipes[edge.ParentID] = append(g.subRecipes[edge.ParentID], edge)
	}
	for _, stock := range s.Stocks {
		g.stocks[stock.ID] = stock
	}
	return g
}

func (g *Graph) Recipe(id RecipeID) (Recipe, bool) {
	recipe, ok := g.recipes[id]
	return recipe, ok
}

func (g *Graph) IngredientEdges(id RecipeID) []IngredientEdge { return g.ingredients[id] }

func (g *Graph) SubRecipeEdges(id RecipeID) []SubRecipeEdge { return g.subRecipes[id] }

// Available is the on-hand quantity of an ingredient; unknown ingredients have none.
func (g *Graph) Available(id IngredientID) float64 {
	return g.stocks[id].Quantity
}

// Recipes lists every recipe ordered by id.
func (g *Graph) Recipes() []Recipe {
	out := make([]Recipe, 0, len(g.recipes))
	for _, recipe := range g.recipes {
		out = append(out, recipe)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Stocks lists every ingredient ordered by id.
func (g *Graph) Stocks() []IngredientStock {
	out := make([]IngredientStock, 0, len(g.stocks))
	for _, stock := range g.stocks {
		out = append(out, stock)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
