package stock

import (
	"context"
	"sort"
	"sync"
)

const (
	bun     IngredientID = 1
	beef    IngredientID = 2
	colaCan IngredientID = 3
	cheese  IngredientID = 4

	burger  RecipeID = 10
	patty   RecipeID = 11
	cola    RecipeID = 12
	garnish RecipeID = 13
	special RecipeID = 14
	sauce   RecipeID = 15
)

func ingredientPtr(id IngredientID) *IngredientID { return &id }

func recipePtr(id RecipeID) *RecipeID { return &id }

// burgerSnapshot: Burger = Bun x1 + Patty x1; Patty = Beef x0.15; Cola proxies
// a can; Garnish has no composition; Special is hidden from the menu.
func burgerSnapshot(bunStock float64) Snapshot {
	return Snapshot{
		Recipes: []Recipe{
			{ID: burger, Name: "Burger", Price: 25, IsAvailable: true},
			{ID: patty, Name: "Patty", IsSubRecipe: true, IsAvailable: true},
			{ID: cola, Name: "Cola", Price: 6, SourceIngredientID: ingredientPtr(colaCan), IsAvailable: true},
			{ID: garnish, Name: "Garnish note", IsAvailable: true},
			{ID: special, Name: "Chef special", IsAvailable: false},
		},
		Ingredients: []IngredientEdge{
			{RecipeID: burger, IngredientID: bun, Quantity: 1},
			{RecipeID: patty, IngredientID: beef, Quantity: 0.15},
			{RecipeID: special, IngredientID: cheese, Quantity: 1},
		},
		SubRecipes: []SubRecipeEdge{
			{ParentID: burger, ChildID: patty, Quantity: 1},
		},
		Stocks: []IngredientStock{
			{ID: bun, Name: "Bun", Unit: "un", Quantity: bunStock, MinStock: 10},
			{ID: beef, Name: "Beef", Unit: "kg", Quantity: 3},
			{ID: colaCan, Name: "Cola can", Unit: "un", Quantity: 2},
		},
	}
}

type staticSource struct {
	mu       sync.Mutex
	snapshot Snapshot
	err      error
	calls    int
}

func (s *staticSource) Snapshot(_ context.Context, _ uint) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.snapshot, s.err
}

type recordingLedger struct {
	mu      sync.Mutex
	failOn  map[IngredientID]error
	applied []Adjustment
	calls   []IngredientID
}

func (l *recordingLedger) AdjustStock(_ context.Context, adj Adjustment) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, adj.IngredientID)
	if err := l.failOn[adj.IngredientID]; err != nil {
		return err
	}
	l.applied = append(l.applied, adj)
	return nil
}

func (l *recordingLedger) calledIDs() []IngredientID {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := append([]IngredientID(nil), l.calls...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
