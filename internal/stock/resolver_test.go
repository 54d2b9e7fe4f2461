package stock

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_EmptyRecipe(t *testing.T) {
	r := NewResolver(NewGraph(burgerSnapshot(5)))

	reqs, err := r.Resolve(garnish)
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestResolve_ProxyShortCircuit(t *testing.T) {
	snapshot := burgerSnapshot(5)
	// Edges on a proxy recipe are ignored.
	snapshot.Ingredients = append(snapshot.Ingredients, IngredientEdge{RecipeID: cola, IngredientID: bun, Quantity: 4})
	r := NewResolver(NewGraph(snapshot))

	reqs, err := r.Resolve(cola)
	require.NoError(t, err)
	assert.Equal(t, Requirements{colaCan: 1}, reqs)
}

func TestResolve_DirectAndNested(t *testing.T) {
	const (
		a     IngredientID = 100
		b     IngredientID = 101
		root  RecipeID     = 1
		child RecipeID     = 2
	)
	g := NewGraph(Snapshot{
		Recipes:     []Recipe{{ID: root}, {ID: child, IsSubRecipe: true}},
		Ingredients: []IngredientEdge{{RecipeID: root, IngredientID: a, Quantity: 2}, {RecipeID: child, IngredientID: b, Quantity: 1}},
		SubRecipes:  []SubRecipeEdge{{ParentID: root, ChildID: child, Quantity: 3}},
	})

	reqs, err := NewResolver(g).Resolve(root)
	require.NoError(t, err)
	assert.Equal(t, Requirements{a: 2, b: 3}, reqs)
}

func TestResolve_SumsEveryPath(t *testing.T) {
	// Burger uses Sauce directly and through Patty; Sauce is oil 0.01.
	const oil IngredientID = 50
	snapshot := burgerSnapshot(5)
	snapshot.Recipes = append(snapshot.Recipes, Recipe{ID: sauce, Name: "Sauce", IsSubRecipe: true})
	snapshot.Ingredients = append(snapshot.Ingredients, IngredientEdge{RecipeID: sauce, IngredientID: oil, Quantity: 0.01})
	snapshot.SubRecipes = append(snapshot.SubRecipes,
		SubRecipeEdge{ParentID: burger, ChildID: sauce, Quantity: 2},
		SubRecipeEdge{ParentID: patty, ChildID: sauce, Quantity: 1},
	)

	reqs, err := NewResolver(NewGraph(snapshot)).Resolve(burger)
	require.NoError(t, err)
	assert.InDelta(t, 1, reqs[bun], 1e-9)
	assert.InDelta(t, 0.15, reqs[beef], 1e-9)
	assert.InDelta(t, 0.03, reqs[oil], 1e-9)
	assert.Len(t, reqs, 3)
}

func TestResolve_MemoizationIsTransparent(t *testing.T) {
	r := NewResolver(NewGraph(burgerSnapshot(5)))

	first, err := r.Resolve(burger)
	require.NoError(t, err)
	first[bun] = 999 // caller mutation must not leak into the memo

	second, err := r.Resolve(burger)
	require.NoError(t, err)

	fresh, err := NewResolver(NewGraph(burgerSnapshot(5))).Resolve(burger)
	require.NoError(t, err)
	assert.Equal(t, fresh, second)
	assert.InDelta(t, 1, second[bun], 1e-9)
}

func TestResolve_OnlyIngredientIDs(t *testing.T) {
	r := NewResolver(NewGraph(burgerSnapshot(5)))

	reqs, err := r.Resolve(burger)
	require.NoError(t, err)
	for id := range reqs {
		assert.NotEqual(t, IngredientID(patty), id, "sub-recipe id leaked into requirements")
	}
	assert.ElementsMatch(t, []IngredientID{bun, beef}, reqs.IDs())
}

func TestResolve_Cycle(t *testing.T) {
	const (
		x RecipeID = 1
		y RecipeID = 2
		z RecipeID = 3
	)
	g := NewGraph(Snapshot{
		Recipes: []Recipe{{ID: x}, {ID: y}, {ID: z}},
		SubRecipes: []SubRecipeEdge{
			{ParentID: x, ChildID: y, Quantity: 1},
			{ParentID: y, ChildID: z, Quantity: 1},
			{ParentID: z, ChildID: y, Quantity: 1},
		},
	})

	_, err := NewResolver(g).Resolve(x)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCompositionCycle))

	var cycleErr *CompositionCycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, []RecipeID{y, z, y}, cycleErr.Path)
}

func TestResolve_SelfReference(t *testing.T) {
	g := NewGraph(Snapshot{
		Recipes:    []Recipe{{ID: 1}},
		SubRecipes: []SubRecipeEdge{{ParentID: 1, ChildID: 1, Quantity: 1}},
	})

	_, err := NewResolver(g).Resolve(1)
	assert.ErrorIs(t, err, ErrCompositionCycle)
}

func TestResolve_MissingSubRecipe(t *testing.T) {
	snapshot := burgerSnapshot(5)
	snapshot.SubRecipes = append(snapshot.SubRecipes, SubRecipeEdge{ParentID: burger, ChildID: 404, Quantity: 1})

	_, err := NewResolver(NewGraph(snapshot)).Resolve(burger)
	require.ErrorIs(t, err, ErrUnresolvedComposition)

	var unresolved *UnresolvedCompositionError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, burger, unresolved.ParentID)
	assert.Equal(t, RecipeID(404), unresolved.RecipeID)
}

func TestResolve_UnknownRecipe(t *testing.T) {
	_, err := NewResolver(NewGraph(burgerSnapshot(5))).Resolve(999)
	assert.ErrorIs(t, err, ErrUnknownRecipe)
	assert.NotErrorIs(t, err, ErrUnresolvedComposition)
}

func TestNewGraph_DropsNonPositiveEdges(t *testing.T) {
	snapshot := burgerSnapshot(5)
	snapshot.Ingredients = append(snapshot.Ingredients, IngredientEdge{RecipeID: burger, IngredientID: cheese, Quantity: 0})
	snapshot.SubRecipes = append(snapshot.SubRecipes, SubRecipeEdge{ParentID: burger, ChildID: 404, Quantity: -1})

	reqs, err := NewResolver(NewGraph(snapshot)).Resolve(burger)
	require.NoError(t, err)
	assert.NotContains(t, reqs, cheese)
}

func TestProducible(t *testing.T) {
	g := NewGraph(burgerSnapshot(5))

	units, limiting := producible(g, Requirements{bun: 1, beef: 0.15})
	assert.Equal(t, 5, units)
	assert.Equal(t, bun, limiting)

	units, _ = producible(g, Requirements{})
	assert.Equal(t, -1, units)

	units, limiting = producible(g, Requirements{cheese: 1})
	assert.Equal(t, 0, units)
	assert.Equal(t, cheese, limiting)
}

func TestProducible_HugeStockDoesNotOverflow(t *testing.T) {
	g := NewGraph(burgerSnapshot(1e300))

	units, limiting := producible(g, Requirements{bun: 1e-9})
	assert.Equal(t, math.MaxInt, units)
	assert.Equal(t, bun, limiting)

	units, _ = producible(g, Requirements{bun: 1e-9, beef: 0.15})
	assert.Positive(t, units)
	assert.Less(t, units, math.MaxInt)
}
