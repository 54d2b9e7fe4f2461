package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planLines(t *testing.T, snapshot Snapshot, lines []OrderLine) Plan {
	t.Helper()
	plan, err := NewPlanner(NewResolver(NewGraph(snapshot))).Plan(lines)
	require.NoError(t, err)
	return plan
}

func TestPlan_TwoBurgers(t *testing.T) {
	plan := planLines(t, burgerSnapshot(5), []OrderLine{{RecipeID: recipePtr(burger), Quantity: 2}})

	require.Len(t, plan.Deductions, 2)
	assert.InDelta(t, 2, plan.Deductions[bun], 1e-9)
	assert.InDelta(t, 0.3, plan.Deductions[beef], 1e-9)
	assert.Equal(t, 1, plan.Counted)
}

func TestPlan_GroupCountedOnce(t *testing.T) {
	lines := []OrderLine{
		{RecipeID: recipePtr(burger), Quantity: 1, GroupID: "g1"}, // grill
		{RecipeID: recipePtr(burger), Quantity: 1, GroupID: "g1"}, // cold station
		{RecipeID: recipePtr(burger), Quantity: 1, GroupID: " g1 "},
	}

	plan := planLines(t, burgerSnapshot(5), lines)
	assert.InDelta(t, 1, plan.Deductions[bun], 1e-9)
	assert.InDelta(t, 0.15, plan.Deductions[beef], 1e-9)
	assert.Equal(t, 1, plan.Counted)
	assert.Equal(t, 2, plan.Duplicates)
}

func TestPlan_DistinctGroupsAndUngroupedLinesAccumulate(t *testing.T) {
	lines := []OrderLine{
		{RecipeID: recipePtr(burger), Quantity: 1, GroupID: "g1"},
		{RecipeID: recipePtr(burger), Quantity: 1, GroupID: "g2"},
		{RecipeID: recipePtr(burger), Quantity: 1},
		{RecipeID: recipePtr(burger), Quantity: 1},
	}

	plan := planLines(t, burgerSnapshot(5), lines)
	assert.InDelta(t, 4, plan.Deductions[bun], 1e-9)
	assert.InDelta(t, 0.6, plan.Deductions[beef], 1e-9)
}

func TestPlan_ProxyAndNoStockLines(t *testing.T) {
	lines := []OrderLine{
		{RecipeID: recipePtr(cola), Quantity: 3},
		{RecipeID: nil, Quantity: 1},
		{RecipeID: recipePtr(garnish), Quantity: 2},
		{RecipeID: recipePtr(burger), Quantity: 0},
	}

	plan := planLines(t, burgerSnapshot(5), lines)
	assert.Equal(t, Requirements{colaCan: 3}, plan.Deductions)
	assert.Equal(t, 2, plan.Ignored)
	assert.Equal(t, 2, plan.Counted)
}

func TestPlan_UnknownRecipeIsDataFault(t *testing.T) {
	_, err := NewPlanner(NewResolver(NewGraph(burgerSnapshot(5)))).Plan([]OrderLine{
		{RecipeID: recipePtr(burger), Quantity: 1},
		{RecipeID: recipePtr(404), Quantity: 1},
	})
	require.ErrorIs(t, err, ErrUnresolvedComposition)

	var unresolved *UnresolvedCompositionError
	require.ErrorAs(t, err, &unresolved)
	assert.Zero(t, unresolved.ParentID)
}

func TestPlan_IsDeterministic(t *testing.T) {
	lines := []OrderLine{
		{RecipeID: recipePtr(burger), Quantity: 3, GroupID: "a"},
		{RecipeID: recipePtr(cola), Quantity: 1},
		{RecipeID: recipePtr(burger), Quantity: 3, GroupID: "a"},
	}
	resolver := NewResolver(NewGraph(burgerSnapshot(5)))

	first, err := NewPlanner(resolver).Plan(lines)
	require.NoError(t, err)
	second, err := NewPlanner(resolver).Plan(lines)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
