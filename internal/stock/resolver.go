package stock

import (
	"fmt"
	"math"
	"sort"
)

const epsilon = 1e-9

// Requirements maps raw ingredients to a quantity.
type Requirements map[IngredientID]float64

// Clone returns an independent copy.
func (r Requirements) Clone() Requirements {
	out := make(Requirements, len(r))
	for id, qty := range r {
		out[id] = qty
	}
	return out
}

// IDs returns the ingredient ids in ascending order.
func (r Requirements) IDs() []IngredientID {
	ids := make([]IngredientID, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r Requirements) addScaled(other Requirements, factor float64) {
	for id, qty := range other {
		r[id] += qty * factor
	}
}

// Resolver flattens recipes into raw-ingredient requirements per unit. It
// memoizes results and is bound to a single Graph; build a new one per pass.
// A Resolver is not safe for concurrent use.
type Resolver struct {
	graph *Graph
	memo  map[RecipeID]Requirements
	stack map[RecipeID]bool
	path  []RecipeID
}

func NewResolver(graph *Graph) *Resolver {
	return &Resolver{
		graph: graph,
		memo:  make(map[RecipeID]Requirements),
		stack: make(map[RecipeID]bool),
	}
}

// Resolve returns the raw ingredients consumed by one unit of the recipe. The
// result only contains ingredient ids and is safe for the caller to modify.
func (r *Resolver) Resolve(id RecipeID) (Requirements, error) {
	if _, ok := r.graph.Recipe(id); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRecipe, id)
	}
	reqs, err := r.resolve(0, id)
	if err != nil {
		return nil, err
	}
	return reqs.Clone(), nil
}

func (r *Resolver) resolve(parent, id RecipeID) (Requirements, error) {
	if cached, ok := r.memo[id]; ok {
		return cached, nil
	}
	if r.stack[id] {
		return nil, r.cycleFrom(id)
	}

	recipe, ok := r.graph.Recipe(id)
	if !ok {
		return nil, &UnresolvedCompositionError{ParentID: parent, RecipeID: id}
	}
	if recipe.IsProxy() {
		reqs := Requirements{*recipe.SourceIngredientID: 1}
		r.memo[id] = reqs
		return reqs, nil
	}

	r.stack[id] = true
	r.path = append(r.path, id)
	defer func() {
		r.stack[id] = false
		r.path = r.path[:len(r.path)-1]
	}()

	acc := make(Requirements)
	for _, edge := range r.graph.IngredientEdges(id) {
		acc[edge.IngredientID] += edge.Quantity
	}
	for _, edge := range r.graph.SubRecipeEdges(id) {
		child, err := r.resolve(id, edge.ChildID)
		if err != nil {
			return nil, err
		}
		acc.addScaled(child, edge.Quantity)
	}

	r.memo[id] = acc
	return acc, nil
}

func (r *Resolver) cycleFrom(id RecipeID) error {
	start := 0
	for i, step := range r.path {
		if step == id {
			start = i
			break
		}
	}
	path := append([]RecipeID(nil), r.path[start:]...)
	return &CompositionCycleError{Path: append(path, id)}
}

// producible returns how many whole units the available stock covers, and the
// ingredient that runs out first. Empty requirements are unbounded (-1).
func producible(graph *Graph, reqs Requirements) (int, IngredientID) {
	best := -1
	var limiting IngredientID
	for _, id := range reqs.IDs() {
		need := reqs[id]
		if need <= 0 {
			continue
		}
		units := unitsFor(graph.Available(id), need)
		if best < 0 || units < best {
			best = units
			limiting = id
		}
	}
	return best, limiting
}

// unitsFor is floor(available/need), clamped to [0, math.MaxInt].
func unitsFor(available, need float64) int {
	ratio := math.Floor(available/need + epsilon)
	switch {
	case math.IsNaN(ratio) || ratio <= 0:
		return 0
	case ratio >= math.MaxInt:
		return math.MaxInt
	}
	return int(ratio)
}
