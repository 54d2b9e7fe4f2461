package stock

import (
	"fmt"
	"strings"
)

// Policy decides how the evaluator treats a nested sub-recipe that cannot be
// traced to any raw ingredient.
type Policy int

const (
	// PolicyUnavailable marks the parent unavailable.
	PolicyUnavailable Policy = iota
	// PolicyPermissive treats the sub-recipe as consuming nothing.
	PolicyPermissive
)

func (p Policy) String() string {
	switch p {
	case PolicyPermissive:
		return "permissive"
	default:
		return "unavailable"
	}
}

// ParsePolicy accepts "unavailable" (the default when blank) or "permissive".
func ParsePolicy(value string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "unavailable":
		return PolicyUnavailable, nil
	case "permissive":
		return PolicyPermissive, nil
	default:
		return PolicyUnavailable, fmt.Errorf("stock: unknown sub-recipe policy %q", value)
	}
}

// Evaluator answers whether one unit of a recipe can be produced from the
// stock in its graph. It shares the resolver's memo for traceability checks.
type Evaluator struct {
	resolver *Resolver
	policy   Policy
	needed   Requirements
	onPath   map[RecipeID]bool
	path     []RecipeID
}

func NewEvaluator(resolver *Resolver, policy Policy) *Evaluator {
	return &Evaluator{resolver: resolver, policy: policy}
}

// HasStock walks the composition of one unit, adding each raw requirement to a
// running total and stopping at the first ingredient whose total exceeds the
// stock on hand. Missing stock rows count as zero. Only data faults (missing
// sub-recipe, cycle, unknown recipe) are returned as errors.
func (e *Evaluator) HasStock(id RecipeID) (bool, error) {
	if _, ok := e.resolver.graph.Recipe(id); !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownRecipe, id)
	}
	e.needed = make(Requirements)
	e.onPath = make(map[RecipeID]bool)
	e.path = e.path[:0]
	return e.walk(0, id, 1)
}

func (e *Evaluator) walk(parent, id RecipeID, factor float64) (bool, error) {
	graph := e.resolver.graph
	recipe, ok := graph.Recipe(id)
	if !ok {
		return false, &UnresolvedCompositionError{ParentID: parent, RecipeID: id}
	}
	if recipe.IsProxy() {
		return e.require(*recipe.SourceIngredientID, factor), nil
	}
	if e.onPath[id] {
		return false, e.cycleFrom(id)
	}
	e.onPath[id] = true
	e.path = append(e.path, id)
	defer func() {
		e.onPath[id] = false
		e.path = e.path[:len(e.path)-1]
	}()

	for _, edge := range graph.IngredientEdges(id) {
		if !e.require(edge.IngredientID, edge.Quantity*factor) {
			return false, nil
		}
	}
	for _, edge := range graph.SubRecipeEdges(id) {
		if e.policy == PolicyUnavailable {
			if _, ok := graph.Recipe(edge.ChildID); !ok {
				return false, &UnresolvedCompositionError{ParentID: id, RecipeID: edge.ChildID}
			}
			reqs, err := e.resolver.resolve(id, edge.ChildID)
			if err != nil {
				return false, err
			}
			if len(reqs) == 0 {
				return false, nil
			}
		}
		ok, err := e.walk(id, edge.ChildID, edge.Quantity*factor)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (e *Evaluator) require(id IngredientID, qty float64) bool {
	e.needed[id] += qty
	return e.needed[id] <= e.resolver.graph.Available(id)+epsilon
}

func (e *Evaluator) cycleFrom(id RecipeID) error {
	start := 0
	for i, step := range e.path {
		if step == id {
			start = i
			break
		}
	}
	path := append([]RecipeID(nil), e.path[start:]...)
	return &CompositionCycleError{Path: append(path, id)}
}
