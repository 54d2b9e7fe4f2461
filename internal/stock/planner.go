package stock

import "strings"

// OrderLine is one sold line of a settled order. A nil RecipeID has no stock
// impact. Lines sharing a non-empty GroupID are the same logical sale.
type OrderLine struct {
	RecipeID *RecipeID
	Quantity float64
	GroupID  string
}

// Plan is the consolidated set of deductions for a batch of order lines.
type Plan struct {
	Deductions Requirements
	Counted    int // lines that contributed
	Duplicates int // grouped lines skipped after the first
	Ignored    int // lines without a recipe or with a non-positive quantity
}

// Planner turns order lines into ingredient deductions using a pass resolver.
type Planner struct {
	resolver *Resolver
}

func NewPlanner(resolver *Resolver) *Planner {
	return &Planner{resolver: resolver}
}

// Plan consolidates order lines into one ingredient -> quantity mapping. For
// a group only the first line encountered is counted. The result depends only
// on the lines and the graph.
func (p *Planner) Plan(lines []OrderLine) (Plan, error) {
	plan := Plan{Deductions: make(Requirements)}
	seenGroups := make(map[string]struct{})

	for _, line := range lines {
		if group := strings.TrimSpace(line.GroupID); group != "" {
			if _, seen := seenGroups[group]; seen {
				plan.Duplicates++
				continue
			}
			seenGroups[group] = struct{}{}
		}
		if line.RecipeID == nil || line.Quantity <= 0 {
			plan.Ignored++
			continue
		}

		recipe, ok := p.resolver.graph.Recipe(*line.RecipeID)
		if !ok {
			return Plan{}, &UnresolvedCompositionError{RecipeID: *line.RecipeID}
		}
		if recipe.IsProxy() {
			plan.Deductions[*recipe.SourceIngredientID] += line.Quantity
			plan.Counted++
			continue
		}

		reqs, err := p.resolver.resolve(0, recipe.ID)
		if err != nil {
			return Plan{}, err
		}
		plan.Deductions.addScaled(reqs, line.Quantity)
		plan.Counted++
	}

	for id, qty := range plan.Deductions {
		if qty <= epsilon {
			delete(plan.Deductions, id)
		}
	}
	return plan, nil
}
