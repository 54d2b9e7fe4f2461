package stock

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSnapshotFetch         = errors.New("stock: snapshot fetch failed")
	ErrUnknownRecipe         = errors.New("stock: recipe not found")
	ErrUnresolvedComposition = errors.New("stock: composition references a missing recipe")
	ErrCompositionCycle      = errors.New("stock: circular composition")
	ErrLedgerDeduction       = errors.New("stock: ledger deduction failed")
)

// SnapshotFetchError wraps a failed read of the composition snapshot. The pass
// that hit it must be abandoned.
type SnapshotFetchError struct {
	RestaurantID uint
	Err          error
}

func (e *SnapshotFetchError) Error() string {
	return fmt.Sprintf("stock: fetch snapshot for restaurant %d: %v", e.RestaurantID, e.Err)
}

func (e *SnapshotFetchError) Unwrap() error { return e.Err }

func (e *SnapshotFetchError) Is(target error) bool { return target == ErrSnapshotFetch }

// UnresolvedCompositionError reports a reference to a recipe that is absent
// from the loaded snapshot. ParentID is zero when the reference came from an
// order line rather than a sub-recipe edge.
type UnresolvedCompositionError struct {
	ParentID RecipeID
	RecipeID RecipeID
}

func (e *UnresolvedCompositionError) Error() string {
	if e.ParentID == 0 {
		return fmt.Sprintf("stock: order line references missing recipe %d", e.RecipeID)
	}
	return fmt.Sprintf("stock: recipe %d nests missing sub-recipe %d", e.ParentID, e.RecipeID)
}

func (e *UnresolvedCompositionError) Is(target error) bool {
	return target == ErrUnresolvedComposition
}

// CompositionCycleError carries the recipe path that loops back on itself.
// The first and last elements of Path are the same recipe.
type CompositionCycleError struct {
	Path []RecipeID
}

func (e *CompositionCycleError) Error() string {
	parts := make([]string, 0, len(e.Path))
	for _, id := range e.Path {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return fmt.Sprintf("stock: circular composition %s", strings.Join(parts, " -> "))
}

func (e *CompositionCycleError) Is(target error) bool { return target == ErrCompositionCycle }

// LedgerDeductionFailure is recorded per ingredient when the ledger rejects a
// delta. It never fails the pass on its own.
type LedgerDeductionFailure struct {
	IngredientID IngredientID
	Delta        float64
	Err          error
}

func (e *LedgerDeductionFailure) Error() string {
	return fmt.Sprintf("stock: deduct %g of ingredient %d: %v", -e.Delta, e.IngredientID, e.Err)
}

func (e *LedgerDeductionFailure) Unwrap() error { return e.Err }

func (e *LedgerDeductionFailure) Is(target error) bool { return target == ErrLedgerDeduction }
