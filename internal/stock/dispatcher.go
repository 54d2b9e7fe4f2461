package stock

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	applog "github.com/koresolucoes/KoreGastro2-sub002/internal/log"
)

// Adjustment is one signed stock delta submitted to the ledger.
type Adjustment struct {
	RestaurantID uint
	IngredientID IngredientID
	Delta        float64
	Reason       string
	BatchID      string
}

// Ledger applies atomic per-ingredient stock adjustments. Lot selection is
// entirely the ledger's business.
type Ledger interface {
	AdjustStock(ctx context.Context, adj Adjustment) error
}

// DeductionResult is the outcome for one plan entry. Skipped entries carried
// no positive quantity and never reached the ledger.
type DeductionResult struct {
	IngredientID IngredientID
	Quantity     float64
	Skipped      bool
	Err          error
}

func (r DeductionResult) OK() bool { return r.Err == nil }

// Dispatcher fans a deduction plan out to the ledger, one call per
// ingredient, and collects every outcome.
type Dispatcher struct {
	ledger Ledger
	limit  int
}

func NewDispatcher(ledger Ledger, concurrency int) *Dispatcher {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Dispatcher{ledger: ledger, limit: concurrency}
}

// Apply issues a negative delta for every positive entry. Zero and negative
// entries are reported as skipped. A failed call is recorded as a
// *LedgerDeductionFailure and does not stop the others. Nothing is retried.
// Results cover every entry and are ordered by ingredient id.
func (d *Dispatcher) Apply(ctx context.Context, restaurantID uint, batchID string, deductions Requirements, reason string) []DeductionResult {
	ctx, span := tracer.Start(ctx, "stock.Dispatcher.Apply")
	defer span.End()
	started := time.Now()

	ids := deductions.IDs()
	results := make([]DeductionResult, len(ids))
	skipped := 0

	var g errgroup.Group
	g.SetLimit(d.limit)
	for i, id := range ids {
		qty := deductions[id]
		if qty <= epsilon {
			results[i] = DeductionResult{IngredientID: id, Quantity: qty, Skipped: true}
			skipped++
			if qty < -epsilon {
				applog.Warn(ctx, "negative stock deduction skipped",
					"batch", batchID,
					"ingredientID", uint(id),
					"quantity", qty,
					"reason", reason,
				)
			}
			continue
		}
		g.Go(func() error {
			adj := Adjustment{
				RestaurantID: restaurantID,
				IngredientID: id,
				Delta:        -qty,
				Reason:       reason,
				BatchID:      batchID,
			}
			results[i] = DeductionResult{IngredientID: id, Quantity: qty}
			if err := d.ledger.AdjustStock(ctx, adj); err != nil {
				results[i].Err = &LedgerDeductionFailure{IngredientID: id, Delta: adj.Delta, Err: err}
				applog.Error(ctx, "stock deduction failed",
					"batch", batchID,
					"ingredientID", uint(id),
					"delta", adj.Delta,
					"reason", reason,
					"error", err,
				)
			}
			ledgerCallTotal.WithLabelValues(resultLabel(results[i].Err)).Inc()
			return nil
		})
	}
	_ = g.Wait()

	failed := countFailures(results)
	dispatchDuration.Observe(time.Since(started).Seconds())
	span.SetAttributes(
		attribute.String("stock.batch", batchID),
		attribute.Int("stock.ingredients", len(results)),
		attribute.Int("stock.failed", failed),
		attribute.Int("stock.skipped", skipped),
	)
	if failed > 0 {
		span.SetStatus(codes.Error, "partial ledger failure")
	}
	return results
}

// DispatchReport is delivered once an asynchronous dispatch completes.
type DispatchReport struct {
	BatchID string
	Results []DeductionResult
	Failed  int
}

// ApplyAsync runs Apply in the background and delivers the report on a
// buffered channel, so callers may await it or drop it.
func (d *Dispatcher) ApplyAsync(ctx context.Context, restaurantID uint, batchID string, deductions Requirements, reason string) <-chan DispatchReport {
	done := make(chan DispatchReport, 1)
	go func() {
		defer close(done)
		results := d.Apply(ctx, restaurantID, batchID, deductions, reason)
		done <- DispatchReport{BatchID: batchID, Results: results, Failed: countFailures(results)}
	}()
	return done
}

func countFailures(results []DeductionResult) int {
	failed := 0
	for _, result := range results {
		if !result.OK() {
			failed++
		}
	}
	return failed
}
