package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	applog "github.com/koresolucoes/KoreGastro2-sub002/internal/log"
)

// Engine runs resolution passes against snapshots read from a SnapshotSource.
// Every call loads its own graph; nothing is cached between calls.
type Engine struct {
	source        SnapshotSource
	dispatcher    *Dispatcher
	policy        Policy
	settleTimeout time.Duration
	now           func() time.Time
}

type Option func(*Engine)

func WithPolicy(policy Policy) Option {
	return func(e *Engine) { e.policy = policy }
}

func WithDispatchConcurrency(n int) Option {
	return func(e *Engine) { e.dispatcher.limit = max(n, 1) }
}

// WithSettleTimeout bounds the background dispatch started by Settle.
// Non-positive durations keep the default.
func WithSettleTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.settleTimeout = d
		}
	}
}

func NewEngine(source SnapshotSource, ledger Ledger, opts ...Option) *Engine {
	e := &Engine{
		source:        source,
		dispatcher:    NewDispatcher(ledger, 8),
		policy:        PolicyUnavailable,
		settleTimeout: 30 * time.Second,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type pass struct {
	id       string
	graph    *Graph
	resolver *Resolver
	span     trace.Span
	op       string
}

func (e *Engine) begin(ctx context.Context, op string, restaurantID uint) (context.Context, *pass, error) {
	ctx, span := tracer.Start(ctx, "stock."+op)
	p := &pass{id: uuid.NewString(), span: span, op: op}
	span.SetAttributes(
		attribute.String("stock.pass", p.id),
		attribute.Int64("stock.restaurant", int64(restaurantID)),
	)

	graph, err := LoadGraph(ctx, e.source, restaurantID)
	if err != nil {
		p.finish(ctx, err)
		return ctx, nil, err
	}
	p.graph = graph
	p.resolver = NewResolver(graph)
	applog.Debug(ctx, "stock pass started", "pass", p.id, "op", op, "restaurantID", restaurantID)
	return ctx, p, nil
}

func (p *pass) finish(ctx context.Context, err error) {
	passTotal.WithLabelValues(p.op, resultLabel(err)).Inc()
	if err != nil {
		p.span.RecordError(err)
		p.span.SetStatus(codes.Error, err.Error())
		applog.Error(ctx, "stock pass failed", "pass", p.id, "op", p.op, "error", err)
	}
	p.span.End()
}

// Requirements resolves one unit of a recipe into raw ingredients.
func (e *Engine) Requirements(ctx context.Context, restaurantID uint, recipeID RecipeID) (reqs Requirements, err error) {
	ctx, p, err := e.begin(ctx, "Requirements", restaurantID)
	if err != nil {
		return nil, err
	}
	defer func() { p.finish(ctx, err) }()

	return p.resolver.Resolve(recipeID)
}

// HasStock reports whether one unit of the recipe can be produced now.
func (e *Engine) HasStock(ctx context.Context, restaurantID uint, recipeID RecipeID) (ok bool, err error) {
	ctx, p, err := e.begin(ctx, "HasStock", restaurantID)
	if err != nil {
		return false, err
	}
	defer func() { p.finish(ctx, err) }()

	return NewEvaluator(p.resolver, e.policy).HasStock(recipeID)
}

// MenuEntry is a sellable recipe with its current stock availability.
type MenuEntry struct {
	Recipe  Recipe
	InStock bool
}

// Menu lists the recipes a customer may order: not sub-recipes, flagged
// available by the merchant, annotated with stock availability.
func (e *Engine) Menu(ctx context.Context, restaurantID uint) (entries []MenuEntry, err error) {
	ctx, p, err := e.begin(ctx, "Menu", restaurantID)
	if err != nil {
		return nil, err
	}
	defer func() { p.finish(ctx, err) }()

	evaluator := NewEvaluator(p.resolver, e.policy)
	for _, recipe := range p.graph.Recipes() {
		if recipe.IsSubRecipe || !recipe.IsAvailable {
			continue
		}
		inStock, err := evaluator.HasStock(recipe.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, MenuEntry{Recipe: recipe, InStock: inStock})
	}
	return entries, nil
}

// Plan computes deductions for order lines without touching the ledger.
func (e *Engine) Plan(ctx context.Context, restaurantID uint, lines []OrderLine) (plan Plan, err error) {
	ctx, p, err := e.begin(ctx, "Plan", restaurantID)
	if err != nil {
		return Plan{}, err
	}
	defer func() { p.finish(ctx, err) }()

	return NewPlanner(p.resolver).Plan(lines)
}

// Settlement describes a plan handed to the ledger.
type Settlement struct {
	PassID string
	Plan   Plan
}

// Settle plans the deductions for a paid order and dispatches them in the
// background. Planning errors are returned; ledger failures are not, they
// arrive on the report channel. The dispatch outlives ctx cancellation and is
// bounded by the settle timeout instead.
func (e *Engine) Settle(ctx context.Context, restaurantID uint, reason string, lines []OrderLine) (Settlement, <-chan DispatchReport, error) {
	var plan Plan
	ctx, p, err := e.begin(ctx, "Settle", restaurantID)
	if err != nil {
		return Settlement{}, nil, err
	}
	plan, err = NewPlanner(p.resolver).Plan(lines)
	p.finish(ctx, err)
	if err != nil {
		return Settlement{}, nil, err
	}

	settlement := Settlement{PassID: p.id, Plan: plan}
	dispatchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.settleTimeout)
	inner := e.dispatcher.ApplyAsync(dispatchCtx, restaurantID, p.id, plan.Deductions, reason)

	out := make(chan DispatchReport, 1)
	go func() {
		defer close(out)
		defer cancel()
		report, ok := <-inner
		if !ok {
			return
		}
		if report.Failed > 0 {
			applog.Warn(dispatchCtx, "stock settlement applied with failures",
				"pass", p.id, "failed", report.Failed, "total", len(report.Results), "reason", reason)
		} else {
			applog.Info(dispatchCtx, "stock settlement applied",
				"pass", p.id, "ingredients", len(report.Results), "reason", reason)
		}
		out <- report
	}()
	return settlement, out, nil
}
