package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	applog "github.com/koresolucoes/KoreGastro2-sub002/internal/log"
	"github.com/koresolucoes/KoreGastro2-sub002/internal/stock"
	"github.com/koresolucoes/KoreGastro2-sub002/internal/store"
	"github.com/koresolucoes/KoreGastro2-sub002/internal/views/pages"
)

// StockEngine is the subset of *stock.Engine the HTTP surface uses.
type StockEngine interface {
	Menu(ctx context.Context, restaurantID uint) ([]stock.MenuEntry, error)
	Requirements(ctx context.Context, restaurantID uint, recipeID stock.RecipeID) (stock.Requirements, error)
	HasStock(ctx context.Context, restaurantID uint, recipeID stock.RecipeID) (bool, error)
	Plan(ctx context.Context, restaurantID uint, lines []stock.OrderLine) (stock.Plan, error)
	Settle(ctx context.Context, restaurantID uint, reason string, lines []stock.OrderLine) (stock.Settlement, <-chan stock.DispatchReport, error)
	Report(ctx context.Context, restaurantID uint) (stock.Report, error)
}

// OrderClaims reserves paid orders for settlement.
type OrderClaims interface {
	ClaimSettlement(ctx context.Context, orderID uint) (store.Claim, error)
	ReleaseSettlement(ctx context.Context, orderID uint) error
}

// Stock serves the stock endpoints.
type Stock struct {
	engine   StockEngine
	orders   OrderClaims
	validate *validator.Validate
}

func NewStock(engine StockEngine, orders OrderClaims) *Stock {
	return &Stock{engine: engine, orders: orders, validate: validator.New()}
}

// Register mounts the stock routes on mux.
func (h *Stock) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/restaurants/{rid}/menu", h.Menu)
	mux.HandleFunc("GET /api/restaurants/{rid}/recipes/{id}/requirements", h.Requirements)
	mux.HandleFunc("GET /api/restaurants/{rid}/recipes/{id}/availability", h.Availability)
	mux.HandleFunc("POST /api/restaurants/{rid}/deductions/plan", h.Plan)
	mux.HandleFunc("GET /api/restaurants/{rid}/stock/report", h.Report)
	mux.HandleFunc("POST /api/orders/{id}/settle", h.Settle)
}

type menuEntryResponse struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	InStock bool    `json:"in_stock"`
}

type quantityResponse struct {
	IngredientID uint    `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
}

type planResponse struct {
	Deductions []quantityResponse `json:"deductions"`
	Counted    int                `json:"counted"`
	Duplicates int                `json:"duplicates"`
	Ignored    int                `json:"ignored"`
}

type settleResponse struct {
	OrderID uint   `json:"order_id"`
	PassID  string `json:"pass_id"`
	planResponse
}

type planLineRequest struct {
	RecipeID *uint   `json:"recipe_id"`
	Quantity float64 `json:"quantity"`
	GroupID  string  `json:"group_id" validate:"max=64"`
}

type planRequest struct {
	Lines []planLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func quantities(reqs stock.Requirements) []quantityResponse {
	out := make([]quantityResponse, 0, len(reqs))
	for _, id := range reqs.IDs() {
		out = append(out, quantityResponse{IngredientID: uint(id), Quantity: reqs[id]})
	}
	return out
}

func toPlanResponse(plan stock.Plan) planResponse {
	return planResponse{
		Deductions: quantities(plan.Deductions),
		Counted:    plan.Counted,
		Duplicates: plan.Duplicates,
		Ignored:    plan.Ignored,
	}
}

// Menu lists sellable recipes with their stock availability.
func (h *Stock) Menu(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := pathID(r, "rid")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid restaurant id")
		return
	}
	entries, err := h.engine.Menu(r.Context(), restaurantID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	resp := make([]menuEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, menuEntryResponse{
			ID:      uint(entry.Recipe.ID),
			Name:    entry.Recipe.Name,
			Price:   entry.Recipe.Price,
			InStock: entry.InStock,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Requirements returns the raw ingredients one unit of a recipe consumes.
func (h *Stock) Requirements(w http.ResponseWriter, r *http.Request) {
	restaurantID, recipeID, ok := recipePath(w, r)
	if !ok {
		return
	}
	reqs, err := h.engine.Requirements(r.Context(), restaurantID, recipeID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"recipe_id":    uint(recipeID),
		"requirements": quantities(reqs),
	})
}

// Availability reports whether one unit of a recipe can be produced now.
func (h *Stock) Availability(w http.ResponseWriter, r *http.Request) {
	restaurantID, recipeID, ok := recipePath(w, r)
	if !ok {
		return
	}
	inStock, err := h.engine.HasStock(r.Context(), restaurantID, recipeID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"recipe_id": uint(recipeID),
		"in_stock":  inStock,
	})
}

// Plan computes deductions for ad-hoc order lines without dispatching them.
func (h *Stock) Plan(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := pathID(r, "rid")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid restaurant id")
		return
	}

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		applog.Debug(r.Context(), "invalid plan payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		applog.Debug(r.Context(), "plan payload failed validation", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	lines := make([]stock.OrderLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		converted := stock.OrderLine{Quantity: line.Quantity, GroupID: line.GroupID}
		if line.RecipeID != nil {
			id := stock.RecipeID(*line.RecipeID)
			converted.RecipeID = &id
		}
		lines = append(lines, converted)
	}

	plan, err := h.engine.Plan(r.Context(), restaurantID, lines)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanResponse(plan))
}

// Settle claims a paid order, plans its deductions and dispatches them in the
// background. The response does not wait for the ledger.
func (h *Stock) Settle(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "id")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	ctx := r.Context()

	claim, err := h.orders.ClaimSettlement(ctx, orderID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	settlement, _, err := h.engine.Settle(ctx, claim.RestaurantID, fmt.Sprintf("order %d", orderID), claim.Lines)
	if err != nil {
		if releaseErr := h.orders.ReleaseSettlement(context.WithoutCancel(ctx), orderID); releaseErr != nil {
			applog.Error(ctx, "failed to release settlement claim", "orderID", orderID, "error", releaseErr)
		}
		writeDomainError(w, r, err)
		return
	}

	applog.Info(ctx, "order settlement dispatched", "orderID", orderID, "pass", settlement.PassID)
	writeJSON(w, http.StatusAccepted, settleResponse{
		OrderID:      orderID,
		PassID:       settlement.PassID,
		planResponse: toPlanResponse(settlement.Plan),
	})
}

// Report renders ingredient levels and menu capacity as JSON, or as an HTML
// page when the client prefers it.
func (h *Stock) Report(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := pathID(r, "rid")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid restaurant id")
		return
	}
	report, err := h.engine.Report(r.Context(), restaurantID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pages.StockReport(report).Render(r.Context(), w); err != nil {
			applog.Error(r.Context(), "failed to render stock report", "error", err)
			http.Error(w, "failed to render report", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func recipePath(w http.ResponseWriter, r *http.Request) (uint, stock.RecipeID, bool) {
	restaurantID, ok := pathID(r, "rid")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid restaurant id")
		return 0, 0, false
	}
	recipeID, ok := pathID(r, "id")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid recipe id")
		return 0, 0, false
	}
	return restaurantID, stock.RecipeID(recipeID), true
}
