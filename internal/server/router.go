package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/koresolucoes/KoreGastro2-sub002/internal/handlers"
	applog "github.com/koresolucoes/KoreGastro2-sub002/internal/log"
)

func newRouter(health *handlers.Health, stock *handlers.Stock) http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")
	mux.Handle("GET /healthz", health)
	applog.Debug(context.Background(), "route registered", "path", "/healthz")
	mux.Handle("GET /metrics", promhttp.Handler())
	applog.Debug(context.Background(), "route registered", "path", "/metrics")
	if stock != nil {
		stock.Register(mux)
		applog.Debug(context.Background(), "route registered", "path", "/api/", "stock", true)
	}
	return mux
}
