package stock

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("koregastro.stock")

var (
	passTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_pass_total",
		Help: "Resolution passes by operation and result",
	}, []string{"operation", "result"})

	ledgerCallTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_ledger_call_total",
		Help: "Ledger deduction calls by result",
	}, []string{"result"})

	dispatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stock_dispatch_duration_seconds",
		Help:    "Time to fan out one deduction plan to the ledger",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})
)

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
