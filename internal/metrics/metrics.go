package metrics

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry holds this tool's collectors only, so a one-shot push carries no Go runtime noise.
var Registry = prometheus.NewRegistry()

var (
	Upserts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "miniapp_config",
		Name:      "upserts_total",
		Help:      "Completed upserts by environment and action (updated|inserted).",
	}, []string{"environment", "action"})
	Failures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "miniapp_config",
		Name:      "failures_total",
		Help:      "Failed runs by error kind.",
	}, []string{"kind"})
	DocumentRecords = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "miniapp_config",
		Name:      "document_records",
		Help:      "Records in the last document written, by environment.",
	}, []string{"environment"})
)

func init() {
	Registry.MustRegister(Upserts, Failures, DocumentRecords)
}

// Handler exposes Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Serve starts a /metrics server on the given addr (e.g., ":9090"). Blocks; run in a goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return http.ListenAndServe(addr, mux)
}

// Push sends the current values to a Pushgateway under job. Used by one-shot CLI runs.
func Push(url, job string) error {
	return push.New(url, job).Gatherer(Registry).Push()
}

// AddrFromEnv returns listen address from METRICS_ADDR or default ":9090".
func AddrFromEnv() string {
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		return v
	}
	return ":9090"
}

// PushURLFromEnv returns PUSHGATEWAY_URL; empty disables pushing.
func PushURLFromEnv() string {
	return os.Getenv("PUSHGATEWAY_URL")
}
