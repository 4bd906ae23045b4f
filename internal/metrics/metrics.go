package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CommandCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domovoice_commands_total",
			Help: "Handled utterances by intent and outcome.",
		},
		[]string{"intent", "outcome"},
	)

	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domovoice_domoticz_requests_total",
			Help: "Requests sent to the Domoticz JSON API by resource type and outcome.",
		},
		[]string{"type", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(CommandCounter, RequestCounter)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
