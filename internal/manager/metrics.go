package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	metricInitializations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mapbuilder",
			Subsystem: "lifecycle",
			Name:      "initializations_total",
			Help:      "Total Initialize calls by result",
		},
		[]string{"result"},
	)

	metricStyleSetups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mapbuilder",
			Subsystem: "lifecycle",
			Name:      "style_setups_total",
			Help:      "Total style-load setups (sources and layers) by result",
		},
		[]string{"result"},
	)

	metricImages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mapbuilder",
			Subsystem: "lifecycle",
			Name:      "images_total",
			Help:      "Image outcomes: registered, failed or discarded",
		},
		[]string{"outcome"},
	)

	metricDestroys = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mapbuilder",
			Subsystem: "lifecycle",
			Name:      "destroys_total",
			Help:      "Total completed Destroy calls",
		},
	)

	metricActiveMaps = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mapbuilder",
			Subsystem: "lifecycle",
			Name:      "active_maps",
			Help:      "Engine instances created and not yet disposed",
		},
	)
)

func init() {
	prometheus.MustRegister(metricInitializations, metricStyleSetups, metricImages, metricDestroys, metricActiveMaps)
}
