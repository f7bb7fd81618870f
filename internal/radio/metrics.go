package radio

import "github.com/prometheus/client_golang/prometheus"

var (
	ConnectedSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "radio_connected_sessions",
		Help: "Number of currently connected telnet sessions",
	})

	EventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "radio_events_total",
		Help: "Total menu events processed by type",
	}, []string{"type"})

	EventProcessingDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "radio_event_processing_seconds",
		Help:    "Time to process each menu event type",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})

	BroadcastWriteFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "radio_broadcast_write_failures_total",
		Help: "Sink writes that failed during broadcast fan-out",
	})

	TelnetCommands = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "radio_telnet_commands_total",
		Help: "Telnet negotiation commands by direction and verb",
	}, []string{"direction", "verb"})

	DroppedKeys = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "radio_dropped_keys_total",
		Help: "Key presses dropped by the per-session input rate limit",
	})
)

func init() {
	prometheus.MustRegister(ConnectedSessions)
	prometheus.MustRegister(EventsTotal)
	prometheus.MustRegister(EventProcessingDuration)
	prometheus.MustRegister(BroadcastWriteFailures)
	prometheus.MustRegister(TelnetCommands)
	prometheus.MustRegister(DroppedKeys)
}
