package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	HttpRateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"service"},
	)

	// Business metrics
	RescuesByState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rescues_by_state",
			Help: "Current number of rescues per derived state",
		},
		[]string{"service", "state"},
	)

	RescueEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rescue_events_total",
			Help: "Total number of rescue mutations by event kind",
		},
		[]string{"service", "kind"},
	)

	LocationReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_reports_total",
			Help: "Total number of rescuer location reports by outcome",
		},
		[]string{"service", "result"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of notifications produced",
		},
		[]string{"service", "type"},
	)

	// Stream metrics
	StreamSubscribersGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stream_subscribers_total",
			Help: "Current number of live stream subscriptions",
		},
		[]string{"service", "channel"},
	)

	StreamDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_deliveries_total",
			Help: "Total number of stream deliveries by outcome",
		},
		[]string{"service", "result"},
	)

	WebSocketConnectionsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket connections",
		},
		[]string{"service"},
	)

	// Infrastructure metrics
	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"service", "operation", "status"},
	)

	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"service", "exchange", "status"},
	)

	RabbitMQMessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_consumed_total",
			Help: "Total number of messages consumed from RabbitMQ",
		},
		[]string{"service", "queue", "status"},
	)
)

// ServiceName is the "service" label used by helpers that are not handed one explicitly.
var ServiceName = "rescue"

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, status).Observe(duration.Seconds())
}

// RecordDatabaseQuery records database query metrics
func RecordDatabaseQuery(operation string, err error, duration time.Duration) {
	DatabaseQueriesTotal.WithLabelValues(ServiceName, operation, status(err)).Inc()
	DatabaseQueryDuration.WithLabelValues(ServiceName, operation).Observe(duration.Seconds())
}

// RecordRabbitMQPublish records RabbitMQ publish metrics
func RecordRabbitMQPublish(exchange string, err error) {
	RabbitMQMessagesPublished.WithLabelValues(ServiceName, exchange, status(err)).Inc()
}

// RecordRabbitMQConsume records RabbitMQ consume metrics
func RecordRabbitMQConsume(queue string, err error) {
	RabbitMQMessagesConsumed.WithLabelValues(ServiceName, queue, status(err)).Inc()
}

func RecordRescueEvent(kind string) {
	RescueEventsTotal.WithLabelValues(ServiceName, kind).Inc()
}

func RecordLocationReport(result string) {
	LocationReportsTotal.WithLabelValues(ServiceName, result).Inc()
}

func RecordNotification(notificationType string) {
	NotificationsTotal.WithLabelValues(ServiceName, notificationType).Inc()
}

func RecordStreamDelivery(result string) {
	StreamDeliveriesTotal.WithLabelValues(ServiceName, result).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func SetStreamSubscribers(channel string, n int) {
	StreamSubscribersGauge.WithLabelValues(ServiceName, channel).Set(float64(n))
}

func SetRescuesByState(state string, n int) {
	RescuesByState.WithLabelValues(ServiceName, state).Set(float64(n))
}
