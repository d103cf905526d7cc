package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lifeec_auth_signin_total",
			Help: "Total number of sign-in attempts",
		},
	)

	// Password reset counter
	PasswordResetCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifeec_auth_password_reset_total",
			Help: "Total number of password reset operations",
		},
		[]string{"stage"}, // stage is "requested" or "completed"
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifeec_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "invalid_credentials", "invalid_token", "expired_reset_token" etc.
	)

	// Alert operation counter
	AlertOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifeec_alert_operations_total",
			Help: "Total number of emergency alert operations",
		},
		[]string{"operation"}, // operation can be "create", "delete", "recent", "monthly", "dashboard"
	)

	// Contact lookups by requester role
	ContactLookupCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifeec_contact_lookups_total",
			Help: "Total number of contact directory lookups by requester role",
		},
		[]string{"role"},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifeec_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lifeec_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lifeec_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // repository method, e.g. "alerts.recent"
	)
)

// Gauge metrics
var (
	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lifeec_info",
			Help: "Information about the care service",
		},
		[]string{"version"},
	)
)

func init() {
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(PasswordResetCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(AlertOperationCounter)
	prometheus.MustRegister(ContactLookupCounter)
	prometheus.MustRegister(HTTPRequestCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(InfoGauge)

	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures a database operation. Use as
// defer prometheus.TrackDBOperation("alerts.insert")()
func TrackDBOperation(operation string) func() {
	startTime := time.Now()
	return func() {
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(time.Since(startTime).Seconds())
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordAlertOperation records an alert engine operation
func RecordAlertOperation(operation string) {
	AlertOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordPasswordReset records a stage of the reset flow
func RecordPasswordReset(stage string) {
	PasswordResetCounter.With(prometheus.Labels{"stage": stage}).Inc()
}

// RecordContactLookup records a contact directory lookup
func RecordContactLookup(role string) {
	if role == "" {
		role = "none"
	}
	ContactLookupCounter.With(prometheus.Labels{"role": role}).Inc()
}
