package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	AttendanceMarksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_attendance_marks_total",
			Help: "Attendance mutations by ledger and resulting action",
		},
		[]string{"ledger", "action"},
	)

	MembershipsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_memberships_total",
			Help: "Trainee membership lifecycle events",
		},
		[]string{"event"},
	)

	ExpiringMemberships = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymdesk_expiring_memberships",
			Help: "Memberships inside the expiry notification horizon at the last check",
		},
	)

	LiveSubscribers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gymdesk_live_subscribers",
			Help: "Open live feed subscriptions",
		},
		[]string{"feed"},
	)

	LiveRefreshFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_live_refresh_failures_total",
			Help: "Live feed snapshot fetches that failed",
		},
		[]string{"feed"},
	)

	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_exports_total",
			Help: "Rendered export documents",
		},
		[]string{"kind", "status"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordAttendance(ledger, action string) {
	AttendanceMarksTotal.WithLabelValues(ledger, action).Inc()
}

func RecordMembership(event string) {
	MembershipsTotal.WithLabelValues(event).Inc()
}

func RecordExport(kind, status string) {
	ExportsTotal.WithLabelValues(kind, status).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
