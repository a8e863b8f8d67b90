package metrics

import (
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "agenda"

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_created_total",
			Help:      "Bookings created by initial status and promotional price.",
		},
		[]string{"status", "promo"},
	)

	bookingConflict = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflict_total",
			Help:      "Rejected booking writes by detection source (rescan or unique index).",
		},
		[]string{"source"},
	)

	statusTransition = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_status_transition_total",
			Help:      "Booking status changes.",
		},
		[]string{"from", "to"},
	)

	calendarSyncFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calendar_sync_failed_total",
			Help:      "Calendar notifier calls that failed.",
		},
		[]string{"op"},
	)

	availabilitySummary = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_summary_total",
			Help:      "Availability grids served by summary.",
		},
		[]string{"summary"},
	)

	availabilityCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_cache_total",
			Help:      "Availability cache lookups by result.",
		},
		[]string{"result"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			bookingCreated,
			bookingConflict,
			statusTransition,
			calendarSyncFailed,
			availabilitySummary,
			availabilityCache,
		)
	})
}

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func IncBookingCreated(status string, promo bool) {
	bookingCreated.WithLabelValues(status, strconv.FormatBool(promo)).Inc()
}

func IncBookingConflict(source string) {
	bookingConflict.WithLabelValues(source).Inc()
}

func IncStatusTransition(from, to string) {
	statusTransition.WithLabelValues(from, to).Inc()
}

func IncCalendarSyncFailed(op string) {
	calendarSyncFailed.WithLabelValues(op).Inc()
}

func IncAvailabilitySummary(summary string) {
	availabilitySummary.WithLabelValues(summary).Inc()
}

func IncAvailabilityCache(result string) {
	availabilityCache.WithLabelValues(result).Inc()
}
