package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SalesCreated cuenta ventas confirmadas (stock ya descontado).
	SalesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vetadmin_sales_created_total",
		Help: "Total number of sales created",
	})

	// SalesRejected por motivo: insufficient_stock, not_found, validation.
	SalesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vetadmin_sales_rejected_total",
		Help: "Sales rejected before any mutation, by reason",
	}, []string{"reason"})

	SalesPaid = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vetadmin_sales_paid_total",
		Help: "Sales that transitioned to paid",
	})

	PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vetadmin_payments_recorded_total",
		Help: "Payments recorded, by method",
	}, []string{"method"})

	// PartialFailures por operación compuesta (sale.create, pet_disease.record, ...).
	PartialFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vetadmin_partial_failures_total",
		Help: "Multi-step operations that failed after applying some steps",
	}, []string{"operation"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vetadmin_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	NotificationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vetadmin_notifications_failed_total",
		Help: "Domain notifications that could not be published",
	}, []string{"type"})
)
