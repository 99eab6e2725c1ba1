package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SalesCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_sales_created_total",
		Help: "Total number of sales recorded",
	}, []string{"payment_method"})

	SalesRevenueTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_revenue_total",
		Help: "Sum of sale totals in the store currency",
	})

	SalesRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_sales_rejected_total",
		Help: "Total number of rejected sales",
	}, []string{"reason"})

	PurchasesReceivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_purchases_received_total",
		Help: "Total number of purchases received into stock",
	})

	StockUnitsMovedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_stock_units_moved_total",
		Help: "Units moved in or out of stock",
	}, []string{"type", "reason"})

	ForecastDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pos_forecast_duration_seconds",
		Help:    "Latency of inventory forecast computation",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
