// Package metrics expone las métricas Prometheus de la aplicación.
// Se inicializan una sola vez en el arranque con el prefijo configurado.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Métricas HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Operaciones de inventario (create/update/delete por tipo de registro)
	InventoryOperationsTotal *prometheus.CounterVec

	// Rechazos del guard de stock (insufficient_stock, negative_stock)
	StockGuardRejectionsTotal *prometheus.CounterVec

	// Duración de operaciones de base de datos
	DBOperationDuration *prometheus.HistogramVec
)

// Init registra las métricas con el prefijo dado (ej. "almacen").
func Init(prefix string) {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total de peticiones HTTP",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP en segundos",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	InventoryOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_inventory_operations_total",
			Help: "Total de operaciones de inventario ejecutadas",
		},
		[]string{"entity", "operation"},
	)

	StockGuardRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_stock_guard_rejections_total",
			Help: "Mutaciones rechazadas por el guard de stock no negativo",
		},
		[]string{"reason"},
	)

	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duración de operaciones de base de datos en segundos",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
}

// RecordInventoryOperation incrementa el contador de operaciones de inventario.
// entity: product|arrival|expense; operation: create|update|delete.
func RecordInventoryOperation(entity, operation string) {
	if InventoryOperationsTotal != nil {
		InventoryOperationsTotal.WithLabelValues(entity, operation).Inc()
	}
}

// RecordStockGuardRejection incrementa el contador de rechazos del guard.
func RecordStockGuardRejection(reason string) {
	if StockGuardRejectionsTotal != nil {
		StockGuardRejectionsTotal.WithLabelValues(reason).Inc()
	}
}

// TrackDBOperation devuelve una función que registra la duración de una operación de BD.
//
//	defer metrics.TrackDBOperation("batch_stock")(time.Now())
func TrackDBOperation(operation string) func(start time.Time) {
	return func(start time.Time) {
		if DBOperationDuration != nil {
			DBOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		}
	}
}
