package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricScansRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tallyd_scans_recorded_total",
		Help: "Scan events accepted into the ledger.",
	})
	metricScansDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tallyd_scans_duplicate_total",
		Help: "Scan events rejected because the asset was already checked in the cycle.",
	})
	metricAssetsReconciled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tallyd_assets_reconciled_total",
		Help: "Registry rows written by bulk reconciliation.",
	})
	metricExportsBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tallyd_exports_built_total",
		Help: "Reconciliation reports rendered, by mode.",
	}, []string{"mode"})
)
