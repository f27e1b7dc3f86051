package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/corvusdb/skipdb/internal/index"
	"github.com/corvusdb/skipdb/internal/mvcc"
)

// IndexSource is anything that can report the plain (non-MVCC) diagnostics
// surface — implemented by *index.Engine.
type IndexSource interface {
	Size() int64
	PoolStats() index.PoolStats
}

// StoreSource is anything that can report the MVCC diagnostics surface —
// implemented by *mvcc.Store.
type StoreSource interface {
	Size() int64
	Stats() mvcc.Stats
}

// RegisterIndex wires size and pool gauges into reg, each read live from
// src on every scrape rather than pushed on every mutation — the index
// itself stays free of any metrics dependency.
func RegisterIndex(reg *prometheus.Registry, src IndexSource) error {
	size := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "skipdb_size",
		Help: "Number of live keys in the index.",
	}, func() float64 { return float64(src.Size()) })

	allocated := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "skipdb_pool_allocated_total",
		Help: "Total nodes allocated fresh by the node pool.",
	}, func() float64 { return float64(src.PoolStats().Allocated) })

	reused := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "skipdb_pool_reused_total",
		Help: "Total nodes served from the node pool's free list.",
	}, func() float64 { return float64(src.PoolStats().Reused) })

	freeList := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "skipdb_pool_free_list_size",
		Help: "Current number of nodes sitting in the pool's free list.",
	}, func() float64 { return float64(src.PoolStats().FreeListSize) })

	for _, c := range []prometheus.Collector{size, allocated, reused, freeList} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RegisterStore wires the MVCC diagnostics surface into reg: size,
// commits, aborts, active_transactions, and total_versions.
func RegisterStore(reg *prometheus.Registry, src StoreSource) error {
	size := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "skipdb_mvcc_size",
		Help: "Number of live keys in the MVCC store.",
	}, func() float64 { return float64(src.Size()) })

	commits := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "skipdb_mvcc_commits_total",
		Help: "Total transactions committed.",
	}, func() float64 { return float64(src.Stats().Txns.Commits) })

	aborts := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "skipdb_mvcc_aborts_total",
		Help: "Total transactions aborted.",
	}, func() float64 { return float64(src.Stats().Txns.Aborts) })

	active := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "skipdb_mvcc_active_transactions",
		Help: "Transactions currently Active.",
	}, func() float64 { return float64(src.Stats().Txns.ActiveTransactions) })

	totalVersions := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "skipdb_mvcc_total_versions",
		Help: "Sum of version-chain lengths across every key.",
	}, func() float64 { return float64(src.Stats().TotalVersions) })

	for _, c := range []prometheus.Collector{size, commits, aborts, active, totalVersions} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
