// Package metrics exposes the diagnostics surface — size, pool counters,
// and MVCC counters — as Prometheus instruments, collected from a store on
// every scrape rather than pushed on every mutation.
package metrics
