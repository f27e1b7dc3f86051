package mvcc

// GC reclaims versions that are shadowed by a newer version and
// unobservable by any transaction that is active or could still begin
// before this call returns. It is cooperative: nothing calls it
// automatically, a host process invokes it on whatever cadence it likes.
//
// GC never holds more than one chain's mutex at a time — it visits chains
// one at a time via Engine.ForEach, which itself only ever holds segment
// locks while iterating, so this never violates the "never invoked while
// holding another node's version-chain mutex" rule.
func (s *Store[K, V]) GC() {
	minActive := s.txns.MinActive()
	s.engine.ForEach(func(_ K, chain *versionChain[V]) {
		chain.gc(minActive)
	})
}
