// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package candidates resolves nomination queries to stored movie records.

	cache, err := candidates.NewCache(lookup, store, 256)
	movie, err := cache.Resolve(ctx, candidates.ParseQuery("Heat (1995)"), "alice")

Resolution order: in-memory LRU, then the candidate table, then the lookup
service. A movie fetched from the lookup service is stored once and never
refetched. Concurrent resolutions of the same query share one lookup, and a
lookup that times out is retried once.
*/
package candidates
