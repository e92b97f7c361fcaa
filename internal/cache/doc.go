// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package cache provides a thread-safe, generic LRU cache with TTL expiry.

The recommendation engine stores computed responses here, keyed by mode,
seed title, k and snapshot version, so repeated queries against the same
snapshot skip the correlation pass.

# Behavior

  - O(1) Get, Add and Remove via a hashmap plus a doubly linked list
  - least recently used entry evicted when capacity is exceeded
  - lazy expiry on Get; CleanupExpired sweeps eagerly
  - RemoveFunc drops every entry whose key matches a predicate

# Example

	c := cache.NewLRUCache[*Response](1000, 10*time.Minute)
	c.Add("content:Heat (1995):5:3", resp)
	if r, ok := c.Get("content:Heat (1995):5:3"); ok {
	    return r
	}
*/
package cache
