// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package recommend answers "movies like this one" queries for a seed title.

# Strategies

Content-based: movies are ranked by the cosine similarity of their genre
vectors to the seed's. Ties keep catalog order.

Collaborative: titles are ranked by the Pearson correlation of their user
ratings with the seed's, computed over users who rated both. Only titles
with more than Config.MinRatingCount ratings are eligible, and ties are
ordered by title.

Neither strategy ever returns the seed title, and both return at most k
results. An unknown title yields an empty list, not an error.

# Snapshots

BuildSnapshot turns a loaded catalog.Catalog into an immutable Snapshot
holding the precomputed similarity matrix and user-item matrix. The Engine
keeps the current snapshot behind an atomic pointer, so queries never block
on a reload and a failed reload leaves the previous snapshot serving.

	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
	engine.SetSource(catalog.FileSource{MoviesPath: m, RatingsPath: r})
	if err := engine.Reload(ctx); err != nil {
	    return err
	}
	resp, err := engine.Recommend(ctx, recommend.Request{
	    Title: "Toy Story (1995)",
	    K:     5,
	    Mode:  recommend.ModeContent,
	})

# Caching

Responses are cached per snapshot version. PurgeCache drops entries from
older versions once a reload has been announced.

# Integration

Publisher and Observer decouple the engine from the event bus and the
metrics registry; this package imports neither.
*/
package recommend
