// Package state provides thread-safe list state shared by the poller and the UI.
//
// # Overview
//
// The Store holds the latest page of whichever article list the user is
// looking at: the public feed or their own articles. The background poller
// and the UI both refresh it; the UI renders from Snapshot.
//
// # Generations
//
// Switching list or page calls SetQuery, which bumps a generation number.
// A fetch captures the generation it started under (Current) and hands it
// back to Update. Results carrying an older generation are dropped, so a
// slow response never replaces the page the user navigated to since.
//
//	gen := store.SetQuery(state.Query{Scope: state.ScopeMine, Page: 2})
//	page, err := state.Fetch(ctx, client, actor, q)
//	if !store.Update(gen, &page, err) {
//		// user moved on; result discarded
//	}
//
// # Update Semantics
//
// On success the page replaces the stored articles and the failure counter
// resets. On error the previous articles are kept and the error is recorded,
// so the list stays visible while the API is unreachable. IsOffline reports
// two or more consecutive failures.
//
// # Deletion
//
// Remove drops an article locally once the server has confirmed the delete.
// The next poll reconciles the page with the server.
//
// # Defensive Copying
//
// Update and Snapshot copy the article slice. Snapshots are safe to read
// and mutate without holding the lock.
package state
