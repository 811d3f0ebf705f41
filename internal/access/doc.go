// Package access decides which article a reader may see and who may change it.
//
// Resolve tries the actor's owner-scoped endpoint first, so authors can open
// their own drafts, and falls back once to the public endpoint when the owned
// lookup reports not found. Forbidden, unauthenticated and unknown failures are
// never retried. Delete gates removal on authorship and an injected Confirm.
package access
