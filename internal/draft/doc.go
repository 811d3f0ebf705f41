// Package draft implements the article form: draft/published transitions,
// schedule coercion between local wall-clock input and UTC instants, change
// detection against the loaded article, and live reading metrics.
package draft
