// Package core implements the deferred version-bump engine:
// strategy arithmetic over semantic versions, the per-change pending
// release record, and the resolver merging all records into a single
// ledger of pending versions.
//
// Operations in this package are pure or synchronous-to-the-caller;
// suspension only happens at storage boundaries.
package core
