// Package aggregates persists the group → collection → coin hierarchy.
//
// Every operation takes a dbctx.Context. With a nil Tx the operation owns its
// unit of work: it begins a transaction through the injected TxRunner, commits
// on success and rolls back on the first error. With a non-nil Tx the caller
// owns the boundary and the operation only executes statements on it.
//
// Writes cascade top-down inside one unit of work. Reads assemble bottom-up by
// attaching coins to collections by collection id and collections to groups by
// group id.
package aggregates
