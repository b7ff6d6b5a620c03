// Package store holds the authoritative node and edge set of a flow being edited.
//
// All mutation goes through Store methods so that identity invariants hold at all
// times: exactly one start node which cannot be deleted, unique node and edge ids,
// and no edge left behind when its node is removed. Subscribers are notified after
// every change, outside the store lock, and may read the store from the callback.
package store
