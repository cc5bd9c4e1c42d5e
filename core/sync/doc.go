// Package sync executes edit scripts against the remote block store, turning
// the plan produced by core/diff into ordered create, update, and delete
// calls.
package sync
