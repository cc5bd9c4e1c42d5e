// Package block defines the content unit the sync engine operates on.
//
// A Block mirrors one node of a remote page tree: an opaque kind tag, a
// kind-specific payload, and an ordered sidecar list of children. The package
// owns everything that depends on per-kind knowledge:
//
//   - Text extraction: a deterministic plain-text form per kind, used for
//     comparison and diagnostics.
//   - Fingerprint: a stable content digest excluding server-only metadata,
//     the currency of the diff engine.
//   - Wire adaptation: conversion between the fetched representation
//     (children as a sidecar) and the create/update payloads the remote API
//     accepts, including the per-kind mutability policy table.
//   - Builders: convenience constructors for local trees.
//
// Unknown kinds are not rejected anywhere; the remote schema evolves
// independently, so they pass through with only the universal children
// relocation applied.
package block
