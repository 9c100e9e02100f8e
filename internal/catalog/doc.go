// Package catalog owns the static BLE layer descriptors.
//
// Ownership boundary:
// - closed layer id enumeration
// - layer, field and command descriptors
// - one-time validation (ids, field kinds, targets, acyclic encapsulation)
// - built-in content and the TOML file format
//
// A *Catalog is immutable after New returns and safe to share.
package catalog
